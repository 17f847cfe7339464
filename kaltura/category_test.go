package kaltura

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesFullPath(t *testing.T) {
	gw := newFakeGateway()
	resolver := NewResolver(gw)

	ids, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"Tapestry", "site-a", "2026-08-31", "H5P"})
	require.NoError(t, err)
	require.Len(t, ids, 4)
	require.Equal(t, 4, gw.createCalls)

	// Every node must exist with the expected fullName.
	require.Contains(t, gw.categories, "Tapestry")
	require.Contains(t, gw.categories, "Tapestry>site-a")
	require.Contains(t, gw.categories, "Tapestry>site-a>2026-08-31")
	require.Contains(t, gw.categories, "Tapestry>site-a>2026-08-31>H5P")

	// One admin session, lazily started and reused for all creates.
	require.Equal(t, 1, gw.sessionCalls[SessionTypeAdmin])
}

func TestResolveTwiceIsIdempotent(t *testing.T) {
	gw := newFakeGateway()
	resolver := NewResolver(gw)
	path := []string{"Tapestry", "site-a", "H5P"}

	first, err := resolver.ResolvePath(context.Background(), "ks-user", path)
	require.NoError(t, err)

	second, err := resolver.ResolvePath(context.Background(), "ks-user", path)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 3, gw.createCalls, "each node must be created exactly once")
}

func TestResolveReusesExistingPrefix(t *testing.T) {
	gw := newFakeGateway()
	root := gw.seed("Tapestry")
	site := gw.seed("Tapestry>site-a")

	resolver := NewResolver(gw)
	ids, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"Tapestry", "site-a", "H5P"})
	require.NoError(t, err)

	require.Equal(t, root.ID, ids[0])
	require.Equal(t, site.ID, ids[1])
	require.Equal(t, 1, gw.createCalls, "only the missing suffix is created")
}

func TestResolveSiblingsShareAncestor(t *testing.T) {
	gw := newFakeGateway()
	resolver := NewResolver(gw)

	abIDs, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"A", "B"})
	require.NoError(t, err)

	acIDs, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"A", "C"})
	require.NoError(t, err)

	require.Equal(t, abIDs[0], acIDs[0], "A is shared")
	require.NotEqual(t, abIDs[1], acIDs[1])
	require.Equal(t, 3, gw.createCalls, "exactly one A, one B, one C")
}

func TestResolveValidatesPath(t *testing.T) {
	gw := newFakeGateway()
	resolver := NewResolver(gw)

	_, err := resolver.ResolvePath(context.Background(), "ks-user", nil)
	require.Error(t, err)

	_, err = resolver.ResolvePath(context.Background(), "ks-user", []string{"A", " ", "C"})
	require.Error(t, err)

	_, err = resolver.ResolvePath(context.Background(), "ks-user", []string{"A", "B>C"})
	require.Error(t, err)

	require.Equal(t, 0, gw.listCalls, "validation happens before any remote call")
	require.Equal(t, 0, gw.createCalls)
}

func TestResolveLazyAdminSession(t *testing.T) {
	gw := newFakeGateway()
	gw.seed("A")
	gw.seed("A>B")

	resolver := NewResolver(gw)
	_, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"A", "B"})
	require.NoError(t, err)

	require.Equal(t, 0, gw.sessionCalls[SessionTypeAdmin],
		"no admin session when nothing is created")
}

func TestResolveListErrorPropagates(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = errors.New("listing exploded")

	resolver := NewResolver(gw)
	_, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"A"})
	require.ErrorContains(t, err, "listing exploded")
}

func TestResolveCreateErrorKeepsEarlierNodes(t *testing.T) {
	gw := newFakeGateway()
	gw.seed("A")
	gw.createErr = errors.New("quota exceeded")

	resolver := NewResolver(gw)
	_, err := resolver.ResolvePath(context.Background(), "ks-user", []string{"A", "B"})
	require.ErrorContains(t, err, "quota exceeded")

	// No rollback: A is untouched, B was never created.
	require.Contains(t, gw.categories, "A")
	require.NotContains(t, gw.categories, "A>B")
}

func TestResolveAdoptsConcurrentlyCreatedNode(t *testing.T) {
	gw := newFakeGateway()
	resolver := NewResolver(gw)

	// Two callers resolve the same fresh path concurrently. Whoever
	// loses a create gets DUPLICATE_CATEGORY from the fake and must
	// adopt the winner's node instead of failing or duplicating it.
	const workers = 2
	path := []string{"Shared", "Deep", "Leaf"}
	results := make([][]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.ResolvePath(context.Background(), "ks-user", path)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}
	require.Equal(t, results[0], results[1], "both callers resolve to the same nodes")

	// Exactly one node per segment, no duplicate siblings.
	count := 0
	for fullName := range gw.categories {
		if fullName == "Shared" || fullName == "Shared>Deep" || fullName == "Shared>Deep>Leaf" {
			count++
		}
	}
	require.Equal(t, 3, count)
}
