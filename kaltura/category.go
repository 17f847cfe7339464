package kaltura

import (
	"context"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const adoptAttempts = 3

// Resolver maps an ordered category path to the ids of the nodes along
// it, creating any missing nodes. Repeated resolution of the same path
// never duplicates a node: identity is keyed by fullName, and the whole
// subtree under the root segment is fetched once and walked locally.
type Resolver struct {
	gw Gateway
}

// NewResolver creates a category path resolver on top of gw.
func NewResolver(gw Gateway) *Resolver {
	return &Resolver{gw: gw}
}

// ResolvePath returns the category ids along path, root to leaf. ks is
// an ordinary user session used for listing; an admin session is started
// lazily on the first create and reused for the rest of the call.
//
// Nodes created before a later failure are left in place. A retry of the
// same path finds them by fullName instead of duplicating them.
func (r *Resolver) ResolvePath(ctx context.Context, ks Session, path []string) ([]int, error) {
	if len(path) == 0 {
		return nil, errors.New("category path is empty")
	}
	for _, seg := range path {
		if strings.TrimSpace(seg) == "" {
			return nil, errors.New("category path contains an empty segment")
		}
		if strings.Contains(seg, CategorySeparator) {
			return nil, errors.Errorf("category segment %q contains the separator %q", seg, CategorySeparator)
		}
	}

	// One listing covers the whole candidate subtree.
	existing, err := r.gw.ListCategories(ctx, ks, path[0])
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	byFullName := make(map[string]Category, len(existing))
	for _, c := range existing {
		byFullName[c.FullName] = c
	}

	// Admin session slot, filled on first create only.
	var adminKS Session
	admin := func() (Session, error) {
		if adminKS != "" {
			return adminKS, nil
		}
		s, err := r.gw.StartSession(ctx, SessionTypeAdmin)
		if err != nil {
			return "", errors.Wrap(err, "start admin session")
		}
		adminKS = s
		return adminKS, nil
	}

	ids := make([]int, 0, len(path))
	parentID := 0
	fullName := ""
	for i, seg := range path {
		if i == 0 {
			fullName = seg
		} else {
			fullName = fullName + CategorySeparator + seg
		}

		if node, ok := byFullName[fullName]; ok {
			parentID = node.ID
			ids = append(ids, node.ID)
			continue
		}

		aks, err := admin()
		if err != nil {
			return nil, err
		}
		node, err := r.createOrAdopt(ctx, aks, ks, seg, parentID, fullName)
		if err != nil {
			return nil, err
		}
		byFullName[fullName] = *node
		parentID = node.ID
		ids = append(ids, node.ID)
	}

	return ids, nil
}

// createOrAdopt creates a category, or adopts the existing one when a
// concurrent caller created it first. Kaltura rejects a same-name
// sibling with DUPLICATE_CATEGORY; in that case the loser re-lists the
// fullName and uses the winner's node. The re-list is retried briefly
// because the winner's create may not be visible to listing yet.
func (r *Resolver) createOrAdopt(ctx context.Context, adminKS, userKS Session, name string, parentID int, fullName string) (*Category, error) {
	var node *Category

	err := retry.Do(
		func() error {
			created, err := r.gw.AddCategory(ctx, adminKS, name, parentID)
			if err == nil {
				node = created
				return nil
			}
			if !IsAPICode(err, CodeDuplicateCategory) {
				return retry.Unrecoverable(errors.Wrapf(err, "create category %q", fullName))
			}

			logrus.Infof("category %q created concurrently, adopting existing node", fullName)
			existing, lerr := r.gw.ListCategories(ctx, userKS, fullName)
			if lerr != nil {
				return retry.Unrecoverable(errors.Wrapf(lerr, "re-list category %q", fullName))
			}
			for _, c := range existing {
				if c.FullName == fullName {
					node = &c
					return nil
				}
			}
			return errors.Errorf("category %q reported duplicate but is not listed yet", fullName)
		},
		retry.Attempts(adoptAttempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return node, nil
}
