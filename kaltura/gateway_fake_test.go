package kaltura

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// fakeGateway is an in-memory Gateway for resolver and uploader tests.
// It enforces fullName uniqueness the way the platform does: a
// same-name sibling create fails with DUPLICATE_CATEGORY.
type fakeGateway struct {
	mu     sync.Mutex
	nextID int

	categories map[string]Category // fullName -> node
	byID       map[int]Category

	sessionCalls map[SessionType]int
	createCalls  int
	listCalls    int

	uploadedTokens []string
	uploadedBytes  []byte
	entryName      string
	entryCategory  []int
	attachedToken  string

	sessionErr error
	listErr    error
	createErr  error
	tokenErr   error
	uploadErr  error
	entryErr   error
	attachErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nextID:       100,
		categories:   make(map[string]Category),
		byID:         make(map[int]Category),
		sessionCalls: make(map[SessionType]int),
	}
}

// seed inserts an existing category by fullName.
func (f *fakeGateway) seed(fullName string) Category {
	f.mu.Lock()
	defer f.mu.Unlock()

	segments := strings.Split(fullName, CategorySeparator)
	parentID := 0
	if len(segments) > 1 {
		parent, ok := f.categories[strings.Join(segments[:len(segments)-1], CategorySeparator)]
		if !ok {
			panic("seed parent first: " + fullName)
		}
		parentID = parent.ID
	}

	f.nextID++
	cat := Category{
		ID:       f.nextID,
		Name:     segments[len(segments)-1],
		FullName: fullName,
		ParentID: parentID,
	}
	f.categories[fullName] = cat
	f.byID[cat.ID] = cat
	return cat
}

func (f *fakeGateway) StartSession(ctx context.Context, typ SessionType) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	f.sessionCalls[typ]++
	return Session(fmt.Sprintf("ks-%d", typ)), nil
}

func (f *fakeGateway) AddUploadToken(ctx context.Context, ks Session) (*UploadToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	token := fmt.Sprintf("token-%d", len(f.uploadedTokens)+1)
	f.uploadedTokens = append(f.uploadedTokens, token)
	return &UploadToken{ID: token}, nil
}

func (f *fakeGateway) UploadFile(ctx context.Context, ks Session, tokenID, fileName string, r io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadedBytes = data
	return nil
}

func (f *fakeGateway) AddMediaEntry(ctx context.Context, ks Session, name string, categoryIDs []int) (*MediaEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.entryErr != nil {
		return nil, f.entryErr
	}
	f.entryName = name
	f.entryCategory = append([]int(nil), categoryIDs...)
	return &MediaEntry{ID: "0_fake1", Name: name}, nil
}

func (f *fakeGateway) AttachContent(ctx context.Context, ks Session, entryID, tokenID string) (*MediaEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.attachErr != nil {
		return nil, f.attachErr
	}
	f.attachedToken = tokenID
	return &MediaEntry{ID: entryID}, nil
}

func (f *fakeGateway) ListCategories(ctx context.Context, ks Session, fullNameStartsWith string) ([]Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	f.listCalls++

	var out []Category
	for fullName, cat := range f.categories {
		if strings.HasPrefix(fullName, fullNameStartsWith) {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (f *fakeGateway) AddCategory(ctx context.Context, ks Session, name string, parentID int) (*Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createCalls++

	fullName := name
	if parentID > 0 {
		parent, ok := f.byID[parentID]
		if !ok {
			return nil, errors.Errorf("unknown parent id %d", parentID)
		}
		fullName = parent.FullName + CategorySeparator + name
	}

	if _, exists := f.categories[fullName]; exists {
		return nil, &APIError{Code: CodeDuplicateCategory, Message: "duplicate category"}
	}

	f.nextID++
	cat := Category{ID: f.nextID, Name: name, FullName: fullName, ParentID: parentID}
	f.categories[fullName] = cat
	f.byID[cat.ID] = cat
	return &cat, nil
}
