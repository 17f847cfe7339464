package kaltura

import (
	"context"
	"io"
)

// Gateway is the capability surface of the remote Kaltura platform that
// the resolver and the uploader depend on. The production implementation
// is *Client; tests substitute an in-memory fake.
type Gateway interface {
	// StartSession authenticates against the platform and returns a
	// session string scoped to the given role.
	StartSession(ctx context.Context, typ SessionType) (Session, error)

	// AddUploadToken creates a new upload token for a pending upload.
	AddUploadToken(ctx context.Context, ks Session) (*UploadToken, error)

	// UploadFile pushes the file bytes against an upload token in a
	// single shot. No resume support.
	UploadFile(ctx context.Context, ks Session, tokenID, fileName string, r io.Reader) error

	// AddMediaEntry creates a video media entry placed in the given
	// categories. The entry has no content until AttachContent is called.
	AddMediaEntry(ctx context.Context, ks Session, name string, categoryIDs []int) (*MediaEntry, error)

	// AttachContent associates previously uploaded bytes (by token) with
	// a media entry.
	AttachContent(ctx context.Context, ks Session, entryID, tokenID string) (*MediaEntry, error)

	// ListCategories returns every category whose fullName starts with
	// the given prefix.
	ListCategories(ctx context.Context, ks Session, fullNameStartsWith string) ([]Category, error)

	// AddCategory creates a category under parentID (0 for root level).
	AddCategory(ctx context.Context, ks Session, name string, parentID int) (*Category, error)
}
