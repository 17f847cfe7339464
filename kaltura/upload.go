package kaltura

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Uploader drives one end-to-end upload-and-place workflow: session,
// upload token, file bytes, category resolution, media entry, content
// attach. Every step feeds the next, so the sequence is strictly
// sequential and aborts on the first failure. Remote state created
// before a failure (token, empty entry, categories) is not rolled back.
type Uploader struct {
	gw       Gateway
	resolver *Resolver
}

// NewUploader creates an Uploader on top of gw.
func NewUploader(gw Gateway) *Uploader {
	return &Uploader{
		gw:       gw,
		resolver: NewResolver(gw),
	}
}

// Upload pushes the file to the platform and places the resulting media
// entry under the category path. It returns the entry id of the final
// entry returned by the content attach.
func (u *Uploader) Upload(ctx context.Context, fileName string, r io.Reader, path []string) (string, error) {
	ks, err := u.gw.StartSession(ctx, SessionTypeUser)
	if err != nil {
		return "", errors.Wrap(err, "start session")
	}

	token, err := u.gw.AddUploadToken(ctx, ks)
	if err != nil {
		return "", errors.Wrap(err, "create upload token")
	}

	if err := u.gw.UploadFile(ctx, ks, token.ID, fileName, r); err != nil {
		return "", errors.Wrap(err, "upload file data")
	}

	categoryIDs, err := u.resolver.ResolvePath(ctx, ks, path)
	if err != nil {
		return "", errors.Wrap(err, "resolve category path")
	}

	entry, err := u.gw.AddMediaEntry(ctx, ks, fileName, categoryIDs)
	if err != nil {
		return "", errors.Wrap(err, "create media entry")
	}

	final, err := u.gw.AttachContent(ctx, ks, entry.ID, token.ID)
	if err != nil {
		return "", errors.Wrapf(err, "attach content to entry %s", entry.ID)
	}

	logrus.Infof("uploaded %q as kaltura entry %s (categories %v)", fileName, final.ID, categoryIDs)
	return final.ID, nil
}
