package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/h2non/filetype"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ubc-ctlt/kaltura-mcp/configs"
	"github.com/ubc-ctlt/kaltura-mcp/kaltura"
)

// Fixed user-facing messages, kept word-for-word from the editor tool.
// Internal error detail is logged, never surfaced to the editor.
const (
	msgSourceValid   = "Media ID Valid. The source URL has been generated above. Press 'Insert' to use this Kaltura media."
	msgSourceInvalid = "Error. Media ID Invalid. Please see how to find the ID for your media uploaded to Kaltura."
	msgUploadSuccess = "Successfully uploaded video to Kaltura. The Kaltura ID and source URL have been generated. Press 'Insert' to use this Kaltura media."
	msgUploadFailure = "An error occurred. Please check your Kaltura credentials and video file and try again."
)

// maxEntryNameWidth caps the media entry display name, measured the same
// way the platform does (wide characters count double).
const maxEntryNameWidth = 256

// sniffLen is how many leading bytes filetype needs to identify a
// container format.
const sniffLen = 261

// KalturaService drives the two core operations: verify-source and
// upload-and-categorize.
type KalturaService struct {
	cfg      *configs.Config
	gw       kaltura.Gateway
	uploader *kaltura.Uploader
	resolver *kaltura.Resolver

	probeClient   *http.Client
	webhookSender *WebhookSender

	now func() time.Time
}

// NewKalturaService creates the service with the real api_v3 gateway.
func NewKalturaService(cfg *configs.Config) *KalturaService {
	gw := kaltura.NewClient(cfg.ServiceURL, cfg.PartnerID, cfg.AdminSecret, cfg.UserID)
	return newKalturaService(cfg, gw)
}

func newKalturaService(cfg *configs.Config, gw kaltura.Gateway) *KalturaService {
	return &KalturaService{
		cfg:      cfg,
		gw:       gw,
		uploader: kaltura.NewUploader(gw),
		resolver: kaltura.NewResolver(gw),
		probeClient: &http.Client{
			Timeout: 15 * time.Second,
			// A 302 must be observed as a 302, not followed.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		webhookSender: NewWebhookSender(),
		now:           time.Now,
	}
}

// VerifySource probes a fully-formed candidate playable URL with a
// header-only request. The URL is valid when the probe reports success
// or a redirect. No remote state is created or changed.
func (s *KalturaService) VerifySource(ctx context.Context, videoURL string) *VerifySourceResult {
	if videoURL == "" {
		return &VerifySourceResult{Valid: false, Message: msgSourceInvalid}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, videoURL, nil)
	if err != nil {
		logrus.Errorf("verify source: bad url %q: %v", videoURL, err)
		return &VerifySourceResult{Valid: false, Message: msgSourceInvalid}
	}

	resp, err := s.probeClient.Do(req)
	if err != nil {
		logrus.Errorf("verify source: probe failed for %q: %v", videoURL, err)
		return &VerifySourceResult{Valid: false, Message: msgSourceInvalid}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusFound {
		return &VerifySourceResult{Valid: true, Message: msgSourceValid}
	}

	logrus.Infof("verify source: %q answered %d", videoURL, resp.StatusCode)
	return &VerifySourceResult{Valid: false, Message: msgSourceInvalid}
}

// UploadVideoInput is one video file to upload and place.
type UploadVideoInput struct {
	FileName string
	File     io.Reader
	Flavor   string // empty means the configured default
	Webhook  string // optional completion notification URL
}

// UploadVideo runs one upload-and-categorize workflow. Validation
// problems are reported with specific messages before any remote call;
// any failure during the remote sequence collapses into the one fixed
// failure message with a null id. Partial remote state (orphaned token,
// empty entry, created categories) is never rolled back.
func (s *KalturaService) UploadVideo(ctx context.Context, in *UploadVideoInput) *UploadVideoResult {
	if in.FileName == "" || in.File == nil {
		return &UploadVideoResult{KalturaID: nil, Message: "A video file is required."}
	}
	if runewidth.StringWidth(in.FileName) > maxEntryNameWidth {
		return &UploadVideoResult{KalturaID: nil, Message: "The video file name is too long."}
	}

	flavor := in.Flavor
	if flavor == "" {
		flavor = s.cfg.DefaultFlavor
	}
	if !kaltura.IsKnownFlavor(flavor) {
		return &UploadVideoResult{KalturaID: nil, Message: "Unknown video format selected."}
	}

	file, err := ensureVideo(in.File)
	if err != nil {
		logrus.Infof("upload rejected: %s: %v", in.FileName, err)
		return &UploadVideoResult{KalturaID: nil, Message: "The uploaded file is not a recognized video."}
	}

	path := s.cfg.CategoryPath(s.now())
	entryID, err := s.uploader.Upload(ctx, in.FileName, file, path)
	if err != nil {
		logrus.Errorf("upload failed: file=%s path=%v: %v", in.FileName, path, err)
		result := &UploadVideoResult{KalturaID: nil, Message: msgUploadFailure}
		s.notify(in.Webhook, in.FileName, result)
		return result
	}

	result := &UploadVideoResult{
		KalturaID: &entryID,
		URL:       kaltura.PlayManifestURL(s.cfg.ServiceURL, s.cfg.PartnerID, entryID, flavor),
		Message:   msgUploadSuccess,
	}
	s.notify(in.Webhook, in.FileName, result)
	return result
}

// ResolveCategoryPath resolves an explicit category path, creating any
// missing nodes. Used for pre-provisioning via the MCP surface.
func (s *KalturaService) ResolveCategoryPath(ctx context.Context, path []string) (*ResolveCategoryResult, error) {
	ks, err := s.gw.StartSession(ctx, kaltura.SessionTypeUser)
	if err != nil {
		return nil, errors.Wrap(err, "start session")
	}

	ids, err := s.resolver.ResolvePath(ctx, ks, path)
	if err != nil {
		return nil, err
	}
	return &ResolveCategoryResult{Path: path, CategoryIDs: ids}, nil
}

func (s *KalturaService) notify(webhookURL, fileName string, result *UploadVideoResult) {
	if webhookURL == "" {
		return
	}
	s.webhookSender.SendAsync(webhookURL, fileName, result)
}

// ensureVideo sniffs the leading bytes of r and fails unless they look
// like a video container. The consumed bytes are stitched back onto the
// returned reader.
func ensureVideo(r io.Reader) (io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, errors.Wrap(err, "read file header")
	}
	head = head[:n]

	if !filetype.IsVideo(head) {
		kind, _ := filetype.Match(head)
		return nil, errors.Errorf("file type %q is not a video", kind.Extension)
	}

	return io.MultiReader(bytes.NewReader(head), r), nil
}
