package kaltura

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// defaultTimeout bounds ordinary API calls. Uploads get a larger
	// budget because the whole file travels in one request.
	defaultTimeout = 30 * time.Second
	uploadTimeout  = 30 * time.Minute

	// CodeDuplicateCategory is returned by category.add when a sibling
	// with the same name already exists.
	CodeDuplicateCategory = "DUPLICATE_CATEGORY"
)

// APIError is the KalturaAPIException envelope returned by api_v3.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kaltura api error %s: %s", e.Code, e.Message)
}

// IsAPICode reports whether err (or its cause) is an APIError with the
// given code.
func IsAPICode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// Client talks to the Kaltura api_v3 endpoint. It implements Gateway.
type Client struct {
	serviceURL   string
	partnerID    int
	adminSecret  string
	userID       string
	httpClient   *http.Client
	uploadClient *http.Client
}

// NewClient creates a Kaltura api_v3 client. serviceURL is the base
// service URL without the /api_v3 suffix.
func NewClient(serviceURL string, partnerID int, adminSecret, userID string) *Client {
	return &Client{
		serviceURL:   strings.TrimRight(serviceURL, "/"),
		partnerID:    partnerID,
		adminSecret:  adminSecret,
		userID:       userID,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
	}
}

// endpoint builds the api_v3 URL for a service action, with format=1
// (JSON responses).
func (c *Client) endpoint(service, action string) string {
	return fmt.Sprintf("%s/api_v3/service/%s/action/%s?format=1", c.serviceURL, service, action)
}

// call posts the form values to a service action and decodes the JSON
// response into out. API exceptions come back as a 200 with a
// KalturaAPIException body, so the envelope is probed before decoding.
func (c *Client) call(ctx context.Context, service, action string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(service, action), strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s.%s", service, action)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, service, action, out)
}

func decodeResponse(resp *http.Response, service, action string, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s.%s response", service, action)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s.%s: unexpected status %d", service, action, resp.StatusCode)
	}

	// api_v3 reports failures inside a 200 response.
	var probe struct {
		ObjectType string `json:"objectType"`
		Code       string `json:"code"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.ObjectType == "KalturaAPIException" {
		return errors.Wrapf(&APIError{Code: probe.Code, Message: probe.Message}, "%s.%s", service, action)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s.%s response", service, action)
	}
	return nil
}

// StartSession calls session.start and returns the KS.
func (c *Client) StartSession(ctx context.Context, typ SessionType) (Session, error) {
	params := url.Values{
		"secret":    {c.adminSecret},
		"userId":    {c.userID},
		"type":      {strconv.Itoa(int(typ))},
		"partnerId": {strconv.Itoa(c.partnerID)},
	}

	var ks string
	if err := c.call(ctx, "session", "start", params, &ks); err != nil {
		return "", err
	}
	if ks == "" {
		return "", errors.New("session.start returned an empty session")
	}
	return Session(ks), nil
}

// AddUploadToken calls uploadToken.add.
func (c *Client) AddUploadToken(ctx context.Context, ks Session) (*UploadToken, error) {
	params := url.Values{
		"ks":                     {string(ks)},
		"uploadToken:objectType": {"KalturaUploadToken"},
	}

	var token UploadToken
	if err := c.call(ctx, "uploadToken", "add", params, &token); err != nil {
		return nil, err
	}
	logrus.Debugf("created upload token %s", token.ID)
	return &token, nil
}

// UploadFile calls uploadToken.upload with the file as a single final
// chunk (resume=false, finalChunk=true, resumeAt=-1).
func (c *Client) UploadFile(ctx context.Context, ks Session, tokenID, fileName string, r io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"ks":            string(ks),
		"uploadTokenId": tokenID,
		"resume":        "false",
		"finalChunk":    "true",
		"resumeAt":      "-1",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errors.Wrap(err, "write form field")
		}
	}

	fw, err := mw.CreateFormFile("fileData", fileName)
	if err != nil {
		return errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(fw, r); err != nil {
		return errors.Wrap(err, "copy file data")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("uploadToken", "upload"), &body)
	if err != nil {
		return errors.Wrap(err, "create upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "upload file data")
	}
	defer resp.Body.Close()

	return decodeResponse(resp, "uploadToken", "upload", nil)
}

// AddMediaEntry calls media.add with a video entry placed in the given
// categories.
func (c *Client) AddMediaEntry(ctx context.Context, ks Session, name string, categoryIDs []int) (*MediaEntry, error) {
	ids := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		ids = append(ids, strconv.Itoa(id))
	}

	params := url.Values{
		"ks":                  {string(ks)},
		"entry:objectType":    {"KalturaMediaEntry"},
		"entry:name":          {name},
		"entry:mediaType":     {strconv.Itoa(MediaTypeVideo)},
		"entry:categoriesIds": {strings.Join(ids, ",")},
	}

	var entry MediaEntry
	if err := c.call(ctx, "media", "add", params, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// AttachContent calls media.addContent with an uploaded-file token
// resource.
func (c *Client) AttachContent(ctx context.Context, ks Session, entryID, tokenID string) (*MediaEntry, error) {
	params := url.Values{
		"ks":                  {string(ks)},
		"entryId":             {entryID},
		"resource:objectType": {"KalturaUploadedFileTokenResource"},
		"resource:token":      {tokenID},
	}

	var entry MediaEntry
	if err := c.call(ctx, "media", "addContent", params, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListCategories calls category.list filtered by fullNameStartsWith.
func (c *Client) ListCategories(ctx context.Context, ks Session, fullNameStartsWith string) ([]Category, error) {
	params := url.Values{
		"ks":                        {string(ks)},
		"filter:objectType":         {"KalturaCategoryFilter"},
		"filter:fullNameStartsWith": {fullNameStartsWith},
		// One page is enough: the subtree under a single root label is
		// small by construction (site/date/leaf).
		"pager:objectType": {"KalturaFilterPager"},
		"pager:pageSize":   {"500"},
	}

	var list struct {
		Objects    []Category `json:"objects"`
		TotalCount int        `json:"totalCount"`
	}
	if err := c.call(ctx, "category", "list", params, &list); err != nil {
		return nil, err
	}
	return list.Objects, nil
}

// AddCategory calls category.add. parentID 0 creates a root-level
// category.
func (c *Client) AddCategory(ctx context.Context, ks Session, name string, parentID int) (*Category, error) {
	params := url.Values{
		"ks":                  {string(ks)},
		"category:objectType": {"KalturaCategory"},
		"category:name":       {name},
	}
	if parentID > 0 {
		params.Set("category:parentId", strconv.Itoa(parentID))
	}

	var cat Category
	if err := c.call(ctx, "category", "add", params, &cat); err != nil {
		return nil, err
	}
	logrus.Infof("created kaltura category %q (id=%d)", cat.FullName, cat.ID)
	return &cat, nil
}
