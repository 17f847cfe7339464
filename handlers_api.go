package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError returns an error response.
func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	logrus.Errorf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, statusCode, code)

	c.JSON(statusCode, response)
}

// respondSuccess returns a success response.
func respondSuccess(c *gin.Context, data any, message string) {
	response := SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	}

	logrus.Infof("%s %s %d", c.Request.Method, c.Request.URL.Path, http.StatusOK)

	c.JSON(http.StatusOK, response)
}

// healthHandler answers the liveness check.
func (s *AppServer) healthHandler(c *gin.Context) {
	respondSuccess(c, map[string]any{
		"status":  "healthy",
		"service": "kaltura-mcp",
	}, "service is up")
}

// nonceHandler issues a fresh single-use anti-forgery token for the
// editor page.
func (s *AppServer) nonceHandler(c *gin.Context) {
	token, err := s.nonces.Issue()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "NONCE_FAILED",
			"Could not issue a request token.", nil)
		return
	}

	respondSuccess(c, NonceResponse{
		Nonce:     token,
		ExpiresIn: s.cfg.NonceTTL.String(),
	}, "nonce issued")
}

// verifySourceHandler probes a candidate playable URL.
//
// A negative probe is a normal outcome: the handler answers 200 with
// valid=false, not an error status.
func (s *AppServer) verifySourceHandler(c *gin.Context) {
	var req VerifySourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"video_url is required", err.Error())
		return
	}

	result := s.kalturaService.VerifySource(c.Request.Context(), req.VideoURL)
	respondSuccess(c, result, result.Message)
}

// uploadVideoHandler accepts a multipart video upload and runs the
// upload-and-categorize workflow synchronously. The caller blocks until
// the workflow finishes; the editor disables its UI meanwhile.
//
// Form fields:
//   - video_file: the video (required)
//   - flavor:     playable URL quality, one of the known flavor ids
//   - webhook:    optional URL notified with the outcome
func (s *AppServer) uploadVideoHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fileHeader, err := c.FormFile("video_file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"video_file is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"could not read the uploaded file", err.Error())
		return
	}
	defer file.Close()

	result := s.kalturaService.UploadVideo(c.Request.Context(), &UploadVideoInput{
		FileName: fileHeader.Filename,
		File:     file,
		Flavor:   c.PostForm("flavor"),
		Webhook:  c.PostForm("webhook"),
	})

	// The workflow is all-or-nothing from the caller's point of view:
	// the envelope is always 200, the null/non-null id carries the
	// outcome.
	respondSuccess(c, result, result.Message)
}
