package main

// HTTP API response types.

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse is the success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// NonceResponse carries a freshly issued anti-forgery token.
type NonceResponse struct {
	Nonce     string `json:"nonce"`
	ExpiresIn string `json:"expires_in"`
}

// VerifySourceRequest asks whether a candidate playable URL exists.
type VerifySourceRequest struct {
	VideoURL string `json:"video_url" binding:"required"`
}

// VerifySourceResult is the outcome of a source probe. A negative probe
// is a normal result, not an error.
type VerifySourceResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// UploadVideoResult is the outcome of one upload-and-categorize run.
// KalturaID is null on failure; a non-null id signals success.
type UploadVideoResult struct {
	KalturaID *string `json:"kalturaId"`
	URL       string  `json:"url,omitempty"`
	Message   string  `json:"message"`
}

// ResolveCategoryResult is the outcome of an explicit category path
// resolution.
type ResolveCategoryResult struct {
	Path        []string `json:"path"`
	CategoryIDs []int    `json:"category_ids"`
}

// MCP tool result types (internal conversion format).

// MCPToolResult is the internal MCP tool result.
type MCPToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent is one content block of an MCP tool result.
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
