package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// MCP tool argument structs.

// VerifySourceArgs are the arguments for verify_kaltura_source.
type VerifySourceArgs struct {
	VideoURL string `json:"video_url" jsonschema:"fully-formed Kaltura playManifest URL to check"`
}

// UploadVideoArgs are the arguments for upload_kaltura_video.
type UploadVideoArgs struct {
	FilePath string `json:"file_path" jsonschema:"absolute path of the local video file to upload"`
	Flavor   string `json:"flavor,omitempty" jsonschema:"playable URL quality flavor id: 0 (raw), 2 (basic), 4 (SD small), 5 (SD large), 7 (HD/1080, default)"`
}

// ResolveCategoryArgs are the arguments for resolve_kaltura_category.
type ResolveCategoryArgs struct {
	Path []string `json:"path" jsonschema:"ordered category segment names, root first, e.g. [Tapestry, mysite, 2026-08-31, H5P]"`
}

// InitMCPServer initializes the MCP server and registers the tools.
func InitMCPServer(appServer *AppServer) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "kaltura-mcp",
			Version: "1.0.0",
		},
		nil,
	)

	registerTools(server, appServer)

	logrus.Info("MCP server initialized")

	return server
}

// registerTools registers the Kaltura tools.
func registerTools(server *mcp.Server, appServer *AppServer) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "verify_kaltura_source",
			Description: "Check that a Kaltura playable URL exists (header-only probe, accepts 200 or 302)",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args VerifySourceArgs) (*mcp.CallToolResult, any, error) {
			result := appServer.handleVerifySource(ctx, args.VideoURL)
			return convertToMCPResult(result), nil, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "upload_kaltura_video",
			Description: "Upload a local video file to Kaltura and place it under the site's deterministic category path; returns the entry id and playable URL",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args UploadVideoArgs) (*mcp.CallToolResult, any, error) {
			logrus.Infof("MCP: upload request for %s", args.FilePath)
			result := appServer.handleUploadVideo(ctx, args.FilePath, args.Flavor)
			return convertToMCPResult(result), nil, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "resolve_kaltura_category",
			Description: "Resolve an explicit Kaltura category path, creating missing nodes; returns the category ids root to leaf",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args ResolveCategoryArgs) (*mcp.CallToolResult, any, error) {
			result := appServer.handleResolveCategory(ctx, args.Path)
			return convertToMCPResult(result), nil, nil
		},
	)

	logrus.Infof("Registered %d MCP tools", 3)
}

// convertToMCPResult converts the internal result to the SDK format.
func convertToMCPResult(result *MCPToolResult) *mcp.CallToolResult {
	var contents []mcp.Content
	for _, c := range result.Content {
		contents = append(contents, &mcp.TextContent{Text: c.Text})
	}

	return &mcp.CallToolResult{
		Content: contents,
		IsError: result.IsError,
	}
}
