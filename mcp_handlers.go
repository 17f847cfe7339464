package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// MCP tool handlers. The MCP transport is trusted same-process
// tooling, so these skip the browser-facing nonce and call the service
// directly.

func mcpError(text string) *MCPToolResult {
	return &MCPToolResult{
		Content: []MCPContent{{Type: "text", Text: text}},
		IsError: true,
	}
}

func mcpText(text string) *MCPToolResult {
	return &MCPToolResult{
		Content: []MCPContent{{Type: "text", Text: text}},
	}
}

// handleVerifySource probes a playable URL.
func (s *AppServer) handleVerifySource(ctx context.Context, videoURL string) *MCPToolResult {
	result := s.kalturaService.VerifySource(ctx, videoURL)

	payload, err := json.Marshal(result)
	if err != nil {
		return mcpError("failed to encode result: " + err.Error())
	}
	return mcpText(string(payload))
}

// handleUploadVideo uploads a local video file.
func (s *AppServer) handleUploadVideo(ctx context.Context, filePath, flavor string) *MCPToolResult {
	if filePath == "" {
		return mcpError("file_path is required")
	}

	file, err := os.Open(filePath)
	if err != nil {
		logrus.Errorf("MCP: cannot open %s: %v", filePath, err)
		return mcpError("cannot open video file: " + err.Error())
	}
	defer file.Close()

	result := s.kalturaService.UploadVideo(ctx, &UploadVideoInput{
		FileName: filepath.Base(filePath),
		File:     file,
		Flavor:   flavor,
	})
	if result.KalturaID == nil {
		return mcpError(result.Message)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return mcpError("failed to encode result: " + err.Error())
	}
	return mcpText(string(payload))
}

// handleResolveCategory resolves an explicit category path.
func (s *AppServer) handleResolveCategory(ctx context.Context, path []string) *MCPToolResult {
	result, err := s.kalturaService.ResolveCategoryPath(ctx, path)
	if err != nil {
		logrus.Errorf("MCP: resolve category %v failed: %v", path, err)
		return mcpError("failed to resolve category path: " + err.Error())
	}

	return mcpText(fmt.Sprintf("resolved %v to category ids %v", result.Path, result.CategoryIDs))
}
