// Package resources exposes read-only font state over the MCP resource
// surface. Every resource read runs a generated script through the
// execution bridge, so resources see the same sanitization and timeout
// handling as tool calls.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/typebridge/fontlab-mcp/internal/bridge"
	"github.com/typebridge/fontlab-mcp/internal/script"
	"github.com/typebridge/fontlab-mcp/internal/validate"
)

const glyphURIPrefix = "fontlab://glyph/"

// Handler serves resource reads backed by the execution bridge.
type Handler struct {
	bridge *bridge.Bridge
	logger *slog.Logger
}

// Register attaches the static resources and the glyph template to s.
func Register(s *mcpserver.MCPServer, b *bridge.Bridge, logger *slog.Logger) {
	h := &Handler{bridge: b, logger: logger}

	s.AddResource(mcp.NewResource(
		"fontlab://font/current",
		"Current Font",
		mcp.WithResourceDescription("Information about the currently open font"),
		mcp.WithMIMEType("application/json"),
	), h.currentFont)

	s.AddResource(mcp.NewResource(
		"fontlab://font/current/glyphs",
		"Glyph List",
		mcp.WithResourceDescription("All glyphs in the currently open font"),
		mcp.WithMIMEType("application/json"),
	), h.glyphList)

	s.AddResource(mcp.NewResource(
		"fontlab://font/info",
		"Font Info",
		mcp.WithResourceDescription("Metadata for the currently open font"),
		mcp.WithMIMEType("application/json"),
	), h.currentFont)

	s.AddResourceTemplate(mcp.NewResourceTemplate(
		glyphURIPrefix+"{name}",
		"Glyph Details",
		mcp.WithTemplateDescription("Detailed information about a single glyph"),
		mcp.WithTemplateMIMEType("application/json"),
	), h.glyph)
}

func (h *Handler) currentFont(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.read(ctx, req.Params.URI, "read_current_font", script.CurrentFont())
}

func (h *Handler) glyphList(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.read(ctx, req.Params.URI, "read_glyph_list", script.ListGlyphs())
}

func (h *Handler) glyph(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	raw := strings.TrimPrefix(req.Params.URI, glyphURIPrefix)
	name, err := validate.IdentifierString("name", raw)
	if err != nil {
		return nil, err
	}
	lit, err := validate.EncodeLiteral(name)
	if err != nil {
		return nil, err
	}
	return h.read(ctx, req.Params.URI, "read_glyph", script.GetGlyph(lit))
}

func (h *Handler) read(ctx context.Context, uri, op, scriptBody string) ([]mcp.ResourceContents, error) {
	ctx = bridge.ContextWithOperation(ctx, op)

	res, err := h.bridge.Execute(ctx, scriptBody, 0)
	if err != nil {
		h.logger.Error("resource read failed", "uri", uri, "error", err)
		return nil, fmt.Errorf("resource read failed: %w", err)
	}

	payload := map[string]any{"success": res.Success}
	if res.Data != nil {
		payload["data"] = res.Data
	}
	if res.Error != "" {
		payload["error"] = res.Error
	}
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resource payload: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}, nil
}
