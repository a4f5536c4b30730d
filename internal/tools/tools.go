// Package tools registers the FontLab MCP tools and routes each call through
// validation, script assembly, and the execution bridge.
//
// Every failure path returns a structured {"success": false, "error": ...}
// result to the caller rather than an MCP protocol error; validation
// failures are distinguishable from host execution failures by error_type.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/typebridge/fontlab-mcp/internal/bridge"
	"github.com/typebridge/fontlab-mcp/internal/observability"
	"github.com/typebridge/fontlab-mcp/internal/validate"
)

// Numeric bounds for tool parameters.
const (
	maxGlyphWidth  = 10000
	maxRotation    = 360
	maxScale       = 100
	maxTranslation = 10000
	maxTextLen     = 1000
)

// Handler routes tool calls into the execution bridge.
type Handler struct {
	bridge  *bridge.Bridge
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Register adds all FontLab tools to the MCP server.
func Register(s *mcpserver.MCPServer, b *bridge.Bridge, m *observability.Metrics, logger *slog.Logger) {
	h := &Handler{bridge: b, metrics: m, logger: logger}

	for _, reg := range []struct {
		tool    mcp.Tool
		handler mcpserver.ToolHandlerFunc
	}{
		{createGlyphTool(), h.createGlyph},
		{modifyGlyphWidthTool(), h.modifyGlyphWidth},
		{transformGlyphTool(), h.transformGlyph},
		{updateFontInfoTool(), h.updateFontInfo},
		{exportFontTool(), h.exportFont},
		{deleteGlyphTool(), h.deleteGlyph},
		{getGlyphTool(), h.getGlyph},
		{searchGlyphsTool(), h.searchGlyphs},
		{findGlyphByUnicodeTool(), h.findGlyphByUnicode},
		{getGlyphMetadataTool(), h.getGlyphMetadata},
		{getKerningTool(), h.getKerning},
		{getGlyphContoursTool(), h.getGlyphContours},
		{getGlyphPathsTool(), h.getGlyphPaths},
		{getGlyphComponentsTool(), h.getGlyphComponents},
		{getFontFeaturesTool(), h.getFontFeatures},
		{getGlyphClassesTool(), h.getGlyphClasses},
	} {
		s.AddTool(reg.tool, reg.handler)
	}
}

// response is the wire shape every tool call returns as JSON text content.
type response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
	Stdout    string `json:"stdout,omitempty"`
	Stderr    string `json:"stderr,omitempty"`
}

func (h *Handler) reply(op string, resp response) (*mcp.CallToolResult, error) {
	if h.metrics != nil {
		status := "ok"
		if !resp.Success {
			status = resp.ErrorType
			if status == "" {
				status = "execution_error"
			}
		}
		h.metrics.ToolCallsTotal.WithLabelValues(op, status).Inc()
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// validationFailure maps a validator error to a caller-facing response.
// RequestSizeError deliberately gets a generic message.
func (h *Handler) validationFailure(op string, err error) (*mcp.CallToolResult, error) {
	msg := err.Error()
	var sizeErr *validate.RequestSizeError
	if errors.As(err, &sizeErr) {
		msg = "Request too large"
	}
	return h.reply(op, response{Success: false, Error: msg, ErrorType: "validation"})
}

// execute runs an assembled script body through the bridge and maps the
// outcome to the wire shape.
func (h *Handler) execute(ctx context.Context, op, scriptBody string, timeout time.Duration) (*mcp.CallToolResult, error) {
	ctx = bridge.ContextWithOperation(ctx, op)

	res, err := h.bridge.Execute(ctx, scriptBody, timeout)
	switch {
	case errors.Is(err, bridge.ErrTimeout):
		return h.reply(op, response{
			Success:   false,
			Error:     "Script execution timed out; the operation may be retried",
			ErrorType: "timeout",
		})
	case err != nil:
		h.logger.ErrorContext(ctx, "bridge execution failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return h.reply(op, response{
			Success:   false,
			Error:     "Operation failed",
			ErrorType: "execution",
		})
	}

	resp := response{
		Success: res.Success,
		Data:    res.Data,
		Message: res.Message,
		Error:   res.Error,
		Stdout:  res.Stdout,
		Stderr:  res.Stderr,
	}
	if !res.Success {
		resp.ErrorType = "execution"
	}
	return h.reply(op, resp)
}

// callTimeout reads the optional per-call timeout override. Zero means the
// bridge default; the bridge clamps whatever comes back.
func callTimeout(req mcp.CallToolRequest) (time.Duration, error) {
	raw := req.GetString("timeout", "")
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &validate.ValidationError{Field: "timeout", Reason: "not a duration: " + raw}
	}
	return d, nil
}

// glyphNameLiteral validates and encodes the required "name" argument.
func glyphNameLiteral(req mcp.CallToolRequest) (validate.Literal, error) {
	raw, err := req.RequireString("name")
	if err != nil {
		return "", &validate.ValidationError{Field: "name", Reason: err.Error()}
	}
	name, err := validate.IdentifierString("name", raw)
	if err != nil {
		return "", err
	}
	return validate.EncodeLiteral(name)
}

func withTimeoutOption() mcp.ToolOption {
	return mcp.WithString("timeout",
		mcp.Description("Optional timeout override as a duration string (e.g. '5s'); clamped to the server maximum"),
	)
}
