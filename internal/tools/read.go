package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/typebridge/fontlab-mcp/internal/script"
	"github.com/typebridge/fontlab-mcp/internal/validate"
)

// glyphScript is the shape shared by every read tool that takes a single
// glyph name argument.
func (h *Handler) glyphScript(ctx context.Context, req mcp.CallToolRequest, op string, build func(validate.Literal) string) (*mcp.CallToolResult, error) {
	if err := validate.RequestSize(req.GetArguments()); err != nil {
		return h.validationFailure(op, err)
	}
	timeout, err := callTimeout(req)
	if err != nil {
		return h.validationFailure(op, err)
	}
	name, err := glyphNameLiteral(req)
	if err != nil {
		return h.validationFailure(op, err)
	}
	return h.execute(ctx, op, build(name), timeout)
}

// fontScript is the shape shared by the read tools that take no arguments
// beyond the optional timeout.
func (h *Handler) fontScript(ctx context.Context, req mcp.CallToolRequest, op, body string) (*mcp.CallToolResult, error) {
	if err := validate.RequestSize(req.GetArguments()); err != nil {
		return h.validationFailure(op, err)
	}
	timeout, err := callTimeout(req)
	if err != nil {
		return h.validationFailure(op, err)
	}
	return h.execute(ctx, op, body, timeout)
}

func getGlyphTool() mcp.Tool {
	return mcp.NewTool("get_glyph",
		mcp.WithDescription("Get detailed information about a specific glyph"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		withTimeoutOption(),
	)
}

func (h *Handler) getGlyph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.glyphScript(ctx, req, "get_glyph", script.GetGlyph)
}

func searchGlyphsTool() mcp.Tool {
	return mcp.NewTool("search_glyphs",
		mcp.WithDescription("Search for glyphs by name pattern"),
		mcp.WithString("pattern", mcp.Required(),
			mcp.Description("Substring to match against glyph names")),
		withTimeoutOption(),
	)
}

func (h *Handler) searchGlyphs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "search_glyphs"
	if err := validate.RequestSize(req.GetArguments()); err != nil {
		return h.validationFailure(op, err)
	}
	timeout, err := callTimeout(req)
	if err != nil {
		return h.validationFailure(op, err)
	}
	raw, err := req.RequireString("pattern")
	if err != nil {
		return h.validationFailure(op, &validate.ValidationError{Field: "pattern", Reason: err.Error()})
	}
	pattern, err := validate.IdentifierString("pattern", raw)
	if err != nil {
		return h.validationFailure(op, err)
	}
	lit, err := validate.EncodeLiteral(pattern)
	if err != nil {
		return h.validationFailure(op, err)
	}
	return h.execute(ctx, op, script.SearchGlyphs(lit), timeout)
}

func findGlyphByUnicodeTool() mcp.Tool {
	return mcp.NewTool("find_glyph_by_unicode",
		mcp.WithDescription("Find a glyph by its Unicode code point"),
		mcp.WithNumber("unicode", mcp.Required(),
			mcp.Description("Unicode code point (e.g. 65 for 'A')")),
		withTimeoutOption(),
	)
}

func (h *Handler) findGlyphByUnicode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "find_glyph_by_unicode"
	if err := validate.RequestSize(req.GetArguments()); err != nil {
		return h.validationFailure(op, err)
	}
	timeout, err := callTimeout(req)
	if err != nil {
		return h.validationFailure(op, err)
	}
	raw, err := req.RequireInt("unicode")
	if err != nil {
		return h.validationFailure(op, &validate.ValidationError{Field: "unicode", Reason: err.Error()})
	}
	codepoint, err := validate.UnicodeCodepoint("unicode", raw)
	if err != nil {
		return h.validationFailure(op, err)
	}
	return h.execute(ctx, op, script.FindGlyphByUnicode(codepoint), timeout)
}

func getGlyphMetadataTool() mcp.Tool {
	return mcp.NewTool("get_glyph_metadata",
		mcp.WithDescription("Get metadata for a glyph (marks, tags, notes)"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		withTimeoutOption(),
	)
}

func (h *Handler) getGlyphMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.glyphScript(ctx, req, "get_glyph_metadata", script.GlyphMetadata)
}

func getKerningTool() mcp.Tool {
	return mcp.NewTool("get_kerning",
		mcp.WithDescription("Get kerning information for the current font"),
		withTimeoutOption(),
	)
}

func (h *Handler) getKerning(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fontScript(ctx, req, "get_kerning", script.Kerning())
}

func getGlyphContoursTool() mcp.Tool {
	return mcp.NewTool("get_glyph_contours",
		mcp.WithDescription("Get contour and node data for a glyph"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		withTimeoutOption(),
	)
}

func (h *Handler) getGlyphContours(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.glyphScript(ctx, req, "get_glyph_contours", script.GlyphContours)
}

func getGlyphPathsTool() mcp.Tool {
	return mcp.NewTool("get_glyph_paths",
		mcp.WithDescription("Get path descriptions for a glyph outline"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		withTimeoutOption(),
	)
}

func (h *Handler) getGlyphPaths(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.glyphScript(ctx, req, "get_glyph_paths", script.GlyphPaths)
}

func getGlyphComponentsTool() mcp.Tool {
	return mcp.NewTool("get_glyph_components",
		mcp.WithDescription("Get component references for a composite glyph"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		withTimeoutOption(),
	)
}

func (h *Handler) getGlyphComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.glyphScript(ctx, req, "get_glyph_components", script.GlyphComponents)
}

func getFontFeaturesTool() mcp.Tool {
	return mcp.NewTool("get_font_features",
		mcp.WithDescription("Get OpenType feature definitions for the current font"),
		withTimeoutOption(),
	)
}

func (h *Handler) getFontFeatures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fontScript(ctx, req, "get_font_features", script.FontFeatures())
}

func getGlyphClassesTool() mcp.Tool {
	return mcp.NewTool("get_glyph_classes",
		mcp.WithDescription("Get glyph class definitions for the current font"),
		withTimeoutOption(),
	)
}

func (h *Handler) getGlyphClasses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.fontScript(ctx, req, "get_glyph_classes", script.GlyphClasses())
}
