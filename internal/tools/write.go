package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/typebridge/fontlab-mcp/internal/script"
	"github.com/typebridge/fontlab-mcp/internal/validate"
)

func createGlyphTool() mcp.Tool {
	return mcp.NewTool("create_glyph",
		mcp.WithDescription("Create a new glyph in the current font"),
		mcp.WithString("name", mcp.Required(),
			mcp.Description("Glyph name (e.g. 'A', 'B', 'space')")),
		mcp.WithNumber("unicode",
			mcp.Description("Unicode code point (optional)")),
		mcp.WithNumber("width",
			mcp.Description("Glyph width (optional, defaults to 600)"),
			mcp.DefaultNumber(600)),
		withTimeoutOption(),
	)
}

func (h *Handler) createGlyph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "create_glyph"
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
	width, err := validate.NumericRange("width", req.GetFloat("width", 600), 0, maxGlyphWidth)
	if err != nil {
		return h.validationFailure(op, err)
	}
	var codepoint *int
	if _, ok := req.GetArguments()["unicode"]; ok {
		cp, err := validate.UnicodeCodepoint("unicode", req.GetInt("unicode", 0))
		if err != nil {
			return h.validationFailure(op, err)
		}
		codepoint = &cp
	}
	return h.execute(ctx, op, script.CreateGlyph(name, codepoint, width), timeout)
}

func modifyGlyphWidthTool() mcp.Tool {
	return mcp.NewTool("modify_glyph_width",
		mcp.WithDescription("Modify the width of an existing glyph"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		mcp.WithNumber("width", mcp.Required(), mcp.Description("New width value")),
		withTimeoutOption(),
	)
}

func (h *Handler) modifyGlyphWidth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "modify_glyph_width"
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
	rawWidth, err := req.RequireFloat("width")
	if err != nil {
		return h.validationFailure(op, &validate.ValidationError{Field: "width", Reason: err.Error()})
	}
	width, err := validate.NumericRange("width", rawWidth, 0, maxGlyphWidth)
	if err != nil {
		return h.validationFailure(op, err)
	}
	return h.execute(ctx, op, script.ModifyGlyphWidth(name, width), timeout)
}

func transformGlyphTool() mcp.Tool {
	return mcp.NewTool("transform_glyph",
		mcp.WithDescription("Apply transformation to a glyph (scale, rotate, translate)"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name")),
		mcp.WithNumber("scale_x",
			mcp.Description("Horizontal scale factor (1.0 = no change)"), mcp.DefaultNumber(1)),
		mcp.WithNumber("scale_y",
			mcp.Description("Vertical scale factor (1.0 = no change)"), mcp.DefaultNumber(1)),
		mcp.WithNumber("rotate",
			mcp.Description("Rotation angle in degrees"), mcp.DefaultNumber(0)),
		mcp.WithNumber("translate_x",
			mcp.Description("Horizontal translation"), mcp.DefaultNumber(0)),
		mcp.WithNumber("translate_y",
			mcp.Description("Vertical translation"), mcp.DefaultNumber(0)),
		withTimeoutOption(),
	)
}

func (h *Handler) transformGlyph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "transform_glyph"
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

	tr := script.Transform{}
	for _, p := range []struct {
		field    string
		def      float64
		min, max float64
		dst      *float64
	}{
		{"scale_x", 1, -maxScale, maxScale, &tr.ScaleX},
		{"scale_y", 1, -maxScale, maxScale, &tr.ScaleY},
		{"rotate", 0, -maxRotation, maxRotation, &tr.Rotate},
		{"translate_x", 0, -maxTranslation, maxTranslation, &tr.TranslateX},
		{"translate_y", 0, -maxTranslation, maxTranslation, &tr.TranslateY},
	} {
		v, err := validate.NumericRange(p.field, req.GetFloat(p.field, p.def), p.min, p.max)
		if err != nil {
			return h.validationFailure(op, err)
		}
		*p.dst = v
	}
	return h.execute(ctx, op, script.TransformGlyph(name, tr), timeout)
}

func updateFontInfoTool() mcp.Tool {
	return mcp.NewTool("update_font_info",
		mcp.WithDescription("Update font metadata"),
		mcp.WithString("family_name", mcp.Description("Font family name")),
		mcp.WithString("style_name", mcp.Description("Font style name")),
		mcp.WithString("version", mcp.Description("Font version")),
		mcp.WithString("copyright", mcp.Description("Copyright notice")),
		withTimeoutOption(),
	)
}

func (h *Handler) updateFontInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "update_font_info"
	if err := validate.RequestSize(req.GetArguments()); err != nil {
		return h.validationFailure(op, err)
	}
	timeout, err := callTimeout(req)
	if err != nil {
		return h.validationFailure(op, err)
	}

	var update script.FontInfoUpdate
	set := 0

	identifierField := func(field string, dst **validate.Literal) error {
		raw := req.GetString(field, "")
		if raw == "" {
			return nil
		}
		v, err := validate.IdentifierString(field, raw)
		if err != nil {
			return err
		}
		lit, err := validate.EncodeLiteral(v)
		if err != nil {
			return err
		}
		*dst = &lit
		set++
		return nil
	}
	textField := func(field string, dst **validate.Literal) error {
		raw := req.GetString(field, "")
		if raw == "" {
			return nil
		}
		v, err := validate.StringLength(field, raw, maxTextLen)
		if err != nil {
			return err
		}
		lit, err := validate.EncodeLiteral(v)
		if err != nil {
			return err
		}
		*dst = &lit
		set++
		return nil
	}

	if err := identifierField("family_name", &update.FamilyName); err != nil {
		return h.validationFailure(op, err)
	}
	if err := identifierField("style_name", &update.StyleName); err != nil {
		return h.validationFailure(op, err)
	}
	if err := textField("version", &update.Version); err != nil {
		return h.validationFailure(op, err)
	}
	if err := textField("copyright", &update.Copyright); err != nil {
		return h.validationFailure(op, err)
	}
	if set == 0 {
		return h.validationFailure(op, &validate.ValidationError{
			Field: "arguments", Reason: "at least one metadata field is required",
		})
	}
	return h.execute(ctx, op, script.UpdateFontInfo(update), timeout)
}

func exportFontTool() mcp.Tool {
	return mcp.NewTool("export_font",
		mcp.WithDescription("Export the current font to a file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Output file path")),
		mcp.WithString("format",
			mcp.Description("Export format"),
			mcp.Enum("otf", "ttf", "woff", "woff2", "ufo"),
			mcp.DefaultString("otf")),
		withTimeoutOption(),
	)
}

var exportFormats = map[string]bool{
	"otf": true, "ttf": true, "woff": true, "woff2": true, "ufo": true,
}

func (h *Handler) exportFont(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "export_font"
	if err := validate.RequestSize(req.GetArguments()); err != nil {
		return h.validationFailure(op, err)
	}
	timeout, err := callTimeout(req)
	if err != nil {
		return h.validationFailure(op, err)
	}
	rawPath, err := req.RequireString("path")
	if err != nil {
		return h.validationFailure(op, &validate.ValidationError{Field: "path", Reason: err.Error()})
	}
	path, err := validate.ExportPath(rawPath, nil)
	if err != nil {
		return h.validationFailure(op, err)
	}
	format := req.GetString("format", "otf")
	if !exportFormats[format] {
		return h.validationFailure(op, &validate.ValidationError{
			Field: "format", Reason: "unsupported format: " + format,
		})
	}

	pathLit, err := validate.EncodeLiteral(path)
	if err != nil {
		return h.validationFailure(op, err)
	}
	formatLit, err := validate.EncodeLiteral(format)
	if err != nil {
		return h.validationFailure(op, err)
	}
	return h.execute(ctx, op, script.ExportFont(pathLit, formatLit), timeout)
}

func deleteGlyphTool() mcp.Tool {
	return mcp.NewTool("delete_glyph",
		mcp.WithDescription("Delete a glyph from the current font"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Glyph name to delete")),
		withTimeoutOption(),
	)
}

func (h *Handler) deleteGlyph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const op = "delete_glyph"
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
	return h.execute(ctx, op, script.DeleteGlyph(name), timeout)
}
