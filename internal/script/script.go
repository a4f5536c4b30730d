// Package script assembles FontLab Python script bodies from fixed templates.
//
// Builders accept caller-derived values only as validate.Literal (produced by
// validate.EncodeLiteral) or as numerics that already passed a range
// validator, so nothing reaches a script body as raw interpolated text.
// Every script's final action is serializing a JSON result object to the
// path given as its last argument.
package script

import (
	"fmt"
	"strings"

	"github.com/typebridge/fontlab-mcp/internal/validate"
)

const header = `import json
import sys

try:
    from fontlab import flWorkspace

    font = flWorkspace.instance().currentFont()

    if font is None:
        result = {"success": False, "error": "No font is currently open"}
    else:
`

const trailer = `
except Exception as e:
    result = {"success": False, "error": str(e)}

with open(sys.argv[-1], 'w') as f:
    json.dump(result, f)
`

// CurrentFont reports family/style/version and glyph count of the open font.
func CurrentFont() string {
	return header + `        result = {
            "success": True,
            "data": {
                "family_name": font.info.familyName or "",
                "style_name": font.info.styleName or "",
                "full_name": font.info.fullName or "",
                "version": font.info.versionMajor or 1,
                "glyph_count": len(font.glyphs),
                "units_per_em": font.info.unitsPerEm or 1000,
            },
        }` + trailer
}

// ListGlyphs enumerates every glyph with name, unicode, and width.
func ListGlyphs() string {
	return header + `        glyphs = []
        for glyph in font.glyphs:
            glyphs.append({
                "name": glyph.name,
                "unicode": glyph.unicode if glyph.unicode else None,
                "width": glyph.width,
                "has_contours": len(glyph.layers[0].shapes) > 0,
            })
        result = {"success": True, "data": {"glyphs": glyphs, "count": len(glyphs)}}` + trailer
}

// GetGlyph reports detail for one glyph, looked up by name.
func GetGlyph(name validate.Literal) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            layer = glyph.layers[0]
            box = layer.boundingBox
            result = {
                "success": True,
                "data": {
                    "name": glyph.name,
                    "unicode": glyph.unicode if glyph.unicode else None,
                    "width": glyph.width,
                    "height": layer.advanceHeight if hasattr(layer, 'advanceHeight') else 0,
                    "bounds": {
                        "x": box.x() if box else 0,
                        "y": box.y() if box else 0,
                        "width": box.width() if box else 0,
                        "height": box.height() if box else 0,
                    },
                    "contour_count": len(layer.shapes),
                },
            }`, name) + trailer
}

// FindGlyphByUnicode looks a glyph up by code point. The code point has
// passed validate.UnicodeCodepoint, so embedding it as a plain integer is safe.
func FindGlyphByUnicode(codepoint int) string {
	return header + fmt.Sprintf(`        glyph = None
        for g in font.glyphs:
            if g.unicode == %[1]d:
                glyph = g
                break
        if glyph is None:
            result = {
                "success": False,
                "error": "No glyph found with Unicode U+" + hex(%[1]d)[2:].upper().zfill(4),
            }
        else:
            layer = glyph.layers[0] if glyph.layers else None
            result = {
                "success": True,
                "data": {
                    "name": glyph.name,
                    "unicode": glyph.unicode,
                    "width": glyph.width,
                    "height": layer.advanceHeight if layer and hasattr(layer, 'advanceHeight') else 0,
                    "has_contours": len(layer.shapes) > 0 if layer else False,
                },
            }`, codepoint) + trailer
}

// SearchGlyphs matches glyph names against a wildcard pattern (* and ?).
func SearchGlyphs(pattern validate.Literal) string {
	body := header + fmt.Sprintf(`        import fnmatch
        pattern = %s
        matches = []
        for glyph in font.glyphs:
            if fnmatch.fnmatch(glyph.name, pattern):
                matches.append({
                    "name": glyph.name,
                    "unicode": glyph.unicode if glyph.unicode else None,
                    "width": glyph.width,
                })
        result = {
            "success": True,
            "data": {"pattern": pattern, "matches": matches, "count": len(matches)},
        }`, pattern) + trailer
	return body
}

// GlyphMetadata reports a glyph's note, tags, and mark color.
func GlyphMetadata(name validate.Literal) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            result = {
                "success": True,
                "data": {
                    "name": glyph.name,
                    "note": glyph.note if hasattr(glyph, 'note') and glyph.note else "",
                    "tags": list(glyph.tags) if hasattr(glyph, 'tags') and glyph.tags else [],
                    "mark": glyph.mark if hasattr(glyph, 'mark') else 0,
                },
            }`, name) + trailer
}

// Kerning enumerates all kerning pairs.
func Kerning() string {
	return header + `        fg_font = font.fgFont if hasattr(font, 'fgFont') else None
        pairs = []
        if fg_font is not None and hasattr(fg_font, 'kerning'):
            kerning_obj = fg_font.kerning
            if hasattr(kerning_obj, 'asDict'):
                for left_key, right_dict in kerning_obj.asDict().items():
                    for right_key, value in right_dict.items():
                        pairs.append({"left": left_key, "right": right_key, "value": value})
        result = {"success": True, "data": {"pairs": pairs, "count": len(pairs)}}` + trailer
}

// GlyphContours summarizes the contours of one glyph.
func GlyphContours(name validate.Literal) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            layer = glyph.layers[0] if glyph.layers else None
            contours = []
            if layer is not None:
                for i, shape in enumerate(layer.shapes):
                    if hasattr(shape, 'isContour') and shape.isContour:
                        contours.append({
                            "index": i,
                            "closed": shape.closed if hasattr(shape, 'closed') else True,
                            "nodes_count": len(shape.nodes) if hasattr(shape, 'nodes') else 0,
                            "clockwise": shape.clockwise if hasattr(shape, 'clockwise') else None,
                        })
            result = {
                "success": True,
                "data": {"name": glyph.name, "contours": contours, "count": len(contours)},
            }`, name) + trailer
}

// GlyphPaths reports full node-level path data for one glyph.
func GlyphPaths(name validate.Literal) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            layer = glyph.layers[0] if glyph.layers else None
            paths = []
            if layer is not None:
                for shape in layer.shapes:
                    if hasattr(shape, 'isContour') and shape.isContour:
                        nodes = []
                        if hasattr(shape, 'nodes'):
                            for node in shape.nodes:
                                nodes.append({
                                    "x": node.x if hasattr(node, 'x') else 0,
                                    "y": node.y if hasattr(node, 'y') else 0,
                                    "type": node.type.name if hasattr(node, 'type') else "unknown",
                                    "smooth": node.smooth if hasattr(node, 'smooth') else False,
                                })
                        paths.append({
                            "nodes": nodes,
                            "closed": shape.closed if hasattr(shape, 'closed') else True,
                            "clockwise": shape.clockwise if hasattr(shape, 'clockwise') else None,
                        })
            result = {
                "success": True,
                "data": {"name": glyph.name, "paths": paths, "path_count": len(paths)},
            }`, name) + trailer
}

// GlyphComponents reports component references and their transforms.
func GlyphComponents(name validate.Literal) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            layer = glyph.layers[0] if glyph.layers else None
            components = []
            if layer is not None:
                for shape in layer.shapes:
                    if hasattr(shape, 'isComponent') and shape.isComponent:
                        has_tr = hasattr(shape, 'transform')
                        components.append({
                            "base_glyph": shape.name if hasattr(shape, 'name') else "",
                            "transform": {
                                "xx": shape.transform.m11() if has_tr else 1.0,
                                "xy": shape.transform.m12() if has_tr else 0.0,
                                "yx": shape.transform.m21() if has_tr else 0.0,
                                "yy": shape.transform.m22() if has_tr else 1.0,
                                "dx": shape.transform.dx() if has_tr else 0.0,
                                "dy": shape.transform.dy() if has_tr else 0.0,
                            },
                        })
            result = {
                "success": True,
                "data": {"name": glyph.name, "components": components, "count": len(components)},
            }`, name) + trailer
}

// FontFeatures reports the font's OpenType feature code.
func FontFeatures() string {
	return header + `        fg_font = font.fgFont if hasattr(font, 'fgFont') else None
        features_text = ""
        if fg_font is not None and hasattr(fg_font, 'features'):
            features_obj = fg_font.features
            if hasattr(features_obj, 'asFea'):
                features_text = features_obj.asFea()
            else:
                features_text = str(features_obj)
        result = {
            "success": True,
            "data": {"features": features_text, "has_features": len(features_text) > 0},
        }` + trailer
}

// GlyphClasses reports the glyph classes (groups) defined in the font.
func GlyphClasses() string {
	return header + `        fg_font = font.fgFont if hasattr(font, 'fgFont') else None
        classes_dict = {}
        if fg_font is not None and hasattr(fg_font, 'groups'):
            groups = fg_font.groups
            if hasattr(groups, 'asDict'):
                classes_dict = groups.asDict()
            elif hasattr(groups, 'items'):
                classes_dict = dict(groups.items())
        result = {
            "success": True,
            "data": {"classes": classes_dict, "count": len(classes_dict)},
        }` + trailer
}

// CreateGlyph adds a new glyph. codepoint is optional; width has passed a
// range validator.
func CreateGlyph(name validate.Literal, codepoint *int, width float64) string {
	unicodeLine := ""
	if codepoint != nil {
		unicodeLine = fmt.Sprintf("glyph.unicode = %d", *codepoint)
	}
	return strings.Replace(header, "from fontlab import flWorkspace",
		"from fontlab import flWorkspace, flGlyph", 1) +
		fmt.Sprintf(`        existing = font.findGlyph(%[1]s)
        if existing is not None:
            result = {"success": False, "error": "Glyph already exists: " + %[1]s}
        else:
            glyph = flGlyph()
            glyph.name = %[1]s
            glyph.width = %[2]g
            %[3]s
            font.addGlyph(glyph)
            result = {
                "success": True,
                "message": "Glyph created successfully",
                "data": {
                    "name": glyph.name,
                    "unicode": glyph.unicode if glyph.unicode else None,
                    "width": glyph.width,
                },
            }`, name, width, unicodeLine) + trailer
}

// ModifyGlyphWidth sets a glyph's advance width.
func ModifyGlyphWidth(name validate.Literal, width float64) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            old_width = glyph.width
            glyph.width = %[2]g
            glyph.update()
            result = {
                "success": True,
                "message": "Glyph width updated",
                "data": {"name": glyph.name, "old_width": old_width, "new_width": glyph.width},
            }`, name, width) + trailer
}

// Transform holds validated transform parameters for TransformGlyph.
type Transform struct {
	ScaleX     float64
	ScaleY     float64
	Rotate     float64
	TranslateX float64
	TranslateY float64
}

// TransformGlyph applies scale/rotate/translate to a glyph's first layer.
// All numeric fields have passed range validators.
func TransformGlyph(name validate.Literal, tr Transform) string {
	return strings.Replace(header, "from fontlab import flWorkspace",
		"from fontlab import flWorkspace, flTransform", 1) +
		fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            transform = flTransform()
            if %[2]g != 1.0 or %[3]g != 1.0:
                transform.scale(%[2]g, %[3]g)
            if %[4]g != 0:
                transform.rotate(%[4]g)
            if %[5]g != 0 or %[6]g != 0:
                transform.translate(%[5]g, %[6]g)
            layer = glyph.layers[0]
            layer.applyTransform(transform)
            glyph.update()
            result = {
                "success": True,
                "message": "Transformation applied",
                "data": {
                    "name": glyph.name,
                    "transformations": {
                        "scale_x": %[2]g,
                        "scale_y": %[3]g,
                        "rotate": %[4]g,
                        "translate_x": %[5]g,
                        "translate_y": %[6]g,
                    },
                },
            }`, name, tr.ScaleX, tr.ScaleY, tr.Rotate, tr.TranslateX, tr.TranslateY) + trailer
}

// FontInfoUpdate lists the optional metadata fields UpdateFontInfo can set.
// Each non-nil field is an encoded literal.
type FontInfoUpdate struct {
	FamilyName *validate.Literal
	StyleName  *validate.Literal
	Version    *validate.Literal
	Copyright  *validate.Literal
}

// UpdateFontInfo assigns the provided metadata fields on the open font.
func UpdateFontInfo(u FontInfoUpdate) string {
	var assigns []string
	if u.FamilyName != nil {
		assigns = append(assigns, "font.info.familyName = "+string(*u.FamilyName))
	}
	if u.StyleName != nil {
		assigns = append(assigns, "font.info.styleName = "+string(*u.StyleName))
	}
	if u.Version != nil {
		assigns = append(assigns, "font.info.version = "+string(*u.Version))
	}
	if u.Copyright != nil {
		assigns = append(assigns, "font.info.copyright = "+string(*u.Copyright))
	}

	return header + fmt.Sprintf(`        %s
        font.update()
        result = {
            "success": True,
            "message": "Font info updated",
            "data": {
                "family_name": font.info.familyName or "",
                "style_name": font.info.styleName or "",
                "version": getattr(font.info, 'version', ''),
                "copyright": getattr(font.info, 'copyright', ''),
            },
        }`, strings.Join(assigns, "\n        ")) + trailer
}

// ExportFont saves the open font to a validated destination path in the
// given format. Both arguments are encoded literals; the path has also
// passed validate.ExportPath.
func ExportFont(path, format validate.Literal) string {
	return header + fmt.Sprintf(`        ok = font.save(%[1]s, %[2]s)
        if ok:
            result = {
                "success": True,
                "message": "Font exported successfully",
                "data": {"path": %[1]s, "format": %[2]s},
            }
        else:
            result = {"success": False, "error": "Export failed"}`, path, format) + trailer
}

// DeleteGlyph removes a glyph from the open font.
func DeleteGlyph(name validate.Literal) string {
	return header + fmt.Sprintf(`        glyph = font.findGlyph(%[1]s)
        if glyph is None:
            result = {"success": False, "error": "Glyph not found: " + %[1]s}
        else:
            font.removeGlyph(glyph)
            font.update()
            result = {
                "success": True,
                "message": "Glyph deleted successfully",
                "data": {"name": %[1]s},
            }`, name) + trailer
}
