// Package validate rejects malformed caller input and encodes accepted values
// into injection-safe literals for generated FontLab scripts.
//
// Every caller-controlled value that ends up inside a script body must pass
// through EncodeLiteral (or a stricter validator first). Script templates only
// accept the Literal type, so raw string interpolation of caller input is a
// compile error, not a code-review finding.
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxIdentifierLen bounds glyph and font names.
	MaxIdentifierLen = 255

	// MaxRequestBytes caps the serialized argument payload of a single call.
	MaxRequestBytes = 1_000_000
)

// DefaultExportExtensions is the allow-list for font export targets.
var DefaultExportExtensions = []string{".otf", ".ttf", ".woff", ".woff2", ".ufo"}

// ValidationError reports a rejected caller input with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RequestSizeError reports an argument payload exceeding MaxRequestBytes.
type RequestSizeError struct {
	Size int
	Max  int
}

func (e *RequestSizeError) Error() string {
	return fmt.Sprintf("request too large: %d bytes (max %d)", e.Size, e.Max)
}

// Literal is a textual literal safe to splice verbatim into a script body.
// Values of this type are only produced by EncodeLiteral.
type Literal string

// EncodeLiteral serializes a value (string, number, bool, list, nil) into a
// literal whose escaping rules round-trip: decoding the produced text yields
// a value equal to the input. JSON string escaping is a strict subset of the
// host interpreter's string syntax, so quotes, backslashes, and control
// characters can never terminate the quoted literal early.
func EncodeLiteral(value any) (Literal, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", &ValidationError{Field: "value", Reason: "not encodable: " + err.Error()}
	}
	return Literal(data), nil
}

// IdentifierString validates a glyph/font name: non-empty, bounded length,
// and free of the control characters that could break out of a quoted
// literal or inject additional statements.
func IdentifierString(field, value string) (string, error) {
	if value == "" {
		return "", &ValidationError{Field: field, Reason: "must be a non-empty string"}
	}
	if len(value) > MaxIdentifierLen {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("too long (max %d characters)", MaxIdentifierLen)}
	}
	if strings.ContainsAny(value, "\n\r\x00") {
		return "", &ValidationError{Field: field, Reason: "contains invalid control characters"}
	}
	return value, nil
}

// NumericRange validates that value lies in [min, max] inclusive.
func NumericRange(field string, value, min, max float64) (float64, error) {
	if value != value { // NaN
		return 0, &ValidationError{Field: field, Reason: "must be a number"}
	}
	if value < min {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("must be >= %g, got %g", min, value)}
	}
	if value > max {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("must be <= %g, got %g", max, value)}
	}
	return value, nil
}

// StringLength validates that value does not exceed maxLen.
func StringLength(field, value string, maxLen int) (string, error) {
	if len(value) > maxLen {
		return "", &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("too long (max %d characters, got %d)", maxLen, len(value)),
		}
	}
	return value, nil
}

// UnicodeCodepoint validates a Unicode code point: 0..0x10FFFF, excluding the
// surrogate range which is invalid for standalone code points.
func UnicodeCodepoint(field string, value int) (int, error) {
	if value < 0 || value > 0x10FFFF {
		return 0, &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("invalid code point %d (must be 0-0x10FFFF)", value),
		}
	}
	if value >= 0xD800 && value <= 0xDFFF {
		return 0, &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("code point %#x is in the surrogate range", value),
		}
	}
	return value, nil
}

// ExportPath validates a font export destination and returns its absolute
// form. The traversal check runs on the raw path components before any
// resolution, since resolution silently collapses ".." segments. Every
// ancestor directory up to the filesystem root, and the target itself, must
// not be a symbolic link; a symlink swapped in under the target would
// otherwise redirect the export to an unintended location.
func ExportPath(raw string, allowedExtensions []string) (string, error) {
	if raw == "" {
		return "", &ValidationError{Field: "path", Reason: "must be a non-empty string"}
	}
	if len(allowedExtensions) == 0 {
		allowedExtensions = DefaultExportExtensions
	}

	for _, part := range strings.Split(filepath.ToSlash(raw), "/") {
		if part == ".." {
			return "", &ValidationError{Field: "path", Reason: "path traversal (..) detected"}
		}
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", &ValidationError{Field: "path", Reason: "not resolvable: " + err.Error()}
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if !containsString(allowedExtensions, ext) {
		return "", &ValidationError{
			Field:  "path",
			Reason: fmt.Sprintf("extension %q not allowed (allowed: %s)", ext, strings.Join(allowedExtensions, ", ")),
		}
	}

	parent := filepath.Dir(abs)
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return "", &ValidationError{Field: "path", Reason: "parent directory does not exist"}
	}

	// Walk from the target up to the root. The target may not exist yet
	// (that is the normal export case); anything that does exist on the
	// chain must be a real directory or file, never a symlink.
	for p := abs; ; {
		fi, err := os.Lstat(p)
		if err == nil && fi.Mode()&os.ModeSymlink != 0 {
			return "", &ValidationError{Field: "path", Reason: "path contains a symbolic link"}
		}
		next := filepath.Dir(p)
		if next == p {
			break
		}
		p = next
	}

	return abs, nil
}

// RequestSize serializes the full argument payload and rejects it if it
// exceeds MaxRequestBytes. Runs before any per-field validation so
// pathological payloads fail before any expensive work.
func RequestSize(payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &ValidationError{Field: "arguments", Reason: "not serializable: " + err.Error()}
	}
	if len(data) > MaxRequestBytes {
		return &RequestSizeError{Size: len(data), Max: MaxRequestBytes}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
