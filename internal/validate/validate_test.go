package validate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestIdentifierString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "A", false},
		{"dotted", "a.sc", false},
		{"unicode", "uni00E9", false},
		{"empty", "", true},
		{"newline", "A\nimport os", true},
		{"carriage return", "A\rB", true},
		{"nul", "A\x00B", true},
		{"too long", strings.Repeat("a", 256), true},
		{"max length", strings.Repeat("a", 255), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IdentifierString("name", tc.value)
			if tc.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("IdentifierString(%q) error = %v, want *ValidationError", tc.value, err)
				}
				if verr.Field != "name" {
					t.Errorf("Field = %q, want %q", verr.Field, "name")
				}
				return
			}
			if err != nil {
				t.Fatalf("IdentifierString(%q): %v", tc.value, err)
			}
			if got != tc.value {
				t.Errorf("got %q, want %q", got, tc.value)
			}
		})
	}
}

func TestNumericRange(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min, max float64
		wantErr  bool
	}{
		{"inside", 500, 0, 10000, false},
		{"at min", 0, 0, 10000, false},
		{"at max", 10000, 0, 10000, false},
		{"below min", -1, 0, 10000, true},
		{"above max", 10001, 0, 10000, true},
		{"negative range", -360, -360, 360, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NumericRange("width", tc.value, tc.min, tc.max)
			if (err != nil) != tc.wantErr {
				t.Errorf("NumericRange(%g, %g, %g) error = %v, wantErr %v",
					tc.value, tc.min, tc.max, err, tc.wantErr)
			}
		})
	}
}

func TestUnicodeCodepoint(t *testing.T) {
	valid := []int{0, 0x41, 0xD7FF, 0xE000, 0x10FFFF}
	for _, cp := range valid {
		if _, err := UnicodeCodepoint("unicode", cp); err != nil {
			t.Errorf("UnicodeCodepoint(%#x): %v", cp, err)
		}
	}

	invalid := []int{-1, 0x110000, 0xD800, 0xDC00, 0xDFFF}
	for _, cp := range invalid {
		if _, err := UnicodeCodepoint("unicode", cp); err == nil {
			t.Errorf("UnicodeCodepoint(%#x): expected error", cp)
		}
	}

	// The entire surrogate range is rejected.
	for cp := 0xD800; cp <= 0xDFFF; cp += 0xFF {
		if _, err := UnicodeCodepoint("unicode", cp); err == nil {
			t.Errorf("UnicodeCodepoint(%#x): surrogate accepted", cp)
		}
	}
}

func TestStringLength(t *testing.T) {
	if _, err := StringLength("note", "short", 10); err != nil {
		t.Errorf("StringLength: %v", err)
	}
	if _, err := StringLength("note", strings.Repeat("x", 11), 10); err == nil {
		t.Error("StringLength: expected error for oversized string")
	}
}

func TestEncodeLiteralRoundTrip(t *testing.T) {
	values := []any{
		"plain",
		`with "quotes" inside`,
		`back\slash`,
		"new\nline and tab\t",
		"unicode: éあ𝄞",
		float64(42),
		float64(-3.25),
		true,
		nil,
		[]any{"a", float64(1), false},
	}

	for _, v := range values {
		lit, err := EncodeLiteral(v)
		if err != nil {
			t.Fatalf("EncodeLiteral(%v): %v", v, err)
		}
		var decoded any
		if err := json.Unmarshal([]byte(lit), &decoded); err != nil {
			t.Fatalf("decoding literal %q: %v", lit, err)
		}
		if !reflect.DeepEqual(decoded, v) {
			t.Errorf("round trip of %#v produced %#v", v, decoded)
		}
	}
}

func TestEncodeLiteralNeutralizesInjection(t *testing.T) {
	payload := "\"; __import__('os').system('rm -rf /') #"
	lit, err := EncodeLiteral(payload)
	if err != nil {
		t.Fatal(err)
	}
	// The raw quote must be escaped so the literal cannot terminate early.
	if strings.Contains(string(lit), `""; `) {
		t.Errorf("literal %q leaks an unescaped quote", lit)
	}
	var decoded string
	if err := json.Unmarshal([]byte(lit), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != payload {
		t.Errorf("round trip changed value: %q", decoded)
	}
}

func TestExportPath(t *testing.T) {
	tmp := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		got, err := ExportPath(filepath.Join(tmp, "out.otf"), nil)
		if err != nil {
			t.Fatalf("ExportPath: %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("got non-absolute path %q", got)
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		if _, err := ExportPath("../../etc/passwd", nil); err == nil {
			t.Error("expected traversal rejection")
		}
		if _, err := ExportPath(filepath.Join(tmp, "..", "x.otf"), nil); err == nil {
			t.Error("expected traversal rejection for embedded ..")
		}
	})

	t.Run("disallowed extension", func(t *testing.T) {
		if _, err := ExportPath(filepath.Join(tmp, "out.sh"), nil); err == nil {
			t.Error("expected extension rejection")
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		if _, err := ExportPath(filepath.Join(tmp, "nope", "out.otf"), nil); err == nil {
			t.Error("expected missing-parent rejection")
		}
	})

	t.Run("symlinked parent rejected", func(t *testing.T) {
		real := filepath.Join(tmp, "real")
		if err := os.Mkdir(real, 0o755); err != nil {
			t.Fatal(err)
		}
		link := filepath.Join(tmp, "link")
		if err := os.Symlink(real, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
		if _, err := ExportPath(filepath.Join(link, "out.otf"), nil); err == nil {
			t.Error("expected rejection of symlinked ancestor")
		}
	})

	t.Run("symlinked target rejected", func(t *testing.T) {
		target := filepath.Join(tmp, "target.otf")
		if err := os.WriteFile(target, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		link := filepath.Join(tmp, "alias.otf")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
		if _, err := ExportPath(link, nil); err == nil {
			t.Error("expected rejection of symlinked target")
		}
	})
}

func TestRequestSize(t *testing.T) {
	if err := RequestSize(map[string]any{"name": "A"}); err != nil {
		t.Errorf("small payload rejected: %v", err)
	}

	big := map[string]any{"blob": strings.Repeat("x", MaxRequestBytes+1)}
	err := RequestSize(big)
	var serr *RequestSizeError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *RequestSizeError", err)
	}
	if serr.Max != MaxRequestBytes {
		t.Errorf("Max = %d, want %d", serr.Max, MaxRequestBytes)
	}
}
