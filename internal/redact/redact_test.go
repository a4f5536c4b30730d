package redact

import (
	"strings"
	"testing"
)

func TestErrorRedactsPathsAndLines(t *testing.T) {
	in := `error in /Users/alice/secret/project/script.py, line 42`
	got := Error(in)

	if strings.Contains(got, "/Users/alice") {
		t.Errorf("sanitized text leaks path: %q", got)
	}
	if strings.Contains(got, "line 42") {
		t.Errorf("sanitized text leaks line number: %q", got)
	}
}

func TestErrorRedactsWindowsPaths(t *testing.T) {
	got := Error(`cannot open C:\Projects\fonts\work.vfc`)
	if strings.Contains(got, `C:\Projects`) {
		t.Errorf("sanitized text leaks windows path: %q", got)
	}
	if !strings.Contains(got, "[PATH]") {
		t.Errorf("expected [PATH] placeholder in %q", got)
	}
}

func TestErrorCollapsesTraceback(t *testing.T) {
	in := "Traceback (most recent call last):\n" +
		`  File "/opt/scripts/run.py", line 10, in <module>` + "\n" +
		"    glyph.update()\n" +
		"AttributeError: 'NoneType' object has no attribute 'update'"

	got := Error(in)
	if strings.Contains(got, "Traceback") {
		t.Errorf("traceback structure leaked: %q", got)
	}
	if !strings.Contains(got, "AttributeError") {
		t.Errorf("final exception line lost: %q", got)
	}
}

func TestErrorGenericFallback(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// These markers are not path-shaped, so they survive the regex
		// redaction and trigger the stricter fallback.
		{"permission", "permission denied for %USERPROFILE% data", "Permission denied"},
		{"not found", "no such entry in %USERPROFILE% cache", "Resource not found"},
		{"generic", "interpreter fault in site-packages module", "Operation failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Error(tc.in); got != tc.want {
				t.Errorf("Error(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestErrorEmptyInput(t *testing.T) {
	if got := Error(""); got != "An error occurred" {
		t.Errorf("Error(\"\") = %q", got)
	}
}

func TestErrorTruncates(t *testing.T) {
	got := Error(strings.Repeat("e", 2*MaxErrorLen))
	if len(got) > MaxErrorLen {
		t.Errorf("len = %d, want <= %d", len(got), MaxErrorLen)
	}
}
