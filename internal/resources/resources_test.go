package resources

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/typebridge/fontlab-mcp/internal/bridge"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testHandler(t *testing.T) *Handler {
	t.Helper()
	hostPath := filepath.Join(t.TempDir(), "fontlab")
	stub := "#!/bin/sh\n" +
		"echo '{\"success\": true, \"data\": {\"family\": \"Test\"}}' > \"$4\"\n"
	if err := os.WriteFile(hostPath, []byte(stub), 0o755); err != nil {
		t.Fatal(err)
	}
	b, err := bridge.New(bridge.Config{
		HostPath:   hostPath,
		Capacity:   1,
		MaxTimeout: 5 * time.Second,
		WorkDir:    t.TempDir(),
	}, testLogger(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &Handler{bridge: b, logger: testLogger()}
}

func readReq(uri string) mcp.ReadResourceRequest {
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	return req
}

func decodeContents(t *testing.T, contents []mcp.ResourceContents) map[string]any {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("expected one content item, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected text contents, got %T", contents[0])
	}
	if tc.MIMEType != "application/json" {
		t.Fatalf("unexpected mime type %q", tc.MIMEType)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(tc.Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return payload
}

func TestRegisterAttachesResources(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithResourceCapabilities(true, true))
	h := testHandler(t)
	Register(s, h.bridge, testLogger())
}

func TestCurrentFontResource(t *testing.T) {
	h := testHandler(t)
	contents, err := h.currentFont(context.Background(), readReq("fontlab://font/current"))
	if err != nil {
		t.Fatal(err)
	}
	payload := decodeContents(t, contents)
	if payload["success"] != true {
		t.Fatalf("expected success payload, got %#v", payload)
	}
	data, ok := payload["data"].(map[string]any)
	if !ok || data["family"] != "Test" {
		t.Fatalf("unexpected data: %#v", payload["data"])
	}
}

func TestGlyphListResource(t *testing.T) {
	h := testHandler(t)
	contents, err := h.glyphList(context.Background(), readReq("fontlab://font/current/glyphs"))
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if tc.URI != "fontlab://font/current/glyphs" {
		t.Fatalf("URI not echoed back: %q", tc.URI)
	}
}

func TestGlyphResourceValidatesName(t *testing.T) {
	h := testHandler(t)
	tests := []string{
		"fontlab://glyph/",
		"fontlab://glyph/A\nimport os",
	}
	for _, uri := range tests {
		if _, err := h.glyph(context.Background(), readReq(uri)); err == nil {
			t.Fatalf("expected validation error for %q", uri)
		}
	}
}

func TestGlyphResourceSuccess(t *testing.T) {
	h := testHandler(t)
	contents, err := h.glyph(context.Background(), readReq("fontlab://glyph/A"))
	if err != nil {
		t.Fatal(err)
	}
	payload := decodeContents(t, contents)
	if payload["success"] != true {
		t.Fatalf("expected success payload, got %#v", payload)
	}
}

func TestResourceErrorStaysSanitized(t *testing.T) {
	hostPath := filepath.Join(t.TempDir(), "fontlab")
	stub := "#!/bin/sh\n" +
		"echo 'Traceback (most recent call last):' >&2\n" +
		"echo '  File \"/Users/alice/project/tool.py\", line 42' >&2\n" +
		"echo 'RuntimeError: boom' >&2\n" +
		"exit 1\n"
	if err := os.WriteFile(hostPath, []byte(stub), 0o755); err != nil {
		t.Fatal(err)
	}
	b, err := bridge.New(bridge.Config{
		HostPath:   hostPath,
		Capacity:   1,
		MaxTimeout: 5 * time.Second,
		WorkDir:    t.TempDir(),
	}, testLogger(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h := &Handler{bridge: b, logger: testLogger()}

	contents, err := h.currentFont(context.Background(), readReq("fontlab://font/current"))
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if strings.Contains(tc.Text, "/Users/alice") || strings.Contains(tc.Text, "line 42") {
		t.Fatalf("payload leaks host details: %s", tc.Text)
	}
}
