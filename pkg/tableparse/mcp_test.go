package tableparse

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "tableparse-test", Version: "0.1.0"}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	NewParser().RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	// The server-side error value is not serialized; only IsError and
	// the error text reach the client.
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %s", name, tc.Text)
	}
	return tc.Text
}

func TestMCPParseTool(t *testing.T) {
	session := mcpSession(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "parts.csv")
	if err := os.WriteFile(path, []byte("name,qty\nbolt,42\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text := mcpCallTool(t, session, "tableparse_parse", map[string]any{"file_path": path})

	var res ParseResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Format != FormatMarkdown {
		t.Errorf("format = %q, expected markdown", res.Format)
	}
	if !strings.Contains(res.Content, "bolt") {
		t.Errorf("content = %q", res.Content)
	}
	if res.Metadata.Engine != "csv" {
		t.Errorf("engine = %q", res.Metadata.Engine)
	}
}

func TestMCPScoreToolInlineContent(t *testing.T) {
	session := mcpSession(t)
	content := base64.StdEncoding.EncodeToString(buildWorkbook(t))

	text := mcpCallTool(t, session, "tableparse_score", map[string]any{
		"file_content_base64": content,
	})

	var res struct {
		Total       float64 `json:"total"`
		Level       string  `json:"level"`
		Profile     string  `json:"profile"`
		Recommended string  `json:"recommended"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Profile != "base" || res.Recommended != "markdown" {
		t.Errorf("score = %+v, expected base/markdown", res)
	}
	if res.Level != "simple" {
		t.Errorf("level = %q, expected simple", res.Level)
	}
}

func TestMCPPreviewTool(t *testing.T) {
	session := mcpSession(t)
	content := base64.StdEncoding.EncodeToString(buildWorkbook(t))

	text := mcpCallTool(t, session, "tableparse_preview", map[string]any{
		"file_content_base64": content,
		"max_rows":            2,
	})

	var pv Preview
	if err := json.Unmarshal([]byte(text), &pv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(pv.Sheets) != 1 || len(pv.Sheets[0].Rows) != 2 || !pv.Sheets[0].Truncated {
		t.Errorf("preview = %+v, expected 2 truncated rows", pv)
	}
}

func TestMCPParseToolMissingInput(t *testing.T) {
	session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "tableparse_parse",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error without file_path or file_content_base64")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	if !strings.Contains(tc.Text, "file_path or file_content_base64") {
		t.Errorf("error text = %q", tc.Text)
	}
}
