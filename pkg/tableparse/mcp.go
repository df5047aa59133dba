package tableparse

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the parse, score and preview tools on an MCP
// server.
func (p *Parser) RegisterMCP(srv *mcp.Server) {
	p.registerParseTool(srv)
	p.registerScoreTool(srv)
	p.registerPreviewTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// fileInput is the common source selector: a path on disk or inline
// base64 content.
type fileInput struct {
	FilePath          string `json:"file_path,omitempty"`
	FileContentBase64 string `json:"file_content_base64,omitempty"`
}

// resolve returns the raw bytes and a display name for the input.
func (in fileInput) resolve() ([]byte, string, error) {
	switch {
	case in.FilePath != "":
		if err := ValidatePath(in.FilePath); err != nil {
			return nil, "", err
		}
		data, err := readFile(in.FilePath)
		if err != nil {
			return nil, "", err
		}
		return data, in.FilePath, nil
	case in.FileContentBase64 != "":
		data, err := base64.StdEncoding.DecodeString(in.FileContentBase64)
		if err != nil {
			return nil, "", fmt.Errorf("decode base64 content: %w", err)
		}
		return data, "inline", nil
	default:
		return nil, "", errors.New("file_path or file_content_base64 is required")
	}
}

var fileProperties = map[string]any{
	"file_path": map[string]any{
		"type":        "string",
		"description": "Path to an .xlsx, .xlsm, .xls or .csv file",
	},
	"file_content_base64": map[string]any{
		"type":        "string",
		"description": "Base64-encoded file content, used when file_path is absent",
	},
}

// addJSONTool wires a handler whose result is marshalled to a single
// text content block. Handler errors become tool errors, not protocol
// errors.
func addJSONTool[Req any](srv *mcp.Server, tool *mcp.Tool, handle func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := handle(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- parse ---

type parseToolReq struct {
	fileInput
	OutputFormat      string `json:"output_format,omitempty"`
	ChunkRows         int    `json:"chunk_rows,omitempty"`
	CleanIllegalChars *bool  `json:"clean_illegal_chars,omitempty"`
	PreserveStyles    bool   `json:"preserve_styles,omitempty"`
	IncludeEmptyRows  bool   `json:"include_empty_rows,omitempty"`
}

func (p *Parser) registerParseTool(srv *mcp.Server) {
	properties := map[string]any{
		"output_format": map[string]any{
			"type":        "string",
			"description": "auto, markdown or html (default auto)",
		},
		"chunk_rows": map[string]any{
			"type":        "integer",
			"description": "Data rows per HTML table fragment (default 256)",
		},
		"clean_illegal_chars": map[string]any{
			"type":        "boolean",
			"description": "Strip control characters from cell text (default true)",
		},
		"preserve_styles": map[string]any{
			"type":        "boolean",
			"description": "Serialize cell styling as inline HTML attributes",
		},
		"include_empty_rows": map[string]any{
			"type":        "boolean",
			"description": "Keep rows whose cells are all empty",
		},
	}
	for k, v := range fileProperties {
		properties[k] = v
	}

	tool := &mcp.Tool{
		Name:        "tableparse_parse",
		Description: "Parse an Excel or CSV file into Markdown or chunked HTML, picking the format by complexity score when output_format is auto.",
		InputSchema: inputSchema(properties, nil),
	}

	addJSONTool(srv, tool, func(_ context.Context, r *parseToolReq) (any, error) {
		data, name, err := r.resolve()
		if err != nil {
			return nil, err
		}
		opts := DefaultOptions()
		if r.OutputFormat != "" {
			opts.Format = OutputFormat(r.OutputFormat)
		}
		opts.ChunkRows = r.ChunkRows
		opts.CleanIllegalChars = r.CleanIllegalChars
		opts.PreserveStyles = r.PreserveStyles
		opts.IncludeEmptyRows = r.IncludeEmptyRows
		return p.Parse(data, name, opts)
	})
}

// --- score ---

type scoreToolReq struct {
	fileInput
}

func (p *Parser) registerScoreTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tableparse_score",
		Description: "Analyze the structural complexity of an Excel or CSV file and recommend an output format without converting.",
		InputSchema: inputSchema(fileProperties, nil),
	}

	addJSONTool(srv, tool, func(_ context.Context, r *scoreToolReq) (any, error) {
		data, name, err := r.resolve()
		if err != nil {
			return nil, err
		}
		analysis, err := p.Score(data, name)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"total":           analysis.Total,
			"level":           analysis.Level(),
			"profile":         analysis.Profile,
			"recommended":     analysis.Recommended,
			"override_reason": analysis.OverrideReason,
			"breakdown":       analysis.Breakdown,
		}, nil
	})
}

// --- preview ---

type previewToolReq struct {
	fileInput
	MaxRows int `json:"max_rows,omitempty"`
	MaxCols int `json:"max_cols,omitempty"`
}

func (p *Parser) registerPreviewTool(srv *mcp.Server) {
	properties := map[string]any{
		"max_rows": map[string]any{
			"type":        "integer",
			"description": "Rows shown per sheet (default 10)",
		},
		"max_cols": map[string]any{
			"type":        "integer",
			"description": "Columns shown per sheet (default 10)",
		},
	}
	for k, v := range fileProperties {
		properties[k] = v
	}

	tool := &mcp.Tool{
		Name:        "tableparse_preview",
		Description: "Quickly preview the top-left corner of each sheet without full conversion.",
		InputSchema: inputSchema(properties, nil),
	}

	addJSONTool(srv, tool, func(_ context.Context, r *previewToolReq) (any, error) {
		data, name, err := r.resolve()
		if err != nil {
			return nil, err
		}
		return p.Preview(data, name, r.MaxRows, r.MaxCols)
	})
}
