package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

// registerTools registers all fqcnkraft MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *services) {
	// 1. fqcn_convert_content
	s.AddTool(
		mcplib.NewTool("fqcn_convert_content",
			mcplib.WithDescription("Convert short Ansible module names in YAML content to fully qualified collection names. Comments and formatting are preserved."),
			mcplib.WithString("content", mcplib.Required(), mcplib.Description("Ansible YAML content (playbook or task file)")),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		handleConvertContent(svc),
	)

	// 2. fqcn_validate_content
	s.AddTool(
		mcplib.NewTool("fqcn_validate_content",
			mcplib.WithDescription("Check Ansible YAML content for FQCN compliance and return issues with suggested names and a completeness score"),
			mcplib.WithString("content", mcplib.Required(), mcplib.Description("Ansible YAML content")),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		handleValidateContent(svc),
	)

	// 3. fqcn_validate_file
	s.AddTool(
		mcplib.NewTool("fqcn_validate_file",
			mcplib.WithDescription("Check a YAML file, or every YAML file of a project directory, for FQCN compliance"),
			mcplib.WithString("path", mcplib.Required(), mcplib.Description("File or directory, relative to the server's project path")),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		handleValidateFile(svc),
	)

	// 4. fqcn_discover_projects
	s.AddTool(
		mcplib.NewTool("fqcn_discover_projects",
			mcplib.WithDescription("Find Ansible project roots below a directory"),
			mcplib.WithString("root", mcplib.Description("Search root (default: project path)")),
			mcplib.WithString("patterns", mcplib.Description("Comma-separated marker file globs (default: site.yml, playbook*.yml, inventory*, ...)")),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		handleDiscoverProjects(svc),
	)

	// 5. fqcn_batch_convert
	s.AddTool(
		mcplib.NewTool("fqcn_batch_convert",
			mcplib.WithDescription("Dry-run conversion of every discovered Ansible project below a directory. Nothing is written."),
			mcplib.WithString("root", mcplib.Description("Search root (default: project path)")),
			mcplib.WithNumber("workers", mcplib.Description("Number of parallel workers (default: number of CPUs)")),
			mcplib.WithBoolean("validate", mcplib.Description("Score each project after conversion")),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		handleBatchConvert(svc),
	)

	// 6. fqcn_lookup_module
	s.AddTool(
		mcplib.NewTool("fqcn_lookup_module",
			mcplib.WithDescription("Return the fully qualified collection name for a short module name"),
			mcplib.WithString("module", mcplib.Required(), mcplib.Description("Short module name, e.g. copy")),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		handleLookupModule(svc),
	)
}

func handleConvertContent(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		result, err := svc.convert.ConvertContent(content)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(result)
	}
}

func handleValidateContent(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		result, err := svc.validate.ValidateContent(content)
		if err != nil {
			return domainErrorResult(err), nil
		}
		res, err := jsonResult(result)
		if err != nil {
			return nil, err
		}
		res.Content = append(res.Content, mcplib.NewTextContent(result.Summary()))
		return res, nil
	}
}

func handleValidateFile(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		rel, err := request.RequireString("path")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		path := svc.resolve(rel)

		if isDir(path) {
			pv, err := svc.validate.ValidateProject(path)
			if err != nil {
				return domainErrorResult(err), nil
			}
			return jsonResult(pv)
		}
		result, err := svc.validate.ValidateConversion(path)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(result)
	}
}

func handleDiscoverProjects(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		root, _ := args["root"].(string)
		patterns, _ := args["patterns"].(string)

		projects, err := svc.batch.DiscoverProjects(svc.resolve(root), splitList(patterns))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if projects == nil {
			projects = []string{}
		}
		return jsonResult(map[string]any{"projects": projects, "count": len(projects)})
	}
}

func handleBatchConvert(svc *services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		root, _ := args["root"].(string)

		opts := domain.DefaultBatchOptions()
		opts.DryRun = true
		if w, ok := args["workers"].(float64); ok && w >= 1 {
			opts.MaxWorkers = int(w)
		}
		opts.Validate, _ = args["validate"].(bool)

		projects, err := svc.batch.DiscoverProjects(svc.resolve(root), nil)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		result := svc.batch.ProcessProjects(ctx, projects, opts)
		svc.logger.Debug("batch tool finished", zap.Int("projects", result.TotalProjects))
		res, err := jsonResult(result)
		if err != nil {
			return nil, err
		}
		res.Content = append(res.Content, mcplib.NewTextContent(result.Summary()))
		return res, nil
	}
}

func handleLookupModule(svc *services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		module, err := request.RequireString("module")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		fqcn, found := svc.engine.Table.Lookup(module)
		return jsonResult(map[string]any{
			"module": module,
			"fqcn":   fqcn,
			"found":  found,
		})
	}
}

func (svc *services) resolve(p string) string {
	if p == "" {
		return svc.projectPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(svc.projectPath, p)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

// domainErrorResult appends the recovery suggestions carried by err.
func domainErrorResult(err error) *mcplib.CallToolResult {
	msg := err.Error()
	if s := domain.SuggestionsFor(err); len(s) > 0 {
		msg += "\nsuggestions:\n  - " + strings.Join(s, "\n  - ")
	}
	return errorResult(msg)
}
