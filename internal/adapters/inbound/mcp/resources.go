package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const mappingsURI = "fqcn://mappings"

// registerResources registers all fqcnkraft MCP resources on the given server.
func registerResources(s *server.MCPServer, svc *services) {
	s.AddResource(
		mcplib.NewResource(
			mappingsURI,
			"Module Mappings",
			mcplib.WithResourceDescription("Effective short name to FQCN mapping table for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleMappingsResource(svc),
	)
}

func handleMappingsResource(svc *services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(map[string]any{
			"collections": svc.engine.Table.Collections(),
			"mappings":    svc.engine.Table.Entries(),
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling mappings: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      mappingsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
