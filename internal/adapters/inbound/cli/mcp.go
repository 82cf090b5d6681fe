package cli

import (
	mcpadapter "github.com/openkraft/fqcnkraft/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the fqcnkraft MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(a))
	return cmd
}

func newMCPServeCmd(a *app) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start fqcnkraft MCP server (stdio)",
		Long:  "Start the fqcnkraft MCP server using stdio transport. This lets AI coding assistants convert and validate Ansible content and run dry-run batch reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			a.log().Info("starting MCP server", zap.String("path", projectPath))
			s := mcpadapter.NewFQCNMCPServer(projectPath, a.log())
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
