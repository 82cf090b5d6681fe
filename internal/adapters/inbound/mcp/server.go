package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/backup"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/catalog"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/config"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/discovery"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/scanner"
	"github.com/openkraft/fqcnkraft/internal/application"
	"github.com/openkraft/fqcnkraft/internal/domain"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// services is the wiring shared by all tool and resource handlers.
type services struct {
	projectPath string
	engine      *application.Engine
	convert     *application.ConvertService
	validate    *application.ValidateService
	batch       *application.BatchService
	logger      *zap.Logger
}

func newServices(projectPath string, logger *zap.Logger) *services {
	logger = logger.Named("mcp")

	table := catalog.LoadDefault()
	if cfg, err := config.New().Load(projectPath); err != nil {
		logger.Warn("project config ignored", zap.String("path", projectPath), zap.Error(err))
	} else if t, _, err := catalog.Resolve(application.ProjectMappingFile(projectPath, cfg), cfg.Mappings); err != nil {
		logger.Warn("project mappings ignored", zap.String("path", projectPath), zap.Error(err))
	} else {
		table = t
	}
	engine := application.NewEngine(table)

	sc := scanner.New()
	cfgLoader := config.New()
	return &services{
		projectPath: projectPath,
		engine:      engine,
		convert:     application.NewConvertService(engine.Converter, logger),
		validate:    application.NewValidateService(engine.Validator, sc, cfgLoader, logger),
		batch: application.NewBatchService(
			discovery.New(), sc, cfgLoader, gitinfo.New(), engine, catalog.NewSource(),
			func(p string) domain.BackupStore { return backup.New(p) },
			logger,
		),
		logger: logger,
	}
}

// NewFQCNMCPServer creates a new MCP server with all fqcnkraft tools and
// resources registered. projectPath anchors relative file arguments and
// supplies the project mapping configuration.
func NewFQCNMCPServer(projectPath string, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"fqcnkraft",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	svc := newServices(projectPath, logger)
	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
