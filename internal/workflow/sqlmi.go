package workflow

import (
	"fmt"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/cloud/azure"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/config"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/pages"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// SQLMIHandler builds the wizard for migrations to Azure SQL Managed Instance.
type SQLMIHandler struct {
	config   *config.Config
	logger   *logger.Logger
	version  string
	provider *azure.Provider
}

func NewSQLMIHandler(version string) *SQLMIHandler {
	return &SQLMIHandler{version: version}
}

func (h *SQLMIHandler) Name() string { return "Azure SQL Managed Instance Migration" }

func (h *SQLMIHandler) TargetPlatform() string { return config.DefaultTargetPlatform }

func (h *SQLMIHandler) Initialize(cfg *config.Config, log *logger.Logger) error {
	h.config, h.logger = cfg, log
	if cfg.SkipAzure {
		log.Warning("Skipping Azure lookups (SKIP_AZURE=true)")
		return nil
	}
	var err error
	if h.provider, err = azure.NewProvider(log, h.version); err != nil {
		return fmt.Errorf("failed to initialize Azure provider: %w", err)
	}
	return nil
}

func (h *SQLMIHandler) Lookup() state.SubscriptionLookup {
	if h.provider == nil {
		return nil
	}
	return h.provider
}

func (h *SQLMIHandler) catalog() pages.Catalog {
	if h.provider == nil {
		return nil
	}
	return h.provider
}

func (h *SQLMIHandler) Pages(st *state.WizardState, surface func(page string) view.Renderer) []wizard.Page {
	deps := pages.Deps{State: st, Logger: h.logger, Catalog: h.catalog()}
	return []wizard.Page{
		pages.NewTargetPage(deps, surface(pages.TargetPageName)),
		pages.NewMigrationModePage(deps, surface(pages.MigrationModePageName)),
		pages.NewDatabaseBackupPage(deps, surface(pages.DatabaseBackupPageName)),
		pages.NewIntegrationRuntimePage(deps, surface(pages.IntegrationRuntimePageName)),
		pages.NewSummaryPage(deps, surface(pages.SummaryPageName)),
	}
}
