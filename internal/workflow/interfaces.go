// Package workflow defines interfaces for workflow abstraction.
package workflow

import (
	"github.com/codebypatrickleung/sqlmi-wizard/internal/config"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// Handler defines the interface for a workflow handler that builds the wizard
// of one migration target.
type Handler interface {
	// Name returns the name of the workflow (e.g., "Azure SQL Managed Instance Migration")
	Name() string

	// TargetPlatform returns the target platform identifier
	TargetPlatform() string

	// Initialize prepares the workflow handler with configuration and logger
	Initialize(cfg *config.Config, log *logger.Logger) error

	// Lookup returns the subscription lookup for new sessions, or nil
	Lookup() state.SubscriptionLookup

	// Pages returns the wizard pages bound to st. surface returns the
	// renderer of the named page.
	Pages(st *state.WizardState, surface func(page string) view.Renderer) []wizard.Page
}
