// Package pages implements the steps of the SQL Managed Instance migration
// wizard on top of the shared state.
package pages

import (
	"context"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/cloud/azure"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
)

// Page names. Renderer surfaces are keyed by these.
const (
	TargetPageName             = "Azure SQL target"
	MigrationModePageName      = "Migration mode"
	DatabaseBackupPageName     = "Database backup"
	IntegrationRuntimePageName = "Integration runtime"
	SummaryPageName            = "Summary"
)

// Control names. Preset answers are keyed by these.
const (
	ControlAzureAccount         = "azure_account"
	ControlTargetSubscription   = "target_subscription"
	ControlTargetServer         = "target_server"
	ControlMigrationMode        = "migration_mode"
	ControlContainerType        = "container_type"
	ControlNetworkShareLocation = "network_share_location"
	ControlWindowsUser          = "windows_user"
	ControlStorageSubscription  = "storage_subscription"
	ControlStorageAccount       = "storage_account"
	ControlFileShare            = "file_share"
	ControlBlobContainer        = "blob_container"
	ControlMigrationController  = "migration_controller"
	ControlNodeName             = "node_name"
)

// ControlNames lists every control rendered by the wizard pages.
func ControlNames() []string {
	return []string{
		ControlAzureAccount,
		ControlTargetSubscription,
		ControlTargetServer,
		ControlMigrationMode,
		ControlContainerType,
		ControlNetworkShareLocation,
		ControlWindowsUser,
		ControlStorageSubscription,
		ControlStorageAccount,
		ControlFileShare,
		ControlBlobContainer,
		ControlMigrationController,
		ControlNodeName,
	}
}

// Catalog lists selectable Azure resources. Pages fall back to free-text
// inputs when the catalog is nil or a listing fails.
type Catalog interface {
	ListSubscriptions(ctx context.Context) ([]azure.Subscription, error)
	ListBlobContainers(ctx context.Context, storageAccount string) ([]string, error)
	ListVirtualMachines(ctx context.Context, subscriptionID string) ([]string, error)
}

// Deps are the collaborators shared by all pages.
type Deps struct {
	State   *state.WizardState
	Logger  *logger.Logger
	Catalog Catalog
}

type base struct {
	Deps
	view view.Renderer
}

// subscriptionChoice renders a subscription picker, or an input when no
// subscriptions can be listed.
func (b *base) subscriptionChoice(ctx context.Context, name, label, selected string, onChange func(string)) {
	if b.Catalog != nil {
		subs, err := b.Catalog.ListSubscriptions(ctx)
		if err != nil {
			b.Logger.Warningf("Could not list subscriptions: %v", err)
		} else if len(subs) > 0 {
			options := make([]view.Option, 0, len(subs))
			for _, s := range subs {
				options = append(options, view.Option{ID: s.ID, Label: s.DisplayName, Description: s.ID})
			}
			b.view.Heading(label)
			b.view.Choice(name, options, selected, onChange)
			return
		}
	}
	b.view.Input(name, label, selected, onChange)
}

// namedChoice renders a picker over names, or an input when names is empty.
func (b *base) namedChoice(name, label, selected string, names []string, onChange func(string)) {
	if len(names) == 0 {
		b.view.Input(name, label, selected, onChange)
		return
	}
	options := make([]view.Option, 0, len(names))
	for _, n := range names {
		options = append(options, view.Option{ID: n, Label: n})
	}
	b.view.Heading(label)
	b.view.Choice(name, options, selected, onChange)
}
