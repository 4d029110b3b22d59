package pages

import (
	"context"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// IntegrationRuntimePage names the migration controller and the node that
// hosts its self-hosted integration runtime.
type IntegrationRuntimePage struct {
	base
}

// NewIntegrationRuntimePage creates the integration runtime page.
func NewIntegrationRuntimePage(deps Deps, r view.Renderer) *IntegrationRuntimePage {
	return &IntegrationRuntimePage{base{Deps: deps, view: r}}
}

func (p *IntegrationRuntimePage) Name() string { return IntegrationRuntimePageName }

// Enabled hides the page for offline migrations. Offline migrations from
// Azure storage need no self-hosted runtime.
func (p *IntegrationRuntimePage) Enabled(s state.Snapshot) bool {
	return s.MigrationMode == state.MigrationModeOnline || s.NetworkContainerType == state.NetworkShareType
}

func (p *IntegrationRuntimePage) OnPageEnter(ctx context.Context, nav wizard.Navigator) error {
	snap := p.State.Snapshot()
	p.view.Clear()
	p.view.Heading("Integration runtime")
	p.view.Input(ControlMigrationController, "Migration controller", snap.MigrationController.Name, func(v string) {
		c := p.State.MigrationController()
		c.Name = v
		p.State.SetMigrationController(c)
	})

	var nodes []string
	if p.Catalog != nil && snap.TargetSubscriptionID != "" {
		names, err := p.Catalog.ListVirtualMachines(ctx, snap.TargetSubscriptionID)
		if err != nil {
			p.Logger.Warningf("Could not list virtual machines: %v", err)
		}
		nodes = names
	}
	p.namedChoice(ControlNodeName, "Node", snap.NodeName, nodes, p.State.SetNodeName)

	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

func (p *IntegrationRuntimePage) OnPageLeave(ctx context.Context, nav wizard.Navigator) error {
	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

func (p *IntegrationRuntimePage) HandleStateChange(state.StateChangeEvent) {}
