package pages

import (
	"context"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

var modeOptions = []view.Option{
	{
		ID:          state.MigrationModeOnline.Key(),
		Label:       state.MigrationModeOnline.String(),
		Description: "Application downtime is limited to cutover at the end of migration.",
	},
	{
		ID:          state.MigrationModeOffline.Key(),
		Label:       state.MigrationModeOffline.String(),
		Description: "Application downtime will start when the migration starts.",
	},
}

// MigrationModePage chooses between online and offline migration.
type MigrationModePage struct {
	base
}

// NewMigrationModePage creates the migration mode page.
func NewMigrationModePage(deps Deps, r view.Renderer) *MigrationModePage {
	return &MigrationModePage{base{Deps: deps, view: r}}
}

func (p *MigrationModePage) Name() string { return MigrationModePageName }

func (p *MigrationModePage) OnPageEnter(ctx context.Context, nav wizard.Navigator) error {
	p.view.Clear()
	p.view.Heading("Choose the migration mode")
	p.view.Choice(ControlMigrationMode, modeOptions, p.State.MigrationMode().Key(), func(id string) {
		mode, err := state.ParseMigrationMode(id)
		if err != nil {
			p.Logger.Warningf("Ignoring migration mode: %v", err)
			return
		}
		p.State.SetMigrationMode(mode)
	})
	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

func (p *MigrationModePage) OnPageLeave(ctx context.Context, nav wizard.Navigator) error {
	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

func (p *MigrationModePage) HandleStateChange(state.StateChangeEvent) {}
