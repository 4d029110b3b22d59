package pages

import (
	"context"
	"strings"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// TargetPage selects the Azure account, subscription and managed instance.
type TargetPage struct {
	base
}

// NewTargetPage creates the target selection page.
func NewTargetPage(deps Deps, r view.Renderer) *TargetPage {
	return &TargetPage{base{Deps: deps, view: r}}
}

func (p *TargetPage) Name() string { return TargetPageName }

func (p *TargetPage) OnPageEnter(ctx context.Context, nav wizard.Navigator) error {
	snap := p.State.Snapshot()
	p.view.Clear()
	p.view.Heading("Azure account")
	p.view.Input(ControlAzureAccount, "Account", accountLabel(snap.AzureAccount), func(v string) {
		if v == accountLabel(p.State.AzureAccount()) {
			return
		}
		p.State.SetAzureAccount(state.AzureAccount{ID: v, DisplayName: v})
	})
	p.subscriptionChoice(ctx, ControlTargetSubscription, "Subscription", snap.TargetSubscriptionID, p.State.SetTargetSubscriptionID)
	p.view.Input(ControlTargetServer, "Azure SQL Managed Instance", snap.TargetSQLMIServer, p.State.SetTargetSQLMIServer)

	nav.RegisterNavigationValidator(wizard.ForwardOnly(p.complete))
	return nil
}

func (p *TargetPage) OnPageLeave(ctx context.Context, nav wizard.Navigator) error {
	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

// HandleStateChange has nothing to refresh: every field shown is edited here.
func (p *TargetPage) HandleStateChange(state.StateChangeEvent) {}

func (p *TargetPage) complete(nc wizard.NavigationContext) bool {
	var missing []string
	if nc.State.TargetSubscriptionID == "" {
		missing = append(missing, "subscription")
	}
	if nc.State.TargetSQLMIServer == "" {
		missing = append(missing, "managed instance")
	}
	if len(missing) > 0 {
		p.Logger.Warningf("Select a target %s before continuing", strings.Join(missing, " and "))
		return false
	}
	return true
}

func accountLabel(a state.AzureAccount) string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ID
}
