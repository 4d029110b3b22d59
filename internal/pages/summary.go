package pages

import (
	"context"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/summary"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// SummaryPage shows the collected settings before the migration is committed.
type SummaryPage struct {
	base
}

// NewSummaryPage creates the summary page.
func NewSummaryPage(deps Deps, r view.Renderer) *SummaryPage {
	return &SummaryPage{base{Deps: deps, view: r}}
}

func (p *SummaryPage) Name() string { return SummaryPageName }

func (p *SummaryPage) OnPageEnter(ctx context.Context, nav wizard.Navigator) error {
	p.view.Clear()
	summary.Render(p.view, summary.Build(ctx, p.State))
	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

func (p *SummaryPage) OnPageLeave(ctx context.Context, nav wizard.Navigator) error {
	p.view.Clear()
	nav.RegisterNavigationValidator(wizard.AllowAll)
	return nil
}

func (p *SummaryPage) HandleStateChange(state.StateChangeEvent) {}
