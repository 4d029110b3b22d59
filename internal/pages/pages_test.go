package pages

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/cloud/azure"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

type fakeControl struct {
	options  []view.Option
	value    string
	onChange func(string)
}

// fakeRenderer keeps the controls of the latest render.
type fakeRenderer struct {
	headings []string
	rows     []view.Row
	controls map[string]*fakeControl
	clears   int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{controls: make(map[string]*fakeControl)}
}

func (r *fakeRenderer) Heading(text string) { r.headings = append(r.headings, text) }

func (r *fakeRenderer) Rows(rows []view.Row) { r.rows = append(r.rows, rows...) }

func (r *fakeRenderer) Choice(name string, options []view.Option, selected string, onChange func(string)) {
	r.controls[name] = &fakeControl{options: options, value: selected, onChange: onChange}
}

func (r *fakeRenderer) Input(name, label, value string, onChange func(string)) {
	r.controls[name] = &fakeControl{value: value, onChange: onChange}
}

func (r *fakeRenderer) Clear() {
	r.clears++
	r.headings = nil
	r.rows = nil
	r.controls = make(map[string]*fakeControl)
}

func (r *fakeRenderer) set(t *testing.T, name, value string) {
	t.Helper()
	c, ok := r.controls[name]
	if !ok {
		t.Fatalf("Control %s is not rendered", name)
	}
	c.onChange(value)
}

type fakeNavigator struct {
	validators []wizard.NavigationValidator
}

func (n *fakeNavigator) RegisterNavigationValidator(v wizard.NavigationValidator) {
	n.validators = append(n.validators, v)
}

func (n *fakeNavigator) forward(s state.Snapshot) bool {
	v := n.validators[len(n.validators)-1]
	return v(wizard.NavigationContext{From: 0, To: 1, Direction: wizard.DirectionForward, State: s})
}

type fakeCatalog struct {
	subscriptions  []azure.Subscription
	containers     map[string][]string
	vms            []string
	err            error
	containerCalls []string
}

func (c *fakeCatalog) ListSubscriptions(ctx context.Context) ([]azure.Subscription, error) {
	return c.subscriptions, c.err
}

func (c *fakeCatalog) ListBlobContainers(ctx context.Context, storageAccount string) ([]string, error) {
	c.containerCalls = append(c.containerCalls, storageAccount)
	return c.containers[storageAccount], c.err
}

func (c *fakeCatalog) ListVirtualMachines(ctx context.Context, subscriptionID string) ([]string, error) {
	return c.vms, c.err
}

func newDeps(catalog Catalog) Deps {
	return Deps{
		State:   state.New(nil),
		Logger:  logger.NewWithWriter(false, &bytes.Buffer{}),
		Catalog: catalog,
	}
}

// enter subscribes page to deps.State the way the wizard does for the
// current page, then enters it.
func enter(t *testing.T, deps Deps, page wizard.Page) *fakeNavigator {
	t.Helper()
	t.Cleanup(deps.State.Subscribe(page.HandleStateChange))
	nav := &fakeNavigator{}
	if err := page.OnPageEnter(context.Background(), nav); err != nil {
		t.Fatalf("OnPageEnter failed: %v", err)
	}
	return nav
}

func TestControlNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range ControlNames() {
		if seen[name] {
			t.Errorf("Duplicate control name %s", name)
		}
		seen[name] = true
	}
}

func TestTargetPage(t *testing.T) {
	deps := newDeps(nil)
	r := newFakeRenderer()
	page := NewTargetPage(deps, r)
	nav := enter(t, deps, page)

	if nav.forward(deps.State.Snapshot()) {
		t.Error("Expected validator to reject an empty target")
	}

	r.set(t, ControlAzureAccount, "user@contoso.com")
	r.set(t, ControlTargetSubscription, "sub1")
	r.set(t, ControlTargetServer, "mi-prod")

	snap := deps.State.Snapshot()
	if snap.AzureAccount.ID != "user@contoso.com" || snap.AzureAccount.DisplayName != "user@contoso.com" {
		t.Errorf("Unexpected account %+v", snap.AzureAccount)
	}
	if snap.TargetSubscriptionID != "sub1" || snap.TargetSQLMIServer != "mi-prod" {
		t.Errorf("Unexpected target %s/%s", snap.TargetSubscriptionID, snap.TargetSQLMIServer)
	}
	if !nav.forward(snap) {
		t.Error("Expected validator to accept a complete target")
	}
	back := nav.validators[len(nav.validators)-1](wizard.NavigationContext{Direction: wizard.DirectionBackward})
	if !back {
		t.Error("Expected back navigation to be allowed")
	}
}

func TestTargetPageAccountEditedTwice(t *testing.T) {
	tests := []struct {
		name  string
		start state.AzureAccount
		edits []string
		want  state.AzureAccount
	}{
		{
			name:  "retyped account replaces id",
			edits: []string{"alice@contoso.com", "bob@contoso.com"},
			want:  state.AzureAccount{ID: "bob@contoso.com", DisplayName: "bob@contoso.com"},
		},
		{
			name:  "unchanged label keeps id",
			start: state.AzureAccount{ID: "0000-1111", DisplayName: "alice@contoso.com"},
			edits: []string{"alice@contoso.com"},
			want:  state.AzureAccount{ID: "0000-1111", DisplayName: "alice@contoso.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newDeps(nil)
			deps.State.SetAzureAccount(tt.start)
			r := newFakeRenderer()
			enter(t, deps, NewTargetPage(deps, r))

			for _, v := range tt.edits {
				r.set(t, ControlAzureAccount, v)
			}
			if got := deps.State.AzureAccount(); got != tt.want {
				t.Errorf("Expected account %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTargetPageSubscriptionChoice(t *testing.T) {
	catalog := &fakeCatalog{subscriptions: []azure.Subscription{
		{ID: "sub1", DisplayName: "Prod"},
		{ID: "sub2", DisplayName: "Dev"},
	}}
	deps := newDeps(catalog)
	r := newFakeRenderer()
	enter(t, deps, NewTargetPage(deps, r))

	c := r.controls[ControlTargetSubscription]
	if len(c.options) != 2 || c.options[1].Label != "Dev" {
		t.Fatalf("Expected subscription options, got %+v", c.options)
	}
}

func TestTargetPageFallsBackToInput(t *testing.T) {
	deps := newDeps(&fakeCatalog{err: errors.New("unauthorized")})
	r := newFakeRenderer()
	enter(t, deps, NewTargetPage(deps, r))

	if c := r.controls[ControlTargetSubscription]; c == nil || c.options != nil {
		t.Fatalf("Expected subscription input, got %+v", c)
	}
}

func TestMigrationModePage(t *testing.T) {
	deps := newDeps(nil)
	r := newFakeRenderer()
	page := NewMigrationModePage(deps, r)
	nav := enter(t, deps, page)

	c := r.controls[ControlMigrationMode]
	if len(c.options) != 2 || c.value != "online" {
		t.Fatalf("Unexpected mode control %+v", c)
	}
	for _, o := range c.options {
		if o.Description == "" {
			t.Errorf("Expected description for %s", o.ID)
		}
	}

	deps.State.AcknowledgeDatabaseBackupRefresh()
	r.set(t, ControlMigrationMode, "offline")
	if deps.State.MigrationMode() != state.MigrationModeOffline {
		t.Error("Expected offline mode")
	}
	if !deps.State.NeedsDatabaseBackupRefresh() {
		t.Error("Expected mode change to raise the refresh flag")
	}
	if !nav.forward(deps.State.Snapshot()) {
		t.Error("Expected always-true validator")
	}

	if err := page.OnPageLeave(context.Background(), nav); err != nil {
		t.Fatalf("OnPageLeave failed: %v", err)
	}
	if !nav.forward(deps.State.Snapshot()) {
		t.Error("Expected always-true validator after leave")
	}
}

func TestDatabaseBackupPageNetworkShare(t *testing.T) {
	deps := newDeps(nil)
	r := newFakeRenderer()
	page := NewDatabaseBackupPage(deps, r)
	nav := enter(t, deps, page)

	if deps.State.NeedsDatabaseBackupRefresh() {
		t.Error("Expected refresh flag to be acknowledged after render")
	}
	for _, name := range []string{ControlContainerType, ControlNetworkShareLocation, ControlWindowsUser, ControlStorageSubscription, ControlStorageAccount} {
		if _, ok := r.controls[name]; !ok {
			t.Errorf("Expected control %s", name)
		}
	}
	if nav.forward(deps.State.Snapshot()) {
		t.Error("Expected validator to reject an empty share")
	}

	r.set(t, ControlNetworkShareLocation, "/not/unc")
	r.set(t, ControlWindowsUser, `CONTOSO\svc`)
	r.set(t, ControlStorageSubscription, "sub1")
	r.set(t, ControlStorageAccount, "acct1")
	if nav.forward(deps.State.Snapshot()) {
		t.Error("Expected validator to reject a non-UNC location")
	}

	r.set(t, ControlNetworkShareLocation, `\\fileserver\backups`)
	want := state.NetworkShare{
		NetworkShareLocation:  `\\fileserver\backups`,
		WindowsUser:           `CONTOSO\svc`,
		StorageSubscriptionID: "sub1",
		StorageAccountID:      "acct1",
	}
	if got := deps.State.DatabaseBackup().NetworkContainer; got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if !nav.forward(deps.State.Snapshot()) {
		t.Error("Expected validator to accept a complete share")
	}
}

func TestDatabaseBackupPageSwitchesVariant(t *testing.T) {
	deps := newDeps(nil)
	r := newFakeRenderer()
	page := NewDatabaseBackupPage(deps, r)
	nav := enter(t, deps, page)
	clears := r.clears
	registered := len(nav.validators)

	r.set(t, ControlNetworkShareLocation, `\\fileserver\backups`)
	if r.clears != clears {
		t.Error("Expected field edit not to re-render")
	}

	r.set(t, ControlContainerType, "file_share")
	if r.clears != clears+1 {
		t.Errorf("Expected one re-render on type change, got %d", r.clears-clears)
	}
	if _, ok := r.controls[ControlNetworkShareLocation]; ok {
		t.Error("Expected network share controls to be removed")
	}
	if _, ok := r.controls[ControlFileShare]; !ok {
		t.Error("Expected file share control")
	}
	if len(nav.validators) != registered+1 {
		t.Error("Expected validator to be re-registered for the new variant")
	}
	if got := deps.State.DatabaseBackup().NetworkContainer; got != (state.FileShare{}) {
		t.Errorf("Expected fresh file share, got %+v", got)
	}

	r.set(t, ControlStorageSubscription, "sub1")
	r.set(t, ControlStorageAccount, "acct1")
	r.set(t, ControlFileShare, "share1")
	if !nav.forward(deps.State.Snapshot()) {
		t.Error("Expected validator to accept a complete file share")
	}
}

func TestDatabaseBackupPageRefreshOnModeChange(t *testing.T) {
	deps := newDeps(nil)
	r := newFakeRenderer()
	enter(t, deps, NewDatabaseBackupPage(deps, r))
	clears := r.clears

	deps.State.SetMigrationMode(state.MigrationModeOffline)
	if r.clears != clears+1 {
		t.Errorf("Expected refresh flag to trigger a re-render, got %d", r.clears-clears)
	}
	if deps.State.NeedsDatabaseBackupRefresh() {
		t.Error("Expected refresh flag to be acknowledged")
	}
	if len(r.rows) != 1 || r.rows[0].Value != "Offline migration" {
		t.Errorf("Expected mode row to be refreshed, got %+v", r.rows)
	}
}

func TestDatabaseBackupPageBlobContainers(t *testing.T) {
	catalog := &fakeCatalog{containers: map[string][]string{
		"acct1": {"backups", "archive"},
	}}
	deps := newDeps(catalog)
	r := newFakeRenderer()
	nav := enter(t, deps, NewDatabaseBackupPage(deps, r))

	r.set(t, ControlContainerType, "blob_container")
	if c := r.controls[ControlBlobContainer]; c.options != nil {
		t.Fatalf("Expected blob container input without storage account, got %+v", c.options)
	}

	r.set(t, ControlStorageAccount, "acct1")
	c := r.controls[ControlBlobContainer]
	if len(c.options) != 2 || c.options[0].ID != "backups" {
		t.Fatalf("Expected listed containers, got %+v", c.options)
	}
	if len(catalog.containerCalls) != 1 || catalog.containerCalls[0] != "acct1" {
		t.Errorf("Unexpected container listings %v", catalog.containerCalls)
	}

	r.set(t, ControlStorageSubscription, "sub1")
	r.set(t, ControlBlobContainer, "archive")
	want := state.BlobContainer{SubscriptionID: "sub1", StorageAccountID: "acct1", ContainerID: "archive"}
	if got := deps.State.DatabaseBackup().NetworkContainer; got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if !nav.forward(deps.State.Snapshot()) {
		t.Error("Expected validator to accept a complete blob container")
	}
}

func TestStaleControlIsIgnored(t *testing.T) {
	deps := newDeps(nil)
	r := newFakeRenderer()
	enter(t, deps, NewDatabaseBackupPage(deps, r))
	stale := r.controls[ControlNetworkShareLocation].onChange

	r.set(t, ControlContainerType, "blob_container")
	stale(`\\fileserver\backups`)

	if got := deps.State.DatabaseBackup().NetworkContainer; got != (state.BlobContainer{}) {
		t.Errorf("Expected stale edit to be ignored, got %+v", got)
	}
}

func TestIntegrationRuntimePage(t *testing.T) {
	deps := newDeps(&fakeCatalog{vms: []string{"vm-ir-01", "vm-ir-02"}})
	deps.State.SetTargetSubscriptionID("sub1")
	r := newFakeRenderer()
	page := NewIntegrationRuntimePage(deps, r)
	enter(t, deps, page)

	r.set(t, ControlMigrationController, "dms-prod")
	if c := r.controls[ControlNodeName]; len(c.options) != 2 {
		t.Fatalf("Expected VM options, got %+v", c.options)
	}
	r.set(t, ControlNodeName, "vm-ir-02")

	snap := deps.State.Snapshot()
	if snap.MigrationController.Name != "dms-prod" || snap.NodeName != "vm-ir-02" {
		t.Errorf("Unexpected runtime %+v / %s", snap.MigrationController, snap.NodeName)
	}
}

func TestIntegrationRuntimePageEnabled(t *testing.T) {
	page := NewIntegrationRuntimePage(newDeps(nil), newFakeRenderer())
	tests := []struct {
		name     string
		mode     state.MigrationMode
		typ      state.NetworkContainerType
		expected bool
	}{
		{"Online blob", state.MigrationModeOnline, state.BlobContainerType, true},
		{"Offline share", state.MigrationModeOffline, state.NetworkShareType, true},
		{"Offline blob", state.MigrationModeOffline, state.BlobContainerType, false},
		{"Offline file share", state.MigrationModeOffline, state.FileShareType, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.Snapshot{MigrationMode: tt.mode, NetworkContainerType: tt.typ}
			if got := page.Enabled(s); got != tt.expected {
				t.Errorf("Enabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSummaryPage(t *testing.T) {
	deps := newDeps(nil)
	deps.State.SetTargetSQLMIServer("mi-prod")
	r := newFakeRenderer()
	page := NewSummaryPage(deps, r)
	nav := enter(t, deps, page)

	if !strings.Contains(strings.Join(r.headings, "|"), "Migration target") {
		t.Errorf("Expected summary headings, got %v", r.headings)
	}
	found := false
	for _, row := range r.rows {
		if row.Value == "mi-prod" {
			found = true
		}
	}
	if !found {
		t.Error("Expected managed instance row")
	}

	if err := page.OnPageLeave(context.Background(), nav); err != nil {
		t.Fatalf("OnPageLeave failed: %v", err)
	}
	if len(r.rows) != 0 {
		t.Error("Expected summary to be cleared on leave")
	}
	if !nav.forward(deps.State.Snapshot()) {
		t.Error("Expected always-true validator")
	}
}
