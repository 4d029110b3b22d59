// Package summary turns a finished WizardState into label/value rows.
package summary

import (
	"context"
	"fmt"
	"strconv"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
)

// Row labels and headings.
const (
	LabelType                = "Type"
	LabelPath                = "Path"
	LabelUserAccount         = "User account"
	LabelStorageSubscription = "Storage subscription"
	LabelStorageAccount      = "Storage account"
	LabelFileShare           = "File share"
	LabelBlobContainer       = "Blob container"
	LabelSubscription        = "Subscription"
	LabelManagedInstance     = "Azure SQL Managed Instance"
	LabelDatabaseCount       = "Databases for migration"
	LabelMigrationMode       = "Mode"
	LabelIntegrationRuntime  = "Integration runtime"
	LabelNode                = "Node"

	HeadingAccount            = "Azure account linked"
	HeadingTarget             = "Migration target"
	HeadingMigrationMode      = "Migration mode"
	HeadingDatabaseBackup     = "Database backup"
	HeadingIntegrationRuntime = "Integration runtime"
)

// Section is a heading followed by rows.
type Section struct {
	Heading string
	Rows    []view.Row
}

// ContainerRows returns the rows for the selected backup container, resolving
// subscription ids through the state's lookup. It panics if the container
// variant disagrees with the container type.
func ContainerRows(ctx context.Context, st *state.WizardState) []view.Row {
	db := st.DatabaseBackup()
	if db.NetworkContainer == nil || db.NetworkContainer.Type() != db.NetworkContainerType {
		panic(fmt.Sprintf("summary: container %T does not match type %s", db.NetworkContainer, db.NetworkContainerType))
	}
	b := &rowBuilder{ctx: ctx, st: st}
	db.NetworkContainer.Accept(b)
	return b.rows
}

type rowBuilder struct {
	ctx  context.Context
	st   *state.WizardState
	rows []view.Row
}

func (b *rowBuilder) add(label, value string) {
	b.rows = append(b.rows, view.Row{Label: label, Value: value})
}

func (b *rowBuilder) VisitNetworkShare(n state.NetworkShare) {
	b.add(LabelType, state.NetworkShareType.String())
	b.add(LabelPath, n.NetworkShareLocation)
	b.add(LabelUserAccount, n.WindowsUser)
	b.add(LabelStorageSubscription, b.st.GetSubscriptionName(b.ctx, n.StorageSubscriptionID))
	b.add(LabelStorageAccount, n.StorageAccountID)
}

func (b *rowBuilder) VisitFileShare(f state.FileShare) {
	b.add(LabelType, state.FileShareType.String())
	b.add(LabelStorageSubscription, b.st.GetSubscriptionName(b.ctx, f.SubscriptionID))
	b.add(LabelStorageAccount, f.StorageAccountID)
	b.add(LabelFileShare, f.FileShareID)
}

func (b *rowBuilder) VisitBlobContainer(c state.BlobContainer) {
	b.add(LabelType, state.BlobContainerType.String())
	b.add(LabelStorageSubscription, b.st.GetSubscriptionName(b.ctx, c.SubscriptionID))
	b.add(LabelStorageAccount, c.StorageAccountID)
	b.add(LabelBlobContainer, c.ContainerID)
}

// Build returns the full summary of the session.
func Build(ctx context.Context, st *state.WizardState) []Section {
	account := st.AzureAccount().DisplayName
	if account == "" {
		account = st.AzureAccount().ID
	}
	return []Section{
		{Heading: HeadingAccount, Rows: []view.Row{{Label: "Account", Value: account}}},
		{Heading: HeadingTarget, Rows: []view.Row{
			{Label: LabelType, Value: LabelManagedInstance},
			{Label: LabelSubscription, Value: st.GetSubscriptionName(ctx, st.TargetSubscriptionID())},
			{Label: LabelManagedInstance, Value: st.TargetSQLMIServer()},
			{Label: LabelDatabaseCount, Value: strconv.Itoa(1)},
		}},
		{Heading: HeadingMigrationMode, Rows: []view.Row{{Label: LabelMigrationMode, Value: st.MigrationMode().String()}}},
		{Heading: HeadingDatabaseBackup, Rows: ContainerRows(ctx, st)},
		{Heading: HeadingIntegrationRuntime, Rows: []view.Row{
			{Label: LabelIntegrationRuntime, Value: st.MigrationController().Name},
			{Label: LabelNode, Value: st.NodeName()},
		}},
	}
}

// Render draws sections on r.
func Render(r view.Renderer, sections []Section) {
	for _, s := range sections {
		r.Heading(s.Heading)
		r.Rows(s.Rows)
	}
}
