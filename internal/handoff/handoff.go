// Package handoff turns the committed wizard state into a migration document
// that downstream tooling can pick up.
package handoff

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/common"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"gopkg.in/yaml.v3"
)

const (
	APIVersion = "sqlmig/v1"
	Kind       = "SqlManagedInstanceMigration"

	defaultDocumentName = "sqlmi"
	documentSuffix      = "-migration.yaml"
)

// Committer receives the snapshot of a finished wizard session.
type Committer interface {
	Commit(ctx context.Context, snap state.Snapshot) error
}

// Document is the serialized form of a committed session.
type Document struct {
	APIVersion         string             `yaml:"apiVersion"`
	Kind               string             `yaml:"kind"`
	SessionID          string             `yaml:"sessionId"`
	Generated          string             `yaml:"generated"`
	Account            state.AzureAccount `yaml:"account"`
	Target             Target             `yaml:"target"`
	MigrationMode      string             `yaml:"migrationMode"`
	Backup             Backup             `yaml:"backup"`
	IntegrationRuntime IntegrationRuntime `yaml:"integrationRuntime"`
}

type Target struct {
	SubscriptionID   string `yaml:"subscriptionId"`
	SubscriptionName string `yaml:"subscriptionName"`
	ManagedInstance  string `yaml:"managedInstance"`
}

// Backup holds exactly one of the container variants, keyed by Type.
type Backup struct {
	Type          string               `yaml:"type"`
	NetworkShare  *state.NetworkShare  `yaml:"networkShare,omitempty"`
	FileShare     *state.FileShare     `yaml:"fileShare,omitempty"`
	BlobContainer *state.BlobContainer `yaml:"blobContainer,omitempty"`
}

type IntegrationRuntime struct {
	Controller state.MigrationController `yaml:"controller"`
	Node       string                    `yaml:"node"`
}

func (b *Backup) VisitNetworkShare(n state.NetworkShare) { b.NetworkShare = &n }
func (b *Backup) VisitFileShare(f state.FileShare) { b.FileShare = &f }
func (b *Backup) VisitBlobContainer(c state.BlobContainer) { b.BlobContainer = &c }

// NewDocument builds the document for snap. Subscription names are resolved
// through session.
func NewDocument(ctx context.Context, session *state.WizardState, snap state.Snapshot, generated time.Time) Document {
	backup := Backup{Type: snap.NetworkContainerType.Key()}
	snap.NetworkContainer.Accept(&backup)

	return Document{
		APIVersion: APIVersion,
		Kind:       Kind,
		SessionID:  session.ID().String(),
		Generated:  generated.UTC().Format(time.RFC3339),
		Account:    snap.AzureAccount,
		Target: Target{
			SubscriptionID:   snap.TargetSubscriptionID,
			SubscriptionName: session.GetSubscriptionName(ctx, snap.TargetSubscriptionID),
			ManagedInstance:  snap.TargetSQLMIServer,
		},
		MigrationMode: snap.MigrationMode.Key(),
		Backup:        backup,
		IntegrationRuntime: IntegrationRuntime{
			Controller: snap.MigrationController,
			Node:       snap.NodeName,
		},
	}
}

// Writer commits sessions as files in an output directory.
type Writer struct {
	dir     string
	session *state.WizardState
	logger  *logger.Logger
	now     func() time.Time
}

// NewWriter creates a writer for session that writes into dir.
func NewWriter(dir string, session *state.WizardState, log *logger.Logger) *Writer {
	return &Writer{dir: dir, session: session, logger: log, now: time.Now}
}

// DocumentPath returns the file the document of snap is written to.
func (w *Writer) DocumentPath(snap state.Snapshot) string {
	name := common.SanitizeName(snap.TargetSQLMIServer)
	if name == "" {
		name = defaultDocumentName
	}
	return filepath.Join(w.dir, name+documentSuffix)
}

// Commit writes the migration document and a README next to it.
func (w *Writer) Commit(ctx context.Context, snap state.Snapshot) error {
	if err := common.EnsureDir(w.dir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	w.logger.Infof("Writing migration files in: %s", w.dir)

	doc := NewDocument(ctx, w.session, snap, w.now())
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode migration document: %w", err)
	}

	path := w.DocumentPath(snap)
	if err := common.WriteFile(path, string(data)); err != nil {
		return fmt.Errorf("failed to write migration document: %w", err)
	}
	if err := common.WriteFile(filepath.Join(w.dir, "README.md"), readme(filepath.Base(path), doc)); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}

	w.logger.Successf("Migration document written to %s", path)
	return nil
}

func readme(documentName string, doc Document) string {
	return fmt.Sprintf(`# Azure SQL Managed Instance Migration

This directory contains the migration settings collected by sqlmig.

## Files

- `+"`%s`"+` - Migration document (session %s)
- `+"`README.md`"+` - This file

## Target

- Managed instance: %s
- Subscription: %s
- Mode: %s
- Backup location: %s

Review the document before starting the migration. Run `+"`sqlmig`"+` again
to change any setting; the document is overwritten on every commit.
`, documentName, doc.SessionID, doc.Target.ManagedInstance, doc.Target.SubscriptionName, doc.MigrationMode, doc.Backup.Type)
}
