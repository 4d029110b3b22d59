// Package state holds the wizard's single source of truth for one migration
// session and notifies listeners of every committed change.
//
// WizardState is not safe for concurrent use. All mutation goes through Update,
// which commits a logical update atomically and then runs listeners in
// registration order before returning.
package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MigrationMode selects online (continuous log shipping) or offline migration.
type MigrationMode int

const (
	MigrationModeOnline MigrationMode = iota
	MigrationModeOffline
)

// String returns the display name of the migration mode.
func (m MigrationMode) String() string {
	switch m {
	case MigrationModeOnline:
		return "Online migration"
	case MigrationModeOffline:
		return "Offline migration"
	}
	return fmt.Sprintf("MigrationMode(%d)", int(m))
}

// Key returns the configuration value for the migration mode.
func (m MigrationMode) Key() string {
	if m == MigrationModeOffline {
		return "offline"
	}
	return "online"
}

// ParseMigrationMode maps a configuration value to a migration mode.
func ParseMigrationMode(s string) (MigrationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return MigrationModeOnline, nil
	case "offline":
		return MigrationModeOffline, nil
	}
	return 0, fmt.Errorf("unknown migration mode %q", s)
}

// AzureAccount is the signed-in account linked to the session.
type AzureAccount struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"displayName"`
}

// MigrationController is the Database Migration Service instance running the migration.
type MigrationController struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseBackup groups the backup settings. NetworkContainer always matches
// NetworkContainerType.
type DatabaseBackup struct {
	MigrationMode        MigrationMode
	NetworkContainerType NetworkContainerType
	NetworkContainer     NetworkContainer
}

// Snapshot is a value copy of every WizardState field. Snapshots are comparable
// with ==.
type Snapshot struct {
	MigrationMode             MigrationMode
	NetworkContainerType      NetworkContainerType
	NetworkContainer          NetworkContainer
	RefreshDatabaseBackupPage bool
	AzureAccount              AzureAccount
	TargetSubscriptionID      string
	TargetSQLMIServer         string
	MigrationController       MigrationController
	NodeName                  string
}

// DatabaseBackup returns the backup settings of the snapshot.
func (s Snapshot) DatabaseBackup() DatabaseBackup {
	return DatabaseBackup{
		MigrationMode:        s.MigrationMode,
		NetworkContainerType: s.NetworkContainerType,
		NetworkContainer:     s.NetworkContainer,
	}
}

// SubscriptionLookup resolves subscription ids to display names.
type SubscriptionLookup interface {
	SubscriptionName(ctx context.Context, subscriptionID string) (string, error)
}

// SubscriptionLookupFunc adapts a function to SubscriptionLookup.
type SubscriptionLookupFunc func(ctx context.Context, subscriptionID string) (string, error)

// SubscriptionName calls f.
func (f SubscriptionLookupFunc) SubscriptionName(ctx context.Context, subscriptionID string) (string, error) {
	return f(ctx, subscriptionID)
}

// WizardState is the shared state of one wizard session.
type WizardState struct {
	id        uuid.UUID
	cur       Snapshot
	lookup    SubscriptionLookup
	names     map[string]string
	listeners []subscription
	nextSubID int
	updating  bool
}

// New creates the state for a new session. lookup may be nil, in which case
// subscription ids are shown as-is.
func New(lookup SubscriptionLookup) *WizardState {
	return &WizardState{
		id: uuid.New(),
		cur: Snapshot{
			MigrationMode:        MigrationModeOnline,
			NetworkContainerType: NetworkShareType,
			NetworkContainer:     NetworkShare{},
		},
		lookup: lookup,
		names:  make(map[string]string),
	}
}

// ID returns the session id.
func (s *WizardState) ID() uuid.UUID { return s.id }

// Snapshot returns a copy of the current state.
func (s *WizardState) Snapshot() Snapshot { return s.cur }

// MigrationMode returns the chosen migration mode.
func (s *WizardState) MigrationMode() MigrationMode { return s.cur.MigrationMode }

// DatabaseBackup returns the backup container type and payload.
func (s *WizardState) DatabaseBackup() DatabaseBackup { return s.cur.DatabaseBackup() }

// NeedsDatabaseBackupRefresh reports whether the backup page must re-render.
func (s *WizardState) NeedsDatabaseBackupRefresh() bool { return s.cur.RefreshDatabaseBackupPage }

// AzureAccount returns the signed-in Azure account.
func (s *WizardState) AzureAccount() AzureAccount { return s.cur.AzureAccount }

// TargetSubscriptionID returns the subscription of the target instance.
func (s *WizardState) TargetSubscriptionID() string { return s.cur.TargetSubscriptionID }

// TargetSQLMIServer returns the name of the target managed instance.
func (s *WizardState) TargetSQLMIServer() string { return s.cur.TargetSQLMIServer }

// MigrationController returns the migration controller.
func (s *WizardState) MigrationController() MigrationController { return s.cur.MigrationController }

// NodeName returns the integration runtime node.
func (s *WizardState) NodeName() string { return s.cur.NodeName }

// Subscribe registers l and returns a function that removes it. Listeners run
// in registration order.
func (s *WizardState) Subscribe(l Listener) (unsubscribe func()) {
	id := s.nextSubID
	s.nextSubID++
	s.listeners = append(s.listeners, subscription{id: id, listener: l})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Update applies fn as one logical update. Nothing is committed if fn panics.
// Listeners are notified once, after the commit, when at least one field
// changed. Calling Update from inside fn panics; listeners may call Update.
func (s *WizardState) Update(fn func(u *Updater)) {
	if s.updating {
		panic("state: Update called from inside an update function")
	}
	pending := s.cur
	s.updating = true
	func() {
		defer func() { s.updating = false }()
		fn(&Updater{next: &pending})
	}()
	if pending.NetworkContainer == nil || pending.NetworkContainer.Type() != pending.NetworkContainerType {
		panic(fmt.Sprintf("state: network container %T does not match type %s", pending.NetworkContainer, pending.NetworkContainerType))
	}
	changes := diff(s.cur, pending)
	s.cur = pending
	if len(changes) == 0 {
		return
	}
	s.notify(StateChangeEvent{Changes: changes})
}

func (s *WizardState) notify(e StateChangeEvent) {
	// Copy so listeners may unsubscribe while being notified.
	listeners := append([]subscription(nil), s.listeners...)
	for _, sub := range listeners {
		sub.listener(e)
	}
}

// SetMigrationMode sets the mode and marks the database backup page stale.
func (s *WizardState) SetMigrationMode(m MigrationMode) {
	s.Update(func(u *Updater) { u.SetMigrationMode(m) })
}

// SetNetworkContainerType switches the backup variant, resetting its payload
// when the type changes.
func (s *WizardState) SetNetworkContainerType(t NetworkContainerType) {
	s.Update(func(u *Updater) { u.SetNetworkContainerType(t) })
}

// SetNetworkContainer replaces the backup payload and its type together.
func (s *WizardState) SetNetworkContainer(c NetworkContainer) {
	s.Update(func(u *Updater) { u.SetNetworkContainer(c) })
}

// AcknowledgeDatabaseBackupRefresh clears the refresh flag once the backup
// page has re-rendered.
func (s *WizardState) AcknowledgeDatabaseBackupRefresh() {
	s.Update(func(u *Updater) { u.SetRefreshDatabaseBackupPage(false) })
}

// SetAzureAccount sets the signed-in Azure account.
func (s *WizardState) SetAzureAccount(a AzureAccount) {
	s.Update(func(u *Updater) { u.SetAzureAccount(a) })
}

// SetTargetSubscriptionID sets the subscription of the target instance.
func (s *WizardState) SetTargetSubscriptionID(id string) {
	s.Update(func(u *Updater) { u.SetTargetSubscriptionID(id) })
}

// SetTargetSQLMIServer sets the name of the target managed instance.
func (s *WizardState) SetTargetSQLMIServer(name string) {
	s.Update(func(u *Updater) { u.SetTargetSQLMIServer(name) })
}

// SetMigrationController sets the migration controller.
func (s *WizardState) SetMigrationController(c MigrationController) {
	s.Update(func(u *Updater) { u.SetMigrationController(c) })
}

// SetNodeName sets the integration runtime node.
func (s *WizardState) SetNodeName(name string) {
	s.Update(func(u *Updater) { u.SetNodeName(name) })
}

// GetSubscriptionName resolves id to a display name. Unknown ids, lookup
// errors and a missing lookup all fall back to the raw id.
func (s *WizardState) GetSubscriptionName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := s.names[id]; ok {
		return name
	}
	if s.lookup == nil {
		return id
	}
	name, err := s.lookup.SubscriptionName(ctx, id)
	if err != nil || name == "" {
		return id
	}
	s.names[id] = name
	return name
}

// Updater stages field changes inside Update.
type Updater struct {
	next *Snapshot
}

// Current returns the staged state, including changes made so far.
func (u *Updater) Current() Snapshot { return *u.next }

func (u *Updater) SetMigrationMode(m MigrationMode) {
	u.next.MigrationMode = m
	u.next.RefreshDatabaseBackupPage = true
}

func (u *Updater) SetNetworkContainerType(t NetworkContainerType) {
	if u.next.NetworkContainer != nil && u.next.NetworkContainer.Type() == t {
		u.next.NetworkContainerType = t
		return
	}
	u.next.NetworkContainer = NewNetworkContainer(t)
	u.next.NetworkContainerType = t
}

func (u *Updater) SetNetworkContainer(c NetworkContainer) {
	if c == nil {
		panic("state: nil network container")
	}
	u.next.NetworkContainer = c
	u.next.NetworkContainerType = c.Type()
}

func (u *Updater) SetRefreshDatabaseBackupPage(v bool) { u.next.RefreshDatabaseBackupPage = v }

func (u *Updater) SetAzureAccount(a AzureAccount) { u.next.AzureAccount = a }

func (u *Updater) SetTargetSubscriptionID(id string) { u.next.TargetSubscriptionID = id }

func (u *Updater) SetTargetSQLMIServer(name string) { u.next.TargetSQLMIServer = name }

func (u *Updater) SetMigrationController(c MigrationController) { u.next.MigrationController = c }

func (u *Updater) SetNodeName(name string) { u.next.NodeName = name }
