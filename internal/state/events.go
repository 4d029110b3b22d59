package state

// Field names a WizardState field in change events.
type Field string

const (
	FieldMigrationMode             Field = "migrationMode"
	FieldNetworkContainerType      Field = "networkContainerType"
	FieldNetworkContainer          Field = "networkContainer"
	FieldRefreshDatabaseBackupPage Field = "refreshDatabaseBackupPage"
	FieldAzureAccount              Field = "azureAccount"
	FieldTargetSubscriptionID      Field = "targetSubscriptionId"
	FieldTargetSQLMIServer         Field = "targetSQLMIServer"
	FieldMigrationController       Field = "migrationController"
	FieldNodeName                  Field = "nodeName"
)

// Change records one field's old and new value.
type Change struct {
	Field Field
	Old   any
	New   any
}

// StateChangeEvent describes a committed update. Changes are ordered by field
// declaration order and only contain fields whose value differs.
type StateChangeEvent struct {
	Changes []Change
}

// Has reports whether the event touched f.
func (e StateChangeEvent) Has(f Field) bool {
	_, ok := e.Change(f)
	return ok
}

// Change returns the change for f, if any.
func (e StateChangeEvent) Change(f Field) (Change, bool) {
	for _, c := range e.Changes {
		if c.Field == f {
			return c, true
		}
	}
	return Change{}, false
}

// Fields returns the changed field names.
func (e StateChangeEvent) Fields() []Field {
	fields := make([]Field, 0, len(e.Changes))
	for _, c := range e.Changes {
		fields = append(fields, c.Field)
	}
	return fields
}

// Listener is called synchronously after each committed update.
type Listener func(StateChangeEvent)

type subscription struct {
	id       int
	listener Listener
}

// diff builds the change list between two snapshots.
func diff(old, cur Snapshot) []Change {
	var changes []Change
	add := func(f Field, o, n any) {
		if o != n {
			changes = append(changes, Change{Field: f, Old: o, New: n})
		}
	}
	add(FieldMigrationMode, old.MigrationMode, cur.MigrationMode)
	add(FieldNetworkContainerType, old.NetworkContainerType, cur.NetworkContainerType)
	add(FieldNetworkContainer, old.NetworkContainer, cur.NetworkContainer)
	add(FieldRefreshDatabaseBackupPage, old.RefreshDatabaseBackupPage, cur.RefreshDatabaseBackupPage)
	add(FieldAzureAccount, old.AzureAccount, cur.AzureAccount)
	add(FieldTargetSubscriptionID, old.TargetSubscriptionID, cur.TargetSubscriptionID)
	add(FieldTargetSQLMIServer, old.TargetSQLMIServer, cur.TargetSQLMIServer)
	add(FieldMigrationController, old.MigrationController, cur.MigrationController)
	add(FieldNodeName, old.NodeName, cur.NodeName)
	return changes
}
