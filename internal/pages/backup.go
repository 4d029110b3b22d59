package pages

import (
	"context"
	"strings"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/common"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// DatabaseBackupPage collects where the source backups are stored. The form
// is rebuilt when the container type changes or the refresh flag is raised.
type DatabaseBackupPage struct {
	base

	// ctx and nav belong to the current visit and are nil otherwise.
	ctx context.Context
	nav wizard.Navigator

	rendered  state.Snapshot
	rendering bool
}

// NewDatabaseBackupPage creates the database backup page.
func NewDatabaseBackupPage(deps Deps, r view.Renderer) *DatabaseBackupPage {
	return &DatabaseBackupPage{base: base{Deps: deps, view: r}}
}

func (p *DatabaseBackupPage) Name() string { return DatabaseBackupPageName }

func (p *DatabaseBackupPage) OnPageEnter(ctx context.Context, nav wizard.Navigator) error {
	p.ctx = ctx
	p.nav = nav
	p.render()
	return nil
}

func (p *DatabaseBackupPage) OnPageLeave(ctx context.Context, nav wizard.Navigator) error {
	nav.RegisterNavigationValidator(wizard.AllowAll)
	p.ctx = nil
	p.nav = nil
	return nil
}

func (p *DatabaseBackupPage) HandleStateChange(e state.StateChangeEvent) {
	if p.rendering || p.nav == nil {
		return
	}
	snap := p.State.Snapshot()
	switch {
	case snap.NetworkContainerType != p.rendered.NetworkContainerType,
		snap.RefreshDatabaseBackupPage,
		blobAccountChanged(p.rendered, snap):
		p.render()
	default:
		p.rendered = snap
	}
}

func (p *DatabaseBackupPage) render() {
	p.rendering = true
	defer func() { p.rendering = false }()

	snap := p.State.Snapshot()
	p.view.Clear()
	p.view.Heading("Database backup")
	p.view.Rows([]view.Row{{Label: "Migration mode", Value: snap.MigrationMode.String()}})

	options := make([]view.Option, 0, 3)
	for _, t := range state.NetworkContainerTypes() {
		options = append(options, view.Option{ID: t.Key(), Label: t.String()})
	}
	p.view.Heading("Where are the backups stored?")
	p.view.Choice(ControlContainerType, options, snap.NetworkContainerType.Key(), func(id string) {
		t, err := state.ParseNetworkContainerType(id)
		if err != nil {
			p.Logger.Warningf("Ignoring container type: %v", err)
			return
		}
		p.State.SetNetworkContainerType(t)
	})

	snap.NetworkContainer.Accept(&backupForm{page: p})

	if snap.RefreshDatabaseBackupPage {
		p.State.AcknowledgeDatabaseBackupRefresh()
	}
	p.rendered = p.State.Snapshot()
	p.nav.RegisterNavigationValidator(wizard.ForwardOnly(containerValidator(p.rendered.NetworkContainerType, p)))
}

func blobAccountChanged(old, cur state.Snapshot) bool {
	o, ok := old.NetworkContainer.(state.BlobContainer)
	if !ok {
		return false
	}
	c, ok := cur.NetworkContainer.(state.BlobContainer)
	return ok && o.StorageAccountID != c.StorageAccountID
}

// editContainer applies edit to the current container if it is still a T.
// Controls from a replaced form are ignored.
func editContainer[T state.NetworkContainer](st *state.WizardState, edit func(*T)) {
	st.Update(func(u *state.Updater) {
		c, ok := u.Current().NetworkContainer.(T)
		if !ok {
			return
		}
		edit(&c)
		u.SetNetworkContainer(c)
	})
}

type backupForm struct {
	page *DatabaseBackupPage
}

func (f *backupForm) VisitNetworkShare(n state.NetworkShare) {
	p := f.page
	p.view.Input(ControlNetworkShareLocation, "Network share location", n.NetworkShareLocation, func(v string) {
		editContainer(p.State, func(c *state.NetworkShare) { c.NetworkShareLocation = v })
	})
	p.view.Input(ControlWindowsUser, "Windows user account", n.WindowsUser, func(v string) {
		editContainer(p.State, func(c *state.NetworkShare) { c.WindowsUser = v })
	})
	p.subscriptionChoice(p.ctx, ControlStorageSubscription, "Storage subscription", n.StorageSubscriptionID, func(v string) {
		editContainer(p.State, func(c *state.NetworkShare) { c.StorageSubscriptionID = v })
	})
	p.view.Input(ControlStorageAccount, "Storage account", n.StorageAccountID, func(v string) {
		editContainer(p.State, func(c *state.NetworkShare) { c.StorageAccountID = v })
	})
}

func (f *backupForm) VisitFileShare(s state.FileShare) {
	p := f.page
	p.subscriptionChoice(p.ctx, ControlStorageSubscription, "Subscription", s.SubscriptionID, func(v string) {
		editContainer(p.State, func(c *state.FileShare) { c.SubscriptionID = v })
	})
	p.view.Input(ControlStorageAccount, "Storage account", s.StorageAccountID, func(v string) {
		editContainer(p.State, func(c *state.FileShare) { c.StorageAccountID = v })
	})
	p.view.Input(ControlFileShare, "File share", s.FileShareID, func(v string) {
		editContainer(p.State, func(c *state.FileShare) { c.FileShareID = v })
	})
}

func (f *backupForm) VisitBlobContainer(b state.BlobContainer) {
	p := f.page
	p.subscriptionChoice(p.ctx, ControlStorageSubscription, "Subscription", b.SubscriptionID, func(v string) {
		editContainer(p.State, func(c *state.BlobContainer) { c.SubscriptionID = v })
	})
	p.view.Input(ControlStorageAccount, "Storage account", b.StorageAccountID, func(v string) {
		editContainer(p.State, func(c *state.BlobContainer) { c.StorageAccountID = v })
	})

	var containers []string
	if p.Catalog != nil && b.StorageAccountID != "" {
		names, err := p.Catalog.ListBlobContainers(p.ctx, b.StorageAccountID)
		if err != nil {
			p.Logger.Warningf("Could not list blob containers: %v", err)
		}
		containers = names
	}
	p.namedChoice(ControlBlobContainer, "Blob container", b.ContainerID, containers, func(v string) {
		editContainer(p.State, func(c *state.BlobContainer) { c.ContainerID = v })
	})
}

// containerValidator accepts forward navigation once every field of the t
// variant is filled in.
func containerValidator(t state.NetworkContainerType, p *DatabaseBackupPage) func(wizard.NavigationContext) bool {
	return func(nc wizard.NavigationContext) bool {
		c := nc.State.NetworkContainer
		if c == nil || c.Type() != t {
			return false
		}
		check := &containerCheck{}
		c.Accept(check)
		if len(check.problems) > 0 {
			p.Logger.Warningf("%s is incomplete: %s", t, strings.Join(check.problems, ", "))
			return false
		}
		return true
	}
}

type containerCheck struct {
	problems []string
}

func (c *containerCheck) require(value, what string) {
	if strings.TrimSpace(value) == "" {
		c.problems = append(c.problems, what+" is required")
	}
}

func (c *containerCheck) VisitNetworkShare(n state.NetworkShare) {
	c.require(n.NetworkShareLocation, "network share location")
	if n.NetworkShareLocation != "" && !common.IsUNCPath(n.NetworkShareLocation) {
		c.problems = append(c.problems, `network share location must look like \\server\share`)
	}
	c.require(n.WindowsUser, "windows user")
	c.require(n.StorageSubscriptionID, "storage subscription")
	c.require(n.StorageAccountID, "storage account")
}

func (c *containerCheck) VisitFileShare(f state.FileShare) {
	c.require(f.SubscriptionID, "subscription")
	c.require(f.StorageAccountID, "storage account")
	c.require(f.FileShareID, "file share")
}

func (c *containerCheck) VisitBlobContainer(b state.BlobContainer) {
	c.require(b.SubscriptionID, "subscription")
	c.require(b.StorageAccountID, "storage account")
	c.require(b.ContainerID, "blob container")
}
