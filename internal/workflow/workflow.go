// Package workflow orchestrates the migration wizard session.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/common"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/config"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/handoff"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// ErrNavigationBlocked is returned when a non-interactive run cannot pass a
// page with the preset answers.
var ErrNavigationBlocked = errors.New("navigation blocked")

// Manager runs a wizard session built by the registered workflow handler.
type Manager struct {
	config   *config.Config
	logger   *logger.Logger
	handler  Handler
	terminal *view.Terminal
	version  string

	// newCommitter creates the committer of a session.
	newCommitter func(st *state.WizardState) handoff.Committer
}

// NewManager creates a new workflow manager.
func NewManager(cfg *config.Config, log *logger.Logger, term *view.Terminal, version string) (*Manager, error) {
	// Create registry and register all workflow handlers
	registry := NewRegistry()

	if err := registry.Register(NewSQLMIHandler(version)); err != nil {
		return nil, fmt.Errorf("failed to register SQL MI handler: %w", err)
	}

	return newManager(cfg, log, term, version, registry)
}

func newManager(cfg *config.Config, log *logger.Logger, term *view.Terminal, version string, registry *Registry) (*Manager, error) {
	handler, err := registry.Get(cfg.TargetPlatform)
	if err != nil {
		var targets []string
		for _, h := range registry.List() {
			targets = append(targets, h.TargetPlatform())
		}
		return nil, fmt.Errorf("failed to get workflow handler (supported: %s): %w", strings.Join(targets, ", "), err)
	}

	if err := handler.Initialize(cfg, log); err != nil {
		return nil, fmt.Errorf("failed to initialize workflow handler: %w", err)
	}

	return &Manager{
		config:   cfg,
		logger:   log,
		handler:  handler,
		terminal: term,
		version:  version,
		newCommitter: func(st *state.WizardState) handoff.Committer {
			return handoff.NewWriter(cfg.OutputDir, st, log)
		},
	}, nil
}

// Run executes the wizard and commits the result to the output directory.
func (m *Manager) Run(ctx context.Context) (state.Snapshot, error) {
	return m.run(ctx, true)
}

// Preview executes the wizard without committing the result.
func (m *Manager) Preview(ctx context.Context) (state.Snapshot, error) {
	return m.run(ctx, false)
}

func (m *Manager) run(ctx context.Context, commit bool) (state.Snapshot, error) {
	m.logger.Info("=========================================")
	m.logger.Infof("sqlmig - SQL Managed Instance Migration Wizard v%s", m.version)
	m.logger.Info("=========================================")
	m.logger.Infof("Workflow: %s", m.handler.Name())
	m.logger.Infof("Target Platform: %s", m.config.TargetPlatform)
	m.logger.Infof("Interactive: %t", !m.config.NonInteractive)
	m.logger.Info("=========================================")

	st := state.New(m.handler.Lookup())
	pages := m.handler.Pages(st, func(page string) view.Renderer { return m.terminal.Surface(page) })
	wiz, err := wizard.New(st, m.logger, pages...)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("failed to create wizard: %w", err)
	}
	if err := wiz.Start(ctx); err != nil {
		return state.Snapshot{}, fmt.Errorf("failed to start wizard: %w", err)
	}

	snap, err := m.drive(ctx, wiz)
	if err != nil {
		wiz.Cancel()
		m.logger.Error(fmt.Sprintf("Workflow failed: %v", err))
		return state.Snapshot{}, err
	}

	if !commit {
		m.logger.Warning("Preview only, no migration files written")
		return snap, nil
	}
	if err := m.newCommitter(st).Commit(ctx, snap); err != nil {
		m.logger.Error(fmt.Sprintf("Commit failed: %v", err))
		return state.Snapshot{}, fmt.Errorf("failed to commit migration: %w", err)
	}
	return snap, nil
}

// drive answers the current page and advances until the wizard finishes.
func (m *Manager) drive(ctx context.Context, wiz *wizard.Wizard) (state.Snapshot, error) {
	var rendered []string
	for {
		if err := ctx.Err(); err != nil {
			return state.Snapshot{}, err
		}
		page := wiz.Current()
		if err := m.terminal.Interact(page.Name()); err != nil {
			return state.Snapshot{}, fmt.Errorf("failed to answer %q: %w", page.Name(), err)
		}
		rendered = append(rendered, m.terminal.Surface(page.Name()).Controls()...)

		if wiz.IsLastPage() {
			snap, ok, err := wiz.Finish(ctx)
			if err != nil {
				return state.Snapshot{}, err
			}
			if ok {
				m.warnUnusedAnswers(rendered)
				return snap, nil
			}
		} else {
			ok, err := wiz.Next(ctx)
			if err != nil {
				return state.Snapshot{}, err
			}
			if ok {
				continue
			}
		}

		if m.config.NonInteractive {
			return state.Snapshot{}, fmt.Errorf("page %q: %w", page.Name(), ErrNavigationBlocked)
		}
		m.logger.Warningf("Complete %q to continue", page.Name())
	}
}

// warnUnusedAnswers reports preset answers whose controls were never shown,
// such as integration runtime answers for an offline blob migration.
func (m *Manager) warnUnusedAnswers(rendered []string) {
	var preset []string
	for k, v := range m.config.Answers {
		if v != "" {
			preset = append(preset, k)
		}
	}
	sort.Strings(preset)
	if unused := common.SliceDifference(preset, rendered); len(unused) > 0 {
		m.logger.Warningf("Ignored answers for controls that were not shown: %s", strings.Join(unused, ", "))
	}
}
