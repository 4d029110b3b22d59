package workflow

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/common"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/config"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/pages"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/wizard"
)

// MockHandler is a mock workflow handler for testing.
type MockHandler struct {
	name           string
	target         string
	initCalled     bool
	shouldFailInit bool
}

func (m *MockHandler) Name() string { return m.name }

func (m *MockHandler) TargetPlatform() string { return m.target }

func (m *MockHandler) Initialize(cfg *config.Config, log *logger.Logger) error {
	m.initCalled = true
	if m.shouldFailInit {
		return &testError{"mock init error"}
	}
	return nil
}

func (m *MockHandler) Lookup() state.SubscriptionLookup { return nil }

func (m *MockHandler) Pages(st *state.WizardState, surface func(string) view.Renderer) []wizard.Page {
	return nil
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestWorkflowRegistry(t *testing.T) {
	t.Run("Register and Get", func(t *testing.T) {
		registry := NewRegistry()
		handler := &MockHandler{name: "Test Handler", target: "test-target"}

		if err := registry.Register(handler); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		retrieved, err := registry.Get("test-target")
		if err != nil {
			t.Fatalf("Failed to get handler: %v", err)
		}
		if retrieved != handler {
			t.Error("Retrieved handler is not the same as registered handler")
		}
	})

	t.Run("Register Duplicate", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&MockHandler{target: "target1"})
		if err := registry.Register(&MockHandler{target: "target1"}); err == nil {
			t.Error("Expected error when registering duplicate handler")
		}
	})

	t.Run("Get Nonexistent", func(t *testing.T) {
		registry := NewRegistry()
		if _, err := registry.Get("nonexistent"); err == nil {
			t.Error("Expected error when getting nonexistent handler")
		}
	})

	t.Run("List Handlers", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&MockHandler{target: "target2"})
		registry.Register(&MockHandler{target: "target1"})

		handlers := registry.List()
		if len(handlers) != 2 {
			t.Fatalf("Expected 2 handlers, got %d", len(handlers))
		}
		if handlers[0].TargetPlatform() != "target1" || handlers[1].TargetPlatform() != "target2" {
			t.Errorf("Expected handlers ordered by target, got %s, %s", handlers[0].TargetPlatform(), handlers[1].TargetPlatform())
		}
	})
}

func TestControlNamesMatchAnswerKeys(t *testing.T) {
	if missing := common.SliceDifference(pages.ControlNames(), config.AnswerKeys()); len(missing) > 0 {
		t.Errorf("Controls without answer keys: %v", missing)
	}
	if extra := common.SliceDifference(config.AnswerKeys(), pages.ControlNames()); len(extra) > 0 {
		t.Errorf("Answer keys without controls: %v", extra)
	}
}

func testConfig(t *testing.T, answers map[string]string) *config.Config {
	t.Helper()
	return &config.Config{
		TargetPlatform: config.DefaultTargetPlatform,
		OutputDir:      filepath.Join(t.TempDir(), "migration-output"),
		NonInteractive: true,
		SkipAzure:      true,
		Answers:        answers,
	}
}

func TestWorkflowManager(t *testing.T) {
	t.Run("Create Manager with SQL MI", func(t *testing.T) {
		cfg := testConfig(t, nil)
		var out bytes.Buffer
		manager, err := NewManager(cfg, logger.NewWithWriter(false, &out), view.NewTerminal(&out, view.PresetAnswers{}), "1.0.0")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.handler == nil {
			t.Error("Handler is nil")
		}
	})

	t.Run("Create Manager with Unsupported Target", func(t *testing.T) {
		cfg := testConfig(t, nil)
		cfg.TargetPlatform = "unsupported"
		var out bytes.Buffer
		_, err := NewManager(cfg, logger.NewWithWriter(false, &out), view.NewTerminal(&out, view.PresetAnswers{}), "1.0.0")
		if err == nil {
			t.Fatal("Expected error for unsupported target")
		}
		if !strings.Contains(err.Error(), "supported: "+config.DefaultTargetPlatform) {
			t.Errorf("Expected supported targets in error, got %v", err)
		}
	})

	t.Run("Initialize Failure", func(t *testing.T) {
		registry := NewRegistry()
		handler := &MockHandler{target: "mock", shouldFailInit: true}
		registry.Register(handler)
		cfg := testConfig(t, nil)
		cfg.TargetPlatform = "mock"
		var out bytes.Buffer
		if _, err := newManager(cfg, logger.NewWithWriter(false, &out), view.NewTerminal(&out, view.PresetAnswers{}), "1.0.0", registry); err == nil {
			t.Error("Expected initialize error")
		}
		if !handler.initCalled {
			t.Error("Expected Initialize to be called")
		}
	})

	t.Run("Run without Pages", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&MockHandler{target: "mock"})
		cfg := testConfig(t, nil)
		cfg.TargetPlatform = "mock"
		var out bytes.Buffer
		m, err := newManager(cfg, logger.NewWithWriter(false, &out), view.NewTerminal(&out, view.PresetAnswers{}), "1.0.0", registry)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if _, err := m.Run(context.Background()); !errors.Is(err, wizard.ErrNoPages) {
			t.Errorf("Expected ErrNoPages, got %v", err)
		}
	})
}

func TestRunNonInteractive(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"azure_account":        "user@contoso.com",
		"target_subscription":  "sub1",
		"target_server":        "mi-prod",
		"migration_mode":       "online",
		"container_type":       "blob_container",
		"storage_subscription": "sub2",
		"storage_account":      "acct1",
		"blob_container":       "backups",
		"migration_controller": "dms-prod",
		"node_name":            "vm-ir-01",
		"windows_user":         `CONTOSO\unused`,
	})
	var out bytes.Buffer
	m, err := NewManager(cfg, logger.NewWithWriter(false, &out), view.NewTerminal(&out, view.PresetAnswers(cfg.Answers)), "1.0.0")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	snap, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v\n%s", err, out.String())
	}

	want := state.BlobContainer{SubscriptionID: "sub2", StorageAccountID: "acct1", ContainerID: "backups"}
	if snap.NetworkContainer != want {
		t.Errorf("Expected %+v, got %+v", want, snap.NetworkContainer)
	}
	if snap.TargetSQLMIServer != "mi-prod" || snap.NodeName != "vm-ir-01" || snap.MigrationController.Name != "dms-prod" {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "mi-prod-migration.yaml"))
	if err != nil {
		t.Fatalf("Expected migration document: %v", err)
	}
	if !strings.Contains(string(data), "containerId: backups") {
		t.Errorf("Unexpected document\n%s", data)
	}
	if strings.Contains(string(data), "unused") {
		t.Error("Expected answers of unrendered controls to be ignored")
	}
	if !strings.Contains(out.String(), "not shown: windows_user") {
		t.Errorf("Expected ignored windows_user answer to be reported\n%s", out.String())
	}
}

func TestRunNonInteractiveBlocked(t *testing.T) {
	cfg := testConfig(t, map[string]string{"target_subscription": "sub1"})
	var out bytes.Buffer
	m, err := NewManager(cfg, logger.NewWithWriter(false, &out), view.NewTerminal(&out, view.PresetAnswers(cfg.Answers)), "1.0.0")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := m.Run(context.Background()); !errors.Is(err, ErrNavigationBlocked) {
		t.Fatalf("Expected ErrNavigationBlocked, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("Expected no output for a blocked run")
	}
}

func TestPreviewInteractive(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.NonInteractive = false
	input := strings.Join([]string{
		// target page, blocked on the missing managed instance
		"", "sub1", "",
		// target page again
		"", "", "mi-prod",
		// migration mode
		"2",
		// database backup, network share
		"", `\\fileserver\backups`, `CONTOSO\svc`, "sub1", "acct1",
		// integration runtime
		"dms-prod", "",
	}, "\n") + "\n"
	var out bytes.Buffer
	term := view.NewTerminal(&out, view.NewPrompter(strings.NewReader(input), &out))
	m, err := NewManager(cfg, logger.NewWithWriter(false, &out), term, "1.0.0")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	snap, err := m.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview failed: %v\n%s", err, out.String())
	}

	if snap.MigrationMode != state.MigrationModeOffline {
		t.Errorf("Expected offline mode, got %s", snap.MigrationMode)
	}
	share, ok := snap.NetworkContainer.(state.NetworkShare)
	if !ok || share.NetworkShareLocation != `\\fileserver\backups` {
		t.Errorf("Unexpected container %+v", snap.NetworkContainer)
	}
	if !strings.Contains(out.String(), "was blocked") {
		t.Error("Expected blocked navigation to be logged")
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("Expected preview not to write output")
	}
}
