package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"part-inspector/config"
	"part-inspector/internal/infrastructure/storage"
)

func TestNew_WithoutCamera(t *testing.T) {
	cfg := &config.Config{
		TelegramToken:    "token",
		CameraID:         "main",
		CameraIndex:      -1,
		CameraWidth:      640,
		CameraHeight:     480,
		CameraBrightness: 50,
		CameraContrast:   50,
		OCRLanguage:      "eng",
		OCRMinConfidence: 30,
		AutoMaxRegions:   5,
	}

	c, err := New(cfg, storage.NewMemoryUserRepository(), storage.NewMemoryInspectionRepository())
	require.NoError(t, err)
	defer c.Close()

	require.Empty(t, c.CameraID)
	require.Empty(t, c.Cameras.IDs())

	stats, err := c.InspectionService.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.Total)
}

func TestNew_MissingRulesFile(t *testing.T) {
	cfg := &config.Config{RulesFile: "/nonexistent/rules.yaml", CameraIndex: -1}
	_, err := New(cfg, storage.NewMemoryUserRepository(), storage.NewMemoryInspectionRepository())
	require.Error(t, err)
}

func TestContainer_ReloadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`item_checks:
  - id: 1
    name: length
    rule_json: '{"min_length": 3}'
`), 0o600))

	c, err := New(&config.Config{RulesFile: path, CameraIndex: -1},
		storage.NewMemoryUserRepository(), storage.NewMemoryInspectionRepository())
	require.NoError(t, err)
	defer c.Close()
	require.Len(t, c.Catalog.ItemChecks(), 1)

	require.NoError(t, os.WriteFile(path, []byte(`item_checks:
  - id: 1
    name: length
    rule_json: '{"min_length": 3}'
  - id: 2
    name: size
    rule_json: '{"type": "dimension_check"}'
    is_active: false
`), 0o600))
	require.NoError(t, c.ReloadRules())
	require.Len(t, c.Catalog.ItemChecks(), 2)

	require.NoError(t, os.WriteFile(path, []byte("item_checks: {"), 0o600))
	require.Error(t, c.ReloadRules())
	require.Len(t, c.Catalog.ItemChecks(), 2)
}

func TestContainer_ReloadRulesWithoutFile(t *testing.T) {
	c, err := New(&config.Config{CameraIndex: -1},
		storage.NewMemoryUserRepository(), storage.NewMemoryInspectionRepository())
	require.NoError(t, err)
	defer c.Close()

	require.ErrorIs(t, c.ReloadRules(), ErrNoRulesFile)
}
