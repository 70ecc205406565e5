package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "main", cfg.CameraID)
	require.Equal(t, -1, cfg.CameraIndex)
	require.False(t, cfg.CameraEnabled())
	require.Equal(t, 640, cfg.CameraWidth)
	require.Equal(t, 480, cfg.CameraHeight)
	require.Equal(t, "eng", cfg.OCRLanguage)
	require.Equal(t, 30.0, cfg.OCRMinConfidence)
	require.Equal(t, 5, cfg.AutoMaxRegions)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("CAMERA_INDEX", "2")
	t.Setenv("CAMERA_ID", "line-1")
	t.Setenv("AUTO_MAX_REGIONS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.CameraEnabled())
	require.Equal(t, 2, cfg.CameraIndex)
	require.Equal(t, "line-1", cfg.CameraID)
	require.Equal(t, 3, cfg.AutoMaxRegions)
}

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsOutOfRangeBrightness(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("CAMERA_BRIGHTNESS", "150")

	_, err := Load()
	require.Error(t, err)
}
