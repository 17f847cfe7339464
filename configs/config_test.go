package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("KALTURA_SERVICE_URL", "https://env.kaltura.example")
	t.Setenv("KALTURA_PARTNER_ID", "111")
	t.Setenv("KALTURA_ADMIN_SECRET", "env-secret")
	t.Setenv("KALTURA_SITE_ID", "env-site")
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://env.kaltura.example", cfg.ServiceURL)
	require.Equal(t, 111, cfg.PartnerID)
	require.Equal(t, "Tapestry", cfg.CategoryRoot, "default survives when env does not set it")
	require.Equal(t, "7", cfg.DefaultFlavor)
}

func TestSettingsFileOverridesEnv(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"service_url": "https://store.kaltura.example",
		"partner_id": 222,
		"site_id": "store-site"
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Settings store wins where populated, env fills the rest.
	require.Equal(t, "https://store.kaltura.example", cfg.ServiceURL)
	require.Equal(t, 222, cfg.PartnerID)
	require.Equal(t, "store-site", cfg.SiteID)
	require.Equal(t, "env-secret", cfg.AdminSecret)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	t.Setenv("KALTURA_SERVICE_URL", "https://env.kaltura.example")
	t.Setenv("KALTURA_PARTNER_ID", "")
	t.Setenv("KALTURA_ADMIN_SECRET", "")
	t.Setenv("KALTURA_SITE_ID", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadRejectsMissingSettingsFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestCategoryPath(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	at := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	require.Equal(t, []string{"Tapestry", "env-site", "2026-08-31", "H5P"}, cfg.CategoryPath(at))
}
