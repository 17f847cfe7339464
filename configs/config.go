package configs

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	// CategoryLeaf is the fixed last segment of every upload's category
	// path.
	CategoryLeaf = "H5P"

	defaultCategoryRoot   = "Tapestry"
	defaultFlavor         = "7"
	defaultMaxUploadBytes = 2 << 30 // 2 GiB
	defaultNonceTTL       = 10 * time.Minute
)

// Config holds the resolved service configuration. It is built once at
// startup and treated as immutable afterward.
type Config struct {
	ServiceURL    string `json:"service_url"`
	PartnerID     int    `json:"partner_id"`
	AdminSecret   string `json:"admin_secret"`
	UserID        string `json:"user_id"`
	CategoryRoot  string `json:"category_root"`
	SiteID        string `json:"site_id"`
	DefaultFlavor string `json:"default_flavor"`

	MaxUploadBytes int64         `json:"max_upload_bytes"`
	NonceTTL       time.Duration `json:"-"`
}

// Load resolves the configuration. Precedence, later wins: built-in
// defaults, environment variables, the optional JSON settings file
// written by the host tool.
func Load(settingsPath string) (*Config, error) {
	cfg := &Config{
		CategoryRoot:   defaultCategoryRoot,
		DefaultFlavor:  defaultFlavor,
		MaxUploadBytes: defaultMaxUploadBytes,
		NonceTTL:       defaultNonceTTL,
	}

	cfg.fromEnv()

	if settingsPath != "" {
		if err := cfg.fromSettingsFile(settingsPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fromEnv() {
	if v := os.Getenv("KALTURA_SERVICE_URL"); v != "" {
		c.ServiceURL = v
	}
	if v := os.Getenv("KALTURA_PARTNER_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			c.PartnerID = id
		}
	}
	if v := os.Getenv("KALTURA_ADMIN_SECRET"); v != "" {
		c.AdminSecret = v
	}
	if v := os.Getenv("KALTURA_USER_ID"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("KALTURA_CATEGORY_ROOT"); v != "" {
		c.CategoryRoot = v
	}
	if v := os.Getenv("KALTURA_SITE_ID"); v != "" {
		c.SiteID = v
	}
	if v := os.Getenv("KALTURA_DEFAULT_FLAVOR"); v != "" {
		c.DefaultFlavor = v
	}
}

// fromSettingsFile overlays values from the host tool's settings store.
// Only keys present in the file override the current values.
func (c *Config) fromSettingsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read settings file %s", path)
	}

	var overlay struct {
		ServiceURL     *string `json:"service_url"`
		PartnerID      *int    `json:"partner_id"`
		AdminSecret    *string `json:"admin_secret"`
		UserID         *string `json:"user_id"`
		CategoryRoot   *string `json:"category_root"`
		SiteID         *string `json:"site_id"`
		DefaultFlavor  *string `json:"default_flavor"`
		MaxUploadBytes *int64  `json:"max_upload_bytes"`
	}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return errors.Wrapf(err, "parse settings file %s", path)
	}

	if overlay.ServiceURL != nil {
		c.ServiceURL = *overlay.ServiceURL
	}
	if overlay.PartnerID != nil {
		c.PartnerID = *overlay.PartnerID
	}
	if overlay.AdminSecret != nil {
		c.AdminSecret = *overlay.AdminSecret
	}
	if overlay.UserID != nil {
		c.UserID = *overlay.UserID
	}
	if overlay.CategoryRoot != nil {
		c.CategoryRoot = *overlay.CategoryRoot
	}
	if overlay.SiteID != nil {
		c.SiteID = *overlay.SiteID
	}
	if overlay.DefaultFlavor != nil {
		c.DefaultFlavor = *overlay.DefaultFlavor
	}
	if overlay.MaxUploadBytes != nil {
		c.MaxUploadBytes = *overlay.MaxUploadBytes
	}
	return nil
}

func (c *Config) validate() error {
	if c.ServiceURL == "" {
		return errors.New("kaltura service URL is required (KALTURA_SERVICE_URL)")
	}
	if c.PartnerID <= 0 {
		return errors.New("kaltura partner id is required (KALTURA_PARTNER_ID)")
	}
	if c.AdminSecret == "" {
		return errors.New("kaltura admin secret is required (KALTURA_ADMIN_SECRET)")
	}
	if c.SiteID == "" {
		return errors.New("site id is required (KALTURA_SITE_ID)")
	}
	return nil
}

// CategoryPath builds the deterministic category path for an upload at
// time t: root label, site id, day, fixed leaf.
func (c *Config) CategoryPath(t time.Time) []string {
	return []string{c.CategoryRoot, c.SiteID, t.Format("2006-01-02"), CategoryLeaf}
}
