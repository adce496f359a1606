// Package config provides configuration loading and management for the
// modloader CLI.
package config

import "time"

// Config represents the modloader CLI configuration.
// Loaded from ~/.modloader/config.yaml; MODLOADER_* environment variables
// take precedence over file values.
type Config struct {
	// Manifest is the module index location (URL or local file path).
	// Env: MODLOADER_MANIFEST, Default: /modules/index.json
	Manifest string `mapstructure:"manifest"`

	// RoutePolicy is the duplicate-route admission policy: "name",
	// "path" or "off".
	// Env: MODLOADER_ROUTE_POLICY, Default: "name"
	RoutePolicy string `mapstructure:"routePolicy"`

	// PreferDev selects development sources when a reference carries
	// one.
	// Env: MODLOADER_PREFER_DEV
	PreferDev bool `mapstructure:"preferDev"`

	// Production marks the deployment posture. Development sources are
	// refused in production unless AllowDevInProduction is set.
	// Env: MODLOADER_PRODUCTION
	Production bool `mapstructure:"production"`

	// AllowDevInProduction permits development sources in production.
	// Env: MODLOADER_ALLOW_DEV_IN_PRODUCTION
	AllowDevInProduction bool `mapstructure:"allowDevInProduction"`

	// Timeout bounds each module's code load. Zero disables the bound.
	// Env: MODLOADER_TIMEOUT
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultManifest is the manifest location used when none is configured.
const DefaultManifest = "/modules/index.json"

// WithDefaults returns a copy of the config with defaults applied to
// unset fields.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Manifest == "" {
		out.Manifest = DefaultManifest
	}
	if out.RoutePolicy == "" {
		out.RoutePolicy = "name"
	}
	return &out
}
