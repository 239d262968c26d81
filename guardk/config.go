package guardk

// Config for the guard host. Only host mechanics live here, the trusted
// schemes are fixed.
type Config struct {
	StartURL          string   `toml:"start_url"`
	AppDir            string   `toml:"app_dir"` // nwjs game folder, its window is guarded instead of a new tab
	ChromePath        string   `toml:"chrome_path"`
	DataPath          string   `toml:"data_path"`
	Headless          bool     `toml:"headless"`
	Flags             []string `toml:"flags"`              // extra chrome flags
	APITimeout        int      `toml:"api_timeout"`        // seconds
	NavigationTimeout int      `toml:"navigation_timeout"` // seconds
}

// SetDefaults fills zero values
func (c *Config) SetDefaults() {
	if c.APITimeout == 0 {
		c.APITimeout = 45
	}
	if c.NavigationTimeout == 0 {
		c.NavigationTimeout = 30
	}
}
