package host

import "gitlab.com/schemeguard/guardk"

var startupFlags = []string{
	"--enable-automation",
	"--enable-features=NetworkService",
	"--test-type",
	"--disable-client-side-phishing-detection",
	"--disable-component-update",
	"--disable-infobars",
	"--disable-ntp-popular-sites",
	"--disable-ntp-most-likely-favicons-from-server",
	"--disable-sync-app-list",
	"--disable-domain-reliability",
	"--disable-background-networking",
	"--disable-sync",
	"--disable-new-browser-first-run",
	"--disable-default-apps",
	"--disable-features=TranslateUI",
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--no-first-run",
	"--window-size=1024,768",
	"--safebrowsing-disable-auto-update",
	"--password-store=basic",
}

// StartupFlags for chrome given the config. The last argument is the nwjs app
// folder when one is set, about:blank otherwise.
func StartupFlags(cfg *guardk.Config) []string {
	flags := make([]string, 0, len(startupFlags)+len(cfg.Flags)+2)
	flags = append(flags, startupFlags...)
	flags = append(flags, cfg.Flags...)
	if cfg.Headless {
		flags = append(flags, "--headless")
	}
	if cfg.AppDir != "" {
		return append(flags, cfg.AppDir)
	}
	return append(flags, "about:blank")
}
