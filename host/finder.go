package host

import (
	"os"
	"runtime"
)

var linuxChrome = []string{
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
}

// FindChrome on the FS, returns the binary and a tmp dir for profiles
func FindChrome() (string, string) {
	switch runtime.GOOS {
	case "windows":
		return "C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe", "C:\\Temp\\gcd\\"
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", "/tmp/gcd/"
	case "linux":
		for _, path := range linuxChrome {
			if _, err := os.Stat(path); err == nil {
				return path, "/tmp/gcd/"
			}
		}
		return linuxChrome[0], "/tmp/gcd/"
	}
	return "", "tmp"
}

// ChromeExists reports if the chrome binary is present
func ChromeExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
