package browser

import (
	"log/slog"
	"os/exec"
	"path/filepath"
)

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// FindChromePath searches PATH and common install locations for a
// Chrome/Chromium binary. It returns "" when none is found, in which case
// chromedp falls back to its own lookup.
func FindChromePath(log *slog.Logger) string {
	for _, name := range chromeBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			log.Debug("found Chrome binary", "name", filepath.Base(name), "path", path)
			return path
		}
	}
	log.Warn("no Chrome binary found - browser launch may fail")
	return ""
}
