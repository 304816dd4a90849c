// internal/browser/options.go
package browser

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// ErrNoChrome is returned by FindChrome when no Chrome or Chromium binary is available.
var ErrNoChrome = errors.New("no chrome or chromium executable found")

// chromeCandidates mirrors the names chromedp itself probes on linux and macOS.
var chromeCandidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// FindChrome returns the configured exec path if set, otherwise the first Chrome
// binary found on PATH.
func FindChrome(cfg config.BrowserConfig) (string, error) {
	if cfg.ExecPath != "" {
		return exec.LookPath(cfg.ExecPath)
	}
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoChrome
}

// AllocatorOptions builds the chromedp exec allocator options for cfg, starting from
// chromedp's defaults (which include headless).
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("enable-automation", true),
	)

	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	// The sandbox needs user namespaces that containers and CI runners rarely grant.
	if cfg.NoSandbox && runtime.GOOS == "linux" {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	for _, arg := range cfg.Args {
		key, value, found := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if key == "" {
			continue
		}
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}
