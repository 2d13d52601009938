package invoice

import (
	"os"
	"runtime"

	"github.com/chromedp/chromedp"
)

// RenderAttempt is one candidate renderer launch configuration. Attempts
// are evaluated in order by Generate; the most capable configuration comes
// first.
type RenderAttempt struct {
	Name     string
	ExecPath string
	Flags    []chromedp.ExecAllocatorOption
}

var systemChromePaths = map[string][]string{
	"linux": {
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	},
	"darwin": {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	},
	"windows": {
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	},
}

func findSystemChrome() string {
	for _, path := range systemChromePaths[runtime.GOOS] {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func sandboxDisabledFlags() []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	}
}

func singleProcessFlags() []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.Flag("single-process", true),
		chromedp.Flag("no-zygote", true),
	}
}

func conservativeFlags() []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.Flag("single-process", true),
		chromedp.Flag("no-zygote", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	}
}

// buildAttempts prefers a system-installed browser with the standard
// sandbox-disabled flags, retrying it single-process, and otherwise lets
// chromedp's own lookup find a binary with memory-conservative flags.
func buildAttempts() []RenderAttempt {
	if path := findSystemChrome(); path != "" {
		return []RenderAttempt{
			{Name: "system-chrome", ExecPath: path, Flags: sandboxDisabledFlags()},
			{Name: "system-chrome-single-process", ExecPath: path, Flags: singleProcessFlags()},
		}
	}
	return []RenderAttempt{
		{Name: "default-conservative", Flags: conservativeFlags()},
	}
}
