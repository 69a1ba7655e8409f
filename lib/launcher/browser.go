package launcher

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ExecSearchMap lists the executables LookPath tries, per GOOS, in order
var ExecSearchMap = map[string][]string{
	"darwin": {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
	},
	"linux": {
		"chrome",
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
		"/usr/bin/google-chrome",
		"/snap/bin/chromium",
	},
	"windows": append([]string{"chrome", "edge"}, expandWindowsExePaths(
		`Google\Chrome\Application\chrome.exe`,
		`Chromium\Application\chrome.exe`,
		`Microsoft\Edge\Application\msedge.exe`,
	)...),
}

// LookPath searches for the browser executable from often used paths on current operating system.
func LookPath() (found string, has bool) {
	for _, path := range ExecSearchMap[runtime.GOOS] {
		var err error
		found, err = exec.LookPath(path)
		if err == nil {
			return found, true
		}
	}
	return "", false
}

func expandWindowsExePaths(list ...string) []string {
	newList := []string{}
	for _, p := range list {
		newList = append(
			newList,
			filepath.Join(os.Getenv("ProgramFiles"), p),
			filepath.Join(os.Getenv("ProgramFiles(x86)"), p),
			filepath.Join(os.Getenv("LocalAppData"), p),
		)
	}

	return newList
}
