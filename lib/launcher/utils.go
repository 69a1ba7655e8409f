package launcher

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/ysmood/kit"
)

// ErrBrowserNotFound is returned when no executable is set and none can be found on the system
var ErrBrowserNotFound = errors.New("[launcher] no browser executable found")

// ErrLaunch is returned when the browser exits before it prints the debug url
var ErrLaunch = errors.New("[launcher] failed to get the debug url")

var inContainer = fileExists("/.dockerenv") || fileExists("/run/.containerenv")

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func toHTTP(u *url.URL) {
	if u.Scheme == "ws" {
		u.Scheme = "http"
	} else if u.Scheme == "wss" {
		u.Scheme = "https"
	}
}

// ResolveURL returns the websocket debugger url of a browser.
// A full websocket url such as "ws://127.0.0.1:9222/devtools/browser/<id>" is returned as it is,
// otherwise "/json/version" of the host is queried, so "9222", "127.0.0.1:9222" and "http://127.0.0.1:9222" all work.
func ResolveURL(ctx context.Context, u string) (string, error) {
	if u == "" {
		u = "9222"
	}
	if isDigits(u) {
		u = "127.0.0.1:" + u
	}
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return "", err
	}

	if (parsed.Scheme == "ws" || parsed.Scheme == "wss") && strings.Trim(parsed.Path, "/") != "" {
		return u, nil
	}

	toHTTP(parsed)
	parsed.Path = "/json/version"

	obj, err := kit.Req(parsed.String()).Context(ctx).JSON()
	if err != nil {
		return "", err
	}

	ws := obj.Get("webSocketDebuggerUrl").String()
	if ws == "" {
		return "", errors.New("[launcher] no webSocketDebuggerUrl from " + parsed.String())
	}

	wsURL, err := url.Parse(ws)
	if err != nil {
		return "", err
	}

	// the browser reports its own view of the host, keep the one the caller can reach
	wsURL.Host = parsed.Host
	if parsed.Scheme == "https" {
		wsURL.Scheme = "wss"
	}

	return wsURL.String(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
