package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-rod/harness/lib/defaults"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDebugURL(t *testing.T) {
	u, has, err := parseDebugURL("xxx\nDevTools listening on ws://127.0.0.1:39231/devtools/browser/abc\n")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, "http://127.0.0.1:39231", u)

	_, has, err = parseDebugURL("DevTools listening")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGetURL(t *testing.T) {
	l := New()
	go func() {
		l.output <- "[0101/000000.000:WARNING] noise\n"
		l.output <- "DevTools listening on ws://127.0.0.1:1234/devtools/browser/x\n"
	}()

	u, err := l.getURL()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1234", u)
}

func TestGetURLExit(t *testing.T) {
	l := New()
	go func() {
		l.output <- "crashed\n"
		close(l.exit)
	}()

	_, err := l.getURL()
	assert.True(t, errors.Is(err, ErrLaunch))
	assert.Contains(t, err.Error(), "crashed")
}

func TestGetURLExistingSession(t *testing.T) {
	l := New()
	go func() {
		l.output <- "Opening in existing browser session.\n"
	}()

	_, err := l.getURL()
	assert.Error(t, err)
}

func TestGetURLCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New().Context(ctx)
	_, err := l.getURL()
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("9222"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("a:1"))
}

func TestArgs(t *testing.T) {
	l := New()
	l.dir = filepath.Join("tmp", "dir")
	l.port = "1234"
	l.headless = false
	l.sandbox = false

	args := l.args()
	assert.Equal(t, "about:blank", args[len(args)-1])
	assert.Contains(t, args, "--remote-debugging-port=1234")
	assert.Contains(t, args, "--start-maximized")
	assert.Contains(t, args, "--no-sandbox")
	assert.Contains(t, args, "--disable-features=site-per-process,TranslateUI")
	assert.NotContains(t, args, "--headless")

	abs, err := filepath.Abs(filepath.Join("tmp", "dir"))
	require.NoError(t, err)
	assert.Contains(t, args, "--user-data-dir="+abs)

	l.headless = true
	l.sandbox = true
	args = l.args()
	assert.Contains(t, args, "--headless")
	assert.NotContains(t, args, "--start-maximized")
	assert.NotContains(t, args, "--no-sandbox")
	for _, a := range args[:len(args)-1] {
		assert.True(t, strings.HasPrefix(a, "--"), a)
	}
}

func TestNewDefaults(t *testing.T) {
	defer defaults.ResetWithEnv()

	defaults.Reset()
	defaults.Parse("show,port=9333,bin=/path/to/chrome")

	l := New()
	assert.False(t, l.headless)
	assert.Equal(t, "9333", l.port)
	assert.Equal(t, "/path/to/chrome", l.bin)
	assert.False(t, l.keepDir)
	assert.Contains(t, l.dir, filepath.Join("harness", "user-data"))

	defaults.Parse("dir=profile")
	l = New()
	assert.True(t, l.keepDir)
	assert.Equal(t, "profile", l.dir)
}

func TestCleanupKeepDir(t *testing.T) {
	dir := t.TempDir()

	l := New()
	l.dir = dir
	l.keepDir = true
	l.Cleanup()

	_, err := os.Stat(dir)
	assert.NoError(t, err)

	l.keepDir = false
	l.Cleanup()

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestLaunchBrowserNotFound(t *testing.T) {
	old := ExecSearchMap
	ExecSearchMap = map[string][]string{}
	defer func() { ExecSearchMap = old }()

	l := New()
	l.bin = ""
	_, err := l.Launch()
	assert.True(t, errors.Is(err, ErrBrowserNotFound))
}

func TestLaunchBadBin(t *testing.T) {
	l := New()
	l.bin = filepath.Join("not", "exists")
	l.headless = false

	_, err := l.Launch()
	assert.Error(t, err)
}

func TestLaunch(t *testing.T) {
	if _, has := LookPath(); !has {
		t.Skip("no browser installed")
	}

	dir := filepath.Join(t.TempDir(), "profile")

	l := New()
	l.dir = dir
	l.keepDir = false

	u, err := l.Launch()
	require.NoError(t, err)
	assert.Regexp(t, `^ws://127\.0\.0\.1:\d+/devtools/browser/`, u)
	assert.NotZero(t, l.pid)

	l.Kill()
	l.Cleanup()

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
