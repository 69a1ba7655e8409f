// Package launcher finds a locally installed Chrome and starts it with the remote debugging port open.
// It never downloads a browser, when none can be found Launch returns ErrBrowserNotFound.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-rod/harness/lib/defaults"
	"github.com/ysmood/kit"
	"github.com/ysmood/leakless"
)

// switches every harness browser starts with, see https://peter.sh/experiments/chromium-command-line-switches/
var baseFlags = []string{
	"disable-background-networking",
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-breakpad",
	"disable-client-side-phishing-detection",
	"disable-component-extensions-with-background-pages",
	"disable-default-apps",
	"disable-dev-shm-usage",
	"disable-extensions",
	"disable-features=site-per-process,TranslateUI",
	"disable-hang-monitor",
	"disable-ipc-flooding-protection",
	"disable-popup-blocking",
	"disable-prompt-on-repost",
	"disable-renderer-backgrounding",
	"disable-sync",
	"enable-automation",
	"force-color-profile=srgb",
	"metrics-recording-only",
	"no-first-run",
	"use-mock-keychain",
}

// Launcher starts one browser process for a harness session
type Launcher struct {
	ctx    context.Context
	cancel func()
	log    func(string)

	bin      string
	dir      string
	keepDir  bool
	headless bool
	port     string
	sandbox  bool

	output chan string
	pid    int
	exit   chan kit.Nil
}

// New launcher configured by the defaults package. The profile goes to a temp dir
// that Cleanup removes, unless defaults.Dir names one.
func New() *Launcher {
	dir := defaults.Dir
	keep := dir != ""
	if !keep {
		dir = filepath.Join(os.TempDir(), "harness", "user-data", kit.RandString(8))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Launcher{
		ctx:      ctx,
		cancel:   cancel,
		bin:      defaults.Bin,
		dir:      dir,
		keepDir:  keep,
		headless: !defaults.Show,
		port:     defaults.Port,

		// chrome refuses to start its sandbox as root
		sandbox: !inContainer && os.Geteuid() != 0,

		output: make(chan string),
		exit:   make(chan kit.Nil),
	}
}

// Context bounds the launch
func (l *Launcher) Context(ctx context.Context) *Launcher {
	l.ctx, l.cancel = context.WithCancel(ctx)
	return l
}

// Log receives every line the browser prints to stdout and stderr
func (l *Launcher) Log(log func(string)) *Launcher {
	l.log = log
	return l
}

// args of the browser command line, the page to open is always the last one
func (l *Launcher) args() []string {
	list := []string{}
	for _, f := range baseFlags {
		list = append(list, "--"+f)
	}

	// chrome hangs if the profile path is not absolute
	dir, err := filepath.Abs(l.dir)
	if err != nil {
		dir = l.dir
	}
	list = append(list, "--user-data-dir="+dir, "--remote-debugging-port="+l.port)

	if l.headless {
		list = append(list, "--headless")
	} else {
		list = append(list, "--start-maximized")
	}
	if !l.sandbox {
		list = append(list, "--no-sandbox")
	}

	sort.Strings(list)
	return append(list, "about:blank")
}

// Launch the browser and return its websocket debugger url
func (l *Launcher) Launch() (string, error) {
	defer l.cancel()

	if inContainer {
		runReaper()
	}

	bin := l.bin
	if bin == "" {
		found, has := LookPath()
		if !has {
			return "", ErrBrowserNotFound
		}
		bin = found
	}

	var ll *leakless.Launcher
	var cmd *exec.Cmd

	// leakless makes sure a headless browser dies with the test process
	if l.headless && leakless.Support() {
		ll = leakless.New()
		cmd = ll.Command(bin, l.args()...)
	} else {
		cmd = exec.Command(bin, l.args()...)
		osSetupCmd(cmd)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", err
	}
	defer func() {
		if l.log == nil {
			_ = stdout.Close()
			_ = stderr.Close()
		}
	}()

	err = cmd.Start()
	if err != nil {
		return "", err
	}

	if ll != nil {
		select {
		case <-l.ctx.Done():
			_ = cmd.Process.Kill()
			return "", l.ctx.Err()
		case pid := <-ll.Pid():
			l.pid = pid
			if ll.Err() != "" {
				return "", errors.New(ll.Err())
			}
		}
	} else {
		l.pid = cmd.Process.Pid
	}

	go l.read(stdout)
	go l.read(stderr)

	go func() {
		_ = cmd.Wait()
		close(l.exit)
	}()

	u, err := l.getURL()
	if err != nil {
		l.Kill()
		return "", err
	}

	return ResolveURL(l.ctx, u)
}

// Kill the browser process and its children
func (l *Launcher) Kill() {
	if l.pid == 0 {
		return
	}
	killGroup(l.pid)
	p, err := os.FindProcess(l.pid)
	if err == nil {
		_ = p.Kill()
	}
}

// Cleanup waits until the browser exits, then removes the temp profile
func (l *Launcher) Cleanup() {
	if l.pid != 0 {
		<-l.exit
	}

	if l.keepDir {
		return
	}

	if l.log != nil {
		l.log(fmt.Sprintln("[launcher] remove", l.dir))
	}
	_ = os.RemoveAll(l.dir)
}

func (l *Launcher) read(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text() + "\n"
		if l.log != nil {
			l.log(line)
		}
		select {
		case <-l.ctx.Done():
			if l.log == nil {
				return
			}
		case l.output <- line:
		}
	}
}

var regWS = regexp.MustCompile(`ws://.+/`)

// getURL from browser stderr, returns the http endpoint of the debugging port
func (l *Launcher) getURL() (string, error) {
	out := ""

	for {
		select {
		case <-l.ctx.Done():
			return "", l.ctx.Err()
		case e := <-l.output:
			out += e

			if strings.Contains(out, "Opening in existing browser session") {
				return "", errors.New("[launcher] quit the current running browser first")
			}

			u, has, err := parseDebugURL(out)
			if err != nil {
				return "", err
			}
			if has {
				return u, nil
			}
		case <-l.exit:
			return "", fmt.Errorf("%w: %s", ErrLaunch, out)
		}
	}
}

func parseDebugURL(out string) (string, bool, error) {
	str := regWS.FindString(out)
	if str == "" {
		return "", false, nil
	}

	u, err := url.Parse(strings.TrimSpace(str))
	if err != nil {
		return "", false, err
	}
	return "http://" + u.Host, true, nil
}
