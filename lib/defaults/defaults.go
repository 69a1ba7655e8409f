// Package defaults holds some commonly used options parsed from env var "harness".
// Set them will set the default value of options used by the harness.
// Each option is separated by a ",", key and value are separated by "=".
// An option whose value contains a "," must be wrapped in double quotes.
// For example:
//
//	harness=show,trace,slow,cdp
//	harness=show,trace,slow=1s,port=9222,timeout=10s,target=http://127.0.0.1:8080
//	harness=trace,"target=http://127.0.0.1:8080/?ops=+,-"
package defaults

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ysmood/kit"
)

// EnvName of the env var to read the options from
const EnvName = "harness"

// Show opens a visible and maximized browser window instead of a headless one
var Show bool

// Trace is the default of harness.Session.Trace
var Trace bool

// Slow is the default of harness.Session.Slowmotion
var Slow time.Duration

// Dir is the profile dir of the launched browser, it's kept after the session when set
var Dir string

// Port is the remote debugging port of the launched browser, "0" picks a free one
var Port string

// Bin is the browser executable to launch, it's searched with launcher.LookPath when empty
var Bin string

// URL of a running browser to control, when set no browser will be launched
var URL string

// CDP enables cdp log
var CDP bool

// Timeout is the default bound of harness.Wait
var Timeout time.Duration

// Interval is the default poll interval of harness.Wait
var Interval time.Duration

// Settle is how many equal reads in a row harness.WaitStable requires
var Settle int

// Navigation is the default timeout for page loads
var Navigation time.Duration

// Target overrides the url of the page under test
var Target string

// Parse the flags
func init() {
	ResetWithEnv()
}

// Reset all flags to their init values.
func Reset() {
	Show = false
	Trace = false
	Slow = 0
	Dir = ""
	Port = "0"
	Bin = ""
	URL = ""
	CDP = false
	Timeout = 5 * time.Second
	Interval = 100 * time.Millisecond
	Settle = 3
	Navigation = 30 * time.Second
	Target = ""
}

// ResetWithEnv all flags by the value of the harness env var.
func ResetWithEnv() {
	Reset()
	Parse(os.Getenv(EnvName))
}

// Parse options and set them globally
func Parse(options string) {
	if options == "" {
		return
	}

	r := csv.NewReader(strings.NewReader(options))
	list, err := r.Read()
	kit.E(err)

	for _, f := range list {
		kv := strings.SplitN(f, "=", 2)
		rule, has := rules[kv[0]]
		if !has {
			panic("no such option: " + kv[0])
		}
		if len(kv) == 2 {
			rule(kv[1])
		} else {
			rule("")
		}
	}
}

func duration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	kit.E(err)
	return d
}

var rules = map[string]func(string){
	"show": func(string) {
		Show = true
	},
	"trace": func(string) {
		Trace = true
	},
	"slow": func(v string) {
		Slow = time.Second
		if v != "" {
			Slow = duration(v)
		}
	},
	"dir": func(v string) {
		Dir = v
	},
	"port": func(v string) {
		Port = v
	},
	"bin": func(v string) {
		Bin = v
	},
	"url": func(v string) {
		URL = v
	},
	"cdp": func(string) {
		CDP = true
	},
	"timeout": func(v string) {
		Timeout = duration(v)
	},
	"interval": func(v string) {
		Interval = duration(v)
	},
	"settle": func(v string) {
		n, err := strconv.Atoi(v)
		kit.E(err)
		if n < 1 {
			panic(fmt.Sprintf("settle must be positive: %d", n))
		}
		Settle = n
	},
	"nav": func(v string) {
		Navigation = duration(v)
	},
	"target": func(v string) {
		Target = v
	},
}
