package calculator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/harness"
	"github.com/go-rod/harness/lib/defaults"
	"github.com/go-rod/harness/lib/fixture"
	"github.com/go-rod/harness/lib/launcher"
	"github.com/go-rod/harness/pages/calculator"
	"github.com/ysmood/got"
)

// test context
type G struct {
	got.G

	calc *calculator.Page
}

// setup a fresh session for the test, it's closed when the test ends even if it fails.
// The page object points to the local replica unless the harness env var sets a target.
func setup(t *testing.T) G {
	return setupDelay(t, 0)
}

// setupDelay is similar to setup, the replica renders each result after the delay
func setupDelay(t *testing.T, delay time.Duration) G {
	t.Parallel() // run each test concurrently

	g := got.New(t)

	s, err := harness.NewSession(context.Background())
	if errors.Is(err, launcher.ErrBrowserNotFound) {
		t.Skip("no browser found, set the harness env var with bin or url to run this test")
	}
	g.E(err)
	g.Cleanup(func() { _ = s.Close() })

	calc := calculator.New(s.MustNewPage())

	if defaults.Target == "" {
		srv, err := fixture.Serve("")
		g.E(err)
		g.Cleanup(func() { _ = srv.Close() })
		calc.URL(srv.CalculatorURL(delay))
	}

	return G{g, calc}
}
