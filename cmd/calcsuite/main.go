// Package main is a cli to run the calculator scenario files against the live page or the local replica.
//
//	calcsuite run --scenarios pages/calculator/testdata/scenarios.yaml --local
//	calcsuite serve --addr :8080
//
// The harness env var and a .env file in the working directory configure the browser,
// see the defaults package for the options.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-rod/harness"
	"github.com/go-rod/harness/lib/defaults"
	"github.com/go-rod/harness/lib/fixture"
	"github.com/go-rod/harness/pages/calculator"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()
	defaults.ResetWithEnv()

	err := newApp(os.Stdout).Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "calcsuite",
		Usage:     "Run the calculator regression scenarios in a browser",
		Version:   version,
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenario files, each scenario gets its own browser session",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "scenarios",
				Aliases: []string{"s"},
				Usage:   "Scenario yaml files",
				Value:   cli.NewStringSlice("pages/calculator/testdata/scenarios.yaml"),
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "URL of the calculator, the live page by default",
				EnvVars: []string{"CALCSUITE_TARGET"},
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Run against the local replica of the calculator",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Only run the scenarios whose name contains the text",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colors",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}

			var list []calculator.Scenario
			for _, path := range c.StringSlice("scenarios") {
				l, err := calculator.LoadScenarios(path)
				if err != nil {
					return err
				}
				list = append(list, filter(l, c.String("filter"))...)
			}

			target := c.String("target")
			if c.Bool("local") {
				srv, err := fixture.Serve("")
				if err != nil {
					return err
				}
				defer func() { _ = srv.Close() }()
				target = srv.CalculatorURL(0)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			r := &runner{ctx: ctx, out: c.App.Writer, target: target}
			if !r.run(list) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the local replica of the calculator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Address to listen on",
				Value: "127.0.0.1:8080",
			},
		},
		Action: func(c *cli.Context) error {
			srv, err := fixture.Serve(c.String("addr"))
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close() }()

			fmt.Fprintln(c.App.Writer, "calculator:", color.CyanString(srv.CalculatorURL(0)))

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()
			<-ctx.Done()

			return nil
		},
	}
}

func filter(list []calculator.Scenario, text string) []calculator.Scenario {
	if text == "" {
		return list
	}

	out := []calculator.Scenario{}
	for _, s := range list {
		if strings.Contains(s.Name, text) {
			out = append(out, s)
		}
	}
	return out
}

type runner struct {
	ctx    context.Context
	out    io.Writer
	target string
}

// run every scenario and print the report, returns false if any scenario failed
func (r *runner) run(list []calculator.Scenario) bool {
	passed, failed := 0, 0

	for _, s := range list {
		start := time.Now()
		err := r.one(s)
		r.report(s.Name, time.Since(start), err)

		if err != nil {
			failed++
		} else {
			passed++
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed", passed, failed)
	if failed > 0 {
		summary = color.RedString(summary)
	} else {
		summary = color.GreenString(summary)
	}
	fmt.Fprintln(r.out, summary)

	return failed == 0
}

func (r *runner) one(s calculator.Scenario) error {
	session, err := harness.NewSession(r.ctx)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	p, err := session.NewPage()
	if err != nil {
		return err
	}

	calc := calculator.New(p)
	if r.target != "" {
		calc.URL(r.target)
	}

	return s.Run(calc)
}

func (r *runner) report(name string, d time.Duration, err error) {
	d = d.Round(time.Millisecond)

	if err == nil {
		fmt.Fprintf(r.out, "%s %s %s\n", color.GreenString("PASS"), name, color.New(color.Faint).Sprint(d))
		return
	}

	fmt.Fprintf(r.out, "%s %s %s\n", color.RedString("FAIL"), name, color.New(color.Faint).Sprint(d))

	var e *harness.Error
	if errors.As(err, &e) {
		if m, ok := e.Details.(harness.Mismatch); ok {
			fmt.Fprintf(r.out, "    expected: %s\n", color.GreenString("%q", m.Expected))
			fmt.Fprintf(r.out, "    actual:   %s\n", color.RedString("%q", m.Actual))
			return
		}
	}
	fmt.Fprintf(r.out, "    %v\n", err)
}
