package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/harness/lib/cdp"
	"github.com/go-rod/harness/lib/defaults"
	"github.com/ysmood/kit"
)

// WaitOptions bounds a poll
type WaitOptions struct {
	// Interval between two checks
	Interval time.Duration

	// Timeout of the whole wait
	Timeout time.Duration

	// Settle is how many equal reads in a row WaitStable needs
	Settle int
}

// DefaultWaitOptions from the defaults package
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		Interval: defaults.Interval,
		Timeout:  defaults.Timeout,
		Settle:   defaults.Settle,
	}
}

// Sleeper that wakes every Interval
func (opts WaitOptions) Sleeper() kit.Sleeper {
	return kit.BackoffSleeper(opts.Interval, opts.Interval, nil)
}

// Wait evaluates cond every opts.Interval until it returns true.
// Once opts.Timeout elapses it fails with ErrTimeout. An error from cond stops the wait
// immediately, unless it's caused by the page being re-rendered, such as a destroyed execution context.
func Wait(ctx context.Context, opts WaitOptions, cond func() (bool, error)) error {
	timeout, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var transient error

	err := kit.Retry(timeout, opts.Sleeper(), func() (bool, error) {
		ok, err := cond()
		if err != nil {
			if isTransient(err) {
				transient = err
				return false, nil
			}
			return true, err
		}
		transient = nil
		return ok, nil
	})

	// the deadline may come from opts.Timeout or from the parent context, a cancellation is returned as is
	if errors.Is(err, context.DeadlineExceeded) {
		if transient == nil {
			transient = context.DeadlineExceeded
		}
		return newErr(ErrTimeout, fmt.Sprintf("condition not met within %s", opts.Timeout), transient)
	}

	return err
}

// WaitStable reads the value every opts.Interval until it gets opts.Settle equal values in a row,
// then returns the value. It fails with ErrTimeout if the value doesn't settle within opts.Timeout.
func WaitStable(ctx context.Context, opts WaitOptions, read func() (string, error)) (string, error) {
	settle := opts.Settle
	if settle < 1 {
		settle = 1
	}

	var last string
	count := 0

	err := Wait(ctx, opts, func() (bool, error) {
		v, err := read()
		if err != nil {
			return false, err
		}

		if count > 0 && v == last {
			count++
		} else {
			last = v
			count = 1
		}

		return count >= settle, nil
	})
	if IsError(err, ErrTimeout) {
		if e, ok := err.(*Error); ok {
			e.Details = fmt.Sprintf("%v, last value %q", e.Details, last)
		}
	}

	return last, err
}

// WaitText waits until the text read is exactly the expected one
func WaitText(ctx context.Context, opts WaitOptions, expected string, read func() (string, error)) error {
	var last string
	err := Wait(ctx, opts, func() (bool, error) {
		v, err := read()
		if err != nil {
			return false, err
		}
		last = v
		return v == expected, nil
	})
	if IsError(err, ErrTimeout) {
		if e, ok := err.(*Error); ok {
			e.Details = fmt.Sprintf("%v, %s", e.Details, Mismatch{expected, last})
		}
	}
	return err
}

func isTransient(err error) bool {
	return errors.Is(err, cdp.ErrCtxDestroyed) ||
		errors.Is(err, cdp.ErrCtxNotFound) ||
		errors.Is(err, cdp.ErrObjNotFound)
}
