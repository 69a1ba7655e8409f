//go:build !windows
// +build !windows

package launcher

import (
	"sync"

	"github.com/ramr/go-reaper"
)

var reaperOnce sync.Once

// runReaper cleans up the zombie browser processes when we run as the init process of a container
func runReaper() {
	reaperOnce.Do(func() {
		go reaper.Reap()
	})
}
