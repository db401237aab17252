//go:build conformance

package conformance

import (
	"time"

	"github.com/linklock-project/linklock/pkg/model"
)

// fastOpts keeps contended scenarios in the tens-of-milliseconds range.
func fastOpts() model.Options {
	opts := model.DefaultOptions()
	opts.MinSleep = 10 * time.Millisecond
	opts.MaxSleep = 40 * time.Millisecond
	opts.SleepInc = 10 * time.Millisecond
	opts.PollRetries = 4
	opts.PollMaxSleep = time.Millisecond
	opts.Refresh = 0
	opts.Suspend = 0
	return opts
}

func intPtr(v int) *int { return &v }
