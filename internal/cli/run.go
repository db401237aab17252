package cli

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/lockfile"
	"github.com/linklock-project/linklock/pkg/model"
)

// Distinguished exit codes for acquire outcomes. The child's own exit code
// is passed through on success.
const (
	exitUsage    = 2
	exitTimeout  = 3
	exitMaxTries = 4
	exitStolen   = 5
)

var runFlags struct {
	retries      string
	minSleep     string
	maxSleep     string
	sleepInc     string
	maxAge       string
	suspend      string
	refresh      string
	timeout      string
	pollRetries  string
	pollMaxSleep string
	dontClean    string
	dontSweep    string
	debug        string
}

var runCmd = &cobra.Command{
	Use:   "run <lockfile> -- <command> [args...]",
	Short: "Run a command while holding a lockfile",
	Long: `Acquire the lockfile, execute the command after the separator, and
release on exit. The command's exit code is passed through; acquire
failures exit 3 (timeout), 4 (retries exhausted), or 5 (lock stolen).

Tri-state options accept the literal tokens nil or null to mean unset,
and boolean options accept true or false.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dash := cmd.ArgsLenAtDash()
		if dash != 1 || len(args) < 2 {
			fmtErr("usage: linklock run <lockfile> [flags] -- <command> [args...]")
			os.Exit(exitUsage)
		}
		target := args[0]
		childArgs := args[1:]

		opts, err := runOptions()
		if err != nil {
			fmtErr("%v", err)
			os.Exit(exitUsage)
		}

		lf, err := lockfile.New(target, opts)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(exitUsage)
		}

		if err := lf.Lock(); err != nil {
			fmtErr("acquire %s: %v", target, err)
			os.Exit(acquireExitCode(err))
		}

		child := exec.Command(childArgs[0], childArgs[1:]...)
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr

		childCode := 0
		if err := child.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				childCode = exitErr.ExitCode()
			} else {
				fmtErr("exec %s: %v", childArgs[0], err)
				childCode = exitUsage
			}
		}

		if err := lf.Unlock(); err != nil {
			if errors.Is(err, errclass.ErrStolen) && childCode == 0 {
				fmtErr("release %s: %v", target, err)
				os.Exit(exitStolen)
			}
			fmtErr("release %s: %v", target, err)
		}
		os.Exit(childCode)
	},
}

func acquireExitCode(err error) int {
	switch {
	case errors.Is(err, errclass.ErrTimeout):
		return exitTimeout
	case errors.Is(err, errclass.ErrMaxTries):
		return exitMaxTries
	case errors.Is(err, errclass.ErrStolen):
		return exitStolen
	default:
		return exitUsage
	}
}

// runOptions overlays config file values and then flags onto the defaults.
func runOptions() (model.Options, error) {
	opts, err := loadOptions()
	if err != nil {
		return opts, err
	}

	if err := applyTriInt("retries", runFlags.retries, &opts.Retries); err != nil {
		return opts, err
	}
	if err := applyDuration("min-sleep", runFlags.minSleep, &opts.MinSleep); err != nil {
		return opts, err
	}
	if err := applyDuration("max-sleep", runFlags.maxSleep, &opts.MaxSleep); err != nil {
		return opts, err
	}
	if err := applyDuration("sleep-inc", runFlags.sleepInc, &opts.SleepInc); err != nil {
		return opts, err
	}
	if err := applyDuration("max-age", runFlags.maxAge, &opts.MaxAge); err != nil {
		return opts, err
	}
	if err := applyDuration("suspend", runFlags.suspend, &opts.Suspend); err != nil {
		return opts, err
	}
	if err := applyDuration("refresh", runFlags.refresh, &opts.Refresh); err != nil {
		return opts, err
	}
	if err := applyTriDuration("timeout", runFlags.timeout, &opts.Timeout); err != nil {
		return opts, err
	}
	if err := applyInt("poll-retries", runFlags.pollRetries, &opts.PollRetries); err != nil {
		return opts, err
	}
	if err := applyDuration("poll-max-sleep", runFlags.pollMaxSleep, &opts.PollMaxSleep); err != nil {
		return opts, err
	}
	if err := applyBoolToken("dont-clean", runFlags.dontClean, &opts.DontClean); err != nil {
		return opts, err
	}
	if err := applyBoolToken("dont-sweep", runFlags.dontSweep, &opts.DontSweep); err != nil {
		return opts, err
	}
	if err := applyBoolToken("debug", runFlags.debug, &opts.Debug); err != nil {
		return opts, err
	}
	return opts, nil
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.retries, "retries", "", "outer retry bound, or nil for unlimited")
	f.StringVar(&runFlags.minSleep, "min-sleep", "", "backoff cycle minimum sleep")
	f.StringVar(&runFlags.maxSleep, "max-sleep", "", "backoff cycle maximum sleep")
	f.StringVar(&runFlags.sleepInc, "sleep-inc", "", "backoff cycle increment")
	f.StringVar(&runFlags.maxAge, "max-age", "", "age past which a lockfile is stealable, or nil")
	f.StringVar(&runFlags.suspend, "suspend", "", "pause after stealing before claiming")
	f.StringVar(&runFlags.refresh, "refresh", "", "interval between mtime touches, or nil")
	f.StringVar(&runFlags.timeout, "timeout", "", "wall-clock bound on the acquire, or nil")
	f.StringVar(&runFlags.pollRetries, "poll-retries", "", "link attempts per polling phase")
	f.StringVar(&runFlags.pollMaxSleep, "poll-max-sleep", "", "random sleep cap between polls")
	f.StringVar(&runFlags.dontClean, "dont-clean", "", "true to skip process-exit cleanup registration")
	f.StringVar(&runFlags.dontSweep, "dont-sweep", "", "true to skip the acquire-time sweep")
	f.StringVar(&runFlags.debug, "debug", "", "true to force debug tracing")
	rootCmd.AddCommand(runCmd)
}
