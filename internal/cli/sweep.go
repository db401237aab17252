package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linklock-project/linklock/internal/lock"
	"github.com/linklock-project/linklock/pkg/logging"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <lockfile>",
	Short: "Remove temp debris left by dead same-host processes",
	Long: `Scan the lockfile's directory for unique temp files created by
processes on this host that no longer exist, and remove them. The
lockfile itself is never touched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		removed, err := lock.Sweep(target, logging.NewFromEnv())
		if err != nil {
			fmtErr("sweep %s: %v", target, err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]any{"lockfile": target, "removed": removed})
			return
		}
		fmt.Printf("Removed %d stale temp file(s)\n", removed)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
