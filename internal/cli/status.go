package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linklock-project/linklock/internal/lock"
)

var statusMaxAge string

var statusCmd = &cobra.Command{
	Use:   "status <lockfile>",
	Short: "Show who holds a lockfile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		st, err := lock.Inspect(target)
		if err != nil {
			fmtErr("inspect %s: %v", target, err)
			os.Exit(1)
		}

		var maxAge time.Duration
		if statusMaxAge != "" && !isUnsetToken(statusMaxAge) {
			maxAge, err = parseDurationToken("max-age", statusMaxAge)
			if err != nil {
				fmtErr("%v", err)
				os.Exit(exitUsage)
			}
		}

		if jsonOutput {
			outputJSON(map[string]any{
				"lockfile": target,
				"status":   st,
				"stale":    st.Stale(maxAge),
			})
			return
		}

		fmt.Printf("Lockfile: %s\n", target)
		if !st.Exists {
			fmt.Println("State: free")
			return
		}
		fmt.Println("State: held")
		fmt.Printf("  Age: %s\n", st.Age.Round(time.Second))
		if maxAge > 0 {
			fmt.Printf("  Stale: %v (max age %s)\n", st.Stale(maxAge), maxAge)
		}
		if st.Known {
			fmt.Printf("  Host: %s\n", st.Owner.Host)
			fmt.Printf("  PID: %d (parent %d)\n", st.Owner.PID, st.Owner.PPID)
			fmt.Printf("  Created: %s\n", st.Owner.Time.Format(time.RFC3339))
		} else {
			fmt.Println("  Owner: unknown (record unreadable)")
		}
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusMaxAge, "max-age", "", "report staleness against this age")
	rootCmd.AddCommand(statusCmd)
}
