package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linklock-project/linklock/internal/doctor"
	"github.com/linklock-project/linklock/pkg/color"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Check that a directory can host NFS-safe lockfiles",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		result, err := doctor.NewDoctor(dir).Check()
		if err != nil {
			fmtErr("doctor: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(result)
		} else if result.Healthy {
			fmt.Printf("%s %s can host lockfiles\n", color.Success("ok:"), dir)
		} else {
			for _, f := range result.Findings {
				fmt.Printf("%s [%s] %s\n", color.Error("fail:"), f.Category, f.Description)
			}
		}

		if !result.Healthy {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
