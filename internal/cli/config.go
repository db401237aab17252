package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linklock-project/linklock/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI default options",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]any{"path": path, "config": cfg})
			return
		}
		fmt.Printf("Config file: %s\n", path)
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmtErr("marshal config: %v", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an empty config file to edit",
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if path == "" {
			fmtErr("cannot determine config path; pass --config")
			os.Exit(1)
		}
		if _, err := os.Stat(path); err == nil {
			fmtErr("config file already exists: %s", path)
			os.Exit(1)
		}
		if err := config.Save(path, &config.Config{}); err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
