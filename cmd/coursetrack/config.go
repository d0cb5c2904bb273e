// ABOUTME: Config and version commands.
// ABOUTME: Show the effective configuration or write a starter file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/coursetrack/internal/config"
	"github.com/harper/coursetrack/internal/ui"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show effective configuration",
	Long:        `Print the configuration after the config file and COURSETRACK_* environment variables are applied.`,
	Annotations: map[string]string{annotationConfigOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.S3SecretKey != "" {
			shown.S3SecretKey = "********"
		}
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default config file",
	Annotations: map[string]string{annotationConfigOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.Path()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.Success("Wrote " + path))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationConfigOnly: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coursetrack %s (%s, %s)\n", version, commit, date)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
