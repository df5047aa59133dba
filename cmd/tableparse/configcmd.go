package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tableparse-go/internal/config"
)

var configInitOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the tableparse configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the active configuration to a file",
	Long: `init writes the configuration the tool is currently running with,
defaults merged with any loaded file and environment overrides, so it
can be inspected and edited.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitOut, "output", "o", "", "target file (default ~/.tableparse/config.yaml)")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	c := cfg
	if c == nil {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		c = loaded
	}
	if err := config.Save(c, configInitOut); err != nil {
		return err
	}
	target := configInitOut
	if target == "" {
		target = "~/.tableparse/config.yaml"
	}
	fmt.Println("wrote", target)
	return nil
}
