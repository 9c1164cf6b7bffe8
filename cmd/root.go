package cmd

import (
	"fmt"
	"os"

	"github.com/larsbrinkhoff/pdp7-unix/cmd/asm"
	"github.com/larsbrinkhoff/pdp7-unix/cmd/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "as7",
	Short: "An assembler for PDP-7 Unix",
	Long: `as7 is a two-pass assembler for Ken Thompson's PDP-7 assembly notation,
the dialect the first edition of Unix was written in.

This CLI is the entry point for the as7 toolchain, providing access to the assembler and tools`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(asm.AsmCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use the config file path held in cfgFile.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".as7" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".as7")
	}

	viper.SetDefault("format", "a7out")
	viper.SetDefault("output", "a.out")

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
