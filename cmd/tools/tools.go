package tools

import (
	"github.com/spf13/cobra"
)

// ToolsCmd groups the inspection subcommands of the as7 toolchain. They
// expose the assembler's built-in tables without running an assembly.
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the assembler's built-in tables",
}
