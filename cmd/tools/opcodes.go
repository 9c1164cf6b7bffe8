package tools

import (
	"fmt"
	"io"
	"os"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/as7"
	"github.com/spf13/cobra"
)

var (
	opcodesGroup  string
	opcodesOutput string
)

var opcodesCmd = &cobra.Command{
	Use:   "opcodes",
	Short: "List the assembler's predefined mnemonics",
	Long: `Lists every mnemonic the assembler preloads into its variable table,
together with the 18-bit word constant each one evaluates to.

The listing can be restricted to a single group:
  syscall  - system call numbers
  memory   - memory reference instructions
  eae      - extended arithmetic element instructions
  operate  - operate group microinstructions

Examples:
  # Dump the whole table
  as7 tools opcodes

  # Only the EAE instructions, into a file
  as7 tools opcodes -g eae -o eae.txt`,
	Args: cobra.NoArgs,
	RunE: runOpcodes,
}

func init() {
	ToolsCmd.AddCommand(opcodesCmd)
	opcodesCmd.Flags().StringVarP(&opcodesGroup, "group", "g", "", "Only list mnemonics of this group")
	opcodesCmd.Flags().StringVarP(&opcodesOutput, "output", "o", "", "Output file. If omitted, the table is dumped to stdout")
}

func runOpcodes(cmd *cobra.Command, args []string) error {
	out := io.Writer(os.Stdout)

	if opcodesOutput != "" {
		file, err := os.Create(opcodesOutput)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if opcodesGroup == "" {
		_, err := fmt.Fprint(out, as7.SeedDocumentation())
		return err
	}

	group, err := as7.ParseOpGroup(opcodesGroup)
	if err != nil {
		return err
	}

	for _, descriptor := range as7.OpcodesInGroup(group) {
		if _, err := fmt.Fprintln(out, descriptor); err != nil {
			return err
		}
	}

	return nil
}
