package asm

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/larsbrinkhoff/pdp7-unix/pkg/as7"
	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	asmDebug    bool
	asmFormat   string
	asmNamelist bool
	asmOutput   string
)

// Colors for diagnostic output
var (
	// Hard errors
	colorError = color.New(color.FgRed, color.Bold)
	// Non-fatal warnings
	colorWarning = color.New(color.FgYellow)
)

// AsmCmd represents the asm command
var AsmCmd = &cobra.Command{
	Use:   "asm [flags] file...",
	Short: "Assemble PDP-7 Unix assembly sources",
	Long: `Assembles one or more source files written in Ken Thompson's PDP-7
assembly notation into an image of 18-bit memory words.

The assembler runs two passes over the input files, in the order given:
pass one collects labels, pass two reports diagnostics and writes memory.

Output formats:
  a7out  - Octal dump of every assembled cell with its source line (default)
  list   - Assembly listing with a label dump appended
  ptr    - Raw paper tape frames
  rim    - Paper tape frames for the hardware Read-In Mode loader

Examples:
  # Assemble to the default a.out
  as7 asm cold.s init.s

  # Produce a RIM loader tape
  as7 asm -f rim -o init.rim init.s

  # Write a listing together with a name-list side-car
  as7 asm -f list -n -o init.lst init.s`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAsm,
}

func init() {
	AsmCmd.Flags().BoolVarP(&asmDebug, "debug", "d", false, "Enable internal tracing")
	AsmCmd.Flags().StringVarP(&asmFormat, "format", "f", "a7out", "Output format: a7out, list, ptr, rim")
	AsmCmd.Flags().BoolVarP(&asmNamelist, "namelist", "n", false, "Additionally write a name-list file next to the output")
	AsmCmd.Flags().StringVarP(&asmOutput, "output", "o", "a.out", "Output file path")

	viper.BindPFlag("format", AsmCmd.Flags().Lookup("format"))
	viper.BindPFlag("output", AsmCmd.Flags().Lookup("output"))
}

func runAsm(cmd *cobra.Command, args []string) {
	format, err := as7.ParseFormat(viper.GetString("format"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files := make([]as7.SourceFile, 0, len(args))

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
			os.Exit(1)
		}

		src, err := as7.NewSourceFile(path, f)
		f.Close()

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		files = append(files, src)
	}

	outputPath := viper.GetString("output")

	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	defer out.Close()

	assembler := as7.NewAssembler()
	assembler.Trace(utils.NewTraceLogger(asmDebug))

	if format == as7.FormatList {
		assembler.Listing(out)
	}

	assembler.Assemble(files)

	diags := assembler.Diagnostics()
	for _, warning := range diags.Warnings {
		colorWarning.Fprintln(os.Stderr, warning.Error())
	}
	for _, failure := range diags.Errors {
		colorError.Fprintln(os.Stderr, failure.Error())
	}

	switch format {
	case as7.FormatA7Out:
		err = assembler.WriteA7Out(out)
	case as7.FormatPtr:
		err = assembler.WritePtr(out)
	case as7.FormatRim:
		err = assembler.WriteRim(out)
	case as7.FormatList:
		// Already streamed during pass two
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	if asmNamelist {
		if err := writeNamelist(assembler, outputPath+".nm"); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing name list: %v\n", err)
			os.Exit(1)
		}
	}

	if diags.HasDiagnostics() {
		os.Exit(1)
	}
}

// The name-list side-car reuses the label dumper
func writeNamelist(assembler *as7.Assembler, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return assembler.WriteLabels(f)
}
