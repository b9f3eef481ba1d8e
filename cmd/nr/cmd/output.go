package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorIgnored  = color.New(color.FgRed)
	colorIncluded = color.New(color.FgGreen)
	colorRemoved  = color.New(color.FgRed)
	colorAdded    = color.New(color.FgGreen)
	colorHeader   = color.New(color.Bold)
)

// printf writes to the output of the command, which tests may capture
func printf(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func outln(cmd *cobra.Command, args ...interface{}) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), args...)
}

// canonicalAll resolves paths given on the command line
func canonicalAll(args []string) ([]string, error) {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		p, err := paths.Canonical(arg, "")
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

// writeOutput replaces the content of the file named by an --output flag
func writeOutput(output string, data []byte) error {
	target, err := paths.Canonical(output, "")
	if err != nil {
		return err
	}
	return paths.WriteFileAtomic(target, data, 0o644)
}
