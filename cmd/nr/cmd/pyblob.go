package cmd

import (
	"bytes"

	"github.com/oneconcern/nr/pkg/pyblob"
	"github.com/spf13/cobra"
)

var pyBlobCmd = &cobra.Command{
	Use:   "py.blob FILES...",
	Short: "Pack Python modules into a self-contained script",
	Long: `Pack Python source files into a script which registers them as modules when executed.

Each file is embedded as a base64 blob, optionally compressed with zlib. The module
name is the base name of the file, or the name of its directory for __init__.py.`,
	Example: `% nr py.blob lib/helpers.py --export-symbol helpers -c -o build/bundle.py`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		files, err := canonicalAll(args)
		if err != nil {
			wrapFatalln("resolve python sources", err)
			return
		}
		sources, err := pyblob.LoadSources(appFs, files)
		if err != nil {
			wrapFatalln("load python sources", err)
			return
		}
		// scripts report the file names as given
		for i := range sources {
			sources[i].Path = args[i]
		}

		var buf bytes.Buffer
		if nrFlags.pyblob.blobOnly {
			for _, src := range sources {
				blob, err := pyblob.Encode(src.Data, nrFlags.pyblob.compress)
				if err != nil {
					wrapFatalln("encode "+src.Path, err)
					return
				}
				buf.WriteString(blob)
				buf.WriteByte('\n')
			}
		} else {
			err = pyblob.Render(&buf, sources, pyblob.Options{
				Compress:     nrFlags.pyblob.compress,
				ExportSymbol: nrFlags.pyblob.exportSymbol,
			})
			if err != nil {
				wrapFatalln("render script", err)
				return
			}
		}

		if nrFlags.pyblob.output == "" {
			printf(cmd, "%s", buf.String())
			return
		}
		if err := writeOutput(nrFlags.pyblob.output, buf.Bytes()); err != nil {
			wrapFatalln("write script", err)
		}
	},
}

func init() {
	addOutputFlag(pyBlobCmd, &nrFlags.pyblob.output, "Write the script to this file instead of stdout")
	addCompressFlag(pyBlobCmd)
	addExportSymbolFlag(pyBlobCmd)
	addBlobOnlyFlag(pyBlobCmd)
	rootCmd.AddCommand(pyBlobCmd)
}
