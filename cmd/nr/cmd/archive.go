package cmd

import (
	"context"
	"time"

	units "github.com/docker/go-units"
	"github.com/oneconcern/nr/pkg/archive"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive SOURCES... -o OUTPUT",
	Short: "Create an archive of files and directories",
	Long: `Create a tar, compressed tar or zip archive of files and directories.

Every source is stored under its base name. The format is inferred from the
name of the output unless --format is set: .tar, .tar.gz or .tgz, .tar.zst or .tzst, .zip.

The archive is written to a temporary file and only replaces OUTPUT once complete.`,
	Example: `% nr archive src README.md -o dist/release.tar.gz --gitignore --prefix release-1.0
dist/release.tar.gz: 42 files, 3 directories, 1.2MB archived in 310kB`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if nrFlags.archive.output == "" {
			wrapFatalln("an output file is required (--output)", nil)
			return
		}
		a := archive.New(appFs, archive.WithPaths(paths), archive.WithLogger(logger))
		summary, err := a.Create(context.Background(), nrFlags.archive.output, args, archive.Options{
			Format:    nrFlags.archive.format,
			Prefix:    nrFlags.archive.prefix,
			Excludes:  nrFlags.archive.excludes,
			Gitignore: nrFlags.archive.gitignore,
			Checksum:  nrFlags.archive.checksum,
		})
		if err != nil {
			wrapFatalln("create archive", err)
			return
		}
		printf(cmd, "%s: %d files, %d directories, %s archived in %s (%s)\n",
			nrFlags.archive.output, summary.Files, summary.Dirs,
			units.HumanSize(float64(summary.Size)), units.HumanSize(float64(summary.Written)),
			summary.Duration.Round(time.Millisecond),
		)
		if nrFlags.archive.checksum {
			printf(cmd, "%s  %s\n", summary.Checksum, nrFlags.archive.output)
		}
	},
}

func init() {
	addOutputFlag(archiveCmd, &nrFlags.archive.output, "The archive to create")
	addArchiveFormatFlag(archiveCmd)
	addArchivePrefixFlag(archiveCmd)
	addArchiveExcludeFlag(archiveCmd)
	addArchiveGitignoreFlag(archiveCmd)
	addArchiveChecksumFlag(archiveCmd)
	rootCmd.AddCommand(archiveCmd)
}
