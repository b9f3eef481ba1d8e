package cmd

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oneconcern/nr/pkg/license"
	"github.com/spf13/cobra"
)

var grabLicenseCmd = &cobra.Command{
	Use:   "grablicense NAME",
	Short: "Print the text of an open source license",
	Long: `Print the text of an open source license, with the copyright year and holder filled in.

Available licenses: ` + strings.Join(license.Names(), ", ") + `.
Aliases such as "apache" or "bsd" are accepted.`,
	Example: `% nr grablicense mit --author "Jane Doe" -o LICENSE.txt`,
	Args: func(cmd *cobra.Command, args []string) error {
		if nrFlags.license.list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if nrFlags.license.list {
			for _, name := range license.Names() {
				outln(cmd, name)
			}
			return
		}

		info := license.Info{
			Author: licenseAuthor(),
			Year:   nrFlags.license.year,
		}
		if info.Year == "" {
			info.Year = strconv.Itoa(time.Now().Year())
		}
		var buf bytes.Buffer
		if err := license.Render(&buf, args[0], info); err != nil {
			wrapFatalln("render license", err)
			return
		}

		if nrFlags.license.output == "" {
			printf(cmd, "%s", buf.String())
			return
		}
		if err := writeOutput(nrFlags.license.output, buf.Bytes()); err != nil {
			wrapFatalln("write license", err)
			return
		}
		logger.Info("license written")
	},
}

func licenseAuthor() string {
	switch {
	case nrFlags.license.author != "":
		return nrFlags.license.author
	case config != nil && config.Author != "":
		if config.Email != "" {
			return config.Author + " <" + config.Email + ">"
		}
		return config.Author
	default:
		return os.Getenv("USER")
	}
}

func init() {
	addLicenseAuthorFlag(grabLicenseCmd)
	addLicenseYearFlag(grabLicenseCmd)
	addLicenseListFlag(grabLicenseCmd)
	addOutputFlag(grabLicenseCmd, &nrFlags.license.output, "Write the license to this file instead of stdout")
	rootCmd.AddCommand(grabLicenseCmd)
}
