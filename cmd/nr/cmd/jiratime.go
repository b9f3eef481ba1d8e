package cmd

import (
	"io"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/oneconcern/nr/pkg/jiratime"
	"github.com/spf13/cobra"
)

var jiraTimeCmd = &cobra.Command{
	Use:   "jiratime [FILE]",
	Short: "Sum work log durations written in JIRA notation",
	Long: `Sum work log durations written in JIRA notation, such as "1w 2d 3h 30m".

Each line of FILE (or stdin, when FILE is omitted or "-") holds one duration,
optionally prefixed by a label and a colon. Text after "#" is ignored.
Durations are summed per label, then overall.`,
	Example: `% printf 'review: 2h 30m\nreview: 45m\ndev: 1d\n' | nr jiratime
LABEL   TIME     HOURS
review  3h 15m   3.25
dev     1d       8
TOTAL   1d 3h 15m 11.25`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			file, err := paths.Canonical(args[0], "")
			if err != nil {
				wrapFatalln("resolve work log", err)
				return
			}
			f, err := appFs.Open(file)
			if err != nil {
				wrapFatalln("open work log", err)
				return
			}
			defer f.Close()
			in = f
		}

		report, err := jiratime.Parse(in, jiraConfig())
		if err != nil {
			wrapFatalln("parse work log", err)
			return
		}

		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow(colorHeader.Sprint("LABEL"), colorHeader.Sprint("TIME"), colorHeader.Sprint("HOURS"))
		for _, label := range report.Labels {
			minutes := report.Totals[label]
			name := label
			if name == "" {
				name = "-"
			}
			table.AddRow(name, report.Config.Format(minutes), formatHours(minutes))
		}
		table.AddRow(colorHeader.Sprint("TOTAL"), report.Config.Format(report.Total), formatHours(report.Total))
		outln(cmd, table)
	},
}

func jiraConfig() jiratime.Config {
	cfg := jiratime.DefaultConfig()
	if config != nil {
		if config.Jira.HoursPerDay > 0 {
			cfg.HoursPerDay = config.Jira.HoursPerDay
		}
		if config.Jira.DaysPerWeek > 0 {
			cfg.DaysPerWeek = config.Jira.DaysPerWeek
		}
	}
	if nrFlags.jira.hoursPerDay > 0 {
		cfg.HoursPerDay = nrFlags.jira.hoursPerDay
	}
	if nrFlags.jira.daysPerWeek > 0 {
		cfg.DaysPerWeek = nrFlags.jira.daysPerWeek
	}
	return cfg
}

func formatHours(minutes float64) string {
	return strconv.FormatFloat(jiratime.Hours(minutes), 'f', -1, 64)
}

func init() {
	addHoursPerDayFlag(jiraTimeCmd)
	addDaysPerWeekFlag(jiraTimeCmd)
	rootCmd.AddCommand(jiraTimeCmd)
}
