package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v2"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// names of fields are kept the same as the serialized names, for viper
	Author   string     `json:"author" yaml:"author"`     // Default author of licenses
	Email    string     `json:"email" yaml:"email"`       // Email of the author
	LogLevel string     `json:"loglevel" yaml:"loglevel"` // Default log level
	Jira     JiraConfig `json:"jira" yaml:"jira"`
}

// JiraConfig sets how JIRA durations are converted
type JiraConfig struct {
	HoursPerDay float64 `json:"hoursPerDay" yaml:"hoursPerDay"`
	DaysPerWeek float64 `json:"daysPerWeek" yaml:"daysPerWeek"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the nr config",
	Long: `Commands to manage the nr CLI config.

The configuration is read from the file set by the NR_CONFIG environment variable,
or from nr.yaml in the current directory, $HOME/.nr or /etc/nr.
Every setting may be overridden with an environment variable, e.g. NR_AUTHOR or NR_JIRA_HOURSPERDAY.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		b, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("marshal config", err)
			return
		}
		if used := viper.ConfigFileUsed(); used != "" {
			printf(cmd, "# %s\n", used)
		}
		printf(cmd, "%s", b)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
