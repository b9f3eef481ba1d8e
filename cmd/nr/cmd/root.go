// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/oneconcern/nr/pkg/dlogger"
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nr",
	Short: "nr is a toolbox for everyday project chores",
	Long: `nr bundles small tools that come handy when maintaining projects.

It builds source archives honoring .gitignore files, grabs license texts,
sums JIRA work logs, packs Python modules into a single script and bumps
version numbers wherever they are written.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := nrFlags.root.logLevel
		if level == "" && config != nil {
			level = config.LogLevel
		}
		l, err := dlogger.GetLogger(level)
		if err != nil {
			wrapFatalln("invalid log level", err)
			return
		}
		logger = l
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var (
	config *CLIConfig

	logger = zap.NewNop()

	// filesystem used by all commands, patched in tests
	appFs afero.Fs = afero.NewOsFs()
	paths          = fs.New(appFs)
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("author", "")
	viper.SetDefault("email", "")
	viper.SetDefault("loglevel", dlogger.LogLevelWarn)
	viper.SetDefault("jira.hoursPerDay", 8)
	viper.SetDefault("jira.daysPerWeek", 5)
	if os.Getenv("NR_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("NR_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.nr")
		viper.AddConfigPath("/etc/nr")
		viper.SetConfigName("nr")
	}

	viper.SetEnvPrefix("nr")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.SetOutput(os.Stderr)
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
}
