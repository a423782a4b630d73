// Package commands implements the CLI commands for ecourts.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/ecourts/internal/config"
	"github.com/jmylchreest/ecourts/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ecourts",
	Short: "Fetch case status and hearing listings from the eCourts portal",
	Long: `ecourts looks up a case on the eCourts case-status portal by its CNR,
waits for you to solve the CAPTCHA in the browser window, and prints the
case details. It can also report whether the case is on today's or
tomorrow's cause list.

Examples:
  ecourts search --cnr MHAU019999992015 --today
  ecourts search --cnr MHAU019999992015 --save --format yaml
  ecourts search --case-type CS --case-number 123 --year 2015
  ecourts causelist --date 18-10-2026 --save
  ecourts show search_CNR_MHAU019999992015_20261018_140509`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.ecourts.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("log-json", false, "write logs as JSON")
	flags.String("data-dir", "", "directory for saved results (default data/json)")
	flags.String("causelist-url", "", "cause list page used for listing checks")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = viper.BindPFlag("causelist_url", flags.Lookup("causelist-url"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".ecourts")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig resolves the configuration and initialises logging from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	logger.Init(logger.Options{
		Debug: cfg.Debug,
		Quiet: cfg.Quiet,
		JSON:  cfg.LogJSON,
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
