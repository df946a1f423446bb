package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prabalesh/paneltop/internal/config"
	"github.com/prabalesh/paneltop/internal/logging"
)

var (
	cfgFile string
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "paneltop",
	Short: "Terminal dashboard for an app panel",
	Long: `paneltop polls a panel's status API and shows CPU, RAM, storage,
per-app disk usage and recent logs. Run "paneltop serve" on the panel host to
provide the API.`,
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.paneltop.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "write paneltop's own log here (the dashboard discards logs otherwise)")
	rootCmd.PersistentFlags().String("auth-secret", "", "HMAC secret for action tokens")

	rootCmd.PersistentFlags().StringP("url", "u", "http://127.0.0.1:8080", "status server base URL")
	rootCmd.PersistentFlags().Duration("interval", 0, "refresh interval (default 5s)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout (default 10s)")
	rootCmd.PersistentFlags().String("token", "", "bearer token sent with restart and clear-cache")

	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyLogOutput, rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag(config.KeyAuthSecret, rootCmd.PersistentFlags().Lookup("auth-secret"))
	viper.BindPFlag(config.KeyURL, rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag(config.KeyInterval, rootCmd.PersistentFlags().Lookup("interval"))
	viper.BindPFlag(config.KeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag(config.KeyToken, rootCmd.PersistentFlags().Lookup("token"))

	// PANELTOP_URL, PANELTOP_LOG_LEVEL, ...
	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".paneltop")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}
}

// newLogger builds the logger for a command, writing to fallback unless a
// log file is configured.
func newLogger(fallback io.Writer) (*slog.Logger, io.Closer, error) {
	logCfg := config.LoadLog(viper.GetViper())
	logger, closer, err := logging.New(logCfg.Level, logCfg.File, fallback)
	if err != nil {
		return nil, nil, err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", "path", used)
	}
	return logger, closer, nil
}
