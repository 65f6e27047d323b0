package main

import (
	"context"
	"strings"

	"placement-advisor/internal/common/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "advisorctl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "advisorctl runs placement predictions and inspects model artifacts offline",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	viper.SetEnvPrefix("ADVISOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("artifacts", "models", "artifact directory")
	rootCmd.PersistentFlags().String("manifest", "manifest.json", "manifest file name inside the artifact directory")
	rootCmd.PersistentFlags().Int("fallback-code", 0, "code for categorical values the label encoders have not seen")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	viper.BindPFlag("artifacts", rootCmd.PersistentFlags().Lookup("artifacts"))
	viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	viper.BindPFlag("fallback-code", rootCmd.PersistentFlags().Lookup("fallback-code"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func newLogger() logger.Logger {
	level := "warn"
	if viper.GetBool("debug") {
		level = "debug"
	}
	return logger.NewStructured(level, "console", "stderr")
}
