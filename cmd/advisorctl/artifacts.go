package main

import (
	"context"
	"fmt"

	"placement-advisor/internal/artifacts"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Inspect model artifacts",
}

var artifactsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Load the artifact set and report its shape",
	RunE: func(cmd *cobra.Command, _ []string) error {
		src := artifacts.NewDirSource(viper.GetString("artifacts"))
		b, err := loadBundle(cmd.Context(), src)
		if err != nil {
			return err
		}

		m := b.Manifest()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "source:        %s\n", src)
		fmt.Fprintf(out, "model version: %s\n", m.ModelVersion)
		if m.CreatedAt != "" {
			fmt.Fprintf(out, "created at:    %s\n", m.CreatedAt)
		}
		fmt.Fprintf(out, "columns:       %d\n", len(b.Columns()))
		fmt.Fprintf(out, "fallback code: %d\n", b.Encoder().FallbackCode())
		fmt.Fprintln(out, "status:        ok")
		return nil
	},
}

func init() {
	artifactsCmd.AddCommand(artifactsVerifyCmd)
	rootCmd.AddCommand(artifactsCmd)
}

func loadBundle(ctx context.Context, src artifacts.Source) (*artifacts.Bundle, error) {
	state := artifacts.NewState(src, artifacts.LoadOptions{
		ManifestFile: viper.GetString("manifest"),
		FallbackCode: viper.GetInt("fallback-code"),
	}, newLogger())
	if err := state.Load(ctx); err != nil {
		return nil, err
	}
	b, _ := state.Bundle()
	return b, nil
}
