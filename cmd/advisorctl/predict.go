package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"placement-advisor/internal/artifacts"
	"placement-advisor/internal/common/validation"
	"placement-advisor/internal/models"
	"placement-advisor/internal/predictor"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one profile file (JSON or YAML) and print the prediction",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("profile")
		profile, err := readProfile(path)
		if err != nil {
			return err
		}

		b, err := loadBundle(cmd.Context(), artifacts.NewDirSource(viper.GetString("artifacts")))
		if err != nil {
			return err
		}

		resp, err := predictor.Run(b, profile)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(resp)
	},
}

func init() {
	predictCmd.Flags().StringP("profile", "p", "", "profile file, .json or .yaml")
	predictCmd.Flags().Bool("pretty", false, "indent the JSON output")
	_ = predictCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(predictCmd)
}

// readProfile decodes and validates a profile. YAML profiles are checked
// against the same schema as JSON ones.
func readProfile(path string) (*models.Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var p models.Profile
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parse profile: %w", err)
		}
		if err := validation.ValidateProfile(&p); err != nil {
			return nil, err
		}
		return &p, nil
	default:
		return validation.ValidateProfileJSON(raw)
	}
}
