package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"concourse-slack-notifier/src/config"
	"concourse-slack-notifier/src/contracts"
	"concourse-slack-notifier/src/message"
)

var (
	renderParamsFile string
	renderSourceFile string
	renderBuildDir   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the Slack payload a put would send",
	Long: `Render the Slack payload for put params without sending it.

Params (and optionally source) are read from files in the same YAML form
used in pipeline definitions; JSON works too. Build metadata comes from the
usual BUILD_* and ATC_EXTERNAL_URL environment variables.

Example:
  BUILD_PIPELINE_NAME=app BUILD_JOB_NAME=unit BUILD_NAME=7 \
    slack-notifier render --params params.yml --dir .`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := contracts.DefaultOutParams()
		if renderParamsFile != "" {
			if err := decodeYAMLFile(renderParamsFile, &params); err != nil {
				return err
			}
		}

		var source contracts.Source
		if renderSourceFile != "" {
			if err := decodeYAMLFile(renderSourceFile, &source); err != nil {
				return err
			}
		}

		meta, err := config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if source.ConcourseURL != nil {
			*meta = meta.WithATCURL(*source.ConcourseURL)
		}

		msg, err := message.Build(message.Input{
			Params:        params,
			Metadata:      *meta,
			BuildDir:      renderBuildDir,
			SourceChannel: source.Channel,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(msg)
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderParamsFile, "params", "", "YAML or JSON file with put params")
	renderCmd.Flags().StringVar(&renderSourceFile, "source", "", "YAML or JSON file with the resource source")
	renderCmd.Flags().StringVar(&renderBuildDir, "dir", ".", "directory message_file is relative to")
	rootCmd.AddCommand(renderCmd)
}

// decodeYAMLFile reads a YAML document and decodes it into v through JSON,
// so the JSON field names and defaults of contracts apply.
func decodeYAMLFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc == nil {
		return nil
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", path, err)
	}
	if err := json.Unmarshal(asJSON, v); err != nil {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	return nil
}
