// Package main provides the resource binary. Concourse runs it as
// /opt/resource/check, /opt/resource/in and /opt/resource/out, which are
// links to this binary; the link name picks the subcommand.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slack-notifier",
	Short: "Concourse resource posting build notifications to Slack",
	Long: `slack-notifier is a Concourse resource type that posts build
notifications to a Slack incoming webhook.

Concourse invokes it through /opt/resource/{check,in,out}. The request is
read from stdin and the response is written to stdout; logs go to stderr.

Use 'render' to preview the message a put would send.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.SetArgs(resolveArgs(os.Args))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveArgs maps an invocation as /opt/resource/out to "out".
func resolveArgs(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	switch name := filepath.Base(argv[0]); name {
	case "check", "in", "out":
		return append([]string{name}, argv[1:]...)
	}
	return argv[1:]
}
