package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"concourse-slack-notifier/src/config"
	"concourse-slack-notifier/src/contracts"
	"concourse-slack-notifier/src/resource"
)

// newResource wires the notifier for the build in the environment.
var newResource = func() (resource.Resource, error) {
	meta, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	return resource.NewNotifier(*meta), nil
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report new versions (always none)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req contracts.CheckRequest
		return runStep(cmd, &req, func(ctx context.Context, r resource.Resource) (any, error) {
			return r.Check(ctx, req)
		})
	},
}

var inCmd = &cobra.Command{
	Use:   "in <destination>",
	Short: "Fetch a version (echoes it back)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req contracts.InRequest
		return runStep(cmd, &req, func(ctx context.Context, r resource.Resource) (any, error) {
			return r.In(ctx, req, args[0])
		})
	},
}

var outCmd = &cobra.Command{
	Use:   "out <build-dir>",
	Short: "Send a notification for the current build",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req contracts.OutRequest
		return runStep(cmd, &req, func(ctx context.Context, r resource.Resource) (any, error) {
			return r.Out(ctx, req, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd, inCmd, outCmd)
}

// runStep decodes the request from stdin into req, runs step and writes its
// response to stdout.
func runStep(cmd *cobra.Command, req any, step func(context.Context, resource.Resource) (any, error)) error {
	if err := decodeRequest(cmd.InOrStdin(), req); err != nil {
		return err
	}

	r, err := newResource()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	resp, err := step(ctx, r)
	if err != nil {
		return resource.WrapError(err)
	}
	return writeResponse(cmd.OutOrStdout(), resp)
}

func decodeRequest(r io.Reader, req any) error {
	if err := json.NewDecoder(r).Decode(req); err != nil {
		return fmt.Errorf("invalid request on stdin: %w", err)
	}
	return nil
}

func writeResponse(w io.Writer, resp any) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
