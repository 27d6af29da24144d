// Package decision decides whether a put should send its notification.
package decision

import (
	"context"

	"concourse-slack-notifier/src/concourse"
	"concourse-slack-notifier/src/config"
	"concourse-slack-notifier/src/contracts"
)

// StatusFetcher looks up the status of a job build.
// *concourse.Client implements it.
type StatusFetcher interface {
	BuildStatus(ctx context.Context, team, pipeline string, vars concourse.InstanceVars, job string, number uint64) (concourse.Status, bool)
}

// Factory returns a ready to use StatusFetcher. It is only called when the
// previous build has to be consulted, so authentication happens lazily.
type Factory func(ctx context.Context) StatusFetcher

// Request describes one put.
type Request struct {
	AlertType      contracts.AlertType
	SourceDisabled bool
	ParamsDisabled bool
	Metadata       config.BuildMetadata
}

// ShouldNotify reports whether the notification for req must be sent.
//
// Broke and fixed alerts depend on the previous build of the job: broke
// fires only after a success, fixed only after a known non-success. When the
// previous status cannot be determined neither fires.
func ShouldNotify(ctx context.Context, req Request, factory Factory) bool {
	if req.SourceDisabled || req.ParamsDisabled {
		return false
	}

	switch req.AlertType {
	case contracts.AlertBroke, contracts.AlertFixed:
	default:
		return true
	}

	status, ok := PreviousStatus(ctx, req.Metadata, factory)
	if !ok {
		return false
	}

	if req.AlertType == contracts.AlertBroke {
		return status == concourse.StatusSucceeded
	}
	return status != concourse.StatusSucceeded
}

// PreviousStatus fetches the status of the build before the current one.
func PreviousStatus(ctx context.Context, meta config.BuildMetadata, factory Factory) (concourse.Status, bool) {
	if factory == nil {
		return "", false
	}
	fetcher := factory(ctx)
	if fetcher == nil {
		return "", false
	}
	return fetcher.BuildStatus(ctx,
		meta.TeamName,
		meta.PipelineName,
		meta.InstanceVars,
		meta.JobName,
		concourse.PreviousBuildNumber(meta.Name),
	)
}
