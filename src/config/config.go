// Package config loads the build metadata Concourse exposes to resources.
package config

import (
	"fmt"
	"os"

	"concourse-slack-notifier/src/concourse"
)

// Environment variables set by Concourse for every resource step.
const (
	EnvBuildID           = "BUILD_ID"
	EnvBuildName         = "BUILD_NAME"
	EnvBuildJobName      = "BUILD_JOB_NAME"
	EnvBuildPipelineName = "BUILD_PIPELINE_NAME"
	EnvBuildInstanceVars = "BUILD_PIPELINE_INSTANCE_VARS"
	EnvBuildTeamName     = "BUILD_TEAM_NAME"
	EnvATCExternalURL    = "ATC_EXTERNAL_URL"
)

// BuildMetadata identifies the build running the resource step.
// Pipeline, job and build name are empty for one-off builds.
type BuildMetadata struct {
	ID             string
	Name           string
	JobName        string
	PipelineName   string
	InstanceVars   concourse.InstanceVars
	TeamName       string
	ATCExternalURL string
}

// LoadFromEnv loads build metadata from the process environment.
func LoadFromEnv() (*BuildMetadata, error) {
	return Load(os.Getenv)
}

// Load loads build metadata through getenv.
func Load(getenv func(string) string) (*BuildMetadata, error) {
	vars, err := concourse.ParseInstanceVars(getenv(EnvBuildInstanceVars))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvBuildInstanceVars, err)
	}

	return &BuildMetadata{
		ID:             getenv(EnvBuildID),
		Name:           getenv(EnvBuildName),
		JobName:        getenv(EnvBuildJobName),
		PipelineName:   getenv(EnvBuildPipelineName),
		InstanceVars:   vars,
		TeamName:       getenv(EnvBuildTeamName),
		ATCExternalURL: getenv(EnvATCExternalURL),
	}, nil
}

// WithATCURL returns a copy of m pointing at a different Concourse URL.
// An empty url leaves m unchanged.
func (m BuildMetadata) WithATCURL(url string) BuildMetadata {
	if url != "" {
		m.ATCExternalURL = url
	}
	return m
}
