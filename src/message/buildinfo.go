package message

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"concourse-slack-notifier/src/concourse"
	"concourse-slack-notifier/src/config"
)

const (
	unknownJob         = "unknown job"
	unknownBuild       = "unknown build"
	unknownBuildNumber = "unknown build number"
)

// BuildInfo holds the labels and link describing a build.
type BuildInfo struct {
	// JobName is "pipeline/job", with instance vars after the pipeline.
	JobName string
	// BuildName is JobName followed by " #n".
	BuildName string
	// BuildNumber is "#n".
	BuildNumber string
	// URL links to the build page; empty for builds outside a job.
	URL string
}

// FormatBuildInfo describes the build identified by meta.
func FormatBuildInfo(meta config.BuildMetadata) BuildInfo {
	if meta.PipelineName == "" || meta.JobName == "" || meta.Name == "" {
		return BuildInfo{
			JobName:     unknownJob,
			BuildName:   unknownBuild,
			BuildNumber: unknownBuildNumber,
		}
	}

	jobName := PipelineRef(meta.PipelineName, meta.InstanceVars) + "/" + meta.JobName
	return BuildInfo{
		JobName:     jobName,
		BuildName:   fmt.Sprintf("%s #%s", jobName, meta.Name),
		BuildNumber: "#" + meta.Name,
		URL:         buildURL(meta),
	}
}

// PipelineRef renders a pipeline name the way Concourse shows instanced
// pipelines: "name/k1:v1,k2:v2" with keys sorted and values as JSON.
func PipelineRef(pipeline string, vars concourse.InstanceVars) string {
	if len(vars) == 0 {
		return pipeline
	}
	return pipeline + "/" + FormatInstanceVars(vars)
}

// FormatInstanceVars renders vars as "k1:v1,k2:v2", sorted by key.
func FormatInstanceVars(vars concourse.InstanceVars) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := json.Marshal(vars[k])
		if err != nil {
			v = []byte("null")
		}
		parts = append(parts, k+":"+string(v))
	}
	return strings.Join(parts, ",")
}

func buildURL(meta config.BuildMetadata) string {
	u := fmt.Sprintf("%s/teams/%s/pipelines/%s/jobs/%s/builds/%s",
		strings.TrimSuffix(meta.ATCExternalURL, "/"),
		url.PathEscape(meta.TeamName),
		url.PathEscape(meta.PipelineName),
		url.PathEscape(meta.JobName),
		url.PathEscape(meta.Name),
	)
	if len(meta.InstanceVars) > 0 {
		u += "?vars=" + url.QueryEscape(meta.InstanceVars.QueryValue())
	}
	return u
}
