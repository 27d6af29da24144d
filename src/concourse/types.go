package concourse

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Status is the state of a Concourse build as reported by the API.
type Status string

const (
	StatusStarted   Status = "started"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusErrored   Status = "errored"
	StatusAborted   Status = "aborted"
)

// Valid reports whether s is one of the known build states.
func (s Status) Valid() bool {
	switch s {
	case StatusStarted, StatusPending, StatusSucceeded, StatusFailed, StatusErrored, StatusAborted:
		return true
	}
	return false
}

// Build is the subset of the build API object the resource needs.
type Build struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Team     string `json:"team_name"`
	Pipeline string `json:"pipeline_name"`
	Job      string `json:"job_name"`
	APIURL   string `json:"api_url"`
}

// InstanceVars identify one instance of a templated pipeline. Values are
// arbitrary JSON.
type InstanceVars map[string]any

// ParseInstanceVars decodes the JSON object Concourse exposes in
// BUILD_PIPELINE_INSTANCE_VARS. Numbers keep their original text.
func ParseInstanceVars(raw string) (InstanceVars, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var vars InstanceVars
	if err := dec.Decode(&vars); err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return nil, nil
	}
	return vars, nil
}

// QueryValue is the JSON form of the vars used in the `vars` query
// parameter. Keys are sorted.
func (v InstanceVars) QueryValue() string {
	data, err := json.Marshal(map[string]any(v))
	if err != nil {
		return "{}"
	}
	return string(data)
}

// PreviousBuildNumber derives the number of the build that ran before the
// build named name. Rerun suffixes such as "6.1" are dropped, and names that
// are not numbers count as build 1. Build 0 never exists, so a first build
// yields 0.
func PreviousBuildNumber(name string) uint64 {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	n, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		n = 1
	}
	if n == 0 {
		return 0
	}
	return n - 1
}
