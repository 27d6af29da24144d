// Package contracts defines the data exchanged with Concourse: resource
// source and params, versions and metadata.
package contracts

import (
	"encoding/json"
	"fmt"
)

// AlertType selects the palette, the title and whether the previous build
// is consulted before sending.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertFailed  AlertType = "failed"
	AlertStarted AlertType = "started"
	AlertAborted AlertType = "aborted"
	AlertErrored AlertType = "errored"
	AlertFixed   AlertType = "fixed"
	AlertBroke   AlertType = "broke"
	AlertCustom  AlertType = "custom"
)

// AlertTypes lists every alert type.
var AlertTypes = []AlertType{
	AlertSuccess, AlertFailed, AlertStarted, AlertAborted,
	AlertErrored, AlertFixed, AlertBroke, AlertCustom,
}

var alertLabels = map[AlertType]string{
	AlertSuccess: "Success",
	AlertFailed:  "Failed",
	AlertStarted: "Started",
	AlertAborted: "Aborted",
	AlertErrored: "Errored",
	AlertFixed:   "Fixed",
	AlertBroke:   "Broke",
	AlertCustom:  "Custom",
}

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	_, ok := alertLabels[t]
	return ok
}

// Label is the human readable name used in message titles.
func (t AlertType) Label() string {
	return alertLabels[t]
}

func (t *AlertType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = AlertCustom
		return nil
	}
	v := AlertType(s)
	if !v.Valid() {
		return fmt.Errorf("unknown alert_type %q", s)
	}
	*t = v
	return nil
}

// Mode controls how much of the build is spelled out in the message.
type Mode string

const (
	// ModeConcise shows only the message text, or the build when there is
	// none.
	ModeConcise Mode = "concise"
	// ModeNormal titles the message with build and alert type.
	ModeNormal Mode = "normal"
	// ModeNormalWithInfo adds Job and Build fields to ModeNormal.
	ModeNormalWithInfo Mode = "normal_with_info"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeConcise, ModeNormal, ModeNormalWithInfo:
		return true
	}
	return false
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = ModeNormalWithInfo
		return nil
	}
	v := Mode(s)
	if !v.Valid() {
		return fmt.Errorf("unknown mode %q", s)
	}
	*m = v
	return nil
}

// OutParams are the put step params.
type OutParams struct {
	// Type of alert; defaults to custom.
	AlertType AlertType `json:"alert_type"`
	// Colour override as six hex digits, with or without a leading '#'.
	Color *string `json:"color,omitempty"`
	// Rendering mode; defaults to normal_with_info.
	Mode Mode `json:"mode"`
	// Inline message text.
	Message *string `json:"message,omitempty"`
	// Path of a file holding the message, relative to the build directory.
	MessageFile *string `json:"message_file,omitempty"`
	// Fail the step instead of sending a placeholder when MessageFile
	// cannot be read.
	FailIfMessageFileMissing bool `json:"fail_if_message_file_missing"`
	// Render the message as a code block.
	MessageAsCode bool `json:"message_as_code"`
	// Channel override.
	Channel *string `json:"channel,omitempty"`
	// Skip sending entirely.
	Disabled bool `json:"disabled"`
}

// DefaultOutParams returns the params used when the put step has none.
func DefaultOutParams() OutParams {
	return OutParams{
		AlertType: AlertCustom,
		Mode:      ModeNormalWithInfo,
	}
}

func (p *OutParams) UnmarshalJSON(data []byte) error {
	type plain OutParams
	out := plain(DefaultOutParams())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = OutParams(out)
	return nil
}

// ClientCert is a PEM encoded client certificate and key.
type ClientCert struct {
	Cert string `json:"cert"`
	Key  string `json:"key"`
}

// Source is the resource configuration from the pipeline.
type Source struct {
	// Slack incoming webhook URL.
	URL string `json:"url"`
	// Default channel when params carry none.
	Channel *string `json:"channel,omitempty"`
	// Concourse URL to use instead of ATC_EXTERNAL_URL.
	ConcourseURL *string `json:"concourse_url,omitempty"`
	// Credentials for looking up previous builds of private pipelines.
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	// Skip TLS validation when talking to Concourse.
	IgnoreSSL bool `json:"ignore_ssl"`
	// Extra CA bundle (PEM) trusted when talking to Concourse.
	CACert *string `json:"ca_cert,omitempty"`
	// Client certificate presented to Concourse.
	ClientCert *ClientCert `json:"client_cert,omitempty"`
	// Disable every put of this resource.
	Disabled bool `json:"disabled"`
	// Log debug output to the build log.
	Debug bool `json:"debug"`
}
