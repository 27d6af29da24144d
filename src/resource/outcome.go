package resource

import (
	"strconv"

	"concourse-slack-notifier/src/contracts"
	"concourse-slack-notifier/src/sanitize"
)

// summaryErrorWidth bounds the error part of the version summary.
const summaryErrorWidth = 80

// Outcome is the result of one put.
type Outcome struct {
	Sent      bool
	Channel   *string
	AlertType contracts.AlertType
	Err       error
}

// Summary is a short sentence describing the outcome, used as the version.
func (o Outcome) Summary() string {
	alert := string(o.AlertType)
	if alert == "" {
		alert = string(contracts.AlertCustom)
	}

	switch {
	case o.Err != nil:
		return alert + " alert not sent: " + sanitize.Truncate(sanitize.SingleLine(o.Err.Error()), summaryErrorWidth)
	case !o.Sent:
		return alert + " alert not sent"
	case o.Channel != nil:
		return alert + " alert sent to " + *o.Channel
	default:
		return alert + " alert sent"
	}
}

// Version wraps Summary in a resource version.
func (o Outcome) Version() contracts.Version {
	return contracts.Version{Status: o.Summary()}
}

// Metadata lists the outcome as name/value pairs.
func (o Outcome) Metadata() []contracts.MetadataField {
	fields := []contracts.MetadataField{
		{Name: "sent", Value: strconv.FormatBool(o.Sent)},
	}
	if o.Channel != nil {
		fields = append(fields, contracts.MetadataField{Name: "channel", Value: *o.Channel})
	}
	if o.AlertType != "" {
		fields = append(fields, contracts.MetadataField{Name: "alert_type", Value: string(o.AlertType)})
	}
	if o.Err != nil {
		fields = append(fields, contracts.MetadataField{Name: "error", Value: o.Err.Error()})
	}
	return fields
}
