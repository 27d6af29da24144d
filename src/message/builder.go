// Package message turns put params and build metadata into a Slack message.
package message

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"concourse-slack-notifier/src/config"
	"concourse-slack-notifier/src/contracts"
	"concourse-slack-notifier/src/sanitize"
	"concourse-slack-notifier/src/slack"
)

var ErrMessageFileMissing = errors.New("message file could not be read")

// Input is everything the builder needs for one message.
type Input struct {
	Params   contracts.OutParams
	Metadata config.BuildMetadata
	// BuildDir is the directory message files are relative to.
	BuildDir string
	// SourceChannel is the channel configured on the resource.
	SourceChannel *string
}

// ResolveChannel picks the params channel, then the source channel.
func ResolveChannel(params, source *string) *string {
	if params != nil && *params != "" {
		return params
	}
	if source != nil && *source != "" {
		return source
	}
	return nil
}

// Build renders the message described by in. The only error is
// ErrMessageFileMissing, when the params demand it.
func Build(in Input) (slack.Message, error) {
	params := in.Params
	style := StyleFor(params.AlertType, params.Color)

	text, err := ResolveText(params, in.BuildDir)
	if err != nil {
		return slack.Message{}, err
	}

	info := FormatBuildInfo(in.Metadata)

	att := slack.Attachment{
		Color:      style.Color,
		Footer:     info.URL,
		FooterIcon: style.IconURL,
		AuthorLink: info.URL,
		MrkdwnIn:   []string{"text", "fields"},
	}

	switch params.Mode {
	case contracts.ModeConcise:
		att.AuthorName = info.BuildName
		if text != "" {
			att.AuthorName = text
		}
	case contracts.ModeNormal:
		att.AuthorName = fmt.Sprintf("%s - %s", info.BuildName, params.AlertType.Label())
		att.Text = text
	default:
		att.AuthorName = fmt.Sprintf("%s - %s", info.BuildName, params.AlertType.Label())
		att.Text = text
		att.Fields = []slack.Field{
			{Title: "Job", Value: info.JobName, Short: true},
			{Title: "Build", Value: info.BuildNumber, Short: true},
		}
	}

	return slack.Message{
		Channel:     ResolveChannel(params.Channel, in.SourceChannel),
		Attachments: []slack.Attachment{att},
	}, nil
}

// ResolveText works out the message body. An empty result means no body.
//
// A message file wins over inline text, which is used when the file cannot
// be read. Without inline text an unreadable file either fails or is
// replaced by a placeholder naming it.
func ResolveText(params contracts.OutParams, buildDir string) (string, error) {
	var text string

	switch {
	case params.MessageFile != nil:
		content, err := readMessageFile(buildDir, *params.MessageFile)
		switch {
		case err == nil:
			text = content
		case params.Message != nil:
			text = *params.Message
		case params.FailIfMessageFileMissing:
			return "", fmt.Errorf("%w: %s: %v", ErrMessageFileMissing, *params.MessageFile, err)
		default:
			text = fmt.Sprintf("error reading message file %q", *params.MessageFile)
		}
	case params.Message != nil:
		text = *params.Message
	}

	if text != "" && params.MessageAsCode {
		text = "```" + text + "```"
	}
	return text, nil
}

func readMessageFile(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return sanitize.Clean(string(data)), nil
}
