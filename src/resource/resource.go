// Package resource implements the check, in and out steps of the resource.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"concourse-slack-notifier/src/concourse"
	"concourse-slack-notifier/src/config"
	"concourse-slack-notifier/src/contracts"
	"concourse-slack-notifier/src/decision"
	"concourse-slack-notifier/src/logger"
	"concourse-slack-notifier/src/message"
	"concourse-slack-notifier/src/slack"
	"concourse-slack-notifier/src/transport"
)

// Resource is the lifecycle Concourse drives through /opt/resource.
type Resource interface {
	Check(ctx context.Context, req contracts.CheckRequest) (contracts.CheckResponse, error)
	In(ctx context.Context, req contracts.InRequest, dir string) (contracts.InResponse, error)
	Out(ctx context.Context, req contracts.OutRequest, dir string) (contracts.OutResponse, error)
}

// Sender delivers a message to a webhook.
type Sender interface {
	Send(ctx context.Context, webhookURL string, msg slack.Message) error
}

// Notifier is the Slack notification resource.
type Notifier struct {
	metadata config.BuildMetadata
	sender   Sender
	stderr   io.Writer
}

var _ Resource = (*Notifier)(nil)

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the webhook sender.
func WithSender(s Sender) Option {
	return func(n *Notifier) { n.sender = s }
}

// WithStderr redirects logs and debug dumps.
func WithStderr(w io.Writer) Option {
	return func(n *Notifier) { n.stderr = w }
}

// NewNotifier creates the resource for the build described by meta.
func NewNotifier(meta config.BuildMetadata, opts ...Option) *Notifier {
	n := &Notifier{
		metadata: meta,
		sender:   slack.NewSender(nil),
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Check never reports versions: notifications are only ever put.
func (n *Notifier) Check(_ context.Context, _ contracts.CheckRequest) (contracts.CheckResponse, error) {
	return contracts.CheckResponse{}, nil
}

// In echoes the requested version so the implicit get after a put works.
func (n *Notifier) In(_ context.Context, req contracts.InRequest, _ string) (contracts.InResponse, error) {
	version := contracts.Version{Status: "none"}
	if req.Version != nil {
		version = *req.Version
	}
	return contracts.InResponse{Version: version}, nil
}

// Out decides whether to notify, renders the message and sends it.
//
// Failures end up in the outcome rather than failing the step. The one
// exception is a missing message file with fail_if_message_file_missing set.
func (n *Notifier) Out(ctx context.Context, req contracts.OutRequest, dir string) (contracts.OutResponse, error) {
	params := contracts.DefaultOutParams()
	if req.Params != nil {
		params = *req.Params
	}

	outcome := Outcome{AlertType: params.AlertType}
	if req.Source == nil {
		outcome.Err = ErrMissingSource
		return respond(outcome), nil
	}
	source := *req.Source

	log := logger.NewWriterLogger(n.stderr, source.Debug)
	outcome.Channel = message.ResolveChannel(params.Channel, source.Channel)

	meta := n.metadata
	if source.ConcourseURL != nil {
		meta = meta.WithATCURL(*source.ConcourseURL)
	}

	var clientErr error
	send := decision.ShouldNotify(ctx, decision.Request{
		AlertType:      params.AlertType,
		SourceDisabled: source.Disabled,
		ParamsDisabled: params.Disabled,
		Metadata:       meta,
	}, func(ctx context.Context) decision.StatusFetcher {
		client, err := newConcourseClient(ctx, source, meta, log)
		if err != nil {
			clientErr = err
			return nil
		}
		return client
	})
	if clientErr != nil {
		log.Error("%v", clientErr)
		outcome.Err = clientErr
		return respond(outcome), nil
	}
	if !send {
		log.Info("not sending %s alert", params.AlertType)
		return respond(outcome), nil
	}

	msg, err := message.Build(message.Input{
		Params:        params,
		Metadata:      meta,
		BuildDir:      dir,
		SourceChannel: source.Channel,
	})
	if err != nil {
		return contracts.OutResponse{}, WrapError(err)
	}
	n.dump(source.Debug, msg)

	if source.URL == "" {
		outcome.Err = ErrMissingURL
		return respond(outcome), nil
	}

	if err := n.sender.Send(ctx, source.URL, msg); err != nil {
		log.Error("failed to send %s alert: %v", params.AlertType, err)
		outcome.Err = err
		return respond(outcome), nil
	}

	outcome.Sent = true
	log.Info("%s", outcome.Summary())
	return respond(outcome), nil
}

func (n *Notifier) dump(debug bool, msg slack.Message) {
	if !debug {
		return
	}
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(n.stderr, logger.RenderBlock("slack payload", string(data)))
}

func respond(o Outcome) contracts.OutResponse {
	return contracts.OutResponse{
		Version:  o.Version(),
		Metadata: o.Metadata(),
	}
}

func newConcourseClient(ctx context.Context, source contracts.Source, meta config.BuildMetadata, log logger.Logger) (*concourse.Client, error) {
	opts := transport.Options{InsecureSkipVerify: source.IgnoreSSL}
	if source.CACert != nil {
		opts.CACert = *source.CACert
	}
	if source.ClientCert != nil {
		opts.ClientCert = &transport.ClientCert{Cert: source.ClientCert.Cert, Key: source.ClientCert.Key}
	}

	hc, err := transport.NewHTTPClient(opts)
	if err != nil {
		return nil, fmt.Errorf("concourse client: %w", err)
	}

	client := concourse.NewClient(meta.ATCExternalURL, concourse.WithHTTPClient(hc), concourse.WithLogger(log))
	if source.Username != nil && source.Password != nil {
		client.Authenticate(ctx, *source.Username, *source.Password)
	}
	return client, nil
}
