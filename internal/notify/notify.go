// Package notify publishes a message to NATS JetStream whenever a sync run
// completes, so downstream consumers (deploy hooks, cache purgers) can react.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/pillarsync/internal/eventstore"
	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/logfields"
	"git.home.luguber.info/inful/pillarsync/internal/retry"
)

const defaultTimeout = 5 * time.Second

// Options locates the NATS server and names the stream and subject.
type Options struct {
	URL     string
	Stream  string
	Subject string
	Timeout time.Duration // Per publish attempt; zero means five seconds
	Retry   retry.Policy  // Zero value means retry.DefaultPolicy()
}

// Notification is the JSON message body.
type Notification struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	eventstore.RunCompletedData
}

type publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Notifier forwards RunCompleted events to JetStream and ignores the rest.
type Notifier struct {
	conn    *nats.Conn
	js      publisher
	subject string
	timeout time.Duration
	retry   retry.Policy
	logger  *slog.Logger
}

// Connect dials NATS and makes sure the stream capturing Subject exists.
func Connect(ctx context.Context, opts Options) (*Notifier, error) {
	conn, err := nats.Connect(opts.URL, nats.Name("pillarsync"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", opts.URL).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to create JetStream context").Build()
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        opts.Stream,
		Description: "pillarsync run notifications",
		Subjects:    []string{opts.Subject},
		MaxAge:      7 * 24 * time.Hour,
	}); err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to ensure stream").
			WithContext("stream", opts.Stream).
			Build()
	}

	n := newNotifier(js, opts)
	n.conn = conn
	n.logger.Info("NATS notifier connected",
		slog.String("url", opts.URL),
		slog.String("stream", opts.Stream),
		slog.String("subject", opts.Subject))
	return n, nil
}

func newNotifier(js publisher, opts Options) *Notifier {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	policy := opts.Retry
	if policy.Validate() != nil {
		policy = retry.DefaultPolicy()
	}
	return &Notifier{js: js, subject: opts.Subject, timeout: timeout, retry: policy, logger: slog.Default()}
}

// WithLogger sets the logger.
func (n *Notifier) WithLogger(l *slog.Logger) *Notifier {
	n.logger = l
	return n
}

// Emit publishes ev when it is a RunCompleted event, retrying per the
// policy. The run ID doubles as the JetStream message ID, so a retried
// publish is deduplicated.
func (n *Notifier) Emit(ctx context.Context, ev eventstore.Event) error {
	if ev.Type() != eventstore.TypeRunCompleted {
		return nil
	}
	data, err := eventstore.DecodeRunCompleted(ev)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to decode run summary").
			WithContext("run_id", ev.RunID()).
			Build()
	}
	body, err := json.Marshal(Notification{RunID: ev.RunID(), Timestamp: ev.Timestamp().UTC(), RunCompletedData: data})
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal notification").Build()
	}

	err = n.retry.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()
		_, err := n.js.Publish(ctx, n.subject, body, jetstream.WithMsgID(ev.RunID()))
		return err
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to publish run notification").
			WithContext("subject", n.subject).
			WithContext("run_id", ev.RunID()).
			Build()
	}
	n.logger.Debug("Published run notification", logfields.RunID(ev.RunID()), slog.String("subject", n.subject))
	return nil
}

// Close drains and closes the connection.
func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return errors.WrapError(err, errors.CategoryNotify, "failed to drain NATS connection").Build()
	}
	return nil
}
