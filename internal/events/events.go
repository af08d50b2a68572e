// Package events publishes and consumes posting lifecycle events over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/jobboard/internal/types"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	// PostingCreatedSubject carries every newly created posting as JSON.
	PostingCreatedSubject = "jobs.created"

	// DefaultConnectTimeout bounds the initial NATS dial.
	DefaultConnectTimeout = 5 * time.Second
)

// Publisher announces posting events.
type Publisher interface {
	PublishPostingCreated(ctx context.Context, post *types.JobPosting) error
	Close()
}

func connect(url string, timeout time.Duration, name string) (*nats.Conn, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return conn, nil
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher connects to NATS at url.
func NewPublisher(url string, timeout time.Duration, logger *zap.Logger) (Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := connect(url, timeout, "jobboard-publisher")
	if err != nil {
		return nil, err
	}
	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) PublishPostingCreated(ctx context.Context, post *types.JobPosting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshaling posting: %w", err)
	}

	if err := p.conn.Publish(PostingCreatedSubject, data); err != nil {
		p.logger.Error("failed to publish posting",
			zap.String("id", post.ID),
			zap.Error(err))
		return fmt.Errorf("publishing to NATS: %w", err)
	}

	p.logger.Debug("published posting",
		zap.String("id", post.ID),
		zap.String("subject", PostingCreatedSubject),
		zap.Int("message_size", len(data)))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that discards events.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishPostingCreated(ctx context.Context, post *types.JobPosting) error {
	return nil
}

func (nopPublisher) Close() {}

// Ping dials NATS at url and closes the connection again.
func Ping(url string, timeout time.Duration) error {
	conn, err := connect(url, timeout, "jobboard-status")
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("flushing NATS connection: %w", err)
	}
	return nil
}
