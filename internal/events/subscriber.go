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

// PostingHandler receives decoded posting-created events.
type PostingHandler func(ctx context.Context, post types.JobPosting)

// Subscriber consumes posting-created events.
type Subscriber struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewSubscriber connects to NATS at url.
func NewSubscriber(url string, timeout time.Duration, logger *zap.Logger) (*Subscriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := connect(url, timeout, "jobboard-subscriber")
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, logger: logger}, nil
}

// Listen delivers events to handle until ctx is done.
func (s *Subscriber) Listen(ctx context.Context, handle PostingHandler) error {
	sub, err := s.conn.Subscribe(PostingCreatedSubject, func(msg *nats.Msg) {
		post, err := decodePosting(msg.Data)
		if err != nil {
			s.logger.Warn("dropping malformed posting event",
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}
		handle(ctx, post)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", PostingCreatedSubject, err)
	}
	s.logger.Info("listening for posting events", zap.String("subject", PostingCreatedSubject))

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil && s.conn.IsConnected() {
		return fmt.Errorf("unsubscribe from %s: %w", PostingCreatedSubject, err)
	}
	return nil
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

func decodePosting(data []byte) (types.JobPosting, error) {
	var post types.JobPosting
	if err := json.Unmarshal(data, &post); err != nil {
		return types.JobPosting{}, fmt.Errorf("decoding posting event: %w", err)
	}
	if post.ID == "" {
		return types.JobPosting{}, fmt.Errorf("posting event has no id")
	}
	return post, nil
}
