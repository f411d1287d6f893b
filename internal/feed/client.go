// Package feed consumes decoded chain events from the subscription engine
// over a websocket and applies them to a handler sequentially.
//
// Dispatch is single-writer: one frame is fully handled before the next is
// read, which preserves arrival order without any locking in the handler.
// Queries run concurrently against the stores; the ledger's insert-if-absent
// contract carries the concurrency safety.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wildanre/ponder-etherlink/internal/event"
	"github.com/wildanre/ponder-etherlink/internal/observability"
)

// Handler consumes one decoded event.
type Handler interface {
	Handle(ctx context.Context, ev event.DecodedEvent) error
}

// Config tunes the feed connection.
type Config struct {
	Endpoint          string
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	HandshakeTimeout  time.Duration
}

// DefaultConfig returns production connection defaults.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:          endpoint,
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}

// Client maintains the feed connection and dispatches frames.
type Client struct {
	cfg     Config
	handler Handler
	log     zerolog.Logger
}

// NewClient creates a feed client. Run starts consuming.
func NewClient(cfg Config, handler Handler, log zerolog.Logger) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 1 * time.Second
	}
	if cfg.MaxReconnectDelay <= 0 {
		cfg.MaxReconnectDelay = 30 * time.Second
	}
	return &Client{cfg: cfg, handler: handler, log: log}
}

// Run connects and consumes until ctx is cancelled. Connection loss triggers
// reconnect with capped exponential backoff; the upstream redelivers after
// reconnect and the handler's idempotency absorbs the overlap.
func (c *Client) Run(ctx context.Context) error {
	delay := c.cfg.ReconnectDelay

	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn().Err(err).Dur("retryIn", delay).Msg("feed dial failed")
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
			delay = nextDelay(delay, c.cfg.MaxReconnectDelay)
			observability.RecordFeedReconnect()
			continue
		}

		c.log.Info().Str("endpoint", c.cfg.Endpoint).Msg("feed connected")
		delay = c.cfg.ReconnectDelay

		err = c.consume(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Dur("retryIn", delay).Msg("feed connection lost")

		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
		delay = nextDelay(delay, c.cfg.MaxReconnectDelay)
		observability.RecordFeedReconnect()
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.Endpoint, err)
	}
	return conn, nil
}

// consume reads frames until the connection breaks or ctx is cancelled.
// One failing event never stops the stream.
func (c *Client) consume(ctx context.Context, conn *websocket.Conn) error {
	// Unblock ReadMessage on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		var frame event.Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.log.Warn().Err(err).Msg("malformed frame skipped")
			observability.RecordEventFailed("unknown", "malformed_frame")
			continue
		}

		ev, err := event.DecodeFrame(frame)
		if err != nil {
			if errors.Is(err, event.ErrUnknownEvent) {
				c.log.Warn().Str("event", frame.Name).Msg("unknown event skipped")
			} else {
				c.log.Warn().Err(err).Str("event", frame.Name).Msg("undecodable frame skipped")
			}
			observability.RecordEventFailed(frame.Name, "decode")
			continue
		}

		if err := c.handler.Handle(ctx, ev); err != nil {
			c.log.Error().Err(err).
				Str("event", ev.Name).
				Str("txHash", ev.TransactionHash).
				Int64("logIndex", ev.LogIndex).
				Msg("event rejected")
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func nextDelay(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
