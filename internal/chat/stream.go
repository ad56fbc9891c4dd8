// Package chat keeps a live WebSocket subscription to the message feed,
// reconnecting with bounded backoff. Sending goes over REST; this stream is
// receive-only, and the REST fetch is the fallback while the socket is down.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dermalink/mobile/internal/config"
	"dermalink/mobile/internal/models"
)

type Stream struct {
	cfg      config.ChatConfig
	token    string
	log      zerolog.Logger
	dialer   *websocket.Dialer
	messages chan models.Message
}

func New(cfg config.ChatConfig, token string, logger zerolog.Logger) *Stream {
	return &Stream{
		cfg:      cfg,
		token:    token,
		log:      logger,
		dialer:   websocket.DefaultDialer,
		messages: make(chan models.Message, 64),
	}
}

// Messages delivers inbound chat messages. The channel closes when Run
// returns.
func (s *Stream) Messages() <-chan models.Message {
	return s.messages
}

// Run connects and reads until ctx is cancelled. Connection loss triggers a
// reconnect with doubling backoff between ReconnectMin and ReconnectMax;
// a successful connection resets the backoff.
func (s *Stream) Run(ctx context.Context) error {
	defer close(s.messages)

	backoff := s.cfg.ReconnectMin
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		conn, err := s.connect(ctx)
		if err != nil {
			s.log.Warn().Err(err).Dur("backoff", backoff).Msg("chat connect failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = nextBackoff(backoff, s.cfg.ReconnectMax)
			continue
		}

		backoff = s.cfg.ReconnectMin
		s.log.Debug().Msg("chat stream connected")

		err = s.readLoop(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		s.log.Warn().Err(err).Msg("chat stream dropped, reconnecting")
	}
}

func (s *Stream) connect(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)

	conn, resp, err := s.dialer.DialContext(ctx, s.cfg.WSURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(s.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				deadline := time.Now().Add(5 * time.Second)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg models.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Debug().Err(err).Msg("skipping undecodable chat frame")
			continue
		}

		select {
		case s.messages <- msg:
		default:
			// A stalled consumer drops the oldest behaviorally; fetching
			// over REST resynchronizes.
			s.log.Debug().Msg("chat buffer full, dropping frame")
		}
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
