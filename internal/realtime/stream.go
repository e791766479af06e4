package realtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

// Stream maintains the websocket connection to one board's event channel.
// The stream offers no replay or sequence numbers, so any gap is a potential
// desync: after every (re)connect OnConnect must resynchronize from the REST
// source of truth before events are trusted again.
type Stream struct {
	url     string
	dialer  *websocket.Dialer
	header  http.Header
	maxWait time.Duration

	// OnEvent receives every decoded envelope, in arrival order, from the
	// single goroutine Run owns.
	OnEvent func(api.Event)
	// OnConnect runs after each successful (re)connect, before any events
	// are delivered.
	OnConnect func() error
}

// NewStream prepares a stream for the given websocket URL. cookies carry the
// session so the handshake authenticates like any REST call; maxWait bounds
// how long reconnecting is attempted before giving up (zero retries forever).
func NewStream(url string, cookies []*http.Cookie, maxWait time.Duration) *Stream {
	header := http.Header{}
	for _, cookie := range cookies {
		header.Add("Cookie", cookie.String())
	}
	return &Stream{
		url:     url,
		dialer:  websocket.DefaultDialer,
		header:  header,
		maxWait: maxWait,
	}
}

// Run connects and reads until ctx is cancelled. Every drop triggers a
// backed-off reconnect followed by OnConnect's full resync; Run only returns
// with an error when reconnection is exhausted.
func (s *Stream) Run(ctx context.Context) error {
	first := true
	for {
		conn, err := s.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("event stream gave up reconnecting: %w", err)
		}
		if !first {
			reconnectsTotal.Inc()
		}
		first = false

		if s.OnConnect != nil {
			if err := s.OnConnect(); err != nil {
				// cannot trust the stream without a clean resync
				logger.Log.Error("resync after connect failed", "err", err)
				conn.Close()
				continue
			}
		}

		s.readLoop(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		logger.Log.Warn("event stream dropped, reconnecting", "url", s.url)
	}
}

func (s *Stream) dial(ctx context.Context) (*websocket.Conn, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = s.maxWait

	var conn *websocket.Conn
	operation := func() error {
		var err error
		conn, _, err = s.dialer.DialContext(ctx, s.url, s.header)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	// unblock ReadJSON when the context ends
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var ev api.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil {
				logger.Log.Debug("stream read failed", "err", err)
			}
			return
		}
		if s.OnEvent != nil {
			s.OnEvent(ev)
		}
	}
}
