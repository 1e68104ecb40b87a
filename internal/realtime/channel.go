package realtime

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// linearBackOff grows the wait by the base delay on every attempt and
// caps it at max. A 1s base with a 5s cap yields 1s, 2s, 3s, 4s, 5s,
// 5s, and so on.
type linearBackOff struct {
	base    time.Duration
	max     time.Duration
	current time.Duration
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.current += b.base
	if b.current > b.max {
		b.current = b.max
	}
	return b.current
}

func (b *linearBackOff) Reset() {
	b.current = 0
}

// Channel is a live push connection to the tracking service. It owns a
// read loop that decodes frames into [Event] values and a redial loop
// that takes over when the connection drops.
type Channel struct {
	url    string
	id     string // client instance id, stable across redials
	cfg    shared.RealtimeConfig
	logger *log.Logger
	dialer *websocket.Dialer

	mu   sync.Mutex // guards conn for concurrent writes
	conn *websocket.Conn

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the service's websocket endpoint and starts the
// read loop. Events, including the initial [Connected], arrive on
// [Channel.Events].
func Dial(wsURL string, cfg shared.RealtimeConfig, logger *log.Logger) (*Channel, error) {
	ch := &Channel{
		url:    wsURL,
		id:     shared.GenerateID(),
		cfg:    cfg,
		logger: logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.ConnectTimeout(),
		},
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}

	conn, _, err := ch.dialer.Dial(wsURL, ch.header())
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", shared.ErrServiceUnavailable, wsURL, err)
	}
	ch.conn = conn

	// Queued before the read loop starts so it is the first event the
	// consumer sees.
	ch.events <- Connected{}
	go ch.readLoop()

	return ch, nil
}

// Events returns the stream of decoded and lifecycle events. It is
// closed when the channel shuts down, whether by [Channel.Close] or by
// exhausted reconnection attempts.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Emit writes an outbound message to the socket. It fails with
// [shared.ErrNotConnected] while a redial is in progress.
func (c *Channel) Emit(out Outbound) error {
	frame, err := encodeEvent(out)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("%w: cannot emit %s", shared.ErrNotConnected, out.eventName())
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("%w: emitting %s: %v", shared.ErrNotConnected, out.eventName(), err)
	}

	c.logger.Debug("emitted event", "event", out.eventName())
	return nil
}

// Close shuts the channel down. It is safe to call more than once.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()
	})
	return nil
}

// readLoop is the only sender on the events channel and closes it on
// exit.
func (c *Channel) readLoop() {
	defer close(c.events)

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}

			c.logger.Warn("connection lost", "error", err)
			c.deliver(Disconnected{Err: err})

			if !c.reconnect() {
				return
			}
			continue
		}

		ev, err := decodeEvent(raw)
		if err != nil {
			c.logger.Error("dropping frame", "error", err)
			continue
		}
		c.deliver(ev)
	}
}

// reconnect redials with linear backoff until a connection is
// established or the attempt budget runs out. It reports whether the
// channel is connected again.
func (c *Channel) reconnect() bool {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	lin := &linearBackOff{base: c.cfg.ReconnectDelay(), max: c.cfg.ReconnectDelayMax()}
	policy := backoff.WithMaxRetries(lin, uint64(c.cfg.ReconnectAttempts))

	attempt := 0
	err := backoff.Retry(func() error {
		select {
		case <-c.done:
			return backoff.Permanent(shared.ErrChannelClosed)
		default:
		}

		attempt++
		conn, _, err := c.dialer.Dial(c.url, c.header())
		if err != nil {
			c.logger.Warn("reconnect attempt failed", "attempt", attempt, "error", err)
			return err
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		return nil
	}, policy)

	if err != nil {
		select {
		case <-c.done:
			return false
		default:
		}

		c.logger.Error("reconnection abandoned", "attempts", attempt)
		c.deliver(ReconnectFailed{Attempts: attempt})
		c.Close()
		return false
	}

	c.logger.Info("reconnected", "attempts", attempt)
	c.deliver(Connected{Resumed: true})
	return true
}

// header identifies this client instance to the service so redials can
// be correlated server-side.
func (c *Channel) header() http.Header {
	return http.Header{"X-Client-Id": {c.id}}
}

// deliver hands an event to the consumer unless the channel is shutting
// down.
func (c *Channel) deliver(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}
