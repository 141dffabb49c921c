// Package realtime receives marker change notifications from a remote feed
// over a websocket and republishes them locally.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"signage-planner/internal/pubsub"
)

// Message types on the feed.
const (
	TypeSubscribe      = "subscribe"
	TypeMarkersChanged = "markers_changed"
	TypePing           = "ping"
)

const (
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
)

// Envelope is the JSON frame exchanged with the feed.
type Envelope struct {
	Type        string `json:"type"`
	FloorPlanID string `json:"floor_plan_id,omitempty"`
	SpotID      string `json:"spot_id,omitempty"`
}

// Config holds the feed location and credentials.
type Config struct {
	URL   string
	Token string

	// InitialBackoff is the first reconnect delay. Defaults to one second.
	InitialBackoff time.Duration
}

// Client is a reconnecting websocket consumer of the change feed.
type Client struct {
	cfg Config
	ps  *pubsub.PubSub
	log zerolog.Logger

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *ws.Conn
	watched map[string]bool
	done    chan struct{}
	closed  bool
}

// New creates a client that publishes received changes to ps.
func New(cfg Config, ps *pubsub.PubSub, log zerolog.Logger) *Client {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	return &Client{
		cfg:     cfg,
		ps:      ps,
		log:     log.With().Str("component", "realtime").Logger(),
		watched: make(map[string]bool),
		done:    make(chan struct{}),
	}
}

// Start connects to the feed and starts the read loop.
func (c *Client) Start(ctx context.Context) error {
	conn, err := c.dialOnce(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.log.Info().Str("url", c.cfg.URL).Msg("Connected to change feed")
	c.ps.Publish(pubsub.TopicRealtimeConnected, "", true)
	go c.readLoop(conn)
	return nil
}

// Retry keeps dialing in the background with backoff, for use after Start
// failed. Watched plans are subscribed once connected.
func (c *Client) Retry() {
	go c.reconnect()
}

// Watch asks the feed for changes to a floor plan. Watched plans are
// re-requested after a reconnect.
func (c *Client) Watch(floorPlanID string) error {
	c.mu.Lock()
	c.watched[floorPlanID] = true
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.write(conn, Envelope{Type: TypeSubscribe, FloorPlanID: floorPlanID})
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	_ = conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *Client) dialOnce(ctx context.Context) (*ws.Conn, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	var header http.Header
	if c.cfg.Token != "" {
		header = http.Header{"Authorization": {"Bearer " + c.cfg.Token}}
	}

	conn, _, err := ws.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

func (c *Client) write(conn *ws.Conn, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(ws.TextMessage, data)
}

func (c *Client) readLoop(conn *ws.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.log.Warn().Err(err).Msg("Change feed read error")
			go c.reconnect()
			return
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.log.Debug().Str("raw", string(message)).Msg("Ignoring malformed feed message")
			continue
		}
		c.handle(env)
	}
}

func (c *Client) handle(env Envelope) {
	switch env.Type {
	case TypeMarkersChanged:
		if env.FloorPlanID == "" {
			return
		}
		c.log.Debug().Str("floorPlan", env.FloorPlanID).Msg("Remote marker change")
		c.ps.PublishChange(pubsub.Change{FloorPlanID: env.FloorPlanID, SpotID: env.SpotID, Source: "realtime"})
	case TypePing:
	default:
		c.log.Debug().Str("type", env.Type).Msg("Unhandled feed message")
	}
}

// reconnect re-dials with exponential backoff and re-sends subscriptions.
func (c *Client) reconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	backoff := c.cfg.InitialBackoff
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		c.log.Info().Int("attempt", attempt).Dur("backoff", backoff).Msg("Reconnecting to change feed")
		conn, err := c.dialOnce(context.Background())
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("Reconnect dial failed")
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.conn = conn
		ids := make([]string, 0, len(c.watched))
		for id := range c.watched {
			ids = append(ids, id)
		}
		c.mu.Unlock()

		if err := c.resubscribe(conn, ids); err != nil {
			c.log.Warn().Err(err).Msg("Failed to resubscribe after reconnect")
			_ = conn.Close()
			continue
		}

		c.log.Info().Int("attempt", attempt).Msg("Change feed reconnected")
		// Other sessions may have written while we were away.
		for _, id := range ids {
			c.ps.PublishChange(pubsub.Change{FloorPlanID: id, Source: "realtime"})
		}
		go c.readLoop(conn)
		return
	}

	c.log.Error().Int("maxAttempts", maxReconnect).Msg("Change feed reconnect failed")
}

func (c *Client) resubscribe(conn *ws.Conn, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := c.write(conn, Envelope{Type: TypeSubscribe, FloorPlanID: id}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
