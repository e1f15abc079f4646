package relay

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Outbound frames buffered per connection before sends are dropped.
	sendBuffer = 64
)

// Client wraps a single websocket connection. The pumps own the socket;
// role and alive are owned by the hub goroutine and never touched here.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan Outbound
	ping    chan struct{}
	limiter *rate.Limiter

	// Hub-goroutine state: declared role and the liveness flag cleared
	// on each sweep and set back by a pong.
	role  string
	alive bool
}

// NewClient wraps conn for the hub, rate limiting inbound frames to
// framesPerSec with the given burst.
func NewClient(hub *Hub, conn *websocket.Conn, framesPerSec float64, burst int) *Client {
	return &Client{
		id:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		send:    make(chan Outbound, sendBuffer),
		ping:    make(chan struct{}, 1),
		limiter: rate.NewLimiter(rate.Limit(framesPerSec), burst),
	}
}

// ID is the connection's opaque identity, used in logs.
func (c *Client) ID() string {
	return c.id
}

// ReadPump pumps frames from the websocket to the hub. It runs in a
// per-connection goroutine; all reads happen here so there is at most
// one reader per socket. Exiting hands the connection to the hub for
// cleanup.
func (c *Client) ReadPump(limit int64) {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(limit)
	c.conn.SetPongHandler(func(string) error {
		c.hub.NotifyPong(c)
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket read error", "conn", c.id, "err", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.hub.log.Debug("inbound rate limit exceeded, frame dropped", "conn", c.id)
			continue
		}
		c.hub.Forward(c, raw)
	}
}

// WritePump pumps frames from the hub to the websocket and emits the
// heartbeat probes the sweep requests. It runs in a per-connection
// goroutine; all writes happen here so there is at most one writer per
// socket.
func (c *Client) WritePump() {
	defer c.close()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub dropped us.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-c.ping:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands a frame to the write pump without ever blocking the
// hub; frames to a backed-up connection are dropped. Must only be
// called from the hub goroutine, and never after the hub dropped the
// client.
func (c *Client) enqueue(frame Outbound) {
	select {
	case c.send <- frame:
	default:
	}
}

// requestPing asks the write pump to send a heartbeat probe. A probe
// already in flight is enough, so the send never blocks.
func (c *Client) requestPing() {
	select {
	case c.ping <- struct{}{}:
	default:
	}
}

// close shuts the underlying socket. nil-safe so hub unit tests can use
// clients with no transport attached.
func (c *Client) close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
