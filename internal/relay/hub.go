package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type eventKind int

const (
	evConnect eventKind = iota
	evDisconnect
	evFrame
	evPong
)

// event is one connection occurrence delivered to the hub loop. A
// single channel carries all kinds so events from the same connection
// are processed in the order they happened: a connection's frames are
// always routed before its disconnect.
type event struct {
	kind eventKind
	c    *Client
	raw  []byte
}

// Hub is the relay's lifecycle manager and message router. A single
// Run goroutine owns the connection registry and the RoomStore, so
// handlers for interleaved connection events run to completion one at a
// time and no store mutation ever races another.
type Hub struct {
	log   *slog.Logger
	store *RoomStore

	sweepInterval time.Duration
	events        chan event

	// clients is the connection registry. Only Run and the handlers it
	// calls may touch it.
	clients map[*Client]struct{}
}

// NewHub wires the hub to its room store. sweepInterval is the period
// of the liveness sweep that prunes connections which stopped answering
// heartbeat probes.
func NewHub(logger *slog.Logger, store *RoomStore, sweepInterval time.Duration) *Hub {
	return &Hub{
		log:           logger,
		store:         store,
		sweepInterval: sweepInterval,
		events:        make(chan event, 256),
		clients:       make(map[*Client]struct{}),
	}
}

// Register announces a freshly upgraded connection to the hub.
func (h *Hub) Register(c *Client) {
	h.events <- event{kind: evConnect, c: c}
}

// Unregister hands a connection back for cleanup after its read pump
// exits, on clean close and transport error alike.
func (h *Hub) Unregister(c *Client) {
	h.events <- event{kind: evDisconnect, c: c}
}

// Forward delivers one inbound frame for routing.
func (h *Hub) Forward(c *Client, raw []byte) {
	h.events <- event{kind: evFrame, c: c, raw: raw}
}

// NotifyPong records a heartbeat response.
func (h *Hub) NotifyPong(c *Client) {
	h.events <- event{kind: evPong, c: c}
}

// Run is the hub's event loop and must be the only goroutine touching
// hub state. It exits when ctx is cancelled, closing every live
// connection on the way out.
func (h *Hub) Run(ctx context.Context) {
	sweep := time.NewTicker(h.sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case ev := <-h.events:
			switch ev.kind {
			case evConnect:
				h.handleConnect(ev.c)
			case evDisconnect:
				h.drop(ev.c)
			case evFrame:
				h.route(ev.c, ev.raw)
			case evPong:
				h.handlePong(ev.c)
			}

		case <-sweep.C:
			h.sweepOnce()
		}
	}
}

// handleConnect admits a connection to the registry and greets it.
func (h *Hub) handleConnect(c *Client) {
	h.clients[c] = struct{}{}
	c.alive = true
	connectionsActive.Inc()
	c.enqueue(systemFrame("connected to the video remote control server"))
	h.log.Info("client connected", "conn", c.id, "clients", len(h.clients))
}

// drop removes a connection from the registry and from its room,
// deleting the room if it empties. Idempotent: the error path, the
// close path and the sweep may all end up here for one connection.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.store.RemoveConnection(c)
	close(c.send)
	c.close()

	connectionsActive.Dec()
	roomsActive.Set(float64(h.store.Len()))
	h.log.Info("client disconnected", "conn", c.id, "clients", len(h.clients))
}

// handlePong marks a connection live for the next sweep.
func (h *Hub) handlePong(c *Client) {
	if _, ok := h.clients[c]; ok {
		c.alive = true
	}
}

// sweepOnce terminates every connection that missed the previous probe,
// then clears the flags and probes the survivors. A half-open transport
// that never delivers a close event is caught here within one interval.
func (h *Hub) sweepOnce() {
	for c := range h.clients {
		if !c.alive {
			h.log.Warn("heartbeat missed, terminating connection", "conn", c.id)
			heartbeatTerminations.Inc()
			h.drop(c)
			continue
		}
		c.alive = false
		c.requestPing()
	}
}

// route parses and dispatches one inbound frame. Frames from a
// connection the hub already dropped lost the race against cleanup and
// are discarded.
func (h *Hub) route(c *Client, raw []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	in, err := ParseInbound(raw)
	if err != nil {
		h.log.Debug("malformed frame", "conn", c.id, "err", err)
		c.enqueue(errorFrame("invalid message format"))
		return
	}

	switch {
	case in.Type != "":
		h.routeLifecycle(c, in)
	case in.Action != "":
		h.routeCommand(c, in)
	default:
		c.enqueue(errorFrame(`message requires a "type" or "action" field`))
	}
}

func (h *Hub) routeLifecycle(c *Client, in Inbound) {
	switch in.Type {
	case TypeRegister:
		h.handleRegister(c, in.Client)
	case TypeJoinRoom:
		h.handleJoin(c, in.RoomCode)
	default:
		c.enqueue(errorFrame("unknown message type: " + in.Type))
	}
}

// handleRegister stores the declared role. A screen gets a room and its
// code; any other role only gets the acknowledgement.
func (h *Hub) handleRegister(c *Client, role string) {
	framesTotal.WithLabelValues(TypeRegister).Inc()
	c.role = role

	if role != RoleScreen {
		c.enqueue(systemFrame("registered"))
		return
	}

	// A screen that already owns a room keeps it: re-registration
	// resends the existing code instead of minting a duplicate room.
	if code, ok := h.store.RoomOf(c); ok {
		c.enqueue(roomFrame(code, "room ready"))
		c.enqueue(systemFrame("registered as screen"))
		return
	}

	code, err := h.store.CreateRoom(c)
	if err != nil {
		h.log.Error("room creation failed", "conn", c.id, "err", err)
		c.enqueue(errorFrame("no room codes available, try again later"))
		return
	}
	roomsActive.Set(float64(h.store.Len()))
	h.log.Info("room created", "room", code, "conn", c.id)

	c.enqueue(roomFrame(code, "room ready"))
	c.enqueue(systemFrame("registered as screen"))
}

// handleJoin adds the connection to an existing room, or reports the
// missing code without touching any state.
func (h *Hub) handleJoin(c *Client, code string) {
	framesTotal.WithLabelValues(TypeJoinRoom).Inc()

	if err := h.store.JoinRoom(code, c); err != nil {
		h.log.Info("join rejected", "room", code, "conn", c.id)
		c.enqueue(errorFrame(fmt.Sprintf("room %s not found", code)))
		return
	}
	roomsActive.Set(float64(h.store.Len()))
	h.log.Info("client joined room", "room", code, "conn", c.id)
	c.enqueue(joinAckFrame(code))
}

// routeCommand validates a playback command, acknowledges it to the
// sender and fans it out to the other members of the sender's room. A
// command from a connection with no room is acknowledged and dropped;
// the screen it hoped to reach does not exist.
func (h *Hub) routeCommand(c *Client, in Inbound) {
	switch in.Action {
	case ActionPlay, ActionPause:
	case ActionSeek:
		if in.Value == nil {
			c.enqueue(errorFrame(`"seek" requires a numeric "value"`))
			return
		}
	case ActionVolume:
		if in.Value == nil || *in.Value < -1 || *in.Value > 1 {
			c.enqueue(errorFrame(`"volume" requires a "value" in [-1, 1]`))
			return
		}
	default:
		c.enqueue(errorFrame("unknown action: " + in.Action))
		return
	}

	framesTotal.WithLabelValues(TypeCommand).Inc()
	c.enqueue(ackFrame(in.Action, in.Value))

	code, ok := h.store.RoomOf(c)
	if !ok {
		h.log.Debug("command from connection without a room dropped", "conn", c.id, "action", in.Action)
		return
	}

	out := commandFrame(in.Action, in.Value)
	for _, m := range h.store.MembersExcept(code, c) {
		m.enqueue(out)
	}
}
