package main

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 4096
	outboxSize     = 256
	inboundPerSec  = 50
)

// frame is one queued outbound websocket message
type frame struct {
	binary bool
	data   []byte
}

// rateWindow counts inbound messages in fixed one-second windows
type rateWindow struct {
	limit int
	count int
	reset time.Time
}

func (r *rateWindow) allow(now time.Time) bool {
	if now.After(r.reset) {
		r.count = 0
		r.reset = now.Add(time.Second)
	}
	r.count++
	return r.count <= r.limit
}

// Client is one websocket viewer. The viewer holding a valid pilot token
// also flies the local ship and may pause, resume or reset the match.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	id         string
	remoteAddr string

	outbox    chan frame
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
	inbound   rateWindow
}

func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		id:         GenerateID(4),
		remoteAddr: remoteAddr,
		outbox:     make(chan frame, outboxSize),
		done:       make(chan struct{}),
		inbound:    rateWindow{limit: inboundPerSec},
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Dropped returns how many outbound frames were discarded for a slow reader
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// ReadPump decodes inbound messages until the connection fails or the
// client exceeds its message rate. Binary frames carry single input events.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.limiter.Release(c.remoteAddr)
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn().Err(err).Str("client", c.id).Msg("ws read")
			}
			return
		}
		if !c.inbound.allow(time.Now()) {
			c.hub.log.Warn().Str("client", c.id).Str("ip", c.remoteAddr).Msg("rate limit exceeded, disconnecting")
			return
		}

		if kind == websocket.BinaryMessage {
			if ev, ok := DecodeBinaryInput(raw); ok {
				c.handleEvent(ev)
			}
			continue
		}
		c.dispatch(raw)
	}
}

// WritePump drains the outbox and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f := <-c.outbox:
			kind := websocket.TextMessage
			if f.binary {
				kind = websocket.BinaryMessage
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(kind, f.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// enqueue never blocks the game loop; a full outbox drops the frame
func (c *Client) enqueue(f frame) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.outbox <- f:
	default:
		if c.dropped.Add(1)%outboxSize == 1 {
			c.hub.log.Debug().Str("client", c.id).Int64("dropped", c.dropped.Load()).Msg("slow viewer")
		}
	}
}

// SendJSON queues msg as a text frame
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error().Err(err).Msg("marshal")
		return
	}
	c.enqueue(frame{data: data})
}

// SendBinary queues an encoded snapshot. data is shared across viewers and
// must not be modified afterwards.
func (c *Client) SendBinary(data []byte) {
	c.enqueue(frame{binary: true, data: data})
}

func (c *Client) dispatch(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.log.Debug().Err(err).Str("client", c.id).Msg("bad envelope")
		return
	}

	switch env.T {
	case MsgPilot:
		c.handlePilot(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgControl:
		c.handleControl(env.D)
	default:
		c.hub.log.Debug().Str("client", c.id).Str("type", env.T).Msg("ignored message")
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

func (c *Client) handlePilot(data json.RawMessage) {
	var msg PilotMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("bad pilot message")
		return
	}
	if err := c.hub.ClaimPilot(c, msg.Token); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			c.sendError("invalid token")
		}
		return
	}
	c.SendJSON(Envelope{T: MsgPilotOK, Data: map[string]int{"slot": SlotLocal}})
}

func (c *Client) handleInput(data json.RawMessage) {
	var msg InputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("bad input message")
		return
	}
	ev, err := ParseInputEvent(msg.Event)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.handleEvent(ev)
}

func (c *Client) handleEvent(ev InputEvent) {
	if !c.hub.IsPilot(c) {
		c.sendError("not the pilot")
		return
	}
	if !c.hub.game.Enqueue(ev) {
		c.hub.log.Debug().Str("client", c.id).Stringer("event", ev).Msg("input queue full")
	}
}

func (c *Client) handleControl(data json.RawMessage) {
	if !c.hub.IsPilot(c) {
		c.sendError("not the pilot")
		return
	}
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("bad control message")
		return
	}
	switch msg.Cmd {
	case CtrlPause:
		c.hub.game.Pause()
	case CtrlResume:
		c.hub.game.Resume()
	case CtrlReset:
		c.hub.game.Reset()
	default:
		c.sendError("unknown command")
		return
	}
	c.hub.log.Info().Str("client", c.id).Str("cmd", msg.Cmd).Msg("match control")
}
