package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// connLimiter caps websocket connections per remote address and overall.
// It is shared by HTTP handler goroutines.
type connLimiter struct {
	mu      sync.Mutex
	perIP   map[string]int
	total   int
	ipMax   int
	totalMx int
}

func newConnLimiter(perIP, total int) *connLimiter {
	return &connLimiter{perIP: make(map[string]int), ipMax: perIP, totalMx: total}
}

// Acquire reserves a slot for ip, or reports false when a cap is reached
func (l *connLimiter) Acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.total >= l.totalMx || l.perIP[ip] >= l.ipMax {
		return false
	}
	l.perIP[ip]++
	l.total++
	return true
}

func (l *connLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.perIP[ip] <= 1 {
		delete(l.perIP, ip)
	} else {
		l.perIP[ip]--
	}
	if l.total > 0 {
		l.total--
	}
}

func (l *connLimiter) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Hub tracks connected viewers and which of them, if any, pilots the local ship
type Hub struct {
	game    *Game
	pairing *Pairing
	limiter *connLimiter
	log     zerolog.Logger

	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns

	mu      sync.RWMutex
	clients map[*Client]struct{}
	pilot   *Client // nil when the ship is unclaimed
}

func NewHub(game *Game, pairing *Pairing, log zerolog.Logger) *Hub {
	return &Hub{
		game:       game,
		pairing:    pairing,
		limiter:    newConnLimiter(maxConnsPerIP, maxTotalConns),
		log:        log.With().Str("component", "hub").Logger(),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run admits and retires viewers until ctx is cancelled. A joining viewer
// gets its welcome before it is subscribed to snapshots.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			c.SendJSON(Envelope{T: MsgWelcome, Data: h.game.Welcome(c.id)})
			h.game.AddViewer(c)
			h.log.Debug().Str("client", c.id).Str("ip", c.remoteAddr).Msg("viewer joined")

		case c := <-h.unregister:
			h.game.RemoveViewer(c)
			h.mu.Lock()
			delete(h.clients, c)
			if h.pilot == c {
				h.pilot = nil
				h.log.Info().Str("client", c.id).Msg("pilot left")
			}
			h.mu.Unlock()
			c.Close()
			h.log.Debug().Str("client", c.id).Int64("dropped", c.Dropped()).Msg("viewer left")

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// join hands c to Run. It reports false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	if h.stopped() {
		return false
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave hands c to Run for removal, or retires it directly once the hub
// has stopped so exiting read pumps never block.
func (h *Hub) leave(c *Client) {
	if !h.stopped() {
		select {
		case h.unregister <- c:
			return
		case <-h.done:
		}
	}
	h.game.RemoveViewer(c)
	c.Close()
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ClaimPilot makes c the pilot if token is valid. A previous pilot is demoted
// and told so.
func (h *Hub) ClaimPilot(c *Client, token string) error {
	if err := h.pairing.Validate(token); err != nil {
		h.log.Warn().Err(err).Str("client", c.id).Msg("pilot claim rejected")
		return err
	}
	h.mu.Lock()
	prev := h.pilot
	h.pilot = c
	h.mu.Unlock()

	if prev != nil && prev != c {
		prev.sendError("pilot taken over")
	}
	h.log.Info().Str("client", c.id).Msg("pilot claimed")
	return nil
}

func (h *Hub) IsPilot(c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pilot == c
}

// ClientCount returns the number of registered viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the number of open websocket connections
func (h *Hub) TotalConns() int {
	return h.limiter.Total()
}
