package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
)

const maxMatchesListed = 50

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// isLoopback reports whether the request comes from this host
func isLoopback(r *http.Request) bool {
	ip := net.ParseIP(extractIP(r))
	return ip != nil && ip.IsLoopback()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SetupRoutes configures HTTP routes. db may be nil.
func SetupRoutes(hub *Hub, db *DB) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		snap := hub.game.Snapshot()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":      true,
			"frame":   snap.Frame,
			"paused":  snap.Paused,
			"viewers": hub.ClientCount(),
		})
	})

	// the QR code carries a pilot token, so only the host machine may fetch it
	mux.HandleFunc("/pair.png", func(w http.ResponseWriter, r *http.Request) {
		if !isLoopback(r) {
			hub.log.Warn().Str("ip", extractIP(r)).Msg("pairing code refused")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		png, err := hub.pairing.QRCode()
		if err != nil {
			hub.log.Error().Err(err).Msg("pairing qr")
			http.Error(w, "pairing unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	})

	mux.HandleFunc("/matches", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusOK, []MatchRow{})
			return
		}
		limit := 10
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = Clamp(n, 1, maxMatchesListed)
		}
		rows, err := db.RecentMatches(limit)
		if err != nil {
			hub.log.Error().Err(err).Msg("list matches")
			http.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []MatchRow{}
		}
		writeJSON(w, http.StatusOK, rows)
	})

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.limiter.Acquire(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.limiter.Release(ip)
			hub.log.Warn().Err(err).Msg("upgrade")
			return
		}

		client := NewClient(hub, conn, ip)
		if !hub.join(client) {
			hub.limiter.Release(ip)
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	})

	return mux
}
