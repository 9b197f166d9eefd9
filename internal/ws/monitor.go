// Package ws serves a read-only websocket view of the frames sent to the
// strip. It never accepts commands.
package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/lpdglow/internal/led"
)

// Message is what clients receive. The first message on a connection has
// Type "topology"; every latched frame then arrives as Type "frame" with RGB
// holding three bytes per pixel.
type Message struct {
	Type    string `json:"type"`
	Length  int    `json:"length,omitempty"`
	Driver  string `json:"driver,omitempty"`
	T       int64  `json:"t,omitempty"`
	FrameID uint64 `json:"frame_id,omitempty"`
	RGB     []byte `json:"rgb,omitempty"`
}

// Monitor is a Sink that forwards to another sink and mirrors every latched
// frame to websocket clients.
type Monitor struct {
	mu        sync.RWMutex
	inner     led.Sink
	length    int
	staged    []byte
	frameID   uint64
	startTime time.Time
	clients   map[*client]bool
	log       zerolog.Logger
}

// client owns one connection. Frames are queued on send and written by the
// client's own goroutine; when the queue is full the frame is dropped.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

const sendQueue = 8

func NewMonitor(inner led.Sink, length int, log zerolog.Logger) *Monitor {
	return &Monitor{
		inner:     inner,
		length:    length,
		startTime: time.Now(),
		clients:   map[*client]bool{},
		log:       log,
	}
}

func (m *Monitor) Write(frame []byte) error {
	if err := m.inner.Write(frame); err != nil {
		return err
	}
	m.mu.Lock()
	m.staged = append(m.staged[:0], frame...)
	m.mu.Unlock()
	return nil
}

func (m *Monitor) Flush() error {
	if err := m.inner.Flush(); err != nil {
		return err
	}
	m.mu.Lock()
	m.frameID++
	msg := Message{Type: "frame", T: time.Now().UnixNano(), FrameID: m.frameID, RGB: flatten(m.staged)}
	m.mu.Unlock()
	m.broadcast(msg)
	return nil
}

// Close drops every client and closes the inner sink.
func (m *Monitor) Close() error {
	m.mu.Lock()
	for c := range m.clients {
		m.dropLocked(c)
	}
	m.mu.Unlock()
	return m.inner.Close()
}

// Clients returns the number of connected clients.
func (m *Monitor) Clients() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Handler routes /ws and /health.
func (m *Monitor) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleFramesWS)
	mux.HandleFunc("/health", m.HandleHealth)
	return mux
}

func (m *Monitor) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	// topology goes out before the writer goroutine starts, so there is
	// never more than one writer
	top := Message{Type: "topology", Length: m.length, Driver: fmt.Sprint(m.inner)}
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	if err := conn.WriteJSON(top); err != nil {
		conn.Close()
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	m.mu.Lock()
	m.clients[c] = true
	m.mu.Unlock()
	m.log.Debug().Str("remote", r.RemoteAddr).Msg("monitor client connected")

	go m.writeLoop(c)
	go func() {
		defer m.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (m *Monitor) writeLoop(c *client) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			m.log.Debug().Err(err).Msg("write frame")
			// the read loop sees the closed conn and drops the client
			c.conn.Close()
			return
		}
	}
}

func (m *Monitor) drop(c *client) {
	m.mu.Lock()
	m.dropLocked(c)
	m.mu.Unlock()
}

func (m *Monitor) dropLocked(c *client) {
	if !m.clients[c] {
		return
	}
	delete(m.clients, c)
	close(c.send)
	c.conn.Close()
}

func (m *Monitor) HandleHealth(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := map[string]any{
		"frame_id": m.frameID,
		"uptime_s": time.Since(m.startTime).Seconds(),
		"length":   m.length,
		"clients":  len(m.clients),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (m *Monitor) broadcast(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for c := range m.clients {
		select {
		case c.send <- b:
		default:
			m.log.Debug().Uint64("frame_id", msg.FrameID).Msg("monitor client behind, frame dropped")
		}
	}
}

// flatten turns a GRB wire frame into plain RGB bytes at emitted brightness.
func flatten(frame []byte) []byte {
	px := led.Pixels(frame)
	out := make([]byte, 0, len(px)*3)
	for _, p := range px {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}
