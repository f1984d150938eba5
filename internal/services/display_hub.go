package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcmusabe/blokhut-display/internal/carousel"
	"github.com/mcmusabe/blokhut-display/internal/news"
	"github.com/mcmusabe/blokhut-display/internal/render"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// CommandHandler receives manual navigation from kiosk clients.
type CommandHandler interface {
	Do(cmd carousel.Command, index int) error
}

// DisplayMessage is sent to kiosk clients.
type DisplayMessage struct {
	Type     string        `json:"type"`
	Count    int           `json:"count"`
	Index    int           `json:"index"`
	Slides   []SlideView   `json:"slides,omitempty"`
	Value    float64       `json:"value"`
	Paused   bool          `json:"paused"`
	Action   string        `json:"action,omitempty"`
	Media    *render.Media `json:"media,omitempty"`
	Message  string        `json:"message,omitempty"`
	Ticker   *news.Ticker  `json:"ticker,omitempty"`
	Duration float64       `json:"duration,omitempty"`
}

// SlideView is a block plus its ready-made markup.
type SlideView struct {
	render.Block
	HTML string `json:"html"`
}

// ClientMessage is received from kiosk clients.
type ClientMessage struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Error  string `json:"error"`
}

type displayClient struct {
	id   string
	hub  *DisplayHub
	conn *websocket.Conn
	send chan []byte
}

// DisplayHub fans carousel output out to every connected kiosk and feeds
// their input back to the controller. New clients receive the current
// state on connect.
type DisplayHub struct {
	register   chan *displayClient
	unregister chan *displayClient
	broadcast  chan []byte
	stopped    chan struct{}
	clients    map[*displayClient]bool

	mu         sync.RWMutex
	commands   CommandHandler
	indicators []byte
	slides     []byte
	activate   []byte
	media      []byte
	progress   []byte
	ticker     []byte
	failure    []byte

	upgrader websocket.Upgrader
}

// NewDisplayHub creates a hub. Call Run before serving clients.
func NewDisplayHub() *DisplayHub {
	return &DisplayHub{
		register:   make(chan *displayClient),
		unregister: make(chan *displayClient),
		broadcast:  make(chan []byte, sendBuffer),
		stopped:    make(chan struct{}),
		clients:    make(map[*displayClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// kiosks are served from other origins (file://, device browsers)
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetCommandHandler wires client input to the carousel.
func (h *DisplayHub) SetCommandHandler(c CommandHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = c
}

// Run serves register, unregister and broadcast until done is closed.
func (h *DisplayHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			close(h.stopped)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			for _, msg := range h.replay() {
				client.send <- msg
			}
			logx.Info().Str("client", client.id).Int("clients", len(h.clients)).Msg("display connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logx.Info().Str("client", client.id).Int("clients", len(h.clients)).Msg("display disconnected")
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
					logx.Warn().Str("client", client.id).Msg("display too slow, dropped")
				}
			}
		}
	}
}

// replay is the current state for a newly connected client.
func (h *DisplayHub) replay() [][]byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.failure != nil {
		return [][]byte{h.failure}
	}
	var out [][]byte
	for _, msg := range [][]byte{h.indicators, h.slides, h.activate, h.media, h.progress, h.ticker} {
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out
}

func (h *DisplayHub) send(msg DisplayMessage, keep *[]byte) {
	data, err := json.Marshal(msg)
	if err != nil {
		logx.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal display message")
		return
	}
	if keep != nil {
		h.mu.Lock()
		*keep = data
		h.mu.Unlock()
	}
	select {
	case h.broadcast <- data:
	default:
		logx.Warn().Str("type", msg.Type).Msg("display broadcast queue full, message dropped")
	}
}

// RenderIndicators implements carousel.Surface.
func (h *DisplayHub) RenderIndicators(count int) {
	h.send(DisplayMessage{Type: "indicators", Count: count}, &h.indicators)
}

// RenderSlides implements carousel.Surface.
func (h *DisplayHub) RenderSlides(blocks []render.Block) {
	views := make([]SlideView, len(blocks))
	for i, b := range blocks {
		html, err := render.HTML(b)
		if err != nil {
			logx.Error().Err(err).Int("index", i).Msg("failed to render slide markup")
		}
		views[i] = SlideView{Block: b, HTML: html}
	}
	h.mu.Lock()
	h.failure = nil
	h.media = nil
	h.mu.Unlock()
	h.send(DisplayMessage{Type: "slides", Slides: views}, &h.slides)
}

// Activate implements carousel.Surface.
func (h *DisplayHub) Activate(index int) {
	h.send(DisplayMessage{Type: "activate", Index: index}, &h.activate)
}

// Progress implements carousel.Surface.
func (h *DisplayHub) Progress(value float64, paused bool) {
	h.send(DisplayMessage{Type: "progress", Value: value, Paused: paused}, &h.progress)
}

// AttachMedia implements carousel.Surface. Playback happens on the kiosk,
// so failures there arrive later as client messages.
func (h *DisplayHub) AttachMedia(index int, media render.Media) error {
	h.send(DisplayMessage{Type: "media", Action: "attach", Index: index, Media: &media}, &h.media)
	return nil
}

// DetachMedia implements carousel.Surface.
func (h *DisplayHub) DetachMedia(index int) error {
	h.mu.Lock()
	h.media = nil
	h.mu.Unlock()
	h.send(DisplayMessage{Type: "media", Action: "detach", Index: index}, nil)
	return nil
}

// ShowError implements carousel.Surface.
func (h *DisplayHub) ShowError(err error) {
	h.send(DisplayMessage{Type: "error", Message: "slides could not be loaded"}, &h.failure)
	logx.Error().Err(err).Msg("display showing error state")
}

// PublishNews sends a new ticker to every display.
func (h *DisplayHub) PublishNews(t news.Ticker) {
	h.send(DisplayMessage{Type: "news", Ticker: &t, Duration: t.Seconds}, &h.ticker)
}

// ServeWS upgrades the request and attaches a kiosk client.
func (h *DisplayHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &displayClient{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *DisplayHub) handle(c *displayClient, msg ClientMessage) {
	if msg.Error != "" {
		logx.Debug().Str("client", c.id).Str("error", msg.Error).Msg("kiosk media error")
		return
	}

	cmd := carousel.Command(msg.Action)
	if msg.Action == "key" {
		var ok bool
		if cmd, ok = carousel.KeyCommand(msg.Key); !ok {
			return
		}
	}

	h.mu.RLock()
	commands := h.commands
	h.mu.RUnlock()
	if commands == nil {
		return
	}
	if err := commands.Do(cmd, msg.Index); err != nil {
		logx.Debug().Err(err).Str("client", c.id).Msg("ignored display command")
	}
}

func (c *displayClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Debug().Err(err).Str("client", c.id).Msg("display read error")
			}
			return
		}
		c.hub.handle(c, msg)
	}
}

func (c *displayClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
