package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	messageTypeMarketRates = "market_rates"
)

type RatesMessage struct {
	Type      string             `json:"type"`
	Data      []model.MarketRate `json:"data"`
	Timestamp time.Time          `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	// gorilla connections allow one concurrent writer
	mu sync.Mutex
}

func (cl *client) write(messageType int, data []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(messageType, data)
}

type hub struct {
	oracle   oracle.IOracle
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New builds the hub. Browsers may only connect from allowedOrigins; an
// empty list or "*" accepts any origin.
func New(oracle oracle.IOracle, logger *logger.Logger, allowedOrigins []string) IHandler {
	return &hub{
		oracle: oracle,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients: make(map[*client]struct{}),
	}
}

// MarketRates godoc
// @Summary Market rate stream
// @Description Websocket that receives the full market rate snapshot on connect and on every change
// @Tags market
// @Success 101
// @Router /ws/market-rates [get]
func (h *hub) MarketRates(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("[ws.MarketRates][Upgrade]", map[string]string{
			"error": err.Error(),
		})
		return
	}

	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	rates, err := h.oracle.GetMarketRates(ctx)
	cancel()
	if err != nil {
		h.logger.Error("[ws.MarketRates][GetMarketRates]", map[string]string{
			"error": err.Error(),
		})
		rates = []model.MarketRate{}
	}
	if err := h.send(cl, rates); err != nil {
		h.evict(cl)
		return
	}

	done := make(chan struct{})
	go h.keepAlive(cl, done)
	go h.readLoop(cl, done)
}

func (h *hub) BroadcastRates(rates []model.MarketRate) {
	payload, err := encode(rates)
	if err != nil {
		h.logger.Error("[ws.BroadcastRates][Marshal]", map[string]string{
			"error": err.Error(),
		})
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		if err := cl.write(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("[ws.BroadcastRates][Write]", map[string]string{
				"error": err.Error(),
			})
			h.evict(cl)
		}
	}
}

func (h *hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Used on shutdown.
func (h *hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for cl := range clients {
		cl.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		cl.conn.Close()
	}
}

func (h *hub) send(cl *client, rates []model.MarketRate) error {
	payload, err := encode(rates)
	if err != nil {
		return err
	}
	return cl.write(websocket.TextMessage, payload)
}

func (h *hub) evict(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	delete(h.clients, cl)
	h.mu.Unlock()

	if ok {
		cl.conn.Close()
	}
}

// readLoop drains client frames so pongs and close frames are processed.
// Subscribers are not expected to send anything else.
func (h *hub) readLoop(cl *client, done chan struct{}) {
	defer close(done)
	defer h.evict(cl)

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) keepAlive(cl *client, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.write(websocket.PingMessage, nil); err != nil {
				h.evict(cl)
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(strings.TrimSpace(o), origin) {
				return true
			}
		}
		return false
	}
}

func encode(rates []model.MarketRate) ([]byte, error) {
	if rates == nil {
		rates = []model.MarketRate{}
	}
	return json.Marshal(RatesMessage{
		Type:      messageTypeMarketRates,
		Data:      rates,
		Timestamp: time.Now().UTC(),
	})
}
