package service

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/pkg/logger"
	"syntax_feed_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	feedEventsChannel = "feed_events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is what clients send up the socket, e.g.
// {"type":"VISIBLE","data":{"index":3,"ratio":0.8}}.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// InboundHandler receives client messages for a feed session.
type InboundHandler func(sessionID string, msg WSMessage)

type FeedClient struct {
	Hub       *FeedHub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID string
	Limiter   *rate.Limiter
}

func (c *FeedClient) readPump() {
	defer func() {
		c.Hub.unregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err), zap.String("sessionId", c.SessionID))
			}
			break
		}

		// 30 messages per second, bursts of 50
		if !c.Limiter.Allow() {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.Type == "" {
			continue
		}
		monitoring.WebSocketMessages.WithLabelValues(msg.Type, "in").Inc()

		if h := c.Hub.inboundHandler(); h != nil {
			h(c.SessionID, msg)
		}
	}
}

func (c *FeedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one event per frame so clients can decode each independently
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[string]map[*FeedClient]struct{}
	mu      sync.RWMutex
}

// FeedHub fans feed controller events out to the sockets watching a feed
// session. With Redis configured every instance receives every event and
// delivers it to the sockets it holds.
type FeedHub struct {
	shards     [shardCount]*shard
	register   chan *FeedClient
	unregister chan *FeedClient
	Redis      *redis.Client

	mu      sync.RWMutex
	handler InboundHandler

	ctx    context.Context
	cancel context.CancelFunc
}

func NewFeedHub(rdb *redis.Client) *FeedHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &FeedHub{
		register:   make(chan *FeedClient),
		unregister: make(chan *FeedClient),
		Redis:      rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[string]map[*FeedClient]struct{}),
		}
	}
	return h
}

func (h *FeedHub) SetInboundHandler(fn InboundHandler) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

func (h *FeedHub) inboundHandler() InboundHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.handler
}

func (h *FeedHub) getShard(sessionID string) *shard {
	f := fnv.New32a()
	f.Write([]byte(sessionID))
	return h.shards[f.Sum32()%shardCount]
}

type PubSubMessage struct {
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload"`
}

// Run processes registrations until Stop is called.
func (h *FeedHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, feedEventsChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				var psMsg PubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.pushToLocal(psMsg.SessionID, psMsg.Payload)
			}
		}()
	}

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.SessionID)
			s.mu.Lock()
			set, ok := s.clients[client.SessionID]
			if !ok {
				set = make(map[*FeedClient]struct{})
				s.clients[client.SessionID] = set
			}
			set[client] = struct{}{}
			s.mu.Unlock()
			monitoring.WebSocketConnections.Inc()

		case client := <-h.unregister:
			h.remove(client)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *FeedHub) remove(client *FeedClient) {
	s := h.getShard(client.SessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(s.clients, client.SessionID)
	}
	close(client.Send)
	monitoring.WebSocketConnections.Dec()
}

func (h *FeedHub) unregisterClient(c *FeedClient) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

// Publish sends ev to every socket attached to the session.
func (h *FeedHub) Publish(sessionID string, ev feed.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Error("Failed to encode feed event", zap.Error(err), zap.String("sessionId", sessionID))
		return
	}
	monitoring.WebSocketMessages.WithLabelValues(string(ev.Type), "out").Inc()

	if h.Redis != nil {
		msg, _ := json.Marshal(PubSubMessage{SessionID: sessionID, Payload: payload})
		err := h.Redis.Publish(h.ctx, feedEventsChannel, msg).Err()
		if err == nil {
			return
		}
		logger.Log.Warn("Redis publish failed, delivering locally", zap.Error(err))
	}
	h.pushToLocal(sessionID, payload)
}

func (h *FeedHub) pushToLocal(sessionID string, payload []byte) {
	s := h.getShard(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
			// slow consumer, drop
		}
	}
}

// Clients reports how many sockets watch the session on this instance.
func (h *FeedHub) Clients(sessionID string) int {
	s := h.getShard(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[sessionID])
}

// CloseSession disconnects every socket of an expired or closed session.
func (h *FeedHub) CloseSession(sessionID string) {
	s := h.getShard(sessionID)
	s.mu.Lock()
	set := s.clients[sessionID]
	delete(s.clients, sessionID)
	s.mu.Unlock()

	for client := range set {
		close(client.Send)
		monitoring.WebSocketConnections.Dec()
	}
}

// Stop closes all connections and ends Run.
func (h *FeedHub) Stop() {
	logger.Log.Info("FeedHub stopping, closing connections")

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for sid, set := range s.clients {
			for client := range set {
				close(client.Send)
				closed++
			}
			delete(s.clients, sid)
		}
		s.mu.Unlock()
	}
	h.cancel()

	monitoring.WebSocketConnections.Set(0)
	logger.Log.Info("FeedHub stopped", zap.Int("closedConnections", closed))
}

func ServeWs(hub *FeedHub, w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.String("sessionId", sessionID))
		return
	}
	client := &FeedClient{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		SessionID: sessionID,
		Limiter:   rate.NewLimiter(rate.Limit(30), 50),
	}

	select {
	case hub.register <- client:
	case <-hub.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
