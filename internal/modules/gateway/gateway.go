// Package gateway is the realtime socket.io channel. Web clients get title
// settings pushes and the employee roster; admin clients can additionally
// change roles and departments over the socket (the same operations exist
// over REST for clients without a socket).
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/modules/employee"
	"github.com/issa-plus/core/internal/pkg/kv"
	pkgredis "github.com/issa-plus/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	RoomAdmin       = "admin"
	RoomWeb         = "web"
	namespaceAdmin  = "/admin"
	namespaceWeb    = "/web"
	redisChanAdmin  = "issa:gateway:admin"
	redisChanPublic = "issa:gateway:web"

	EventAllUsers        = "all_users"
	EventUserUpdated     = "user_updated"
	EventTitleSettings   = "title_settings_updated"
	EventCongratulation  = "congratulation"
	eventGatewayConnect  = "GATEWAY_CONNECT"
	eventGatewayAuthFail = "AUTH_FAILED"
	eventGatewayError    = "GATEWAY_ERROR"
)

// TokenValidator checks a handshake token and returns the user id.
type TokenValidator func(rawToken string) (string, error)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Code    *int        `json:"code,omitempty"`
	Room    string      `json:"room,omitempty"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Code *int        `json:"code,omitempty"`
}

type clientMeta struct {
	sid  string
	room string
}

// Hub manages socket.io namespaces and cluster fan-out.
type Hub struct {
	mu sync.RWMutex

	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	rc            *pkgredis.Client
	logger        *zap.Logger
	sio           *socketio.Server
	employees     *employee.Service
	validateToken TokenValidator
	validateAdmin TokenValidator
}

func NewHub(rc *pkgredis.Client, employees *employee.Service, validateToken, validateAdmin TokenValidator, logger *zap.Logger) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		sidRoom:       make(map[string]string),
		roomCount:     make(map[string]int),
		broadcast:     make(chan Message, 256),
		register:      make(chan clientMeta, 256),
		unregister:    make(chan clientMeta, 256),
		rc:            rc,
		logger:        logger,
		sio:           sio,
		employees:     employees,
		validateToken: validateToken,
		validateAdmin: validateAdmin,
	}
	h.registerNamespaces()
	return h
}

func (h *Hub) registerNamespaces() {
	webNS := h.sio.Of(namespaceWeb, nil)
	_ = webNS.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		if h.validateToken != nil {
			if _, err := h.validateToken(extractToken(client)); err != nil {
				_ = client.Emit("message", h.format(eventGatewayAuthFail, "auth failed", nil))
				client.Disconnect(true)
				return
			}
		}

		sid := string(client.Id())
		h.register <- clientMeta{sid: sid, room: RoomWeb}
		_ = client.Emit("message", h.format(eventGatewayConnect, "connected", nil))

		_ = client.On("get_all_users", func(_ ...any) {
			h.emitAllUsers(client)
		})

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- clientMeta{sid: sid, room: RoomWeb}
		})
	})

	adminNS := h.sio.Of(namespaceAdmin, nil)
	_ = adminNS.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		adminID := ""
		if h.validateAdmin != nil {
			id, err := h.validateAdmin(extractToken(client))
			if err != nil {
				_ = client.Emit("message", h.format(eventGatewayAuthFail, "auth failed", nil))
				client.Disconnect(true)
				return
			}
			adminID = id
		}

		sid := string(client.Id())
		h.register <- clientMeta{sid: sid, room: RoomAdmin}
		_ = client.Emit("message", h.format(eventGatewayConnect, "connected", nil))

		_ = client.On("get_all_users", func(_ ...any) {
			h.emitAllUsers(client)
		})

		_ = client.On("set_role", func(args ...any) {
			h.handleEmployeeEdit(client, adminID, args, "role", func(ctx context.Context, id, value string) error {
				_, err := h.employees.SetRole(ctx, id, value)
				return err
			})
		})

		_ = client.On("set_department", func(args ...any) {
			h.handleEmployeeEdit(client, adminID, args, "department", func(ctx context.Context, id, value string) error {
				_, err := h.employees.SetDepartment(ctx, id, value)
				return err
			})
		})

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- clientMeta{sid: sid, room: RoomAdmin}
		})
	})
}

// emitAllUsers answers a get_all_users request on the requesting socket only.
func (h *Hub) emitAllUsers(client *socketio.Socket) {
	list, err := h.employees.All(context.Background())
	if err != nil {
		h.logger.Warn("gateway roster load failed", zap.Error(err))
		_ = client.Emit("message", h.format(eventGatewayError, "failed to load users", nil))
		return
	}
	_ = client.Emit("message", h.format(EventAllUsers, list, nil))
}

type employeeEdit struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	// Legacy clients send the field under its own name.
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (h *Hub) handleEmployeeEdit(client *socketio.Socket, adminID string, args []any, field string, apply func(ctx context.Context, id, value string) error) {
	edit, ok := parseEdit(args, field)
	if !ok || edit.ID == "" {
		_ = client.Emit("message", h.format(eventGatewayError, "id and value are required", nil))
		return
	}

	if err := apply(context.Background(), edit.ID, edit.Value); err != nil {
		h.logger.Warn("gateway employee edit failed",
			zap.String("field", field), zap.String("employee", edit.ID),
			zap.String("admin", adminID), zap.Error(err))
		_ = client.Emit("message", h.format(eventGatewayError, err.Error(), nil))
		return
	}

	h.Broadcast(EventUserUpdated, map[string]string{"id": edit.ID, field: edit.Value}, "")
}

func parseEdit(args []any, field string) (employeeEdit, bool) {
	if len(args) == 0 {
		return employeeEdit{}, false
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return employeeEdit{}, false
	}
	var edit employeeEdit
	if err := json.Unmarshal(raw, &edit); err != nil {
		return employeeEdit{}, false
	}
	if edit.Value == "" {
		switch field {
		case "role":
			edit.Value = edit.Role
		case "department":
			edit.Value = edit.Department
		}
	}
	return edit, true
}

func extractToken(client *socketio.Socket) string {
	handshake := client.Handshake()
	if handshake == nil {
		return ""
	}
	if token := firstValueFromMultiMap(handshake.Query, "token"); token != "" {
		return token
	}
	if token := firstValueFromMultiMap(handshake.Headers, "authorization"); token != "" {
		return token
	}
	return ""
}

func firstValueFromMultiMap(values map[string][]string, key string) string {
	if len(values) == 0 {
		return ""
	}
	for k, list := range values {
		if !strings.EqualFold(strings.TrimSpace(k), key) || len(list) == 0 {
			continue
		}
		v := strings.TrimSpace(list[0])
		if v != "" {
			return v
		}
	}
	return ""
}

// Run starts the hub loop and Redis subscriber.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.deliver(msg)

			if h.rc != nil {
				channel := redisChanPublic
				if msg.Room == RoomAdmin {
					channel = redisChanAdmin
				}
				data, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				if err := h.rc.Publish(ctx, channel, string(data)); err != nil && h.logger != nil {
					h.logger.Warn("gateway publish failed", zap.String("channel", channel), zap.Error(err))
				}
			}
		}
	}
}

// WatchSettings pushes title settings changes to every connected client.
func (h *Hub) WatchSettings(ctx context.Context, changes <-chan kv.Change, settingsKey string) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if change.Key != settingsKey {
				continue
			}
			h.Broadcast(EventTitleSettings, json.RawMessage(change.Value), "")
		}
	}
}

func (h *Hub) registerClient(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if oldRoom, ok := h.sidRoom[c.sid]; ok {
		if oldRoom == c.room {
			return
		}
		if h.roomCount[oldRoom] > 0 {
			h.roomCount[oldRoom]--
		}
	}

	h.sidRoom[c.sid] = c.room
	h.roomCount[c.room]++
}

func (h *Hub) unregisterClient(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.sidRoom[c.sid]
	if !ok {
		return
	}

	delete(h.sidRoom, c.sid)
	if h.roomCount[room] > 0 {
		h.roomCount[room]--
	}
}

func (h *Hub) format(event string, payload interface{}, code *int) gatewayPayload {
	return gatewayPayload{Type: event, Data: payload, Code: code}
}

func (h *Hub) emitNamespace(nsp string, msg Message) {
	h.sio.Of(nsp, nil).Emit("message", h.format(msg.Event, msg.Payload, msg.Code))
}

func (h *Hub) deliver(msg Message) {
	switch msg.Room {
	case RoomAdmin:
		h.emitNamespace(namespaceAdmin, msg)
	case RoomWeb:
		h.emitNamespace(namespaceWeb, msg)
	case "":
		h.emitNamespace(namespaceAdmin, msg)
		h.emitNamespace(namespaceWeb, msg)
	}
}

// subscribeRedis listens for broadcasts from other server instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanAdmin, redisChanPublic)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h.deliver(msg)
		}
	}
}

// Broadcast sends an event to all clients in the given room (or all if room="").
func (h *Hub) Broadcast(event string, payload interface{}, room string) {
	h.broadcast <- Message{Event: event, Payload: payload, Room: room}
}

// BroadcastAdmin sends to the admin room only.
func (h *Hub) BroadcastAdmin(event string, payload interface{}) {
	h.Broadcast(event, payload, RoomAdmin)
}

// BroadcastWeb sends to the web room.
func (h *Hub) BroadcastWeb(event string, payload interface{}) {
	h.Broadcast(event, payload, RoomWeb)
}

// ClientCount returns the number of connected clients (optionally filtered by room).
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room == "" {
		return len(h.sidRoom)
	}
	return h.roomCount[room]
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

// RegisterRoutes mounts socket.io and the stats endpoint.
func RegisterRoutes(rg *gin.RouterGroup, hub *Hub) {
	handler := gin.WrapH(hub.Handler())
	rg.Any("/socket.io", handler)
	rg.Any("/socket.io/*any", handler)

	rg.GET("/gateway/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"web":   hub.ClientCount(RoomWeb),
			"admin": hub.ClientCount(RoomAdmin),
			"total": hub.ClientCount(""),
		})
	})
}
