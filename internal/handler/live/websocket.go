package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/model/form"
	formService "github.com/zhouzirui/exonizer/internal/service/form"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler WebSocket表单事件处理器
type WebSocketHandler struct {
	formSvc  *formService.Service
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(formSvc *formService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		formSvc: formSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logging.GetLogger(),
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// InputMessage 输入事件
type InputMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// StatePayload carries a snapshot; Accepted is set only in replies to a
// rejected input event so the client can revert its text box.
type StatePayload struct {
	form.Snapshot
	Accepted *bool `json:"accepted,omitempty"`
}

// connection serializes writes; gorilla connections allow one writer.
type connection struct {
	ws        *websocket.Conn
	sessionID string
	mu        sync.Mutex
	log       *logrus.Entry
}

func (c *connection) send(msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(msg); err != nil {
		c.log.WithError(err).Debug("[websocket] write failed")
	}
}

func (c *connection) sendError(message string) {
	c.send("error", map[string]string{"message": message})
}

func (c *connection) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	snap, err := h.formSvc.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	updates, unsubscribe, err := h.formSvc.Subscribe(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("[websocket] upgrade failed")
		return
	}
	defer ws.Close()

	conn := &connection{
		ws:        ws,
		sessionID: sessionID,
		log:       h.log.WithField("session", sessionID),
	}
	conn.log.Info("[websocket] new connection")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)
	go h.pushLoop(ctx, conn, updates)

	conn.send("state", StatePayload{Snapshot: snap})

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				conn.log.WithError(err).Warn("[websocket] read error")
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		h.handleMessage(ctx, conn, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *connection, msg *inboundMessage) {
	switch msg.Type {
	case "input":
		h.handleInput(ctx, conn, msg.Data)
	case "submit":
		h.handleSubmit(ctx, conn)
	case "copy":
		h.handleCopy(ctx, conn)
	default:
		conn.sendError("unsupported message type: " + msg.Type)
	}
}

func (h *WebSocketHandler) handleInput(ctx context.Context, conn *connection, raw json.RawMessage) {
	var input InputMessage
	if err := json.Unmarshal(raw, &input); err != nil {
		conn.sendError("invalid input payload")
		return
	}

	snap, accepted, err := h.formSvc.Input(ctx, conn.sessionID, input.Text)
	if err != nil {
		conn.sendError(err.Error())
		return
	}
	if !accepted {
		// Accepted changes arrive through the subscription.
		conn.send("state", StatePayload{Snapshot: snap, Accepted: &accepted})
	}
}

// handleSubmit runs the request off the read loop so keystrokes keep
// flowing; the LOADING and IDLE snapshots arrive through the subscription.
func (h *WebSocketHandler) handleSubmit(ctx context.Context, conn *connection) {
	go func() {
		if _, err := h.formSvc.Submit(ctx, conn.sessionID); err != nil {
			if errors.Is(err, formService.ErrSubmitDisabled) {
				conn.sendError("submit disabled")
				return
			}
			conn.sendError(err.Error())
		}
	}()
}

func (h *WebSocketHandler) handleCopy(ctx context.Context, conn *connection) {
	text, err := h.formSvc.Copy(ctx, conn.sessionID)
	if err != nil {
		conn.sendError(err.Error())
		return
	}
	conn.send("copy", map[string]string{"text": text})
}

// pushLoop forwards session snapshots to the client. A snapshot carrying an
// alert is preceded by a dedicated alert message.
func (h *WebSocketHandler) pushLoop(ctx context.Context, conn *connection, updates <-chan form.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				conn.log.Info("[websocket] session closed")
				conn.mu.Lock()
				_ = conn.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session expired"),
					time.Now().Add(writeTimeout))
				conn.mu.Unlock()
				return
			}
			if snap.Alert != "" {
				conn.send("alert", map[string]string{"message": snap.Alert})
			}
			conn.send("state", StatePayload{Snapshot: snap})
		}
	}
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
