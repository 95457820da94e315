package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/exonizer/internal/model/form"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
	formservice "github.com/zhouzirui/exonizer/internal/service/form"
)

type fixedHumanizer struct {
	result humanize.Result
}

func (f fixedHumanizer) Humanize(_ context.Context, _ string) humanize.Result {
	return f.result
}

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, result humanize.Result) (*websocket.Conn, *formservice.Service, string) {
	t.Helper()
	formSvc := formservice.NewService(fixedHumanizer{result: result})
	snap, err := formSvc.Create(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	NewWebSocketHandler(formSvc).RegisterWebSocketRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + snap.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, formSvc, snap.ID
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) StatePayload {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, "state", msg.Type)
	var payload StatePayload
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	return payload
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": msgType, "data": json.RawMessage(raw)}))
}

func TestWebSocketSubmitLifecycle(t *testing.T) {
	conn, _, _ := dial(t, humanize.Succeeded("Hi there"))

	initial := readState(t, conn)
	assert.False(t, initial.View.CanSubmit)

	send(t, conn, "input", InputMessage{Text: "Hello world"})
	typed := readState(t, conn)
	assert.Equal(t, "Hello world", typed.InputText)
	assert.True(t, typed.View.CanSubmit)

	send(t, conn, "submit", struct{}{})
	loading := readState(t, conn)
	assert.True(t, loading.IsLoading)
	assert.False(t, loading.View.CanSubmit)

	resolved := readState(t, conn)
	assert.False(t, resolved.IsLoading)
	assert.Equal(t, "Hi there", resolved.OutputText)

	send(t, conn, "copy", struct{}{})
	msg := readMessage(t, conn)
	require.Equal(t, "copy", msg.Type)
	var copied map[string]string
	require.NoError(t, json.Unmarshal(msg.Data, &copied))
	assert.Equal(t, "Hi there", copied["text"])
}

func TestWebSocketRejectedInputReplies(t *testing.T) {
	conn, _, _ := dial(t, humanize.Succeeded(""))
	readState(t, conn)

	full := strings.Repeat("a", form.CharacterLimit)
	send(t, conn, "input", InputMessage{Text: full})
	readState(t, conn)

	send(t, conn, "input", InputMessage{Text: full + "b"})
	rejected := readState(t, conn)
	require.NotNil(t, rejected.Accepted)
	assert.False(t, *rejected.Accepted)
	assert.Equal(t, full, rejected.InputText)
}

func TestWebSocketTransportFailureAlerts(t *testing.T) {
	conn, _, _ := dial(t, humanize.Unreachable(errors.New("connection refused")))
	readState(t, conn)

	send(t, conn, "input", InputMessage{Text: "Hello world"})
	readState(t, conn)

	send(t, conn, "submit", struct{}{})
	loading := readState(t, conn)
	assert.True(t, loading.IsLoading)

	alert := readMessage(t, conn)
	require.Equal(t, "alert", alert.Type)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(alert.Data, &payload))
	assert.Equal(t, form.TransportAlertMessage, payload["message"])

	resolved := readState(t, conn)
	assert.False(t, resolved.IsLoading)
	assert.False(t, resolved.HasError)
}

func TestWebSocketUnknownMessageType(t *testing.T) {
	conn, _, _ := dial(t, humanize.Succeeded(""))
	readState(t, conn)

	send(t, conn, "shout", struct{}{})
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
}
