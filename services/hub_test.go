package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialAttempt(t *testing.T, hub *Hub, attemptID string, userID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, attemptID, userID)
	}))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg.Type, msg.Payload
}

func TestHubPushesAttemptEvents(t *testing.T) {
	f := newFixture()
	_, err := f.service.StartAttempt(context.Background(), 7, &StartAttemptRequest{QuizID: 1})
	require.NoError(t, err)

	hub := NewHub(f.service)
	f.service.SetNotifier(hub)
	go hub.Run()

	conn := dialAttempt(t, hub, "attempt-1", 7)

	kind, payload := readMessage(t, conn)
	require.Equal(t, "attempt_state", kind)
	var view AttemptView
	require.NoError(t, json.Unmarshal(payload, &view))
	assert.Equal(t, "attempt-1", view.AttemptID)
	assert.Len(t, view.JumpTable, 3)
	assert.Equal(t, 1, hub.ConnectedClients("attempt-1"))
	assert.Equal(t, 0, hub.ConnectedClients("attempt-2"))

	_, err = f.service.SubmitAnswer(context.Background(), "attempt-1", 7, &SubmitAnswerRequest{QuestionID: 1, OptionID: 11})
	require.NoError(t, err)
	kind, payload = readMessage(t, conn)
	require.Equal(t, "answer_committed", kind)
	var commit CommitView
	require.NoError(t, json.Unmarshal(payload, &commit))
	assert.True(t, commit.IsCorrect)

	_, err = f.service.Next(context.Background(), "attempt-1", 7)
	require.NoError(t, err)
	kind, _ = readMessage(t, conn)
	assert.Equal(t, "cursor_moved", kind)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	kind, _ = readMessage(t, conn)
	assert.Equal(t, "pong", kind)

	require.NoError(t, conn.WriteJSON(Message{Type: "request_state"}))
	kind, payload = readMessage(t, conn)
	require.Equal(t, "attempt_state", kind)
	require.NoError(t, json.Unmarshal(payload, &view))
	assert.Equal(t, 1, view.CurrentIndex)
	assert.Equal(t, 1, view.Progress.AnsweredCount)
}
