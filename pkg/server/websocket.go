package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fluakademi/coursebot/pkg/models"
)

// WebSocket protocol message types, mirrored by the web client.
const (
	msgTypeThinking = "bot_thinking"
	msgTypeStart    = "bot_start"
	msgTypeChunk    = "bot_chunk"
	msgTypeComplete = "bot_complete"
	msgTypeError    = "error"
)

const (
	msgThinking = "🤔 Model analiz ediyor..."
	msgNotReady = "❌ Chatbot henüz hazır değil. Lütfen bekleyin."
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type clientMessage struct {
	Message string `json:"message"`
}

type serverMessage struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	FullContent string `json:"full_content,omitempty"`
}

// chatClient serializes writes to a single WebSocket connection.
// gorilla/websocket permits only one concurrent writer.
type chatClient struct {
	id         string
	conn       *websocket.Conn
	chunkDelay time.Duration

	mu sync.Mutex
}

func (c *chatClient) send(msg serverMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// ChatSocketHandler upgrades the connection and runs the chat loop:
// read a query, stream the agent's answer back, repeat until the client
// disconnects. Failures while answering are reported in-band as error
// messages; only write failures end the connection.
func ChatSocketHandler(appState *models.AppState) http.HandlerFunc {
	chunkDelay := time.Duration(appState.Config.Server.ChunkDelayMS) * time.Millisecond

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorf("websocket upgrade failed: %v", err)
			return
		}

		client := &chatClient{
			id:         uuid.New().String(),
			conn:       conn,
			chunkDelay: chunkDelay,
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		defer conn.Close()

		log.Infof("websocket client %s connected", client.id)
		defer log.Infof("websocket client %s disconnected", client.id)

		for {
			var incoming clientMessage
			if err := conn.ReadJSON(&incoming); err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
					websocket.CloseNoStatusReceived,
				) {
					log.Warnf("websocket client %s read failed: %v", client.id, err)
				}
				return
			}

			query := strings.TrimSpace(incoming.Message)
			if query == "" {
				continue
			}

			if err := client.answer(ctx, appState.Agent, query); err != nil {
				log.Warnf("websocket client %s write failed: %v", client.id, err)
				return
			}
		}
	}
}

// answer streams one response to the client. The returned error is
// non-nil only for transport failures.
func (c *chatClient) answer(ctx context.Context, agent models.Agent, query string) error {
	if err := c.send(serverMessage{Type: msgTypeThinking, Content: msgThinking}); err != nil {
		return err
	}

	if agent == nil || !agent.Ready() {
		return c.send(serverMessage{Type: msgTypeError, Content: msgNotReady})
	}

	if err := c.send(serverMessage{Type: msgTypeStart}); err != nil {
		return err
	}

	var full strings.Builder
	for chunk := range agent.RespondStream(ctx, query) {
		if chunk.Err != nil {
			return c.send(serverMessage{
				Type:    msgTypeError,
				Content: "❌ Hata: " + chunk.Err.Error(),
			})
		}
		if chunk.Content == "" {
			continue
		}

		full.WriteString(chunk.Content)
		if err := c.send(serverMessage{
			Type:        msgTypeChunk,
			Content:     chunk.Content,
			FullContent: full.String(),
		}); err != nil {
			return err
		}

		c.pace(ctx)
	}

	return c.send(serverMessage{Type: msgTypeComplete, Content: full.String()})
}

// pace slows chunk delivery slightly so the client renders a typing
// effect. Skipped when the connection context ends.
func (c *chatClient) pace(ctx context.Context) {
	if c.chunkDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.chunkDelay):
	case <-ctx.Done():
	}
}
