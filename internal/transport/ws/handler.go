// Package ws is the websocket transport for live sessions. Each
// connection is one hub member plus a read loop; every write goes
// through a single writer goroutine so the connection never sees
// concurrent writes.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizwire/quizwire/internal/coordinator"
	"github.com/quizwire/quizwire/internal/hub"
	"github.com/quizwire/quizwire/internal/model"
)

// Handler upgrades HTTP requests and bridges them to the coordinator
type Handler struct {
	coordinator *coordinator.Coordinator
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHandler creates a websocket handler
func NewHandler(coord *coordinator.Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// inboundMessage is the envelope clients send
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type submitPayload struct {
	QuestionID        int   `json:"question_id"`
	SelectedOptionIDs []int `json:"selected_option_ids"`
	ElapsedMs         int64 `json:"elapsed_ms"`
}

type advancePayload struct {
	Index int `json:"index"`
}

func errorEnvelope(err error) hub.Envelope {
	return hub.Envelope{
		Event: model.EventError,
		Payload: model.ErrorPayload{
			Kind:    model.ErrorKind(err),
			Message: err.Error(),
		},
	}
}

// connection pairs a hub member with a unicast lane. Broadcasts arrive
// through the member; replies to this client alone go through direct.
// The writer goroutine drains both.
type connection struct {
	member *hub.Member
	direct chan hub.Envelope
	done   chan struct{}
}

func newConnection(id string) *connection {
	return &connection{
		member: hub.NewMember(id),
		direct: make(chan hub.Envelope, 16),
		done:   make(chan struct{}),
	}
}

// send queues a unicast envelope, dropping it if the writer is gone
func (c *connection) send(env hub.Envelope) {
	select {
	case c.direct <- env:
	case <-c.done:
	}
}

// writeLoop is the sole writer on the socket. It exits when both the
// member's queue is closed (room teardown or unsubscribe) and no more
// unicast traffic can arrive, or on the first write error.
func (h *Handler) writeLoop(conn *websocket.Conn, c *connection) {
	defer close(c.done)

	events := c.member.Events()
	for {
		select {
		case env, ok := <-events:
			if !ok {
				// Room closed under us; tell the client and finish.
				deadline := time.Now().Add(time.Second)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"), deadline)
				return
			}
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case env := <-c.direct:
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		}
	}
}

// ServePlay handles participant connections: /ws/play?code=X&name=Y.
// The participant joins on connect, receives the joined event, and may
// then send submit messages for the lifetime of the socket.
func (h *Handler) ServePlay(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(r.URL.Query().Get("code"))
	nickname := r.URL.Query().Get("name")
	if code == "" || nickname == "" {
		http.Error(w, "missing code or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	joined, err := h.coordinator.Join(code, nickname)
	if err != nil {
		_ = conn.WriteJSON(errorEnvelope(err))
		return
	}

	logger := h.logger.With(
		slog.String("code", string(code)),
		slog.Int("participant_id", int(joined.ParticipantID)))
	logger.Info("participant connected", slog.String("nickname", nickname))

	room := hub.ParticipantRoom(code)
	c := newConnection(fmt.Sprintf("play:%s:%d", code, joined.ParticipantID))
	h.coordinator.Hub().Subscribe(room, c.member)

	go h.writeLoop(conn, c)

	c.send(hub.Envelope{Event: model.EventJoined, Payload: joined})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "submit":
			var payload submitPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.send(hub.Envelope{Event: model.EventError, Payload: model.ErrorPayload{
					Kind:    "BadRequest",
					Message: "invalid submit payload",
				}})
				continue
			}

			ack, err := h.coordinator.Submit(code, joined.ParticipantID,
				payload.QuestionID, payload.SelectedOptionIDs,
				time.Duration(payload.ElapsedMs)*time.Millisecond)
			if err != nil {
				c.send(errorEnvelope(err))
				continue
			}
			c.send(hub.Envelope{Event: model.EventAnswerAck, Payload: ack})

		default:
			c.send(hub.Envelope{Event: model.EventError, Payload: model.ErrorPayload{
				Kind:    "BadRequest",
				Message: "unsupported message type: " + inbound.Type,
			}})
		}
	}

	h.coordinator.Hub().Unsubscribe(room, c.member)
	c.member.Close()
	h.coordinator.MarkDisconnected(code, joined.ParticipantID)
	logger.Info("participant disconnected")
}

// ServeHost handles host connections: /ws/host?code=X&host_id=Y. The
// host receives the full quiz snapshot on attach and drives the session
// with start, advance, request_leaderboard, and end messages. Host
// identity is verified per operation by the session itself.
func (h *Handler) ServeHost(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(r.URL.Query().Get("code"))
	hostID := r.URL.Query().Get("host_id")
	if code == "" || hostID == "" {
		http.Error(w, "missing code or host_id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	quiz, err := h.coordinator.QuizData(code)
	if err != nil {
		_ = conn.WriteJSON(errorEnvelope(err))
		return
	}

	logger := h.logger.With(slog.String("code", string(code)), slog.String("host_id", hostID))
	logger.Info("host connected")

	room := hub.HostRoom(code)
	c := newConnection(fmt.Sprintf("host:%s:%s", code, hostID))
	h.coordinator.Hub().Subscribe(room, c.member)

	go h.writeLoop(conn, c)

	c.send(hub.Envelope{Event: model.EventQuizData, Payload: model.QuizDataPayload{Quiz: quiz}})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "start":
			if err := h.coordinator.Start(code, hostID); err != nil {
				c.send(errorEnvelope(err))
			}

		case "advance":
			var payload advancePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.send(hub.Envelope{Event: model.EventError, Payload: model.ErrorPayload{
					Kind:    "BadRequest",
					Message: "invalid advance payload",
				}})
				continue
			}
			if err := h.coordinator.Advance(code, hostID, payload.Index); err != nil {
				c.send(errorEnvelope(err))
			}

		case "request_leaderboard":
			if _, err := h.coordinator.RequestLeaderboard(code); err != nil {
				c.send(errorEnvelope(err))
			}

		case "end":
			if err := h.coordinator.End(r.Context(), code, hostID); err != nil {
				c.send(errorEnvelope(err))
			}

		default:
			c.send(hub.Envelope{Event: model.EventError, Payload: model.ErrorPayload{
				Kind:    "BadRequest",
				Message: "unsupported message type: " + inbound.Type,
			}})
		}
	}

	h.coordinator.Hub().Unsubscribe(room, c.member)
	c.member.Close()
	logger.Info("host disconnected")
}
