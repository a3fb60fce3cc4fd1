// Package hub provides the room-scoped broadcast layer that keeps host
// and participants synchronized. It is transport-agnostic: members are
// buffered event channels that any connection type can drain.
package hub

import (
	"log/slog"
	"sync"

	"github.com/quizwire/quizwire/internal/model"
)

// RoomKind distinguishes the two room classes of a session
type RoomKind string

const (
	// RoomParticipants is the room of all joined players
	RoomParticipants RoomKind = "participants"
	// RoomHost is the room of the controlling host connection and observers
	RoomHost RoomKind = "host"
)

// Room is a typed broadcast scope for one session
type Room struct {
	Kind RoomKind
	Code model.SessionCode
}

// ParticipantRoom returns the participant room for a session code
func ParticipantRoom(code model.SessionCode) Room {
	return Room{Kind: RoomParticipants, Code: code}
}

// HostRoom returns the host room for a session code
func HostRoom(code model.SessionCode) Room {
	return Room{Kind: RoomHost, Code: code}
}

// Envelope is one named event with its payload
type Envelope struct {
	Event   model.EventType `json:"type"`
	Payload any             `json:"payload"`
}

// memberBufferSize is the per-member outbound queue depth
const memberBufferSize = 64

// Member is one subscriber's outbound queue. A member belongs to at most
// one room at a time; close it only after unsubscribing.
type Member struct {
	id        string
	send      chan Envelope
	closeOnce sync.Once
}

// NewMember creates a member with the given identifier (used in logs)
func NewMember(id string) *Member {
	return &Member{
		id:   id,
		send: make(chan Envelope, memberBufferSize),
	}
}

// Events returns the channel the member's connection drains
func (m *Member) Events() <-chan Envelope {
	return m.send
}

// Close releases the member's queue. Safe to call more than once.
func (m *Member) Close() {
	m.closeOnce.Do(func() {
		close(m.send)
	})
}

// Hub delivers events to every current member of a room. Late
// subscribers receive nothing retroactively: state that a new member
// needs is pulled explicitly, never replayed.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[Room]map[*Member]struct{}
}

// New creates an empty hub
func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With(slog.String("component", "hub")),
		rooms:  make(map[Room]map[*Member]struct{}),
	}
}

// Subscribe adds a member to a room
func (h *Hub) Subscribe(room Room, m *Member) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Member]struct{})
		h.rooms[room] = members
	}
	members[m] = struct{}{}
}

// Unsubscribe removes a member from a room. The room itself is dropped
// once empty so torn-down sessions leave nothing behind.
func (h *Hub) Unsubscribe(room Room, m *Member) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, m)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Publish enqueues an event to every current member of a room and
// returns once enqueued everywhere. Delivery is fire-and-forget for the
// publisher: a member with a full queue has the event dropped with a
// warning rather than blocking or failing the publish for the rest.
func (h *Hub) Publish(room Room, event model.EventType, payload any) {
	env := Envelope{Event: event, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for m := range h.rooms[room] {
		select {
		case m.send <- env:
		default:
			h.logger.Warn("event dropped, member buffer full",
				slog.String("member", m.id),
				slog.String("room_kind", string(room.Kind)),
				slog.String("code", string(room.Code)),
				slog.String("event", string(event)))
		}
	}
}

// MemberCount returns the number of members in a room
func (h *Hub) MemberCount(room Room) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// CloseRoom unsubscribes and closes every member of a room, for session
// teardown
func (h *Hub) CloseRoom(room Room) {
	h.mu.Lock()
	members := h.rooms[room]
	delete(h.rooms, room)
	h.mu.Unlock()

	for m := range members {
		m.Close()
	}
}
