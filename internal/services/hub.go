package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"lovespace-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 10 * time.Second

// StateMessage is a WebSocket frame carrying the pairing state.
type StateMessage struct {
	Type string         `json:"type"`
	Data CoupleSnapshot `json:"data"`
}

// stateConn is the write side of a client connection. *websocket.Conn
// implements it.
type stateConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type hubSession struct {
	conn     stateConn
	observer *CoupleObserver

	// writeMu serializes frames onto conn. The observer's poll goroutine
	// and request-triggered refreshes both push snapshots, and the
	// websocket allows only one concurrent writer.
	writeMu sync.Mutex
}

// push sends one snapshot frame. Failures are logged; a broken socket is
// torn down by the read loop, not here.
func (s *hubSession) push(userID string, snapshot CoupleSnapshot) {
	data, err := json.Marshal(StateMessage{Type: "couple_state", Data: snapshot})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to marshal state message")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Failed to push couple state")
	}
}

// StateHub manages WebSocket connections and one couple observer per
// connected user. Each observer polls for pairing changes and its snapshots
// are pushed to the user's socket.
type StateHub struct {
	mu       sync.RWMutex
	sessions map[string]*hubSession

	couples  *CoupleService
	avatars  *AvatarService
	interval time.Duration
}

// NewStateHub creates a new state hub
func NewStateHub(couples *CoupleService, avatars *AvatarService, pollInterval time.Duration) *StateHub {
	return &StateHub{
		sessions: make(map[string]*hubSession),
		couples:  couples,
		avatars:  avatars,
		interval: pollInterval,
	}
}

// Register attaches a connection for a user and starts observing their
// pairing state. An existing connection for the same user is replaced.
func (h *StateHub) Register(userID string, conn stateConn) {
	session := &hubSession{conn: conn}
	session.observer = NewCoupleObserver(h.couples, h.avatars, h.interval, func(snapshot CoupleSnapshot) {
		session.push(userID, snapshot)
	})

	h.mu.Lock()
	replaced := h.sessions[userID]
	h.sessions[userID] = session
	h.mu.Unlock()

	// Stopping the old observer waits for its poll goroutine, which can be
	// mid-write on a slow socket. The hub lock must not be held across
	// that wait or every other session queues behind it.
	if replaced != nil {
		replaced.observer.Stop()
		replaced.conn.Close()
	}

	session.observer.Start(userID)
	log.Info().Str("user_id", userID).Msg("State connection registered")
}

// Unregister stops the user's observer and closes their connection. The
// observer's poll cannot fire again after this returns.
func (h *StateHub) Unregister(userID string) {
	h.mu.Lock()
	session, ok := h.sessions[userID]
	if ok {
		delete(h.sessions, userID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	session.observer.Stop()
	session.conn.Close()
	log.Info().Str("user_id", userID).Msg("State connection unregistered")
}

// IsOnline checks if a user has a state connection
func (h *StateHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[userID]
	return ok
}

// Refresh forces an immediate state reload for a connected user, used after
// mutations that affect them from another account (e.g. their partner just
// joined). Offline users are covered by their next poll.
func (h *StateHub) Refresh(ctx context.Context, userID string) {
	if o := h.observerFor(userID); o != nil {
		o.Refresh(ctx)
	}
}

// CreateInvitation creates (or returns) the caller's invitation. A connected
// caller's own socket sees the operation in progress; an offline caller goes
// straight to the service.
func (h *StateHub) CreateInvitation(ctx context.Context, userID string) (*models.Couple, error) {
	if o := h.observerFor(userID); o != nil {
		return o.CreateInvitation(ctx)
	}
	return h.couples.CreateInvitation(ctx, userID)
}

// JoinCouple redeems an invite code for the caller; see CreateInvitation.
func (h *StateHub) JoinCouple(ctx context.Context, userID, code string) (*models.Couple, error) {
	if o := h.observerFor(userID); o != nil {
		return o.JoinCouple(ctx, code)
	}
	return h.couples.JoinCouple(ctx, userID, code)
}

// UpdateAvatar updates the caller's avatar; see CreateInvitation.
func (h *StateHub) UpdateAvatar(ctx context.Context, userID string, data models.AvatarData) error {
	if o := h.observerFor(userID); o != nil {
		return o.UpdateAvatar(ctx, data)
	}
	return h.avatars.UpdateAvatar(ctx, userID, data)
}

func (h *StateHub) observerFor(userID string) *CoupleObserver {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if session, ok := h.sessions[userID]; ok {
		return session.observer
	}
	return nil
}
