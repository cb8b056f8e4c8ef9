package session

import (
	"errors"
	"sync"
	"time"

	"cerebrum-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrStaleFetch = errors.New("fetch belongs to a superseded session")
)

const (
	// completedRetention is how long a finished session stays readable,
	// so the review view keeps working after submission.
	completedRetention = 5 * time.Minute
	// maxGuestSessions bounds sessions without a user ID, which are never
	// replaced the way logged-in sessions are.
	maxGuestSessions = 1000
)

// Manager owns the live sessions. A user has at most one live session;
// starting a new quiz replaces the previous one and stops its timer. Each
// question fetch is stamped with the session ID it was started for, so a
// fetch that finishes after its session was replaced is discarded.
// Completed sessions are dropped after a retention window and guest
// sessions are capped, so the map stays bounded in a long-running server.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	byUser    map[string]string
	guestIDs  []string
	timeLimit time.Duration
	retention time.Duration
	maxGuests int

	onComplete func(*Session, models.QuizResult)
}

func NewManager(timeLimit time.Duration) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		byUser:    make(map[string]string),
		timeLimit: timeLimit,
		retention: completedRetention,
		maxGuests: maxGuestSessions,
	}
}

// SetCompletionHandler registers the callback invoked exactly once when a
// session completes, from either a user submit or a timer expiry.
func (m *Manager) SetCompletionHandler(fn func(*Session, models.QuizResult)) {
	m.onComplete = fn
}

// Begin creates a new session for the user and returns it. Questions are
// attached separately once the fetch finishes; until then the session
// tolerates snapshot calls but rejects answers, navigation and submission.
func (m *Manager) Begin(userID, userName string, categoryID int, categoryName, difficulty string) *Session {
	s := newSession(primitive.NewObjectID().Hex(), userID, userName, categoryID, categoryName, difficulty, m.timeLimit)
	s.onComplete = func(completed *Session, result models.QuizResult) {
		if m.onComplete != nil {
			m.onComplete(completed, result)
		}
		time.AfterFunc(m.retention, func() { m.remove(completed.ID) })
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if userID != "" {
		if oldID, ok := m.byUser[userID]; ok {
			if old, ok := m.sessions[oldID]; ok {
				old.stop()
			}
			delete(m.sessions, oldID)
		}
		m.byUser[userID] = s.ID
	}
	m.sessions[s.ID] = s
	if userID == "" {
		m.guestIDs = append(m.guestIDs, s.ID)
		m.evictGuestsLocked()
	}
	return s
}

// Attach delivers fetched questions to the session they were fetched for.
// If that session has been replaced in the meantime the questions are
// discarded and ErrStaleFetch is returned.
func (m *Manager) Attach(sessionID string, questions []models.Question) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()

	if !ok {
		return ErrStaleFetch
	}
	return s.attach(questions)
}

// Get returns the session with the given ID.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	delete(m.sessions, sessionID)
	if s.UserID != "" && m.byUser[s.UserID] == sessionID {
		delete(m.byUser, s.UserID)
	}
}

// evictGuestsLocked drops removed IDs from the guest list and stops the
// oldest guest sessions once the cap is exceeded.
func (m *Manager) evictGuestsLocked() {
	kept := m.guestIDs[:0]
	for _, id := range m.guestIDs {
		if _, ok := m.sessions[id]; ok {
			kept = append(kept, id)
		}
	}
	m.guestIDs = kept

	for len(m.guestIDs) > m.maxGuests {
		oldID := m.guestIDs[0]
		m.guestIDs = m.guestIDs[1:]
		if old, ok := m.sessions[oldID]; ok {
			old.stop()
			delete(m.sessions, oldID)
		}
	}
}
