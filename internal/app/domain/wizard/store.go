package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

// SessionStore keeps live wizard sessions in memory with a TTL, so an
// abandoned wizard expires instead of leaking. Sessions are process
// local by design; nothing here survives a restart.
type SessionStore struct {
	sessions *gocache.Cache
	locks    sync.Map // session id -> *sync.Mutex
	logger   *zap.Logger
}

// NewSessionStore creates a store expiring sessions ttl after their
// last write.
func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		sessions: gocache.New(ttl, ttl/2),
		logger:   logger,
	}
}

// Create starts a fresh session at the first step.
func (s *SessionStore) Create() *models.WizardSession {
	now := time.Now()
	sess := &models.WizardSession{
		ID:        uuid.New(),
		Step:      models.StepLocationInput,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions.SetDefault(sess.ID.String(), sess)
	s.logger.Debug("Wizard session created", zap.String("session_id", sess.ID.String()))
	return sess
}

// Get returns the live session for id, or ErrSessionNotFound when it
// never existed or already expired.
func (s *SessionStore) Get(id uuid.UUID) (*models.WizardSession, error) {
	v, found := s.sessions.Get(id.String())
	if !found {
		return nil, models.ErrSessionNotFound
	}
	return v.(*models.WizardSession), nil
}

// Save writes the session back, resetting its expiry window.
func (s *SessionStore) Save(sess *models.WizardSession) {
	sess.UpdatedAt = time.Now()
	s.sessions.SetDefault(sess.ID.String(), sess)
}

// Lock serializes transitions for one session id, so two concurrent
// advances on the same session cannot interleave. Returns the unlock.
func (s *SessionStore) Lock(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id.String(), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Delete removes the session immediately.
func (s *SessionStore) Delete(id uuid.UUID) {
	s.sessions.Delete(id.String())
	s.locks.Delete(id.String())
}

// Count reports the number of live sessions.
func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}

// parseSessionID treats a malformed id the same as an unknown one.
func parseSessionID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, models.ErrSessionNotFound
	}
	return uid, nil
}
