package memory

import (
	"errors"
	"os"
	"strings"
	"time"

	"vox-tutor-be/internal/pkg/logger"
	"vox-tutor-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrEmptyDocument is returned when a session is created from a document
// whose extracted text is empty or whitespace-only.
var ErrEmptyDocument = errors.New("document text is empty")

// ISessionRepository is the contract for the ephemeral session store.
// Entries live for a fixed TTL measured from creation; there is no
// sliding expiration.
type ISessionRepository interface {
	Create(text, sourceName, filePath string, pages int) (*store.Session, error)
	Get(sessionID string) (*store.Session, bool)
	Evict(sessionID string)
}

type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
	log   logger.ILogger
}

// NewSessionRepository builds a go-cache backed store. go-cache checks
// expiry on every Get, so a lookup past the TTL misses even before the
// sweeper runs. The eviction hook removes the persisted upload file;
// a failed removal is logged and swallowed.
func NewSessionRepository(ttl, sweepInterval time.Duration, log logger.ILogger) *SessionRepository {
	c := cache.New(ttl, sweepInterval)
	r := &SessionRepository{
		cache: c,
		ttl:   ttl,
		log:   log,
	}
	c.OnEvicted(func(id string, v interface{}) {
		session, ok := v.(*store.Session)
		if !ok || session.FilePath == "" {
			return
		}
		if err := os.Remove(session.FilePath); err != nil && !os.IsNotExist(err) {
			r.log.Warn("session", "failed to remove upload for evicted session", map[string]interface{}{
				"session_id": id,
				"file_path":  session.FilePath,
				"error":      err.Error(),
			})
		}
	})
	return r
}

func (r *SessionRepository) Create(text, sourceName, filePath string, pages int) (*store.Session, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	now := time.Now()
	session := &store.Session{
		ID:         uuid.New().String(),
		SourceName: sourceName,
		FilePath:   filePath,
		Text:       text,
		Pages:      pages,
		CreatedAt:  now,
		ExpiresAt:  now.Add(r.ttl),
	}
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return session, nil
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Evict removes the session. Deleting an unknown id is a no-op.
func (r *SessionRepository) Evict(sessionID string) {
	r.cache.Delete(sessionID)
}
