package store

import "time"

// Session represents the in-memory state for one ingested document.
// It is owned by the session repository; callers receive it for the
// duration of a single request and must not retain the text beyond that.
type Session struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"` // original upload filename, display only
	FilePath   string    `json:"-"`           // persisted upload on disk, removed on eviction
	Text       string    `json:"-"`           // extracted plain text
	Pages      int       `json:"pages"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
