package models

import "time"

// Note is the central record of the knowledge base. Captured content and
// AI-processed results both attach to a note.
type Note struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AreaID    *string    `json:"area_id,omitempty"`    // PARA area this note belongs to
	ProjectID *string    `json:"project_id,omitempty"` // PARA project this note belongs to
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// DailyNote is the journal entry for a single calendar date.
// At most one exists per user per date.
type DailyNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // "2006-01-02"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
