package models

import "time"

// Media is an uploaded file stored on the local filesystem with its
// metadata row in SQLite. FilePath is relative to the upload directory.
type Media struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	NoteID      *string   `json:"note_id,omitempty"`
	FileName    string    `json:"file_name"` // Original client file name
	FilePath    string    `json:"file_path"` // Stored name under the upload dir
	MimeType    string    `json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	IsProcessed bool      `json:"is_processed"` // Set after a processing job completes
	CreatedAt   time.Time `json:"created_at"`
}
