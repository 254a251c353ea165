package models

import "time"

// CaptureType identifies how a capture entered the system
type CaptureType string

const (
	CaptureTypeText    CaptureType = "text"
	CaptureTypeLink    CaptureType = "link"
	CaptureTypeWebClip CaptureType = "webclip"
	CaptureTypeFile    CaptureType = "file"
)

// IsValid returns true for a known capture type
func (t CaptureType) IsValid() bool {
	switch t {
	case CaptureTypeText, CaptureTypeLink, CaptureTypeWebClip, CaptureTypeFile:
		return true
	}
	return false
}

// Capture is a raw inbox entry: text, a link, a clipped web page, or an
// uploaded file. Captures are promoted to notes by the user.
type Capture struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Type      CaptureType `json:"type"`
	Content   string      `json:"content,omitempty"` // Text body or clipped markdown
	SourceURL string      `json:"source_url,omitempty"`
	Title     string      `json:"title,omitempty"`
	MediaID   *string     `json:"media_id,omitempty"` // Set for file captures
	CreatedAt time.Time   `json:"created_at"`
}
