package models

import (
	"fmt"
	"time"
)

// ParaKind classifies an item within the PARA taxonomy
type ParaKind string

const (
	ParaKindProject  ParaKind = "project"
	ParaKindArea     ParaKind = "area"
	ParaKindResource ParaKind = "resource"
	ParaKindArchive  ParaKind = "archive"
)

// IsValid returns true for a known PARA kind
func (k ParaKind) IsValid() bool {
	switch k {
	case ParaKindProject, ParaKindArea, ParaKindResource, ParaKindArchive:
		return true
	}
	return false
}

// ParaItem is a single entry in the user's PARA taxonomy. All four kinds
// share one table; archiving moves an item to the archive kind.
type ParaItem struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Kind        ParaKind   `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// Archive moves the item into the archive kind. Archiving an archive is
// rejected so ArchivedAt is recorded at most once.
func (p *ParaItem) Archive() error {
	if p.Kind == ParaKindArchive {
		return fmt.Errorf("item %s is already archived", p.ID)
	}
	now := time.Now().UTC()
	p.Kind = ParaKindArchive
	p.ArchivedAt = &now
	p.UpdatedAt = now
	return nil
}
