// journal.go - Defines the JournalEntry model

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"userId"` // owner, set once on create
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Date      string    `gorm:"not null" json:"date"`
	Category  string    `json:"category,omitempty"`
	Tags      Tags      `gorm:"serializer:json" json:"tags"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// JournalPatch carries the fields of a partial update; nil means unchanged.
// The owner is deliberately absent.
type JournalPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Date     *string `json:"date"`
	Category *string `json:"category"`
	Tags     *Tags   `json:"tags"`
}

func (p JournalPatch) Apply(e *JournalEntry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Tags != nil {
		e.Tags = p.Tags.Normalize()
	}
}
