// record.go - Defines the ActivityRecord model

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRecord is a logged self-care activity (breathing session, peer
// conversation, journaling, ...).
type ActivityRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index;not null" json:"userId"`
	Title       string    `json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `json:"type"`
	Date        string    `gorm:"index" json:"date"`
	Tags        Tags      `gorm:"serializer:json" json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ActivityRecord) TableName() string { return "records" }

func (r *ActivityRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type RecordPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Date        *string `json:"date"`
	Tags        *Tags   `json:"tags"`
}

func (p RecordPatch) Apply(r *ActivityRecord) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Tags != nil {
		r.Tags = p.Tags.Normalize()
	}
}
