// journal.go - Journal entries scoped to their owner

package store

import (
	"context"

	"gorm.io/gorm"

	"go-journal-backend/models"
)

// Journal stores journal entries; every method is scoped to the owner.
type Journal struct {
	scoped scoped[models.JournalEntry]
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{scoped: scoped[models.JournalEntry]{
		db:       db,
		name:     "entry",
		notFound: "Entry not found",
		order:    "created_at DESC",
	}}
}

// Create stamps owner onto entry and stores it. Any id or owner the caller
// put on entry is discarded.
func (j *Journal) Create(ctx context.Context, owner string, entry models.JournalEntry) (models.JournalEntry, error) {
	if err := requireOwner(owner); err != nil {
		return models.JournalEntry{}, err
	}

	entry.ID = ""
	entry.UserID = owner
	entry.Tags = entry.Tags.Normalize()

	if err := j.scoped.create(ctx, &entry); err != nil {
		return models.JournalEntry{}, err
	}
	return entry, nil
}

// List returns the owner's entries, newest first, keeping only those that
// carry every tag in tags.
func (j *Journal) List(ctx context.Context, owner string, tags models.Tags) ([]models.JournalEntry, error) {
	entries, err := j.scoped.list(ctx, owner)
	if err != nil || len(tags) == 0 {
		return entries, err
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Tags.HasAll(tags) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (j *Journal) Get(ctx context.Context, owner, id string) (models.JournalEntry, error) {
	return j.scoped.get(ctx, owner, id)
}

func (j *Journal) Update(ctx context.Context, owner, id string, patch models.JournalPatch) (models.JournalEntry, error) {
	return j.scoped.update(ctx, owner, id, func(e *models.JournalEntry) { patch.Apply(e) })
}

func (j *Journal) Delete(ctx context.Context, owner, id string) error {
	return j.scoped.delete(ctx, owner, id)
}
