// records.go - Activity records scoped to their owner

package store

import (
	"context"

	"gorm.io/gorm"

	"go-journal-backend/models"
)

// Records stores activity records; every method is scoped to the owner.
type Records struct {
	scoped scoped[models.ActivityRecord]
}

func NewRecords(db *gorm.DB) *Records {
	return &Records{scoped: scoped[models.ActivityRecord]{
		db:       db,
		name:     "record",
		notFound: "Record not found",
		order:    "date DESC, created_at DESC",
	}}
}

func (r *Records) Create(ctx context.Context, owner string, rec models.ActivityRecord) (models.ActivityRecord, error) {
	if err := requireOwner(owner); err != nil {
		return models.ActivityRecord{}, err
	}

	rec.ID = ""
	rec.UserID = owner
	rec.Tags = rec.Tags.Normalize()

	if err := r.scoped.create(ctx, &rec); err != nil {
		return models.ActivityRecord{}, err
	}
	return rec, nil
}

// List returns the owner's records by entry date, latest first.
func (r *Records) List(ctx context.Context, owner string, tags models.Tags) ([]models.ActivityRecord, error) {
	records, err := r.scoped.list(ctx, owner)
	if err != nil || len(tags) == 0 {
		return records, err
	}

	out := records[:0]
	for _, rec := range records {
		if rec.Tags.HasAll(tags) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Records) Get(ctx context.Context, owner, id string) (models.ActivityRecord, error) {
	return r.scoped.get(ctx, owner, id)
}

func (r *Records) Update(ctx context.Context, owner, id string, patch models.RecordPatch) (models.ActivityRecord, error) {
	return r.scoped.update(ctx, owner, id, func(rec *models.ActivityRecord) { patch.Apply(rec) })
}

func (r *Records) Delete(ctx context.Context, owner, id string) error {
	return r.scoped.delete(ctx, owner, id)
}
