// scoped.go - Generic owner-scoped CRUD over a gorm model

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-journal-backend/apperr"
)

// scoped runs every query on T filtered by (id, user_id). A row owned by
// someone else is reported exactly like a missing row.
type scoped[T any] struct {
	db       *gorm.DB
	name     string // used in op tags and messages
	notFound string
	order    string
}

func requireOwner(owner string) error {
	if owner == "" {
		return apperr.Unauthenticated("missing user identity", nil)
	}
	return nil
}

func parseID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Operational("invalid id", fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (s scoped[T]) create(ctx context.Context, rec *T) error {
	op := "store." + s.name + ".Create"

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return apperr.Operational("failed to save "+s.name, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (s scoped[T]) list(ctx context.Context, owner string) ([]T, error) {
	op := "store." + s.name + ".List"

	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	rows := make([]T, 0)
	if err := s.db.WithContext(ctx).Where("user_id = ?", owner).Order(s.order).Find(&rows).Error; err != nil {
		return nil, apperr.Operational("failed to load "+s.name, fmt.Errorf("%s: %w", op, err))
	}
	return rows, nil
}

func (s scoped[T]) get(ctx context.Context, owner, id string) (T, error) {
	return s.getTx(ctx, s.db, "store."+s.name+".Get", owner, id)
}

func (s scoped[T]) getTx(ctx context.Context, tx *gorm.DB, op, owner, id string) (T, error) {
	var rec T
	if err := requireOwner(owner); err != nil {
		return rec, err
	}
	if err := parseID(op, id); err != nil {
		return rec, err
	}

	err := tx.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&rec).Error
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return rec, apperr.NotFound(s.notFound)
	default:
		return rec, apperr.Operational("failed to load "+s.name, fmt.Errorf("%s: %w", op, err))
	}
}

// update loads the owner's row, applies the change and saves it in one
// transaction.
func (s scoped[T]) update(ctx context.Context, owner, id string, apply func(*T)) (T, error) {
	op := "store." + s.name + ".Update"

	var out T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.getTx(ctx, tx, op, owner, id)
		if err != nil {
			return err
		}
		apply(&rec)
		if err := tx.Save(&rec).Error; err != nil {
			return apperr.Operational("failed to update "+s.name, fmt.Errorf("%s: %w", op, err))
		}
		out = rec
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return out, err
		}
		return out, apperr.Operational("failed to update "+s.name, fmt.Errorf("%s: %w", op, err))
	}
	return out, nil
}

func (s scoped[T]) delete(ctx context.Context, owner, id string) error {
	op := "store." + s.name + ".Delete"

	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := parseID(op, id); err != nil {
		return err
	}

	var rec T
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&rec)
	if res.Error != nil {
		return apperr.Operational("failed to delete "+s.name, fmt.Errorf("%s: %w", op, res.Error))
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.notFound)
	}
	return nil
}
