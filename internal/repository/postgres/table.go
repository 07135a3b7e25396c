// Package postgres implements the repository contracts with gorm on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"couple-journal-backend/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalidTextRepresentation is raised when an id is not a valid uuid literal.
const invalidTextRepresentation = "22P02"

// table wraps the CRUD calls shared by every entity.
type table[T any] struct {
	db   *gorm.DB
	name string
}

func (t table[T]) create(ctx context.Context, row *T) error {
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return t.wrap("create", err)
	}
	return nil
}

func (t table[T]) get(ctx context.Context, id string) (*T, error) {
	var row T
	if err := t.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || malformedID(err) {
			return nil, fmt.Errorf("%s %s: %w", t.name, id, repository.ErrNotFound)
		}
		return nil, t.wrap("get", err)
	}
	return &row, nil
}

func (t table[T]) list(ctx context.Context, order, query string, args ...any) ([]*T, error) {
	rows := []*T{}
	if err := t.db.WithContext(ctx).Where(query, args...).Order(order).Order("id").Find(&rows).Error; err != nil {
		return nil, t.wrap("list", err)
	}
	return rows, nil
}

func (t table[T]) save(ctx context.Context, row *T) error {
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return t.wrap("update", err)
	}
	return nil
}

func (t table[T]) delete(ctx context.Context, id string) error {
	var row T
	result := t.db.WithContext(ctx).Where("id = ?", id).Delete(&row)
	if result.Error != nil && !malformedID(result.Error) {
		return t.wrap("delete", result.Error)
	}
	if result.Error != nil || result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", t.name, id, repository.ErrNotFound)
	}
	return nil
}

func (t table[T]) wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to %s %s: %w", op, t.name, repository.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s %s: %w", op, t.name, err)
}

// malformedID reports whether Postgres rejected a lookup key that cannot name
// any row.
func malformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
