package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

// loadOwned fetches a couple-scoped record and checks that userID is a member
// of the couple that owns it.
func loadOwned[T any](
	ctx context.Context,
	guard CoupleGuard,
	userID, id, what string,
	get func(context.Context, string) (*T, error),
	coupleOf func(*T) string,
) (*T, *models.Couple, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil, validationError("%s id is required", what)
	}
	if !validID(id) {
		return nil, nil, notFoundError("%s not found", what)
	}
	row, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, notFoundError("%s not found", what)
		}
		return nil, nil, fmt.Errorf("failed to get %s: %w", strings.ToLower(what), err)
	}
	couple, err := guard.Authorize(ctx, userID, coupleOf(row))
	if err != nil {
		return nil, nil, err
	}
	return row, couple, nil
}

// validID reports whether id has the shape of a stored record id.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func stringList(list *[]string) []string {
	if list == nil || *list == nil {
		return []string{}
	}
	out := make([]string, len(*list))
	copy(out, *list)
	return out
}
