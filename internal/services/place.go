package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

// PlaceService handles the shared memory map
type PlaceService struct {
	places   repository.PlaceRepository
	guard    CoupleGuard
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewPlaceService creates a new place service
func NewPlaceService(places repository.PlaceRepository, guard CoupleGuard, notifier Notifier, loc *time.Location) *PlaceService {
	return &PlaceService{
		places:   places,
		guard:    guard,
		notifier: orNop(notifier),
		loc:      loc,
		now:      time.Now,
	}
}

// PlaceInput carries place fields; nil fields are left unchanged on update.
type PlaceInput struct {
	CoupleID    string    `json:"coupleId,omitempty"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Memories    *string   `json:"memories"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Address     *string   `json:"address"`
	VisitDate   *string   `json:"visitDate"`
	Rating      *int      `json:"rating"`
	Photos      *[]string `json:"photos"`
}

// coupleFor resolves the couple a place request targets. An explicit coupleID
// must name a couple the caller belongs to.
func (s *PlaceService) coupleFor(ctx context.Context, userID, coupleID string) (*models.Couple, error) {
	if coupleID != "" {
		return s.guard.Authorize(ctx, userID, coupleID)
	}
	return s.guard.Resolve(ctx, userID)
}

// List returns the couple's places newest first.
func (s *PlaceService) List(ctx context.Context, userID, coupleID string) ([]*models.Place, error) {
	couple, err := s.coupleFor(ctx, userID, coupleID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.Place{}, nil
	}
	return s.places.ListByCouple(ctx, couple.ID)
}

// Memories returns the couple's places in map form.
func (s *PlaceService) Memories(ctx context.Context, userID, coupleID string) ([]Memory, error) {
	places, err := s.List(ctx, userID, coupleID)
	if err != nil {
		return nil, err
	}
	memories := make([]Memory, 0, len(places))
	for _, p := range places {
		memories = append(memories, ToMemory(p))
	}
	return memories, nil
}

// Create pins a new place.
func (s *PlaceService) Create(ctx context.Context, userID string, in PlaceInput) (*models.Place, error) {
	if trimmed(in.Name) == "" {
		return nil, validationError("Tên địa điểm là bắt buộc")
	}
	if in.Latitude == nil || in.Longitude == nil {
		return nil, validationError("Vĩ độ và kinh độ là bắt buộc")
	}
	if err := validateCoordinates(*in.Latitude, *in.Longitude); err != nil {
		return nil, err
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	couple, err := s.coupleFor(ctx, userID, in.CoupleID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, noCoupleError()
	}

	now := s.now()
	place := &models.Place{
		ID:          uuid.New().String(),
		CoupleID:    couple.ID,
		CreatedBy:   userID,
		Name:        trimmed(in.Name),
		Description: trimmed(in.Description),
		Memories:    trimmed(in.Memories),
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		Address:     trimmed(in.Address),
		Rating:      in.Rating,
		Photos:      stringList(in.Photos),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.VisitDate != nil {
		if place.VisitDate, err = parseOptionalDate(*in.VisitDate, s.loc); err != nil {
			return nil, err
		}
	}

	if err := s.places.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceCreated,
		Resource:   "places",
		ResourceID: place.ID,
	})
	return place, nil
}

// Update applies the supplied fields to a place.
func (s *PlaceService) Update(ctx context.Context, userID, id string, in PlaceInput) (*models.Place, error) {
	place, couple, err := loadOwned(ctx, s.guard, userID, id, "Place", s.places.GetByID,
		func(p *models.Place) string { return p.CoupleID })
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationError("Tên địa điểm là bắt buộc")
		}
		place.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		place.Description = strings.TrimSpace(*in.Description)
	}
	if in.Memories != nil {
		place.Memories = strings.TrimSpace(*in.Memories)
	}
	if in.Latitude != nil {
		place.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		place.Longitude = *in.Longitude
	}
	if err := validateCoordinates(place.Latitude, place.Longitude); err != nil {
		return nil, err
	}
	if in.Address != nil {
		place.Address = strings.TrimSpace(*in.Address)
	}
	if in.VisitDate != nil {
		if place.VisitDate, err = parseOptionalDate(*in.VisitDate, s.loc); err != nil {
			return nil, err
		}
	}
	if in.Rating != nil {
		if err := validateRating(in.Rating); err != nil {
			return nil, err
		}
		place.Rating = in.Rating
	}
	if in.Photos != nil {
		place.Photos = stringList(in.Photos)
	}
	place.UpdatedAt = s.now()

	if err := s.places.Update(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to update place: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "places",
		ResourceID: place.ID,
	})
	return place, nil
}

// Delete removes a place.
func (s *PlaceService) Delete(ctx context.Context, userID, id string) error {
	place, couple, err := loadOwned(ctx, s.guard, userID, id, "Place", s.places.GetByID,
		func(p *models.Place) string { return p.CoupleID })
	if err != nil {
		return err
	}
	if err := s.places.Delete(ctx, place.ID); err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceDeleted,
		Resource:   "places",
		ResourceID: place.ID,
	})
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return validationError("Tọa độ không hợp lệ")
	}
	return nil
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return validationError("Đánh giá phải từ 1 đến 5")
	}
	return nil
}
