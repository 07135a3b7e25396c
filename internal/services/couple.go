package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

// CoupleGuard resolves a user's couple and checks membership. It is consulted
// on every request; nothing is cached between requests.
type CoupleGuard interface {
	// Resolve returns the user's couple, or nil if the user has none.
	Resolve(ctx context.Context, userID string) (*models.Couple, error)
	// Require is Resolve but fails with a no-couple error when there is none.
	Require(ctx context.Context, userID string) (*models.Couple, error)
	// Authorize re-fetches the couple and fails unless userID is a member.
	Authorize(ctx context.Context, userID, coupleID string) (*models.Couple, error)
}

// CoupleService handles couple-related business logic
type CoupleService struct {
	coupleRepo repository.CoupleRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	loc        *time.Location
	now        func() time.Time
}

// NewCoupleService creates a new couple service
func NewCoupleService(coupleRepo repository.CoupleRepository, userRepo repository.UserRepository, notifier Notifier, loc *time.Location) *CoupleService {
	return &CoupleService{
		coupleRepo: coupleRepo,
		userRepo:   userRepo,
		notifier:   orNop(notifier),
		loc:        loc,
		now:        time.Now,
	}
}

// CreateCoupleRequest represents a request to create a couple
type CreateCoupleRequest struct {
	PartnerEmail string  `json:"partnerEmail"`
	Action       string  `json:"action"`
	StartDate    *string `json:"startDate"`
}

// UpdateCoupleRequest carries the couple fields a member may change
type UpdateCoupleRequest struct {
	StartDate       *string `json:"startDate"`
	AnniversaryDate *string `json:"anniversaryDate"`
	Goals           *string `json:"goals"`
}

// Resolve returns the couple where userID occupies either slot, or nil.
func (s *CoupleService) Resolve(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := s.coupleRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve couple: %w", err)
	}
	return couple, nil
}

// Require resolves the caller's couple or fails with guidance.
func (s *CoupleService) Require(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, noCoupleError()
	}
	return couple, nil
}

// Authorize checks that userID belongs to the couple owning a record.
func (s *CoupleService) Authorize(ctx context.Context, userID, coupleID string) (*models.Couple, error) {
	if !validID(coupleID) {
		return nil, forbiddenError()
	}
	couple, err := s.coupleRepo.GetByID(ctx, coupleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, forbiddenError()
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	if !couple.IsMember(userID) {
		return nil, forbiddenError()
	}
	return couple, nil
}

// CreateCouple links the caller with the account registered under partnerEmail.
// There is no acceptance step: the couple is active immediately.
func (s *CoupleService) CreateCouple(ctx context.Context, userID, partnerEmail string, startDate *string) (*models.Couple, error) {
	partnerEmail = strings.TrimSpace(partnerEmail)
	if partnerEmail == "" {
		return nil, validationError("Vui lòng nhập email của người ấy")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if strings.EqualFold(user.Email, partnerEmail) {
		return nil, validationError("Bạn không thể tạo cặp đôi với chính mình")
	}

	partner, err := s.userRepo.GetByEmail(ctx, partnerEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Không tìm thấy người dùng với email này")
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	if partner.ID == userID {
		return nil, validationError("Bạn không thể tạo cặp đôi với chính mình")
	}

	hasCouple, err := s.coupleRepo.UserHasCouple(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check if user has couple: %w", err)
	}
	if hasCouple {
		return nil, newError(ErrConflict, "Bạn đã có cặp đôi rồi")
	}

	partnerHasCouple, err := s.coupleRepo.UserHasCouple(ctx, partner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check if partner has couple: %w", err)
	}
	if partnerHasCouple {
		return nil, newError(ErrConflict, "Người ấy đã có cặp đôi rồi")
	}

	now := s.now()
	start := now
	if startDate != nil && strings.TrimSpace(*startDate) != "" {
		if start, err = parseDate(*startDate, s.loc); err != nil {
			return nil, err
		}
	}

	couple := &models.Couple{
		ID:        uuid.New().String(),
		User1ID:   userID,
		User2ID:   partner.ID,
		StartDate: start,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.coupleRepo.Create(ctx, couple); err != nil {
		// the membership index caught a concurrent creation
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "Một trong hai người đã có cặp đôi")
		}
		return nil, fmt.Errorf("failed to create couple: %w", err)
	}

	couple.User1 = user
	couple.User2 = partner
	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyCoupleCreated,
		Resource:   "couples",
		ResourceID: couple.ID,
		Data:       couple,
	})

	return couple, nil
}

// GetCouple returns the caller's couple with both members loaded, or nil.
func (s *CoupleService) GetCouple(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := s.Resolve(ctx, userID)
	if err != nil || couple == nil {
		return nil, err
	}
	if couple.User1, err = s.userRepo.GetByID(ctx, couple.User1ID); err != nil {
		return nil, fmt.Errorf("failed to load couple member: %w", err)
	}
	if couple.User2, err = s.userRepo.GetByID(ctx, couple.User2ID); err != nil {
		return nil, fmt.Errorf("failed to load couple member: %w", err)
	}
	return couple, nil
}

// UpdateCouple applies the supplied fields to the caller's couple.
func (s *CoupleService) UpdateCouple(ctx context.Context, userID string, req UpdateCoupleRequest) (*models.Couple, error) {
	couple, err := s.Require(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate, s.loc)
		if err != nil {
			return nil, err
		}
		couple.StartDate = start
	}
	if req.AnniversaryDate != nil {
		if couple.AnniversaryDate, err = parseOptionalDate(*req.AnniversaryDate, s.loc); err != nil {
			return nil, err
		}
	}
	if req.Goals != nil {
		couple.Goals = req.Goals
	}
	couple.UpdatedAt = s.now()

	if err := s.coupleRepo.Update(ctx, couple); err != nil {
		return nil, fmt.Errorf("failed to update couple: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "couples",
		ResourceID: couple.ID,
	})
	return couple, nil
}

// DeleteCouple dissolves the caller's couple for both members at once.
func (s *CoupleService) DeleteCouple(ctx context.Context, userID string) error {
	couple, err := s.Require(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.coupleRepo.Delete(ctx, couple.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Couple not found")
		}
		return fmt.Errorf("failed to delete couple: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyCoupleDeleted,
		Resource:   "couples",
		ResourceID: couple.ID,
	})
	return nil
}
