package review

import (
	"context"
	"fmt"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

type CreateParams struct {
	ProductID   int64
	Title       string
	Description string
	Rating      int
}

// Product reviews
// Anyone may read, authenticated users write, authors or admins change
type Service struct {
	storage repository.Storage
	events  eventRecorder
}

func NewService(storage repository.Storage, events eventRecorder) *Service {
	return &Service{storage: storage, events: events}
}

func (s *Service) List(ctx context.Context, arg repository.ListReviewsParams) ([]models.Review, error) {
	return s.storage.Review().List(ctx, arg)
}

func (s *Service) Get(ctx context.Context, id int64) (models.Review, error) {
	return s.storage.Review().GetByID(ctx, id)
}

// Create review of the product. User may review product only once
func (s *Service) Create(ctx context.Context, actor models.User, arg CreateParams) (models.Review, error) {
	var review models.Review

	if err := checkRating(arg.Rating); err != nil {
		return review, err
	}
	if _, err := s.storage.Product().GetByID(ctx, arg.ProductID); err != nil {
		return review, err
	}

	review, err := s.storage.Review().Create(ctx, repository.CreateReviewParams{
		ProductID:   arg.ProductID,
		UserID:      actor.ID,
		Title:       arg.Title,
		Description: arg.Description,
		Rating:      arg.Rating,
	})
	if err != nil {
		return review, err
	}

	s.record(ctx, models.EventReviewCreated, actor.ID, fmt.Sprintf("Review of product %d created", arg.ProductID))
	return review, nil
}

func (s *Service) Update(ctx context.Context, actor models.User, id int64, arg repository.UpdateReviewParams) (models.Review, error) {
	var review models.Review

	if arg.Rating != nil {
		if err := checkRating(*arg.Rating); err != nil {
			return review, err
		}
	}

	current, err := s.storage.Review().GetByID(ctx, id)
	if err != nil {
		return review, err
	}
	if err := auth.RequireAuthorOrAdmin(current.UserID, actor); err != nil {
		return review, err
	}

	review, err = s.storage.Review().Update(ctx, id, arg)
	if err != nil {
		return review, err
	}

	s.record(ctx, models.EventReviewUpdated, actor.ID, fmt.Sprintf("Review %d updated", id))
	return review, nil
}

func (s *Service) Delete(ctx context.Context, actor models.User, id int64) error {
	current, err := s.storage.Review().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireAuthorOrAdmin(current.UserID, actor); err != nil {
		return err
	}

	if err := s.storage.Review().Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.EventReviewDeleted, actor.ID, fmt.Sprintf("Review %d deleted", id))
	return nil
}

func checkRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return apperrors.ErrRatingOutOfRange
	}
	return nil
}

func (s *Service) record(ctx context.Context, eventType string, actorID int64, description string) {
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: &actorID, Description: description})
}
