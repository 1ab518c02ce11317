package catalog

import (
	"context"

	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

// Catalog: categories, products, product images and specifications
// Reads are public, writes require admin
type Service struct {
	storage repository.Storage
	events  eventRecorder
}

func NewService(storage repository.Storage, events eventRecorder) *Service {
	return &Service{storage: storage, events: events}
}

func (s *Service) record(ctx context.Context, eventType string, actorID int64, description string) {
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: &actorID, Description: description})
}
