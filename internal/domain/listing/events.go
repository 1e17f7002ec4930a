package listing

import (
	"context"
	"time"

	"campus-market-go/internal/domain/campus"
)

type EventType string

const (
	EventCreated  EventType = "listing.created"
	EventUpdated  EventType = "listing.updated"
	EventSold     EventType = "listing.sold"
	EventUnsold   EventType = "listing.unsold"
	EventReposted EventType = "listing.reposted"
	EventDeleted  EventType = "listing.deleted"
)

type Event struct {
	Type       EventType   `json:"type"`
	ItemID     uint        `json:"item_id"`
	SellerID   uint        `json:"seller_id"`
	Campus     campus.Code `json:"campus"`
	CategoryID uint        `json:"category_id"`
	Name       string      `json:"name"`
	Price      Price       `json:"price"`
	IsSold     bool        `json:"is_sold"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventPublisher receives listing lifecycle events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }
