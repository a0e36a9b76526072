package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

const (
	Topic   = "order-completed"
	GroupID = "storefront-cart-consumer"
)

// cartClearer empties a guest's local cart.
type cartClearer interface {
	Clear(ctx context.Context, guestID string) error
}

// cacheInvalidator drops a user's cached remote cart.
type cacheInvalidator interface {
	Invalidate(userKey string)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer drains order-completed events and empties the matching carts:
// the guest's local lines and the authenticated user's cached remote cart.
type Consumer struct {
	carts  cartClearer
	caches cacheInvalidator
	reader messageReader
}

func NewConsumer(carts cartClearer, caches cacheInvalidator, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  GroupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{carts: carts, caches: caches, reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.consumeOne(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

type orderCompleted struct {
	GuestID   string `json:"guest_id"`
	UserEmail string `json:"user_email"`
}

func (c *Consumer) consumeOne(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var event orderCompleted
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}
	if event.GuestID == "" && event.UserEmail == "" {
		log.Println("order-completed event carries no cart identity, skipping")
		return
	}

	if event.GuestID != "" {
		if err := c.carts.Clear(ctx, event.GuestID); err != nil {
			log.Printf("failed to clear guest cart: %v", err)
		}
	}
	if event.UserEmail != "" {
		c.caches.Invalidate(event.UserEmail)
	}
}
