package services

import (
	"context"
	"encoding/json"

	"clientdesk/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventService publishes chat lifecycle events on a redis channel consumed
// by sibling subsystems (notification badge composer, analytics). Delivery
// is best effort; the caller logs and moves on.
type EventService struct {
	redis   *redis.Client
	ctx     context.Context
	channel string
}

func NewEventService(ctx context.Context, redisClient *redis.Client, channel string) *EventService {
	return &EventService{
		redis:   redisClient,
		ctx:     ctx,
		channel: channel,
	}
}

func (es *EventService) Publish(event models.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return es.redis.Publish(es.ctx, es.channel, payload).Err()
}
