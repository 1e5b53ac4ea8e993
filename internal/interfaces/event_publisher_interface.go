package interfaces

import "clientdesk/internal/models"

type EventPublisher interface {
	Publish(event models.ChatEvent) error
}
