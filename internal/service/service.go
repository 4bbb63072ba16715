package service

import "errors"

// EventPublisher is the slice of pkg/mq.Publisher the services need.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
