// Package jobs holds the queue jobs dispatched by the application. Every job
// type must be registered before workers start so the queue can rebuild it
// from its serialized envelope.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/furnistor/pkg/queue"
)

// RegisterAll registers every job type with the queue. Called once at boot,
// before StartWorkers.
func RegisterAll() {
	queue.Register(fmt.Sprintf("%T", &VerificationEmailJob{}), func() queue.Job {
		return &VerificationEmailJob{}
	})
	queue.Register(fmt.Sprintf("%T", &OrderStatusEmailJob{}), func() queue.Job {
		return &OrderStatusEmailJob{}
	})
}
