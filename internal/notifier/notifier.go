package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/services"
	"github.com/hireloop-dev/hireloop/internal/types"
)

// Mailer delivers one status-change email and reports the rendered subject
// and message so the attempt can be recorded either way.
type Mailer interface {
	StatusChanged(ctx context.Context, event services.StatusChangeEvent) (string, string, error)
}

// Recorder persists the notification audit trail.
type Recorder interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Hub pushes in-app events to connected clients. Push must not block.
type Hub interface {
	Push(userID uint, payload interface{})
}

// Dispatcher drains status-change events on a single worker goroutine.
// Delivery is fire-and-forget: a full queue drops the event, a transport
// failure is recorded and logged, and nothing is retried.
type Dispatcher struct {
	mailer  Mailer
	records Recorder
	hub     Hub

	events      chan services.StatusChangeEvent
	sendTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

const (
	queueSize          = 64
	defaultSendTimeout = 10 * time.Second
)

func New(mailer Mailer, records Recorder, hub Hub) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		mailer:      mailer,
		records:     records,
		hub:         hub,
		events:      make(chan services.StatusChangeEvent, queueSize),
		sendTimeout: defaultSendTimeout,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.run()
	log.Println("Notification dispatcher started")
}

// Stop cancels the worker and waits for it to exit. Queued events that have
// not been picked up are abandoned, which is within the delivery contract.
func (d *Dispatcher) Stop() {
	d.cancel()
	<-d.done
	log.Println("Notification dispatcher stopped")
}

// Enqueue hands an event to the worker without blocking the caller. It
// reports false when the queue is full or the dispatcher has been stopped.
func (d *Dispatcher) Enqueue(event services.StatusChangeEvent) bool {
	// Checked before the select: a ready buffered send would otherwise race
	// the done case and win half the time on a stopped dispatcher.
	if d.ctx.Err() != nil {
		return false
	}

	select {
	case d.events <- event:
		return true
	default:
		log.Printf("notification queue full, dropping event for application %d", event.ApplicationID)
		return false
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.events:
			d.dispatch(event)
		}
	}
}

func (d *Dispatcher) dispatch(event services.StatusChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	subject, message, sendErr := d.mailer.StatusChanged(ctx, event)

	payload, err := json.Marshal(map[string]interface{}{
		"job_id": event.JobID,
		"status": event.Status,
	})

	if err != nil {
		log.Printf("Failed to marshal notification payload: %v", err)
	}

	now := time.Now()

	email := models.Notification{
		UserID:        event.ApplicantID,
		ApplicationID: event.ApplicationID,
		Channel:       types.ChannelEmail,
		Status:        types.DeliverySent,
		Subject:       subject,
		Message:       message,
		Payload:       payload,
		SentAt:        &now,
	}

	if sendErr != nil {
		if !errors.Is(sendErr, types.ErrNotificationFailed) {
			sendErr = types.ErrNotificationFailed
		}
		log.Printf("Failed to deliver notification for application %d: %v", event.ApplicationID, sendErr)
		email.Status = types.DeliveryFailed
		email.SentAt = nil
	}

	if err := d.records.Create(ctx, &email); err != nil {
		log.Printf("Failed to record email notification: %v", err)
	}

	inApp := models.Notification{
		UserID:        event.ApplicantID,
		ApplicationID: event.ApplicationID,
		Channel:       types.ChannelInApp,
		Status:        types.DeliverySent,
		Subject:       subject,
		Message:       message,
		Payload:       payload,
		SentAt:        &now,
	}

	if err := d.records.Create(ctx, &inApp); err != nil {
		log.Printf("Failed to record in-app notification: %v", err)
	}

	d.hub.Push(event.ApplicantID, map[string]interface{}{
		"type":    "application_status",
		"subject": subject,
		"message": message,
		"job_id":  event.JobID,
		"status":  event.Status,
	})
}
