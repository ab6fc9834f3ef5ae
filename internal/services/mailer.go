package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hireloop-dev/hireloop/internal/types"
)

// StatusChangeEvent is everything the notification adapter needs to tell an
// applicant about a review, captured at review time so later job edits do
// not leak into the message.
type StatusChangeEvent struct {
	ApplicationID uint
	ApplicantID   uint
	ApplicantName string
	Email         string
	JobID         uint
	JobTitle      string
	JobLocation   string
	Status        string
}

// MailRequest is the dispatcher's wire contract.
type MailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Mailer translates status-change events into mail requests and submits
// them to the external dispatcher. Best-effort: no retry, no queueing.
type Mailer struct {
	url    string
	client *http.Client
}

func NewMailer(url string, timeout time.Duration) *Mailer {
	return &Mailer{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FormatStatusChange renders the subject and body for a review outcome.
func FormatStatusChange(event StatusChangeEvent) (string, string) {
	subject := fmt.Sprintf("Update on your application for %s", event.JobTitle)

	var body string

	switch event.Status {
	case types.StatusAccepted:
		body = fmt.Sprintf("Good news %s! Your application for %s (%s) has been accepted. The employer will contact you with the next steps.",
			event.ApplicantName, event.JobTitle, event.JobLocation)
	case types.StatusRejected:
		body = fmt.Sprintf("Hi %s, thank you for applying for %s (%s). Unfortunately the employer has decided not to move forward with your application.",
			event.ApplicantName, event.JobTitle, event.JobLocation)
	default:
		body = fmt.Sprintf("Hi %s, your application for %s (%s) is back under review.",
			event.ApplicantName, event.JobTitle, event.JobLocation)
	}

	return subject, body
}

// StatusChanged formats and submits the notification. The formatted subject
// and message are returned even when delivery fails so callers can record
// the attempt.
func (m *Mailer) StatusChanged(ctx context.Context, event StatusChangeEvent) (string, string, error) {
	subject, message := FormatStatusChange(event)

	if err := m.Send(ctx, event.Email, subject, message); err != nil {
		return subject, message, err
	}

	return subject, message, nil
}

// Send posts one mail request to the dispatcher. Transport errors and non-2xx
// responses surface as ErrNotificationFailed; the caller decides whether that
// is fatal (it never is for a review).
func (m *Mailer) Send(ctx context.Context, to, subject, message string) error {
	body, err := json.Marshal(MailRequest{
		To:      to,
		Subject: subject,
		Message: message,
	})

	if err != nil {
		return fmt.Errorf("%w: marshal mail request: %v", types.ErrNotificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewBuffer(body))

	if err != nil {
		return fmt.Errorf("%w: build mail request: %v", types.ErrNotificationFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)

	if err != nil {
		return fmt.Errorf("%w: send mail: %v", types.ErrNotificationFailed, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: dispatcher returned status %d", types.ErrNotificationFailed, resp.StatusCode)
	}

	return nil
}

// Ping checks that the dispatcher endpoint is reachable, for the health
// handler. Any HTTP response counts as reachable.
func (m *Mailer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)

	if err != nil {
		return err
	}

	resp, err := m.client.Do(req)

	if err != nil {
		return err
	}

	resp.Body.Close()
	return nil
}
