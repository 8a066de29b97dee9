package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailNotifier sends customer notifications through the Gmail API. Without a
// Gmail client it only logs what it would have sent.
type GmailNotifier struct {
	gmailService *gmail.Service
	sender       string
	outbox       repository.NotificationLogRepository
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewGmailNotifier creates a Gmail-backed notifier. A nil tokenSource gives a
// notifier that simulates every send. outbox may be nil.
func NewGmailNotifier(
	ctx context.Context,
	tokenSource oauth2.TokenSource,
	sender string,
	outbox repository.NotificationLogRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
	opts ...option.ClientOption,
) (repository.NotificationChannel, error) {
	n := &GmailNotifier{
		sender:  sender,
		outbox:  outbox,
		logger:  logger,
		metrics: metrics,
	}
	if tokenSource == nil {
		logger.Warn("Gmail credentials not configured, notifications will be simulated")
		return n, nil
	}

	service, err := gmail.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	n.gmailService = service
	return n, nil
}

// Send delivers the message. Failures are logged and recorded, never returned.
func (n *GmailNotifier) Send(ctx context.Context, to, subject, body string) {
	record := &entity.NotificationRecord{
		Recipient: to,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	switch {
	case n.gmailService == nil:
		n.simulate(to, subject, body)
		record.Status = entity.NotificationSimulated
	default:
		msg := &gmail.Message{Raw: encodeMessage(n.sender, to, subject, body)}
		sent, err := n.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
		if err != nil {
			n.logger.Error("Failed to send email via Gmail", "to", to, "subject", subject, "error", err)
			n.simulate(to, subject, body)
			record.Status = entity.NotificationFailed
			record.ErrorDetail = err.Error()
			break
		}
		n.logger.Info("Email sent", "to", to, "subject", subject, "messageId", sent.Id)
		record.Status = entity.NotificationSent
	}

	n.metrics.Notifications.WithLabelValues(record.Status).Inc()
	n.record(ctx, record)
}

func (n *GmailNotifier) simulate(to, subject, body string) {
	n.logger.Info("Simulated email", "to", to, "subject", subject, "body", body)
}

func (n *GmailNotifier) record(ctx context.Context, record *entity.NotificationRecord) {
	if n.outbox == nil {
		return
	}
	if err := n.outbox.Record(ctx, record); err != nil {
		n.logger.Error("Failed to record notification", "to", record.Recipient, "error", err)
		n.metrics.ErrorsCount.WithLabelValues("record_notification").Inc()
	}
}

// encodeMessage builds an RFC 2822 plain-text message, base64url encoded for
// the Gmail raw field
func encodeMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" && from != "me" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
