package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"coachadmin/internal/logger"
	"coachadmin/internal/metrics"
)

const (
	queueKey  = "notifications"
	failedKey = "notifications:failed"

	maxTries = 3
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues notification messages on redis and drains them from a
// background worker. Delivery is simulated: the worker writes the message to
// the log instead of an SMTP gateway.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
}

func New(fromEmail, fromName, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
	}
}

// NewWithClient builds a Service over an existing client; tests pass a
// redismock client here.
func NewWithClient(client *redis.Client, fromEmail, fromName string) *Service {
	return &Service{
		redis:    client,
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *Service) Send(ctx context.Context, notificationType, to, name, subject, body string) error {
	job := Job{
		Type:    notificationType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", to, err)
		return err
	}

	metrics.RecordNotificationQueued(notificationType)
	logger.Infof("Notification queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.deliver(job); err != nil {
		logger.Errorf("Failed to deliver notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			metrics.RecordNotificationSent(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotificationSent(job.Type, "sent")
	if length, err := s.redis.LLen(ctx, queueKey).Result(); err == nil {
		metrics.SetNotificationQueueLength(float64(length))
	}
}

// deliver simulates the send: the rendered message goes to the log. Swap
// this for a real gateway call when the business wires one up.
func (s *Service) deliver(job Job) error {
	logger.Info("notification delivered",
		"from", fmt.Sprintf("%s <%s>", s.fromName, s.from),
		"to", job.To,
		"subject", job.Subject,
	)
	logger.Debugf("notification body for %s: %s", job.To, job.Body)
	return nil
}

func (s *Service) saveFailed(job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, data)
	logger.Errorf("Notification to %s moved to failed queue after %d attempts", job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendRenewalReminder(ctx context.Context, email, name, planName string, endDate time.Time) error {
	subject := "Your subscription expires soon"
	body := fmt.Sprintf(`Hi %s,

Your %s subscription ends on %s.

Renew now to keep your coaching profile active without interruption.

- %s`, name, planName, endDate.Format("Jan 2, 2006"), s.fromName)

	return s.Send(ctx, "expiring", email, name, subject, body)
}

func (s *Service) SendPaymentReminder(ctx context.Context, email, name, planName string, amount decimal.Decimal) error {
	subject := "Payment reminder for your subscription"
	body := fmt.Sprintf(`Hi %s,

We have not yet received the payment of %s for your %s subscription.

Please settle the outstanding amount to keep your subscription active.

- %s`, name, amount.StringFixed(2), planName, s.fromName)

	return s.Send(ctx, "payment", email, name, subject, body)
}
