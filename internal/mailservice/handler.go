package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sushihentaime/inkwell/internal/common"
	"golang.org/x/exp/rand"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// SendWelcomeEmail consumes user.created events in the background and mails each new user.
func (s *MailService) SendWelcomeEmail() {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleUserCreated(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendWelcomeEmail due to context cancellation")
				return
			}
		}
	}()
}

// handleUserCreated acknowledges the delivery whether or not the email could be sent.
func (s *MailService) handleUserCreated(msg amqp.Delivery) {
	defer msg.Ack(false)

	var data common.UserCreatedMessage
	if err := json.Unmarshal(msg.Body, &data); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	if data.Email == "" {
		s.logger.Error("user.created message without email", slog.Int("user_id", data.UserID))
		return
	}

	payload := welcomeData{Name: data.Name, Email: data.Email}

	if err := s.sendWithRetry(data.Email, payload, welcomeTemplate); err != nil {
		s.logger.Error("could not send welcome email", slog.String("email", data.Email), slog.String("error", err.Error()))
		return
	}

	s.logger.Info("welcome email sent", slog.String("email", data.Email))
}

// sendWithRetry uses exponential backoff with full jitter between attempts.
func (s *MailService) sendWithRetry(recipient string, data any, templateFile string) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.m.send(recipient, data, templateFile)
		if err == nil {
			return nil
		}

		if attempt == s.maxRetries-1 {
			break
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

func (s *MailService) Close() {
	s.cancel()
}
