package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nimbus-works/identity-service/internal/events"
	"github.com/nimbus-works/identity-service/internal/notification"
)

// NotificationService renders and delivers account emails. OTP sends are
// synchronous and return errors; the welcome mail rides on the event
// dispatcher as a best-effort side effect with its own failure channel.
type NotificationService struct {
	mailer     notification.Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(mailer notification.Mailer, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventEmailVerified, n.handleEmailVerified)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordReset)
}

// SendVerificationOTP mails an account verification code.
func (n *NotificationService) SendVerificationOTP(ctx context.Context, email, otp string) error {
	body := notification.RenderVerifyEmail(email, otp)
	return n.mailer.Send(ctx, email, "Account Verification OTP", body)
}

// SendResetOTP mails a password reset code.
func (n *NotificationService) SendResetOTP(ctx context.Context, email, otp string) error {
	body := notification.RenderResetEmail(email, otp)
	return n.mailer.Send(ctx, email, "Password Reset OTP", body)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload for user_registered", zap.String("event_id", event.ID))
		return nil
	}

	body := notification.RenderWelcomeEmail(payload.Name, payload.Email)
	if err := n.mailer.Send(ctx, payload.Email, "Welcome", body); err != nil {
		// welcome mail is best-effort: never fails registration
		n.logger.Warn("welcome email failed",
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleEmailVerified(_ context.Context, event events.Event) error {
	n.logger.Info("EmailVerified", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handlePasswordReset(_ context.Context, event events.Event) error {
	n.logger.Info("PasswordReset", zap.String("user_id", event.UserID))
	return nil
}
