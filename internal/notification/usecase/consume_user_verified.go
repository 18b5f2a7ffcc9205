package usecase

import (
	"context"
	"log/slog"
)

type ConsumeUserVerifiedInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=5,max=100,alphaspace"`
}

// ConsumeUserVerified sends the welcome email after a successful
// verification. The email is best effort, so failures are not redelivered.
func (s *Usecase) ConsumeUserVerified(ctx context.Context, in ConsumeUserVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserVerified")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName

	body, err := s.renderTemplate("welcome", welcomeTemplate, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome email", "user_id", in.UserID, "error", err)
		return nil
	}

	if err := s.sendEmail(ctx, in.Email, welcomeSubject, body); err != nil {
		slog.ErrorContext(ctx, "failed to send welcome email", "user_id", in.UserID, "error", err)
	}

	return nil
}
