package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"
)

type ConsumeCodeIssuedInput struct {
	UserID    int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	FullName  string `validate:"required,min=5,max=100,alphaspace"`
	Code      string `validate:"required,otpcode"`
	ExpiresAt int64  `validate:"required,gt=0"`
}

// ConsumeCodeIssued emails the verification code to the user. A malformed
// payload is dropped; a delivery failure is returned so the broker redelivers.
func (s *Usecase) ConsumeCodeIssued(ctx context.Context, in ConsumeCodeIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeCodeIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	expiresIn := time.Unix(in.ExpiresAt, 0).Sub(s.clock.Now())
	if expiresIn <= 0 {
		slog.WarnContext(ctx, "verification code already expired, skipping email", "user_id", in.UserID)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["code"] = in.Code
	data["expires_in_minutes"] = int(math.Ceil(expiresIn.Minutes()))

	body, err := s.renderTemplate("verification_code", verificationCodeTemplate, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render verification code email", "user_id", in.UserID, "error", err)
		return nil
	}

	if err := s.sendEmail(ctx, in.Email, verificationCodeSubject, body); err != nil {
		slog.ErrorContext(ctx, "failed to send verification code email", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
