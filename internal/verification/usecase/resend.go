package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

type ResendInput struct {
	Email string `validate:"required,email"`
}

// Resend re-issues a code for a pending verification. It never creates
// accounts or challenges; without a live challenge the caller is told to
// start over, and the same answer covers unknown and already-verified
// emails so the endpoint does not reveal account existence.
func (s *Usecase) Resend(ctx context.Context, in ResendInput) error {
	ctx, span := s.startSpan(ctx, "Resend")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	unlock, err := s.lockIdentity(ctx, in.Email)
	if err != nil {
		return err
	}
	defer s.releaseIdentity(ctx, in.Email, unlock)

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return errNoActiveChallenge()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	if user.Status.Ensure() != entity.UserStatusUnverified {
		return errNoActiveChallenge()
	}

	challenge, err := s.store.Get(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return errNoActiveChallenge()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to store get challenge", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if challenge.Expired(s.clock.Now()) {
		if err := s.store.Delete(ctx, in.Email); err != nil {
			slog.WarnContext(ctx, "failed to store delete expired challenge", "email", in.Email, "error", err)
		}

		return errNoActiveChallenge()
	}

	return s.issueChallenge(ctx, user)
}
