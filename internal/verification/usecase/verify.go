package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

type VerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,min=4,max=10,otpcode"`
}

// Verify checks the submitted code against the pending challenge. A match
// activates the account and consumes the challenge; a mismatch burns one
// attempt. Missing, expired, and exhausted challenges each answer the same
// way every time until the challenge is replaced or evicted.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) error {
	ctx, span := s.startSpan(ctx, "Verify")
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

	challenge, err := s.store.Get(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return errInvalidCode()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to store get challenge", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	if challenge.Expired(now) {
		if err := s.store.Delete(ctx, in.Email); err != nil {
			slog.WarnContext(ctx, "failed to store delete expired challenge", "email", in.Email, "error", err)
		}

		return errInvalidCode()
	}

	// An exhausted challenge stays in the store until its TTL so repeated
	// attempts keep hitting the same wall instead of reopening the budget.
	if challenge.Exhausted() {
		return errExhausted()
	}

	if !s.hmac.Verify(challenge.CodeHash, codeMAC(in.Email, in.Code)) {
		challenge.AttemptsRemaining--
		if err := s.store.Update(ctx, *challenge); err != nil {
			slog.ErrorContext(ctx, "failed to store update challenge", "email", in.Email, "error", err)
			return goerror.NewServer(err)
		}

		if challenge.Exhausted() {
			return errExhausted()
		}

		return errMismatch(challenge.AttemptsRemaining)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		// Account vanished under a live challenge; drop the orphan.
		if err := s.store.Delete(ctx, in.Email); err != nil {
			slog.WarnContext(ctx, "failed to store delete orphaned challenge", "email", in.Email, "error", err)
		}

		return errInvalidCode()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if user.Status.Ensure() == entity.UserStatusBanned {
		return goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	if user.Status.Ensure() == entity.UserStatusUnverified {
		err := s.repoDB.UpdateUserStatus(ctx, user.ID, entity.UserStatusUnverified, entity.UserStatusActive)
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo update user status", "user_id", user.ID, "error", err)
			return goerror.NewServer(err)
		}
		// ErrNotFound means another worker already completed the transition.
	}

	// Consume after activation so a failed delete leaves a retryable state
	// rather than a verified account the client was never told about.
	if err := s.store.Delete(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to store delete consumed challenge", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	s.dispatchUserVerified(ctx, user)

	return nil
}
