package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// issueChallenge mints a fresh code for the user and stores it, replacing any
// prior challenge wholesale so at most one code is ever valid per identity.
//
// The cooldown applies whenever a live challenge exists, regardless of which
// operation triggered the issue, so repeated register calls cannot bypass the
// resend throttle. Callers must hold the identity lock.
func (s *Usecase) issueChallenge(ctx context.Context, user *entity.User) error {
	now := s.clock.Now()

	existing, err := s.store.Get(ctx, user.Email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to store get challenge", "email", user.Email, "error", err)
		return goerror.NewServer(err)
	}

	resendCount := 0
	if existing != nil && !existing.Expired(now) {
		if remaining := s.policy.ResendRemaining(existing.LastSentAt, now); remaining > 0 {
			return errTooSoon(s.policy, remaining)
		}
		resendCount = existing.ResendCount + 1
	}

	code, err := s.codegen.Generate(s.policy.CodeLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(codeMAC(user.Email, code))
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash verification code", "error", err)
		return goerror.NewServer(err)
	}

	challenge := entity.Challenge{
		Identity:          user.Email,
		CodeHash:          string(codeHash),
		CreatedAt:         now,
		LastSentAt:        now,
		ExpiresAt:         now.Add(s.policy.CodeTTL),
		AttemptsRemaining: s.policy.MaxAttempts,
		ResendCount:       resendCount,
	}

	if err := s.store.Put(ctx, challenge); err != nil {
		slog.ErrorContext(ctx, "failed to store put challenge", "email", user.Email, "error", err)
		return goerror.NewServer(err)
	}

	s.dispatchCodeIssued(ctx, user, CodeIssuedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Code:      code,
		ExpiresAt: challenge.ExpiresAt,
	})

	return nil
}

// dispatchCodeIssued hands the code to the delivery pipeline under a bounded
// timeout. A publish failure leaves delivery uncertain; the stored challenge
// stays valid and the client recovers through resend, so the error is only
// logged.
func (s *Usecase) dispatchCodeIssued(ctx context.Context, user *entity.User, evt CodeIssuedEvent) {
	dCtx, cancel := s.dispatchContext(ctx)
	defer cancel()

	if err := s.repoMessaging.PublishCodeIssued(dCtx, evt); err != nil {
		slog.WarnContext(ctx, "verification code delivery is uncertain",
			"user_id", user.ID, "email", user.Email, "error", err)
	}
}

func (s *Usecase) dispatchUserVerified(ctx context.Context, user *entity.User) {
	dCtx, cancel := s.dispatchContext(ctx)
	defer cancel()

	if err := s.repoMessaging.PublishUserVerified(dCtx, UserVerifiedEvent{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish user verified",
			"user_id", user.ID, "email", user.Email, "error", err)
	}
}

func (s *Usecase) dispatchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.GetSecond("modules.verification.delivery_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}

	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
