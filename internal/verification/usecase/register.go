package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	FullName string `validate:"required,min=5,max=100,alphaspace"`
}

// Register creates an unverified account and issues its first verification
// code. Registering again while unverified supersedes the pending code under
// the same cooldown, so the last issued code is the only valid one.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	unlock, err := s.lockIdentity(ctx, in.Email)
	if err != nil {
		return err
	}
	defer s.releaseIdentity(ctx, in.Email, unlock)

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err == nil {
		switch user.Status.Ensure() {
		case entity.UserStatusActive:
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		case entity.UserStatusUnverified:
			return s.issueChallenge(ctx, user)
		case entity.UserStatusBanned:
			return goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
		default:
			slog.WarnContext(ctx, "user account status is unrecognized", "user_id", user.ID)
			return goerror.NewBusiness("Account status is unrecognized", goerror.CodeForbidden)
		}
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		FullName: in.FullName,
		Status:   entity.UserStatusUnverified,
	}

	if err := s.repoDB.NewRegistration(ctx, newUser, string(hashedPassword)); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo user registration", "email", newUser.Email, "error", err)
		return goerror.NewServer(err)
	}

	return s.issueChallenge(ctx, &entity.User{
		ID:       newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
		Status:   newUser.Status,
	})
}
