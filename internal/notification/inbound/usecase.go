package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/notification/usecase"
)

type uc interface {
	ConsumeCodeIssued(ctx context.Context, in usecase.ConsumeCodeIssuedInput) error
	ConsumeUserVerified(ctx context.Context, in usecase.ConsumeUserVerifiedInput) error
}
