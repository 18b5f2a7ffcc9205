package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Resend(ctx context.Context, in usecase.ResendInput) error
	Verify(ctx context.Context, in usecase.VerifyInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/register", end.Register)
	r.POST("/api/v1/auth/otp/resend", end.Resend)
	r.POST("/api/v1/auth/otp/verify", end.Verify)
}
