package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/keylock"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/store"
	"github.com/shandysiswandi/otpgate/internal/verification/throttle"
	"go.opentelemetry.io/otel/trace"
)

const (
	lockKeyPrefix = "verification:lock:"

	defaultLockTTL         = 5 * time.Second
	defaultDispatchTimeout = 5 * time.Second
)

type CodeIssuedEvent struct {
	UserID    int64
	Email     string
	FullName  string
	Code      string
	ExpiresAt time.Time
}

type UserVerifiedEvent struct {
	UserID   int64
	Email    string
	FullName string
}

type repoMessaging interface {
	PublishCodeIssued(ctx context.Context, msg CodeIssuedEvent) error
	PublishUserVerified(ctx context.Context, msg UserVerifiedEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	NewRegistration(ctx context.Context, user entity.NewUser, passwordHash string) error
	UpdateUserStatus(ctx context.Context, id int64, from, to entity.UserStatus) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	store         store.ChallengeStore
	locker        keylock.Locker
	policy        throttle.Policy
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	bcrypt        hash.Hash
	codegen       otp.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Store         store.ChallengeStore
	Locker        keylock.Locker
	Policy        throttle.Policy
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	CodeGenerator otp.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		store:         dep.Store,
		locker:        dep.Locker,
		policy:        dep.Policy,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		codegen:       dep.CodeGenerator,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

// codeMAC binds the identity into the MAC input, so the same code issued to
// two identities never produces the same stored hash.
func codeMAC(identity, code string) string {
	return identity + ":" + code
}

// lockIdentity serializes all writers for one identity, so concurrent
// register, resend, and verify calls observe challenge state one at a time.
func (s *Usecase) lockIdentity(ctx context.Context, email string) (keylock.UnlockFunc, error) {
	ttl := s.cfg.GetSecond("modules.verification.lock_ttl_seconds")
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	unlock, err := s.locker.Lock(ctx, lockKeyPrefix+email, ttl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire identity lock", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return unlock, nil
}

func (s *Usecase) releaseIdentity(ctx context.Context, email string, unlock keylock.UnlockFunc) {
	if err := unlock(ctx); err != nil {
		slog.WarnContext(ctx, "failed to release identity lock", "email", email, "error", err)
	}
}

func errTooSoon(p throttle.Policy, remaining time.Duration) error {
	return goerror.NewBusinessFields("Please wait before requesting a new code",
		goerror.CodeTooManyRequest,
		"remaining_seconds", strconv.FormatInt(p.RemainingSeconds(remaining), 10))
}

func errNoActiveChallenge() error {
	return goerror.NewBusiness("No verification in progress for this email", goerror.CodeNotFound)
}

func errInvalidCode() error {
	return goerror.NewBusiness("Invalid or expired verification code", goerror.CodeUnauthorized)
}

func errExhausted() error {
	return goerror.NewBusiness("Too many incorrect attempts, request a new code", goerror.CodeTooManyRequest)
}

func errMismatch(attemptsRemaining int) error {
	return goerror.NewBusinessFields("Incorrect verification code", goerror.CodeUnauthorized,
		"attempts_remaining", strconv.Itoa(attemptsRemaining))
}
