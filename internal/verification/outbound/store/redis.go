package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const challengeKeyPrefix = "verification:challenge:"

const (
	fieldCodeHash          = "code_hash"
	fieldCreatedAt         = "created_at"
	fieldLastSentAt        = "last_sent_at"
	fieldExpiresAt         = "expires_at"
	fieldAttemptsRemaining = "attempts_remaining"
	fieldResendCount       = "resend_count"
)

// Redis stores each challenge in a hash whose key TTL matches the challenge
// expiry, so abandoned challenges evict themselves.
type Redis struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewRedis(client *redis.Client, ins instrument.Instrumentation) *Redis {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Redis{client: client, ins: ins}
}

func (s *Redis) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.outbound.store").Start(ctx, name)
}

func (s *Redis) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Redis) key(identity string) string {
	return challengeKeyPrefix + identity
}

func (s *Redis) write(ctx context.Context, ch entity.Challenge) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(ch.Identity), map[string]any{
			fieldCodeHash:          ch.CodeHash,
			fieldCreatedAt:         ch.CreatedAt.UnixMilli(),
			fieldLastSentAt:        ch.LastSentAt.UnixMilli(),
			fieldExpiresAt:         ch.ExpiresAt.UnixMilli(),
			fieldAttemptsRemaining: ch.AttemptsRemaining,
			fieldResendCount:       ch.ResendCount,
		})
		pipe.PExpireAt(ctx, s.key(ch.Identity), ch.ExpiresAt)
		return nil
	})

	return err
}

func (s *Redis) Put(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Put")
	defer func() { s.endSpan(span, err) }()

	err = s.write(ctx, ch)
	return err
}

func (s *Redis) Get(ctx context.Context, identity string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer func() { s.endSpan(span, err) }()

	values, err := s.client.HGetAll(ctx, s.key(identity)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		err = goerror.ErrNotFound
		return nil, err
	}

	ch, err := decodeChallenge(identity, values)
	if err != nil {
		return nil, err
	}

	return ch, nil
}

func (s *Redis) Update(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Update")
	defer func() { s.endSpan(span, err) }()

	// The caller serializes writers per identity, so a plain existence
	// check before the rewrite is sufficient.
	n, err := s.client.Exists(ctx, s.key(ch.Identity)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		err = goerror.ErrNotFound
		return err
	}

	err = s.write(ctx, ch)
	return err
}

func (s *Redis) Delete(ctx context.Context, identity string) (err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { s.endSpan(span, err) }()

	err = s.client.Del(ctx, s.key(identity)).Err()
	return err
}

// Close is a no-op; the redis client is owned by the application.
func (s *Redis) Close() error {
	return nil
}

func decodeChallenge(identity string, values map[string]string) (*entity.Challenge, error) {
	createdAt, err := strconv.ParseInt(values[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, err
	}

	lastSentAt, err := strconv.ParseInt(values[fieldLastSentAt], 10, 64)
	if err != nil {
		return nil, err
	}

	expiresAt, err := strconv.ParseInt(values[fieldExpiresAt], 10, 64)
	if err != nil {
		return nil, err
	}

	attempts, err := strconv.Atoi(values[fieldAttemptsRemaining])
	if err != nil {
		return nil, err
	}

	resends, err := strconv.Atoi(values[fieldResendCount])
	if err != nil {
		return nil, err
	}

	return &entity.Challenge{
		Identity:          identity,
		CodeHash:          values[fieldCodeHash],
		CreatedAt:         time.UnixMilli(createdAt),
		LastSentAt:        time.UnixMilli(lastSentAt),
		ExpiresAt:         time.UnixMilli(expiresAt),
		AttemptsRemaining: attempts,
		ResendCount:       resends,
	}, nil
}
