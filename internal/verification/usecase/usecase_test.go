package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/keylock"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/store"
	"github.com/shandysiswandi/otpgate/internal/verification/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeRepoDB struct {
	users map[string]*entity.User
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{users: make(map[string]*entity.User)}
}

func (f *fakeRepoDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *user
	return &cp, nil
}

func (f *fakeRepoDB) NewRegistration(_ context.Context, user entity.NewUser, _ string) error {
	if _, ok := f.users[user.Email]; ok {
		return goerror.ErrConflict
	}

	f.users[user.Email] = &entity.User{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Status:   user.Status,
	}

	return nil
}

func (f *fakeRepoDB) UpdateUserStatus(_ context.Context, id int64, from, to entity.UserStatus) error {
	for _, user := range f.users {
		if user.ID == id && user.Status == from {
			user.Status = to
			return nil
		}
	}

	return goerror.ErrNotFound
}

type fakeMessaging struct {
	codeIssued   []CodeIssuedEvent
	userVerified []UserVerifiedEvent
	publishErr   error
}

func (f *fakeMessaging) PublishCodeIssued(_ context.Context, msg CodeIssuedEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}

	f.codeIssued = append(f.codeIssued, msg)
	return nil
}

func (f *fakeMessaging) PublishUserVerified(_ context.Context, msg UserVerifiedEvent) error {
	f.userVerified = append(f.userVerified, msg)
	return nil
}

func (f *fakeMessaging) lastCode() string {
	return f.codeIssued[len(f.codeIssued)-1].Code
}

type seqGenerator struct {
	n int
}

func (g *seqGenerator) Generate(int) (string, error) {
	g.n++
	return fmt.Sprintf("%06d", 100000+g.n), nil
}

type fixedGenerator struct {
	code string
}

func (g fixedGenerator) Generate(int) (string, error) { return g.code, nil }

type seqUID struct {
	n int64
}

func (g *seqUID) Generate() int64 {
	g.n++
	return g.n
}

type stubConfig struct {
	config.Config
}

func (stubConfig) GetSecond(string) time.Duration { return 5 * time.Second }

type fixture struct {
	uc      *Usecase
	repoDB  *fakeRepoDB
	msg     *fakeMessaging
	store   *store.Memory
	clock   *fakeClock
	policy  throttle.Policy
	ctx     context.Context
	cleanup func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWith(t, &seqGenerator{})
}

func newFixtureWith(t *testing.T, gen otp.Generator) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	challengeStore := store.NewMemory(clk)
	t.Cleanup(func() { _ = challengeStore.Close() })

	policy := throttle.Policy{
		Cooldown:    time.Minute,
		CodeTTL:     10 * time.Minute,
		MaxAttempts: 3,
		CodeLength:  6,
	}

	repoDB := newFakeRepoDB()
	msg := &fakeMessaging{}

	uc := New(Dependency{
		RepoDB:        repoDB,
		RepoMessaging: msg,
		Store:         challengeStore,
		Locker:        keylock.NewMemory(),
		Policy:        policy,
		Validator:     v,
		Config:        stubConfig{},
		HMAC:          hash.NewHMACSHA256("test-secret"),
		Bcrypt:        hash.NewBcrypt(4, "pepper"),
		CodeGenerator: gen,
		UID:           &seqUID{},
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{
		uc:     uc,
		repoDB: repoDB,
		msg:    msg,
		store:  challengeStore,
		clock:  clk,
		policy: policy,
		ctx:    context.Background(),
	}
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Email:    email,
		Password: "Secret123!",
		FullName: "Test User",
	}
}

func asGoError(t *testing.T, err error) *goerror.Error {
	t.Helper()

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	return ge
}

func TestRegisterIssuesCodeAndVerifySucceeds(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	require.Len(t, f.msg.codeIssued, 1)
	assert.Equal(t, "user@example.com", f.msg.codeIssued[0].Email)

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()})
	require.NoError(t, err)

	user, err := f.repoDB.GetUserByEmail(f.ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusActive, user.Status)
	require.Len(t, f.msg.userVerified, 1)
}

func TestVerifyConsumedChallengeIsSingleUse(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	code := f.msg.lastCode()
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: code}))

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: code})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("  User@Example.COM ")))
	assert.Equal(t, "user@example.com", f.msg.codeIssued[0].Email)

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "USER@example.com", Code: f.msg.lastCode()})
	require.NoError(t, err)
}

func TestRegisterActiveAccountConflicts(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()}))

	err := f.uc.Register(f.ctx, registerInput("user@example.com"))
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeConflict, ge.Code())
}

func TestRegisterUnverifiedSupersedesPendingCode(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	firstCode := f.msg.lastCode()

	// Within cooldown the re-register is throttled like a resend.
	err := f.uc.Register(f.ctx, registerInput("user@example.com"))
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, ge.Code())
	assert.Contains(t, ge.Fields(), "remaining_seconds")

	f.clock.Advance(f.policy.Cooldown)
	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	require.Len(t, f.msg.codeIssued, 2)
	secondCode := f.msg.lastCode()
	require.NotEqual(t, firstCode, secondCode)

	// Only the newest code verifies.
	err = f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: firstCode})
	ge = asGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())

	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: secondCode}))
}

func TestVerifyMismatchBurnsAttemptsThenExhausts(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	code := f.msg.lastCode()

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: "000000"})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())
	assert.Equal(t, "2", ge.Fields()["attempts_remaining"])

	err = f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: "000000"})
	ge = asGoError(t, err)
	assert.Equal(t, "1", ge.Fields()["attempts_remaining"])

	err = f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: "000000"})
	ge = asGoError(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, ge.Code())

	// Exhaustion is sticky, even for the correct code.
	err = f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: code})
	ge = asGoError(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, ge.Code())

	// A resend replaces the exhausted challenge and reopens the budget.
	f.clock.Advance(f.policy.Cooldown)
	require.NoError(t, f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"}))
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()}))
}

func TestVerifyExpiredCodeIsInvalid(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	code := f.msg.lastCode()

	f.clock.Advance(f.policy.CodeTTL)

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: code})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())
}

func TestResendCooldownCountdownComesFromServer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))

	f.clock.Advance(41 * time.Second)
	err := f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, ge.Code())
	assert.Equal(t, "19", ge.Fields()["remaining_seconds"])

	f.clock.Advance(19 * time.Second)
	require.NoError(t, f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"}))
	require.Len(t, f.msg.codeIssued, 2)
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	firstCode := f.msg.lastCode()

	f.clock.Advance(f.policy.Cooldown)
	require.NoError(t, f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"}))

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: firstCode})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())

	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()}))
}

func TestResendWithoutPendingChallenge(t *testing.T) {
	f := newFixture(t)

	// Unknown email.
	err := f.uc.Resend(f.ctx, ResendInput{Email: "nobody@example.com"})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())

	// Already verified account answers the same way.
	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()}))

	err = f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"})
	ge = asGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestResendExpiredChallengeRequiresRestart(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))

	f.clock.Advance(f.policy.CodeTTL)

	err := f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestRegisterSucceedsWhenDeliveryFails(t *testing.T) {
	f := newFixture(t)
	f.msg.publishErr = errors.New("broker down")

	// Delivery is uncertain by contract, so issuance still succeeds and the
	// client can recover through resend.
	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))

	f.msg.publishErr = nil
	f.clock.Advance(f.policy.Cooldown)
	require.NoError(t, f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"}))
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()}))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "bad email", in: RegisterInput{Email: "nope", Password: "Secret123!", FullName: "Test User"}},
		{name: "short password", in: RegisterInput{Email: "a@b.com", Password: "short", FullName: "Test User"}},
		{name: "numeric name", in: RegisterInput{Email: "a@b.com", Password: "Secret123!", FullName: "User 1234"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := f.uc.Register(f.ctx, tc.in)
			ge := asGoError(t, err)
			assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
		})
	}
}

func TestVerifyValidationRejectsNonDigits(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: "12a456"})
	ge := asGoError(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
}

func TestStoredHashBindsIdentity(t *testing.T) {
	f := newFixtureWith(t, fixedGenerator{code: "482913"})

	require.NoError(t, f.uc.Register(f.ctx, registerInput("a@example.com")))
	require.NoError(t, f.uc.Register(f.ctx, registerInput("b@example.com")))

	chA, err := f.store.Get(f.ctx, "a@example.com")
	require.NoError(t, err)
	chB, err := f.store.Get(f.ctx, "b@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, chA.CodeHash, chB.CodeHash)

	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "a@example.com", Code: "482913"}))
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "b@example.com", Code: "482913"}))
}

func TestConcurrentResendAndVerifyKeepSingleValidCode(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Register(f.ctx, registerInput("user@example.com")))
	firstCode := f.msg.lastCode()
	f.clock.Advance(f.policy.Cooldown)

	var wg sync.WaitGroup
	var verifyErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		verifyErr = f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: firstCode})
	}()
	go func() {
		defer wg.Done()
		_ = f.uc.Resend(f.ctx, ResendInput{Email: "user@example.com"})
	}()
	wg.Wait()

	if verifyErr == nil {
		// Verify won the identity lock: the challenge was consumed, so the
		// resend found nothing to reissue and no code remains.
		_, err := f.store.Get(f.ctx, "user@example.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)
		return
	}

	// Resend won: the first code is dead and only the reissued one verifies.
	ge := asGoError(t, verifyErr)
	assert.Equal(t, goerror.CodeUnauthorized, ge.Code())
	require.NoError(t, f.uc.Verify(f.ctx, VerifyInput{Email: "user@example.com", Code: f.msg.lastCode()}))
}
