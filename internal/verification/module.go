package verification

import (
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/keylock"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/verification/inbound"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/mq"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/store"
	"github.com/shandysiswandi/otpgate/internal/verification/throttle"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
)

const (
	defaultCodeLength     = otp.DefaultLength
	defaultCodeTTL        = 10 * time.Minute
	defaultResendCooldown = time.Minute
	defaultMaxAttempts    = 5
)

type Dependency struct {
	DBConn        *pgxpool.Pool              `validate:"required"`
	CacheConn     *redis.Client              `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Messaging     messaging.Messaging        `validate:"required"`
	Config        config.Config              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	Locker        keylock.Locker             `validate:"required"`
	CodeGenerator otp.Generator              `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	HMAC          hash.Hash                  `validate:"required"`
	Bcrypt        hash.Hash                  `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
}

// New wires the module and returns a closer for the resources it owns.
func New(dep Dependency) (io.Closer, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	challengeStore, err := store.NewFromDriver(storeDriver(dep.Config), store.FactoryOptions{
		Redis: dep.CacheConn,
		Clock: dep.Clock,
		Ins:   dep.Instrument,
	})
	if err != nil {
		return nil, err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Store:         challengeStore,
		Locker:        dep.Locker,
		Policy:        policyFromConfig(dep.Config),
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		CodeGenerator: dep.CodeGenerator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return challengeStore, nil
}

func storeDriver(cfg config.Config) string {
	driver := cfg.GetString("modules.verification.store_driver")
	if driver == "" {
		driver = store.DriverRedis
	}

	return driver
}

func policyFromConfig(cfg config.Config) throttle.Policy {
	p := throttle.Policy{
		Cooldown:    cfg.GetSecond("modules.verification.resend_cooldown_seconds"),
		CodeTTL:     cfg.GetMinute("modules.verification.code_ttl_minutes"),
		MaxAttempts: cfg.GetInt("modules.verification.max_attempts"),
		CodeLength:  cfg.GetInt("modules.verification.code_length"),
	}

	if p.Cooldown <= 0 {
		p.Cooldown = defaultResendCooldown
	}
	if p.CodeTTL <= 0 {
		p.CodeTTL = defaultCodeTTL
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.CodeLength <= 0 {
		p.CodeLength = defaultCodeLength
	}

	return p
}
