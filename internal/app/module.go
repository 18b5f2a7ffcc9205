package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/notification"
	"github.com/shandysiswandi/otpgate/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		closer, err := verification.New(verification.Dependency{
			DBConn:        a.dbConn,
			CacheConn:     a.cacheConn,
			Router:        a.router,
			Messaging:     a.messaging,
			Config:        a.config,
			Instrument:    a.ins,
			Locker:        a.locker,
			CodeGenerator: a.codegen,
			UID:           a.uid,
			HMAC:          a.hmac,
			Bcrypt:        a.bcrypt,
			Clock:         a.clock,
			Validator:     a.validator,
		})
		if err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
		a.verificationCloser = closer
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
