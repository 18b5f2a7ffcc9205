package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

const queryGetUserByEmail = `
SELECT id, email, full_name, status, updated_at
FROM users
WHERE email = $1 AND deleted_at IS NULL
`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).
		Scan(&user.ID, &user.Email, &user.FullName, &user.Status, &user.UpdatedAt)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &user, nil
}

const queryInsertUser = `
INSERT INTO users (id, email, full_name, status)
VALUES ($1, $2, $3, $4)
`

const queryInsertUserCredential = `
INSERT INTO user_credentials (user_id, password_hash)
VALUES ($1, $2)
`

// NewRegistration creates the user row and its credential in one transaction.
func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	err = pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryInsertUser, user.ID, user.Email, user.FullName, user.Status); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, queryInsertUserCredential, user.ID, passwordHash); err != nil {
			return err
		}

		return nil
	})

	err = s.mapError(err)
	return err
}

const queryUpdateUserStatus = `
UPDATE users
SET status = $3, updated_at = NOW()
WHERE id = $1 AND status = $2 AND deleted_at IS NULL
`

// UpdateUserStatus transitions a user between two statuses. It returns
// goerror.ErrNotFound when the user is missing or not in the expected status,
// which lets callers detect a lost race.
func (s *DB) UpdateUserStatus(ctx context.Context, id int64, from, to entity.UserStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateUserStatus, id, from, to)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
