package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV10ValidatorCustomRules(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	type input struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,password"`
		FullName string `validate:"required,alphaspace"`
		Code     string `validate:"required,otpcode"`
	}

	ok := input{Email: "a@b.com", Password: "Secret123!", FullName: "Test User", Code: "482913"}
	require.NoError(t, v.Validate(ok))

	tests := []struct {
		name  string
		in    input
		field string
	}{
		{
			name:  "code with letters",
			in:    input{Email: "a@b.com", Password: "Secret123!", FullName: "Test User", Code: "48a913"},
			field: "code",
		},
		{
			name:  "name with digits",
			in:    input{Email: "a@b.com", Password: "Secret123!", FullName: "User 99", Code: "482913"},
			field: "full_name",
		},
		{
			name:  "password too short",
			in:    input{Email: "a@b.com", Password: "short", FullName: "Test User", Code: "482913"},
			field: "password",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			require.Error(t, err)

			var ve V10ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Values(), tc.field)
		})
	}
}
