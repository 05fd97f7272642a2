package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_RequiredAndErr(t *testing.T) {
	errs := Errors{}
	errs.Required("city", "   ")
	errs.Required("street", "1 Rd")

	require.Error(t, errs.Err())
	assert.Equal(t, MsgRequired, errs["city"])
	assert.NotContains(t, errs, "street")

	var target Errors
	assert.True(t, errors.As(errs.Err(), &target))
}

func TestErrors_AddKeepsFirstMessage(t *testing.T) {
	errs := Errors{}
	errs.Add("phone", MsgRequired)
	errs.Add("phone", MsgInvalidPhone)
	assert.Equal(t, MsgRequired, errs["phone"])

	errs.Set("phone", MsgInvalidPhone)
	assert.Equal(t, MsgInvalidPhone, errs["phone"])
}

func TestErrors_EmptyIsNil(t *testing.T) {
	assert.NoError(t, Errors{}.Err())
	assert.NoError(t, Errors(nil).Err())
}

func TestErrors_ErrorIsSorted(t *testing.T) {
	errs := Errors{"zip": "bad", "city": "bad"}
	assert.Equal(t, "validation failed: city: bad; zip: bad", errs.Error())
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.False(t, IsEmail("a@b"))
	assert.False(t, IsEmail("a b@c.d"))
}

func TestPasswordProblem(t *testing.T) {
	assert.NotEmpty(t, PasswordProblem("Ab1"))
	assert.Equal(t, "Password must contain at least one uppercase letter", PasswordProblem("abcdef1"))
	assert.Equal(t, "Password must contain at least one number", PasswordProblem("Abcdefg"))
	assert.Empty(t, PasswordProblem("Abcdef1"))
}
