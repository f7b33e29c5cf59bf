package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("secret123"))

	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.False(t, u.CheckPassword(""))
}

func TestPasswordHashNeverMarshalled(t *testing.T) {
	u := &User{ID: "u1", Email: "jo@example.com", PasswordHash: "bcrypt-hash", Role: "user"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "bcrypt-hash")
	assert.NotContains(t, string(raw), "password_hash")
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("user"))
	assert.True(t, ValidRole("agent"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superadmin"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("Admin"))
}

func TestIsStaff(t *testing.T) {
	assert.False(t, IsStaff("user"))
	assert.True(t, IsStaff("agent"))
	assert.True(t, IsStaff("admin"))
	assert.False(t, IsStaff(""))
}
