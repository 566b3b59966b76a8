package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizer_IsAdmin(t *testing.T) {
	auth := NewAuthorizer("admin")

	assert.True(t, auth.IsAdmin("admin"))
	assert.False(t, auth.IsAdmin("bob"))
	assert.False(t, auth.IsAdmin(""))
}

func TestAuthorizer_IsAdmin_EmptyAdminNeverMatches(t *testing.T) {
	// Misconfiguration guard: an unset admin identity must not make the
	// anonymous caller an administrator.
	auth := NewAuthorizer("")

	assert.False(t, auth.IsAdmin(""))
	assert.False(t, auth.IsAdmin("bob"))
}

func TestAuthorizer_CanRegisterApplication(t *testing.T) {
	auth := NewAuthorizer("admin")

	assert.True(t, auth.CanRegisterApplication("bob", "bob"))     // self
	assert.True(t, auth.CanRegisterApplication("admin", "bob"))   // on behalf
	assert.False(t, auth.CanRegisterApplication("mallory", "bob"))
}

func TestAuthorizer_CanManageApplication(t *testing.T) {
	auth := NewAuthorizer("admin")

	assert.True(t, auth.CanManageApplication("bob", "bob"))
	assert.False(t, auth.CanManageApplication("admin", "bob")) // admin has no owner powers
	assert.False(t, auth.CanManageApplication("mallory", "bob"))
	assert.False(t, auth.CanManageApplication("", "")) // no-owner sentinel
}
