package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWebhookTarget(t *testing.T) {
	assert.True(t, IsWebhookTarget("/api/notifications/webhooks/notifications"))
	assert.True(t, IsWebhookTarget("https://example.com/hook"))
	assert.True(t, IsWebhookTarget("http://127.0.0.1:9000/cb"))
	assert.False(t, IsWebhookTarget("//evil.example.com/x"))
	assert.False(t, IsWebhookTarget("ftp://example.com"))
	assert.False(t, IsWebhookTarget("example.com/hook"))
	assert.False(t, IsWebhookTarget(""))
}

func TestRegisterOneOf(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOneOf(v, "status", "passed", "failed"))

	type req struct {
		Status string `validate:"status"`
	}
	assert.NoError(t, v.Struct(req{Status: "PASSED"}))
	assert.Error(t, v.Struct(req{Status: "closed"}))
}
