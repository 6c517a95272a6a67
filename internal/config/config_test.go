package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ADMIN_ROLES", " ADMIN , OWNER ,,")
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")
	t.Setenv("MINIO_USE_SSL", "true")

	LoadConfig()

	assert.Equal(t, []string{"ADMIN", "OWNER"}, AdminRoles)
	assert.Equal(t, 24, TokenTTLHours)
	assert.True(t, MinioUseSSL)
	assert.Equal(t, "8080", ServerPort)
	assert.True(t, IsAdminRole("OWNER"))
	assert.False(t, IsAdminRole("ACCOUNTANT"))
}
