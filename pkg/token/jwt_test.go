package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServiceToken 验证服务令牌的签发与校验。
func TestServiceToken(t *testing.T) {
	manager := NewJWTManager("chiave-di-test", 1)

	tokenStr, err := manager.GenerateServiceToken("ops", RoleAdmin)
	require.NoError(t, err)

	claims, err := manager.VerifyToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

// TestVerifyTokenWrongKey 验证用错误密钥签发的令牌被拒绝。
func TestVerifyTokenWrongKey(t *testing.T) {
	manager := NewJWTManager("chiave-giusta", 1)
	other := NewJWTManager("chiave-sbagliata", 1)

	tokenStr, err := other.GenerateServiceToken("ops", RoleAdmin)
	require.NoError(t, err)

	_, err = manager.VerifyToken(tokenStr)
	assert.Error(t, err)
}
