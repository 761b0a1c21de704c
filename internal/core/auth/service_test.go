// internal/core/auth/service_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var segredo = []byte("segredo-de-teste")

func TestTokenSessao(t *testing.T) {
	svc := NewService(segredo, time.Hour, "operador", "")

	tokenString, err := svc.TokenSessao("matricula-123")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) { return segredo, nil })
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "matricula-123", claims["matricula_id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestLoginOperador(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewService(segredo, time.Hour, "operador", string(hash))

	t.Run("credencial correta emite token com papel", func(t *testing.T) {
		tokenString, err := svc.Login("operador", "senha-forte")
		require.NoError(t, err)

		token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) { return segredo, nil })
		require.NoError(t, err)

		claims := token.Claims.(jwt.MapClaims)
		roles := claims["roles"].([]interface{})
		assert.Contains(t, roles, "operador")
	})

	t.Run("senha errada é recusada", func(t *testing.T) {
		_, err := svc.Login("operador", "senha-errada")
		assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
	})

	t.Run("usuário desconhecido é recusado com a mesma mensagem", func(t *testing.T) {
		_, err := svc.Login("intruso", "senha-forte")
		assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
	})
}

func TestLoginDesabilitadoSemHash(t *testing.T) {
	svc := NewService(segredo, time.Hour, "operador", "")
	_, err := svc.Login("operador", "qualquer")
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}
