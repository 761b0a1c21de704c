// internal/core/auth/service.go
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredenciaisInvalidas cobre usuário inexistente e senha errada com a
// mesma mensagem, sem vazar qual dos dois falhou.
var ErrCredenciaisInvalidas = errors.New("usuário ou senha inválidos")

// Service emite os dois tipos de token da API: o token de sessão que prende o
// candidato à própria matrícula e o token de operador com papel de revisão.
type Service interface {
	TokenSessao(matriculaID string) (string, error)
	Login(usuario, senha string) (string, error)
}

type service struct {
	segredo       []byte
	duracaoSessao time.Duration

	operadorUsuario   string
	operadorSenhaHash string
}

// NewService cria o serviço de autenticação. A credencial do operador vem da
// configuração (hash bcrypt); sem hash configurado o login fica desabilitado.
func NewService(segredo []byte, duracaoSessao time.Duration, operadorUsuario, operadorSenhaHash string) Service {
	return &service{
		segredo:           segredo,
		duracaoSessao:     duracaoSessao,
		operadorUsuario:   operadorUsuario,
		operadorSenhaHash: operadorSenhaHash,
	}
}

// TokenSessao emite o JWT que acompanha uma sessão do assistente. O claim
// matricula_id é conferido pelo middleware contra o id da rota.
func (s *service) TokenSessao(matriculaID string) (string, error) {
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"matricula_id": matriculaID,
		"exp":          time.Now().Add(s.duracaoSessao).Unix(),
	})
	tokenString, err := claims.SignedString(s.segredo)
	if err != nil {
		return "", errors.New("erro ao gerar token de sessão")
	}
	return tokenString, nil
}

// Login valida a credencial do operador e emite um token com o papel "operador".
func (s *service) Login(usuario, senha string) (string, error) {
	if s.operadorSenhaHash == "" || usuario != s.operadorUsuario {
		return "", ErrCredenciaisInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.operadorSenhaHash), []byte(senha)); err != nil {
		return "", ErrCredenciaisInvalidas
	}

	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": usuario,
		"roles":    []string{"operador"},
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := claims.SignedString(s.segredo)
	if err != nil {
		return "", errors.New("erro ao gerar token de acesso")
	}
	return tokenString, nil
}
