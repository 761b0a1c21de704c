// internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/cursocondutor/matricula/internal/api/responses"
	"github.com/cursocondutor/matricula/internal/core/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler lida com o login do operador da fila de revisão.
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginPayload struct {
	Usuario string `json:"usuario" binding:"required"`
	Senha   string `json:"senha" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		responses.Error(c, http.StatusBadRequest, "Informe usuário e senha")
		return
	}

	token, err := h.service.Login(payload.Usuario, payload.Senha)
	if err != nil {
		if errors.Is(err, auth.ErrCredenciaisInvalidas) {
			responses.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao autenticar", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
