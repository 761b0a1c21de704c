// internal/api/handlers/cep_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/cursocondutor/matricula/internal/api/responses"
	"github.com/cursocondutor/matricula/internal/core/cep"
	"github.com/gin-gonic/gin"
)

// CepHandler expõe a consulta de CEP usada para pré-preencher o endereço.
type CepHandler struct {
	service cep.Service
}

func NewCepHandler(service cep.Service) *CepHandler {
	return &CepHandler{service: service}
}

func (h *CepHandler) Buscar(c *gin.Context) {
	endereco, err := h.service.Buscar(c.Request.Context(), c.Param("cep"))
	if err != nil {
		switch {
		case errors.Is(err, cep.ErrCEPInvalido):
			responses.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, cep.ErrCEPNaoEncontrado):
			responses.Error(c, http.StatusNotFound, err.Error())
		default:
			// Falha do serviço externo não bloqueia o fluxo: o frontend
			// ignora e deixa os campos editáveis.
			responses.Error(c, http.StatusBadGateway, "Serviço de CEP indisponível")
		}
		return
	}
	c.JSON(http.StatusOK, endereco)
}
