// internal/api/handlers/pagamento_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/cursocondutor/matricula/internal/api/responses"
	"github.com/cursocondutor/matricula/internal/core/payment"
	"github.com/cursocondutor/matricula/internal/core/wizard"
	"github.com/gin-gonic/gin"
)

// PagamentoHandler expõe a máquina de estados da cobrança PIX.
type PagamentoHandler struct {
	manager    *wizard.Manager
	pagamentos payment.Service
}

func NewPagamentoHandler(manager *wizard.Manager, pagamentos payment.Service) *PagamentoHandler {
	return &PagamentoHandler{manager: manager, pagamentos: pagamentos}
}

func (h *PagamentoHandler) sessao(c *gin.Context) (*wizard.Sessao, bool) {
	ws, err := h.manager.Obter(c.Param("id"))
	if err != nil {
		responses.Error(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	return ws, true
}

func (h *PagamentoHandler) responder(c *gin.Context, cobranca payment.Cobranca, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cobranca)
	case errors.Is(err, payment.ErrEtapaNaoAlcancada), errors.Is(err, payment.ErrTransicaoInvalida):
		responses.Error(c, http.StatusConflict, err.Error())
	default:
		responses.Error(c, http.StatusBadGateway, "Falha na comunicação com o provedor de pagamento", err.Error())
	}
}

// Obter cria a cobrança na primeira entrada na etapa de pagamento e depois
// apenas devolve o retrato atual, com o tempo restante recalculado.
func (h *PagamentoHandler) Obter(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	cobranca, err := h.pagamentos.ObterOuCriar(c.Request.Context(), ws)
	h.responder(c, cobranca, err)
}

// Iniciar entrega a cobrança ao provedor: pendente vira processando.
func (h *PagamentoHandler) Iniciar(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	cobranca, err := h.pagamentos.Iniciar(c.Request.Context(), ws)
	h.responder(c, cobranca, err)
}

// Verificar consulta o provedor; verificar uma cobrança concluída é inócuo.
func (h *PagamentoHandler) Verificar(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	cobranca, err := h.pagamentos.Verificar(c.Request.Context(), ws)
	h.responder(c, cobranca, err)
}

// Reiniciar abre nova tentativa após falha, com a janela de expiração zerada.
func (h *PagamentoHandler) Reiniciar(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	cobranca, err := h.pagamentos.Reiniciar(c.Request.Context(), ws)
	h.responder(c, cobranca, err)
}
