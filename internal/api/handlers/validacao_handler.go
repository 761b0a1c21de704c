// internal/api/handlers/validacao_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/cursocondutor/matricula/internal/api/responses"
	"github.com/cursocondutor/matricula/internal/core/payment"
	"github.com/cursocondutor/matricula/internal/core/pipeline"
	"github.com/cursocondutor/matricula/internal/core/wizard"
	"github.com/cursocondutor/matricula/internal/domain"
	"github.com/gin-gonic/gin"
)

// ValidacaoHandler transmite a análise de documentos como eventos SSE, um
// resultado por documento e um resumo ao final.
type ValidacaoHandler struct {
	manager    *wizard.Manager
	pipeline   pipeline.Service
	pagamentos payment.Service
}

func NewValidacaoHandler(manager *wizard.Manager, pipelineService pipeline.Service, pagamentos payment.Service) *ValidacaoHandler {
	return &ValidacaoHandler{manager: manager, pipeline: pipelineService, pagamentos: pagamentos}
}

// Executar roda a análise e transmite o progresso. Com desfecho aprovado a
// matrícula está completa: a sessão é entregue ao provisionamento e encerrada.
func (h *ValidacaoHandler) Executar(c *gin.Context) {
	ws, err := h.manager.Obter(c.Param("id"))
	if err != nil {
		responses.Error(c, http.StatusNotFound, err.Error())
		return
	}

	eventos, err := h.pipeline.Executar(c.Request.Context(), ws)
	if err != nil {
		if errors.Is(err, pipeline.ErrPagamentoNaoConcluido) {
			responses.Error(c, http.StatusConflict, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao iniciar a análise de documentos", err.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	var desfecho domain.StatusValidacao
	c.Stream(func(w io.Writer) bool {
		evento, aberto := <-eventos
		if !aberto {
			return false
		}
		if evento.Tipo == "resumo" && evento.Resumo != nil {
			desfecho = evento.Resumo.Status
		}
		c.SSEvent(evento.Tipo, evento)
		return true
	})

	if desfecho == domain.ValidacaoAprovada {
		h.pagamentos.Descartar(ws.ID())
		h.manager.Encerrar(ws.ID())
	}
}
