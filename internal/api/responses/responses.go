// internal/api/responses/responses.go
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger é o logger estruturado compartilhado por toda a aplicação.
var Logger *zap.Logger = zap.NewNop()

// InitLogger inicializa o logger global. Deve ser chamado uma única vez no main.
func InitLogger() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("não foi possível inicializar o logger: " + err.Error())
	}
	Logger = logger
}

// ErrorBody é o envelope JSON padrão para erros da API.
type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Error registra e devolve um erro no formato padrão da API.
func Error(c *gin.Context, status int, message string, details ...string) {
	if status >= http.StatusInternalServerError {
		Logger.Error(message,
			zap.Int("status", status),
			zap.String("path", c.FullPath()),
			zap.Strings("details", details),
		)
	}
	c.JSON(status, ErrorBody{Error: message, Details: details})
}

// FieldErrors devolve erros de validação campo a campo sem interromper a sessão.
// O assistente usa o mapa para destacar cada campo e bloquear o avanço.
func FieldErrors(c *gin.Context, campos map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "Dados inválidos para a etapa atual",
		"campos": campos,
	})
}
