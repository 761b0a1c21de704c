// cmd/web/main.go
package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/cursocondutor/matricula/internal/api/handlers"
	"github.com/cursocondutor/matricula/internal/api/middleware"
	"github.com/cursocondutor/matricula/internal/api/responses"
	"github.com/cursocondutor/matricula/internal/config"
	"github.com/cursocondutor/matricula/internal/core/auth"
	"github.com/cursocondutor/matricula/internal/core/cep"
	"github.com/cursocondutor/matricula/internal/core/documents"
	"github.com/cursocondutor/matricula/internal/core/payment"
	"github.com/cursocondutor/matricula/internal/core/pipeline"
	"github.com/cursocondutor/matricula/internal/core/validation"
	"github.com/cursocondutor/matricula/internal/core/wizard"
	"github.com/gin-gonic/gin"
)

func main() {
	responses.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	validador := validation.NewService(time.Now)
	documentosService := documents.NewService(validador, time.Now)
	manager := wizard.NewManager(validador, time.Now)

	provedorPix := payment.NewSimulador(cfg.TaxaAprovPix, rand.NewSource(time.Now().UnixNano()))
	pagamentoService := payment.NewService(provedorPix, cfg.PrecoCurso, cfg.DescontoPix, cfg.JanelaPix, time.Now)

	analisador := pipeline.NewAnalisadorSimulado(rand.NewSource(time.Now().UnixNano()), 800*time.Millisecond)
	provisionador := &pipeline.ProvisionadorLog{Log: responses.Logger}
	pipelineService := pipeline.NewService(analisador, provisionador, responses.Logger)

	authService := auth.NewService([]byte(cfg.JWTSecret), cfg.SessaoDuracao, cfg.OperadorUsuario, cfg.OperadorSenhaHash)
	cepService := cep.NewService(cfg.ViaCEPBaseURL)

	matriculaHandler := handlers.NewMatriculaHandler(manager, documentosService, pagamentoService, authService)
	pagamentoHandler := handlers.NewPagamentoHandler(manager, pagamentoService)
	validacaoHandler := handlers.NewValidacaoHandler(manager, pipelineService, pagamentoService)
	cepHandler := handlers.NewCepHandler(cepService)
	authHandler := handlers.NewAuthHandler(authService)

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		apiV1.POST("/matriculas", matriculaHandler.Criar)
		apiV1.GET("/cep/:cep", cepHandler.Buscar)

		sessao := apiV1.Group("/matriculas/:id")
		sessao.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)), middleware.MatriculaMiddleware())
		{
			sessao.GET("", matriculaHandler.Obter)
			sessao.DELETE("", matriculaHandler.Encerrar)
			sessao.PUT("/etapa", matriculaHandler.AtualizarEtapa)
			sessao.POST("/avancar", matriculaHandler.Avancar)
			sessao.POST("/voltar", matriculaHandler.Voltar)
			sessao.POST("/ir/:n", matriculaHandler.IrPara)
			sessao.POST("/documentos/:tipo", matriculaHandler.EnviarDocumento)
			sessao.DELETE("/documentos/:tipo", matriculaHandler.RemoverDocumento)
			sessao.POST("/pagamento", pagamentoHandler.Obter)
			sessao.POST("/pagamento/iniciar", pagamentoHandler.Iniciar)
			sessao.POST("/pagamento/verificar", pagamentoHandler.Verificar)
			sessao.POST("/pagamento/reiniciar", pagamentoHandler.Reiniciar)
			sessao.GET("/validacao", validacaoHandler.Executar)
		}

		admin := apiV1.Group("/admin")
		admin.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)), middleware.PermissionMiddleware("operador"))
		{
			admin.GET("/matriculas", matriculaHandler.Listar)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	log.Printf("🚀 Servidor iniciado e escutando na porta %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor: ", err)
	}
}
