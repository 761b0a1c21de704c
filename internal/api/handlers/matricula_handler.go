// internal/api/handlers/matricula_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/cursocondutor/matricula/internal/api/responses"
	"github.com/cursocondutor/matricula/internal/core/auth"
	"github.com/cursocondutor/matricula/internal/core/documents"
	"github.com/cursocondutor/matricula/internal/core/payment"
	"github.com/cursocondutor/matricula/internal/core/wizard"
	"github.com/cursocondutor/matricula/internal/domain"
	"github.com/gin-gonic/gin"
)

// MatriculaHandler conduz a sessão do assistente: criação, navegação entre
// etapas, envio de campos e de documentos.
type MatriculaHandler struct {
	manager    *wizard.Manager
	documentos documents.Service
	pagamentos payment.Service
	auth       auth.Service
}

func NewMatriculaHandler(manager *wizard.Manager, documentos documents.Service, pagamentos payment.Service, authService auth.Service) *MatriculaHandler {
	return &MatriculaHandler{
		manager:    manager,
		documentos: documentos,
		pagamentos: pagamentos,
		auth:       authService,
	}
}

func (h *MatriculaHandler) sessao(c *gin.Context) (*wizard.Sessao, bool) {
	ws, err := h.manager.Obter(c.Param("id"))
	if err != nil {
		responses.Error(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	return ws, true
}

func (h *MatriculaHandler) estado(ws *wizard.Sessao) gin.H {
	return gin.H{
		"matricula":   ws.Snapshot(),
		"etapa_atual": ws.EtapaAtual(),
		"etapas":      ws.Etapas(),
	}
}

// Criar abre uma sessão nova do assistente e devolve o token que a protege.
func (h *MatriculaHandler) Criar(c *gin.Context) {
	ws := h.manager.Criar()
	token, err := h.auth.TokenSessao(ws.ID())
	if err != nil {
		h.manager.Encerrar(ws.ID())
		responses.Error(c, http.StatusInternalServerError, "Erro ao criar a matrícula", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     ws.ID(),
		"token":  token,
		"etapas": ws.Etapas(),
	})
}

// Obter devolve o registro e o status derivado de cada etapa.
func (h *MatriculaHandler) Obter(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.estado(ws))
}

// Encerrar descarta a sessão quando o candidato abandona o fluxo.
func (h *MatriculaHandler) Encerrar(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	h.pagamentos.Descartar(ws.ID())
	h.manager.Encerrar(ws.ID())
	c.Status(http.StatusNoContent)
}

type dadosPessoaisPayload struct {
	NomeCompleto   string `json:"nome_completo"`
	CPF            string `json:"cpf"`
	RG             string `json:"rg"`
	DataNascimento string `json:"data_nascimento"`
	Genero         string `json:"genero"`
	EstadoCivil    string `json:"estado_civil"`
}

type enderecoContatoPayload struct {
	Logradouro   string `json:"logradouro"`
	Numero       string `json:"numero"`
	Complemento  string `json:"complemento"`
	Bairro       string `json:"bairro"`
	Cidade       string `json:"cidade"`
	Estado       string `json:"estado"`
	CEP          string `json:"cep"`
	Email        string `json:"email"`
	Celular      string `json:"celular"`
	TelefoneFixo string `json:"telefone_fixo"`
}

type dadosProfissionaisPayload struct {
	NumeroCNH     string `json:"numero_cnh"`
	CategoriaCNH  string `json:"categoria_cnh"`
	ValidadeCNH   string `json:"validade_cnh"`
	NumeroAlvara  string `json:"numero_alvara"`
	Cooperativa   string `json:"cooperativa"`
	CidadeAtuacao string `json:"cidade_atuacao"`
	Autonomo      bool   `json:"autonomo"`
}

type termosPayload struct {
	AceitouTermos          bool `json:"aceitou_termos"`
	AceitouTratamentoDados bool `json:"aceitou_tratamento_dados"`
	DeclarouVeracidade     bool `json:"declarou_veracidade"`
}

// AtualizarEtapa grava no registro apenas os campos da etapa atual; nenhuma
// etapa consegue limpar campos de outra.
func (h *MatriculaHandler) AtualizarEtapa(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}

	switch ws.EtapaAtual() {
	case domain.EtapaDadosPessoais:
		var payload dadosPessoaisPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
			return
		}
		ws.Com(func(m *domain.Matricula) {
			m.NomeCompleto = payload.NomeCompleto
			m.CPF = payload.CPF
			m.RG = payload.RG
			m.DataNascimento = payload.DataNascimento
			m.Genero = payload.Genero
			m.EstadoCivil = payload.EstadoCivil
		})
	case domain.EtapaEnderecoContato:
		var payload enderecoContatoPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
			return
		}
		ws.Com(func(m *domain.Matricula) {
			m.Logradouro = payload.Logradouro
			m.Numero = payload.Numero
			m.Complemento = payload.Complemento
			m.Bairro = payload.Bairro
			m.Cidade = payload.Cidade
			m.Estado = payload.Estado
			m.CEP = payload.CEP
			m.Email = payload.Email
			m.Celular = payload.Celular
			m.TelefoneFixo = payload.TelefoneFixo
		})
	case domain.EtapaDadosProfissionais:
		var payload dadosProfissionaisPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
			return
		}
		ws.Com(func(m *domain.Matricula) {
			m.NumeroCNH = payload.NumeroCNH
			m.CategoriaCNH = payload.CategoriaCNH
			m.ValidadeCNH = payload.ValidadeCNH
			m.NumeroAlvara = payload.NumeroAlvara
			m.Cooperativa = payload.Cooperativa
			m.CidadeAtuacao = payload.CidadeAtuacao
			m.Autonomo = payload.Autonomo
		})
	case domain.EtapaTermosConfirmacao:
		var payload termosPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
			return
		}
		ws.Com(func(m *domain.Matricula) {
			m.AceitouTermos = payload.AceitouTermos
			m.AceitouTratamentoDados = payload.AceitouTratamentoDados
			m.DeclarouVeracidade = payload.DeclarouVeracidade
		})
	default:
		responses.Error(c, http.StatusBadRequest, "A etapa atual não recebe campos de formulário")
		return
	}

	c.JSON(http.StatusOK, h.estado(ws))
}

// Avancar valida a etapa atual e avança; com erros de campo o avanço é recusado.
func (h *MatriculaHandler) Avancar(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	if erros := ws.Avancar(); len(erros) > 0 {
		responses.FieldErrors(c, erros)
		return
	}
	c.JSON(http.StatusOK, h.estado(ws))
}

// Voltar recua uma etapa sem revalidar nada.
func (h *MatriculaHandler) Voltar(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	ws.Voltar()
	c.JSON(http.StatusOK, h.estado(ws))
}

// IrPara navega direto para uma etapa já alcançada.
func (h *MatriculaHandler) IrPara(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Número de etapa inválido")
		return
	}
	if err := ws.IrPara(domain.Etapa(n)); err != nil {
		responses.Error(c, http.StatusForbidden, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.estado(ws))
}

// EnviarDocumento recebe o upload multipart e registra os metadados do anexo.
func (h *MatriculaHandler) EnviarDocumento(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}

	arquivoHeader, err := c.FormFile("arquivo")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo não encontrado ou inválido")
		return
	}

	arquivo := documents.Arquivo{
		Nome:         arquivoHeader.Filename,
		Tamanho:      arquivoHeader.Size,
		TipoConteudo: arquivoHeader.Header.Get("Content-Type"),
	}

	var anexo *domain.DocumentoAnexo
	var envioErr error
	ws.Com(func(m *domain.Matricula) {
		anexo, envioErr = h.documentos.Enviar(
			c.Request.Context(),
			m,
			domain.TipoDocumento(c.Param("tipo")),
			arquivo,
			nil,
		)
	})
	if envioErr != nil {
		responses.Error(c, http.StatusUnprocessableEntity, envioErr.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"documento": anexo})
}

// RemoverDocumento limpa o anexo do tipo informado.
func (h *MatriculaHandler) RemoverDocumento(c *gin.Context) {
	ws, ok := h.sessao(c)
	if !ok {
		return
	}
	ws.Com(func(m *domain.Matricula) {
		h.documentos.Remover(m, domain.TipoDocumento(c.Param("tipo")))
	})
	c.Status(http.StatusNoContent)
}

// Listar devolve as matrículas ativas para a fila de revisão do operador.
func (h *MatriculaHandler) Listar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matriculas": h.manager.Listar()})
}
