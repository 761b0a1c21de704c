// internal/core/payment/service.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cursocondutor/matricula/internal/core/wizard"
	"github.com/cursocondutor/matricula/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrEtapaNaoAlcancada é violação de invariante: o assistente nunca deveria
	// chegar ao pagamento sem a marca d'água liberar a etapa 6.
	ErrEtapaNaoAlcancada = errors.New("etapa de pagamento ainda não alcançada")
	// ErrTransicaoInvalida indica uma transição de status fora da máquina de estados.
	ErrTransicaoInvalida = errors.New("transição de pagamento inválida")
)

// StatusCobranca é a resposta autoritativa do provedor PIX.
type StatusCobranca string

const (
	CobrancaPaga     StatusCobranca = "paga"
	CobrancaPendente StatusCobranca = "pendente"
	CobrancaRecusada StatusCobranca = "recusada"
)

// Pagador leva ao provedor os dados mínimos de quem paga.
type Pagador struct {
	Nome  string
	CPF   string
	Email string
}

// Provider é o contrato com o provedor de pagamento externo. A implementação
// real (gateway PIX) fica fora deste serviço.
type Provider interface {
	CriarCobranca(ctx context.Context, cobrancaID string, valor decimal.Decimal, pagador Pagador) (codigoPix string, err error)
	ConsultarCobranca(ctx context.Context, cobrancaID string) (StatusCobranca, error)
}

// Cobranca é o retrato da sessão de pagamento exposto à API.
type Cobranca struct {
	ID            string                 `json:"id"`
	Valor         decimal.Decimal        `json:"valor"`
	Desconto      decimal.Decimal        `json:"desconto"`
	Status        domain.StatusPagamento `json:"status"`
	CodigoPix     string                 `json:"codigo_pix"`
	CriadaEm      time.Time              `json:"criada_em"`
	ExpiraEm      time.Time              `json:"expira_em"`
	TempoRestante int64                  `json:"tempo_restante_segundos"`
	Expirada      bool                   `json:"expirada"`
}

// cobranca é o estado interno mutável de uma sessão de pagamento.
type cobranca struct {
	id        string
	valor     decimal.Decimal
	desconto  decimal.Decimal
	status    domain.StatusPagamento
	codigoPix string
	criadaEm  time.Time
	expiraEm  time.Time
}

// Service conduz a máquina de estados pendente → processando → concluído|falhou,
// com falhou → pendente na nova tentativa. Concluído é imutável.
type Service interface {
	ObterOuCriar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error)
	Iniciar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error)
	Verificar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error)
	Reiniciar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error)
	Descartar(matriculaID string)
}

type service struct {
	mu        sync.Mutex
	cobrancas map[string]*cobranca

	provider Provider
	agora    func() time.Time
	janela   time.Duration
	preco    decimal.Decimal
	desconto decimal.Decimal
}

// NewService cria o serviço de pagamento. O relógio injetado torna a contagem
// regressiva uma função pura de agora versus expiraEm.
func NewService(provider Provider, preco, desconto decimal.Decimal, janela time.Duration, agora func() time.Time) Service {
	if agora == nil {
		agora = time.Now
	}
	return &service{
		cobrancas: make(map[string]*cobranca),
		provider:  provider,
		agora:     agora,
		janela:    janela,
		preco:     preco,
		desconto:  desconto,
	}
}

func (s *service) retrato(c *cobranca) Cobranca {
	agora := s.agora()
	restante := c.expiraEm.Sub(agora)
	if restante < 0 {
		restante = 0
	}
	return Cobranca{
		ID:            c.id,
		Valor:         c.valor,
		Desconto:      c.desconto,
		Status:        c.status,
		CodigoPix:     c.codigoPix,
		CriadaEm:      c.criadaEm,
		ExpiraEm:      c.expiraEm,
		TempoRestante: int64(restante / time.Second),
		// A expiração é apenas informativa: o provedor é a autoridade final e
		// o status não muda sozinho ao zerar o contador.
		Expirada: c.status == domain.PagamentoPendente && restante == 0,
	}
}

// ObterOuCriar devolve a cobrança da sessão, criando-a na primeira entrada na
// etapa de pagamento. O id da cobrança é gerado uma única vez por sessão.
func (s *service) ObterOuCriar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error) {
	if !ws.Alcancou(domain.EtapaPagamento) {
		return Cobranca{}, ErrEtapaNaoAlcancada
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cobrancas[ws.ID()]; ok {
		return s.retrato(c), nil
	}

	var pagador Pagador
	ws.Com(func(m *domain.Matricula) {
		pagador = Pagador{Nome: m.NomeCompleto, CPF: m.CPF, Email: m.Email}
	})

	c := &cobranca{
		id:       uuid.NewString(),
		valor:    s.preco.Sub(s.desconto),
		desconto: s.desconto,
		status:   domain.PagamentoPendente,
		criadaEm: s.agora(),
	}
	c.expiraEm = c.criadaEm.Add(s.janela)

	codigo, err := s.provider.CriarCobranca(ctx, c.id, c.valor, pagador)
	if err != nil {
		return Cobranca{}, fmt.Errorf("falha ao criar cobrança no provedor: %w", err)
	}
	c.codigoPix = codigo

	s.cobrancas[ws.ID()] = c
	ws.Com(func(m *domain.Matricula) { m.StatusPagamento = domain.PagamentoPendente })
	return s.retrato(c), nil
}

// Iniciar marca a entrega ao provedor: pendente → processando.
func (s *service) Iniciar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cobrancas[ws.ID()]
	if !ok {
		return Cobranca{}, ErrTransicaoInvalida
	}
	switch c.status {
	case domain.PagamentoPendente:
		c.status = domain.PagamentoProcessando
		ws.Com(func(m *domain.Matricula) { m.StatusPagamento = domain.PagamentoProcessando })
	case domain.PagamentoProcessando:
		// já iniciado; repetir é inofensivo
	default:
		return Cobranca{}, fmt.Errorf("%w: iniciar a partir de %s", ErrTransicaoInvalida, c.status)
	}
	return s.retrato(c), nil
}

// Verificar consulta o provedor e aplica a resposta: processando → concluído,
// de volta a pendente, ou falhou. Verificar uma cobrança concluída é inócuo.
func (s *service) Verificar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cobrancas[ws.ID()]
	if !ok {
		return Cobranca{}, ErrTransicaoInvalida
	}
	if c.status == domain.PagamentoConcluido {
		return s.retrato(c), nil
	}
	if c.status != domain.PagamentoProcessando {
		return s.retrato(c), nil
	}

	resposta, err := s.provider.ConsultarCobranca(ctx, c.id)
	if err != nil {
		return Cobranca{}, fmt.Errorf("falha ao consultar o provedor: %w", err)
	}

	switch resposta {
	case CobrancaPaga:
		c.status = domain.PagamentoConcluido
	case CobrancaRecusada:
		c.status = domain.PagamentoFalhou
	case CobrancaPendente:
		c.status = domain.PagamentoPendente
	}
	ws.Com(func(m *domain.Matricula) { m.StatusPagamento = c.status })
	return s.retrato(c), nil
}

// Reiniciar abre nova tentativa: falhou (ou pendente expirada) volta a pendente
// com a janela reiniciada. O id da cobrança é mantido; concluído é imutável.
func (s *service) Reiniciar(ctx context.Context, ws *wizard.Sessao) (Cobranca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cobrancas[ws.ID()]
	if !ok {
		return Cobranca{}, ErrTransicaoInvalida
	}
	switch c.status {
	case domain.PagamentoFalhou, domain.PagamentoPendente:
		c.status = domain.PagamentoPendente
		c.criadaEm = s.agora()
		c.expiraEm = c.criadaEm.Add(s.janela)
		ws.Com(func(m *domain.Matricula) { m.StatusPagamento = domain.PagamentoPendente })
	default:
		return Cobranca{}, fmt.Errorf("%w: reiniciar a partir de %s", ErrTransicaoInvalida, c.status)
	}
	return s.retrato(c), nil
}

// Descartar libera o estado de pagamento quando a sessão do assistente encerra.
func (s *service) Descartar(matriculaID string) {
	s.mu.Lock()
	delete(s.cobrancas, matriculaID)
	s.mu.Unlock()
}
