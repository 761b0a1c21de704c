// internal/core/payment/simulador.go
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// Simulador implementa Provider sem tocar em nenhum gateway real: gera um
// código copia-e-cola sintético e sorteia o resultado da consulta. Substituível
// pela integração PIX de verdade sem mudar o serviço de pagamento.
type Simulador struct {
	mu            sync.Mutex
	rnd           *rand.Rand
	taxaAprovacao float64
}

// NewSimulador cria o provedor simulado. A fonte de aleatoriedade é injetada
// para que os testes fixem a semente.
func NewSimulador(taxaAprovacao float64, fonte rand.Source) *Simulador {
	return &Simulador{
		rnd:           rand.New(fonte),
		taxaAprovacao: taxaAprovacao,
	}
}

func (p *Simulador) CriarCobranca(_ context.Context, cobrancaID string, valor decimal.Decimal, _ Pagador) (string, error) {
	// Formato apenas parecido com um BR Code; nenhum campo é validado por banco.
	return fmt.Sprintf("00020126580014BR.GOV.BCB.PIX0136%s520400005303986540%s5802BR6304", cobrancaID, valor.StringFixed(2)), nil
}

func (p *Simulador) ConsultarCobranca(_ context.Context, _ string) (StatusCobranca, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sorteio := p.rnd.Float64()
	switch {
	case sorteio < p.taxaAprovacao:
		return CobrancaPaga, nil
	case sorteio < p.taxaAprovacao+(1-p.taxaAprovacao)/2:
		return CobrancaPendente, nil
	default:
		return CobrancaRecusada, nil
	}
}
