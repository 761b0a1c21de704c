// internal/core/pipeline/analisador.go
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cursocondutor/matricula/internal/domain"
)

// cenario é um desfecho possível para um tipo de documento na simulação.
type cenario struct {
	status    domain.StatusAnalise
	confianca float64
	analise   string
	detalhes  []string
}

// Tabela de cenários por tipo de documento. A escolha entre cenários é
// sorteada; um backend real de OCR/ML substitui tudo isto via Analisador.
var cenariosPorTipo = map[domain.TipoDocumento][]cenario{
	domain.DocCNH: {
		{domain.AnaliseAprovada, 0.95, "CNH legível e dentro da validade", []string{"Foto e dados conferem", "Categoria compatível"}},
		{domain.AnaliseAlerta, 0.78, "CNH legível, mas com reflexo na foto", []string{"Reenviar foto sem reflexo se solicitado"}},
	},
	domain.DocComprovanteResidencia: {
		{domain.AnaliseAprovada, 0.93, "Comprovante recente em nome do candidato", []string{"Emitido há menos de 90 dias"}},
		{domain.AnaliseAlerta, 0.72, "Comprovante em nome de terceiro", []string{"Anexar declaração de residência"}},
	},
	domain.DocFoto: {
		{domain.AnaliseAprovada, 0.97, "Foto 3x4 dentro do padrão", nil},
		{domain.AnaliseRejeitada, 0.41, "Foto fora do padrão exigido", []string{"Fundo deve ser claro e uniforme", "Rosto centralizado e sem acessórios"}},
	},
	domain.DocCRLV: {
		{domain.AnaliseAprovada, 0.94, "CRLV do exercício atual", []string{"Placa e RENAVAM legíveis"}},
		{domain.AnaliseAlerta, 0.69, "CRLV de exercício anterior", []string{"Enviar o documento do exercício vigente"}},
	},
	domain.DocAlvara: {
		{domain.AnaliseAprovada, 0.92, "Alvará de taxista vigente", nil},
		{domain.AnaliseAlerta, 0.74, "Alvará próximo do vencimento", []string{"Renovação recomendada antes do início do curso"}},
	},
	domain.DocDeclaracaoCooperativa: {
		{domain.AnaliseAprovada, 0.91, "Declaração com carimbo e assinatura da cooperativa", nil},
		{domain.AnaliseRejeitada, 0.38, "Declaração sem assinatura identificável", []string{"Solicitar nova via assinada à cooperativa"}},
	},
}

// AnalisadorSimulado sorteia um cenário por documento com um pequeno ruído na
// confiança, imitando a variação de um OCR real.
type AnalisadorSimulado struct {
	mu  sync.Mutex
	rnd *rand.Rand
	// pausa por documento para a interface mostrar progresso; zero nos testes
	atraso time.Duration
}

// NewAnalisadorSimulado cria o analisador com fonte de aleatoriedade injetada.
func NewAnalisadorSimulado(fonte rand.Source, atraso time.Duration) *AnalisadorSimulado {
	return &AnalisadorSimulado{rnd: rand.New(fonte), atraso: atraso}
}

func (a *AnalisadorSimulado) Analisar(ctx context.Context, tipo domain.TipoDocumento, _ domain.DocumentoAnexo) (domain.ResultadoAnalise, error) {
	if a.atraso > 0 {
		select {
		case <-ctx.Done():
			return domain.ResultadoAnalise{}, ctx.Err()
		case <-time.After(a.atraso):
		}
	}

	cenarios, ok := cenariosPorTipo[tipo]
	if !ok {
		return domain.ResultadoAnalise{}, fmt.Errorf("sem cenários de análise para o tipo %q", tipo)
	}

	a.mu.Lock()
	escolhido := cenarios[a.rnd.Intn(len(cenarios))]
	ruido := (a.rnd.Float64() - 0.5) * 0.04
	a.mu.Unlock()

	confianca := escolhido.confianca + ruido
	if confianca > 1 {
		confianca = 1
	}
	if confianca < 0 {
		confianca = 0
	}

	return domain.ResultadoAnalise{
		Tipo:      tipo,
		Status:    escolhido.status,
		Confianca: confianca,
		Analise:   escolhido.analise,
		Detalhes:  escolhido.detalhes,
	}, nil
}
