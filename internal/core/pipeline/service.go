// internal/core/pipeline/service.go
package pipeline

import (
	"context"
	"errors"

	"github.com/cursocondutor/matricula/internal/core/wizard"
	"github.com/cursocondutor/matricula/internal/domain"
	"go.uber.org/zap"
)

// ErrPagamentoNaoConcluido é violação de invariante: o assistente só deveria
// chegar à validação de documentos com o pagamento concluído.
var ErrPagamentoNaoConcluido = errors.New("validação de documentos exige pagamento concluído")

// Analisador é o contrato com o backend de análise (OCR/ML ou fila de revisão
// humana). A implementação simulada deste pacote é um substituto temporário.
type Analisador interface {
	Analisar(ctx context.Context, tipo domain.TipoDocumento, anexo domain.DocumentoAnexo) (domain.ResultadoAnalise, error)
}

// Provisionador recebe a matrícula aprovada para criar a conta do aluno e
// liberar o curso. A implementação real fica fora deste subsistema.
type Provisionador interface {
	LiberarAcesso(ctx context.Context, m domain.Matricula) error
}

// Resumo é o desfecho agregado entregue ao final da análise.
type Resumo struct {
	Status         domain.StatusValidacao `json:"status"`
	AcessoLiberado bool                   `json:"acesso_liberado"`
}

// Evento é cada entrega incremental da análise: um resultado por documento,
// na ordem fixa dos tipos, seguido de um único resumo.
type Evento struct {
	Tipo      string                   `json:"tipo"` // "documento" ou "resumo"
	Documento *domain.ResultadoAnalise `json:"documento,omitempty"`
	Resumo    *Resumo                  `json:"resumo,omitempty"`
}

// Service roda a análise de todos os documentos presentes e aplica o desfecho
// agregado ao registro da matrícula.
type Service interface {
	Executar(ctx context.Context, ws *wizard.Sessao) (<-chan Evento, error)
}

type service struct {
	analisador    Analisador
	provisionador Provisionador
	log           *zap.Logger
}

// NewService cria o serviço de validação com o backend de análise injetado.
func NewService(analisador Analisador, provisionador Provisionador, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{analisador: analisador, provisionador: provisionador, log: log}
}

// Consolidar aplica a precedência rejeitado > revisão manual > aprovado.
// Sem nenhum resultado não há o que aprovar: o desfecho é rejeitado.
func Consolidar(resultados []domain.StatusAnalise) domain.StatusValidacao {
	if len(resultados) == 0 {
		return domain.ValidacaoRejeitada
	}
	desfecho := domain.ValidacaoAprovada
	for _, status := range resultados {
		switch status {
		case domain.AnaliseRejeitada:
			return domain.ValidacaoRejeitada
		case domain.AnaliseAlerta:
			desfecho = domain.ValidacaoRevisaoManual
		}
	}
	return desfecho
}

// Executar produz um canal com um evento por documento, na ordem fixa de
// domain.TiposDocumento, e encerra com o resumo. Cancelar o contexto abandona
// a execução sem aplicar desfecho parcial ao registro.
func (s *service) Executar(ctx context.Context, ws *wizard.Sessao) (<-chan Evento, error) {
	var statusPagamento domain.StatusPagamento
	type pendenteAnalise struct {
		tipo  domain.TipoDocumento
		anexo domain.DocumentoAnexo
	}
	var fila []pendenteAnalise

	ws.Com(func(m *domain.Matricula) {
		statusPagamento = m.StatusPagamento
		for _, tipo := range domain.TiposDocumento {
			if anexo := m.Documentos[tipo]; anexo != nil {
				fila = append(fila, pendenteAnalise{tipo: tipo, anexo: *anexo})
			}
		}
	})

	if statusPagamento != domain.PagamentoConcluido {
		return nil, ErrPagamentoNaoConcluido
	}

	eventos := make(chan Evento)
	go func() {
		defer close(eventos)

		resultados := make([]domain.StatusAnalise, 0, len(fila))
		for _, pendente := range fila {
			resultado, err := s.analisador.Analisar(ctx, pendente.tipo, pendente.anexo)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				s.log.Error("falha na análise de documento",
					zap.String("matricula", ws.ID()),
					zap.String("tipo", string(pendente.tipo)),
					zap.Error(err),
				)
				resultado = domain.ResultadoAnalise{
					Tipo:      pendente.tipo,
					Status:    domain.AnaliseRejeitada,
					Confianca: 0,
					Analise:   "Não foi possível analisar o documento",
					Detalhes:  []string{"Envie o arquivo novamente"},
				}
			}
			resultados = append(resultados, resultado.Status)
			select {
			case eventos <- Evento{Tipo: "documento", Documento: &resultado}:
			case <-ctx.Done():
				return
			}
		}

		desfecho := Consolidar(resultados)
		aprovado := desfecho == domain.ValidacaoAprovada

		var copia domain.Matricula
		ws.Com(func(m *domain.Matricula) {
			m.StatusValidacao = desfecho
			if aprovado {
				// Único portão que a liberação de acesso ao curso verifica.
				m.AcessoCursoLiberado = true
			}
			copia = *m
		})

		if aprovado {
			if err := s.provisionador.LiberarAcesso(ctx, copia); err != nil {
				s.log.Error("falha ao provisionar acesso ao curso",
					zap.String("matricula", ws.ID()), zap.Error(err))
			}
		}

		select {
		case eventos <- Evento{Tipo: "resumo", Resumo: &Resumo{Status: desfecho, AcessoLiberado: aprovado}}:
		case <-ctx.Done():
		}
	}()

	return eventos, nil
}

// ProvisionadorLog é a implementação local do colaborador externo de
// provisionamento: apenas registra a liberação.
type ProvisionadorLog struct {
	Log *zap.Logger
}

func (p *ProvisionadorLog) LiberarAcesso(_ context.Context, m domain.Matricula) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("acesso ao curso liberado",
		zap.String("matricula", m.ID),
		zap.String("email", m.Email),
	)
	return nil
}
