// internal/core/documents/service.go
package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/cursocondutor/matricula/internal/core/validation"
	"github.com/cursocondutor/matricula/internal/domain"
)

// Arquivo descreve o upload recebido; o conteúdo em si fica com o
// provedor de armazenamento externo, aqui só circulam metadados.
type Arquivo struct {
	Nome         string
	Tamanho      int64
	TipoConteudo string
}

// Service gerencia os anexos de uma matrícula: valida, registra e remove
// os metadados de cada documento enviado.
type Service interface {
	Enviar(ctx context.Context, m *domain.Matricula, tipo domain.TipoDocumento, arquivo Arquivo, progresso func(int)) (*domain.DocumentoAnexo, error)
	Remover(m *domain.Matricula, tipo domain.TipoDocumento)
}

type service struct {
	validador validation.Service
	agora     func() time.Time
	// intervalo entre os avanços do progresso simulado de upload
	passoProgresso time.Duration
}

// NewService cria o serviço de documentos. O relógio é injetado para que os
// carimbos de envio sejam determinísticos em teste.
func NewService(validador validation.Service, agora func() time.Time) Service {
	if agora == nil {
		agora = time.Now
	}
	return &service{validador: validador, agora: agora, passoProgresso: 40 * time.Millisecond}
}

func tipoConhecido(tipo domain.TipoDocumento) bool {
	for _, t := range domain.TiposDocumento {
		if t == tipo {
			return true
		}
	}
	return false
}

// Enviar valida o arquivo antes de qualquer mutação; em caso de erro o mapa de
// documentos permanece intocado. O progresso é reportado de forma monotônica
// de 0 a 100 e o envio pode ser cancelado pelo contexto sem escrita parcial.
func (s *service) Enviar(ctx context.Context, m *domain.Matricula, tipo domain.TipoDocumento, arquivo Arquivo, progresso func(int)) (*domain.DocumentoAnexo, error) {
	if !tipoConhecido(tipo) {
		return nil, fmt.Errorf("tipo de documento desconhecido: %q", tipo)
	}
	if err := s.validador.ValidarArquivo(arquivo.Nome, arquivo.Tamanho, arquivo.TipoConteudo); err != nil {
		return nil, err
	}

	for pct := 0; pct <= 100; pct += 25 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.passoProgresso):
		}
		if progresso != nil {
			progresso(pct)
		}
	}

	anexo := &domain.DocumentoAnexo{
		Nome:         arquivo.Nome,
		Tamanho:      arquivo.Tamanho,
		TipoConteudo: arquivo.TipoConteudo,
		EnviadoEm:    s.agora(),
	}
	// Substituir um anexo descarta os metadados anteriores; não há versionamento.
	m.Documentos[tipo] = anexo
	return anexo, nil
}

// Remover limpa o anexo do tipo informado; remover um tipo ausente é inócuo.
func (s *service) Remover(m *domain.Matricula, tipo domain.TipoDocumento) {
	delete(m.Documentos, tipo)
}
