// internal/core/cep/service.go
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/cursocondutor/matricula/internal/domain"
)

// ErrCEPInvalido indica um CEP fora do formato de 8 dígitos.
var ErrCEPInvalido = errors.New("CEP deve ter exatamente 8 dígitos")

// ErrCEPNaoEncontrado indica que o serviço externo não conhece o CEP.
var ErrCEPNaoEncontrado = errors.New("CEP não encontrado")

var cepRegex = regexp.MustCompile(`^\d{8}$`)

// Service consulta o serviço externo de CEP (formato ViaCEP) para
// pré-preencher a etapa de endereço. Falhas são toleradas pelo chamador:
// os campos continuam editáveis à mão.
type Service interface {
	Buscar(ctx context.Context, cep string) (*domain.Endereco, error)
}

type service struct {
	baseURL string
	cliente *http.Client
}

// NewService cria o cliente de consulta de CEP apontando para baseURL.
func NewService(baseURL string) Service {
	return &service{
		baseURL: baseURL,
		cliente: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *service) Buscar(ctx context.Context, cep string) (*domain.Endereco, error) {
	if !cepRegex.MatchString(cep) {
		return nil, ErrCEPInvalido
	}

	url := fmt.Sprintf("%s/ws/%s/json/", s.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.cliente.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar o serviço de CEP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serviço de CEP respondeu com status %d", resp.StatusCode)
	}

	// O ViaCEP responde 200 com {"erro": true} para CEP inexistente.
	var corpo struct {
		domain.Endereco
		Erro bool `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&corpo); err != nil {
		return nil, fmt.Errorf("resposta inválida do serviço de CEP: %w", err)
	}
	if corpo.Erro {
		return nil, ErrCEPNaoEncontrado
	}
	return &corpo.Endereco, nil
}
