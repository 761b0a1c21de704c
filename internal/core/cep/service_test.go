// internal/core/cep/service_test.go
package cep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuscarCEPValido(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/90160093/json/" {
			t.Errorf("caminho inesperado: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"logradouro":"Avenida Ipiranga","bairro":"Azenha","localidade":"Porto Alegre","uf":"RS"}`))
	}))
	defer servidor.Close()

	svc := NewService(servidor.URL)
	endereco, err := svc.Buscar(context.Background(), "90160093")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if endereco.Logradouro != "Avenida Ipiranga" {
		t.Errorf("logradouro esperado 'Avenida Ipiranga', obtido %q", endereco.Logradouro)
	}
	if endereco.Cidade != "Porto Alegre" {
		t.Errorf("cidade esperada 'Porto Alegre', obtida %q", endereco.Cidade)
	}
	if endereco.Estado != "RS" {
		t.Errorf("estado esperado 'RS', obtido %q", endereco.Estado)
	}
}

func TestBuscarCEPInexistente(t *testing.T) {
	// o ViaCEP responde 200 com {"erro": true} para CEP que não existe
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"erro": true}`))
	}))
	defer servidor.Close()

	svc := NewService(servidor.URL)
	_, err := svc.Buscar(context.Background(), "99999999")
	if !errors.Is(err, ErrCEPNaoEncontrado) {
		t.Fatalf("esperado ErrCEPNaoEncontrado, obtido %v", err)
	}
}

func TestBuscarCEPMalFormado(t *testing.T) {
	svc := NewService("http://exemplo.invalido")

	casos := []string{"", "1234567", "123456789", "12345-67", "abcdefgh"}
	for _, cep := range casos {
		if _, err := svc.Buscar(context.Background(), cep); !errors.Is(err, ErrCEPInvalido) {
			t.Errorf("cep %q: esperado ErrCEPInvalido, obtido %v", cep, err)
		}
	}
}

func TestBuscarServicoIndisponivel(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer servidor.Close()

	svc := NewService(servidor.URL)
	if _, err := svc.Buscar(context.Background(), "90160093"); err == nil {
		t.Fatal("esperado erro com o serviço fora do ar")
	}
}
