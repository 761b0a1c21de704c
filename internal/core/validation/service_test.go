// internal/core/validation/service_test.go
package validation

import (
	"testing"
	"time"

	"github.com/cursocondutor/matricula/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relógio fixo para tornar idade e validade determinísticas
var agoraFixo = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func relogio() time.Time { return agoraFixo }

func novaMatriculaValida() *domain.Matricula {
	m := domain.NovaMatricula("teste", agoraFixo)
	m.NomeCompleto = "João da Silva"
	m.CPF = "123.456.789-00"
	m.RG = "1234567890"
	m.DataNascimento = "1985-03-10"
	m.Genero = "masculino"
	m.EstadoCivil = "casado"

	m.Logradouro = "Avenida Ipiranga"
	m.Numero = "1200"
	m.Bairro = "Azenha"
	m.Cidade = "Porto Alegre"
	m.Estado = "RS"
	m.CEP = "90160-093"
	m.Email = "joao.silva@example.com"
	m.Celular = "(51) 99999-8888"

	m.NumeroCNH = "12345678901"
	m.CategoriaCNH = "B"
	m.ValidadeCNH = "2028-01-15"
	m.NumeroAlvara = "ALV-2026-001"
	m.CidadeAtuacao = "Porto Alegre"
	m.Autonomo = true
	return m
}

func TestValidarDadosPessoais(t *testing.T) {
	svc := NewService(relogio)

	t.Run("registro válido passa", func(t *testing.T) {
		m := novaMatriculaValida()
		erros := svc.ValidarEtapa(domain.EtapaDadosPessoais, m)
		assert.Empty(t, erros)
	})

	t.Run("CPF com 11 dígitos passa mesmo com máscara", func(t *testing.T) {
		m := novaMatriculaValida()
		m.CPF = "12345678900"
		assert.Empty(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m))
	})

	t.Run("CPF com 9 dígitos é recusado", func(t *testing.T) {
		m := novaMatriculaValida()
		m.CPF = "123456789"
		erros := svc.ValidarEtapa(domain.EtapaDadosPessoais, m)
		require.Contains(t, erros, "cpf")
		assert.Equal(t, "CPF é obrigatório e deve ter 11 dígitos", erros["cpf"])
	})

	t.Run("nome curto é recusado", func(t *testing.T) {
		m := novaMatriculaValida()
		m.NomeCompleto = "Jo"
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m), "nome_completo")
	})

	t.Run("idade 17 é recusada e 19 passa", func(t *testing.T) {
		m := novaMatriculaValida()
		m.DataNascimento = "2009-12-31" // 2026-2009 = 17 pela conta por ano
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m), "data_nascimento")

		m.DataNascimento = "2007-12-31" // 19
		assert.NotContains(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m), "data_nascimento")
	})

	t.Run("limite superior de 80 anos é inclusivo", func(t *testing.T) {
		m := novaMatriculaValida()
		m.DataNascimento = "1946-01-01" // 80
		assert.NotContains(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m), "data_nascimento")

		m.DataNascimento = "1945-01-01" // 81
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m), "data_nascimento")
	})

	t.Run("gênero fora do conjunto é recusado", func(t *testing.T) {
		m := novaMatriculaValida()
		m.Genero = "qualquer"
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosPessoais, m), "genero")
	})
}

func TestValidarEnderecoContato(t *testing.T) {
	svc := NewService(relogio)

	t.Run("registro válido passa", func(t *testing.T) {
		assert.Empty(t, svc.ValidarEtapa(domain.EtapaEnderecoContato, novaMatriculaValida()))
	})

	casos := []struct {
		nome  string
		muda  func(m *domain.Matricula)
		campo string
	}{
		{"logradouro curto", func(m *domain.Matricula) { m.Logradouro = "Rua" }, "logradouro"},
		{"número vazio", func(m *domain.Matricula) { m.Numero = "  " }, "numero"},
		{"bairro curto", func(m *domain.Matricula) { m.Bairro = "A" }, "bairro"},
		{"cidade curta", func(m *domain.Matricula) { m.Cidade = "X" }, "cidade"},
		{"CEP com 7 dígitos", func(m *domain.Matricula) { m.CEP = "9016009" }, "cep"},
		{"e-mail sem domínio", func(m *domain.Matricula) { m.Email = "joao@" }, "email"},
		{"celular com 9 dígitos", func(m *domain.Matricula) { m.Celular = "519999888" }, "celular"},
	}
	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			m := novaMatriculaValida()
			caso.muda(m)
			assert.Contains(t, svc.ValidarEtapa(domain.EtapaEnderecoContato, m), caso.campo)
		})
	}
}

func TestValidarDadosProfissionais(t *testing.T) {
	svc := NewService(relogio)

	t.Run("autônomo válido passa", func(t *testing.T) {
		assert.Empty(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, novaMatriculaValida()))
	})

	t.Run("categoria A é recusada", func(t *testing.T) {
		m := novaMatriculaValida()
		m.CategoriaCNH = "A"
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, m), "categoria_cnh")
	})

	t.Run("CNH vencida é recusada", func(t *testing.T) {
		m := novaMatriculaValida()
		m.ValidadeCNH = "2026-08-31"
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, m), "validade_cnh")
	})

	t.Run("validade no dia corrente não é futura", func(t *testing.T) {
		m := novaMatriculaValida()
		m.ValidadeCNH = "2026-09-01"
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, m), "validade_cnh")
	})

	t.Run("cidade de atuação aceita variação de acento e caixa", func(t *testing.T) {
		m := novaMatriculaValida()
		m.CidadeAtuacao = "sao leopoldo"
		assert.Empty(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, m))
	})

	t.Run("cidade fora da lista é recusada", func(t *testing.T) {
		m := novaMatriculaValida()
		m.CidadeAtuacao = "Curitiba"
		assert.Contains(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, m), "cidade_atuacao")
	})

	t.Run("vinculado sem cooperativa é recusado", func(t *testing.T) {
		m := novaMatriculaValida()
		m.Autonomo = false
		m.Cooperativa = ""
		erros := svc.ValidarEtapa(domain.EtapaDadosProfissionais, m)
		require.Contains(t, erros, "cooperativa")

		m.Cooperativa = "Coop X"
		assert.NotContains(t, svc.ValidarEtapa(domain.EtapaDadosProfissionais, m), "cooperativa")
	})
}

func TestValidarDocumentosCondicionais(t *testing.T) {
	svc := NewService(relogio)

	anexa := func(m *domain.Matricula, tipos ...domain.TipoDocumento) {
		for _, tipo := range tipos {
			m.Documentos[tipo] = &domain.DocumentoAnexo{Nome: "doc.pdf", Tamanho: 1024, TipoConteudo: "application/pdf", EnviadoEm: agoraFixo}
		}
	}

	t.Run("autônomo exige CRLV mas não declaração de cooperativa", func(t *testing.T) {
		m := novaMatriculaValida()
		m.Autonomo = true
		anexa(m, domain.DocCNH, domain.DocComprovanteResidencia, domain.DocFoto, domain.DocAlvara)
		erros := svc.ValidarEtapa(domain.EtapaEnvioDocumentos, m)
		assert.Contains(t, erros, string(domain.DocCRLV))
		assert.NotContains(t, erros, string(domain.DocDeclaracaoCooperativa))

		anexa(m, domain.DocCRLV)
		assert.Empty(t, svc.ValidarEtapa(domain.EtapaEnvioDocumentos, m))
	})

	t.Run("vinculado exige declaração de cooperativa mas não CRLV", func(t *testing.T) {
		m := novaMatriculaValida()
		m.Autonomo = false
		anexa(m, domain.DocCNH, domain.DocComprovanteResidencia, domain.DocFoto, domain.DocAlvara)
		erros := svc.ValidarEtapa(domain.EtapaEnvioDocumentos, m)
		assert.Contains(t, erros, string(domain.DocDeclaracaoCooperativa))
		assert.NotContains(t, erros, string(domain.DocCRLV))
	})

	t.Run("todos os obrigatórios ausentes geram um erro por documento", func(t *testing.T) {
		m := novaMatriculaValida()
		erros := svc.ValidarEtapa(domain.EtapaEnvioDocumentos, m)
		assert.Len(t, erros, 5) // cnh, comprovante, foto, alvará e crlv (autônomo)
	})
}

func TestValidarTermos(t *testing.T) {
	svc := NewService(relogio)

	m := novaMatriculaValida()
	erros := svc.ValidarEtapa(domain.EtapaTermosConfirmacao, m)
	assert.Len(t, erros, 3)

	m.AceitouTermos = true
	m.AceitouTratamentoDados = true
	m.DeclarouVeracidade = true
	assert.Empty(t, svc.ValidarEtapa(domain.EtapaTermosConfirmacao, m))
}

func TestValidarArquivo(t *testing.T) {
	svc := NewService(relogio)

	t.Run("PDF dentro do limite passa", func(t *testing.T) {
		assert.NoError(t, svc.ValidarArquivo("cnh.pdf", 1024*1024, "application/pdf"))
	})

	t.Run("tipo não permitido é recusado", func(t *testing.T) {
		assert.Error(t, svc.ValidarArquivo("cnh.txt", 1024, "text/plain"))
	})

	t.Run("acima de 5 MiB é recusado", func(t *testing.T) {
		assert.Error(t, svc.ValidarArquivo("foto.png", 5*1024*1024+1, "image/png"))
	})

	t.Run("exatamente 5 MiB passa", func(t *testing.T) {
		assert.NoError(t, svc.ValidarArquivo("foto.png", 5*1024*1024, "image/png"))
	})
}

func TestEtapasSemRegrasNaoGeramErros(t *testing.T) {
	svc := NewService(relogio)
	m := domain.NovaMatricula("vazia", agoraFixo)
	assert.Empty(t, svc.ValidarEtapa(domain.EtapaPagamento, m))
	assert.Empty(t, svc.ValidarEtapa(domain.EtapaValidacaoDocumentos, m))
}
