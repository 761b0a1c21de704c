// internal/core/wizard/service_test.go
package wizard

import (
	"testing"
	"time"

	"github.com/cursocondutor/matricula/internal/core/validation"
	"github.com/cursocondutor/matricula/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var agoraFixo = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func relogio() time.Time { return agoraFixo }

func novoManager() *Manager {
	return NewManager(validation.NewService(relogio), relogio)
}

func preencherDadosPessoais(ws *Sessao) {
	ws.Com(func(m *domain.Matricula) {
		m.NomeCompleto = "Maria Pereira"
		m.CPF = "987.654.321-00"
		m.RG = "9876543"
		m.DataNascimento = "1990-05-20"
		m.Genero = "feminino"
		m.EstadoCivil = "solteiro"
	})
}

func preencherEnderecoContato(ws *Sessao) {
	ws.Com(func(m *domain.Matricula) {
		m.Logradouro = "Rua dos Andradas"
		m.Numero = "500"
		m.Bairro = "Centro Histórico"
		m.Cidade = "Porto Alegre"
		m.Estado = "RS"
		m.CEP = "90020-000"
		m.Email = "maria@example.com"
		m.Celular = "51999998888"
	})
}

func preencherDadosProfissionais(ws *Sessao) {
	ws.Com(func(m *domain.Matricula) {
		m.NumeroCNH = "98765432100"
		m.CategoriaCNH = "D"
		m.ValidadeCNH = "2029-06-30"
		m.NumeroAlvara = "ALV-777"
		m.CidadeAtuacao = "Canoas"
		m.Autonomo = true
	})
}

func preencherDocumentos(ws *Sessao) {
	ws.Com(func(m *domain.Matricula) {
		for _, tipo := range []domain.TipoDocumento{domain.DocCNH, domain.DocComprovanteResidencia, domain.DocFoto, domain.DocCRLV, domain.DocAlvara} {
			m.Documentos[tipo] = &domain.DocumentoAnexo{Nome: string(tipo) + ".pdf", Tamanho: 1024, TipoConteudo: "application/pdf", EnviadoEm: agoraFixo}
		}
	})
}

func preencherTermos(ws *Sessao) {
	ws.Com(func(m *domain.Matricula) {
		m.AceitouTermos = true
		m.AceitouTratamentoDados = true
		m.DeclarouVeracidade = true
	})
}

// avança até a etapa desejada preenchendo cada etapa com dados válidos
func avancarAte(t *testing.T, ws *Sessao, destino domain.Etapa) {
	t.Helper()
	preenchimentos := map[domain.Etapa]func(*Sessao){
		domain.EtapaDadosPessoais:      preencherDadosPessoais,
		domain.EtapaEnderecoContato:    preencherEnderecoContato,
		domain.EtapaDadosProfissionais: preencherDadosProfissionais,
		domain.EtapaEnvioDocumentos:    preencherDocumentos,
		domain.EtapaTermosConfirmacao:  preencherTermos,
	}
	for ws.EtapaAtual() < destino {
		if preencher, ok := preenchimentos[ws.EtapaAtual()]; ok {
			preencher(ws)
		}
		require.Empty(t, ws.Avancar(), "etapa %d deveria avançar", ws.EtapaAtual())
	}
}

func TestEstadoInicial(t *testing.T) {
	ws := novoManager().Criar()

	assert.Equal(t, domain.EtapaDadosPessoais, ws.EtapaAtual())
	assert.True(t, ws.Alcancou(domain.EtapaDadosPessoais))
	assert.False(t, ws.Alcancou(domain.EtapaEnderecoContato))

	snapshot := ws.Snapshot()
	assert.Equal(t, domain.PagamentoPendente, snapshot.StatusPagamento)
	assert.Equal(t, domain.ValidacaoPendente, snapshot.StatusValidacao)
	assert.False(t, snapshot.AcessoCursoLiberado)
}

func TestAvancarBloqueadoPorValidacao(t *testing.T) {
	ws := novoManager().Criar()

	erros := ws.Avancar()
	assert.NotEmpty(t, erros)
	assert.Equal(t, domain.EtapaDadosPessoais, ws.EtapaAtual(), "etapa não pode mudar com erros de campo")

	preencherDadosPessoais(ws)
	assert.Empty(t, ws.Avancar())
	assert.Equal(t, domain.EtapaEnderecoContato, ws.EtapaAtual())
}

func TestVoltarSemRevalidar(t *testing.T) {
	ws := novoManager().Criar()
	preencherDadosPessoais(ws)
	require.Empty(t, ws.Avancar())

	// invalida um campo da etapa 1 e ainda assim é possível voltar
	ws.Com(func(m *domain.Matricula) { m.CPF = "123" })
	ws.Voltar()
	assert.Equal(t, domain.EtapaDadosPessoais, ws.EtapaAtual())

	// no início, voltar é inócuo
	ws.Voltar()
	assert.Equal(t, domain.EtapaDadosPessoais, ws.EtapaAtual())
}

func TestIrParaRespeitaMarcaDagua(t *testing.T) {
	ws := novoManager().Criar()
	avancarAte(t, ws, domain.EtapaDadosProfissionais) // marca d'água = 3

	t.Run("revisitar etapa concluída é permitido", func(t *testing.T) {
		require.NoError(t, ws.IrPara(domain.EtapaDadosPessoais))
		assert.Equal(t, domain.EtapaDadosPessoais, ws.EtapaAtual())
	})

	t.Run("voltar à marca d'água é permitido", func(t *testing.T) {
		require.NoError(t, ws.IrPara(domain.EtapaDadosProfissionais))
		assert.Equal(t, domain.EtapaDadosProfissionais, ws.EtapaAtual())
	})

	t.Run("saltar além da marca d'água é recusado sem efeito", func(t *testing.T) {
		err := ws.IrPara(domain.EtapaEnvioDocumentos)
		assert.ErrorIs(t, err, ErrEtapaBloqueada)
		assert.Equal(t, domain.EtapaDadosProfissionais, ws.EtapaAtual())
	})

	t.Run("etapas fora do intervalo são recusadas", func(t *testing.T) {
		assert.ErrorIs(t, ws.IrPara(0), ErrEtapaBloqueada)
		assert.ErrorIs(t, ws.IrPara(8), ErrEtapaBloqueada)
	})
}

func TestCamposPreservadosNaNavegacao(t *testing.T) {
	ws := novoManager().Criar()
	avancarAte(t, ws, domain.EtapaDadosProfissionais)

	// ida e volta repetidas não podem apagar nada já digitado
	for i := 0; i < 3; i++ {
		ws.Voltar()
		ws.Voltar()
		require.Empty(t, ws.Avancar())
		require.Empty(t, ws.Avancar())
	}

	snapshot := ws.Snapshot()
	assert.Equal(t, "Maria Pereira", snapshot.NomeCompleto)
	assert.Equal(t, "987.654.321-00", snapshot.CPF)
	assert.Equal(t, "maria@example.com", snapshot.Email)
	assert.Equal(t, "Rua dos Andradas", snapshot.Logradouro)
}

func TestDerivacaoDeStatusDasEtapas(t *testing.T) {
	ws := novoManager().Criar()
	avancarAte(t, ws, domain.EtapaDadosProfissionais)
	require.NoError(t, ws.IrPara(domain.EtapaEnderecoContato))

	etapas := ws.Etapas()
	require.Len(t, etapas, 7)

	assert.Equal(t, domain.EtapaConcluida, etapas[0].Status)
	assert.Equal(t, domain.EtapaAtual, etapas[1].Status)
	for _, info := range etapas[2:] {
		assert.Equal(t, domain.EtapaPendente, info.Status)
	}

	// alcançável segue a marca d'água (3), não a etapa atual (2)
	assert.True(t, etapas[2].Alcancavel)
	assert.False(t, etapas[3].Alcancavel)
	assert.Equal(t, "Dados Pessoais", etapas[0].Titulo)
}

func TestAvancarClampadoNaUltimaEtapa(t *testing.T) {
	ws := novoManager().Criar()
	avancarAte(t, ws, domain.UltimaEtapa)

	require.Empty(t, ws.Avancar())
	assert.Equal(t, domain.UltimaEtapa, ws.EtapaAtual())
}

func TestManagerCicloDeVida(t *testing.T) {
	manager := novoManager()

	ws := manager.Criar()
	assert.NotEmpty(t, ws.ID())

	achada, err := manager.Obter(ws.ID())
	require.NoError(t, err)
	assert.Same(t, ws, achada)

	outra := manager.Criar()
	assert.NotEqual(t, ws.ID(), outra.ID())
	assert.Len(t, manager.Listar(), 2)

	manager.Encerrar(ws.ID())
	_, err = manager.Obter(ws.ID())
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
	assert.Len(t, manager.Listar(), 1)
}

func TestSnapshotIsolaDocumentos(t *testing.T) {
	ws := novoManager().Criar()
	preencherDocumentos(ws)

	snapshot := ws.Snapshot()
	snapshot.Documentos[domain.DocCNH].Nome = "alterado.pdf"

	assert.Equal(t, "cnh.pdf", ws.Snapshot().Documentos[domain.DocCNH].Nome)
}
