// internal/domain/models.go
package domain

import "time"

// TipoDocumento identifica cada documento de apoio que o candidato pode enviar.
type TipoDocumento string

const (
	DocCNH                   TipoDocumento = "cnh"
	DocComprovanteResidencia TipoDocumento = "comprovante_residencia"
	DocFoto                  TipoDocumento = "foto"
	DocCRLV                  TipoDocumento = "crlv"
	DocAlvara                TipoDocumento = "alvara"
	DocDeclaracaoCooperativa TipoDocumento = "declaracao_cooperativa"
)

// TiposDocumento lista os tipos na ordem fixa usada pelo envio e pela análise.
var TiposDocumento = []TipoDocumento{
	DocCNH,
	DocComprovanteResidencia,
	DocFoto,
	DocCRLV,
	DocAlvara,
	DocDeclaracaoCooperativa,
}

// DocumentoAnexo guarda apenas os metadados do arquivo enviado; o conteúdo
// fica com o provedor de armazenamento externo.
type DocumentoAnexo struct {
	Nome         string    `json:"nome"`
	Tamanho      int64     `json:"tamanho"`
	TipoConteudo string    `json:"tipo_conteudo"`
	EnviadoEm    time.Time `json:"enviado_em"`
}

// StatusPagamento segue a cobrança PIX do início ao fim.
type StatusPagamento string

const (
	PagamentoPendente    StatusPagamento = "pendente"
	PagamentoProcessando StatusPagamento = "processando"
	PagamentoConcluido   StatusPagamento = "concluido"
	PagamentoFalhou      StatusPagamento = "falhou"
)

// StatusValidacao é o veredito agregado da análise de documentos.
type StatusValidacao string

const (
	ValidacaoPendente      StatusValidacao = "pendente"
	ValidacaoAprovada      StatusValidacao = "aprovada"
	ValidacaoRejeitada     StatusValidacao = "rejeitada"
	ValidacaoRevisaoManual StatusValidacao = "revisao_manual"
)

// StatusAnalise é o resultado da análise de um documento individual.
type StatusAnalise string

const (
	AnaliseAprovada  StatusAnalise = "aprovado"
	AnaliseAlerta    StatusAnalise = "alerta"
	AnaliseRejeitada StatusAnalise = "rejeitado"
)

// ResultadoAnalise é produzido pelo backend de análise (OCR/ML simulado)
// para cada documento presente.
type ResultadoAnalise struct {
	Tipo      TipoDocumento `json:"tipo"`
	Status    StatusAnalise `json:"status"`
	Confianca float64       `json:"confianca"`
	Analise   string        `json:"analise"`
	Detalhes  []string      `json:"detalhes"`
}

// Etapa identifica cada passo do assistente de matrícula, na ordem 1..7.
type Etapa int

const (
	EtapaDadosPessoais Etapa = iota + 1
	EtapaEnderecoContato
	EtapaDadosProfissionais
	EtapaEnvioDocumentos
	EtapaTermosConfirmacao
	EtapaPagamento
	EtapaValidacaoDocumentos
)

// PrimeiraEtapa e UltimaEtapa delimitam o intervalo válido do assistente.
const (
	PrimeiraEtapa = EtapaDadosPessoais
	UltimaEtapa   = EtapaValidacaoDocumentos
)

var titulosEtapas = map[Etapa]string{
	EtapaDadosPessoais:       "Dados Pessoais",
	EtapaEnderecoContato:     "Endereço e Contato",
	EtapaDadosProfissionais:  "Dados Profissionais",
	EtapaEnvioDocumentos:     "Envio de Documentos",
	EtapaTermosConfirmacao:   "Termos e Confirmação",
	EtapaPagamento:           "Pagamento",
	EtapaValidacaoDocumentos: "Validação de Documentos",
}

// Titulo devolve o título exibido para a etapa.
func (e Etapa) Titulo() string { return titulosEtapas[e] }

// Valida informa se o ordinal está dentro do intervalo 1..7.
func (e Etapa) Valida() bool { return e >= PrimeiraEtapa && e <= UltimaEtapa }

// StatusEtapa é derivado da etapa atual; nunca é armazenado.
type StatusEtapa string

const (
	EtapaConcluida StatusEtapa = "concluida"
	EtapaAtual     StatusEtapa = "atual"
	EtapaPendente  StatusEtapa = "pendente"
)

// Generos, EstadosCivis e CategoriasCNH são os conjuntos fechados aceitos
// pelas etapas de dados pessoais e profissionais.
var (
	Generos       = []string{"masculino", "feminino", "outro", "prefiro_nao_informar"}
	EstadosCivis  = []string{"solteiro", "casado", "divorciado", "viuvo", "uniao_estavel"}
	CategoriasCNH = []string{"B", "C", "D", "E"}
)

// CidadesAtuacao enumera as cidades atendidas pelo curso.
var CidadesAtuacao = []string{
	"Porto Alegre",
	"Canoas",
	"Gravataí",
	"Viamão",
	"Alvorada",
	"Cachoeirinha",
	"São Leopoldo",
	"Novo Hamburgo",
}

// Matricula é o agregado que o assistente constrói passo a passo. Cada etapa
// escreve somente os próprios campos; nenhuma etapa limpa campos de outra.
// O registro vive em memória durante uma sessão e não é persistido aqui.
type Matricula struct {
	ID string `json:"id"`

	// Etapa 1 — dados pessoais
	NomeCompleto   string `json:"nome_completo"`
	CPF            string `json:"cpf"`
	RG             string `json:"rg"`
	DataNascimento string `json:"data_nascimento"` // formato 2006-01-02
	Genero         string `json:"genero"`
	EstadoCivil    string `json:"estado_civil"`

	// Etapa 2 — endereço e contato
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

	// Etapa 3 — dados profissionais
	NumeroCNH     string `json:"numero_cnh"`
	CategoriaCNH  string `json:"categoria_cnh"`
	ValidadeCNH   string `json:"validade_cnh"` // formato 2006-01-02
	NumeroAlvara  string `json:"numero_alvara"`
	Cooperativa   string `json:"cooperativa"`
	CidadeAtuacao string `json:"cidade_atuacao"`
	Autonomo      bool   `json:"autonomo"`

	// Etapa 4 — documentos enviados (somente metadados)
	Documentos map[TipoDocumento]*DocumentoAnexo `json:"documentos"`

	// Etapa 5 — consentimentos
	AceitouTermos          bool `json:"aceitou_termos"`
	AceitouTratamentoDados bool `json:"aceitou_tratamento_dados"`
	DeclarouVeracidade     bool `json:"declarou_veracidade"`

	// Campos de controle
	StatusPagamento     StatusPagamento `json:"status_pagamento"`
	StatusValidacao     StatusValidacao `json:"status_validacao"`
	AcessoCursoLiberado bool            `json:"acesso_curso_liberado"`

	CriadaEm time.Time `json:"criada_em"`
}

// NovaMatricula cria o registro vazio de uma sessão do assistente.
func NovaMatricula(id string, agora time.Time) *Matricula {
	return &Matricula{
		ID:              id,
		Documentos:      make(map[TipoDocumento]*DocumentoAnexo),
		StatusPagamento: PagamentoPendente,
		StatusValidacao: ValidacaoPendente,
		CriadaEm:        agora,
	}
}

// Endereco é a resposta da consulta de CEP usada para pré-preencher a etapa 2.
type Endereco struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Cidade     string `json:"localidade"`
	Estado     string `json:"uf"`
}
