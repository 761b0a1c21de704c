// internal/core/validation/service.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/cursocondutor/matricula/internal/domain"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Service valida os campos de cada etapa e as restrições de arquivo.
// Todas as funções são puras: erros voltam como dados, nunca como exceção.
type Service interface {
	ValidarEtapa(etapa domain.Etapa, m *domain.Matricula) map[string]string
	ValidarArquivo(nome string, tamanho int64, tipoConteudo string) error
}

type service struct {
	agora func() time.Time
}

// NewService cria o validador com o relógio injetado (facilita testes de idade e validade).
func NewService(agora func() time.Time) Service {
	if agora == nil {
		agora = time.Now
	}
	return &service{agora: agora}
}

const tamanhoMaximoArquivo = 5 * 1024 * 1024 // 5 MiB

var tiposArquivoPermitidos = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitosRegex = regexp.MustCompile(`\D`)
)

// regraDocumento liga um tipo de documento ao predicado que o torna obrigatório.
// Manter as regras como dados deixa o conjunto auditável num único lugar.
type regraDocumento struct {
	Tipo        domain.TipoDocumento
	Obrigatorio func(m *domain.Matricula) bool
	Mensagem    string
}

func sempre(*domain.Matricula) bool { return true }

var regrasDocumentos = []regraDocumento{
	{domain.DocCNH, sempre, "Envio da CNH é obrigatório"},
	{domain.DocComprovanteResidencia, sempre, "Envio do comprovante de residência é obrigatório"},
	{domain.DocFoto, sempre, "Envio da foto 3x4 é obrigatório"},
	{domain.DocCRLV, func(m *domain.Matricula) bool { return m.Autonomo }, "CRLV é obrigatório para taxista autônomo"},
	{domain.DocAlvara, sempre, "Envio do alvará de taxista é obrigatório"},
	{domain.DocDeclaracaoCooperativa, func(m *domain.Matricula) bool { return !m.Autonomo }, "Declaração da cooperativa é obrigatória para taxista vinculado"},
}

func (s *service) ValidarEtapa(etapa domain.Etapa, m *domain.Matricula) map[string]string {
	erros := make(map[string]string)
	switch etapa {
	case domain.EtapaDadosPessoais:
		s.validarDadosPessoais(m, erros)
	case domain.EtapaEnderecoContato:
		s.validarEnderecoContato(m, erros)
	case domain.EtapaDadosProfissionais:
		s.validarDadosProfissionais(m, erros)
	case domain.EtapaEnvioDocumentos:
		s.validarDocumentos(m, erros)
	case domain.EtapaTermosConfirmacao:
		s.validarTermos(m, erros)
	}
	return erros
}

func (s *service) validarDadosPessoais(m *domain.Matricula, erros map[string]string) {
	if len(strings.TrimSpace(m.NomeCompleto)) < 3 {
		erros["nome_completo"] = "Nome completo deve ter pelo menos 3 caracteres"
	}
	if len(somenteDigitos(m.CPF)) != 11 {
		erros["cpf"] = "CPF é obrigatório e deve ter 11 dígitos"
	}
	if len(strings.TrimSpace(m.RG)) < 7 {
		erros["rg"] = "RG é obrigatório e deve ter pelo menos 7 caracteres"
	}
	if m.DataNascimento == "" {
		erros["data_nascimento"] = "Data de nascimento é obrigatória"
	} else if nascimento, err := time.Parse("2006-01-02", m.DataNascimento); err != nil {
		erros["data_nascimento"] = "Data de nascimento inválida"
	} else {
		// Idade por subtração de ano, como no fluxo original; ignora mês e dia.
		idade := s.agora().Year() - nascimento.Year()
		if idade < 18 || idade > 80 {
			erros["data_nascimento"] = "Idade deve estar entre 18 e 80 anos"
		}
	}
	if !contem(domain.Generos, m.Genero) {
		erros["genero"] = "Gênero é obrigatório"
	}
}

func (s *service) validarEnderecoContato(m *domain.Matricula, erros map[string]string) {
	if len(strings.TrimSpace(m.Logradouro)) < 5 {
		erros["logradouro"] = "Logradouro deve ter pelo menos 5 caracteres"
	}
	if strings.TrimSpace(m.Numero) == "" {
		erros["numero"] = "Número é obrigatório"
	}
	if len(strings.TrimSpace(m.Bairro)) < 2 {
		erros["bairro"] = "Bairro deve ter pelo menos 2 caracteres"
	}
	if len(strings.TrimSpace(m.Cidade)) < 2 {
		erros["cidade"] = "Cidade deve ter pelo menos 2 caracteres"
	}
	if len(somenteDigitos(m.CEP)) != 8 {
		erros["cep"] = "CEP deve ter 8 dígitos"
	}
	if !emailRegex.MatchString(m.Email) {
		erros["email"] = "E-mail inválido"
	}
	if len(somenteDigitos(m.Celular)) < 10 {
		erros["celular"] = "Celular deve ter pelo menos 10 dígitos"
	}
}

func (s *service) validarDadosProfissionais(m *domain.Matricula, erros map[string]string) {
	if len(strings.TrimSpace(m.NumeroCNH)) < 8 {
		erros["numero_cnh"] = "Número da CNH deve ter pelo menos 8 caracteres"
	}
	if !contem(domain.CategoriasCNH, m.CategoriaCNH) {
		erros["categoria_cnh"] = "Categoria da CNH deve ser B, C, D ou E"
	}
	if m.ValidadeCNH == "" {
		erros["validade_cnh"] = "Validade da CNH é obrigatória"
	} else if validade, err := time.Parse("2006-01-02", m.ValidadeCNH); err != nil {
		erros["validade_cnh"] = "Validade da CNH inválida"
	} else if !validade.After(s.agora()) {
		erros["validade_cnh"] = "CNH vencida: a validade deve ser uma data futura"
	}
	if !cidadeAtendida(m.CidadeAtuacao) {
		erros["cidade_atuacao"] = "Cidade de atuação é obrigatória e deve ser uma cidade atendida"
	}
	if !m.Autonomo && len(strings.TrimSpace(m.Cooperativa)) < 2 {
		erros["cooperativa"] = "Nome da cooperativa é obrigatório para taxista vinculado"
	}
}

func (s *service) validarDocumentos(m *domain.Matricula, erros map[string]string) {
	for _, regra := range regrasDocumentos {
		if regra.Obrigatorio(m) && m.Documentos[regra.Tipo] == nil {
			erros[string(regra.Tipo)] = regra.Mensagem
		}
	}
}

func (s *service) validarTermos(m *domain.Matricula, erros map[string]string) {
	if !m.AceitouTermos {
		erros["aceitou_termos"] = "É necessário aceitar os termos de uso"
	}
	if !m.AceitouTratamentoDados {
		erros["aceitou_tratamento_dados"] = "É necessário autorizar o tratamento de dados (LGPD)"
	}
	if !m.DeclarouVeracidade {
		erros["declarou_veracidade"] = "É necessário declarar a veracidade das informações"
	}
}

func (s *service) ValidarArquivo(nome string, tamanho int64, tipoConteudo string) error {
	if !tiposArquivoPermitidos[strings.ToLower(tipoConteudo)] {
		return fmt.Errorf("tipo de arquivo não permitido (%s): envie PDF, JPEG ou PNG", tipoConteudo)
	}
	if tamanho > tamanhoMaximoArquivo {
		return fmt.Errorf("arquivo %q excede o tamanho máximo de 5 MB", nome)
	}
	return nil
}

// somenteDigitos remove máscaras de CPF, CEP e telefone antes da checagem.
func somenteDigitos(s string) string {
	return digitosRegex.ReplaceAllString(s, "")
}

func contem(lista []string, valor string) bool {
	for _, v := range lista {
		if v == valor {
			return true
		}
	}
	return false
}

// normalizarTexto remove acentos e colapsa espaços para comparação de cidades.
func normalizarTexto(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	resultado, _, _ := transform.String(t, str)
	resultado = strings.ToUpper(resultado)
	return strings.Join(strings.Fields(resultado), " ")
}

func cidadeAtendida(cidade string) bool {
	if strings.TrimSpace(cidade) == "" {
		return false
	}
	alvo := normalizarTexto(cidade)
	for _, c := range domain.CidadesAtuacao {
		if normalizarTexto(c) == alvo {
			return true
		}
	}
	return false
}
