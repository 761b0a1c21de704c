// internal/core/wizard/service.go
package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/cursocondutor/matricula/internal/core/validation"
	"github.com/cursocondutor/matricula/internal/domain"
	"github.com/google/uuid"
)

// ErrEtapaBloqueada indica tentativa de pular para uma etapa além da marca
// d'água (a etapa mais avançada já alcançada com validação).
var ErrEtapaBloqueada = errors.New("etapa ainda não liberada: conclua as etapas anteriores")

// ErrSessaoNaoEncontrada indica que a matrícula não existe ou já foi encerrada.
var ErrSessaoNaoEncontrada = errors.New("matrícula não encontrada ou já encerrada")

// EtapaInfo é o descritor de uma etapa tal como o assistente a exibe.
type EtapaInfo struct {
	ID         domain.Etapa       `json:"id"`
	Titulo     string             `json:"titulo"`
	Status     domain.StatusEtapa `json:"status"`
	Alcancavel bool               `json:"alcancavel"`
}

// Sessao é a máquina de estados do assistente: uma matrícula, a etapa atual e
// a marca d'água de progresso. Toda mutação passa pelos métodos nomeados.
type Sessao struct {
	mu         sync.Mutex
	matricula  *domain.Matricula
	atual      domain.Etapa
	marcaDagua domain.Etapa
	validador  validation.Service
}

// ID devolve o identificador da matrícula desta sessão.
func (s *Sessao) ID() string { return s.matricula.ID }

// Com executa fn com acesso exclusivo ao registro. É o único caminho para
// ler ou escrever campos da matrícula de fora do pacote.
func (s *Sessao) Com(fn func(m *domain.Matricula)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.matricula)
}

// Snapshot devolve uma cópia do registro segura para serialização.
func (s *Sessao) Snapshot() domain.Matricula {
	s.mu.Lock()
	defer s.mu.Unlock()
	copia := *s.matricula
	copia.Documentos = make(map[domain.TipoDocumento]*domain.DocumentoAnexo, len(s.matricula.Documentos))
	for tipo, anexo := range s.matricula.Documentos {
		a := *anexo
		copia.Documentos[tipo] = &a
	}
	return copia
}

// EtapaAtual devolve a etapa corrente.
func (s *Sessao) EtapaAtual() domain.Etapa {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atual
}

// Avancar valida a etapa atual contra o registro. Com erros de campo o avanço
// é recusado e o mapa é devolvido; sem erros a etapa avança, limitada à última.
func (s *Sessao) Avancar() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	erros := s.validador.ValidarEtapa(s.atual, s.matricula)
	if len(erros) > 0 {
		return erros
	}
	if s.atual < domain.UltimaEtapa {
		s.atual++
	}
	if s.atual > s.marcaDagua {
		s.marcaDagua = s.atual
	}
	return nil
}

// Voltar recua uma etapa sem revalidar; os dados já digitados são preservados.
func (s *Sessao) Voltar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.atual > domain.PrimeiraEtapa {
		s.atual--
	}
}

// IrPara permite revisitar etapas já alcançadas; saltar além da marca d'água
// é recusado sem alterar o estado.
func (s *Sessao) IrPara(etapa domain.Etapa) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !etapa.Valida() {
		return ErrEtapaBloqueada
	}
	if etapa > s.marcaDagua {
		return ErrEtapaBloqueada
	}
	s.atual = etapa
	return nil
}

// Alcancou informa se a etapa já foi liberada pela marca d'água. Serve de
// pré-condição para os colaboradores de pagamento e validação.
func (s *Sessao) Alcancou(etapa domain.Etapa) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return etapa <= s.marcaDagua
}

// Etapas deriva o status de cada etapa a partir da etapa atual e da marca d'água.
func (s *Sessao) Etapas() []EtapaInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]EtapaInfo, 0, int(domain.UltimaEtapa))
	for e := domain.PrimeiraEtapa; e <= domain.UltimaEtapa; e++ {
		status := domain.EtapaPendente
		switch {
		case e < s.atual:
			status = domain.EtapaConcluida
		case e == s.atual:
			status = domain.EtapaAtual
		}
		infos = append(infos, EtapaInfo{
			ID:         e,
			Titulo:     e.Titulo(),
			Status:     status,
			Alcancavel: e <= s.marcaDagua,
		})
	}
	return infos
}

// Manager guarda as sessões ativas em memória; nada sobrevive ao processo.
type Manager struct {
	mu        sync.RWMutex
	sessoes   map[string]*Sessao
	validador validation.Service
	agora     func() time.Time
}

// NewManager cria o registro de sessões do assistente.
func NewManager(validador validation.Service, agora func() time.Time) *Manager {
	if agora == nil {
		agora = time.Now
	}
	return &Manager{
		sessoes:   make(map[string]*Sessao),
		validador: validador,
		agora:     agora,
	}
}

// Criar abre uma nova sessão na etapa 1 com marca d'água 1.
func (g *Manager) Criar() *Sessao {
	id := uuid.NewString()
	sessao := &Sessao{
		matricula:  domain.NovaMatricula(id, g.agora()),
		atual:      domain.PrimeiraEtapa,
		marcaDagua: domain.PrimeiraEtapa,
		validador:  g.validador,
	}
	g.mu.Lock()
	g.sessoes[id] = sessao
	g.mu.Unlock()
	return sessao
}

// Obter localiza uma sessão ativa pelo id da matrícula.
func (g *Manager) Obter(id string) (*Sessao, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	sessao, ok := g.sessoes[id]
	if !ok {
		return nil, ErrSessaoNaoEncontrada
	}
	return sessao, nil
}

// Encerrar descarta a sessão; chamado após a conclusão ou o abandono do fluxo.
func (g *Manager) Encerrar(id string) {
	g.mu.Lock()
	delete(g.sessoes, id)
	g.mu.Unlock()
}

// Listar devolve um retrato das matrículas ativas para a fila de revisão.
func (g *Manager) Listar() []domain.Matricula {
	g.mu.RLock()
	sessoes := make([]*Sessao, 0, len(g.sessoes))
	for _, s := range g.sessoes {
		sessoes = append(sessoes, s)
	}
	g.mu.RUnlock()

	matriculas := make([]domain.Matricula, 0, len(sessoes))
	for _, s := range sessoes {
		matriculas = append(matriculas, s.Snapshot())
	}
	return matriculas
}
