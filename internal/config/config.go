// internal/config/config.go
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config reúne toda a configuração do serviço, lida do ambiente.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	JWTSecret       string        `env:"JWT_SECRET,required"`
	SessaoDuracao   time.Duration `env:"SESSAO_DURACAO" envDefault:"24h"`
	OperadorUsuario string        `env:"OPERADOR_USUARIO" envDefault:"operador"`
	// Hash bcrypt da senha do operador; sem valor, o login de operador fica desabilitado.
	OperadorSenhaHash string `env:"OPERADOR_SENHA_HASH"`

	PrecoCurso   decimal.Decimal `env:"PRECO_CURSO" envDefault:"299.90"`
	DescontoPix  decimal.Decimal `env:"DESCONTO_PIX" envDefault:"30.00"`
	JanelaPix    time.Duration   `env:"JANELA_PIX" envDefault:"15m"`
	TaxaAprovPix float64         `env:"TAXA_APROVACAO_PIX" envDefault:"0.85"`

	ViaCEPBaseURL string `env:"VIACEP_BASE_URL" envDefault:"https://viacep.com.br"`
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func parseDecimal(v string) (interface{}, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("valor decimal inválido %q: %w", v, err)
	}
	return d, nil
}

// Load lê e valida a configuração a partir das variáveis de ambiente.
func Load() (*Config, error) {
	cfg := &Config{}
	opts := env.Options{FuncMap: map[reflect.Type]env.ParserFunc{decimalType: parseDecimal}}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("erro ao ler configuração do ambiente: %w", err)
	}
	if cfg.PrecoCurso.IsNegative() || cfg.DescontoPix.IsNegative() {
		return nil, fmt.Errorf("preço e desconto não podem ser negativos")
	}
	if cfg.DescontoPix.GreaterThan(cfg.PrecoCurso) {
		return nil, fmt.Errorf("desconto PIX (%s) maior que o preço do curso (%s)", cfg.DescontoPix, cfg.PrecoCurso)
	}
	return cfg, nil
}
