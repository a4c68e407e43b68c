package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Closed → Open → Half-Open breaker guarding the SMTP relay. While open,
// email jobs fail at once and are re-queued by the worker instead of each
// one waiting on a dial timeout.

type CBState int

const (
	CBClosed   CBState = iota // requests flow
	CBOpen                    // fast-fail
	CBHalfOpen                // one probe at a time
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Nombre           string
	FailureThreshold int           // consecutive failures that trip it open
	SuccessThreshold int           // probe successes needed to close again
	OpenTimeout      time.Duration // time open before the first probe
}

func DefaultCBConfig(nombre string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Nombre:           nombre,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	fallos    int
	exitos    int
	abiertoEn time.Time
	sondeando bool
	now       func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig(cfg.Nombre)
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, now: time.Now}
}

// State reports the current state, moving open → half-open once the timeout
// has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estado()
}

func (cb *CircuitBreaker) estado() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.cambiar(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn unless the breaker is open. In half-open only one probe
// runs at a time; concurrent callers get ErrCircuitOpen.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	switch cb.estado() {
	case CBOpen:
		cb.mu.Unlock()
		return ErrCircuitOpen
	case CBHalfOpen:
		if cb.sondeando {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.sondeando = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.sondeando = false
	if err != nil {
		cb.registrarFallo()
		return err
	}
	cb.registrarExito()
	return nil
}

func (cb *CircuitBreaker) registrarFallo() {
	cb.fallos++
	switch cb.state {
	case CBClosed:
		if cb.fallos >= cb.cfg.FailureThreshold {
			cb.abrir()
		}
	case CBHalfOpen:
		cb.abrir()
	}
}

func (cb *CircuitBreaker) registrarExito() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.cambiar(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) abrir() {
	cb.abiertoEn = cb.now()
	cb.cambiar(CBOpen)
}

// cambiar must be called with mu held.
func (cb *CircuitBreaker) cambiar(nuevo CBState) {
	if cb.state == nuevo {
		return
	}
	log.Warn().Str("breaker", cb.cfg.Nombre).
		Str("from", cb.state.String()).Str("to", nuevo.String()).
		Msg("circuit breaker state change")
	cb.state = nuevo
	cb.fallos = 0
	cb.exitos = 0
}
