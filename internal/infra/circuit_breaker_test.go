package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_AbreYSeRecupera(t *testing.T) {
	reloj := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{Nombre: "smtp", FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return reloj }

	fallo := errors.New("dial tcp: timeout")
	assert.ErrorIs(t, cb.Execute(func() error { return fallo }), fallo)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return fallo }), fallo)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)

	reloj = reloj.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SondaFallidaReabre(t *testing.T) {
	reloj := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	cb.now = func() time.Time { return reloj }

	_ = cb.Execute(func() error { return errors.New("x") })
	reloj = reloj.Add(time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errors.New("x") })
	assert.Equal(t, CBOpen, cb.State())
}
