package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(10*time.Millisecond, zerolog.Nop())
}

func TestSuscribirEntregaPrimerSnapshot(t *testing.T) {
	m := testManager()
	defer m.Cerrar()

	snapshots := make(chan any, 1)
	m.Suscribir("clave",
		func(ctx context.Context) (any, error) { return []string{"a"}, nil },
		func(s any) {
			select {
			case snapshots <- s:
			default:
			}
		},
	)

	select {
	case s := <-snapshots:
		assert.Equal(t, []string{"a"}, s)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestSuscribirNotificaSoloCambios(t *testing.T) {
	m := testManager()
	defer m.Cerrar()

	var valor atomic.Int64
	snapshots := make(chan any, 10)

	m.Suscribir("clave",
		func(ctx context.Context) (any, error) { return valor.Load(), nil },
		func(s any) { snapshots <- s },
	)

	require.Equal(t, int64(0), <-snapshots)

	// Same snapshot on the next polls: nothing should arrive.
	select {
	case s := <-snapshots:
		t.Fatalf("unexpected snapshot %v for unchanged data", s)
	case <-time.After(50 * time.Millisecond):
	}

	valor.Store(7)
	select {
	case s := <-snapshots:
		assert.Equal(t, int64(7), s)
	case <-time.After(time.Second):
		t.Fatal("change was not delivered")
	}
}

func TestCancelarDetieneLaSuscripcion(t *testing.T) {
	m := testManager()
	defer m.Cerrar()

	var consultas atomic.Int64
	h := m.Suscribir("clave",
		func(ctx context.Context) (any, error) {
			consultas.Add(1)
			return nil, nil
		},
		func(any) {},
	)

	assert.Equal(t, 1, m.Activas())

	m.Cancelar(h)
	assert.Equal(t, 0, m.Activas())

	// An in-flight poll may still finish; after a grace period the
	// counter must stop moving.
	time.Sleep(30 * time.Millisecond)
	antes := consultas.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, antes, consultas.Load())
}

func TestCancelarHandleDesconocido(t *testing.T) {
	m := testManager()
	defer m.Cerrar()

	m.Cancelar(Handle("no-existe"))
	assert.Equal(t, 0, m.Activas())
}

func TestCerrarCancelaTodas(t *testing.T) {
	m := testManager()

	for i := 0; i < 3; i++ {
		m.Suscribir("clave",
			func(ctx context.Context) (any, error) { return nil, nil },
			func(any) {},
		)
	}
	require.Equal(t, 3, m.Activas())

	m.Cerrar()
	assert.Equal(t, 0, m.Activas())
}
