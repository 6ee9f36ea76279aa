package realtime

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Consulta produces the current snapshot for a subscription.
type Consulta func(ctx context.Context) (any, error)

// OnChange receives each new snapshot that differs from the previous one.
type OnChange func(snapshot any)

// Handle identifies an active subscription.
type Handle string

type suscripcion struct {
	clave  string
	cancel context.CancelFunc
}

// Manager owns the subscription registry exclusively. Callers interact
// only through Suscribir and Cancelar; the backing map is never shared.
type Manager struct {
	mu        sync.Mutex
	subs      map[Handle]*suscripcion
	intervalo time.Duration
	logger    zerolog.Logger
}

func NewManager(intervalo time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		subs:      make(map[Handle]*suscripcion),
		intervalo: intervalo,
		logger:    logger.With().Str("component", "realtime").Logger(),
	}
}

// Suscribir polls the query at the manager's interval and invokes
// onChange whenever the snapshot differs from the previous one. The
// first successful snapshot is always delivered.
func (m *Manager) Suscribir(clave string, consulta Consulta, onChange OnChange) Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := Handle(uuid.New().String())

	m.mu.Lock()
	m.subs[h] = &suscripcion{clave: clave, cancel: cancel}
	m.mu.Unlock()

	go m.observar(ctx, clave, consulta, onChange)

	return h
}

// Cancelar stops the subscription. Cancelling an unknown handle is a no-op.
func (m *Manager) Cancelar(h Handle) {
	m.mu.Lock()
	sub, ok := m.subs[h]
	if ok {
		delete(m.subs, h)
	}
	m.mu.Unlock()

	if ok {
		sub.cancel()
	}
}

// Cerrar cancels every active subscription.
func (m *Manager) Cerrar() {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[Handle]*suscripcion)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
	}
}

// Activas returns the number of live subscriptions.
func (m *Manager) Activas() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *Manager) observar(ctx context.Context, clave string, consulta Consulta, onChange OnChange) {
	ticker := time.NewTicker(m.intervalo)
	defer ticker.Stop()

	var anterior any
	primera := true

	for {
		snapshot, err := consulta(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn().Err(err).Str("clave", clave).Msg("consulta de suscripcion fallida")
		} else if primera || !reflect.DeepEqual(snapshot, anterior) {
			anterior = snapshot
			primera = false
			onChange(snapshot)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
