package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/notify"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type testServices struct {
	store          *repository.MemoryStore
	resolver       *IdentityResolver
	grupos         *GrupoService
	membership     *MembershipService
	auxiliares     *AuxiliarService
	catalog        *CatalogService
	notificaciones *NotificacionService
	publisher      *recordingPublisher
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	resolver := NewIdentityResolver(store)
	pub := &recordingPublisher{}
	return &testServices{
		store:          store,
		resolver:       resolver,
		grupos:         NewGrupoService(store, store, logger),
		membership:     NewMembershipService(store, store, resolver, logger),
		auxiliares:     NewAuxiliarService(store, resolver, logger),
		catalog:        NewCatalogService(store, store),
		notificaciones: NewNotificacionService(store, store, store, pub, logger),
		publisher:      pub,
	}
}

func (ts *testServices) mustAuxiliar(t *testing.T, userID, nombre string) *domain.Auxiliar {
	t.Helper()
	a, err := ts.auxiliares.CreateAuxiliar(context.Background(), CreateAuxiliarRequest{
		UserID: userID,
		Email:  nombre + "@example.com",
		Nombre: nombre,
	})
	require.NoError(t, err)
	return a
}

func (ts *testServices) mustGrupo(t *testing.T, creadorID, nombre string) *domain.Grupo {
	t.Helper()
	g, err := ts.grupos.CreateGrupo(context.Background(), CreateGrupoRequest{CreadorID: creadorID, NombrePaciente: nombre})
	require.NoError(t, err)
	return g
}
