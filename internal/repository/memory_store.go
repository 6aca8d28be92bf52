package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

// MemoryStore implements every repository in process memory. It is used when
// DB_ENABLED=false and by tests. It enforces the same unique and foreign
// key constraints as the SQL schema and reports them with the same kinds.
type MemoryStore struct {
	mu sync.RWMutex

	now func() time.Time

	seq            map[string]int64
	auxiliares     map[int64]domain.Auxiliar
	grupos         map[int64]domain.Grupo
	vinculos       map[int64]domain.AuxiliarGrupo
	categorias     map[int64]domain.Categoria
	pictogramas    map[int64]domain.Pictograma
	notificaciones map[int64]domain.Notificacion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:            time.Now,
		seq:            map[string]int64{},
		auxiliares:     map[int64]domain.Auxiliar{},
		grupos:         map[int64]domain.Grupo{},
		vinculos:       map[int64]domain.AuxiliarGrupo{},
		categorias:     map[int64]domain.Categoria{},
		pictogramas:    map[int64]domain.Pictograma{},
		notificaciones: map[int64]domain.Notificacion{},
	}
}

var (
	_ AuxiliaresRepository     = (*MemoryStore)(nil)
	_ GruposRepository         = (*MemoryStore)(nil)
	_ MembershipRepository     = (*MemoryStore)(nil)
	_ CategoriasRepository     = (*MemoryStore)(nil)
	_ PictogramasRepository    = (*MemoryStore)(nil)
	_ NotificacionesRepository = (*MemoryStore)(nil)
)

func (s *MemoryStore) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ---- auxiliar ----

func (s *MemoryStore) auxiliarByUserID(userID string) (domain.Auxiliar, bool) {
	for _, a := range s.auxiliares {
		if a.UserID == userID {
			return a, true
		}
	}
	return domain.Auxiliar{}, false
}

func (s *MemoryStore) GetAuxiliar(_ context.Context, id int64) (*domain.Auxiliar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.auxiliares[id]
	if !ok {
		return nil, apperr.NotFound("Auxiliar no encontrado")
	}
	return &a, nil
}

func (s *MemoryStore) GetAuxiliarByUserID(_ context.Context, userID string) (*domain.Auxiliar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.auxiliarByUserID(userID)
	if !ok {
		return nil, apperr.NotFound("Auxiliar no encontrado")
	}
	return &a, nil
}

func (s *MemoryStore) ListAuxiliares(_ context.Context) ([]*domain.Auxiliar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Auxiliar{}
	for _, id := range sortedKeys(s.auxiliares) {
		a := s.auxiliares[id]
		out = append(out, &a)
	}
	return out, nil
}

func (s *MemoryStore) auxiliarConflict(id int64, userID, email string) bool {
	for _, a := range s.auxiliares {
		if a.ID != id && (a.UserID == userID || a.Email == email) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateAuxiliar(_ context.Context, a *domain.Auxiliar) (*domain.Auxiliar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auxiliarConflict(0, a.UserID, a.Email) {
		return nil, apperr.Conflict("%s", auxiliarWriteMessages.Unique)
	}
	created := *a
	created.ID = s.nextID("auxiliar")
	created.FechaCreacion = s.now()
	s.auxiliares[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UpdateAuxiliar(_ context.Context, id int64, u domain.AuxiliarUpdate) (*domain.Auxiliar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auxiliares[id]
	if !ok {
		return nil, apperr.NotFound("Auxiliar no encontrado")
	}
	if u.Email != nil {
		a.Email = *u.Email
	}
	if u.Nombre != nil {
		a.Nombre = *u.Nombre
	}
	if u.AuthProvider != nil {
		v := *u.AuthProvider
		a.AuthProvider = &v
	}
	if u.Activo != nil {
		a.Activo = *u.Activo
	}
	if s.auxiliarConflict(id, a.UserID, a.Email) {
		return nil, apperr.Conflict("%s", auxiliarWriteMessages.Unique)
	}
	s.auxiliares[id] = a
	return &a, nil
}

func (s *MemoryStore) DeleteAuxiliar(_ context.Context, id int64) (*domain.Auxiliar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auxiliares[id]
	if !ok {
		return nil, apperr.NotFound("Auxiliar no encontrado")
	}
	referenced := false
	for _, g := range s.grupos {
		referenced = referenced || g.CreadorID == a.UserID
	}
	for _, v := range s.vinculos {
		referenced = referenced || v.AuxiliarID == id
	}
	for _, n := range s.notificaciones {
		referenced = referenced || (n.MiembroResolutor != nil && *n.MiembroResolutor == id)
	}
	if referenced {
		return nil, apperr.Dependency("No se puede eliminar el auxiliar porque está vinculado a otros datos (por ejemplo, grupos).")
	}
	delete(s.auxiliares, id)
	return &a, nil
}

// ---- grupo ----

func (s *MemoryStore) GetGrupo(_ context.Context, id int64) (*domain.Grupo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grupos[id]
	if !ok {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	return &g, nil
}

func (s *MemoryStore) GetGrupoByCodigo(_ context.Context, codigo string) (*domain.Grupo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.grupos {
		if g.CodigoVinculacion == codigo {
			return &g, nil
		}
	}
	return nil, apperr.NotFound("Grupo no encontrado")
}

func (s *MemoryStore) ListGrupos(_ context.Context) ([]*domain.Grupo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Grupo{}
	for _, id := range sortedKeys(s.grupos) {
		g := s.grupos[id]
		out = append(out, &g)
	}
	return out, nil
}

func (s *MemoryStore) activeNameTaken(id int64, creadorID, nombre string) bool {
	for _, g := range s.grupos {
		if g.ID != id && g.Activo && g.CreadorID == creadorID && strings.EqualFold(g.NombrePaciente, nombre) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) codigoTaken(id int64, codigo string) bool {
	for _, g := range s.grupos {
		if g.ID != id && g.CodigoVinculacion == codigo {
			return true
		}
	}
	return false
}

func (s *MemoryStore) ExistsActiveGrupo(_ context.Context, creadorID, nombrePaciente string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeNameTaken(0, creadorID, nombrePaciente), nil
}

func (s *MemoryStore) CreateGrupo(_ context.Context, g *domain.Grupo) (*domain.Grupo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auxiliarByUserID(g.CreadorID); !ok {
		return nil, apperr.Validation("%s", grupoWriteMessages.FK)
	}
	if s.activeNameTaken(0, g.CreadorID, g.NombrePaciente) || s.codigoTaken(0, g.CodigoVinculacion) {
		return nil, apperr.Conflict("%s", grupoWriteMessages.Unique)
	}
	created := *g
	created.ID = s.nextID("grupo")
	created.Activo = true
	created.FechaCreacion = s.now()
	s.grupos[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UpdateGrupo(_ context.Context, id int64, u domain.GrupoUpdate) (*domain.Grupo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grupos[id]
	if !ok {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	if u.NombrePaciente != nil {
		g.NombrePaciente = *u.NombrePaciente
	}
	if u.CodigoVinculacion != nil {
		g.CodigoVinculacion = *u.CodigoVinculacion
	}
	if u.Activo != nil {
		g.Activo = *u.Activo
	}
	if (g.Activo && s.activeNameTaken(id, g.CreadorID, g.NombrePaciente)) || s.codigoTaken(id, g.CodigoVinculacion) {
		return nil, apperr.Conflict("%s", grupoWriteMessages.Unique)
	}
	s.grupos[id] = g
	return &g, nil
}

func (s *MemoryStore) DeleteGrupo(_ context.Context, id int64) (*domain.Grupo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grupos[id]
	if !ok {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	for _, n := range s.notificaciones {
		if n.GrupoID == id {
			return nil, apperr.Dependency("No se puede eliminar el grupo porque tiene notificaciones asociadas")
		}
	}
	for vid, v := range s.vinculos {
		if v.GrupoID == id {
			delete(s.vinculos, vid)
		}
	}
	delete(s.grupos, id)
	return &g, nil
}

// ---- auxiliar_grupo ----

func (s *MemoryStore) findVinculo(grupoID, auxiliarID int64) (domain.AuxiliarGrupo, bool) {
	for _, v := range s.vinculos {
		if v.GrupoID == grupoID && v.AuxiliarID == auxiliarID {
			return v, true
		}
	}
	return domain.AuxiliarGrupo{}, false
}

func (s *MemoryStore) GetVinculo(_ context.Context, grupoID, auxiliarID int64) (*domain.AuxiliarGrupo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.findVinculo(grupoID, auxiliarID)
	if !ok {
		return nil, apperr.NotFound("El auxiliar no está vinculado a este grupo")
	}
	return &v, nil
}

func (s *MemoryStore) CreateVinculo(_ context.Context, v *domain.AuxiliarGrupo) (*domain.AuxiliarGrupo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, grupoOK := s.grupos[v.GrupoID]
	_, auxOK := s.auxiliares[v.AuxiliarID]
	if !grupoOK || !auxOK {
		return nil, apperr.NotFound("Grupo o auxiliar no encontrado")
	}
	if _, exists := s.findVinculo(v.GrupoID, v.AuxiliarID); exists {
		return nil, apperr.Conflict("El auxiliar ya está vinculado a este grupo")
	}
	created := *v
	created.ID = s.nextID("auxiliar_grupo")
	created.FechaVinculacion = s.now()
	created.Activo = true
	s.vinculos[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) DeleteVinculo(_ context.Context, grupoID, auxiliarID int64) (*domain.AuxiliarGrupo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.findVinculo(grupoID, auxiliarID)
	if !ok {
		return nil, apperr.NotFound("El auxiliar no está vinculado a este grupo")
	}
	delete(s.vinculos, v.ID)
	return &v, nil
}

func (s *MemoryStore) ListMiembros(_ context.Context, grupoID int64) ([]domain.MiembroGrupo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.MiembroGrupo{}
	for _, vid := range sortedKeys(s.vinculos) {
		v := s.vinculos[vid]
		if v.GrupoID != grupoID || !v.Activo {
			continue
		}
		a := s.auxiliares[v.AuxiliarID]
		out = append(out, domain.MiembroGrupo{
			AuxiliarID:       a.ID,
			UserID:           a.UserID,
			Nombre:           a.Nombre,
			Email:            a.Email,
			EsCreador:        v.EsCreador,
			EsAdministrador:  v.EsAdministrador,
			FechaVinculacion: v.FechaVinculacion,
		})
	}
	return out, nil
}

func (s *MemoryStore) ListGruposDeAuxiliar(_ context.Context, auxiliarID int64, userID string) ([]domain.GrupoDeAuxiliar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.GrupoDeAuxiliar{}
	for _, gid := range sortedKeys(s.grupos) {
		g := s.grupos[gid]
		if !g.Activo {
			continue
		}
		creador := g.CreadorID == userID
		v, linked := s.findVinculo(gid, auxiliarID)
		linked = linked && v.Activo
		if !creador && !linked {
			continue
		}
		item := domain.GrupoDeAuxiliar{
			GrupoID:           g.ID,
			NombrePaciente:    g.NombrePaciente,
			CodigoVinculacion: g.CodigoVinculacion,
			EsCreador:         creador,
			EsAdministrador:   creador,
			FechaVinculacion:  g.FechaCreacion,
		}
		if linked {
			item.EsCreador = creador || v.EsCreador
			item.EsAdministrador = creador || v.EsAdministrador
			item.FechaVinculacion = v.FechaVinculacion
		}
		out = append(out, item)
	}
	return out, nil
}

// ---- categoria ----

func (s *MemoryStore) GetCategoria(_ context.Context, id int64) (*domain.Categoria, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categorias[id]
	if !ok {
		return nil, apperr.NotFound("Categoría no encontrada")
	}
	return &c, nil
}

func (s *MemoryStore) ListCategorias(_ context.Context) ([]*domain.Categoria, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Categoria{}
	for _, id := range sortedKeys(s.categorias) {
		c := s.categorias[id]
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) CreateCategoria(_ context.Context, c *domain.Categoria) (*domain.Categoria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *c
	created.ID = s.nextID("categoria")
	s.categorias[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UpdateCategoria(_ context.Context, id int64, u domain.CategoriaUpdate) (*domain.Categoria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categorias[id]
	if !ok {
		return nil, apperr.NotFound("Categoría no encontrada")
	}
	if u.Nombre != nil {
		c.Nombre = *u.Nombre
	}
	if u.Imagen != nil {
		c.Imagen = emptyToNil(*u.Imagen)
	}
	s.categorias[id] = c
	return &c, nil
}

func (s *MemoryStore) DeleteCategoria(_ context.Context, id int64) (*domain.Categoria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categorias[id]
	if !ok {
		return nil, apperr.NotFound("Categoría no encontrada")
	}
	for _, p := range s.pictogramas {
		if p.CategoriaID != nil && *p.CategoriaID == id {
			return nil, apperr.Dependency("No se puede eliminar la categoría porque tiene pictogramas asociados")
		}
	}
	delete(s.categorias, id)
	return &c, nil
}

// ---- pictograma ----

func (s *MemoryStore) GetPictograma(_ context.Context, id int64) (*domain.Pictograma, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pictogramas[id]
	if !ok {
		return nil, apperr.NotFound("Pictograma no encontrado")
	}
	return &p, nil
}

func (s *MemoryStore) ListPictogramas(_ context.Context, categoriaID *int64) ([]*domain.Pictograma, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Pictograma{}
	for _, id := range sortedKeys(s.pictogramas) {
		p := s.pictogramas[id]
		if categoriaID != nil && (p.CategoriaID == nil || *p.CategoriaID != *categoriaID) {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (s *MemoryStore) categoriaExists(id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := s.categorias[*id]
	return ok
}

func (s *MemoryStore) CreatePictograma(_ context.Context, p *domain.Pictograma) (*domain.Pictograma, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.categoriaExists(p.CategoriaID) {
		return nil, apperr.NotFound("%s", pictogramaWriteMessages.FK)
	}
	created := *p
	created.ID = s.nextID("pictograma")
	s.pictogramas[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UpdatePictograma(_ context.Context, id int64, u domain.PictogramaUpdate) (*domain.Pictograma, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pictogramas[id]
	if !ok {
		return nil, apperr.NotFound("Pictograma no encontrado")
	}
	if u.Nombre != nil {
		p.Nombre = *u.Nombre
	}
	if u.Imagen != nil {
		p.Imagen = emptyToNil(*u.Imagen)
	}
	switch {
	case u.ClearCategoria:
		p.CategoriaID = nil
	case u.CategoriaID != nil:
		if !s.categoriaExists(u.CategoriaID) {
			return nil, apperr.NotFound("%s", pictogramaWriteMessages.FK)
		}
		v := *u.CategoriaID
		p.CategoriaID = &v
	}
	s.pictogramas[id] = p
	return &p, nil
}

func (s *MemoryStore) DeletePictograma(_ context.Context, id int64) (*domain.Pictograma, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pictogramas[id]
	if !ok {
		return nil, apperr.NotFound("Pictograma no encontrado")
	}
	for _, n := range s.notificaciones {
		if n.PictogramaID == id {
			return nil, apperr.Dependency("No se puede eliminar el pictograma porque tiene notificaciones asociadas")
		}
	}
	delete(s.pictogramas, id)
	return &p, nil
}

// ---- notificacion ----

func (s *MemoryStore) GetNotificacion(_ context.Context, id int64) (*domain.Notificacion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notificaciones[id]
	if !ok {
		return nil, apperr.NotFound("Notificación no encontrada")
	}
	return &n, nil
}

func (s *MemoryStore) ListNotificaciones(_ context.Context, f domain.NotificacionFilter) ([]*domain.Notificacion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Notificacion{}
	for _, id := range sortedKeys(s.notificaciones) {
		n := s.notificaciones[id]
		if f.GrupoID != nil && n.GrupoID != *f.GrupoID {
			continue
		}
		if f.Estado != "" && n.Estado != f.Estado {
			continue
		}
		out = append(out, &n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FechaCreacion.Equal(out[j].FechaCreacion) {
			return out[i].ID > out[j].ID
		}
		return out[i].FechaCreacion.After(out[j].FechaCreacion)
	})
	return out, nil
}

func (s *MemoryStore) notificacionRefsExist(pictogramaID, grupoID int64, resolutor *int64) bool {
	_, pOK := s.pictogramas[pictogramaID]
	_, gOK := s.grupos[grupoID]
	rOK := true
	if resolutor != nil {
		_, rOK = s.auxiliares[*resolutor]
	}
	return pOK && gOK && rOK
}

func (s *MemoryStore) CreateNotificacion(_ context.Context, n *domain.Notificacion) (*domain.Notificacion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.notificacionRefsExist(n.PictogramaID, n.GrupoID, nil) {
		return nil, apperr.NotFound("%s", notificacionWriteMessages.FK)
	}
	created := *n
	created.ID = s.nextID("notificacion")
	created.FechaCreacion = s.now()
	created.FechaResuelta = nil
	created.MiembroResolutor = nil
	s.notificaciones[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UpdateNotificacion(_ context.Context, id int64, u domain.NotificacionUpdate) (*domain.Notificacion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notificaciones[id]
	if !ok {
		return nil, apperr.NotFound("Notificación no encontrada")
	}
	if u.Contenido != nil {
		n.Contenido = *u.Contenido
	}
	if u.Tipo != nil {
		n.Tipo = *u.Tipo
	}
	if u.Estado != nil {
		n.Estado = *u.Estado
	}
	if u.FechaResuelta != nil {
		t := *u.FechaResuelta
		n.FechaResuelta = &t
	}
	if u.MiembroResolutor != nil {
		if !s.notificacionRefsExist(n.PictogramaID, n.GrupoID, u.MiembroResolutor) {
			return nil, apperr.NotFound("%s", notificacionWriteMessages.FK)
		}
		v := *u.MiembroResolutor
		n.MiembroResolutor = &v
	}
	s.notificaciones[id] = n
	return &n, nil
}

func (s *MemoryStore) DeleteNotificacion(_ context.Context, id int64) (*domain.Notificacion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notificaciones[id]
	if !ok {
		return nil, apperr.NotFound("Notificación no encontrada")
	}
	delete(s.notificaciones, id)
	return &n, nil
}
