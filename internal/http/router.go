// Package httpapi exposes the tap-talk REST API over gorilla/mux.
package httpapi

import (
	"net/http"

	"github.com/DidierBrusa/tap-talk-api/internal/identity"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Router holds the route table. Everything under /api except the connection
// check and /api/auth/me goes through the api subrouter, which carries the
// auth middleware when enabled.
type Router struct {
	root   *mux.Router
	api    *mux.Router
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	root := mux.NewRouter()
	setFallbacks(root)
	return &Router{root: root, logger: logger}
}

// setFallbacks answers unmatched paths and methods with the JSON error body.
func setFallbacks(m *mux.Router) {
	m.NotFoundHandler = http.HandlerFunc(routeNotFound)
	m.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Ruta no encontrada"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Método no permitido"})
}

// apiRouter lazily mounts the /api subrouter so that root-level /api routes
// registered before it keep priority.
func (r *Router) apiRouter() *mux.Router {
	if r.api == nil {
		r.api = r.root.PathPrefix("/api").Subrouter()
		setFallbacks(r.api)
	}
	return r.api
}

// RequireAuth protects the /api subrouter with verifier.
func (r *Router) RequireAuth(verifier identity.Verifier) {
	r.apiRouter().Use(requireAuth(verifier, r.logger))
}

func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.root.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.root.HandleFunc("/api/test-connection", h.TestConnection).Methods(http.MethodGet)
}

// RegisterAuthRoutes mounts /api/auth/me behind its own auth middleware so it
// works whether or not the rest of /api is protected.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.root.Handle("/api/auth/me", requireAuth(h.verifier, r.logger)(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
}

func (r *Router) RegisterAuxiliarRoutes(h *AuxiliaresHandler) {
	api := r.apiRouter()
	api.HandleFunc("/auxiliares", h.List).Methods(http.MethodGet)
	api.HandleFunc("/auxiliares", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/auxiliares/{identificador}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/auxiliares/{identificador}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/auxiliares/{identificador}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/auxiliares/{identificador}/desactivar", h.Deactivate).Methods(http.MethodPost)
	api.HandleFunc("/auxiliares/{identificador}/grupos", h.ListGrupos).Methods(http.MethodGet)
}

func (r *Router) RegisterGrupoRoutes(h *GruposHandler) {
	api := r.apiRouter()
	// codigo routes first: "codigo" would otherwise be taken as {id}.
	api.HandleFunc("/grupos/codigo/{codigo}", h.GetByCodigo).Methods(http.MethodGet)
	api.HandleFunc("/grupos/codigo/{codigo}/unirse", h.Join).Methods(http.MethodPost)

	api.HandleFunc("/grupos", h.List).Methods(http.MethodGet)
	api.HandleFunc("/grupos", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/grupos/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/grupos/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/grupos/{id}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/grupos/{id}/codigo-vinculacion", h.GetCodigo).Methods(http.MethodGet)
	api.HandleFunc("/grupos/{id}/miembros", h.ListMiembros).Methods(http.MethodGet)
	api.HandleFunc("/grupos/{id}/miembros", h.Link).Methods(http.MethodPost)
	api.HandleFunc("/grupos/{id}/vincular-auxiliar", h.Link).Methods(http.MethodPost)
	api.HandleFunc("/grupos/{id}/miembros/{identificador}", h.Unlink).Methods(http.MethodDelete)
	api.HandleFunc("/grupos/{id}/notificaciones", h.ListNotificaciones).Methods(http.MethodGet)
	api.HandleFunc("/grupos/{id}/notificaciones/export", h.ExportNotificaciones).Methods(http.MethodGet)
}

// RegisterVinculoRoutes mounts the /auxiliares-grupos family, which addresses
// memberships by body or by either side of the relation.
func (r *Router) RegisterVinculoRoutes(h *VinculosHandler) {
	api := r.apiRouter()
	api.HandleFunc("/auxiliares-grupos", h.Link).Methods(http.MethodPost)
	api.HandleFunc("/auxiliares-grupos", h.Unlink).Methods(http.MethodDelete)
	api.HandleFunc("/auxiliares-grupos/auxiliares/{identificador}/grupos", h.ListGrupos).Methods(http.MethodGet)
	api.HandleFunc("/auxiliares-grupos/grupos/{id}/auxiliares", h.ListAuxiliares).Methods(http.MethodGet)
}

func (r *Router) RegisterStreamRoutes(h *StreamHandler) {
	r.apiRouter().HandleFunc("/grupos/{id}/notificaciones/ws", h.Notificaciones).Methods(http.MethodGet)
}

func (r *Router) RegisterCatalogRoutes(h *CatalogHandler) {
	api := r.apiRouter()
	api.HandleFunc("/categorias", h.ListCategorias).Methods(http.MethodGet)
	api.HandleFunc("/categorias", h.CreateCategoria).Methods(http.MethodPost)
	api.HandleFunc("/categorias/{id}", h.GetCategoria).Methods(http.MethodGet)
	api.HandleFunc("/categorias/{id}", h.UpdateCategoria).Methods(http.MethodPut)
	api.HandleFunc("/categorias/{id}", h.DeleteCategoria).Methods(http.MethodDelete)

	api.HandleFunc("/pictogramas", h.ListPictogramas).Methods(http.MethodGet)
	api.HandleFunc("/pictogramas", h.CreatePictograma).Methods(http.MethodPost)
	api.HandleFunc("/pictogramas/{id}", h.GetPictograma).Methods(http.MethodGet)
	api.HandleFunc("/pictogramas/{id}", h.UpdatePictograma).Methods(http.MethodPut)
	api.HandleFunc("/pictogramas/{id}", h.DeletePictograma).Methods(http.MethodDelete)
}

func (r *Router) RegisterNotificacionRoutes(h *NotificacionesHandler) {
	api := r.apiRouter()
	api.HandleFunc("/notificaciones", h.List).Methods(http.MethodGet)
	api.HandleFunc("/notificaciones", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/notificaciones/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/notificaciones/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/notificaciones/{id}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/notificaciones/{id}/resolver", h.Resolver).Methods(http.MethodPut)
}

// Handler wraps the routes with request ids, CORS, access logging and panic
// recovery, outermost first.
func (r *Router) Handler(allowedOrigins []string) http.Handler {
	var h http.Handler = r.root
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{r.logger}))(h)
	h = accessLog(r.logger, h)
	h = handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", requestIDHeader}),
		handlers.MaxAge(86400),
	)(h)
	return withRequestID(h)
}
