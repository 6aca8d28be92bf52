package httpapi

import (
	"net/http"

	"github.com/DidierBrusa/tap-talk-api/internal/service"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"go.uber.org/zap"
)

// CatalogHandler serves /api/categorias and /api/pictogramas.
type CatalogHandler struct {
	catalog   *service.CatalogService
	validator *validation.Validator
	logger    *zap.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, validator *validation.Validator, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, validator: validator, logger: logger}
}

// imagenPayload maps an explicit null to "" so updates clear the image.
func imagenPayload(o optional[string]) *string {
	if !o.Set {
		return nil
	}
	if o.Value == nil {
		empty := ""
		return &empty
	}
	return o.Value
}

type categoriaPayload struct {
	Nombre *string          `json:"nombre"`
	Imagen optional[string] `json:"imagen"`
}

func (p categoriaPayload) request() service.CategoriaRequest {
	return service.CategoriaRequest{Nombre: p.Nombre, Imagen: imagenPayload(p.Imagen)}
}

func (h *CatalogHandler) ListCategorias(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListCategorias(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "categorias.List", err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(list))
}

func (h *CatalogHandler) GetCategoria(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "categorias.Get", err)
		return
	}
	c, err := h.catalog.GetCategoria(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "categorias.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) CreateCategoria(w http.ResponseWriter, r *http.Request) {
	var payload categoriaPayload
	if err := decodeBody(r, h.validator, validation.Categoria, &payload); err != nil {
		writeError(w, r, h.logger, "categorias.Create", err)
		return
	}
	c, err := h.catalog.CreateCategoria(r.Context(), payload.request())
	if err != nil {
		writeError(w, r, h.logger, "categorias.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) UpdateCategoria(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "categorias.Update", err)
		return
	}
	var payload categoriaPayload
	if err := decodeBody(r, h.validator, validation.Categoria, &payload); err != nil {
		writeError(w, r, h.logger, "categorias.Update", err)
		return
	}
	c, err := h.catalog.UpdateCategoria(r.Context(), id, payload.request())
	if err != nil {
		writeError(w, r, h.logger, "categorias.Update", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) DeleteCategoria(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "categorias.Delete", err)
		return
	}
	c, err := h.catalog.DeleteCategoria(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "categorias.Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Categoría eliminada correctamente", "categoria": c})
}

type pictogramaPayload struct {
	Nombre      *string          `json:"nombre"`
	Imagen      optional[string] `json:"imagen"`
	CategoriaID optional[int64]  `json:"categoria_id"`
}

func (p pictogramaPayload) request() service.PictogramaRequest {
	return service.PictogramaRequest{
		Nombre:         p.Nombre,
		Imagen:         imagenPayload(p.Imagen),
		CategoriaID:    p.CategoriaID.Value,
		ClearCategoria: p.CategoriaID.Set && p.CategoriaID.Value == nil,
	}
}

// ListPictogramas accepts ?categoria_id= to narrow the listing.
func (h *CatalogHandler) ListPictogramas(w http.ResponseWriter, r *http.Request) {
	categoriaID, err := queryID(r, "categoria_id")
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.List", err)
		return
	}
	list, err := h.catalog.ListPictogramas(r.Context(), categoriaID)
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.List", err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(list))
}

func (h *CatalogHandler) GetPictograma(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Get", err)
		return
	}
	p, err := h.catalog.GetPictograma(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) CreatePictograma(w http.ResponseWriter, r *http.Request) {
	var payload pictogramaPayload
	if err := decodeBody(r, h.validator, validation.Pictograma, &payload); err != nil {
		writeError(w, r, h.logger, "pictogramas.Create", err)
		return
	}
	p, err := h.catalog.CreatePictograma(r.Context(), payload.request())
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) UpdatePictograma(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Update", err)
		return
	}
	var payload pictogramaPayload
	if err := decodeBody(r, h.validator, validation.Pictograma, &payload); err != nil {
		writeError(w, r, h.logger, "pictogramas.Update", err)
		return
	}
	p, err := h.catalog.UpdatePictograma(r.Context(), id, payload.request())
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Update", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) DeletePictograma(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Delete", err)
		return
	}
	p, err := h.catalog.DeletePictograma(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "pictogramas.Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Pictograma eliminado correctamente", "pictograma": p})
}
