// Package validation checks request bodies against the JSON schemas embedded
// under schemas/. Structural checks live here; business rules stay in the
// services.
package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://tap-talk.app/schemas/"

// Schema IDs, matching the $id of each embedded file.
const (
	AuxiliarCreate       = schemaBase + "auxiliar_create.json"
	AuxiliarUpdate       = schemaBase + "auxiliar_update.json"
	GrupoCreate          = schemaBase + "grupo_create.json"
	GrupoUpdate          = schemaBase + "grupo_update.json"
	MiembroLink          = schemaBase + "miembro_link.json"
	Unirse               = schemaBase + "unirse.json"
	Vinculo              = schemaBase + "vinculo.json"
	Categoria            = schemaBase + "categoria.json"
	Pictograma           = schemaBase + "pictograma.json"
	NotificacionCreate   = schemaBase + "notificacion_create.json"
	NotificacionUpdate   = schemaBase + "notificacion_update.json"
	NotificacionResolver = schemaBase + "notificacion_resolver.json"
)

// Validator holds one compiled schema per $id.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("cannot read schemas: %w", err)
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read schema %s: %w", e.Name(), err)
		}
		docs = append(docs, string(b))
	}
	return NewFromStrings(docs)
}

// NewFromStrings compiles the given schema documents. Each must carry an $id.
func NewFromStrings(docs []string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(docs))}
	for _, doc := range docs {
		var head struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal([]byte(doc), &head); err != nil {
			return nil, fmt.Errorf("parse error in schema: %w", err)
		}
		if head.ID == "" {
			return nil, fmt.Errorf("schema does not contain $id: %q", doc)
		}
		compiled, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", head.ID, err)
		}
		v.schemas[head.ID] = compiled
	}
	return v, nil
}

// HasSchema reports whether schemaID was compiled.
func (v *Validator) HasSchema(schemaID string) bool {
	_, ok := v.schemas[schemaID]
	return ok
}

// ValidateBytes checks body against schemaID. Client mistakes come back as
// apperr validation errors listing every violated field.
func (v *Validator) ValidateBytes(body []byte, schemaID string) error {
	schema, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		return apperr.Validation("El cuerpo de la solicitud no es JSON válido")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperr.Validation("El cuerpo de la solicitud no es JSON válido").Wrap(err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return apperr.Validation("Datos inválidos: %s", strings.Join(msgs, "; "))
}
