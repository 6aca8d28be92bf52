package domain

// Catalog field limits.
const (
	CatalogoNombreMaxLength = 100
	ImagenMaxLength         = 255
)

// Categoria groups pictograms (table categoria).
type Categoria struct {
	ID     int64   `db:"id" json:"id"`
	Nombre string  `db:"nombre" json:"nombre"`
	Imagen *string `db:"imagen" json:"imagen"`
}

// Pictograma is a communication symbol (table pictograma).
type Pictograma struct {
	ID          int64   `db:"id" json:"id"`
	Nombre      string  `db:"nombre" json:"nombre"`
	Imagen      *string `db:"imagen" json:"imagen"`
	CategoriaID *int64  `db:"categoria_id" json:"categoria_id"`
}

// CategoriaUpdate is a partial update of a Categoria. An empty Imagen clears it.
type CategoriaUpdate struct {
	Nombre *string
	Imagen *string
}

// PictogramaUpdate is a partial update of a Pictograma. ClearCategoria unsets
// categoria_id and an empty Imagen clears the image.
type PictogramaUpdate struct {
	Nombre         *string
	Imagen         *string
	CategoriaID    *int64
	ClearCategoria bool
}

// Empty reports whether no field is set.
func (u CategoriaUpdate) Empty() bool {
	return u.Nombre == nil && u.Imagen == nil
}

// Empty reports whether no field is set.
func (u PictogramaUpdate) Empty() bool {
	return u.Nombre == nil && u.Imagen == nil && u.CategoriaID == nil && !u.ClearCategoria
}
