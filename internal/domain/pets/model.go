package pets

// Field es un atributo filtrable de una mascota.
type Field string

const (
	FieldSpecies Field = "species"
	FieldBreed   Field = "breed"
	FieldSize    Field = "size"
	FieldGender  Field = "gender"
	FieldColor   Field = "color"
)

// FilterableFields en el orden en que se recorren para derivar filtros.
var FilterableFields = []Field{FieldSpecies, FieldBreed, FieldSize, FieldGender, FieldColor}

// Labels para UI (pt-BR).
var FieldLabels = map[Field]string{
	FieldBreed:   "Raça",
	FieldSize:    "Porte",
	FieldSpecies: "Espécie",
	FieldGender:  "Sexo",
	FieldColor:   "Cor",
}

// ParseField reconoce el nombre de un parámetro filtrable.
func ParseField(s string) (Field, bool) {
	for _, f := range FilterableFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Pet es la forma mínima de una entrada "pet" del CMS que exponemos y cacheamos.
type Pet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Color       string    `json:"color"`
	Size        string    `json:"size"`
	Gender      string    `json:"gender"`
	Description *Document `json:"description,omitempty"`
	Pictures    []Picture `json:"pictures"`
}

// Value devuelve el valor del atributo filtrable.
func (p Pet) Value(f Field) string {
	switch f {
	case FieldSpecies:
		return p.Species
	case FieldBreed:
		return p.Breed
	case FieldSize:
		return p.Size
	case FieldGender:
		return p.Gender
	case FieldColor:
		return p.Color
	default:
		return ""
	}
}

// Picture es un asset publicado enlazado desde una mascota.
type Picture struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	File        File   `json:"file"`
}

type File struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// PagedResult es una página del catálogo. Se cachea tal cual (JSON).
type PagedResult struct {
	Items []Pet `json:"items"`
	Total int   `json:"total"`
	Limit int   `json:"limit"`
	Skip  int   `json:"skip"`
}

// SiteConfig es la entrada "siteConfig" del CMS (título + intro de la home).
type SiteConfig struct {
	Title string    `json:"title"`
	Intro *Document `json:"intro,omitempty"`
}
