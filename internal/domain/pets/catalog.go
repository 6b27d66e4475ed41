package pets

import "context"

// Catalog es el cliente de lectura del CMS.
type Catalog interface {
	// Entries ejecuta la consulta y devuelve las entradas crudas con los assets incluidos.
	Entries(ctx context.Context, d Descriptor) (RawPage, error)
}

// SiteConfigSource lee la configuración editorial de la home.
type SiteConfigSource interface {
	SiteConfig(ctx context.Context) (SiteConfig, error)
}

// RawPage es la respuesta del CMS antes de dar forma a las mascotas.
type RawPage struct {
	Total int
	Skip  int
	Limit int
	Items []RawEntry

	// Assets incluidos en la respuesta, por ID.
	Assets map[string]Picture
}

// RawEntry es una entrada "pet" con los links a fotos sin resolver.
type RawEntry struct {
	ID          string
	Title       string
	Species     string
	Breed       string
	Color       string
	Size        string
	Gender      string
	Description *Document

	PictureIDs []string
}

// toPagedResult resuelve links y descarta los que no apuntan a un asset incluido.
func toPagedResult(raw RawPage) PagedResult {
	out := PagedResult{
		Items: make([]Pet, 0, len(raw.Items)),
		Total: raw.Total,
		Limit: raw.Limit,
		Skip:  raw.Skip,
	}
	for _, e := range raw.Items {
		p := Pet{
			ID:          e.ID,
			Title:       e.Title,
			Species:     e.Species,
			Breed:       e.Breed,
			Color:       e.Color,
			Size:        e.Size,
			Gender:      e.Gender,
			Description: e.Description,
			Pictures:    make([]Picture, 0, len(e.PictureIDs)),
		}
		for _, id := range e.PictureIDs {
			pic, ok := raw.Assets[id]
			if !ok || pic.File.URL == "" {
				continue
			}
			p.Pictures = append(p.Pictures, pic)
		}
		out.Items = append(out.Items, p)
	}
	return out
}
