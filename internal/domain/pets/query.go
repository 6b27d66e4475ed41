package pets

import (
	"encoding/json"
	"slices"
	"strings"
)

// ContentTypePet es el content type de las fichas en el CMS.
const ContentTypePet = "pet"

// Query es inmutable en uso: Normalize devuelve una copia.
type Query struct {
	Filters    map[Field][]string
	SearchTerm string
	Skip       int
}

// Normalize descarta valores vacíos, deduplica y ordena cada conjunto.
// Un conjunto vacío equivale a "sin filtro".
func (q Query) Normalize() Query {
	out := Query{
		SearchTerm: strings.TrimSpace(q.SearchTerm),
		Skip:       max(q.Skip, 0),
	}
	for _, f := range FilterableFields {
		vals := normalizeValues(q.Filters[f])
		if len(vals) == 0 {
			continue
		}
		if out.Filters == nil {
			out.Filters = map[Field][]string{}
		}
		out.Filters[f] = vals
	}
	return out
}

func normalizeValues(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Descriptor es la consulta canónica que se manda al CMS y que, serializada,
// es la clave de cache. El orden de los campos es parte del formato.
type Descriptor struct {
	ContentType string   `json:"content_type"`
	Gender      []string `json:"fields.gender[in],omitempty"`
	Species     []string `json:"fields.species[in],omitempty"`
	Breed       []string `json:"fields.breed[in],omitempty"`
	Size        []string `json:"fields.size[in],omitempty"`
	Color       []string `json:"fields.color[in],omitempty"`
	Skip        int      `json:"skip"`
	Query       string   `json:"query,omitempty"`
}

// Descriptor normaliza la consulta y la expresa en forma canónica.
func (q Query) Descriptor() Descriptor {
	n := q.Normalize()
	return Descriptor{
		ContentType: ContentTypePet,
		Gender:      n.Filters[FieldGender],
		Species:     n.Filters[FieldSpecies],
		Breed:       n.Filters[FieldBreed],
		Size:        n.Filters[FieldSize],
		Color:       n.Filters[FieldColor],
		Skip:        n.Skip,
		Query:       n.SearchTerm,
	}
}

// In devuelve los valores del filtro "in" de un campo.
func (d Descriptor) In(f Field) []string {
	switch f {
	case FieldGender:
		return d.Gender
	case FieldSpecies:
		return d.Species
	case FieldBreed:
		return d.Breed
	case FieldSize:
		return d.Size
	case FieldColor:
		return d.Color
	default:
		return nil
	}
}

// CacheKey es el JSON determinista del descriptor.
func (d Descriptor) CacheKey() string {
	b, err := json.Marshal(d)
	if err != nil {
		// solo strings e ints: no puede fallar
		panic(err)
	}
	return string(b)
}
