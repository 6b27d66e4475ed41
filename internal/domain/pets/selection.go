package pets

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	ParamSearchTerm = "searchTerm"
	ParamSkip       = "skip"
)

// Selection son los valores elegidos por atributo en la búsqueda.
type Selection map[Field]map[string]struct{}

// Toggle agrega el valor si no estaba y lo quita si estaba. Devuelve si quedó seleccionado.
func (s Selection) Toggle(f Field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if s.Has(f, value) {
		delete(s[f], value)
		if len(s[f]) == 0 {
			delete(s, f)
		}
		return false
	}
	s.add(f, value)
	return true
}

func (s Selection) add(f Field, value string) {
	set, ok := s[f]
	if !ok {
		set = map[string]struct{}{}
		s[f] = set
	}
	set[value] = struct{}{}
}

// Has indica si el valor está seleccionado para el atributo.
func (s Selection) Has(f Field, value string) bool {
	_, ok := s[f][value]
	return ok
}

// Values devuelve los valores de un atributo, ordenados.
func (s Selection) Values(f Field) []string {
	set := s[f]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Query arma la consulta para una página. Cambiar la selección reinicia en skip 0.
func (s Selection) Query(searchTerm string, skip int) Query {
	q := Query{SearchTerm: searchTerm, Skip: skip}
	for _, f := range FilterableFields {
		if vals := s.Values(f); len(vals) > 0 {
			if q.Filters == nil {
				q.Filters = map[Field][]string{}
			}
			q.Filters[f] = vals
		}
	}
	return q
}

// Encode serializa solo los filtros (es lo que se comparte).
// url.Values.Encode ordena las claves; los valores van ordenados.
func (s Selection) Encode() url.Values {
	out := url.Values{}
	for _, f := range FilterableFields {
		for _, v := range s.Values(f) {
			out.Add(string(f), v)
		}
	}
	return out
}

// ParseSelection lee parámetros repetibles por atributo; ignora los desconocidos.
func ParseSelection(v url.Values) Selection {
	s := Selection{}
	for key, vals := range v {
		f, ok := ParseField(key)
		if !ok {
			continue
		}
		for _, val := range vals {
			if val = strings.TrimSpace(val); val != "" {
				s.add(f, val)
			}
		}
	}
	return s
}

// ParseQuery lee filtros, searchTerm y skip de la query string de /api/get-pets.
func ParseQuery(v url.Values) (Query, error) {
	skip := 0
	if raw := strings.TrimSpace(v.Get(ParamSkip)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Query{}, fmt.Errorf("%w: skip must be a non-negative integer", ErrInvalidInput)
		}
		skip = n
	}
	return ParseSelection(v).Query(v.Get(ParamSearchTerm), skip), nil
}

// ShareURL arma el link para compartir la búsqueda actual.
func ShareURL(baseURL string, s Selection) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	enc := s.Encode().Encode()
	if enc == "" {
		return base + "/"
	}
	return base + "/?" + enc
}

// NextSkip es el offset de "cargar más", si quedan resultados.
func NextSkip(p PagedResult) (int, bool) {
	next := p.Skip + p.Limit
	if p.Limit <= 0 || next >= p.Total {
		return 0, false
	}
	return next, true
}
