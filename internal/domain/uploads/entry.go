package uploads

import (
	"strings"

	"pet-adoption/internal/domain/pets"
)

const (
	DefaultBreed  = "Vira Lata"
	GenderUnknown = "indefinido"
)

var allowedGenders = map[string]bool{"macho": true, "fêmea": true}

// EntryFields son los campos de la ficha "pet" a crear en el CMS.
type EntryFields struct {
	Title          string
	Description    *pets.Document
	Species        string
	Breed          string
	Color          string
	Size           string
	Gender         string
	PictureAssetID string
}

// DefaultCaption se usa cuando el captioning falla.
func DefaultCaption() Caption {
	return Caption{Breed: DefaultBreed, Gender: GenderUnknown}
}

// NormalizeGender deja solo "macho" o "fêmea"; cualquier otro valor es "indefinido".
func NormalizeGender(g string) string {
	g = strings.TrimSpace(g)
	if allowedGenders[g] {
		return g
	}
	return GenderUnknown
}

// BuildEntry combina el formulario, el caption y el asset publicado.
func BuildEntry(in BatchInput, c Caption, assetID string) EntryFields {
	contact := strings.TrimSpace(in.ContactDetails)

	var paras []string
	if v := strings.TrimSpace(in.Address); v != "" {
		paras = append(paras, "Localização: "+v)
	}
	if contact != "" {
		paras = append(paras, "Contato: "+contact)
	}
	if v := strings.TrimSpace(in.AdditionalInfo); v != "" {
		paras = append(paras, "Informações adicionais: "+v)
	}

	breed := strings.TrimSpace(c.Breed)
	if breed == "" {
		breed = DefaultBreed
	}

	return EntryFields{
		Title:          "Script - " + contact,
		Description:    pets.Paragraphs(paras...),
		Species:        strings.TrimSpace(c.Species),
		Breed:          breed,
		Color:          strings.TrimSpace(c.Color),
		Size:           strings.TrimSpace(c.Size),
		Gender:         NormalizeGender(c.Gender),
		PictureAssetID: assetID,
	}
}
