package contentful

import (
	"encoding/json"

	"pet-adoption/internal/domain/pets"
)

type sys struct {
	ID       string `json:"id"`
	Type     string `json:"type,omitempty"`
	LinkType string `json:"linkType,omitempty"`
	Version  int    `json:"version,omitempty"`
}

type link struct {
	Sys sys `json:"sys"`
}

func assetLink(id string) link {
	return link{Sys: sys{ID: id, Type: "Link", LinkType: "Asset"}}
}

// entriesResponse es la colección de la Delivery API (fields sin localizar).
type entriesResponse struct {
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
	Items    []entryItem   `json:"items"`
	Includes entryIncludes `json:"includes"`
}

type entryItem struct {
	Sys    sys             `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

type entryIncludes struct {
	Asset []assetItem `json:"Asset"`
}

type petFields struct {
	Title       string         `json:"title"`
	Species     string         `json:"species"`
	Breed       string         `json:"breed"`
	Color       string         `json:"color"`
	Size        string         `json:"size"`
	Gender      string         `json:"gender"`
	Description *pets.Document `json:"description"`
	Pictures    []link         `json:"pictures"`
}

type siteConfigFields struct {
	Title         string         `json:"title"`
	IntroRichText *pets.Document `json:"introRichText"`
}

type assetItem struct {
	Sys    sys         `json:"sys"`
	Fields assetFields `json:"fields"`
}

type assetFields struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	File        assetFile `json:"file"`
}

type assetFile struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	Details     struct {
		Size  int64 `json:"size"`
		Image struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"image"`
	} `json:"details"`
}

func (a assetItem) toPicture() pets.Picture {
	f := a.Fields.File
	return pets.Picture{
		ID:          a.Sys.ID,
		Title:       a.Fields.Title,
		Description: a.Fields.Description,
		File: pets.File{
			URL:         f.URL,
			ContentType: f.ContentType,
			FileName:    f.FileName,
			Size:        f.Details.Size,
			Width:       f.Details.Image.Width,
			Height:      f.Details.Image.Height,
		},
	}
}

// Management API: fields localizados ({"en-US": valor}).

type localized[T any] map[string]T

type cmaUploadFile struct {
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	Upload      string `json:"upload,omitempty"`
	URL         string `json:"url,omitempty"`
}

type cmaAssetFields struct {
	Title localized[string]        `json:"title"`
	File  localized[cmaUploadFile] `json:"file"`
}

type cmaAsset struct {
	Sys    *sys           `json:"sys,omitempty"`
	Fields cmaAssetFields `json:"fields"`
}

type cmaEntryFields struct {
	Title       localized[string]         `json:"title"`
	Description localized[*pets.Document] `json:"description"`
	Species     localized[string]         `json:"species"`
	Breed       localized[string]         `json:"breed"`
	Color       localized[string]         `json:"color"`
	Size        localized[string]         `json:"size"`
	Gender      localized[string]         `json:"gender"`
	Pictures    localized[[]link]         `json:"pictures"`
}

type cmaEntry struct {
	Sys    *sys           `json:"sys,omitempty"`
	Fields cmaEntryFields `json:"fields"`
}
