package contentful

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/pets"
)

const entriesURL = "https://cdn.contentful.com/spaces/space1/environments/master/entries"

const entriesBody = `{
  "sys": {"type": "Array"},
  "total": 41, "skip": 20, "limit": 20,
  "items": [{
    "sys": {"id": "pet-1", "type": "Entry"},
    "fields": {
      "title": "Script - Maria",
      "species": "Cachorro", "breed": "Vira Lata", "color": "Caramelo", "size": "M", "gender": "fêmea",
      "internalNotes": "no se expone",
      "description": {"nodeType": "document", "data": {}, "content": [
        {"nodeType": "paragraph", "data": {}, "content": [
          {"nodeType": "text", "value": "Localização: Centro", "marks": [], "data": {}}
        ]}
      ]},
      "pictures": [
        {"sys": {"type": "Link", "linkType": "Asset", "id": "asset-1"}},
        {"sys": {"type": "Link", "linkType": "Asset", "id": "asset-missing"}}
      ]
    }
  }],
  "includes": {"Asset": [{
    "sys": {"id": "asset-1", "type": "Asset"},
    "fields": {"title": "rex.jpg", "file": {
      "url": "//images.ctfassets.net/space1/asset-1/rex.jpg",
      "contentType": "image/jpeg", "fileName": "rex.jpg",
      "details": {"size": 12345, "image": {"width": 800, "height": 600}}
    }}
  }]}
}`

func newDelivery(t *testing.T) (*DeliveryClient, *httpmock.MockTransport) {
	t.Helper()
	tr := httpmock.NewMockTransport()
	c, err := NewDeliveryClient(Config{SpaceID: "space1", DeliveryToken: "cda-token", Transport: tr})
	require.NoError(t, err)
	return c, tr
}

func TestNewDeliveryClient_RequiresSpaceAndToken(t *testing.T) {
	_, err := NewDeliveryClient(Config{SpaceID: "space1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEntries_SendsDescriptorAndShapesPage(t *testing.T) {
	c, tr := newDelivery(t)
	tr.RegisterResponder(http.MethodGet, entriesURL, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "Bearer cda-token", req.Header.Get("Authorization"))
		assert.Equal(t, "pet", q.Get("content_type"))
		assert.Equal(t, "cachorro,gato", q.Get("fields.species[in]"))
		assert.Equal(t, "macho", q.Get("fields.gender[in]"))
		assert.Empty(t, q.Get("fields.breed[in]"))
		assert.Equal(t, "20", q.Get("skip"))
		assert.Equal(t, "manso", q.Get("query"))
		return httpmock.NewStringResponse(http.StatusOK, entriesBody), nil
	})

	d := pets.Query{
		Filters:    map[pets.Field][]string{pets.FieldSpecies: {"gato", "cachorro"}, pets.FieldGender: {"macho"}},
		SearchTerm: "manso",
		Skip:       20,
	}.Descriptor()

	raw, err := c.Entries(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 41, raw.Total)
	assert.Equal(t, 20, raw.Limit)
	require.Len(t, raw.Items, 1)

	e := raw.Items[0]
	assert.Equal(t, "pet-1", e.ID)
	assert.Equal(t, "fêmea", e.Gender)
	assert.Equal(t, []string{"asset-1", "asset-missing"}, e.PictureIDs)
	assert.Equal(t, "Localização: Centro", e.Description.PlainText())

	pic := raw.Assets["asset-1"]
	assert.Equal(t, "//images.ctfassets.net/space1/asset-1/rex.jpg", pic.File.URL)
	assert.Equal(t, 800, pic.File.Width)
	assert.Equal(t, int64(12345), pic.File.Size)
}

func TestEntries_ThroughPetService_DropsUnresolvedLinks(t *testing.T) {
	c, tr := newDelivery(t)
	tr.RegisterResponder(http.MethodGet, entriesURL, httpmock.NewStringResponder(http.StatusOK, entriesBody))

	svc := pets.NewService(c, nil, pets.Options{})
	page, err := svc.Search(context.Background(), pets.Query{Skip: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Len(t, page.Items[0].Pictures, 1)
	assert.Equal(t, "asset-1", page.Items[0].Pictures[0].ID)
}

func TestEntries_StatusErrors(t *testing.T) {
	c, tr := newDelivery(t)

	tr.RegisterResponder(http.MethodGet, entriesURL, httpmock.NewStringResponder(http.StatusUnauthorized, `{"message":"bad token"}`))
	_, err := c.Entries(context.Background(), pets.Query{}.Descriptor())
	assert.ErrorIs(t, err, ErrUnauthorized)

	tr.Reset()
	tr.RegisterResponder(http.MethodGet, entriesURL, httpmock.NewStringResponder(http.StatusServiceUnavailable, `oops`))
	_, err = c.Entries(context.Background(), pets.Query{}.Descriptor())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "status=503")
}

func TestSiteConfig(t *testing.T) {
	c, tr := newDelivery(t)
	tr.RegisterResponder(http.MethodGet, entriesURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "siteConfig", req.URL.Query().Get("content_type"))
		return httpmock.NewStringResponse(http.StatusOK, `{"total":1,"skip":0,"limit":1,"items":[{
			"sys":{"id":"cfg"},
			"fields":{"title":"Adote um amigo","introRichText":{"nodeType":"document","data":{},"content":[]}}
		}]}`), nil
	})

	cfg, err := c.SiteConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Adote um amigo", cfg.Title)
	require.NotNil(t, cfg.Intro)
	assert.Equal(t, pets.NodeDocument, cfg.Intro.NodeType)
}
