package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type fakePresigner struct {
	failFor map[string]error // por content type
	calls   atomic.Int32
}

func (p *fakePresigner) PresignPost(_ context.Context, req PresignRequest) (PresignedPost, error) {
	p.calls.Add(1)
	if err := p.failFor[req.ContentType]; err != nil {
		return PresignedPost{}, err
	}
	return PresignedPost{
		URL:    "https://bucket.s3.amazonaws.com/",
		Fields: map[string]string{"key": req.Key, "Content-Type": req.ContentType},
	}, nil
}

type fakeAssets struct {
	failFor map[string]error // por filename
}

func (a *fakeAssets) Publish(_ context.Context, img Image) (string, error) {
	if err := a.failFor[img.FileName]; err != nil {
		return "", err
	}
	return fmt.Sprintf("asset-%s", img.FileName), nil
}

type fakeCaptioner struct {
	byURL  map[string]Caption
	errFor map[string]error
}

func (c *fakeCaptioner) Caption(_ context.Context, url string) (Caption, error) {
	if err := c.errFor[url]; err != nil {
		return Caption{}, err
	}
	if c2, ok := c.byURL[url]; ok {
		return c2, nil
	}
	return Caption{Species: "Cachorro", Breed: "Poodle", Color: "Branco", Size: "P", Gender: "macho"}, nil
}

type fakeEntries struct {
	mu      sync.Mutex
	created []EntryFields
	err     error
}

func (e *fakeEntries) CreatePet(_ context.Context, f EntryFields) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return "", e.err
	}
	e.created = append(e.created, f)
	return "entry-" + f.PictureAssetID, nil
}

func (e *fakeEntries) byAsset(assetID string) (EntryFields, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.created {
		if f.PictureAssetID == assetID {
			return f, true
		}
	}
	return EntryFields{}, false
}

type fakeRepo struct {
	mu      sync.Mutex
	batches []Batch
	err     error
}

func (r *fakeRepo) Save(_ context.Context, b Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, b)
	return nil
}

func (r *fakeRepo) ListRecent(_ context.Context, limit int) ([]Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[:min(limit, len(r.batches))], nil
}

const admin = "admin@adote.example"

type fixture struct {
	svc       *Service
	presigner *fakePresigner
	assets    *fakeAssets
	captioner *fakeCaptioner
	entries   *fakeEntries
	repo      *fakeRepo
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		presigner: &fakePresigner{failFor: map[string]error{}},
		assets:    &fakeAssets{failFor: map[string]error{}},
		captioner: &fakeCaptioner{byURL: map[string]Caption{}, errFor: map[string]error{}},
		entries:   &fakeEntries{},
		repo:      &fakeRepo{},
	}
	if cfg.AdminEmails == nil {
		cfg.AdminEmails = []string{admin, "other@adote.example"}
	}
	f.svc = NewService(cfg, Deps{
		Presigner: f.presigner,
		Assets:    f.assets,
		Captioner: f.captioner,
		Entries:   f.entries,
		Repo:      f.repo,
	})
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func validInput(names ...string) BatchInput {
	in := BatchInput{
		ContactDetails: "Maria (11) 99999-0000",
		Address:        "Rua das Flores, 10",
		AdditionalInfo: "Muito dócil com crianças",
	}
	for _, n := range names {
		in.Images = append(in.Images, Image{
			URL:         "https://bucket.s3.amazonaws.com/" + n,
			ContentType: "image/jpeg",
			FileName:    n,
		})
	}
	return in
}

// -------------------------
// RequestIntents
// -------------------------

func TestRequestIntents_PartialFailureNamesOnlyFailedFile(t *testing.T) {
	f := newFixture(Config{})
	f.presigner.failFor["image/png"] = errors.New("s3: access denied")

	batch, err := f.svc.RequestIntents(context.Background(), admin, []FileSpec{
		{FileName: "rex.jpg", ContentType: "image/jpeg", Size: 1024},
		{FileName: "mia.png", ContentType: "image/png", Size: 2048},
		{FileName: "tom.webp", ContentType: "image/webp", Size: 4096},
	})
	require.NoError(t, err)
	require.Len(t, batch.Intents, 3)

	var be *BatchError
	require.ErrorAs(t, batch.Err(), &be)
	require.Len(t, be.Failures, 1)
	assert.Equal(t, "mia.png", be.Failures[0].Item)
	assert.Contains(t, be.Failures[0].Reason, "access denied")
	assert.False(t, be.AllFailed())

	granted := batch.Granted()
	require.Len(t, granted, 2)
	assert.Equal(t, "rex.jpg", granted[0].FileName)
	assert.Equal(t, "tom.webp", granted[1].FileName)
	assert.NotEqual(t, granted[0].Key, granted[1].Key)
	assert.Equal(t, granted[0].Key, granted[0].Fields["key"])
	assert.Equal(t, int32(3), f.presigner.calls.Load())
}

func TestRequestIntents_ValidationIsPerFile(t *testing.T) {
	f := newFixture(Config{MaxBytes: 100})

	batch, err := f.svc.RequestIntents(context.Background(), admin, []FileSpec{
		{FileName: "doc.pdf", ContentType: "application/pdf", Size: 10},
		{FileName: "big.jpg", ContentType: "image/jpeg", Size: 101},
		{FileName: "", ContentType: "image/jpeg", Size: 1},
		{FileName: "ok.jpg", ContentType: "image/pjpeg", Size: 100},
	})
	require.NoError(t, err)

	states := []State{}
	for _, in := range batch.Intents {
		states = append(states, in.State)
	}
	assert.Equal(t, []State{StateIntentDenied, StateIntentDenied, StateIntentDenied, StateIntentGranted}, states)
	assert.Equal(t, int32(1), f.presigner.calls.Load())
}

func TestRequestIntents_AllRejected(t *testing.T) {
	f := newFixture(Config{})
	f.presigner.failFor["image/jpeg"] = errors.New("s3: down")

	batch, err := f.svc.RequestIntents(context.Background(), admin, []FileSpec{
		{FileName: "a.jpg", ContentType: "image/jpeg"},
		{FileName: "b.jpg", ContentType: "image/jpeg"},
	})
	require.NoError(t, err)

	var be *BatchError
	require.ErrorAs(t, batch.Err(), &be)
	assert.True(t, be.AllFailed())
	assert.Contains(t, be.Error(), "2 of 2 files failed")
}

func TestRequestIntents_WholeBatchRejections(t *testing.T) {
	f := newFixture(Config{})
	files := []FileSpec{{FileName: "a.jpg", ContentType: "image/jpeg"}}

	_, err := f.svc.RequestIntents(context.Background(), "intruso@example.com", files)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.RequestIntents(context.Background(), admin, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	noStorage := NewService(Config{AdminEmails: []string{admin}}, Deps{})
	_, err = noStorage.RequestIntents(context.Background(), admin, files)
	assert.ErrorIs(t, err, ErrNotConfigured)

	noAdmins := NewService(Config{AdminEmails: []string{" "}}, Deps{Presigner: f.presigner})
	_, err = noAdmins.RequestIntents(context.Background(), admin, files)
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, int32(0), f.presigner.calls.Load())
}

func TestIsAdmin_CaseInsensitive(t *testing.T) {
	f := newFixture(Config{AdminEmails: []string{" Admin@Adote.Example "}})
	assert.True(t, f.svc.IsAdmin("admin@adote.example"))
	assert.False(t, f.svc.IsAdmin(""))
	assert.True(t, f.svc.HasAdmins())
}

// -------------------------
// Process
// -------------------------

func TestProcess_CaptionFailureUsesDefaults(t *testing.T) {
	f := newFixture(Config{})
	in := validInput("rex.jpg", "mia.jpg")
	f.captioner.errFor[in.Images[1].URL] = errors.New("openai: 500")

	b, err := f.svc.Process(context.Background(), admin, in)
	require.NoError(t, err)
	require.NoError(t, b.Err())

	assert.Equal(t, StatePersisted, b.Files[1].State)
	assert.Equal(t, StateCaptionSkipped, b.Files[1].CaptionState)
	assert.Equal(t, StateCaptioned, b.Files[0].CaptionState)

	got, ok := f.entries.byAsset("asset-mia.jpg")
	require.True(t, ok)
	assert.Equal(t, "Vira Lata", got.Breed)
	assert.Equal(t, "indefinido", got.Gender)
	assert.Equal(t, "", got.Species)
	assert.Equal(t, "", got.Color)
	assert.Equal(t, "", got.Size)

	other, ok := f.entries.byAsset("asset-rex.jpg")
	require.True(t, ok)
	assert.Equal(t, "Poodle", other.Breed)
	assert.Equal(t, "macho", other.Gender)
}

func TestProcess_GenderOutsideSetBecomesIndefinido(t *testing.T) {
	f := newFixture(Config{})
	in := validInput("a.jpg", "b.jpg", "c.jpg")
	f.captioner.byURL[in.Images[0].URL] = Caption{Gender: "Male"}
	f.captioner.byURL[in.Images[1].URL] = Caption{Gender: "fêmea"}
	f.captioner.byURL[in.Images[2].URL] = Caption{Gender: "não sei"}

	_, err := f.svc.Process(context.Background(), admin, in)
	require.NoError(t, err)

	for asset, want := range map[string]string{"asset-a.jpg": "indefinido", "asset-b.jpg": "fêmea", "asset-c.jpg": "indefinido"} {
		e, ok := f.entries.byAsset(asset)
		require.True(t, ok, asset)
		assert.Equal(t, want, e.Gender, asset)
	}
}

func TestProcess_PublishFailureSkipsOnlyThatFile(t *testing.T) {
	f := newFixture(Config{})
	f.assets.failFor["bad.jpg"] = errors.New("contentful: processing timeout")

	b, err := f.svc.Process(context.Background(), admin, validInput("ok.jpg", "bad.jpg"))
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, b.Files[0].State)
	assert.Equal(t, "entry-asset-ok.jpg", b.Files[0].EntryID)
	assert.Equal(t, StatePersistSkipped, b.Files[1].State)
	assert.Contains(t, b.Files[1].Reason, "publish asset")

	var be *BatchError
	require.ErrorAs(t, b.Err(), &be)
	assert.Equal(t, []Failure{{Item: "bad.jpg", Reason: b.Files[1].Reason}}, be.Failures)
	assert.Len(t, f.entries.created, 1)
}

func TestProcess_EntryFailureKeepsAsset(t *testing.T) {
	f := newFixture(Config{})
	f.entries.err = errors.New("contentful: 422")

	b, err := f.svc.Process(context.Background(), admin, validInput("a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, StatePersistSkipped, b.Files[0].State)
	assert.Equal(t, "asset-a.jpg", b.Files[0].AssetID)

	var be *BatchError
	require.ErrorAs(t, b.Err(), &be)
	assert.True(t, be.AllFailed())
}

func TestProcess_EntryFields(t *testing.T) {
	f := newFixture(Config{})
	in := validInput("rex.jpg")
	f.captioner.byURL[in.Images[0].URL] = Caption{Species: " Cachorro ", Breed: " ", Color: "Preto e Branco ", Size: "M", Gender: "macho"}

	_, err := f.svc.Process(context.Background(), admin, in)
	require.NoError(t, err)

	e, ok := f.entries.byAsset("asset-rex.jpg")
	require.True(t, ok)
	assert.Equal(t, "Script - Maria (11) 99999-0000", e.Title)
	assert.Equal(t, "Cachorro", e.Species)
	assert.Equal(t, "Vira Lata", e.Breed)
	assert.Equal(t, "Preto e Branco", e.Color)
	assert.Equal(t, "asset-rex.jpg", e.PictureAssetID)
	assert.Equal(t,
		"Localização: Rua das Flores, 10\nContato: Maria (11) 99999-0000\nInformações adicionais: Muito dócil com crianças",
		e.Description.PlainText())
}

func TestProcess_BatchWidthBoundsConcurrency(t *testing.T) {
	f := newFixture(Config{BatchWidth: 2})
	tracker := &concurrencyTracker{}
	f.svc.deps.Assets = tracker

	names := make([]string, 7)
	for i := range names {
		names[i] = fmt.Sprintf("f%d.jpg", i)
	}
	b, err := f.svc.Process(context.Background(), admin, validInput(names...))
	require.NoError(t, err)
	assert.Equal(t, 7, b.Count(StatePersisted))
	assert.LessOrEqual(t, tracker.max.Load(), int32(2))
}

type concurrencyTracker struct {
	cur, max atomic.Int32
}

func (c *concurrencyTracker) Publish(_ context.Context, img Image) (string, error) {
	n := c.cur.Add(1)
	for {
		m := c.max.Load()
		if n <= m || c.max.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	c.cur.Add(-1)
	return "asset-" + img.FileName, nil
}

func TestProcess_FormValidation(t *testing.T) {
	f := newFixture(Config{})

	in := validInput("a.jpg")
	in.Address = "  "
	in.AdditionalInfo = "curto"
	in.Images = append(in.Images, Image{URL: "ftp://x/y.jpg", FileName: "y.jpg"})

	_, err := f.svc.Process(context.Background(), admin, in)
	require.ErrorIs(t, err, ErrInvalidInput)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "address is required"), msg)
	assert.Contains(t, msg, "at least 8 characters")
	assert.Contains(t, msg, `"y.jpg"`)
	assert.Empty(t, f.entries.created)
}

func TestProcess_SavesHistoryBestEffort(t *testing.T) {
	f := newFixture(Config{})
	b, err := f.svc.Process(context.Background(), admin, validInput("a.jpg"))
	require.NoError(t, err)

	hist, err := f.svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, b.ID, hist[0].ID)
	assert.Equal(t, admin, hist[0].AdminEmail)

	f.repo.err = errors.New("db down")
	_, err = f.svc.Process(context.Background(), admin, validInput("b.jpg"))
	assert.NoError(t, err)
}

func TestProcess_NotConfigured(t *testing.T) {
	svc := NewService(Config{AdminEmails: []string{admin}}, Deps{Assets: &fakeAssets{}})
	_, err := svc.Process(context.Background(), admin, validInput("a.jpg"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
