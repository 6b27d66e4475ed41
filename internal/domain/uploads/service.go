package uploads

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/taskgroup"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("upload pipeline not configured")
	ErrUnauthorized  = errors.New("caller is not an admin")
)

const (
	DefaultMaxBytes   int64 = 10 << 20
	DefaultIntentTTL        = 15 * time.Minute
	DefaultBatchWidth       = 5

	minAdditionalInfo = 8
)

// AllowedContentTypes son los MIME aceptados para fotos.
var AllowedContentTypes = []string{"image/jpeg", "image/pjpeg", "image/png", "image/webp"}

type Config struct {
	AdminEmails []string
	MaxBytes    int64
	IntentTTL   time.Duration
	BatchWidth  int
}

// Deps son los colaboradores externos. Los nil dejan el pipeline sin configurar.
type Deps struct {
	Presigner Presigner
	Assets    AssetPublisher
	Captioner Captioner
	Entries   EntryCreator
	Repo      Repository
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

type Service struct {
	cfg    Config
	admins map[string]bool
	deps   Deps
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(cfg Config, deps Deps) *Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.IntentTTL <= 0 {
		cfg.IntentTTL = DefaultIntentTTL
	}
	if cfg.BatchWidth <= 0 {
		cfg.BatchWidth = DefaultBatchWidth
	}
	admins := map[string]bool{}
	for _, e := range cfg.AdminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cfg:    cfg,
		admins: admins,
		deps:   deps,
		log:    log.With(logger.Fields{"component": "uploads"}),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// IsAdmin consulta la lista de admins. Sin lista configurada nadie es admin.
func (s *Service) IsAdmin(email string) bool {
	e := normalizeEmail(email)
	return e != "" && s.admins[e]
}

// HasAdmins es false si ADMIN_EMAILS quedó vacío.
func (s *Service) HasAdmins() bool { return len(s.admins) > 0 }

func (s *Service) authorize(admin string) error {
	if len(s.admins) == 0 {
		return fmt.Errorf("%w: admin list is empty", ErrNotConfigured)
	}
	if !s.IsAdmin(admin) {
		return ErrUnauthorized
	}
	return nil
}

// RequestIntents pide un destino firmado por archivo. Cada archivo se resuelve
// por separado; el lote entero solo se rechaza por autorización o configuración.
func (s *Service) RequestIntents(ctx context.Context, admin string, files []FileSpec) (IntentBatch, error) {
	if err := s.authorize(admin); err != nil {
		return IntentBatch{}, err
	}
	if s.deps.Presigner == nil {
		return IntentBatch{}, fmt.Errorf("%w: object storage", ErrNotConfigured)
	}
	if len(files) == 0 {
		return IntentBatch{}, fmt.Errorf("%w: no files", ErrInvalidInput)
	}

	results := taskgroup.Settle(ctx, len(files), func(ctx context.Context, i int) (Intent, error) {
		return s.requestIntent(ctx, files[i])
	})

	out := IntentBatch{Intents: make([]Intent, len(files))}
	for i, r := range results {
		if r.Err != nil {
			out.Intents[i] = Intent{FileName: files[i].FileName, State: StateIntentDenied, Reason: r.Err.Error()}
			s.log.Warn("upload intent denied", logger.Fields{"file": files[i].FileName, "error": r.Err})
			s.deps.Metrics.UploadFile(string(StateIntentDenied))
			continue
		}
		out.Intents[i] = r.Value
	}
	return out, nil
}

func (s *Service) requestIntent(ctx context.Context, f FileSpec) (Intent, error) {
	if err := s.validateFile(f); err != nil {
		return Intent{}, err
	}

	key := s.newID()
	post, err := s.deps.Presigner.PresignPost(ctx, PresignRequest{
		Key:         key,
		ContentType: f.ContentType,
		MaxBytes:    s.cfg.MaxBytes,
		Expiry:      s.cfg.IntentTTL,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("presign: %w", err)
	}
	return Intent{
		FileName:  f.FileName,
		State:     StateIntentGranted,
		Key:       key,
		URL:       post.URL,
		Fields:    post.Fields,
		ExpiresAt: s.now().Add(s.cfg.IntentTTL),
	}, nil
}

func (s *Service) validateFile(f FileSpec) error {
	if strings.TrimSpace(f.FileName) == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	if !slices.Contains(AllowedContentTypes, strings.ToLower(strings.TrimSpace(f.ContentType))) {
		return fmt.Errorf("%w: content type %q not allowed", ErrInvalidInput, f.ContentType)
	}
	if f.Size < 0 || f.Size > s.cfg.MaxBytes {
		return fmt.Errorf("%w: size %d exceeds %d bytes", ErrInvalidInput, f.Size, s.cfg.MaxBytes)
	}
	return nil
}

// Process publica, describe y persiste cada imagen ya subida. Se procesa en
// tandas de BatchWidth; un archivo fallido no frena a los demás.
func (s *Service) Process(ctx context.Context, admin string, in BatchInput) (Batch, error) {
	if err := s.authorize(admin); err != nil {
		return Batch{}, err
	}
	if s.deps.Assets == nil || s.deps.Entries == nil {
		return Batch{}, fmt.Errorf("%w: content management", ErrNotConfigured)
	}
	if s.deps.Captioner == nil {
		return Batch{}, fmt.Errorf("%w: captioning", ErrNotConfigured)
	}
	if err := validateForm(in); err != nil {
		return Batch{}, err
	}

	results := taskgroup.SettleBatched(ctx, len(in.Images), s.cfg.BatchWidth, func(ctx context.Context, i int) (FileResult, error) {
		return s.processImage(ctx, in, in.Images[i]), nil
	})

	b := Batch{
		ID:             s.newID(),
		AdminEmail:     normalizeEmail(admin),
		ContactDetails: strings.TrimSpace(in.ContactDetails),
		Address:        strings.TrimSpace(in.Address),
		CreatedAt:      s.now().UTC(),
		Files:          make([]FileResult, len(results)),
	}
	for i, r := range results {
		fr := r.Value
		if r.Err != nil {
			fr = FileResult{
				FileName: in.Images[i].FileName,
				URL:      in.Images[i].URL,
				State:    StatePersistSkipped,
				Reason:   r.Err.Error(),
			}
		}
		b.Files[i] = fr
		s.deps.Metrics.UploadFile(string(fr.State))
	}

	if s.deps.Repo != nil {
		if err := s.deps.Repo.Save(ctx, b); err != nil {
			s.log.Error("save upload history failed", logger.Fields{"batch_id": b.ID, "error": err})
		}
	}

	s.log.Info("batch processed", logger.Fields{
		"batch_id":  b.ID,
		"files":     len(b.Files),
		"persisted": b.Count(StatePersisted),
	})
	return b, nil
}

func (s *Service) processImage(ctx context.Context, in BatchInput, img Image) FileResult {
	res := FileResult{FileName: img.FileName, URL: img.URL}
	log := s.log.With(logger.Fields{"file": img.FileName})

	published, captioned := taskgroup.Pair(ctx,
		func(ctx context.Context) (string, error) { return s.deps.Assets.Publish(ctx, img) },
		func(ctx context.Context) (Caption, error) { return s.deps.Captioner.Caption(ctx, img.URL) },
	)

	caption := captioned.Value
	res.CaptionState = StateCaptioned
	if captioned.Err != nil {
		log.Warn("caption failed, using defaults", logger.Fields{"error": captioned.Err})
		caption = DefaultCaption()
		res.CaptionState = StateCaptionSkipped
	}

	if published.Err != nil {
		log.Error("publish asset failed", logger.Fields{"error": published.Err})
		res.State = StatePersistSkipped
		res.Reason = "publish asset: " + published.Err.Error()
		return res
	}
	res.AssetID = published.Value

	entryID, err := s.deps.Entries.CreatePet(ctx, BuildEntry(in, caption, res.AssetID))
	if err != nil {
		log.Error("create entry failed", logger.Fields{"asset_id": res.AssetID, "error": err})
		res.State = StatePersistSkipped
		res.Reason = "create entry: " + err.Error()
		return res
	}

	res.EntryID = entryID
	res.State = StatePersisted
	return res
}

func validateForm(in BatchInput) error {
	var problems []string
	if strings.TrimSpace(in.Address) == "" {
		problems = append(problems, "address is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.AdditionalInfo)) < minAdditionalInfo {
		problems = append(problems, fmt.Sprintf("additional info must have at least %d characters", minAdditionalInfo))
	}
	if len(in.Images) == 0 {
		problems = append(problems, "at least one image is required")
	}
	for _, img := range in.Images {
		u, err := url.Parse(strings.TrimSpace(img.URL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("image %q has an invalid url", img.FileName))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// History devuelve los últimos lotes procesados.
func (s *Service) History(ctx context.Context, limit int) ([]Batch, error) {
	if s.deps.Repo == nil {
		return []Batch{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.deps.Repo.ListRecent(ctx, limit)
}
