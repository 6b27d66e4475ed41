package uploads

import (
	"fmt"
	"strings"
	"time"
)

// State es el estado de un archivo dentro de un lote.
type State string

const (
	StateSelected        State = "selected"
	StateIntentRequested State = "intent-requested"
	StateIntentGranted   State = "intent-granted"
	StateIntentDenied    State = "intent-denied"
	StateUploaded        State = "uploaded"
	StateUploadFailed    State = "upload-failed"
	StateCaptioned       State = "captioned"
	StateCaptionSkipped  State = "caption-skipped"
	StatePersisted       State = "persisted"
	StatePersistSkipped  State = "persist-skipped"
)

// Failed indica un estado terminal de error.
func (s State) Failed() bool {
	switch s {
	case StateIntentDenied, StateUploadFailed, StatePersistSkipped:
		return true
	default:
		return false
	}
}

// FileSpec es lo que el cliente declara antes de subir.
type FileSpec struct {
	FileName    string
	ContentType string
	Size        int64
}

// Intent es un destino de subida firmado (o el motivo por el que se negó).
type Intent struct {
	FileName  string
	State     State
	Key       string
	URL       string
	Fields    map[string]string
	ExpiresAt time.Time
	Reason    string
}

type IntentBatch struct {
	Intents []Intent
}

func (b IntentBatch) Granted() []Intent {
	out := make([]Intent, 0, len(b.Intents))
	for _, in := range b.Intents {
		if in.State == StateIntentGranted {
			out = append(out, in)
		}
	}
	return out
}

// Err devuelve un *BatchError con cada archivo negado, o nil.
func (b IntentBatch) Err() error {
	var fs []Failure
	for _, in := range b.Intents {
		if in.State == StateIntentDenied {
			fs = append(fs, Failure{Item: in.FileName, Reason: in.Reason})
		}
	}
	if len(fs) == 0 {
		return nil
	}
	return &BatchError{Failures: fs, Total: len(b.Intents)}
}

// Failure es un archivo fallido y su motivo.
type Failure struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// BatchError consolida los fallos por archivo de un lote.
type BatchError struct {
	Failures []Failure
	Total    int
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Item, f.Reason))
	}
	return fmt.Sprintf("%d of %d files failed: %s", len(e.Failures), e.Total, strings.Join(parts, "; "))
}

// AllFailed es true si no quedó ningún archivo en pie.
func (e *BatchError) AllFailed() bool {
	return e != nil && e.Total > 0 && len(e.Failures) == e.Total
}

// Image es un archivo ya subido al bucket, con su URL pública.
type Image struct {
	URL           string
	ContentType   string
	ContentLength int64
	FileName      string
}

// Caption es la descripción estructurada que devuelve el modelo.
type Caption struct {
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Color   string `json:"color"`
	Size    string `json:"size"`
	Gender  string `json:"gender"`
	Text    string `json:"text"`
}

// BatchInput son los datos compartidos del formulario más las imágenes.
type BatchInput struct {
	ContactDetails string
	Address        string
	AdditionalInfo string
	Images         []Image
}

// FileResult es el resultado final de un archivo del lote.
type FileResult struct {
	FileName     string `json:"file_name"`
	URL          string `json:"url"`
	State        State  `json:"state"`
	CaptionState State  `json:"caption_state,omitempty"`
	AssetID      string `json:"asset_id,omitempty"`
	EntryID      string `json:"entry_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Batch es el reporte de un lote procesado (se guarda en el historial).
type Batch struct {
	ID             string       `json:"id"`
	AdminEmail     string       `json:"admin_email"`
	ContactDetails string       `json:"contact_details"`
	Address        string       `json:"address"`
	CreatedAt      time.Time    `json:"created_at"`
	Files          []FileResult `json:"files"`
}

// Err devuelve un *BatchError con los archivos no persistidos, o nil.
func (b Batch) Err() error {
	var fs []Failure
	for _, f := range b.Files {
		if f.State.Failed() {
			fs = append(fs, Failure{Item: f.FileName, Reason: f.Reason})
		}
	}
	if len(fs) == 0 {
		return nil
	}
	return &BatchError{Failures: fs, Total: len(b.Files)}
}

// Count cuenta archivos por estado final.
func (b Batch) Count(s State) int {
	n := 0
	for _, f := range b.Files {
		if f.State == s {
			n++
		}
	}
	return n
}
