// Package backup converts learner snapshots to and from the portable backup
// file format.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// CurrentVersion is the format version written by Encode.
const CurrentVersion = 1

// ValidationError describes why a backup was rejected. Its message is safe
// to show to the learner.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid backup: " + e.Reason
	}
	return fmt.Sprintf("invalid backup: %s: %s", e.Field, e.Reason)
}

type blob struct {
	Version    int       `json:"version" validate:"required,gte=1"`
	ExportedAt time.Time `json:"exportedAt"`
	Progress   *progress `json:"progress" validate:"required"`
}

type progress struct {
	Words map[string]record `json:"words" validate:"required,dive"`
	Stats *stats            `json:"stats" validate:"required"`
}

type record struct {
	Box          int    `json:"box" validate:"gte=1"`
	LastSeen     string `json:"lastSeen"`
	CorrectCount int    `json:"correctCount" validate:"gte=0"`
	WrongCount   int    `json:"wrongCount" validate:"gte=0"`
}

type stats struct {
	Streak           int    `json:"streak" validate:"gte=0"`
	LastPracticeDate string `json:"lastPracticeDate"`
	TotalCorrect     int    `json:"totalCorrect" validate:"gte=0"`
	TotalWrong       int    `json:"totalWrong" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Encode serializes a snapshot as a version CurrentVersion backup.
func Encode(snap entities.Snapshot, exportedAt time.Time) ([]byte, error) {
	b := blob{
		Version:    CurrentVersion,
		ExportedAt: exportedAt.UTC(),
		Progress: &progress{
			Words: make(map[string]record, len(snap.Words)),
			Stats: &stats{
				Streak:           snap.Stats.Streak,
				LastPracticeDate: snap.Stats.LastPracticeDate,
				TotalCorrect:     snap.Stats.TotalCorrect,
				TotalWrong:       snap.Stats.TotalWrong,
			},
		},
	}
	for id, rec := range snap.Words {
		b.Progress.Words[id] = record(rec)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}

	return data, nil
}

// Decode parses and validates a backup. On any error the returned snapshot
// is empty, so nothing of a malformed file can be applied.
func Decode(data []byte) (entities.Snapshot, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return entities.Snapshot{}, &ValidationError{Reason: "file is not valid JSON"}
	}

	if b.Version > CurrentVersion {
		return entities.Snapshot{}, &ValidationError{
			Field:  "version",
			Reason: fmt.Sprintf("unsupported version %d, expected at most %d", b.Version, CurrentVersion),
		}
	}

	if err := validate.Struct(b); err != nil {
		return entities.Snapshot{}, toValidationError(err)
	}

	snap := entities.Snapshot{
		Words: make(entities.ProgressMap, len(b.Progress.Words)),
		Stats: entities.Stats{
			Streak:           b.Progress.Stats.Streak,
			LastPracticeDate: b.Progress.Stats.LastPracticeDate,
			TotalCorrect:     b.Progress.Stats.TotalCorrect,
			TotalWrong:       b.Progress.Stats.TotalWrong,
		},
	}
	for id, rec := range b.Progress.Words {
		if strings.TrimSpace(id) == "" {
			return entities.Snapshot{}, &ValidationError{Field: "progress.words", Reason: "empty word id"}
		}
		snap.Words[id] = entities.ReviewRecord(rec)
	}

	return snap, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := verrs[0]
	// drop the root struct name: "blob.progress.words" -> "progress.words"
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	reason := "is required"
	switch fe.Tag() {
	case "required":
	case "gte":
		reason = "must be at least " + fe.Param()
	default:
		reason = "failed " + fe.Tag() + " check"
	}

	return &ValidationError{Field: field, Reason: reason}
}
