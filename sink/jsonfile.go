package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/intakeflow/intakeflow/types"
)

// JSONFile writes one timestamped JSON document per submission.
type JSONFile struct {
	dir string
}

func NewJSONFile(dir string) (*JSONFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &JSONFile{dir: dir}, nil
}

type jsonSubmission struct {
	Timestamp string                           `json:"timestamp"`
	Data      map[string]*types.CollectedValue `json:"data"`
	Metadata  Metadata                         `json:"metadata"`
}

func (j *JSONFile) Save(ctx context.Context, fields map[string]*types.CollectedValue, meta Metadata) (string, error) {
	now := time.Now()
	doc := jsonSubmission{
		Timestamp: now.Format(time.RFC3339),
		Data:      fields,
		Metadata:  meta,
	}
	payload, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}
	name := fmt.Sprintf("form_submission_%s_%s.json", now.Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(j.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write submission: %w", err)
	}
	return path, nil
}

var _ Sink = (*JSONFile)(nil)
