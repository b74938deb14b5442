package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/intakeflow/intakeflow/types"
)

// CSVFile appends one flattened row per submission, writing the header when
// it creates the file.
type CSVFile struct {
	path string
}

func NewCSVFile(path string) (*CSVFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &CSVFile{path: path}, nil
}

func (c *CSVFile) Save(ctx context.Context, fields map[string]*types.CollectedValue, meta Metadata) (string, error) {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	header := []string{"timestamp"}
	row := []string{time.Now().Format(time.RFC3339)}
	for _, id := range ids {
		cv := fields[id]
		header = append(header, id)
		row = append(row, types.FormatValue(cv.Value))
		if len(cv.Notes) > 0 {
			header = append(header, id+"_notes")
			row = append(row, strings.Join(cv.Notes, "; "))
		}
	}

	_, statErr := os.Stat(c.path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return "", fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return c.path, nil
}

var _ Sink = (*CSVFile)(nil)
