package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads individuals from a JSON array file of
// {"id": ..., "name": ...} objects.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Individuals(_ context.Context, limit int) ([]Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read identities %s: %w", f.path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse identities %s: %w", f.path, err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
