package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVProvider reads collections from <dir>/<collection>.csv so the full
// pipeline can run offline from a directory of exports.
type CSVProvider struct {
	dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

func (p *CSVProvider) Fetch(ctx context.Context, c Collection) ([][]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := filepath.Join(p.dir, string(c)+".csv")
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		// An absent export is an empty collection, not a failure.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

var _ Provider = (*CSVProvider)(nil)
