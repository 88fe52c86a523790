package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/sink"
	"github.com/rs/zerolog/log"
)

// Archiver exports each computed pass as dated CSVs for audit history.
// One folder per pass, one file per derived collection.
type Archiver struct {
	store ObjectStorage
}

func NewArchiver(store ObjectStorage) *Archiver {
	return &Archiver{store: store}
}

// Export writes every derived tab as a CSV under passes/<stamp>/.
// Tabs that fail to upload are logged and skipped; a partial archive
// beats none for audit purposes.
func (a *Archiver) Export(ctx context.Context, derived engine.Derived, at time.Time) error {
	folder := path.Join("passes", at.UTC().Format("20060102T150405"))

	var failed int
	for _, tab := range sink.Tabs(derived) {
		payload, err := renderCSV(tab)
		if err != nil {
			return fmt.Errorf("render %s: %w", tab.Title, err)
		}

		key := path.Join(folder, fileStem(tab.Title)+".csv")
		if err := a.store.UploadObject(ctx, key, payload); err != nil {
			log.Error().Err(err).Str("key", key).Msg("archive: upload failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("archive: %d tabs failed to upload", failed)
	}
	log.Info().Str("folder", folder).Msg("archive: pass exported")
	return nil
}

func renderCSV(tab sink.Tab) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tab.Header); err != nil {
		return nil, err
	}
	record := make([]string, len(tab.Header))
	for _, row := range tab.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = fmt.Sprint(row[i])
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func fileStem(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}
