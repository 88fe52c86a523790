// Package sink writes derived collections back out. Every push replaces
// a tab wholesale; nothing is patched in place, so a half-failed push
// never leaves a tab mixing two passes' rows.
package sink

import (
	"context"

	"github.com/andresuchdata/marginsight/backend-go/internal/sheets"
)

// Tab is one derived collection rendered for write-back: a title, a
// header row and the data rows beneath it.
type Tab struct {
	Title  string
	Header []string
	Rows   [][]interface{}
}

// Sink receives rendered derived tabs.
type Sink interface {
	Push(ctx context.Context, tab Tab) error
}

// SheetsSink replaces workbook tabs via the Sheets client.
type SheetsSink struct {
	svc *sheets.Service
}

func NewSheetsSink(svc *sheets.Service) *SheetsSink {
	return &SheetsSink{svc: svc}
}

func (s *SheetsSink) Push(ctx context.Context, tab Tab) error {
	rows := make([][]interface{}, 0, len(tab.Rows)+1)
	header := make([]interface{}, len(tab.Header))
	for i, h := range tab.Header {
		header[i] = h
	}
	rows = append(rows, header)
	rows = append(rows, tab.Rows...)
	return s.svc.ReplaceTab(ctx, tab.Title, rows)
}

var _ Sink = (*SheetsSink)(nil)
