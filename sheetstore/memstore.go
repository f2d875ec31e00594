package sheetstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type memTable struct {
	header []string
	rows   [][]string
}

// MemStore is an in-memory Store used by tests and local development. It
// mirrors the sheet semantics: positional appends against a header row,
// absent tables degrade to empty reads.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]*memTable

	// AppendErr, when set, is returned once by the next AppendRow and then
	// cleared. Tests use it to inject transient failures.
	AppendErr error
	// ReadErr behaves like AppendErr for ReadAll.
	ReadErr error
}

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

func (m *MemStore) GetOrCreate(_ context.Context, spec TableSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[spec.Name]; ok {
		return nil
	}
	m.tables[spec.Name] = &memTable{header: append([]string(nil), spec.Columns...)}
	return nil
}

// Seed replaces a table wholesale. Test helper.
func (m *MemStore) Seed(name string, header []string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = &memTable{
		header: append([]string(nil), header...),
		rows:   rows,
	}
}

func (m *MemStore) ReadAll(_ context.Context, table string) ([]Record, ReadStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ReadErr; err != nil {
		m.ReadErr = nil
		return nil, ReadDegraded, err
	}

	t, ok := m.tables[table]
	if !ok {
		return nil, ReadDegraded, nil
	}

	usable := false
	for _, h := range t.header {
		if strings.TrimSpace(h) != "" {
			usable = true
			break
		}
	}
	if !usable {
		return nil, ReadDegraded, nil
	}
	if len(t.rows) == 0 {
		return nil, ReadEmpty, nil
	}

	records := make([]Record, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(Record, len(t.header))
		for i, cell := range row {
			if i >= len(t.header) || strings.TrimSpace(t.header[i]) == "" {
				continue
			}
			rec[t.header[i]] = cell
		}
		records = append(records, rec)
	}
	return records, ReadOK, nil
}

func (m *MemStore) AppendRow(_ context.Context, table string, values []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.AppendErr; err != nil {
		m.AppendErr = nil
		return err
	}

	t, ok := m.tables[table]
	if !ok {
		return &StoreError{Kind: KindNotFound, Op: "AppendRow", Table: table, Err: fmt.Errorf("table does not exist")}
	}

	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.rows = append(t.rows, row)
	return nil
}
