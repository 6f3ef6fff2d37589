package sheet

import (
	"context"
	"sync"
)

// Memory is an in-process Source. The zero value is an empty table.
type Memory struct {
	mu    sync.Mutex
	table Table
	err   error
}

// NewMemory returns a Memory source holding header and rows.
func NewMemory(header []string, rows ...[]string) *Memory {
	m := &Memory{}
	m.table.Header = append([]string(nil), header...)
	for _, r := range rows {
		m.table.Rows = append(m.table.Rows, append([]string(nil), r...))
	}
	return m
}

// Fail makes every subsequent call return err; nil restores normal operation.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *Memory) Read(ctx context.Context) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	if len(m.table.Header) == 0 {
		return &Table{}, nil
	}

	records := make([][]string, 0, len(m.table.Rows)+1)
	records = append(records, append([]string(nil), m.table.Header...))
	for _, r := range m.table.Rows {
		records = append(records, append([]string(nil), r...))
	}
	return NewTable(records), nil
}

func (m *Memory) Append(ctx context.Context, header, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	if len(m.table.Header) == 0 {
		m.table.Header = append([]string(nil), header...)
	}
	m.table.Rows = append(m.table.Rows, append([]string(nil), row...))
	return nil
}
