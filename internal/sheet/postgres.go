package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Source backed by a single table whose column names act as the header.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres returns a Postgres source over table.
func NewPostgres(pool *pgxpool.Pool, table string) *Postgres {
	return &Postgres{pool: pool, table: table}
}

func (p *Postgres) Read(ctx context.Context) (*Table, error) {
	rows, err := p.pool.Query(ctx,
		fmt.Sprintf(`SELECT * FROM %s ORDER BY id`, pgx.Identifier{p.table}.Sanitize()),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := &Table{Header: make([]string, len(fields))}
	for i, fd := range fields {
		t.Header[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

// Append inserts row using header as the column list. The table's primary key turns a
// duplicate id into a failed insert rather than a second row.
func (p *Postgres) Append(ctx context.Context, header, row []string) error {
	if len(header) != len(row) {
		return fmt.Errorf("append to %s: %d columns for %d values", p.table, len(header), len(row))
	}

	cols := make([]string, len(header))
	placeholders := make([]string, len(header))
	// Cells travel as untyped literals so the table's column types decide the conversion.
	args := make([]any, 0, len(row)+1)
	args = append(args, pgx.QueryExecModeSimpleProtocol)
	for i, h := range header {
		cols[i] = pgx.Identifier{h}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, row[i])
	}

	_, err := p.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			pgx.Identifier{p.table}.Sanitize(),
			strings.Join(cols, ", "),
			strings.Join(placeholders, ", "),
		),
		args...,
	)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", p.table, err)
	}
	return nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
