package connection

import (
	"context"
	"fmt"

	"github.com/bawdo/quarry/visitors"
)

// Tables lists the user tables visible to the connection, sorted by name.
func (c *Connection) Tables(ctx context.Context) ([]string, error) {
	var query string
	switch c.dialect {
	case visitors.Postgres:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case visitors.MySQL:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	case visitors.SQLite:
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	default:
		return nil, fmt.Errorf("%w: schema listing on %s", visitors.ErrUnsupported, c.dialect)
	}
	return c.stringColumn(ctx, query)
}

// Columns lists the columns of table in declaration order.
func (c *Connection) Columns(ctx context.Context, table string) ([]string, error) {
	var query string
	switch c.dialect {
	case visitors.Postgres:
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position"
	case visitors.MySQL:
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
	case visitors.SQLite:
		query = "SELECT name FROM pragma_table_info(?)"
	default:
		return nil, fmt.Errorf("%w: schema listing on %s", visitors.ErrUnsupported, c.dialect)
	}
	return c.stringColumn(ctx, query, table)
}

func (c *Connection) stringColumn(ctx context.Context, query string, params ...any) ([]string, error) {
	if c.db == nil {
		return nil, nil
	}
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
