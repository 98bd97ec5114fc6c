package repo

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const tableMigrations = "schema_migrations"

// Migration is one embedded SQL file.
type Migration struct {
	Version string
	SQL     string
}

// Migrations lists the embedded migrations in lexical order.
func Migrations() ([]Migration, error) {
	return loadMigrations(migrationFS)
}

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		version := strings.TrimSuffix(strings.TrimPrefix(name, "migrations/"), ".sql")
		out = append(out, Migration{Version: version, SQL: string(body)})
	}
	return out, nil
}

// Migrate applies pending migrations, each in its own transaction, and
// returns the versions it applied.
func (c *Client) Migrate(ctx context.Context) ([]string, error) {
	if err := c.drv.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+tableMigrations+` (
		version    text        PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`, []any{}, nil); err != nil {
		return nil, fmt.Errorf("create %s: %w", tableMigrations, err)
	}

	query, args := pg.Select("version").From(pg.Table(tableMigrations)).Query()
	done, err := queryAll(ctx, c.drv, query, args, func(rs *entsql.Rows) (string, error) {
		var v string
		err := rs.Scan(&v)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	all, err := Migrations()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range all {
		if applied[m.Version] {
			continue
		}
		err := c.withTx(ctx, func(tx dialect.ExecQuerier) error {
			if err := tx.Exec(ctx, m.SQL, []any{}, nil); err != nil {
				return err
			}
			q, a := pg.Insert(tableMigrations).
				Columns("version", "applied_at").
				Values(m.Version, time.Now().UTC()).
				Query()
			return tx.Exec(ctx, q, a, nil)
		})
		if err != nil {
			return ran, fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		ran = append(ran, m.Version)
	}
	return ran, nil
}
