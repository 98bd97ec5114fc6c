// Package repo persists users, assessments, mood logs and bookings in
// PostgreSQL. Queries are built with ent's dialect SQL builder and executed on
// an ent driver.
package repo

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// pg builds PostgreSQL statements.
var pg = entsql.Dialect(dialect.Postgres)

type Client struct {
	drv *entsql.Driver

	User       *UserRepo
	Assessment *AssessmentRepo
	MoodLog    *MoodLogRepo
	Booking    *BookingRepo
}

func NewClient(drv *entsql.Driver) *Client {
	c := &Client{drv: drv}
	c.User = &UserRepo{q: drv, client: c}
	c.Assessment = &AssessmentRepo{q: drv}
	c.MoodLog = &MoodLogRepo{q: drv}
	c.Booking = &BookingRepo{q: drv}
	return c
}

func (c *Client) Driver() *entsql.Driver { return c.drv }

func (c *Client) Close() error { return c.drv.Close() }

// Ping checks that the database answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.drv.DB().PingContext(ctx)
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (c *Client) withTx(ctx context.Context, fn func(q dialect.ExecQuerier) error) error {
	tx, err := c.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w: rollback: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func exec(ctx context.Context, q dialect.ExecQuerier, query string, args []any) (int64, error) {
	var res sql.Result
	if err := q.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryAll[T any](ctx context.Context, q dialect.ExecQuerier, query string, args []any, scan func(*entsql.Rows) (T, error)) ([]T, error) {
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteByID(ctx context.Context, q dialect.ExecQuerier, table string, id uuid.UUID) error {
	query, args := pg.Delete(table).Where(entsql.EQ("id", id)).Query()
	n, err := exec(ctx, q, query, args)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// applyFilter narrows sel to one submitter and applies the row limit.
func applyFilter(sel *entsql.Selector, f Filter) *entsql.Selector {
	switch {
	case f.UserID != nil:
		sel.Where(entsql.EQ("user_id", *f.UserID))
	case f.AnonymousID != nil:
		sel.Where(entsql.EQ("anonymous_id", *f.AnonymousID))
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	return sel
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}
