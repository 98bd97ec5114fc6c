package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type UserRepo struct {
	q      dialect.ExecQuerier
	client *Client
}

var userColumns = []string{"id", "created_at", "email", "name", "password_hash"}

// Create inserts u. It returns ErrDuplicate when the email is taken.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	id, err := newID()
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	query, args := pg.Insert(tableUsers).
		Columns(userColumns...).
		Values(id, now, u.Email, u.Name, u.PasswordHash).
		Query()
	if _, err := exec(ctx, r.q, query, args); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID = id
	u.CreatedAt = now
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, entsql.EQ("email", email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, entsql.EQ("id", id))
}

func (r *UserRepo) getOne(ctx context.Context, p *entsql.Predicate) (*User, error) {
	query, args := pg.Select(userColumns...).
		From(pg.Table(tableUsers)).
		Where(p).
		Query()

	out, err := queryAll(ctx, r.q, query, args, scanUser)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}

// ListWithCounts returns every user newest first with per-kind record counts.
func (r *UserRepo) ListWithCounts(ctx context.Context) ([]*UserSummary, error) {
	query, args := pg.Select(userColumns...).
		From(pg.Table(tableUsers)).
		OrderBy(entsql.Desc("created_at")).
		Query()

	users, err := queryAll(ctx, r.q, query, args, scanUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	assessments, err := r.countByUser(ctx, tableAssessments)
	if err != nil {
		return nil, err
	}
	bookings, err := r.countByUser(ctx, tableBookings)
	if err != nil {
		return nil, err
	}
	moods, err := r.countByUser(ctx, tableMoodLogs)
	if err != nil {
		return nil, err
	}

	out := make([]*UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, &UserSummary{
			User: *u,
			Counts: UserCounts{
				Assessments: assessments[u.ID],
				Bookings:    bookings[u.ID],
				MoodLogs:    moods[u.ID],
			},
		})
	}
	return out, nil
}

func (r *UserRepo) countByUser(ctx context.Context, table string) (map[uuid.UUID]int, error) {
	query, args := pg.Select("user_id", entsql.As(entsql.Count("*"), "n")).
		From(pg.Table(table)).
		Where(entsql.NotNull("user_id")).
		GroupBy("user_id").
		Query()

	type row struct {
		id uuid.UUID
		n  int
	}
	rows, err := queryAll(ctx, r.q, query, args, func(rs *entsql.Rows) (row, error) {
		var v row
		err := rs.Scan(&v.id, &v.n)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("count %s by user: %w", table, err)
	}

	out := make(map[uuid.UUID]int, len(rows))
	for _, v := range rows {
		out[v.id] = v.n
	}
	return out, nil
}

// DeleteCascade removes the user's bookings, assessments and mood logs and
// then the user, in one transaction.
func (r *UserRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.client.withTx(ctx, func(tx dialect.ExecQuerier) error {
		for _, table := range []string{tableBookings, tableAssessments, tableMoodLogs} {
			query, args := pg.Delete(table).Where(entsql.EQ("user_id", id)).Query()
			if _, err := exec(ctx, tx, query, args); err != nil {
				return fmt.Errorf("delete %s for user: %w", table, err)
			}
		}
		return deleteByID(ctx, tx, tableUsers, id)
	})
}

func scanUser(rs *entsql.Rows) (*User, error) {
	var u User
	if err := rs.Scan(&u.ID, &u.CreatedAt, &u.Email, &u.Name, &u.PasswordHash); err != nil {
		return nil, err
	}
	return &u, nil
}
