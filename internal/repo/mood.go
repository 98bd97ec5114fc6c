package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type MoodLogRepo struct {
	q dialect.ExecQuerier
}

var moodColumns = []string{"id", "created_at", "user_id", "anonymous_id", "mood", "note"}

func (r *MoodLogRepo) Create(ctx context.Context, m *MoodLog) error {
	id, err := newID()
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	query, args := pg.Insert(tableMoodLogs).
		Columns(moodColumns...).
		Values(id, now, m.UserID, m.AnonymousID, m.Mood, m.Note).
		Query()
	if _, err := exec(ctx, r.q, query, args); err != nil {
		return fmt.Errorf("insert mood log: %w", err)
	}

	m.ID = id
	m.CreatedAt = now
	return nil
}

// List returns mood logs newest first.
func (r *MoodLogRepo) List(ctx context.Context, f Filter) ([]*MoodLog, error) {
	sel := pg.Select(moodColumns...).
		From(pg.Table(tableMoodLogs)).
		OrderBy(entsql.Desc("created_at"))
	query, args := applyFilter(sel, f).Query()

	out, err := queryAll(ctx, r.q, query, args, scanMoodLog)
	if err != nil {
		return nil, fmt.Errorf("list mood logs: %w", err)
	}
	return out, nil
}

func scanMoodLog(rs *entsql.Rows) (*MoodLog, error) {
	var (
		m      MoodLog
		userID uuid.NullUUID
		anonID sql.NullString
		note   sql.NullString
	)
	if err := rs.Scan(&m.ID, &m.CreatedAt, &userID, &anonID, &m.Mood, &note); err != nil {
		return nil, err
	}
	m.UserID = uuidPtr(userID)
	m.AnonymousID = stringPtr(anonID)
	m.Note = stringPtr(note)
	return &m, nil
}
