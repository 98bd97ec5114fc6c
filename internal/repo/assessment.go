package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type AssessmentRepo struct {
	q dialect.ExecQuerier
}

var assessmentColumns = []string{
	"id", "created_at", "user_id", "anonymous_id",
	"assessment_type", "total_score", "severity", "raw_answers",
}

// Create inserts a and fills its ID and CreatedAt.
func (r *AssessmentRepo) Create(ctx context.Context, a *Assessment) error {
	id, err := newID()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(a.RawAnswers)
	if err != nil {
		return fmt.Errorf("encode raw answers: %w", err)
	}
	now := time.Now().UTC()

	query, args := pg.Insert(tableAssessments).
		Columns(assessmentColumns...).
		Values(id, now, a.UserID, a.AnonymousID, a.AssessmentType, a.TotalScore, a.Severity, string(raw)).
		Query()
	if _, err := exec(ctx, r.q, query, args); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	return nil
}

// List returns assessments newest first.
func (r *AssessmentRepo) List(ctx context.Context, f Filter) ([]*Assessment, error) {
	sel := pg.Select(assessmentColumns...).
		From(pg.Table(tableAssessments)).
		OrderBy(entsql.Desc("created_at"))
	query, args := applyFilter(sel, f).Query()

	out, err := queryAll(ctx, r.q, query, args, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}

func (r *AssessmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.q, tableAssessments, id)
}

// CountBySeverity groups assessments created at or after since by severity.
func (r *AssessmentRepo) CountBySeverity(ctx context.Context, since time.Time) (map[string]int, error) {
	query, args := pg.Select("severity", entsql.As(entsql.Count("*"), "n")).
		From(pg.Table(tableAssessments)).
		Where(entsql.GTE("created_at", since)).
		GroupBy("severity").
		Query()

	type row struct {
		severity string
		n        int
	}
	rows, err := queryAll(ctx, r.q, query, args, func(rs *entsql.Rows) (row, error) {
		var v row
		err := rs.Scan(&v.severity, &v.n)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("count assessments by severity: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, v := range rows {
		out[v.severity] = v.n
	}
	return out, nil
}

func scanAssessment(rs *entsql.Rows) (*Assessment, error) {
	var (
		a      Assessment
		userID uuid.NullUUID
		anonID sql.NullString
		raw    []byte
	)
	if err := rs.Scan(&a.ID, &a.CreatedAt, &userID, &anonID, &a.AssessmentType, &a.TotalScore, &a.Severity, &raw); err != nil {
		return nil, err
	}
	a.UserID = uuidPtr(userID)
	a.AnonymousID = stringPtr(anonID)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a.RawAnswers); err != nil {
			return nil, fmt.Errorf("decode raw answers: %w", err)
		}
	}
	return &a, nil
}
