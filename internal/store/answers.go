package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AnswerRecord is one graded submission in the local answer log.
type AnswerRecord struct {
	SessionID     string
	QuestionText  string
	UserAnswer    string
	CorrectAnswer string
	Correct       bool
	TimeMs        int
	Difficulty    int
	CreatedAt     time.Time
}

// AnswerRepo appends graded submissions to the local answer log. The log is
// purely informational; the server owns all authoritative history.
type AnswerRepo struct {
	db *sql.DB
}

// Append records one graded answer.
func (r *AnswerRepo) Append(ctx context.Context, rec AnswerRecord) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answer_log (session_id, question_text, user_answer, correct_answer, correct, time_ms, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.QuestionText, rec.UserAnswer, rec.CorrectAnswer,
		boolToInt(rec.Correct), rec.TimeMs, rec.Difficulty, created.Unix())
	if err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// Recent returns up to limit answers, newest first.
func (r *AnswerRepo) Recent(ctx context.Context, limit int) ([]AnswerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, question_text, user_answer, correct_answer, correct, time_ms, difficulty, created_at
		FROM answer_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var rec AnswerRecord
		var correct int
		var created int64
		if err := rows.Scan(&rec.SessionID, &rec.QuestionText, &rec.UserAnswer,
			&rec.CorrectAnswer, &correct, &rec.TimeMs, &rec.Difficulty, &created); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Correct = correct != 0
		rec.CreatedAt = time.Unix(created, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
