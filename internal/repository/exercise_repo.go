package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness_tracker/internal/models"

	"github.com/google/uuid"
)

type ExerciseSQLite struct {
	db *sql.DB
}

func NewExerciseSQLite(db *sql.DB) *ExerciseSQLite { return &ExerciseSQLite{db: db} }

var _ ExerciseStore = (*ExerciseSQLite)(nil)

const (
	exerciseColumns = `id, user_id, name, description, category, work_s, rest_s, series, prep_s,
		duration_s, completed, times_completed, created_at, updated_at`

	insertExerciseSQL = `
		INSERT INTO exercises (` + exerciseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectExerciseSQL = `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = ? AND user_id = ?`

	listExercisesSQL = `SELECT ` + exerciseColumns + ` FROM exercises WHERE user_id = ? ORDER BY created_at ASC`

	historyColumns = `h.id, h.exercise_id, h.occurred_at, h.duration_s, h.completed, h.notes`

	selectHistorySQL = `
		SELECT ` + historyColumns + `
		FROM exercise_history h JOIN exercises e ON e.id = h.exercise_id
		WHERE e.id = ? AND e.user_id = ?
		ORDER BY h.occurred_at ASC
	`

	listUserHistorySQL = `
		SELECT ` + historyColumns + `
		FROM exercise_history h JOIN exercises e ON e.id = h.exercise_id
		WHERE e.user_id = ?
		ORDER BY h.occurred_at ASC
	`

	insertHistorySQL = `
		INSERT INTO exercise_history (id, exercise_id, occurred_at, duration_s, completed, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	markCompletedSQL = `
		UPDATE exercises SET completed = 1, times_completed = times_completed + 1, updated_at = ?
		WHERE id = ?
	`

	resetCompletedSQL = `UPDATE exercises SET completed = 0, updated_at = ? WHERE id = ? AND user_id = ?`

	deleteHistorySQL  = `DELETE FROM exercise_history WHERE exercise_id IN (SELECT id FROM exercises WHERE id = ? AND user_id = ?)`
	deleteExerciseSQL = `DELETE FROM exercises WHERE id = ? AND user_id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (models.Exercise, error) {
	var e models.Exercise
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.Description,
		&e.Category,
		&e.Timer.WorkSeconds,
		&e.Timer.RestSeconds,
		&e.Timer.SeriesCount,
		&e.Timer.PrepSeconds,
		&e.DurationSeconds,
		&e.Completed,
		&e.TimesCompleted,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, err
}

func scanHistory(row rowScanner) (models.HistoryEntry, error) {
	var (
		h     models.HistoryEntry
		notes sql.NullString
	)
	if err := row.Scan(&h.ID, &h.ExerciseID, &h.Date, &h.ActualDurationSeconds, &h.Completed, &notes); err != nil {
		return models.HistoryEntry{}, err
	}
	h.Date = h.Date.UTC()
	h.Notes = notes.String
	return h, nil
}

// Create inserts e and returns its id. A missing id, category or timestamp is filled in.
func (r *ExerciseSQLite) Create(ctx context.Context, e models.Exercise) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Category == "" {
		e.Category = models.DefaultCategory
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, insertExerciseSQL,
		e.ID,
		e.UserID,
		e.Name,
		e.Description,
		e.Category,
		e.Timer.WorkSeconds,
		e.Timer.RestSeconds,
		e.Timer.SeriesCount,
		e.Timer.PrepSeconds,
		e.DurationSeconds,
		e.Completed,
		e.TimesCompleted,
		e.CreatedAt.UTC(),
		e.UpdatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert exercise %q: %w", e.Name, err)
	}
	return e.ID, nil
}

// Get returns the exercise with its history, or (nil, nil) if the user has no such exercise.
func (r *ExerciseSQLite) Get(ctx context.Context, userID int, id string) (*models.Exercise, error) {
	e, err := scanExercise(r.db.QueryRowContext(ctx, selectExerciseSQL, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select exercise %q: %w", id, err)
	}

	history, err := r.queryHistory(ctx, selectHistorySQL, id, userID)
	if err != nil {
		return nil, err
	}
	e.History = history
	return &e, nil
}

// List returns all exercises of the user, oldest first, each with its history attached.
func (r *ExerciseSQLite) List(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := r.db.QueryContext(ctx, listExercisesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	out := make([]models.Exercise, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	history, err := r.queryHistory(ctx, listUserHistorySQL, userID)
	if err != nil {
		return nil, err
	}
	for _, h := range history {
		if i, ok := index[h.ExerciseID]; ok {
			out[i].History = append(out[i].History, h)
		}
	}
	return out, nil
}

// History returns the entries of one exercise ordered by date.
func (r *ExerciseSQLite) History(ctx context.Context, userID int, id string) ([]models.HistoryEntry, error) {
	return r.queryHistory(ctx, selectHistorySQL, id, userID)
}

func (r *ExerciseSQLite) queryHistory(ctx context.Context, q string, args ...any) ([]models.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of patch. A new timer also refreshes the stored duration estimate.
func (r *ExerciseSQLite) Update(ctx context.Context, userID int, id string, patch models.ExercisePatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if t := patch.Timer; t != nil {
		sets = append(sets, "work_s = ?", "rest_s = ?", "series = ?", "prep_s = ?", "duration_s = ?")
		args = append(args, t.WorkSeconds, t.RestSeconds, t.SeriesCount, t.PrepSeconds, t.EstimatedDuration())
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	q := "UPDATE exercises SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update exercise %q: %w", id, err)
	}
	return requireAffected(res, id)
}

// ResetCompleted clears the most-recent-session flag. History and counters are kept.
func (r *ExerciseSQLite) ResetCompleted(ctx context.Context, userID int, id string) error {
	res, err := r.db.ExecContext(ctx, resetCompletedSQL, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("reset exercise %q: %w", id, err)
	}
	return requireAffected(res, id)
}

// AppendHistory records a finished session: it inserts the entry and, in the same transaction,
// bumps times_completed and sets the completed flag.
func (r *ExerciseSQLite) AppendHistory(ctx context.Context, exerciseID string, entry models.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	var notes *string
	if entry.Notes != "" {
		notes = &entry.Notes
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, insertHistorySQL,
		entry.ID,
		exerciseID,
		entry.Date.UTC(),
		entry.ActualDurationSeconds,
		entry.Completed,
		notes,
	); err != nil {
		return fmt.Errorf("insert history for %q: %w", exerciseID, err)
	}

	res, err := tx.ExecContext(ctx, markCompletedSQL, time.Now().UTC(), exerciseID)
	if err != nil {
		return fmt.Errorf("mark exercise %q completed: %w", exerciseID, err)
	}
	if err := requireAffected(res, exerciseID); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the exercise together with its history.
func (r *ExerciseSQLite) Delete(ctx context.Context, userID int, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete exercise: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteHistorySQL, id, userID); err != nil {
		return fmt.Errorf("delete history of %q: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, deleteExerciseSQL, id, userID)
	if err != nil {
		return fmt.Errorf("delete exercise %q: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	return tx.Commit()
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %q: %w", id, err)
	}
	if n == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
