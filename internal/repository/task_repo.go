package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NetraTech/netra_api/internal/models"
)

// TaskRepository handles data access for staff tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new open task.
func (r *TaskRepository) Create(task *models.Task) error {
	const q = `
        INSERT INTO tasks (title, notes, status, due_date, assignee_id, branch_id, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.QueryRowx(
		task.Title, task.Notes, task.Status, task.DueDate,
		task.AssigneeID, task.BranchID, task.CreatedBy,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

// GetByID returns a task by id.
func (r *TaskRepository) GetByID(id int) (*models.Task, error) {
	const q = `SELECT * FROM tasks WHERE id = $1 LIMIT 1`
	var t models.Task
	if err := r.db.Get(&t, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &t, nil
}

// List returns tasks filtered by status, assignee and branch. Zero values
// disable a filter.
func (r *TaskRepository) List(status string, assigneeID, branchID int) ([]models.Task, error) {
	q := `SELECT * FROM tasks WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if status != "" {
		q += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if assigneeID > 0 {
		q += fmt.Sprintf(" AND assignee_id = $%d", argIdx)
		args = append(args, assigneeID)
		argIdx++
	}
	if branchID > 0 {
		q += fmt.Sprintf(" AND branch_id = $%d", argIdx)
		args = append(args, branchID)
		argIdx++
	}

	q += " ORDER BY due_date NULLS LAST, created_at DESC"

	var tasks []models.Task
	if err := r.db.Select(&tasks, q, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update modifies a task's editable fields.
func (r *TaskRepository) Update(task *models.Task) error {
	const q = `
        UPDATE tasks
        SET title = $2, notes = $3, due_date = $4, assignee_id = $5, branch_id = $6, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`

	return r.db.QueryRowx(q,
		task.ID, task.Title, task.Notes, task.DueDate, task.AssigneeID, task.BranchID,
	).Scan(&task.UpdatedAt)
}

// MarkDone completes an open task. Returns sql.ErrNoRows if the task is
// missing or already done.
func (r *TaskRepository) MarkDone(id int) error {
	const q = `
        UPDATE tasks
        SET status = $2, completed_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND status = $3
        RETURNING id`

	var updated int
	return r.db.Get(&updated, q, id, models.TaskDone, models.TaskOpen)
}

// Delete removes a task.
func (r *TaskRepository) Delete(id int) error {
	const q = `DELETE FROM tasks WHERE id = $1`
	res, err := r.db.Exec(q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
