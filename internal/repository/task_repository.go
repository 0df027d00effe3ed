package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// TaskFilter captures list parameters. OwnerID is mandatory; every query built
// from a filter is restricted to that owner.
type TaskFilter struct {
	OwnerID   string
	Search    *string
	Completed *bool
	Limit     int
	Offset    int
}

// TaskRepository encapsulates task persistence. Every method is scoped by owner.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Update(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, owner_id, title, completed, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (owner_id, title, completed)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.OwnerID,
		task.Title,
		task.Completed,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND owner_id=$2`
	return scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
}

// Update applies the patch in a single statement so a concurrent delete or a
// foreign owner can never be affected.
func (r *taskRepository) Update(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, ErrNotFound
	}
	query := `
        UPDATE tasks SET
            title = COALESCE($3::text, title),
            completed = COALESCE($4::boolean, completed),
            updated_at = CASE WHEN $3::text IS NULL AND $4::boolean IS NULL THEN updated_at ELSE NOW() END
        WHERE id=$1 AND owner_id=$2
        RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, id, ownerID, patch.Title, patch.Completed))
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) || !validID(ownerID) {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	if !validID(filter.OwnerID) {
		return []domain.Task{}, nil
	}
	where, args := buildTaskWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		taskColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) Count(ctx context.Context, filter TaskFilter) (int, error) {
	if !validID(filter.OwnerID) {
		return 0, nil
	}
	where, args := buildTaskWhere(filter)
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE `+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// buildTaskWhere composes the predicate for a filter. The owner clause is
// always first and is not influenced by the optional fields.
func buildTaskWhere(filter TaskFilter) (string, []any) {
	args := []any{filter.OwnerID}
	clauses := []string{"owner_id=$1"}

	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf(`LOWER(title) LIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		clauses = append(clauses, fmt.Sprintf("completed=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	result := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
