package repo

import (
	"context"
	"time"

	dom "todoweb/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	Update(ctx context.Context, id int64, patch dom.Todo) (dom.Todo, error)
	SoftDelete(ctx context.Context, id int64) error
	ToggleResolved(ctx context.Context, id int64) (dom.Todo, error)
	Search(ctx context.Context, q string) ([]dom.Todo, error)
	Overdue(ctx context.Context) ([]dom.Todo, error)
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, due_date)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, resolved, due_date, created_at, updated_at, deleted_at`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.Title, t.Description, t.DueDate).Scan(
		&out.ID, &out.Title, &out.Description, &out.Resolved, &out.DueDate,
		&out.CreatedAt, &out.UpdatedAt, &out.DeletedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query := `
		SELECT id, title, description, resolved, due_date, created_at, updated_at, deleted_at
		FROM todos WHERE id = $1 AND deleted_at IS NULL`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Resolved, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `
		SELECT id, title, description, resolved, due_date, created_at, updated_at, deleted_at
		FROM todos WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Resolved, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Update(ctx context.Context, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos SET title = $2, description = $3, due_date = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, title, description, resolved, due_date, created_at, updated_at, deleted_at`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, patch.Title, patch.Description, patch.DueDate).Scan(
		&t.ID, &t.Title, &t.Description, &t.Resolved, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx, `UPDATE todos SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// ToggleResolved flips the flag in a single statement so concurrent toggles
// never read a stale value.
func (r *PGTodoRepo) ToggleResolved(ctx context.Context, id int64) (dom.Todo, error) {
	query := `
		UPDATE todos SET resolved = NOT resolved, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, title, description, resolved, due_date, created_at, updated_at, deleted_at`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Resolved, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) Search(ctx context.Context, q string) ([]dom.Todo, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT id, title, description, resolved, due_date, created_at, updated_at, deleted_at
		FROM todos WHERE deleted_at IS NULL AND (title ILIKE $1 OR description ILIKE $1)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Resolved, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Overdue(ctx context.Context) ([]dom.Todo, error) {
	query := `
		SELECT id, title, description, resolved, due_date, created_at, updated_at, deleted_at
		FROM todos WHERE deleted_at IS NULL AND resolved = FALSE AND due_date IS NOT NULL AND due_date < NOW()
		ORDER BY due_date ASC, id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Resolved, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
