package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ingenium21/todo-service/internal/models"
	"github.com/ingenium21/todo-service/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and todos.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			phone_number TEXT NOT NULL DEFAULT '',
			hashed_password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS todos (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority INT NOT NULL,
			complete BOOLEAN NOT NULL DEFAULT FALSE,
			owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS todos_owner_id_idx ON todos (owner_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (username, email, first_name, last_name, role, is_active, phone_number, hashed_password)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, username, email, first_name, last_name, role, is_active, phone_number, hashed_password, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName,
		user.Role, user.IsActive, user.PhoneNumber, user.HashedPassword)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	const query = `
	SELECT id, username, email, first_name, last_name, role, is_active, phone_number, hashed_password, created_at
	FROM users WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `
	SELECT id, username, email, first_name, last_name, role, is_active, phone_number, hashed_password, created_at
	FROM users WHERE username = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// UpdatePassword replaces the stored password hash for the user.
func (s *Store) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return s.exec(ctx, `UPDATE users SET hashed_password = $1 WHERE id = $2;`, hashedPassword, id)
}

// UpdatePhone overwrites the user's phone number.
func (s *Store) UpdatePhone(ctx context.Context, id int64, phoneNumber string) error {
	return s.exec(ctx, `UPDATE users SET phone_number = $1 WHERE id = $2;`, phoneNumber, id)
}

// ListTodos returns every todo owned by ownerID.
func (s *Store) ListTodos(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	const query = `
	SELECT id, title, description, priority, complete, owner_id
	FROM todos WHERE owner_id = $1;
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTodos(rows)
}

// GetTodo fetches a single todo owned by ownerID. A todo held by another
// owner is indistinguishable from a missing one.
func (s *Store) GetTodo(ctx context.Context, ownerID, id int64) (models.Todo, error) {
	const query = `
	SELECT id, title, description, priority, complete, owner_id
	FROM todos WHERE id = $1 AND owner_id = $2;
	`
	return scanTodo(s.pool.QueryRow(ctx, query, id, ownerID))
}

// CreateTodo inserts a todo. The caller sets OwnerID from the acting
// identity before this call; nothing client-supplied reaches it.
func (s *Store) CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	const query = `
	INSERT INTO todos (title, description, priority, complete, owner_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, title, description, priority, complete, owner_id;
	`
	var created models.Todo
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, todo.Title, todo.Description, todo.Priority, todo.Complete, todo.OwnerID)
		var scanErr error
		created, scanErr = scanTodo(row)
		return scanErr
	})
	if err != nil {
		return models.Todo{}, err
	}
	return created, nil
}

// UpdateTodo fully replaces the mutable fields of a todo under ownerID.
func (s *Store) UpdateTodo(ctx context.Context, ownerID, id int64, todo models.Todo) error {
	const query = `
	UPDATE todos SET title = $1, description = $2, priority = $3, complete = $4
	WHERE id = $5 AND owner_id = $6;
	`
	return s.exec(ctx, query, todo.Title, todo.Description, todo.Priority, todo.Complete, id, ownerID)
}

// DeleteTodo removes a todo under ownerID.
func (s *Store) DeleteTodo(ctx context.Context, ownerID, id int64) error {
	return s.exec(ctx, `DELETE FROM todos WHERE id = $1 AND owner_id = $2;`, id, ownerID)
}

// ListAllTodos returns every todo regardless of owner.
func (s *Store) ListAllTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, description, priority, complete, owner_id FROM todos;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTodos(rows)
}

// DeleteAnyTodo removes a todo without an ownership filter.
func (s *Store) DeleteAnyTodo(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM todos WHERE id = $1;`, id)
}

// exec runs a single mutation inside its own transaction and maps a zero
// row count to ErrNotFound. Each call is one unit of work: it commits or
// rolls back before returning on every path.
func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.IsActive, &user.PhoneNumber, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanTodo(row pgx.Row) (models.Todo, error) {
	var todo models.Todo
	err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Priority, &todo.Complete, &todo.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Todo{}, storage.ErrNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

func collectTodos(rows pgx.Rows) ([]models.Todo, error) {
	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Priority, &todo.Complete, &todo.OwnerID); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}
