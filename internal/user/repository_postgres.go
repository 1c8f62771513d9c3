package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

const (
	listUsersQuery = `
		SELECT id, first_name, last_name, email, date_of_birth, address, phone_number
		FROM users
		ORDER BY id
	`
	getUserByIDQuery = `
		SELECT id, first_name, last_name, email, date_of_birth, address, phone_number
		FROM users
		WHERE id = $1
	`
	listUsersByBirthQuery = `
		SELECT id, first_name, last_name, email, date_of_birth, address, phone_number
		FROM users
		WHERE date_of_birth BETWEEN $1 AND $2
		ORDER BY id
	`

	insertUserQuery = `
		INSERT INTO users (first_name, last_name, email, date_of_birth, address, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	updateUserQuery = `
		UPDATE users
		SET first_name = $1,
			last_name = $2,
			email = $3,
			date_of_birth = $4,
			address = $5,
			phone_number = $6
		WHERE id = $7
	`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// conn returns the transaction bound to ctx, if any, or the pool.
func (r *PostgresRepository) conn(ctx context.Context) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

func (r *PostgresRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, error) {
	row := r.conn(ctx).QueryRowContext(ctx, getUserByIDQuery, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, &NotFoundError{ID: id}
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]User, error) {
	return r.list(ctx, listUsersQuery)
}

func (r *PostgresRepository) FindByDateOfBirthBetween(ctx context.Context, from, to Date) ([]User, error) {
	return r.list(ctx, listUsersByBirthQuery, from, to)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *PostgresRepository) Save(ctx context.Context, user User) (User, error) {
	if user.ID == 0 {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *PostgresRepository) insert(ctx context.Context, user User) (User, error) {
	var id int64
	err := r.conn(ctx).QueryRowContext(
		ctx,
		insertUserQuery,
		user.FirstName,
		user.LastName,
		user.Email,
		user.DateOfBirth,
		optional(user.Address),
		optional(user.PhoneNumber),
	).Scan(&id)
	if err != nil {
		return User{}, mapWriteError(err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) update(ctx context.Context, user User) (User, error) {
	result, err := r.conn(ctx).ExecContext(
		ctx,
		updateUserQuery,
		user.FirstName,
		user.LastName,
		user.Email,
		user.DateOfBirth,
		optional(user.Address),
		optional(user.PhoneNumber),
		user.ID,
	)
	if err != nil {
		return User{}, mapWriteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, &NotFoundError{ID: user.ID}
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, user User) error {
	result, err := r.conn(ctx).ExecContext(ctx, deleteUserQuery, user.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{ID: user.ID}
	}

	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var address sql.NullString
	var phone sql.NullString

	if err := scanner.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.DateOfBirth,
		&address,
		&phone,
	); err != nil {
		return User{}, err
	}

	if address.Valid {
		user.Address = &address.String
	}
	if phone.Valid {
		user.PhoneNumber = &phone.String
	}

	return user, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrEmailExists
	}
	return err
}
