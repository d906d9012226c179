package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/classhub/gateway/types"
)

// FileRepository handles persistence for file records. The file bytes
// themselves live in object storage; only metadata is stored here.
type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `
	f.id, f.filename, f.path, f.mimetype, f.size, f.user_id, f.course_class_id, f.created_at,
	u.id, u.email, u.name, u.last_name, u.role, u.avatar, u.created_at, u.updated_at`

const fileJoin = `
	FROM files f
	JOIN users u ON u.id = f.user_id`

func scanFile(row interface{ Scan(...any) error }) (types.File, error) {
	var file types.File
	var owner types.User
	err := row.Scan(
		&file.ID,
		&file.Filename,
		&file.Path,
		&file.Mimetype,
		&file.Size,
		&file.UserID,
		&file.CourseClassID,
		&file.CreatedAt,
		&owner.ID,
		&owner.Email,
		&owner.Name,
		&owner.LastName,
		&owner.Role,
		&owner.Avatar,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.File{}, ErrNotFound
		}
		return types.File{}, err
	}
	file.User = &owner
	return file, nil
}

func (r *FileRepository) collect(rows *sql.Rows) ([]types.File, error) {
	defer rows.Close()

	var files []types.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) List(ctx context.Context) ([]types.File, error) {
	const query = `SELECT` + fileColumns + fileJoin + `
		ORDER BY f.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *FileRepository) ListByClass(ctx context.Context, classID int) ([]types.File, error) {
	const query = `SELECT` + fileColumns + fileJoin + `
		WHERE f.course_class_id = $1
		ORDER BY f.id`
	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// GetByOwnerAndName finds a file by original filename scoped to its owner.
func (r *FileRepository) GetByOwnerAndName(ctx context.Context, userID int, filename string) (types.File, error) {
	const query = `SELECT` + fileColumns + fileJoin + `
		WHERE f.filename = $1 AND f.user_id = $2
		ORDER BY f.id
		LIMIT 1`
	return scanFile(r.db.QueryRowContext(ctx, query, filename, userID))
}

func (r *FileRepository) Create(ctx context.Context, file types.File) (types.File, error) {
	file.CreatedAt = time.Now()

	const query = `
		INSERT INTO files (filename, path, mimetype, size, user_id, course_class_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		file.Filename,
		file.Path,
		file.Mimetype,
		file.Size,
		file.UserID,
		file.CourseClassID,
		file.CreatedAt,
	).Scan(&file.ID); err != nil {
		return types.File{}, err
	}
	return file, nil
}

func (r *FileRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM files WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
