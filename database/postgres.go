package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ardu.app/feed/log"
	"ardu.app/feed/models"
)

// ConnectDB opens and pings a Postgres connection.
func ConnectDB(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	log.Info.Println("Connected to Postgres")
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	username TEXT,
	email TEXT NOT NULL UNIQUE,
	mobile_number TEXT,
	image_url TEXT,
	password TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'member',
	approval_status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS posts (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	caption TEXT NOT NULL DEFAULT '',
	content_url TEXT,
	content_type TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS posts_status_created_idx ON posts (status, created_at DESC);

CREATE TABLE IF NOT EXISTS reactions (
	id BIGSERIAL PRIMARY KEY,
	post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (post_id, user_id)
);

CREATE TABLE IF NOT EXISTS comments (
	id BIGSERIAL PRIMARY KEY,
	post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS shares (
	id BIGSERIAL PRIMARY KEY,
	post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS archived_posts (
	id BIGSERIAL PRIMARY KEY,
	original_post_id BIGINT NOT NULL,
	user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	caption TEXT,
	content_url TEXT,
	content_type TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// PostgresStore implements Store on lib/pq.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error { return s.db.Close() }

// mapErr turns driver errors into the package sentinels.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return ErrEmailTaken
		case "foreign_key_violation":
			return ErrNotFound
		}
	}
	return err
}

const userColumns = `id, name, COALESCE(username, ''), email, COALESCE(mobile_number, ''),
	COALESCE(image_url, ''), role, approval_status, created_at`

func scanUser(row interface{ Scan(...any) error }, extra ...any) (models.User, error) {
	var u models.User
	dest := append([]any{&u.ID, &u.Name, &u.Username, &u.Email, &u.MobileNumber,
		&u.AvatarURL, &u.Role, &u.Approval, &u.CreatedAt}, extra...)
	err := row.Scan(dest...)
	return u, err
}

func (s *PostgresStore) CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, username, email, mobile_number, image_url, password, role, approval_status)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
		RETURNING `+userColumns,
		u.Name, u.Username, u.Email, u.MobileNumber, u.AvatarURL, passwordHash, u.Role, u.Approval)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return created, nil
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var hash string
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+`, password FROM users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row, &hash)
	if err != nil {
		return models.User{}, "", mapErr(err)
	}
	return u, hash, nil
}

func (s *PostgresStore) UserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func (s *PostgresStore) ApproveUser(ctx context.Context, id int64) error {
	return s.setApproval(ctx, id, models.ApprovalApproved)
}

func (s *PostgresStore) RejectUser(ctx context.Context, id int64) error {
	return s.setApproval(ctx, id, models.ApprovalRejected)
}

func (s *PostgresStore) setApproval(ctx context.Context, id int64, status models.ApprovalStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET approval_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) Users(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE $1::text = '' OR approval_status = $1
		ORDER BY id`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, req models.UserUpdateRequest) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			username = COALESCE(NULLIF($3, ''), username),
			mobile_number = COALESCE(NULLIF($4, ''), mobile_number),
			image_url = COALESCE(NULLIF($5, ''), image_url)
		WHERE id = $1
		RETURNING `+userColumns,
		id, req.Name, req.Username, req.MobileNumber, req.AvatarURL)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapErr(err)
	}
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// postSelect renders posts with live counters. $1 is always the viewer id.
const postSelect = `
	SELECT p.id, p.caption, COALESCE(p.content_url, ''), COALESCE(p.content_type, ''),
	       p.status, p.created_at,
	       u.id, u.name, COALESCE(u.username, ''), COALESCE(u.image_url, ''), u.role,
	       (SELECT COUNT(*) FROM reactions WHERE post_id = p.id) AS reaction_count,
	       (SELECT COUNT(*) FROM comments WHERE post_id = p.id) AS comment_count,
	       (SELECT COUNT(*) FROM shares WHERE post_id = p.id) AS share_count,
	       COALESCE((SELECT type FROM reactions WHERE post_id = p.id AND user_id = $1), '') AS my_reaction
	FROM posts p
	JOIN users u ON p.user_id = u.id`

func scanPost(row interface{ Scan(...any) error }) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Caption, &p.MediaURL, &p.MediaType, &p.Status, &p.CreatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Username, &p.Author.AvatarURL, &p.Author.Role,
		&p.ReactionCount, &p.CommentCount, &p.ShareCount, &p.MyReaction)
	return p, err
}

func (s *PostgresStore) queryPosts(ctx context.Context, where string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+" "+where+" ORDER BY p.created_at DESC, p.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) CreatePost(ctx context.Context, authorID int64, req models.PostRequest) (models.Post, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, caption, content_url, content_type, status)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id`,
		authorID, req.Caption, req.MediaURL, models.MediaTypeOf(req.MediaURL), models.StatusPending).Scan(&id)
	if err != nil {
		return models.Post{}, mapErr(err)
	}
	return s.PostByID(ctx, id, authorID)
}

func (s *PostgresStore) PublicPosts(ctx context.Context, viewerID int64) ([]models.Post, error) {
	return s.queryPosts(ctx, "WHERE p.status = $2", viewerID, models.StatusApproved)
}

func (s *PostgresStore) PostsByUser(ctx context.Context, userID, viewerID int64) ([]models.Post, error) {
	return s.queryPosts(ctx, "WHERE p.user_id = $2", viewerID, userID)
}

func (s *PostgresStore) PendingPosts(ctx context.Context) ([]models.Post, error) {
	return s.queryPosts(ctx, "WHERE p.status = $2", 0, models.StatusPending)
}

func (s *PostgresStore) PostByID(ctx context.Context, id, viewerID int64) (models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+" WHERE p.id = $2", viewerID, id))
	if err != nil {
		return models.Post{}, mapErr(err)
	}
	return p, nil
}

func (s *PostgresStore) SetPostStatus(ctx context.Context, id int64, status models.PostStatus) (models.Post, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET status = $1 WHERE id = $2 AND status = $3`,
		status, id, models.StatusPending)
	if err != nil {
		return models.Post{}, err
	}
	if err := requireRow(res); err != nil {
		if _, lookupErr := s.PostByID(ctx, id, 0); lookupErr != nil {
			return models.Post{}, lookupErr
		}
		return models.Post{}, ErrNotPending
	}
	return s.PostByID(ctx, id, 0)
}

func (s *PostgresStore) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) SetReaction(ctx context.Context, postID, userID int64, r models.Reaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reactions (post_id, user_id, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO UPDATE SET type = EXCLUDED.type, created_at = NOW()`,
		postID, userID, r)
	return mapErr(err)
}

func (s *PostgresStore) ClearReaction(ctx context.Context, postID, userID int64) error {
	if _, err := s.PostByID(ctx, postID, 0); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM reactions WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

func (s *PostgresStore) count(ctx context.Context, table string, postID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

func pageBounds(page, size int) (int, int) {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	return page, size
}

func (s *PostgresStore) Reactions(ctx context.Context, postID int64, page, size int) (models.Page[models.ReactionRecord], error) {
	if _, err := s.PostByID(ctx, postID, 0); err != nil {
		return models.Page[models.ReactionRecord]{}, err
	}
	page, size = pageBounds(page, size)
	total, err := s.count(ctx, "reactions", postID)
	if err != nil {
		return models.Page[models.ReactionRecord]{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.post_id, r.user_id, u.name, r.type, r.created_at
		FROM reactions r
		JOIN users u ON r.user_id = u.id
		WHERE r.post_id = $1
		ORDER BY r.id
		LIMIT $2 OFFSET $3`, postID, size, page*size)
	if err != nil {
		return models.Page[models.ReactionRecord]{}, err
	}
	defer rows.Close()

	out := []models.ReactionRecord{}
	for rows.Next() {
		var rec models.ReactionRecord
		if err := rows.Scan(&rec.ID, &rec.PostID, &rec.UserID, &rec.UserName, &rec.Type, &rec.CreatedAt); err != nil {
			return models.Page[models.ReactionRecord]{}, err
		}
		out = append(out, rec)
	}
	return pageOf(out, page, size, total), rows.Err()
}

func pageOf[T any](content []T, page, size, total int) models.Page[T] {
	return models.Page[T]{
		Content:       content,
		Number:        page,
		Size:          size,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
	}
}

func (s *PostgresStore) AddComment(ctx context.Context, postID, userID int64, text string) (models.Comment, error) {
	c := models.Comment{PostID: postID, AuthorID: userID, Text: text}
	err := s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO comments (post_id, user_id, text) VALUES ($1, $2, $3)
			RETURNING id, user_id, created_at
		)
		SELECT i.id, u.name, i.created_at FROM inserted i JOIN users u ON u.id = i.user_id`,
		postID, userID, text).Scan(&c.ID, &c.AuthorName, &c.CreatedAt)
	if err != nil {
		return models.Comment{}, mapErr(err)
	}
	return c, nil
}

func (s *PostgresStore) Comments(ctx context.Context, postID int64, page, size int) (models.Page[models.Comment], error) {
	if _, err := s.PostByID(ctx, postID, 0); err != nil {
		return models.Page[models.Comment]{}, err
	}
	page, size = pageBounds(page, size)
	total, err := s.count(ctx, "comments", postID)
	if err != nil {
		return models.Page[models.Comment]{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, u.name, c.text, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
		LIMIT $2 OFFSET $3`, postID, size, page*size)
	if err != nil {
		return models.Page[models.Comment]{}, err
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return models.Page[models.Comment]{}, err
		}
		out = append(out, c)
	}
	return pageOf(out, page, size, total), rows.Err()
}

func (s *PostgresStore) AddShare(ctx context.Context, postID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO shares (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	return mapErr(err)
}

func (s *PostgresStore) ArchiveExpired(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO archived_posts (original_post_id, user_id, caption, content_url, content_type, created_at)
		SELECT id, user_id, caption, content_url, content_type, created_at
		FROM posts
		WHERE created_at < $1`, cutoff); err != nil {
		return 0, fmt.Errorf("archive copy: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}
