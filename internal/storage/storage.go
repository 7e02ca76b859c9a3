package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"voiceverse-signup/internal/models"
)

// ErrNotFound is returned when no signup matches
var ErrNotFound = errors.New("signup not found")

const schema = `
CREATE TABLE IF NOT EXISTS signups (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	email           TEXT NOT NULL,
	first_name      TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	role            TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	interests       TEXT NOT NULL DEFAULT '[]',
	referral_source TEXT NOT NULL DEFAULT '',
	newsletter      INTEGER NOT NULL DEFAULT 0,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL,
	UNIQUE (kind, email)
);
CREATE INDEX IF NOT EXISTS signups_created_at ON signups (created_at);

CREATE TABLE IF NOT EXISTS contact_messages (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (email, subject, message)
);
CREATE INDEX IF NOT EXISTS contact_messages_created_at ON contact_messages (created_at);
`

const columns = `id, kind, email, first_name, last_name, role, company, interests, referral_source, newsletter, created_at`

const contactColumns = `id, name, email, subject, message, created_at`

type Storage struct {
	db *sql.DB
}

// NewStorage opens (or creates) the SQLite signup database at filePath
func NewStorage(filePath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// AddSignup adds a new signup or updates the existing one for the same kind
// and email. The first creation time and ID are kept on update. changed
// is false when an identical signup was already stored.
func (s *Storage) AddSignup(ctx context.Context, signup models.Signup) (saved models.Signup, changed bool, err error) {
	if signup.Kind == "" {
		return models.Signup{}, false, fmt.Errorf("signup kind is required")
	}
	if signup.Email == "" {
		return models.Signup{}, false, fmt.Errorf("signup email is required")
	}
	if signup.ID == "" {
		signup.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if signup.CreatedAt.IsZero() {
		signup.CreatedAt = now
	}
	signup.CreatedAt = signup.CreatedAt.UTC()
	if signup.Interests == nil {
		signup.Interests = []string{}
	}

	interests, err := json.Marshal(signup.Interests)
	if err != nil {
		return models.Signup{}, false, fmt.Errorf("failed to marshal interests: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO signups (`+columns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, email) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			role = excluded.role,
			company = excluded.company,
			interests = excluded.interests,
			referral_source = excluded.referral_source,
			newsletter = excluded.newsletter,
			updated_at = excluded.updated_at
		WHERE first_name IS NOT excluded.first_name
			OR last_name IS NOT excluded.last_name
			OR role IS NOT excluded.role
			OR company IS NOT excluded.company
			OR interests IS NOT excluded.interests
			OR referral_source IS NOT excluded.referral_source
			OR newsletter IS NOT excluded.newsletter`,
		signup.ID, signup.Kind, signup.Email, signup.FirstName, signup.LastName,
		signup.Role, signup.Company, string(interests), signup.ReferralSource,
		signup.Newsletter, signup.CreatedAt, now,
	)
	if err != nil {
		return models.Signup{}, false, fmt.Errorf("failed to save signup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Signup{}, false, fmt.Errorf("failed to read save result: %w", err)
	}

	saved, err = s.GetSignup(ctx, signup.Kind, signup.Email)
	return saved, affected > 0, err
}

// GetSignup retrieves a signup by kind and email
func (s *Storage) GetSignup(ctx context.Context, kind models.SignupKind, email string) (models.Signup, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM signups WHERE kind = ? AND email = ?`, kind, email)
	signup, err := scanSignup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Signup{}, ErrNotFound
	}
	return signup, err
}

// GetAllSignups returns all signups, newest first
func (s *Storage) GetAllSignups(ctx context.Context) ([]models.Signup, error) {
	return s.query(ctx, `SELECT `+columns+` FROM signups ORDER BY created_at DESC, id`)
}

// GetSignupsByKind returns signups of one kind, newest first
func (s *Storage) GetSignupsByKind(ctx context.Context, kind models.SignupKind) ([]models.Signup, error) {
	return s.query(ctx, `SELECT `+columns+` FROM signups WHERE kind = ? ORDER BY created_at DESC, id`, kind)
}

// LatestSignups returns at most limit signups, newest first
func (s *Storage) LatestSignups(ctx context.Context, limit int) ([]models.Signup, error) {
	return s.query(ctx, `SELECT `+columns+` FROM signups ORDER BY created_at DESC, id LIMIT ?`, limit)
}

// CountByKind returns the number of signups per kind
func (s *Storage) CountByKind(ctx context.Context) (map[models.SignupKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM signups GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count signups: %w", err)
	}
	defer rows.Close()

	counts := map[models.SignupKind]int{
		models.KindNewsletter: 0,
		models.KindWaitlist:   0,
	}
	for rows.Next() {
		var kind models.SignupKind
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// AddContactMessage stores a contact form message. Resending the same message
// from the same address stores nothing and reports changed as false.
func (s *Storage) AddContactMessage(ctx context.Context, msg models.ContactMessage) (saved models.ContactMessage, changed bool, err error) {
	if msg.Email == "" {
		return models.ContactMessage{}, false, fmt.Errorf("contact email is required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email, subject, message) DO NOTHING`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt,
	)
	if err != nil {
		return models.ContactMessage{}, false, fmt.Errorf("failed to save contact message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.ContactMessage{}, false, fmt.Errorf("failed to read save result: %w", err)
	}
	if affected > 0 {
		return msg, true, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages WHERE email = ? AND subject = ? AND message = ?`,
		msg.Email, msg.Subject, msg.Message)
	saved, err = scanContactMessage(row)
	return saved, false, err
}

// LatestContactMessages returns at most limit messages, newest first
func (s *Storage) LatestContactMessages(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	var result []models.ContactMessage
	for rows.Next() {
		msg, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contact messages: %w", err)
	}
	return result, nil
}

// CountContactMessages returns the number of stored contact messages
func (s *Storage) CountContactMessages(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return n, nil
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]models.Signup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	var result []models.Signup
	for rows.Next() {
		signup, err := scanSignup(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, signup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read signups: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSignup(row scanner) (models.Signup, error) {
	var signup models.Signup
	var interests string
	err := row.Scan(
		&signup.ID, &signup.Kind, &signup.Email, &signup.FirstName, &signup.LastName,
		&signup.Role, &signup.Company, &interests, &signup.ReferralSource,
		&signup.Newsletter, &signup.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return signup, err
		}
		return signup, fmt.Errorf("failed to scan signup: %w", err)
	}
	if err := json.Unmarshal([]byte(interests), &signup.Interests); err != nil {
		return signup, fmt.Errorf("failed to unmarshal interests: %w", err)
	}
	return signup, nil
}

func scanContactMessage(row scanner) (models.ContactMessage, error) {
	var msg models.ContactMessage
	err := row.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.CreatedAt)
	if err != nil {
		return msg, fmt.Errorf("failed to scan contact message: %w", err)
	}
	return msg, nil
}
