package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/lms-portal/internal/theme"
)

type User struct {
	ID          string    `db:"id"`
	Provider    string    `db:"provider"`
	Subject     string    `db:"subject"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	Theme       string    `db:"theme"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Initials is the avatar text on the profile card.
func (u *User) Initials() string {
	var out []rune
	start := true
	for _, r := range u.DisplayName {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert creates or refreshes a user record on login. Returning users keep
// their role and theme.
func (s *UserStore) Upsert(ctx context.Context, provider, subject, email, displayName string) (*User, error) {
	now := time.Now().UTC()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.GetContext(ctx, &id, tx.Rebind(`SELECT id FROM users WHERE provider = ? AND subject = ?`), provider, subject)
	switch err = notFound(err); err {
	case nil:
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET email = ?, display_name = ?, updated_at = ? WHERE id = ?`),
			email, displayName, now, id)
	case ErrNotFound:
		id = uuid.New().String()
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO users (id, provider, subject, email, display_name, role, theme, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'student', '', ?, ?)`),
			id, provider, subject, email, displayName, now, now)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// LoadTheme returns the saved theme for the user, or "" if none.
func (s *UserStore) LoadTheme(ctx context.Context, id string) (string, error) {
	var t string
	err := s.db.GetContext(ctx, &t, s.db.Rebind(`SELECT theme FROM users WHERE id = ?`), id)
	if err != nil {
		return "", notFound(err)
	}
	return t, nil
}

// SaveTheme stores the user's theme preference.
func (s *UserStore) SaveTheme(ctx context.Context, id, theme string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE users SET theme = ?, updated_at = ? WHERE id = ?`),
		theme, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ThemeStore exposes one user's saved theme as a theme.Store.
func (s *UserStore) ThemeStore(userID string) theme.Store {
	return theme.StoreFuncs{
		LoadFunc: func(ctx context.Context) (string, error) {
			return s.LoadTheme(ctx, userID)
		},
		SaveFunc: func(ctx context.Context, t theme.Theme) error {
			return s.SaveTheme(ctx, userID, string(t))
		},
	}
}
