package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dandihq/dandi-api/internal/models"
)

// UserService persists identities established through the sign-in flow.
type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// UpsertGoogleUser creates the user row on first sign-in and refreshes
// profile fields and last_login on every subsequent one.
func (s *UserService) UpsertGoogleUser(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (google_id, email, name, image, last_login)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (google_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			last_login = now()
		 RETURNING id, google_id, email, name, image, last_login, created_at`,
		profile.ID, profile.Email, profile.Name, profile.Picture,
	).Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Image, &u.LastLogin, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &u, nil
}
