package apikey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dandihq/dandi-api/internal/models"
)

// UsageRecorder receives a best-effort notification for every successful
// validation. Implementations must not block the request path.
type UsageRecorder interface {
	RecordUsage(keyID uuid.UUID, keyName, endpoint string) error
}

type Service struct {
	db       *pgxpool.Pool
	recorder UsageRecorder
}

func NewService(db *pgxpool.Pool, recorder UsageRecorder) *Service {
	return &Service{db: db, recorder: recorder}
}

type CreateRequest struct {
	Name  string `json:"name"`
	Limit *int   `json:"limit"`
}

type UpdateRequest struct {
	Name  *string `json:"name"`
	Limit *int    `json:"limit"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.APIKey, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	secret, err := GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	var k models.APIKey
	err = s.db.QueryRow(ctx,
		`INSERT INTO api_keys (name, key, usage, limit_value)
		 VALUES ($1, $2, 0, $3)
		 RETURNING id, name, key, usage, limit_value, created_at`,
		name, secret, normalizeLimit(req.Limit),
	).Scan(&k.ID, &k.Name, &k.Key, &k.Usage, &k.Limit, &k.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert api key: %w", err)
	}
	return &k, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	var k models.APIKey
	err := s.db.QueryRow(ctx,
		`SELECT id, name, key, usage, limit_value, created_at FROM api_keys WHERE id = $1`, id,
	).Scan(&k.ID, &k.Name, &k.Key, &k.Usage, &k.Limit, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return &k, nil
}

// List returns all keys, newest first.
func (s *Service) List(ctx context.Context) ([]models.APIKey, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, key, usage, limit_value, created_at
		 FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	keys := []models.APIKey{}
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.Key, &k.Usage, &k.Limit, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Update changes the name and/or ceiling of an existing key. Omitted fields
// are left untouched; an explicit zero limit clears the ceiling.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.APIKey, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrNameRequired
	}

	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		name = &trimmed
	}

	limit := normalizeLimit(req.Limit)
	clearLimit := req.Limit != nil && limit == nil

	var k models.APIKey
	err := s.db.QueryRow(ctx,
		`UPDATE api_keys SET
			name = COALESCE($2, name),
			limit_value = CASE WHEN $4 THEN NULL ELSE COALESCE($3, limit_value) END
		 WHERE id = $1
		 RETURNING id, name, key, usage, limit_value, created_at`,
		id, name, limit, clearLimit,
	).Scan(&k.ID, &k.Name, &k.Key, &k.Usage, &k.Limit, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update api key: %w", err)
	}
	return &k, nil
}

// normalizeLimit treats zero and negative ceilings as "unlimited" so they
// never reach the store's positive-limit constraint.
func normalizeLimit(limit *int) *int {
	if limit == nil || *limit <= 0 {
		return nil
	}
	return limit
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
