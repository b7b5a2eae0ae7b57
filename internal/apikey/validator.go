package apikey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Verdict is the outcome of a successful validation.
type Verdict struct {
	KeyID   uuid.UUID
	KeyName string
	Usage   int
}

// Validate decides whether a presented secret grants access and accounts for
// the attempt. The usage check and increment are one conditional UPDATE, so
// two concurrent validations of a near-exhausted key cannot both slip past the
// ceiling. Rejected attempts never increment usage.
func (s *Service) Validate(ctx context.Context, candidate, endpoint string) (*Verdict, error) {
	secret := strings.TrimSpace(candidate)
	if secret == "" {
		return nil, ErrKeyRequired
	}

	var v Verdict
	err := s.db.QueryRow(ctx,
		`UPDATE api_keys SET usage = usage + 1
		 WHERE key = $1 AND (limit_value IS NULL OR usage < limit_value)
		 RETURNING id, name, usage`,
		secret,
	).Scan(&v.KeyID, &v.KeyName, &v.Usage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.classifyRejection(ctx, secret)
	}
	if err != nil {
		return nil, fmt.Errorf("validate api key: %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordUsage(v.KeyID, v.KeyName, endpoint); err != nil {
			slog.Warn("failed to record key usage", "key_id", v.KeyID, "error", err)
		}
	}

	return &v, nil
}

// classifyRejection distinguishes an unknown key from an exhausted one after
// the conditional update matched nothing.
func (s *Service) classifyRejection(ctx context.Context, secret string) error {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM api_keys WHERE key = $1)`, secret,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check api key: %w", err)
	}
	if !exists {
		return ErrInvalidKey
	}
	return ErrLimitExceeded
}
