package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/internal/service"
)

type AdvisoryRepository struct {
	db *pgxpool.Pool
}

func NewAdvisoryRepository(db *pgxpool.Pool) service.AdvisoryRepository {
	return &AdvisoryRepository{db: db}
}

// Create создает новую запись об оповещении в бд
func (r *AdvisoryRepository) Create(ctx context.Context, advisory *models.Advisory) error {
	query := `
		INSERT INTO advisories (message, author, related_incident_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		advisory.Message,
		advisory.Author,
		advisory.RelatedIncidentID,
	).Scan(&advisory.ID, &advisory.CreatedAt)
	if err != nil {
		// Ссылка на несуществующий инцидент нарушает FK
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("related incident %s: %w", advisory.RelatedIncidentID, service.ErrIncidentNotFound)
		}
		return fmt.Errorf("failed to create advisory: %w", err)
	}
	return nil
}

// ListRecent возвращает последние оповещения, от новых к старым
func (r *AdvisoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.Advisory, error) {
	query := `
		SELECT id, message, author, related_incident_id, created_at
		FROM advisories
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisories: %w", err)
	}
	defer rows.Close()

	advisories := make([]*models.Advisory, 0)
	for rows.Next() {
		advisory := &models.Advisory{}
		err := rows.Scan(
			&advisory.ID,
			&advisory.Message,
			&advisory.Author,
			&advisory.RelatedIncidentID,
			&advisory.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advisory row: %w", err)
		}
		advisories = append(advisories, advisory)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return advisories, nil
}

// DeleteAll удаляет все оповещения
func (r *AdvisoryRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM advisories;`); err != nil {
		return fmt.Errorf("failed to delete advisories: %w", err)
	}
	return nil
}
