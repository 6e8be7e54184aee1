package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/internal/service"
)

type UnitRepository struct {
	db *pgxpool.Pool
}

func NewUnitRepository(db *pgxpool.Pool) service.UnitRepository {
	return &UnitRepository{db: db}
}

// Create создает новую запись о подразделении в бд
func (r *UnitRepository) Create(ctx context.Context, unit *models.ForceUnit) error {
	query := `
		INSERT INTO units (name, type, status, location)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326))
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		unit.Name,
		unit.Type,
		unit.Status,
		unit.Longitude,
		unit.Latitude,
	).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

// List возвращает весь состав подразделений
func (r *UnitRepository) List(ctx context.Context) ([]*models.ForceUnit, error) {
	query := `
		SELECT
			id,
			name,
			type,
			status,
			ST_Y(location::geometry) AS latitude,
			ST_X(location::geometry) AS longitude,
			created_at,
			updated_at
		FROM units
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	units := make([]*models.ForceUnit, 0)
	for rows.Next() {
		unit := &models.ForceUnit{}
		err := rows.Scan(
			&unit.ID,
			&unit.Name,
			&unit.Type,
			&unit.Status,
			&unit.Latitude,
			&unit.Longitude,
			&unit.CreatedAt,
			&unit.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return units, nil
}

// Delete удаляет подразделение по его UUID
func (r *UnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM units WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("unit with id %s: %w", id, service.ErrUnitNotFound)
	}
	return nil
}

// ResetAll возвращает все подразделения в статус IDLE
func (r *UnitRepository) ResetAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `UPDATE units SET status = 'IDLE', updated_at = NOW();`); err != nil {
		return fmt.Errorf("failed to reset units: %w", err)
	}
	return nil
}

// SeedIfEmpty вставляет дефолтный состав, только если таблица пуста.
// Проверка и вставка идут в одной транзакции, чтобы два конкурентных
// bulk-read не засеяли состав дважды.
func (r *UnitRepository) SeedIfEmpty(ctx context.Context, units []*models.ForceUnit) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM units;`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count units: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, unit := range units {
		if _, err := tx.Exec(ctx, `
			INSERT INTO units (name, type, status, location)
			VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326));
		`, unit.Name, unit.Type, unit.Status, unit.Longitude, unit.Latitude); err != nil {
			return false, fmt.Errorf("failed to seed unit %s: %w", unit.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return true, nil
}
