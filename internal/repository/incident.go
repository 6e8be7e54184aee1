package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/internal/service"
)

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

// Колонки инцидента вместе с назначенным подразделением (LEFT JOIN)
const incidentColumns = `
	i.id,
	i.type,
	i.description,
	i.severity,
	i.address,
	ST_Y(i.location::geometry) AS latitude,
	ST_X(i.location::geometry) AS longitude,
	i.breakdown,
	i.action_plan,
	i.status,
	i.created_at,
	u.id,
	u.name,
	u.type,
	u.status,
	ST_Y(u.location::geometry),
	ST_X(u.location::geometry),
	u.created_at,
	u.updated_at
`

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type, description, severity, address, location, breakdown, action_plan, status)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7, $8, $9)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Type,
		incident.Description,
		incident.Severity,
		incident.Address,
		incident.Longitude,
		incident.Latitude,
		incident.Breakdown,
		incident.ActionPlan,
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID вместе с назначенным подразделением
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		LEFT JOIN units u ON u.id = i.assigned_unit_id
		WHERE i.id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает инциденты от новых к старым; activeOnly исключает RESOLVED
func (r *IncidentRepository) List(ctx context.Context, activeOnly bool) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		LEFT JOIN units u ON u.id = i.assigned_unit_id
	`
	if activeOnly {
		query += ` WHERE i.status <> 'RESOLVED'`
	}
	query += ` ORDER BY i.created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// Dispatch атомарно занимает подразделение и назначает его на инцидент.
// Оба изменения идут в одной транзакции: либо подразделение занято и инцидент
// переведен в DISPATCHED, либо не меняется ничего. Занятие подразделения -
// compare-and-swap по статусу, так что из двух конкурентных назначений одного
// подразделения выигрывает ровно одно.
func (r *IncidentRepository) Dispatch(ctx context.Context, incidentID, unitID uuid.UUID) (*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin dispatch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE units SET status = 'BUSY', updated_at = NOW()
		WHERE id = $1 AND status = 'IDLE';
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to engage unit: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM units WHERE id = $1);`, unitID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check unit existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("unit with id %s: %w", unitID, service.ErrUnitNotFound)
		}
		return nil, fmt.Errorf("unit with id %s: %w", unitID, service.ErrUnitUnavailable)
	}

	cmdTag, err = tx.Exec(ctx, `
		UPDATE incidents SET status = 'DISPATCHED', assigned_unit_id = $1
		WHERE id = $2 AND status = 'PENDING';
	`, unitID, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch incident: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1);`, incidentID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check incident existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("incident with id %s: %w", incidentID, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("incident with id %s: %w", incidentID, service.ErrIncidentClosed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit dispatch transaction: %w", err)
	}

	return r.GetByID(ctx, incidentID)
}

// Resolve закрывает инцидент и возвращает назначенное подразделение в IDLE
// в одной транзакции
func (r *IncidentRepository) Resolve(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin resolve transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var assignedUnitID *uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE incidents SET status = 'RESOLVED'
		WHERE id = $1 AND status IN ('PENDING', 'DISPATCHED')
		RETURNING assigned_unit_id;
	`, id).Scan(&assignedUnitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1);`, id).Scan(&exists); err != nil {
				return nil, fmt.Errorf("failed to check incident existence: %w", err)
			}
			if !exists {
				return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
			}
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentClosed)
		}
		return nil, fmt.Errorf("failed to resolve incident: %w", err)
	}

	if assignedUnitID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE units SET status = 'IDLE', updated_at = NOW()
			WHERE id = $1;
		`, *assignedUnitID); err != nil {
			return nil, fmt.Errorf("failed to release unit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resolve transaction: %w", err)
	}

	return r.GetByID(ctx, id)
}

// DeleteAll удаляет все инциденты
func (r *IncidentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM incidents;`); err != nil {
		return fmt.Errorf("failed to delete incidents: %w", err)
	}
	return nil
}

// scanIncident вычитывает строку инцидента с опциональным подразделением
func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var (
		unitID        *uuid.UUID
		unitName      *string
		unitType      *string
		unitStatus    *string
		unitLatitude  *float64
		unitLongitude *float64
		unitCreatedAt *time.Time
		unitUpdatedAt *time.Time
	)

	err := row.Scan(
		&incident.ID,
		&incident.Type,
		&incident.Description,
		&incident.Severity,
		&incident.Address,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Breakdown,
		&incident.ActionPlan,
		&incident.Status,
		&incident.CreatedAt,
		&unitID,
		&unitName,
		&unitType,
		&unitStatus,
		&unitLatitude,
		&unitLongitude,
		&unitCreatedAt,
		&unitUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if unitID != nil {
		incident.AssignedUnit = &models.ForceUnit{
			ID:        *unitID,
			Name:      *unitName,
			Type:      *unitType,
			Status:    *unitStatus,
			Latitude:  *unitLatitude,
			Longitude: *unitLongitude,
			CreatedAt: *unitCreatedAt,
			UpdatedAt: *unitUpdatedAt,
		}
	}
	return incident, nil
}
