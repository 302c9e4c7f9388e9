package repository

import (
	"context"
	"database/sql"

	"perch/internal/database"
	"perch/internal/models"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) List(ctx context.Context) ([]models.Seat, error) {
	var seats []models.Seat
	query := `
		SELECT id, row_number, col_number, label, created_at, updated_at
		FROM seats
		ORDER BY row_number, col_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat models.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.Row,
			&seat.Col,
			&seat.Label,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (r *SeatRepository) GetByID(ctx context.Context, id int64) (*models.Seat, error) {
	seat := &models.Seat{}
	query := `
		SELECT id, row_number, col_number, label, created_at, updated_at
		FROM seats
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&seat.ID,
		&seat.Row,
		&seat.Col,
		&seat.Label,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return seat, err
}

// RegenerateLayout replaces the whole grid in one transaction. Deleting the
// old seats cascades to their bookings, so a failed insert leaves the previous
// layout (and its bookings) untouched.
func (r *SeatRepository) RegenerateLayout(ctx context.Context, seats []models.Seat) ([]models.Seat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seats`); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO seats (row_number, col_number, label)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	created := make([]models.Seat, 0, len(seats))
	for _, seat := range seats {
		err := tx.QueryRowContext(ctx, query, seat.Row, seat.Col, seat.Label).
			Scan(&seat.ID, &seat.CreatedAt, &seat.UpdatedAt)
		if err != nil {
			return nil, err
		}
		created = append(created, seat)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return created, nil
}

func (r *SeatRepository) UpdateLabel(ctx context.Context, id int64, label string) (*models.Seat, error) {
	seat := &models.Seat{}
	query := `
		UPDATE seats
		SET label = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, row_number, col_number, label, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, label, id).Scan(
		&seat.ID,
		&seat.Row,
		&seat.Col,
		&seat.Label,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return seat, err
}
