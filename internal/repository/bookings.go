package repository

import (
	"context"
	"database/sql"
	"time"

	"perch/internal/database"
	apperrors "perch/internal/errors"
	"perch/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, seat_id, user_name, booked_date, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.SeatID,
		&booking.UserName,
		&booking.Date,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

// FindBySeatAndDate looks up the booking occupying (seatID, date), skipping
// excludeID so an edit does not collide with itself. Pass 0 to exclude
// nothing.
func (r *BookingRepository) FindBySeatAndDate(ctx context.Context, seatID int64, date time.Time, excludeID int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, seat_id, user_name, booked_date, created_at, updated_at
		FROM bookings
		WHERE seat_id = $1 AND booked_date = $2 AND id <> $3`

	err := r.db.QueryRowContext(ctx, query, seatID, date, excludeID).Scan(
		&booking.ID,
		&booking.SeatID,
		&booking.UserName,
		&booking.Date,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

// FindBySeatInRange returns the seat's bookings with dates inside
// [start, end], ascending by date.
func (r *BookingRepository) FindBySeatInRange(ctx context.Context, seatID int64, start, end time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, seat_id, user_name, booked_date, created_at, updated_at
		FROM bookings
		WHERE seat_id = $1 AND booked_date BETWEEN $2 AND $3
		ORDER BY booked_date ASC`

	rows, err := r.db.QueryContext(ctx, query, seatID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.SeatID,
			&booking.UserName,
			&booking.Date,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) ListForDay(ctx context.Context, date time.Time) ([]models.BookingWithSeat, error) {
	query := `
		SELECT b.id, b.seat_id, b.user_name, b.booked_date, b.created_at, b.updated_at,
		       s.id, s.row_number, s.col_number, s.label, s.created_at, s.updated_at
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		WHERE b.booked_date = $1
		ORDER BY s.row_number, s.col_number`

	return r.queryWithSeat(ctx, query, date)
}

func (r *BookingRepository) ListInRange(ctx context.Context, start, end time.Time) ([]models.BookingWithSeat, error) {
	query := `
		SELECT b.id, b.seat_id, b.user_name, b.booked_date, b.created_at, b.updated_at,
		       s.id, s.row_number, s.col_number, s.label, s.created_at, s.updated_at
		FROM bookings b
		JOIN seats s ON s.id = b.seat_id
		WHERE b.booked_date BETWEEN $1 AND $2
		ORDER BY b.booked_date ASC, s.row_number, s.col_number`

	return r.queryWithSeat(ctx, query, start, end)
}

func (r *BookingRepository) queryWithSeat(ctx context.Context, query string, args ...interface{}) ([]models.BookingWithSeat, error) {
	var bookings []models.BookingWithSeat

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.BookingWithSeat
		err := rows.Scan(
			&item.ID,
			&item.SeatID,
			&item.UserName,
			&item.Date,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Seat.ID,
			&item.Seat.Row,
			&item.Seat.Col,
			&item.Seat.Label,
			&item.Seat.CreatedAt,
			&item.Seat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, item)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (seat_id, user_name, booked_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.SeatID,
		booking.UserName,
		booking.Date,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if isUniqueViolation(err) {
		return r.conflictFor(ctx, booking.SeatID, booking.Date)
	}

	return err
}

// CreateBatch materializes one booking row per day inside a single
// transaction. Any failure, including a unique violation from a racing
// request, rolls back the whole batch.
func (r *BookingRepository) CreateBatch(ctx context.Context, seatID int64, userName string, days []time.Time) ([]models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings (seat_id, user_name, booked_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	created := make([]models.Booking, 0, len(days))
	for _, day := range days {
		booking := models.Booking{
			SeatID:   seatID,
			UserName: userName,
			Date:     day,
		}
		err := tx.QueryRowContext(ctx, query, seatID, userName, day).
			Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				// Rollback happens via defer; report which day lost the race.
				return nil, apperrors.NewConflict(apperrors.ConflictDay{SeatID: seatID, Date: day})
			}
			return nil, err
		}
		created = append(created, booking)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return created, nil
}

func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET user_name = $1, booked_date = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.UserName,
		booking.Date,
		booking.ID,
	).Scan(&booking.UpdatedAt)

	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if isUniqueViolation(err) {
		return r.conflictFor(ctx, booking.SeatID, booking.Date)
	}

	return err
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// conflictFor builds a ConflictError for a constraint hit, filling in the
// winning booking's id when it is still visible.
func (r *BookingRepository) conflictFor(ctx context.Context, seatID int64, date time.Time) error {
	day := apperrors.ConflictDay{SeatID: seatID, Date: date}
	if existing, err := r.FindBySeatAndDate(ctx, seatID, date, 0); err == nil && existing != nil {
		day.BookingID = existing.ID
	}
	return apperrors.NewConflict(day)
}
