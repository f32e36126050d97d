package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `r.id, r.user_id, r.court_number, r.date, r.start_time, r.end_time, r.created_at,
		       u.full_name, u.username`

type ReservationRepository struct {
	*base.Repository
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

// CreateChecked атомарно проверяет и создаёт бронь.
// Транзакционная advisory-блокировка (корт, дата) сериализует конкурирующие брони,
// check получает все брони корта на дату и может отказать.
func (r *ReservationRepository) CreateChecked(ctx context.Context, res *model.Reservation, check func(existing []*model.Reservation) error) error {
	dateKey, err := res.DateKey()
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(res.CourtNumber), dateKey); err != nil {
			return fmt.Errorf("lock court day: %w", err)
		}

		rows, err := tx.Query(ctx, `
			SELECT `+reservationColumns+`
			FROM reservations r
			JOIN users u ON u.id = r.user_id
			WHERE r.court_number = $1 AND r.date = $2
			ORDER BY r.start_time
		`, res.CourtNumber, res.Date)
		if err != nil {
			return fmt.Errorf("get court reservations: %w", err)
		}
		existing, err := scanReservations(rows)
		if err != nil {
			return err
		}

		if err := check(existing); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO reservations (user_id, court_number, date, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, res.UserID, res.CourtNumber, res.Date, res.StartTime.String(), res.EndTime.String(),
		).Scan(&res.ID, &res.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
}

// ListByDate все брони на дату по всем кортам
func (r *ReservationRepository) ListByDate(ctx context.Context, date string) ([]*model.Reservation, error) {
	rows, err := r.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.date = $1
		ORDER BY r.start_time, r.court_number
	`, date)
	if err != nil {
		return nil, fmt.Errorf("get reservations by date: %w", err)
	}
	return scanReservations(rows)
}

// ListByUser брони пользователя
func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	rows, err := r.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.date, r.start_time
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get reservations by user: %w", err)
	}
	return scanReservations(rows)
}

// ListAll все брони (для администратора)
func (r *ReservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	rows, err := r.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.date, r.start_time
	`)
	if err != nil {
		return nil, fmt.Errorf("get all reservations: %w", err)
	}
	return scanReservations(rows)
}

// Delete удаляет бронь
func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if affected == 0 {
		return model.ErrReservationNotFound
	}
	return nil
}

// DeleteMany удаляет несколько броней, возвращает число удалённых
func (r *ReservationRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	affected, err := r.ExecAffected(ctx, `DELETE FROM reservations WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	return affected, nil
}

func scanReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		var (
			res        model.Reservation
			start, end string
		)
		err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.CourtNumber,
			&res.Date,
			&start,
			&end,
			&res.CreatedAt,
			&res.UserFullName,
			&res.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		if res.StartTime, err = model.ParseClock(start); err != nil {
			return nil, fmt.Errorf("scan reservation %d: %w", res.ID, err)
		}
		if res.EndTime, err = model.ParseClock(end); err != nil {
			return nil, fmt.Errorf("scan reservation %d: %w", res.ID, err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return reservations, nil
}
