package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ReservationRepo provides CRUD operations for reservations. A reservation
// is a user's claim on a slot in a match's roster. Every write that touches
// an active reservation recomputes the owning match's capacity counters in
// the same transaction, so `current_players` always equals the count of
// active reservations once the transaction commits. All timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Reservation status values. A cancelled reservation keeps its row
// (soft-cancel) and can be re-activated if the match still has room.
const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
)

// ErrReservationNotFound indicates the reservation does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// Reservation mirrors the 'reservations' table.
type Reservation struct {
	ID         uint64
	UserID     uint64
	MatchID    uint64
	Status     string
	ReservedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Create books a slot on the match with the given display ID for the user.
// Inside one transaction it locks the match row, rejects a missing match, a
// duplicate active reservation or a full match, then inserts the reservation
// and recomputes the match counters. The lock closes the window where two
// requests could both pass the capacity check on the last open spot.
func (r *ReservationRepo) Create(ctx context.Context, userID, matchDisplayID uint64) (*Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var matchID uint64
	var maxPlayers uint32
	if err = tx.QueryRowContext(ctx,
		"SELECT id, maximum_players FROM matches WHERE display_id=? FOR UPDATE",
		matchDisplayID).Scan(&matchID, &maxPlayers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var active uint32
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE match_id=? AND status='active'", matchID).Scan(&active); err != nil {
		return nil, err
	}
	var dup int
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE match_id=? AND user_id=? AND status='active'",
		matchID, userID).Scan(&dup); err != nil {
		return nil, err
	}
	if dup > 0 {
		err = ErrDuplicateReservation
		return nil, err
	}
	if ComputeCapacity(maxPlayers, active).IsFull {
		err = ErrCapacityFull
		return nil, err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id, match_id, status) VALUES (?,?,'active')",
		userID, matchID)
	if err != nil {
		return nil, err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	if err = recomputeMatchCapacityTx(ctx, tx, matchID); err != nil {
		return nil, err
	}

	rec := &Reservation{}
	if err = tx.QueryRowContext(ctx,
		"SELECT id, user_id, match_id, status, reserved_at, created_at, updated_at FROM reservations WHERE id=?",
		id).Scan(&rec.ID, &rec.UserID, &rec.MatchID, &rec.Status, &rec.ReservedAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

// getForUpdateTx loads a reservation under lock and enforces ownership.
// Admins may touch any reservation; other callers only their own.
func getForUpdateTx(ctx context.Context, tx *sql.Tx, id, callerID uint64, admin bool) (*Reservation, error) {
	rec := &Reservation{}
	err := tx.QueryRowContext(ctx,
		"SELECT id, user_id, match_id, status, reserved_at, created_at, updated_at FROM reservations WHERE id=? FOR UPDATE",
		id).Scan(&rec.ID, &rec.UserID, &rec.MatchID, &rec.Status, &rec.ReservedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !admin && rec.UserID != callerID {
		return nil, ErrForbidden
	}
	return rec, nil
}

// lockMatchTx locks a match row and returns its maximum_players.
func lockMatchTx(ctx context.Context, tx *sql.Tx, matchID uint64) (uint32, error) {
	var max uint32
	err := tx.QueryRowContext(ctx,
		"SELECT maximum_players FROM matches WHERE id=? FOR UPDATE", matchID).Scan(&max)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrMatchNotFound
	}
	return max, err
}

// UpdateStatus flips a reservation between active and cancelled.
// cancelled -> active re-validates capacity and the duplicate rule on the
// match; active -> cancelled frees a spot. The affected match's counters are
// recomputed in the same transaction.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, callerID uint64, admin bool, newStatus string) (*Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	rec, err := getForUpdateTx(ctx, tx, id, callerID, admin)
	if err != nil {
		return nil, err
	}
	if rec.Status == newStatus {
		return rec, nil
	}

	maxPlayers, lerr := lockMatchTx(ctx, tx, rec.MatchID)
	if lerr != nil {
		err = lerr
		return nil, err
	}

	if newStatus == ReservationActive {
		var active, dup uint32
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE match_id=? AND status='active'", rec.MatchID).Scan(&active); err != nil {
			return nil, err
		}
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE match_id=? AND user_id=? AND status='active' AND id<>?",
			rec.MatchID, rec.UserID, rec.ID).Scan(&dup); err != nil {
			return nil, err
		}
		if dup > 0 {
			err = ErrDuplicateReservation
			return nil, err
		}
		if ComputeCapacity(maxPlayers, active).IsFull {
			err = ErrCapacityFull
			return nil, err
		}
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=?", newStatus, rec.ID); err != nil {
		return nil, err
	}
	if err = recomputeMatchCapacityTx(ctx, tx, rec.MatchID); err != nil {
		return nil, err
	}
	rec.Status = newStatus
	return rec, nil
}

// ChangeMatch moves a reservation to the match with the given display ID.
// Both match rows are locked in id order to avoid deadlocks between
// concurrent movers. An active reservation frees a spot on the old match and
// claims one on the new, subject to the capacity and duplicate rules.
func (r *ReservationRepo) ChangeMatch(ctx context.Context, id, callerID uint64, admin bool, newMatchDisplayID uint64) (*Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	rec, err := getForUpdateTx(ctx, tx, id, callerID, admin)
	if err != nil {
		return nil, err
	}

	var newMatchID uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM matches WHERE display_id=?", newMatchDisplayID).Scan(&newMatchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrMatchNotFound
		}
		return nil, err
	}
	if newMatchID == rec.MatchID {
		return rec, nil
	}

	// Lock both matches in a stable order.
	first, second := rec.MatchID, newMatchID
	if second < first {
		first, second = second, first
	}
	if _, err = lockMatchTx(ctx, tx, first); err != nil {
		return nil, err
	}
	newMax, lerr := lockMatchTx(ctx, tx, second)
	if lerr != nil {
		err = lerr
		return nil, err
	}
	if second != newMatchID {
		// The second lock hit the old match; fetch the new match's max.
		if err = tx.QueryRowContext(ctx,
			"SELECT maximum_players FROM matches WHERE id=?", newMatchID).Scan(&newMax); err != nil {
			return nil, err
		}
	}

	if rec.Status == ReservationActive {
		var active, dup uint32
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE match_id=? AND status='active'", newMatchID).Scan(&active); err != nil {
			return nil, err
		}
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE match_id=? AND user_id=? AND status='active'",
			newMatchID, rec.UserID).Scan(&dup); err != nil {
			return nil, err
		}
		if dup > 0 {
			err = ErrDuplicateReservation
			return nil, err
		}
		if ComputeCapacity(newMax, active).IsFull {
			err = ErrCapacityFull
			return nil, err
		}
	}

	oldMatchID := rec.MatchID
	if _, err = tx.ExecContext(ctx,
		"UPDATE reservations SET match_id=? WHERE id=?", newMatchID, rec.ID); err != nil {
		return nil, err
	}
	if err = recomputeMatchCapacityTx(ctx, tx, oldMatchID); err != nil {
		return nil, err
	}
	if err = recomputeMatchCapacityTx(ctx, tx, newMatchID); err != nil {
		return nil, err
	}
	rec.MatchID = newMatchID
	return rec, nil
}

// Delete hard-deletes a reservation. An active reservation's effect on its
// match is reversed by recomputing the counters after the row is gone.
func (r *ReservationRepo) Delete(ctx context.Context, id, callerID uint64, admin bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	rec, err := getForUpdateTx(ctx, tx, id, callerID, admin)
	if err != nil {
		return err
	}
	wasActive := rec.Status == ReservationActive
	if wasActive {
		if _, err = lockMatchTx(ctx, tx, rec.MatchID); err != nil && !errors.Is(err, ErrMatchNotFound) {
			return err
		}
		err = nil // a dangling match reference must not block the delete
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", rec.ID); err != nil {
		return err
	}
	if wasActive {
		if rerr := recomputeMatchCapacityTx(ctx, tx, rec.MatchID); rerr != nil && !errors.Is(rerr, sql.ErrNoRows) {
			err = rerr
			return err
		}
	}
	return nil
}

// ReservationDetail is a reservation joined with its user, match, sub-field
// and stadium, the shape returned to clients. The user's password is never
// selected.
type ReservationDetail struct {
	ID             uint64    `json:"id"`
	Status         string    `json:"status"`
	ReservedAt     time.Time `json:"reserved_at"`
	UserID         uint64    `json:"user_id"`
	UserName       string    `json:"user_name"`
	UserEmail      string    `json:"user_email"`
	MatchDisplayID uint64    `json:"match_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Fee            uint32    `json:"fee"`
	FieldName      string    `json:"field_name"`
	StadiumID      uint64    `json:"stadium_id"`
	StadiumName    string    `json:"stadium_name"`
	City           string    `json:"city"`
	District       string    `json:"district"`
	Address        string    `json:"address"`
}

const reservationDetailSelect = `SELECT res.id, res.status, res.reserved_at,
		u.id, u.name, u.email,
		m.display_id, m.starts_at, m.ends_at, m.fee,
		sf.field_name,
		st.display_id, st.name, st.city, st.district, st.address
	FROM reservations res
	JOIN users u ON u.id = res.user_id
	JOIN matches m ON m.id = res.match_id
	JOIN sub_fields sf ON sf.id = m.sub_field_id
	JOIN stadiums st ON st.id = sf.stadium_id`

func scanReservationDetail(sc interface{ Scan(...any) error }, d *ReservationDetail) error {
	return sc.Scan(&d.ID, &d.Status, &d.ReservedAt,
		&d.UserID, &d.UserName, &d.UserEmail,
		&d.MatchDisplayID, &d.StartsAt, &d.EndsAt, &d.Fee,
		&d.FieldName,
		&d.StadiumID, &d.StadiumName, &d.City, &d.District, &d.Address)
}

// GetDetailByID returns a single reservation with full join context. Callers
// other than admins may only read their own reservations.
func (r *ReservationRepo) GetDetailByID(ctx context.Context, id, callerID uint64, admin bool) (*ReservationDetail, error) {
	var d ReservationDetail
	err := scanReservationDetail(r.db.QueryRowContext(ctx,
		reservationDetailSelect+" WHERE res.id = ?", id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !admin && d.UserID != callerID {
		return nil, ErrForbidden
	}
	return &d, nil
}

// ListActiveByUser returns the caller's active reservations, newest first.
func (r *ReservationRepo) ListActiveByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		reservationDetailSelect+" WHERE res.user_id = ? AND res.status = 'active' ORDER BY res.reserved_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReservationDetail{}
	for rows.Next() {
		var d ReservationDetail
		if err := scanReservationDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAll returns every reservation with join context, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		reservationDetailSelect+" ORDER BY res.reserved_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReservationDetail{}
	for rows.Next() {
		var d ReservationDetail
		if err := scanReservationDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
