// Package repository contains data access logic for Match domain operations.
// A Match is a scheduled time slot on a sub-field open for player sign-up.
// Creation is gated by the overlap check: no two matches on the same
// sub-field may intersect on [starts_at, ends_at). The check and the insert
// run in one transaction holding a row lock on the sub-field, so two
// concurrent requests for the same slot cannot both pass.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Match mirrors the 'matches' table. EndsAt is always derived from StartsAt
// plus DurationMinutes; callers set the start and duration only.
type Match struct {
	ID              uint64
	DisplayID       uint64
	SubFieldID      uint64
	StartsAt        time.Time
	EndsAt          time.Time
	DurationMinutes uint32
	Level           string
	Gender          string
	MatchFormat     string
	Theme           string
	Fee             uint32
	MinimumPlayers  uint32
	MaximumPlayers  uint32
	CurrentPlayers  uint32
	SpotsLeft       uint32
	IsFull          bool
	DeadlineMinutes uint32
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Match status values.
const (
	MatchRecruiting = "recruiting"
	MatchClosed     = "closed"
	MatchCancelled  = "cancelled"
)

// ErrMatchNotFound indicates that a match was not located in the DB.
var ErrMatchNotFound = errors.New("match not found")

// MatchRepo manages persistence for matches.
type MatchRepo struct {
	db *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

const matchCols = `id, display_id, sub_field_id, starts_at, ends_at, duration_minutes,
	level, gender, match_format, theme, fee,
	minimum_players, maximum_players, current_players, spots_left, is_full,
	application_deadline_minutes_before, status, created_at, updated_at`

func scanMatch(sc interface{ Scan(...any) error }, m *Match) error {
	return sc.Scan(&m.ID, &m.DisplayID, &m.SubFieldID, &m.StartsAt, &m.EndsAt, &m.DurationMinutes,
		&m.Level, &m.Gender, &m.MatchFormat, &m.Theme, &m.Fee,
		&m.MinimumPlayers, &m.MaximumPlayers, &m.CurrentPlayers, &m.SpotsLeft, &m.IsFull,
		&m.DeadlineMinutes, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// Create schedules a match on the sub-field with the given display ID. Inside
// one transaction it locks the sub-field row, runs the overlap check against
// [StartsAt, EndsAt) and inserts the row with a fresh display ID. Returns
// ErrSubFieldNotFound when the sub-field does not exist and ErrOverlap when
// another match intersects the window.
func (r *MatchRepo) Create(ctx context.Context, subFieldDisplayID uint64, m *Match) error {
	m.EndsAt = MatchEnd(m.StartsAt, m.DurationMinutes)

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

	// The FOR UPDATE lock serializes concurrent scheduling on one sub-field:
	// the second transaction blocks here until the first commits, then sees
	// its insert in the overlap query.
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM sub_fields WHERE display_id=? FOR UPDATE", subFieldDisplayID).Scan(&m.SubFieldID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubFieldNotFound
		}
		return err
	}

	var overlapping int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches
		 WHERE sub_field_id = ? AND NOT (ends_at <= ? OR starts_at >= ?)`,
		m.SubFieldID, m.StartsAt, m.EndsAt).Scan(&overlapping); err != nil {
		return err
	}
	if overlapping > 0 {
		err = ErrOverlap
		return err
	}

	if m.DisplayID, err = nextCounterTx(ctx, tx, "match"); err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = MatchRecruiting
	}
	if m.DeadlineMinutes == 0 {
		m.DeadlineMinutes = 10
	}
	c := ComputeCapacity(m.MaximumPlayers, 0)
	m.CurrentPlayers, m.SpotsLeft, m.IsFull = c.CurrentPlayers, c.SpotsLeft, c.IsFull

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO matches (display_id, sub_field_id, starts_at, ends_at, duration_minutes,
			level, gender, match_format, theme, fee,
			minimum_players, maximum_players, current_players, spots_left, is_full,
			application_deadline_minutes_before, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.DisplayID, m.SubFieldID, m.StartsAt, m.EndsAt, m.DurationMinutes,
		m.Level, m.Gender, m.MatchFormat, m.Theme, m.Fee,
		m.MinimumPlayers, m.MaximumPlayers, m.CurrentPlayers, m.SpotsLeft, m.IsFull,
		m.DeadlineMinutes, m.Status)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// MatchDetail is a match joined with its sub-field and stadium, the
// denormalized shape the list and detail endpoints respond with.
type MatchDetail struct {
	Match
	SubFieldDisplayID uint64
	FieldName         string
	Width             uint32
	Height            uint32
	Indoor            bool
	Surface           string
	StadiumDisplayID  uint64
	StadiumName       string
	Province          string
	City              string
	District          string
	Address           string
}

// Participant is the reduced user projection embedded in a match detail.
// Assembled from active reservations: the reservations table is the source
// of truth for who plays.
type Participant struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

const matchDetailSelect = `SELECT m.id, m.display_id, m.sub_field_id, m.starts_at, m.ends_at, m.duration_minutes,
		m.level, m.gender, m.match_format, m.theme, m.fee,
		m.minimum_players, m.maximum_players, m.current_players, m.spots_left, m.is_full,
		m.application_deadline_minutes_before, m.status, m.created_at, m.updated_at,
		sf.display_id, sf.field_name, sf.width, sf.height, sf.indoor, sf.surface,
		st.display_id, st.name, st.province, st.city, st.district, st.address
	FROM matches m
	JOIN sub_fields sf ON sf.id = m.sub_field_id
	JOIN stadiums st ON st.id = sf.stadium_id`

func scanMatchDetail(sc interface{ Scan(...any) error }, d *MatchDetail) error {
	return sc.Scan(&d.ID, &d.DisplayID, &d.SubFieldID, &d.StartsAt, &d.EndsAt, &d.DurationMinutes,
		&d.Level, &d.Gender, &d.MatchFormat, &d.Theme, &d.Fee,
		&d.MinimumPlayers, &d.MaximumPlayers, &d.CurrentPlayers, &d.SpotsLeft, &d.IsFull,
		&d.DeadlineMinutes, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.SubFieldDisplayID, &d.FieldName, &d.Width, &d.Height, &d.Indoor, &d.Surface,
		&d.StadiumDisplayID, &d.StadiumName, &d.Province, &d.City, &d.District, &d.Address)
}

// ListByWindow returns matches starting inside [from, to), joined with
// sub-field and stadium, ordered by start time ascending. The date endpoint
// uses a UTC day window, shrunk to "now" when the day is today.
func (r *MatchRepo) ListByWindow(ctx context.Context, from, to time.Time) ([]MatchDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		matchDetailSelect+" WHERE m.starts_at >= ? AND m.starts_at < ? ORDER BY m.starts_at ASC",
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MatchDetail{}
	for rows.Next() {
		var d MatchDetail
		if err := scanMatchDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAll returns every match with sub-field and stadium context.
func (r *MatchRepo) ListAll(ctx context.Context) ([]MatchDetail, error) {
	rows, err := r.db.QueryContext(ctx, matchDetailSelect+" ORDER BY m.starts_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MatchDetail{}
	for rows.Next() {
		var d MatchDetail
		if err := scanMatchDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetailByDisplayID returns one match with its sub-field, stadium and the
// participant list derived from active reservations.
func (r *MatchRepo) GetDetailByDisplayID(ctx context.Context, displayID uint64) (*MatchDetail, []Participant, error) {
	var d MatchDetail
	err := scanMatchDetail(r.db.QueryRowContext(ctx,
		matchDetailSelect+" WHERE m.display_id = ?", displayID), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	const pq = `SELECT u.id, u.name, u.email
		FROM reservations res
		JOIN users u ON u.id = res.user_id
		WHERE res.match_id = ? AND res.status = 'active'
		ORDER BY res.reserved_at ASC`
	rows, err := r.db.QueryContext(ctx, pq, d.Match.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	participants := []Participant{}
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email); err != nil {
			return nil, nil, err
		}
		participants = append(participants, p)
	}
	return &d, participants, rows.Err()
}

// MatchUpdate carries the mutable fields of a match. Nil pointers mean "keep
// the current value". Changing the start or duration re-runs the overlap
// check against the other matches on the same sub-field.
type MatchUpdate struct {
	StartsAt        *time.Time
	DurationMinutes *uint32
	Level           *string
	Gender          *string
	MatchFormat     *string
	Theme           *string
	Fee             *uint32
	MinimumPlayers  *uint32
	MaximumPlayers  *uint32
	DeadlineMinutes *uint32
	Status          *string
}

// Update applies a partial update to the match with the given display ID.
// Time changes hold the sub-field lock while re-checking overlap (excluding
// the match itself); maximum-player changes recompute the derived counters
// from the active-reservation count.
func (r *MatchRepo) Update(ctx context.Context, displayID uint64, upd MatchUpdate) (*Match, error) {
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

	var m Match
	if err = scanMatch(tx.QueryRowContext(ctx,
		"SELECT "+matchCols+" FROM matches WHERE display_id = ? FOR UPDATE", displayID), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrMatchNotFound
		}
		return nil, err
	}

	timeChanged := false
	if upd.StartsAt != nil {
		m.StartsAt = upd.StartsAt.UTC()
		timeChanged = true
	}
	if upd.DurationMinutes != nil {
		m.DurationMinutes = *upd.DurationMinutes
		timeChanged = true
	}
	if timeChanged {
		m.EndsAt = MatchEnd(m.StartsAt, m.DurationMinutes)

		// Lock the sub-field so a concurrent create cannot slip into the
		// window being vacated or claimed.
		var one int
		if err = tx.QueryRowContext(ctx,
			"SELECT 1 FROM sub_fields WHERE id=? FOR UPDATE", m.SubFieldID).Scan(&one); err != nil {
			return nil, err
		}
		var overlapping int
		if err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM matches
			 WHERE sub_field_id = ? AND id <> ? AND NOT (ends_at <= ? OR starts_at >= ?)`,
			m.SubFieldID, m.ID, m.StartsAt, m.EndsAt).Scan(&overlapping); err != nil {
			return nil, err
		}
		if overlapping > 0 {
			err = ErrOverlap
			return nil, err
		}
	}

	if upd.Level != nil {
		m.Level = *upd.Level
	}
	if upd.Gender != nil {
		m.Gender = *upd.Gender
	}
	if upd.MatchFormat != nil {
		m.MatchFormat = *upd.MatchFormat
	}
	if upd.Theme != nil {
		m.Theme = *upd.Theme
	}
	if upd.Fee != nil {
		m.Fee = *upd.Fee
	}
	if upd.MinimumPlayers != nil {
		m.MinimumPlayers = *upd.MinimumPlayers
	}
	if upd.DeadlineMinutes != nil {
		m.DeadlineMinutes = *upd.DeadlineMinutes
	}
	if upd.Status != nil {
		m.Status = *upd.Status
	}
	if upd.MaximumPlayers != nil {
		m.MaximumPlayers = *upd.MaximumPlayers
		var active uint32
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE match_id=? AND status='active'", m.ID).Scan(&active); err != nil {
			return nil, err
		}
		c := ComputeCapacity(m.MaximumPlayers, active)
		m.CurrentPlayers, m.SpotsLeft, m.IsFull = c.CurrentPlayers, c.SpotsLeft, c.IsFull
	}

	// A partial update changing only one of the pair can still invert it
	// against the stored value of the other.
	if m.MinimumPlayers > m.MaximumPlayers {
		err = ErrPlayerBounds
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE matches SET starts_at=?, ends_at=?, duration_minutes=?,
			level=?, gender=?, match_format=?, theme=?, fee=?,
			minimum_players=?, maximum_players=?, current_players=?, spots_left=?, is_full=?,
			application_deadline_minutes_before=?, status=?
		 WHERE id=?`,
		m.StartsAt, m.EndsAt, m.DurationMinutes,
		m.Level, m.Gender, m.MatchFormat, m.Theme, m.Fee,
		m.MinimumPlayers, m.MaximumPlayers, m.CurrentPlayers, m.SpotsLeft, m.IsFull,
		m.DeadlineMinutes, m.Status, m.ID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a match and every reservation referencing it inside one
// transaction.
func (r *MatchRepo) Delete(ctx context.Context, displayID uint64) error {
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

	var id uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM matches WHERE display_id=?", displayID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reservations WHERE match_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}

// recomputeMatchCapacityTx rewrites a match's derived counter fields from the
// live count of active reservations. Every write path that adds or removes an
// active reservation calls this inside the same transaction.
func recomputeMatchCapacityTx(ctx context.Context, tx *sql.Tx, matchID uint64) error {
	var active, max uint32
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE match_id=? AND status='active'", matchID).Scan(&active); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx,
		"SELECT maximum_players FROM matches WHERE id=?", matchID).Scan(&max); err != nil {
		return err
	}
	c := ComputeCapacity(max, active)
	_, err := tx.ExecContext(ctx,
		"UPDATE matches SET current_players=?, spots_left=?, is_full=? WHERE id=?",
		c.CurrentPlayers, c.SpotsLeft, c.IsFull, matchID)
	return err
}
