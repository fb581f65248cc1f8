// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Stadium model and repository methods for CRUD,
// cascade deletion and keyword search. A Stadium is a venue that owns one or
// more sub-fields; deleting it takes the sub-fields, their matches and every
// reservation on those matches with it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Stadium mirrors the 'stadiums' table. DisplayID is the sequential
// human-facing identifier allocated from the counters table and is the value
// exposed in URLs; ID stays internal.
type Stadium struct {
	ID                   uint64
	DisplayID            uint64
	Name                 string
	Province             string
	City                 string
	District             string
	Address              string
	Shower               bool
	FreeParking          bool
	ShoesRental          bool
	VestRental           bool
	BallRental           bool
	DrinkSale            bool
	ToiletGenderDivision bool
	ImageURL             string
	ThumbnailURL         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	SubFields            []SubField
}

// ErrStadiumNotFound indicates that a stadium was not located in the DB.
var ErrStadiumNotFound = errors.New("stadium not found")

// StadiumRepo encapsulates all database queries related to stadiums.
type StadiumRepo struct {
	db *sql.DB
}

func NewStadiumRepo(db *sql.DB) *StadiumRepo {
	return &StadiumRepo{db: db}
}

const stadiumCols = `id, display_id, name, province, city, district, address,
	shower, free_parking, shoes_rental, vest_rental, ball_rental, drink_sale,
	toilet_gender_division, image_url, thumbnail_url, created_at, updated_at`

func scanStadium(sc interface{ Scan(...any) error }, s *Stadium) error {
	return sc.Scan(&s.ID, &s.DisplayID, &s.Name, &s.Province, &s.City, &s.District, &s.Address,
		&s.Shower, &s.FreeParking, &s.ShoesRental, &s.VestRental, &s.BallRental, &s.DrinkSale,
		&s.ToiletGenderDivision, &s.ImageURL, &s.ThumbnailURL, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a stadium and any inline sub-fields in one transaction. Each
// record gets its sequential display ID from the counters table; on success
// the generated IDs are populated on the passed structs.
func (r *StadiumRepo) Create(ctx context.Context, s *Stadium, subFields []SubField) error {
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

	if s.DisplayID, err = nextCounterTx(ctx, tx, "stadium"); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO stadiums (display_id, name, province, city, district, address,
			shower, free_parking, shoes_rental, vest_rental, ball_rental, drink_sale, toilet_gender_division)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.DisplayID, s.Name, s.Province, s.City, s.District, s.Address,
		s.Shower, s.FreeParking, s.ShoesRental, s.VestRental, s.BallRental, s.DrinkSale, s.ToiletGenderDivision)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	s.ID = uint64(id)

	for i := range subFields {
		sf := &subFields[i]
		sf.StadiumID = s.ID
		if err = createSubFieldTx(ctx, tx, sf); err != nil {
			return err
		}
	}
	s.SubFields = subFields
	return nil
}

// GetByDisplayID returns a stadium and its sub-fields.
func (r *StadiumRepo) GetByDisplayID(ctx context.Context, displayID uint64) (*Stadium, error) {
	var s Stadium
	err := scanStadium(r.db.QueryRowContext(ctx,
		"SELECT "+stadiumCols+" FROM stadiums WHERE display_id = ?", displayID), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStadiumNotFound
		}
		return nil, err
	}
	if s.SubFields, err = r.subFieldsOf(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAll returns every stadium with its sub-fields attached. Sub-fields are
// fetched in a single query and grouped in memory.
func (r *StadiumRepo) ListAll(ctx context.Context) ([]*Stadium, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+stadiumCols+" FROM stadiums ORDER BY display_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Stadium
	index := map[uint64]*Stadium{}
	for rows.Next() {
		s := &Stadium{}
		if err := scanStadium(rows, s); err != nil {
			return nil, err
		}
		s.SubFields = []SubField{}
		index[s.ID] = s
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	sfRows, err := r.db.QueryContext(ctx,
		"SELECT "+subFieldCols+" FROM sub_fields ORDER BY stadium_id, display_id")
	if err != nil {
		return nil, err
	}
	defer sfRows.Close()
	for sfRows.Next() {
		var sf SubField
		if err := scanSubField(sfRows, &sf); err != nil {
			return nil, err
		}
		if s, ok := index[sf.StadiumID]; ok {
			s.SubFields = append(s.SubFields, sf)
		}
	}
	return out, sfRows.Err()
}

// Update changes name, location and facility flags for the stadium with the
// given display ID.
func (r *StadiumRepo) Update(ctx context.Context, s *Stadium) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stadiums SET name=?, province=?, city=?, district=?, address=?,
			shower=?, free_parking=?, shoes_rental=?, vest_rental=?, ball_rental=?,
			drink_sale=?, toilet_gender_division=?
		 WHERE display_id=?`,
		s.Name, s.Province, s.City, s.District, s.Address,
		s.Shower, s.FreeParking, s.ShoesRental, s.VestRental, s.BallRental,
		s.DrinkSale, s.ToiletGenderDivision, s.DisplayID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM stadiums WHERE display_id=?", s.DisplayID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStadiumNotFound
			}
			return err
		}
	}
	return nil
}

// SetImages stores uploaded image URLs for the stadium.
func (r *StadiumRepo) SetImages(ctx context.Context, displayID uint64, imageURL, thumbURL string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE stadiums SET image_url=?, thumbnail_url=? WHERE display_id=?",
		imageURL, thumbURL, displayID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStadiumNotFound
	}
	return nil
}

// Delete removes a stadium and all dependent records: reservations on matches
// of its sub-fields, those matches, the sub-fields, then the stadium itself.
// The whole cascade runs in one transaction so a failure leaves nothing
// half-deleted.
func (r *StadiumRepo) Delete(ctx context.Context, displayID uint64) error {
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
		"SELECT id FROM stadiums WHERE display_id=?", displayID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStadiumNotFound
		}
		return err
	}

	// Reservations on matches played on this stadium's sub-fields.
	if _, err = tx.ExecContext(ctx,
		`DELETE res FROM reservations res
		 JOIN matches m ON m.id = res.match_id
		 JOIN sub_fields sf ON sf.id = m.sub_field_id
		 WHERE sf.stadium_id = ?`, id); err != nil {
		return err
	}
	// Matches on this stadium's sub-fields.
	if _, err = tx.ExecContext(ctx,
		`DELETE m FROM matches m
		 JOIN sub_fields sf ON sf.id = m.sub_field_id
		 WHERE sf.stadium_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM sub_fields WHERE stadium_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM stadiums WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}

// subFieldsOf returns the sub-fields of one stadium, ordered by display ID.
func (r *StadiumRepo) subFieldsOf(ctx context.Context, stadiumID uint64) ([]SubField, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+subFieldCols+" FROM sub_fields WHERE stadium_id = ? ORDER BY display_id", stadiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SubField{}
	for rows.Next() {
		var sf SubField
		if err := scanSubField(rows, &sf); err != nil {
			return nil, err
		}
		out = append(out, sf)
	}
	return out, rows.Err()
}

// SearchRow is the reduced projection returned by keyword search.
type SearchRow struct {
	DisplayID uint64 `json:"id"`
	Name      string `json:"name"`
	Province  string `json:"province"`
	City      string `json:"city"`
	District  string `json:"district"`
	Address   string `json:"address"`
}

// Search performs a case-insensitive substring match over stadium name and
// location columns.
func (r *StadiumRepo) Search(ctx context.Context, keyword string) ([]SearchRow, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
	const q = `SELECT display_id, name, province, city, district, address
		FROM stadiums
		WHERE LOWER(name) LIKE ?
		   OR LOWER(province) LIKE ?
		   OR LOWER(city) LIKE ?
		   OR LOWER(district) LIKE ?
		   OR LOWER(address) LIKE ?
		ORDER BY display_id`
	rows, err := r.db.QueryContext(ctx, q, kw, kw, kw, kw, kw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SearchRow{}
	for rows.Next() {
		var row SearchRow
		if err := rows.Scan(&row.DisplayID, &row.Name, &row.Province, &row.City, &row.District, &row.Address); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
