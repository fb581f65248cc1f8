package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SubField mirrors the 'sub_fields' table. Every sub-field belongs to exactly
// one stadium; StadiumID is the internal FK while DisplayID is the value used
// in URLs.
type SubField struct {
	ID        uint64
	DisplayID uint64
	StadiumID uint64
	FieldName string
	Width     uint32
	Height    uint32
	Indoor    bool
	Surface   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrSubFieldNotFound indicates that a sub-field was not located in the DB.
var ErrSubFieldNotFound = errors.New("sub-field not found")

// SubFieldRepo manages persistence for sub-fields.
type SubFieldRepo struct {
	db *sql.DB
}

func NewSubFieldRepo(db *sql.DB) *SubFieldRepo {
	return &SubFieldRepo{db: db}
}

const subFieldCols = "id, display_id, stadium_id, field_name, width, height, indoor, surface, created_at, updated_at"

func scanSubField(sc interface{ Scan(...any) error }, sf *SubField) error {
	return sc.Scan(&sf.ID, &sf.DisplayID, &sf.StadiumID, &sf.FieldName,
		&sf.Width, &sf.Height, &sf.Indoor, &sf.Surface, &sf.CreatedAt, &sf.UpdatedAt)
}

// createSubFieldTx inserts a sub-field inside the caller's transaction,
// allocating its display ID from the counters table. Surface defaults to
// "grass" when empty.
func createSubFieldTx(ctx context.Context, tx *sql.Tx, sf *SubField) error {
	var err error
	if sf.DisplayID, err = nextCounterTx(ctx, tx, "subField"); err != nil {
		return err
	}
	if sf.Surface == "" {
		sf.Surface = "grass"
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sub_fields (display_id, stadium_id, field_name, width, height, indoor, surface)
		 VALUES (?,?,?,?,?,?,?)`,
		sf.DisplayID, sf.StadiumID, sf.FieldName, sf.Width, sf.Height, sf.Indoor, sf.Surface)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sf.ID = uint64(id)
	return nil
}

// Create inserts a sub-field under the stadium with the given display ID.
// Returns ErrStadiumNotFound when the stadium does not exist.
func (r *SubFieldRepo) Create(ctx context.Context, stadiumDisplayID uint64, sf *SubField) error {
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

	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM stadiums WHERE display_id=?", stadiumDisplayID).Scan(&sf.StadiumID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStadiumNotFound
		}
		return err
	}
	err = createSubFieldTx(ctx, tx, sf)
	return err
}

// GetByDisplayID returns a sub-field by its display ID.
func (r *SubFieldRepo) GetByDisplayID(ctx context.Context, displayID uint64) (*SubField, error) {
	var sf SubField
	err := scanSubField(r.db.QueryRowContext(ctx,
		"SELECT "+subFieldCols+" FROM sub_fields WHERE display_id = ?", displayID), &sf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubFieldNotFound
		}
		return nil, err
	}
	return &sf, nil
}

// Update changes the mutable attributes of a sub-field.
func (r *SubFieldRepo) Update(ctx context.Context, sf *SubField) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sub_fields SET field_name=?, width=?, height=?, indoor=?, surface=?
		 WHERE display_id=?`,
		sf.FieldName, sf.Width, sf.Height, sf.Indoor, sf.Surface, sf.DisplayID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM sub_fields WHERE display_id=?", sf.DisplayID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubFieldNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a sub-field and cascades to its matches and their
// reservations inside one transaction.
func (r *SubFieldRepo) Delete(ctx context.Context, displayID uint64) error {
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
		"SELECT id FROM sub_fields WHERE display_id=?", displayID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubFieldNotFound
		}
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE res FROM reservations res
		 JOIN matches m ON m.id = res.match_id
		 WHERE m.sub_field_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM matches WHERE sub_field_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM sub_fields WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
