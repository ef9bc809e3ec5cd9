package records

import (
	"database/sql"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/store"
)

// Punch is an owned location check-in; geo is an opaque location string.
type Punch struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Geo     string `json:"geo"`
}

func (Punch) Table() string       { return "punches" }
func (Punch) Columns() []string   { return []string{"id", "owner_id", "geo"} }
func (Punch) IDColumn() string    { return "id" }
func (Punch) OwnerColumn() string { return "owner_id" }

func (Punch) ScanRow(rows *sql.Rows) (Punch, error) {
	var p Punch
	err := rows.Scan(&p.ID, &p.OwnerID, &p.Geo)
	return p, err
}

// RequestPunch is the optional-field write shape for punches.
type RequestPunch struct {
	ID      *int64  `json:"id,omitempty"`
	OwnerID *int64  `json:"owner_id,omitempty"`
	Geo     *string `json:"geo,omitempty"`
}

func (r *RequestPunch) ValidateCreate(assertedOwnerID *int64) error {
	if r.OwnerID == nil {
		return errs.MissingRequiredOnCreate("owner_id")
	}
	if assertedOwnerID != nil && *assertedOwnerID != *r.OwnerID {
		return errs.InvalidOwnerID(*r.OwnerID, *assertedOwnerID)
	}
	if r.Geo == nil {
		return errs.MissingRequiredOnCreate("geo")
	}
	if r.ID != nil {
		return errs.IDProvidedOnCreate()
	}
	return nil
}

func (r *RequestPunch) ValidateUpdate(assertedOwnerID *int64) error {
	if r.OwnerID == nil {
		return errs.MissingRequiredOnCreate("owner_id")
	}
	if assertedOwnerID != nil && *assertedOwnerID != *r.OwnerID {
		return errs.InvalidOwnerID(*r.OwnerID, *assertedOwnerID)
	}
	if r.ID == nil {
		return errs.MissingIDOnUpdate()
	}
	return nil
}

func (r *RequestPunch) PresentColumns() []string {
	var cols []string
	if r.ID != nil {
		cols = append(cols, "id")
	}
	if r.OwnerID != nil {
		cols = append(cols, "owner_id")
	}
	if r.Geo != nil {
		cols = append(cols, "geo")
	}
	return cols
}

func (r *RequestPunch) Args() []any {
	var args []any
	if r.ID != nil {
		args = append(args, *r.ID)
	}
	if r.OwnerID != nil {
		args = append(args, *r.OwnerID)
	}
	if r.Geo != nil {
		args = append(args, *r.Geo)
	}
	return args
}

func (r *RequestPunch) Placeholders() string {
	return placeholders(len(r.PresentColumns()))
}

func (r *RequestPunch) GetID() *int64      { return r.ID }
func (r *RequestPunch) GetOwnerID() *int64 { return r.OwnerID }

func punchCriteria(key, value string) (store.Criteria, bool) {
	switch key {
	case "byOwnerId":
		return ownerIDCriteria(value)
	}
	return nil, false
}
