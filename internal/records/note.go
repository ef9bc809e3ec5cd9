package records

import (
	"database/sql"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/store"
)

// Note is an owned text record.
type Note struct {
	ID       int64  `json:"id"`
	OwnerID  int64  `json:"owner_id"`
	Contents string `json:"contents"`
}

func (Note) Table() string       { return "notes" }
func (Note) Columns() []string   { return []string{"id", "owner_id", "contents"} }
func (Note) IDColumn() string    { return "id" }
func (Note) OwnerColumn() string { return "owner_id" }

func (Note) ScanRow(rows *sql.Rows) (Note, error) {
	var n Note
	err := rows.Scan(&n.ID, &n.OwnerID, &n.Contents)
	return n, err
}

// RequestNote is the optional-field write shape for notes.
type RequestNote struct {
	ID       *int64  `json:"id,omitempty"`
	OwnerID  *int64  `json:"owner_id,omitempty"`
	Contents *string `json:"contents,omitempty"`
}

func (r *RequestNote) ValidateCreate(assertedOwnerID *int64) error {
	if r.OwnerID == nil {
		return errs.MissingRequiredOnCreate("owner_id")
	}
	if assertedOwnerID != nil && *assertedOwnerID != *r.OwnerID {
		return errs.InvalidOwnerID(*r.OwnerID, *assertedOwnerID)
	}
	if r.Contents == nil {
		return errs.MissingRequiredOnCreate("contents")
	}
	if r.ID != nil {
		return errs.IDProvidedOnCreate()
	}
	return nil
}

func (r *RequestNote) ValidateUpdate(assertedOwnerID *int64) error {
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

func (r *RequestNote) PresentColumns() []string {
	var cols []string
	if r.ID != nil {
		cols = append(cols, "id")
	}
	if r.OwnerID != nil {
		cols = append(cols, "owner_id")
	}
	if r.Contents != nil {
		cols = append(cols, "contents")
	}
	return cols
}

func (r *RequestNote) Args() []any {
	var args []any
	if r.ID != nil {
		args = append(args, *r.ID)
	}
	if r.OwnerID != nil {
		args = append(args, *r.OwnerID)
	}
	if r.Contents != nil {
		args = append(args, *r.Contents)
	}
	return args
}

func (r *RequestNote) Placeholders() string {
	return placeholders(len(r.PresentColumns()))
}

func (r *RequestNote) GetID() *int64      { return r.ID }
func (r *RequestNote) GetOwnerID() *int64 { return r.OwnerID }

func noteCriteria(key, value string) (store.Criteria, bool) {
	switch key {
	case "byOwnerId":
		return ownerIDCriteria(value)
	case "byContentsContains":
		return store.Contains("contents", value), true
	}
	return nil, false
}
