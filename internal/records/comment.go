package records

import (
	"database/sql"
	"log/slog"
	"strconv"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/store"
)

// Comment is an owned text record attached to a note.
type Comment struct {
	ID       int64  `json:"id"`
	OwnerID  int64  `json:"owner_id"`
	NoteID   int64  `json:"note_id"`
	Contents string `json:"contents"`
}

func (Comment) Table() string       { return "comments" }
func (Comment) Columns() []string   { return []string{"id", "owner_id", "note_id", "contents"} }
func (Comment) IDColumn() string    { return "id" }
func (Comment) OwnerColumn() string { return "owner_id" }

func (Comment) ScanRow(rows *sql.Rows) (Comment, error) {
	var c Comment
	err := rows.Scan(&c.ID, &c.OwnerID, &c.NoteID, &c.Contents)
	return c, err
}

// RequestComment is the optional-field write shape for comments.
type RequestComment struct {
	ID       *int64  `json:"id,omitempty"`
	OwnerID  *int64  `json:"owner_id,omitempty"`
	NoteID   *int64  `json:"note_id,omitempty"`
	Contents *string `json:"contents,omitempty"`
}

func (r *RequestComment) ValidateCreate(assertedOwnerID *int64) error {
	if r.OwnerID == nil {
		return errs.MissingRequiredOnCreate("owner_id")
	}
	if assertedOwnerID != nil && *assertedOwnerID != *r.OwnerID {
		return errs.InvalidOwnerID(*r.OwnerID, *assertedOwnerID)
	}
	if r.Contents == nil {
		return errs.MissingRequiredOnCreate("contents")
	}
	if r.NoteID == nil {
		return errs.MissingRequiredOnCreate("note_id")
	}
	if r.ID != nil {
		return errs.IDProvidedOnCreate()
	}
	return nil
}

func (r *RequestComment) ValidateUpdate(assertedOwnerID *int64) error {
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

func (r *RequestComment) PresentColumns() []string {
	var cols []string
	if r.ID != nil {
		cols = append(cols, "id")
	}
	if r.OwnerID != nil {
		cols = append(cols, "owner_id")
	}
	if r.NoteID != nil {
		cols = append(cols, "note_id")
	}
	if r.Contents != nil {
		cols = append(cols, "contents")
	}
	return cols
}

func (r *RequestComment) Args() []any {
	var args []any
	if r.ID != nil {
		args = append(args, *r.ID)
	}
	if r.OwnerID != nil {
		args = append(args, *r.OwnerID)
	}
	if r.NoteID != nil {
		args = append(args, *r.NoteID)
	}
	if r.Contents != nil {
		args = append(args, *r.Contents)
	}
	return args
}

func (r *RequestComment) Placeholders() string {
	return placeholders(len(r.PresentColumns()))
}

func (r *RequestComment) GetID() *int64      { return r.ID }
func (r *RequestComment) GetOwnerID() *int64 { return r.OwnerID }

func commentCriteria(key, value string) (store.Criteria, bool) {
	switch key {
	case "byOwnerId":
		return ownerIDCriteria(value)
	case "byNoteId":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			slog.Debug("dropping unparseable id filter", "value", value)
			return nil, false
		}
		return store.Equals("note_id", id), true
	case "byContentsContains":
		return store.Contains("contents", value), true
	}
	return nil, false
}
