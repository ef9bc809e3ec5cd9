package records

import (
	"database/sql"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/store"
)

// User is an identity record. The guid is the external identity in
// `<provider>/<provider-user-id>` form, e.g. "google/1234"; it is unique
// by convention. A user owns itself: its owner column is its id column.
type User struct {
	ID      int64  `json:"id"`
	GUID    string `json:"guid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (User) Table() string       { return "users" }
func (User) Columns() []string   { return []string{"id", "guid", "name", "email", "picture"} }
func (User) IDColumn() string    { return "id" }
func (User) OwnerColumn() string { return "id" }

func (User) ScanRow(rows *sql.Rows) (User, error) {
	var u User
	err := rows.Scan(&u.ID, &u.GUID, &u.Name, &u.Email, &u.Picture)
	return u, err
}

// RequestUser is the optional-field write shape for users.
type RequestUser struct {
	ID      *int64  `json:"id,omitempty"`
	GUID    *string `json:"guid,omitempty"`
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Picture *string `json:"picture,omitempty"`
}

// ValidateCreate checks a user create. Because a user owns itself the
// owner-consistency rule is phrased in terms of id; an absent id is the
// normal create case, not a missing owner.
func (r *RequestUser) ValidateCreate(assertedOwnerID *int64) error {
	if r.ID != nil && assertedOwnerID != nil && *assertedOwnerID != *r.ID {
		return errs.InvalidOwnerID(*r.ID, *assertedOwnerID)
	}
	if r.GUID == nil {
		return errs.MissingRequiredOnCreate("guid")
	}
	if r.Name == nil {
		return errs.MissingRequiredOnCreate("name")
	}
	if r.Email == nil {
		return errs.MissingRequiredOnCreate("email")
	}
	if r.Picture == nil {
		return errs.MissingRequiredOnCreate("picture")
	}
	if r.ID != nil {
		return errs.IDProvidedOnCreate()
	}
	return nil
}

// ValidateUpdate checks a user update; the id doubles as the owner.
func (r *RequestUser) ValidateUpdate(assertedOwnerID *int64) error {
	if r.ID == nil {
		return errs.MissingIDOnUpdate()
	}
	if assertedOwnerID != nil && *assertedOwnerID != *r.ID {
		return errs.InvalidOwnerID(*r.ID, *assertedOwnerID)
	}
	return nil
}

func (r *RequestUser) PresentColumns() []string {
	var cols []string
	if r.ID != nil {
		cols = append(cols, "id")
	}
	if r.GUID != nil {
		cols = append(cols, "guid")
	}
	if r.Name != nil {
		cols = append(cols, "name")
	}
	if r.Email != nil {
		cols = append(cols, "email")
	}
	if r.Picture != nil {
		cols = append(cols, "picture")
	}
	return cols
}

func (r *RequestUser) Args() []any {
	var args []any
	if r.ID != nil {
		args = append(args, *r.ID)
	}
	if r.GUID != nil {
		args = append(args, *r.GUID)
	}
	if r.Name != nil {
		args = append(args, *r.Name)
	}
	if r.Email != nil {
		args = append(args, *r.Email)
	}
	if r.Picture != nil {
		args = append(args, *r.Picture)
	}
	return args
}

func (r *RequestUser) Placeholders() string {
	return placeholders(len(r.PresentColumns()))
}

func (r *RequestUser) GetID() *int64 { return r.ID }

// GetOwnerID returns the id: a user owns itself.
func (r *RequestUser) GetOwnerID() *int64 { return r.ID }

func userCriteria(key, value string) (store.Criteria, bool) {
	switch key {
	case "byGuid":
		return store.Equals("guid", value), true
	}
	return nil, false
}
