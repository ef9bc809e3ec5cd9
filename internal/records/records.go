// Package records defines the record kinds the service stores and their
// capability contracts: the persisted-record descriptors consumed by the
// generic store, the optional-field request shapes with their validation
// rules, and the per-kind query-filter vocabulary.
//
// Every write carries an asserted owner identity (the authenticated
// caller, when known). Validation rejects payloads whose owner field
// contradicts it; when no identity is asserted the payload owner is
// accepted as-is.
package records

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/waypost/waypost/internal/store"
)

// Kind names a record kind as it appears in request paths.
type Kind string

const (
	KindUser    Kind = "user"
	KindNote    Kind = "note"
	KindComment Kind = "comment"
	KindPunch   Kind = "punch"
)

// ParseKind maps a path segment to a kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindUser, KindNote, KindComment, KindPunch:
		return Kind(s), true
	}
	return "", false
}

// Request is the validated write shape for any kind: the store's write
// contract plus the create/update validation rules.
type Request interface {
	store.Request
	ValidateCreate(assertedOwnerID *int64) error
	ValidateUpdate(assertedOwnerID *int64) error
}

// ParseQueries builds the criteria list for a kind from URL query
// parameters. Unrecognized keys, and values that fail to parse, are
// dropped rather than rejected.
func (k Kind) ParseQueries(values url.Values) []store.Criteria {
	var criteria []store.Criteria
	for key := range values {
		value := values.Get(key)
		c, ok := k.criteriaFor(key, value)
		if !ok {
			slog.Debug("dropping unrecognized query", "kind", string(k), "key", key)
			continue
		}
		criteria = append(criteria, c)
	}
	return criteria
}

func (k Kind) criteriaFor(key, value string) (store.Criteria, bool) {
	switch k {
	case KindUser:
		return userCriteria(key, value)
	case KindNote:
		return noteCriteria(key, value)
	case KindComment:
		return commentCriteria(key, value)
	case KindPunch:
		return punchCriteria(key, value)
	}
	return nil, false
}

func ownerIDCriteria(value string) (store.Criteria, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		slog.Debug("dropping unparseable id filter", "value", value)
		return nil, false
	}
	return store.Equals("owner_id", id), true
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
