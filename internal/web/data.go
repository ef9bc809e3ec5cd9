// Package web serves the ownership-scoped data surface. Every route
// here runs behind the session middleware; the owner identity read from
// the request context is trusted, everything in the request itself is
// not.
//
// Failures deliberately leak nothing: rejected writes, missing rows,
// and unknown kinds all collapse to 404, so a caller cannot distinguish
// "does not exist" from "not yours". Only a body that fails to parse as
// JSON earns a 400.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/waypost/waypost/internal/auth"
	"github.com/waypost/waypost/internal/metrics"
	"github.com/waypost/waypost/internal/records"
	"github.com/waypost/waypost/internal/store"
)

// Handler serves /data.
type Handler struct {
	store   *store.Store
	metrics *metrics.Metrics
}

// NewHandler builds the data-surface handler.
func NewHandler(st *store.Store, m *metrics.Metrics) *Handler {
	return &Handler{store: st, metrics: m}
}

// RegisterRoutes mounts the data surface on the mux. The caller wraps
// the mux in auth.RequireSession.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /data/whoami", h.handleWhoAmI)
	mux.HandleFunc("GET /data/{kind}", h.handleList)
	mux.HandleFunc("GET /data/{kind}/{id}", h.handleGet)
	mux.HandleFunc("POST /data/{kind}", h.handleCreate)
	mux.HandleFunc("PUT /data/{kind}", h.handleUpdate)
	mux.HandleFunc("DELETE /data/{kind}/{id}", h.handleDelete)
}

func (h *Handler) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		notFound(w)
		return
	}
	user, err := store.Get[records.User](h.store, ownerID)
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := records.ParseKind(r.PathValue("kind"))
	if !ok {
		notFound(w)
		return
	}
	h.metrics.DataOps.WithLabelValues(string(kind), "list").Inc()
	switch kind {
	case records.KindUser:
		list[records.User](h, w, r, kind)
	case records.KindNote:
		list[records.Note](h, w, r, kind)
	case records.KindComment:
		list[records.Comment](h, w, r, kind)
	case records.KindPunch:
		list[records.Punch](h, w, r, kind)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := records.ParseKind(r.PathValue("kind"))
	if !ok {
		notFound(w)
		return
	}
	h.metrics.DataOps.WithLabelValues(string(kind), "get").Inc()
	switch kind {
	case records.KindUser:
		get[records.User](h, w, r)
	case records.KindNote:
		get[records.Note](h, w, r)
	case records.KindComment:
		get[records.Comment](h, w, r)
	case records.KindPunch:
		get[records.Punch](h, w, r)
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := records.ParseKind(r.PathValue("kind"))
	if !ok {
		notFound(w)
		return
	}
	h.metrics.DataOps.WithLabelValues(string(kind), "create").Inc()
	switch kind {
	case records.KindUser:
		create[records.User](h, w, r, &records.RequestUser{})
	case records.KindNote:
		create[records.Note](h, w, r, &records.RequestNote{})
	case records.KindComment:
		create[records.Comment](h, w, r, &records.RequestComment{})
	case records.KindPunch:
		create[records.Punch](h, w, r, &records.RequestPunch{})
	}
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := records.ParseKind(r.PathValue("kind"))
	if !ok {
		notFound(w)
		return
	}
	h.metrics.DataOps.WithLabelValues(string(kind), "update").Inc()
	switch kind {
	case records.KindUser:
		update[records.User](h, w, r, &records.RequestUser{})
	case records.KindNote:
		update[records.Note](h, w, r, &records.RequestNote{})
	case records.KindComment:
		update[records.Comment](h, w, r, &records.RequestComment{})
	case records.KindPunch:
		update[records.Punch](h, w, r, &records.RequestPunch{})
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := records.ParseKind(r.PathValue("kind"))
	if !ok {
		notFound(w)
		return
	}
	h.metrics.DataOps.WithLabelValues(string(kind), "delete").Inc()
	switch kind {
	case records.KindUser:
		del[records.User](h, w, r)
	case records.KindNote:
		del[records.Note](h, w, r)
	case records.KindComment:
		del[records.Comment](h, w, r)
	case records.KindPunch:
		del[records.Punch](h, w, r)
	}
}

func list[T store.Record[T]](h *Handler, w http.ResponseWriter, r *http.Request, kind records.Kind) {
	criteria := kind.ParseQueries(r.URL.Query())
	items, err := store.GetQueries[T](h.store, criteria)
	if err != nil {
		slog.Warn("list failed", "kind", string(kind), "err", err)
		notFound(w)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, items)
}

func get[T store.Record[T]](h *Handler, w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		notFound(w)
		return
	}
	rec, err := store.Get[T](h.store, id)
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, rec)
}

func create[T store.Record[T]](h *Handler, w http.ResponseWriter, r *http.Request, req records.Request) {
	if !decodeBody(w, r, req) {
		return
	}
	if err := req.ValidateCreate(assertedOwner(r)); err != nil {
		slog.Debug("create rejected", "err", err)
		notFound(w)
		return
	}
	rec, err := store.Create[T](h.store, req)
	if err != nil {
		slog.Debug("create failed", "err", err)
		notFound(w)
		return
	}
	writeJSON(w, rec)
}

func update[T store.Record[T]](h *Handler, w http.ResponseWriter, r *http.Request, req records.Request) {
	if !decodeBody(w, r, req) {
		return
	}
	if err := req.ValidateUpdate(assertedOwner(r)); err != nil {
		slog.Debug("update rejected", "err", err)
		notFound(w)
		return
	}
	rec, err := store.Update[T](h.store, req)
	if err != nil {
		slog.Debug("update failed", "err", err)
		notFound(w)
		return
	}
	writeJSON(w, rec)
}

func del[T store.Record[T]](h *Handler, w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		notFound(w)
		return
	}
	rec, err := store.Delete[T](h.store, id, assertedOwner(r))
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, rec)
}

// assertedOwner lifts the middleware-injected owner id into the
// pointer form the validation and delete contracts take.
func assertedOwner(r *http.Request) *int64 {
	id, ok := auth.OwnerID(r.Context())
	if !ok {
		return nil
	}
	return &id
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

func notFound(w http.ResponseWriter) {
	http.Error(w, "Not Found", http.StatusNotFound)
}
