package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/query"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/store"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")

	opts := query.ParseOptions(r.URL.Query())
	env := s.pipeline.Query(tenant, collection, opts, r.URL.Path)
	env.Context = s.metadataContext(r, tenant, collection)

	s.respond(w, http.StatusOK, env)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	item := s.store.GetByID(tenant, collection, id)
	if item == nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("no document %q in %s/%s", id, tenant, collection))
		return
	}

	// Single-entity responses carry the context annotation inline,
	// ahead of the document's own fields.
	out := entity.NewObject()
	out.Set("@odata.context", entity.String(s.metadataContext(r, tenant, collection)))
	for _, key := range item.Keys() {
		v, _ := item.Get(key)
		out.Set(key, v)
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")

	doc, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	stored := s.store.Insert(tenant, collection, doc, store.InsertOptions{
		Timestamps: s.cfg.Timestamps,
	})

	w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, stored.StringField(store.FieldID)))
	s.respond(w, http.StatusCreated, stored)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	doc, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	stored := s.store.Replace(tenant, collection, id, doc)
	if stored == nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("no document %q in %s/%s", id, tenant, collection))
		return
	}
	s.respond(w, http.StatusOK, stored)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	partial, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	stored := s.store.Merge(tenant, collection, id, partial)
	if stored == nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("no document %q in %s/%s", id, tenant, collection))
		return
	}
	s.respond(w, http.StatusOK, stored)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if !s.store.Remove(tenant, collection, id) {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("no document %q in %s/%s", id, tenant, collection))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	collection := chi.URLParam(r, "collection")

	s.store.Reset(tenant, collection)
	s.log.Info().Str("tenant", tenant).Str("collection", collection).Msg("collection reset")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (*entity.Object, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return nil, false
	}
	doc, err := entity.DecodeObject(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "request body must be a JSON object: "+err.Error())
		return nil, false
	}
	return doc, true
}

// metadataContext formats the @odata.context annotation for a collection.
func (s *Server) metadataContext(r *http.Request, tenant, collection string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/api/%s/$metadata#%s", scheme, r.Host, tenant, collection)
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	// Keep & in @odata.nextLink readable.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, errorBody{Error: errorDetail{
		Code:    http.StatusText(status),
		Message: message,
	}})
}
