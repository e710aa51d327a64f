package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/matzehuels/labelspread/pkg/errors"
	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/pipeline"
	"github.com/matzehuels/labelspread/pkg/place"
)

// maxBodyBytes caps request bodies. Label sets are small; anything near
// this limit is malformed or abusive.
const maxBodyBytes = 1 << 20

// =============================================================================
// Request / response shapes
// =============================================================================

// placementRequest is the body of POST /api/v1/placements. Callers pass
// either bare anchors (labels named by ordinal) or full labels.
type placementRequest struct {
	Anchors    []int          `json:"anchors,omitempty"`
	Labels     []labels.Label `json:"labels,omitempty"`
	Separation int            `json:"separation"`
	Limits     *labels.Limits `json:"limits,omitempty"`
	Name       string         `json:"name,omitempty"`
}

// createSetRequest is the body of POST /api/v1/sets. The ID is optional;
// the server assigns a UUID when it is absent.
type createSetRequest struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Separation int            `json:"separation"`
	Limits     *labels.Limits `json:"limits,omitempty"`
	Labels     []labels.Label `json:"labels"`
}

type setListResponse struct {
	Sets  []*StoredSet `json:"sets"`
	Count int          `json:"count"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePlacements arranges a one-shot placement without storing anything.
func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if len(req.Anchors) > 0 && len(req.Labels) > 0 {
		s.respondError(w, r, apierrors.New(apierrors.ErrCodeInvalidInput,
			"specify anchors or labels, not both"))
		return
	}

	set := &labels.Set{
		Name:       req.Name,
		Separation: req.Separation,
		Limits:     req.Limits,
		Labels:     req.Labels,
	}
	if len(req.Anchors) > 0 {
		set = labels.FromAnchors(req.Anchors, req.Separation, req.Limits)
		set.Name = req.Name
	}
	if len(set.Labels) == 0 {
		s.respondError(w, r, apierrors.New(apierrors.ErrCodeInvalidInput,
			"at least one anchor or label is required"))
		return
	}
	if err := set.Validate(); err != nil {
		s.respondError(w, r, apierrors.Wrap(apierrors.ErrCodeInvalidSet, err,
			"invalid label set: %v", err))
		return
	}

	res, err := s.runner.Arrange(r.Context(), set, pipeline.Options{})
	if err != nil {
		s.respondError(w, r, arrangeError(err))
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

// handleCreateSet stores a label set. Replacing an existing ID keeps its
// creation time and answers 200 instead of 201.
func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	} else if err := apierrors.ValidateSetID(id); err != nil {
		s.respondError(w, r, err)
		return
	}

	set := &labels.Set{
		Name:       req.Name,
		Separation: req.Separation,
		Limits:     req.Limits,
		Labels:     req.Labels,
	}
	if len(set.Labels) == 0 {
		s.respondError(w, r, apierrors.New(apierrors.ErrCodeInvalidInput,
			"at least one label is required"))
		return
	}
	if err := set.Validate(); err != nil {
		s.respondError(w, r, apierrors.Wrap(apierrors.ErrCodeInvalidSet, err,
			"invalid label set: %v", err))
		return
	}

	now := time.Now().UTC()
	stored := &StoredSet{ID: id, Set: set, CreatedAt: now, UpdatedAt: now}

	status := http.StatusCreated
	existing, err := s.store.Get(r.Context(), id)
	switch {
	case err == nil:
		stored.CreatedAt = existing.CreatedAt
		status = http.StatusOK
	case !errors.Is(err, ErrSetNotFound):
		s.respondError(w, r, storeError(err))
		return
	}

	if err := s.store.Put(r.Context(), stored); err != nil {
		s.respondError(w, r, storeError(err))
		return
	}
	s.respondJSON(w, status, stored)
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, storeError(err))
		return
	}
	if sets == nil {
		sets = []*StoredSet{}
	}
	s.respondJSON(w, http.StatusOK, setListResponse{Sets: sets, Count: len(sets)})
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	stored, err := s.loadSet(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "setID")
	if err := apierrors.ValidateSetID(id); err != nil {
		s.respondError(w, r, err)
		return
	}

	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrSetNotFound):
		s.respondError(w, r, apierrors.New(apierrors.ErrCodeSetNotFound,
			"set %q not found", id))
		return
	case err != nil:
		s.respondError(w, r, storeError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetResult arranges a stored set, honoring separation/min/max/refresh
// query overrides.
func (s *Server) handleSetResult(w http.ResponseWriter, r *http.Request) {
	stored, err := s.loadSet(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts, err := placementOverrides(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.runner.Arrange(r.Context(), stored.Set, opts)
	if err != nil {
		s.respondError(w, r, arrangeError(err))
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

// handleSetPreview renders a stored set as SVG. Placement overrides apply
// as on /result; theme, width and height shape the drawing.
func (s *Server) handleSetPreview(w http.ResponseWriter, r *http.Request) {
	stored, err := s.loadSet(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts, err := placementOverrides(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := previewOverrides(r, &opts); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	res, err := s.runner.Arrange(r.Context(), stored.Set, opts)
	if err != nil {
		s.respondError(w, r, arrangeError(err))
		return
	}

	artifacts, err := s.runner.Render(r.Context(), res, opts)
	if err != nil {
		s.respondError(w, r, apierrors.Wrap(apierrors.ErrCodeRenderFailure, err,
			"preview render failed"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// =============================================================================
// Helpers
// =============================================================================

// loadSet resolves the {setID} path parameter to a stored set.
func (s *Server) loadSet(r *http.Request) (*StoredSet, error) {
	id := chi.URLParam(r, "setID")
	if err := apierrors.ValidateSetID(id); err != nil {
		return nil, err
	}

	stored, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrSetNotFound) {
		return nil, apierrors.New(apierrors.ErrCodeSetNotFound, "set %q not found", id)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return stored, nil
}

// decodeJSON reads a size-limited JSON body, rejecting unknown fields.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierrors.Wrap(apierrors.ErrCodeInvalidInput, err,
			"invalid request body: %v", err)
	}
	if dec.More() {
		return apierrors.New(apierrors.ErrCodeInvalidInput,
			"request body must be a single JSON object")
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// respondError writes the coded error body. Server-side failures are
// logged with their cause; the client only sees the user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := apierrors.GetCode(err)
	if code == "" {
		code = apierrors.ErrCodeInternal
	}
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", requestIDFrom(r.Context()),
			"code", code,
			"error", err,
		)
	}
	s.respondJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: apierrors.UserMessage(err),
	}})
}

func statusForCode(code apierrors.Code) int {
	switch code {
	case apierrors.ErrCodeInvalidInput, apierrors.ErrCodeInvalidSet, apierrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apierrors.ErrCodeSetNotFound:
		return http.StatusNotFound
	case apierrors.ErrCodeStoreUnavailable, apierrors.ErrCodeCacheFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// storeError wraps a backend failure for the boundary.
func storeError(err error) error {
	return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "set store unavailable")
}

// arrangeError assigns a boundary code to an arrange failure. The
// validation sentinels can only come from caller input here because stored
// sets are validated before they are persisted.
func arrangeError(err error) error {
	switch {
	case errors.Is(err, place.ErrNegativeSeparation),
		errors.Is(err, place.ErrInvalidLimits),
		errors.Is(err, labels.ErrEmptyLabelID),
		errors.Is(err, labels.ErrDuplicateLabelID):
		return apierrors.Wrap(apierrors.ErrCodeInvalidInput, err,
			"invalid placement options: %v", err)
	default:
		return apierrors.Wrap(apierrors.ErrCodeInternal, err, "placement failed")
	}
}

// placementOverrides parses the placement override query parameters shared
// by /result and /preview.svg.
func placementOverrides(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()

	var err error
	if opts.Separation, err = queryInt(q, "separation"); err != nil {
		return opts, err
	}
	if opts.MinPos, err = queryInt(q, "min"); err != nil {
		return opts, err
	}
	if opts.MaxPos, err = queryInt(q, "max"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = queryBool(q, "refresh"); err != nil {
		return opts, err
	}
	return opts, nil
}

// previewOverrides parses the drawing query parameters of /preview.svg.
func previewOverrides(r *http.Request, opts *pipeline.Options) error {
	q := r.URL.Query()

	if theme := q.Get("theme"); theme != "" {
		if err := pipeline.ValidateTheme(theme); err != nil {
			return apierrors.Wrap(apierrors.ErrCodeInvalidInput, err,
				"invalid theme: %q", theme)
		}
		opts.Theme = theme
	}

	var err error
	if opts.Width, err = queryFloat(q, "width"); err != nil {
		return err
	}
	if opts.Height, err = queryFloat(q, "height"); err != nil {
		return err
	}
	return nil
}

func queryInt(q url.Values, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierrors.New(apierrors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return &v, nil
}

func queryFloat(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, apierrors.New(apierrors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryBool(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apierrors.New(apierrors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return v, nil
}
