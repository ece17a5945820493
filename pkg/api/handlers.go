package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/board"
	"github.com/matzehuels/bentogrid/pkg/buildinfo"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/observability"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type widgetResponse struct {
	Widget   bento.Widget    `json:"widget"`
	Document *bento.Document `json:"document"`
}

type commitRequest struct {
	Items []grid.Item `json:"items"`
}

type commitResponse struct {
	Changed  bool            `json:"changed"`
	Document *bento.Document `json:"document"`
}

type projectRequest struct {
	Items []grid.Item `json:"items"`
}

type projectResponse struct {
	Layouts map[string][]grid.Item `json:"layouts"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// load returns the repaired document for username. Unknown users get an
// empty document.
func (s *Server) load(ctx context.Context, username string) (*bento.Document, error) {
	if err := errors.ValidateUsername(username); err != nil {
		return nil, err
	}
	doc, err := s.opts.Store.Load(ctx, username)
	if errors.Is(err, errors.ErrCodeNotFound) {
		doc = bento.New(username, s.opts.Breakpoints)
	} else if err != nil {
		return nil, err
	}
	return s.repair(ctx, doc), nil
}

func (s *Server) repair(ctx context.Context, doc *bento.Document) *bento.Document {
	fixed, fixes := bento.Repair(doc, s.opts.Breakpoints, bento.RepairOptions{AdoptOrphans: s.opts.AdoptOrphans})
	if len(fixes) > 0 {
		observability.Engine().OnRepair(ctx, doc.Username, len(fixes))
		for _, f := range fixes {
			s.logger.Warn("repaired document", "user", doc.Username, "fix", f.String())
		}
	}
	return fixed
}

// editSession is a board opened for one request. It remembers the last
// document the board emitted so the handler can save it once at the end.
type editSession struct {
	board *board.Board
	dirty *bento.Document
}

func (s *Server) open(ctx context.Context, username string) (*editSession, error) {
	doc, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	es := &editSession{}
	es.board = board.New(doc, board.Options{
		Breakpoints:    s.opts.Breakpoints,
		ReflowOnResize: s.opts.ReflowOnResize,
		Logger:         s.logger,
		Sink:           board.SinkFunc(func(d *bento.Document) { es.dirty = d }),
	})
	return es, nil
}

// save persists the session's document if any edit changed it.
func (s *Server) save(ctx context.Context, es *editSession) error {
	if es.dirty == nil {
		return nil
	}
	return s.opts.Store.Save(ctx, es.dirty)
}

func (s *Server) getBento(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// syncBento replaces the stored document with the request body.
func (s *Server) syncBento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	if err := errors.ValidateUsername(username); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := bento.Decode(data, s.opts.Breakpoints)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.Username = username
	doc = s.repair(ctx, doc)

	if err := s.opts.Store.Save(ctx, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	stored, err := s.load(ctx, username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) addWidget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var in bento.Widget
	if err := readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	es, err := s.open(ctx, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	added, err := es.board.AddWidget(ctx, in)
	if err == nil {
		err = s.save(ctx, es)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, widgetResponse{Widget: added, Document: es.board.Snapshot()})
}

func (s *Server) updateWidget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p bento.Patch
	if err := readJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	es, err := s.open(ctx, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := es.board.UpdateWidget(ctx, chi.URLParam(r, "id"), p)
	if err == nil {
		err = s.save(ctx, es)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, widgetResponse{Widget: updated, Document: es.board.Snapshot()})
}

func (s *Server) removeWidget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	es, err := s.open(ctx, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = es.board.RemoveWidget(ctx, chi.URLParam(r, "id"))
	if err == nil {
		err = s.save(ctx, es)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, es.board.Snapshot())
}

// commitLayout accepts a dragged arrangement for one breakpoint. An
// unchanged arrangement is not saved.
func (s *Server) commitLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bp, err := grid.ParseBreakpoint(chi.URLParam(r, "breakpoint"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in commitRequest
	if err := readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	es, err := s.open(ctx, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	changed, err := es.board.CommitLayout(ctx, bp, in.Items)
	if err == nil {
		err = s.save(ctx, es)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commitResponse{Changed: changed, Document: es.board.Snapshot()})
}

// project derives every breakpoint from a canonical grid. Items are clamped
// into the canonical grid first; results are cached under a hash of the
// clamped items and the breakpoint table.
func (s *Server) project(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var in projectRequest
	if err := readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkIDs(in.Items); err != nil {
		s.writeError(w, r, err)
		return
	}
	columns := s.opts.Breakpoints.Canonical().Columns
	for i, it := range in.Items {
		in.Items[i] = grid.Clamp(it, columns)
	}

	key := s.opts.Keyer.ProjectionKey(in.Items, s.opts.Breakpoints)
	if data, ok, err := s.opts.Cache.Get(ctx, key); err != nil {
		s.logger.Warn("projection cache read failed", "err", err)
	} else if ok {
		observability.Cache().OnCacheHit(ctx, "projection")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "projection")

	l := grid.Project(in.Items, s.opts.Breakpoints)
	data, err := json.Marshal(projectResponse{Layouts: l.Items()})
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode projection"))
		return
	}
	data = append(data, '\n')
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.ProjectionTTL); err != nil {
		s.logger.Warn("projection cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "projection", len(data))
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// checkIDs rejects items with an empty or repeated id.
func checkIDs(items []grid.Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "item without id")
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate item id %s", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}
