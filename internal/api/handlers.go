package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hexglobe/pkg/buildinfo"
	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
	"github.com/matzehuels/hexglobe/pkg/layout"
	"github.com/matzehuels/hexglobe/pkg/pipeline"
	"github.com/matzehuels/hexglobe/pkg/tile"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to HexGlobe API",
		"build":   buildinfo.Get(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// =============================================================================
// Cells
// =============================================================================

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	n, err := s.Runner.Neighbors(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleLadder(w http.ResponseWriter, r *http.Request) {
	l, err := s.Runner.Ladder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) layout(r *http.Request) (layout.Layout, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Center: chi.URLParam(r, "id")}
	var err error
	if opts.Width, err = intParam(q.Get("width"), 0); err != nil {
		return layout.Layout{}, err
	}
	if opts.Height, err = intParam(q.Get("height"), 0); err != nil {
		return layout.Layout{}, err
	}
	if opts.MaxRings, err = intParam(q.Get("max_rings"), 0); err != nil {
		return layout.Layout{}, err
	}
	opts.Refresh = q.Get("refresh") == "true"
	return s.Runner.Layout(r.Context(), opts)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	l, err := s.layout(r)
	if err != nil {
		var partial any
		if len(l.Cells) > 0 {
			partial = l
		}
		s.writeError(w, r, err, partial)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	l, err := s.layout(r)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	fc, err := layout.ToGeoJSON(r.Context(), s.Runner.Index, l)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := floatParam(q.Get("lat"), "lat")
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	lng, err := floatParam(q.Get("lng"), "lng")
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	res, err := intParam(q.Get("resolution"), pipeline.DefaultResolution)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	cell, err := s.Runner.Locate(r.Context(), lat, lng, res)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lat":        lat,
		"lng":        lng,
		"resolution": res,
		"cell":       cell,
	})
}

// =============================================================================
// Tiles
// =============================================================================

func (s *Server) handleGetTile(w http.ResponseWriter, r *http.Request) {
	t, err := s.Tiles.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTileParent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.Tiles.Parent(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tile_id": id, "parent": p})
}

func (s *Server) handleTileChildren(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := intParam(r.URL.Query().Get("resolution"), s.Tiles.Index.Resolution(grid.Cell(id))+1)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	children, err := s.Tiles.Children(r.Context(), id, res)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tile_id": id, "resolution": res, "children": children})
}

func (s *Server) handleUpdateTile(w http.ResponseWriter, r *http.Request) {
	var u tile.Update
	if err := decode(w, r, &u); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	t, err := s.Tiles.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Tile updated successfully", "tile": t})
}

func (s *Server) handleUpdateVisual(w http.ResponseWriter, r *http.Request) {
	var props map[string]any
	if err := decode(w, r, &props); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	t, err := s.Tiles.UpdateVisual(r.Context(), chi.URLParam(r, "id"), props)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Visual properties updated successfully", "tile": t})
}

func (s *Server) handleMoveContent(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.Tiles.MoveContent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "target"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Content moved successfully",
		"source_tile": from,
		"target_tile": to,
	})
}

// =============================================================================
// Request helpers
// =============================================================================

const maxBody = 1 << 20

// decode reads a JSON body, keeping numbers as json.Number.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, maxBody)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read body")
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode body")
	}
	return nil
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "not an integer: %q", s)
	}
	return n, nil
}

func floatParam(s, name string) (float64, error) {
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidCoordinate, "%s is required", name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidCoordinate, "%s is not a number: %q", name, s)
	}
	return f, nil
}
