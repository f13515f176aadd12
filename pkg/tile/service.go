package tile

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// MaxChildDepth limits how many resolutions below a tile Children may
// descend.
const MaxChildDepth = 2

// Service applies grid rules on top of a Store.
type Service struct {
	Index  grid.Index
	Store  Store
	Logger *log.Logger

	// mu serializes read-modify-write cycles within this process.
	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a tile service. If logger is nil, log.Default() is used.
func NewService(idx grid.Index, store Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Index: idx, Store: store, Logger: logger, now: time.Now}
}

// Load returns the stored tile for id, or a default tile if none exists.
func (s *Service) Load(ctx context.Context, id string) (*Tile, error) {
	c := grid.Cell(id)
	if err := grid.Check(s.Index, c); err != nil {
		return nil, err
	}
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = New(id)
	}
	t.Pentagon = s.Index.IsPentagon(c)
	if t.ParentID == "" {
		if res := s.Index.Resolution(c); res > grid.MinResolution {
			p, err := s.Index.Parent(ctx, c, res-1)
			if err != nil {
				return nil, err
			}
			t.ParentID = string(p)
		}
	}
	t.ChildrenIDs = []string{}
	if res := s.Index.Resolution(c); res < grid.MaxResolution {
		children, err := s.Index.Children(ctx, c, res+1)
		if err != nil {
			return nil, err
		}
		for _, ch := range children {
			t.ChildrenIDs = append(t.ChildrenIDs, string(ch))
		}
	}
	return t, nil
}

// Parent returns the tile of id's parent, or nil at resolution 0.
func (s *Service) Parent(ctx context.Context, id string) (*Tile, error) {
	t, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.ParentID == "" {
		return nil, nil
	}
	return s.Load(ctx, t.ParentID)
}

// Children returns the tiles of id's descendants at res, which must be
// finer than id and at most MaxChildDepth resolutions below it.
func (s *Service) Children(ctx context.Context, id string, res int) ([]*Tile, error) {
	c := grid.Cell(id)
	if err := grid.Check(s.Index, c); err != nil {
		return nil, err
	}
	cur := s.Index.Resolution(c)
	if res <= cur || res > min(cur+MaxChildDepth, grid.MaxResolution) {
		return nil, errors.New(errors.ErrCodeInvalidResolution,
			"child resolution %d must be within (%d, %d]", res, cur, min(cur+MaxChildDepth, grid.MaxResolution))
	}
	cells, err := s.Index.Children(ctx, c, res)
	if err != nil {
		return nil, err
	}
	out := make([]*Tile, 0, len(cells))
	for _, ch := range cells {
		t, err := s.Load(ctx, string(ch))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Update applies u to the tile and stores it.
func (s *Service) Update(ctx context.Context, id string, u Update) (*Tile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Apply(u); err != nil {
		return nil, err
	}
	if err := s.put(ctx, t); err != nil {
		return nil, err
	}
	s.Logger.Debug("updated tile", "id", id, "visual", len(u.Visual), "content", u.Content != nil)
	return t, nil
}

// UpdateVisual sets the named visual properties. Unknown names fail with
// INVALID_PROPERTY and nothing is stored.
func (s *Service) UpdateVisual(ctx context.Context, id string, props map[string]any) (*Tile, error) {
	return s.Update(ctx, id, Update{Visual: props})
}

// MoveContent moves the content of src into dst and clears src. The cells
// must be distinct neighbors, otherwise NOT_ADJACENT is returned.
func (s *Service) MoveContent(ctx context.Context, src, dst string) (*Tile, *Tile, error) {
	for _, id := range []string{src, dst} {
		if err := grid.Check(s.Index, grid.Cell(id)); err != nil {
			return nil, nil, err
		}
	}
	adjacent, err := grid.IsNeighbor(ctx, s.Index, grid.Cell(src), grid.Cell(dst))
	if err != nil {
		return nil, nil, err
	}
	if !adjacent {
		return nil, nil, errors.New(errors.ErrCodeNotAdjacent, "%s and %s are not neighbors", src, dst)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.Load(ctx, dst)
	if err != nil {
		return nil, nil, err
	}
	to.Content, from.Content = from.Content, ""

	if err := s.put(ctx, to); err != nil {
		return nil, nil, err
	}
	if err := s.put(ctx, from); err != nil {
		return nil, nil, err
	}
	s.Logger.Debug("moved content", "from", src, "to", dst)
	return from, to, nil
}

func (s *Service) put(ctx context.Context, t *Tile) error {
	t.UpdatedAt = s.now().UTC()
	return s.Store.Put(ctx, t)
}
