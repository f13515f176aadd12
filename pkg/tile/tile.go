package tile

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Visual property names.
const (
	PropBorderColor     = "border_color"
	PropBorderThickness = "border_thickness"
	PropBorderStyle     = "border_style"
	PropFillColor       = "fill_color"
	PropFillOpacity     = "fill_opacity"
)

// VisualProperties controls how a tile is drawn.
type VisualProperties struct {
	BorderColor     string  `json:"border_color" bson:"border_color"`
	BorderThickness int     `json:"border_thickness" bson:"border_thickness"`
	BorderStyle     string  `json:"border_style" bson:"border_style"`
	FillColor       string  `json:"fill_color" bson:"fill_color"`
	FillOpacity     float64 `json:"fill_opacity" bson:"fill_opacity"`
}

// DefaultVisual returns the styling of a tile that was never customized.
func DefaultVisual() VisualProperties {
	return VisualProperties{
		BorderColor:     "#000000",
		BorderThickness: 1,
		BorderStyle:     "solid",
		FillColor:       "#FFFFFF",
		FillOpacity:     0.5,
	}
}

// Set assigns the property called name. Values arrive from JSON, so numbers
// may be float64 or json.Number. Unknown names and ill-typed values fail
// with INVALID_PROPERTY.
func (v *VisualProperties) Set(name string, value any) error {
	switch name {
	case PropBorderColor, PropBorderStyle, PropFillColor:
		s, ok := value.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidProperty, "%s must be a string, got %T", name, value)
		}
		switch name {
		case PropBorderColor:
			v.BorderColor = s
		case PropBorderStyle:
			v.BorderStyle = s
		default:
			v.FillColor = s
		}
	case PropBorderThickness:
		f, err := number(name, value)
		if err != nil {
			return err
		}
		if f < 0 || f != math.Trunc(f) {
			return errors.New(errors.ErrCodeInvalidProperty, "%s must be a non-negative integer, got %v", name, value)
		}
		v.BorderThickness = int(f)
	case PropFillOpacity:
		f, err := number(name, value)
		if err != nil {
			return err
		}
		if f < 0 || f > 1 {
			return errors.New(errors.ErrCodeInvalidProperty, "%s must be within [0, 1], got %v", name, f)
		}
		v.FillOpacity = f
	default:
		return errors.New(errors.ErrCodeInvalidProperty, "unknown visual property %q", name)
	}
	return nil
}

func number(name string, value any) (float64, error) {
	switch n := value.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidProperty, err, "%s", name)
		}
		return f, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidProperty, "%s must be a number, got %T", name, value)
	}
}

// Tile is the stored state of one cell. ParentID and ChildrenIDs are
// derived from the grid whenever the tile is loaded.
type Tile struct {
	ID          string           `json:"id" bson:"_id"`
	Content     string           `json:"content" bson:"content"`
	Visual      VisualProperties `json:"visual_properties" bson:"visual_properties"`
	ParentID    string           `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	ChildrenIDs []string         `json:"children_ids" bson:"-"`
	Pentagon    bool             `json:"pentagon" bson:"pentagon"`
	UpdatedAt   time.Time        `json:"updated_at,omitzero" bson:"updated_at,omitempty"`
}

// New returns a tile with default styling and no content.
func New(id string) *Tile {
	return &Tile{ID: id, Visual: DefaultVisual()}
}

// Update is a partial modification. Nil fields are left unchanged.
type Update struct {
	Content *string        `json:"content,omitempty"`
	Visual  map[string]any `json:"visual_properties,omitempty"`
}

// Apply applies u to t. Either every visual property is applied or, on the
// first invalid one, none is.
func (t *Tile) Apply(u Update) error {
	visual := t.Visual
	for name, value := range u.Visual {
		if err := visual.Set(name, value); err != nil {
			return err
		}
	}
	t.Visual = visual
	if u.Content != nil {
		t.Content = *u.Content
	}
	return nil
}

// String returns a short description for logs.
func (t *Tile) String() string {
	return fmt.Sprintf("tile %s (%d bytes content)", t.ID, len(t.Content))
}
