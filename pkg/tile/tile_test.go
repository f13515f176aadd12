package tile

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/grid/gridtest"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

func TestDefaultVisual(t *testing.T) {
	v := DefaultVisual()
	want := VisualProperties{"#000000", 1, "solid", "#FFFFFF", 0.5}
	if v != want {
		t.Errorf("DefaultVisual() = %+v, want %+v", v, want)
	}
}

func TestVisualSet(t *testing.T) {
	tests := []struct {
		name    string
		prop    string
		value   any
		wantErr bool
	}{
		{"border color", PropBorderColor, "#FF0000", false},
		{"border style", PropBorderStyle, "dashed", false},
		{"fill color", PropFillColor, "#00FF00", false},
		{"thickness float", PropBorderThickness, float64(3), false},
		{"thickness json number", PropBorderThickness, json.Number("2"), false},
		{"thickness fractional", PropBorderThickness, 1.5, true},
		{"thickness negative", PropBorderThickness, -1, true},
		{"opacity", PropFillOpacity, 0.25, false},
		{"opacity too large", PropFillOpacity, 1.5, true},
		{"color not string", PropFillColor, 3.0, true},
		{"opacity not number", PropFillOpacity, "half", true},
		{"unknown", "glow", "yes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DefaultVisual()
			err := v.Set(tt.prop, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %v) error = %v, wantErr %v", tt.prop, tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidProperty) {
				t.Errorf("Set() error code = %v, want INVALID_PROPERTY", errors.GetCode(err))
			}
		})
	}
}

func TestApplyIsAtomic(t *testing.T) {
	tl := New("x")
	content := "hello"
	err := tl.Apply(Update{
		Content: &content,
		Visual:  map[string]any{PropFillColor: "#123456", "bogus": 1.0},
	})
	if err == nil {
		t.Fatal("Apply() error = nil, want INVALID_PROPERTY")
	}
	if tl.Visual != DefaultVisual() || tl.Content != "" {
		t.Errorf("failed Apply() modified tile: %+v", tl)
	}

	if err := tl.Apply(Update{Content: &content, Visual: map[string]any{PropFillColor: "#123456"}}); err != nil {
		t.Fatal(err)
	}
	if tl.Content != "hello" || tl.Visual.FillColor != "#123456" {
		t.Errorf("Apply() = %+v, want content and fill color set", tl)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "9:0:0")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v, want nil, nil", got, err)
	}

	tl := New("9:0:0")
	tl.Content = "treasure"
	if err := s.Put(ctx, tl); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err = s.Get(ctx, "9:0:0")
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Content != "treasure" || got.Visual != DefaultVisual() {
		t.Errorf("Get() = %+v, want stored tile", got)
	}

	if err := s.Delete(ctx, "9:0:0"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if got, _ := s.Get(ctx, "9:0:0"); got != nil {
		t.Error("Get() after Delete should be nil")
	}

	if _, err := s.Get(ctx, "../escape"); !errors.Is(err, errors.ErrCodeInvalidCell) {
		t.Errorf("Get(../escape) error = %v, want INVALID_CELL", err)
	}
}

func TestFileStoreNamespaces(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, _ := NewFileStore(dir, "a")
	b, _ := NewFileStore(dir, "b")

	if err := a.Put(ctx, &Tile{ID: "9:0:0", Content: "in a"}); err != nil {
		t.Fatal(err)
	}
	if got, _ := b.Get(ctx, "9:0:0"); got != nil {
		t.Errorf("namespace b sees %+v, want nothing", got)
	}
	if _, err := NewFileStore(dir, "../up"); err == nil {
		t.Error("NewFileStore(../up) error = nil, want error")
	}
}

func TestCollectionName(t *testing.T) {
	if got := CollectionName(""); got != "tiles_default" {
		t.Errorf("CollectionName(\"\") = %q, want tiles_default", got)
	}
	if got := CollectionName("demo"); got != "tiles_demo" {
		t.Errorf("CollectionName(demo) = %q, want tiles_demo", got)
	}
}

func TestMongoStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := NewMongoStore(ctx, MongoOptions{URI: "mongodb://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Error("NewMongoStore() error = nil, want connection error")
	}
}

func newService(t *testing.T) (*Service, *gridtest.Lattice) {
	t.Helper()
	l := gridtest.New(orb.Point{10, 45})
	s, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	return NewService(l, s, nil), l
}

func TestServiceLoadDefault(t *testing.T) {
	svc, _ := newService(t)
	tl, err := svc.Load(context.Background(), "9:0:0")
	if err != nil {
		t.Fatal(err)
	}
	if tl.Visual != DefaultVisual() || tl.Content != "" {
		t.Errorf("Load() = %+v, want default tile", tl)
	}
	if tl.ParentID != "8:0:0" {
		t.Errorf("ParentID = %q, want 8:0:0", tl.ParentID)
	}

	if _, err := svc.Load(context.Background(), "nope"); !errors.Is(err, errors.ErrCodeInvalidCell) {
		t.Errorf("Load(nope) error = %v, want INVALID_CELL", err)
	}
}

func TestServiceParent(t *testing.T) {
	svc, _ := newService(t)
	p, err := svc.Parent(context.Background(), "9:0:0")
	if err != nil || p == nil || p.ID != "8:0:0" {
		t.Errorf("Parent() = %+v, %v, want 8:0:0", p, err)
	}
	p, err = svc.Parent(context.Background(), "0:0:0")
	if err != nil || p != nil {
		t.Errorf("Parent(res 0) = %+v, %v, want nil, nil", p, err)
	}
}

func TestServiceChildren(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	parent, err := svc.Load(ctx, "8:0:0")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, id := range parent.ChildrenIDs {
		found = found || id == "9:0:0"
	}
	if !found {
		t.Errorf("ChildrenIDs = %v, want 9:0:0 among them", parent.ChildrenIDs)
	}

	children, err := svc.Children(ctx, "8:0:0", 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != len(parent.ChildrenIDs) {
		t.Errorf("Children() = %d tiles, want %d", len(children), len(parent.ChildrenIDs))
	}
	for _, c := range children {
		if c.ParentID != "8:0:0" || c.Visual != DefaultVisual() {
			t.Errorf("child %+v, want default tile under 8:0:0", c)
		}
	}

	for _, res := range []int{8, 11} {
		if _, err := svc.Children(ctx, "8:0:0", res); !errors.Is(err, errors.ErrCodeInvalidResolution) {
			t.Errorf("Children(res %d) error = %v, want INVALID_RESOLUTION", res, err)
		}
	}

	leaf, err := svc.Load(ctx, "15:0:0")
	if err != nil {
		t.Fatal(err)
	}
	if leaf.ChildrenIDs == nil || len(leaf.ChildrenIDs) != 0 {
		t.Errorf("ChildrenIDs at resolution 15 = %#v, want empty", leaf.ChildrenIDs)
	}
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	content := "note"
	if _, err := svc.Update(ctx, "9:0:0", Update{Content: &content}); err != nil {
		t.Fatal(err)
	}
	tl, err := svc.UpdateVisual(ctx, "9:0:0", map[string]any{PropBorderThickness: 4.0})
	if err != nil {
		t.Fatal(err)
	}
	if tl.Content != "note" || tl.Visual.BorderThickness != 4 {
		t.Errorf("tile = %+v, want content kept and thickness 4", tl)
	}
	if tl.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	if _, err := svc.UpdateVisual(ctx, "9:0:0", map[string]any{"sparkle": true}); !errors.Is(err, errors.ErrCodeInvalidProperty) {
		t.Errorf("UpdateVisual(sparkle) error = %v, want INVALID_PROPERTY", err)
	}
	again, _ := svc.Load(ctx, "9:0:0")
	if again.Visual.BorderThickness != 4 {
		t.Errorf("rejected update changed stored tile: %+v", again.Visual)
	}
}

func TestServiceMoveContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	src := string(gridtest.Cell(9, 0, 0))
	dst := string(gridtest.Step(9, 0, 0, grid.TopMiddle))

	content := "cargo"
	if _, err := svc.Update(ctx, src, Update{Content: &content}); err != nil {
		t.Fatal(err)
	}
	from, to, err := svc.MoveContent(ctx, src, dst)
	if err != nil {
		t.Fatalf("MoveContent() error = %v", err)
	}
	if from.Content != "" || to.Content != "cargo" {
		t.Errorf("MoveContent() from = %q, to = %q, want \"\" and cargo", from.Content, to.Content)
	}
	stored, _ := svc.Load(ctx, dst)
	if stored.Content != "cargo" {
		t.Errorf("stored destination content = %q, want cargo", stored.Content)
	}

	far := string(gridtest.Cell(9, 5, 5))
	if _, _, err := svc.MoveContent(ctx, dst, far); !errors.Is(err, errors.ErrCodeNotAdjacent) {
		t.Errorf("MoveContent(far) error = %v, want NOT_ADJACENT", err)
	}
	if _, _, err := svc.MoveContent(ctx, dst, dst); !errors.Is(err, errors.ErrCodeNotAdjacent) {
		t.Errorf("MoveContent(self) error = %v, want NOT_ADJACENT", err)
	}
	if _, _, err := svc.MoveContent(ctx, dst, "bad"); !errors.Is(err, errors.ErrCodeInvalidCell) {
		t.Errorf("MoveContent(bad) error = %v, want INVALID_CELL", err)
	}
}
