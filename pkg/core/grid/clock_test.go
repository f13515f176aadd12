package grid

import "testing"

func TestInverse(t *testing.T) {
	tests := []struct {
		p, want ClockPosition
	}{
		{BottomMiddle, TopMiddle},
		{BottomLeft, TopRight},
		{TopLeft, BottomRight},
		{TopMiddle, BottomMiddle},
		{TopRight, BottomLeft},
		{BottomRight, TopLeft},
	}
	for _, tt := range tests {
		if got := tt.p.Inverse(); got != tt.want {
			t.Errorf("%v.Inverse() = %v, want %v", tt.p, got, tt.want)
		}
		if got := tt.p.Inverse().Inverse(); got != tt.p {
			t.Errorf("%v.Inverse().Inverse() = %v", tt.p, got)
		}
	}
}

func TestPositionsCanonicalOrder(t *testing.T) {
	want := []string{"bottom_middle", "bottom_left", "top_left", "top_middle", "top_right", "bottom_right"}
	for i, p := range Positions() {
		if int(p) != i {
			t.Errorf("Positions()[%d] = %d", i, p)
		}
		if p.String() != want[i] {
			t.Errorf("Positions()[%d].String() = %q, want %q", i, p.String(), want[i])
		}
	}
}

func TestParseClockPosition(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockPosition
		wantErr bool
	}{
		{"bottom_middle", BottomMiddle, false},
		{"Top-Right", TopRight, false},
		{" bl ", BottomLeft, false},
		{"tm", TopMiddle, false},
		{"north", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClockPosition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClockPosition(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClockPosition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClockPositionText(t *testing.T) {
	b, err := TopLeft.MarshalText()
	if err != nil || string(b) != "top_left" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
	var p ClockPosition
	if err := p.UnmarshalText([]byte("bottom_right")); err != nil || p != BottomRight {
		t.Errorf("UnmarshalText() = %v, %v", p, err)
	}
	if _, err := ClockPosition(9).MarshalText(); err == nil {
		t.Error("MarshalText() of invalid position should fail")
	}
}
