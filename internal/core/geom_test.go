package core

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); got != V(4, 2) {
		t.Errorf("Add() = %v, expected (4, 2)", got)
	}
	if got := a.Sub(b); got != V(2, 6) {
		t.Errorf("Sub() = %v, expected (2, 6)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v, expected (6, 8)", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot() = %v, expected -5", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len() = %v, expected 5", got)
	}
	if got := a.Dist(V(0, 0)); got != 5 {
		t.Errorf("Dist() = %v, expected 5", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"axis", V(10, 0), V(1, 0)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
		{"zero stays zero", V(0, 0), V(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestVec2IsFinite(t *testing.T) {
	if !V(1, 2).IsFinite() {
		t.Error("(1, 2) should be finite")
	}
	if V(math.NaN(), 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if V(0, math.Inf(1)).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi / 2)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1) > 1e-9 {
		t.Errorf("FromAngle(pi/2) = %v, expected (0, 1)", v)
	}
	if math.Abs(v.Len()-1) > 1e-9 {
		t.Errorf("FromAngle should return a unit vector, len = %v", v.Len())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestColorScale(t *testing.T) {
	c := RGB(200, 100, 50).Scale(0.5)
	if c != RGB(100, 50, 25) {
		t.Errorf("Scale(0.5) = %+v, expected (100, 50, 25)", c)
	}
	if got := ColorRed.Scale(2); got != ColorRed {
		t.Errorf("Scale should clamp factor to 1, got %+v", got)
	}
	if got := ColorPurple.Hex(); got != "#8000ff" {
		t.Errorf("Hex() = %q, expected #8000ff", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#0000ff", ColorBlue, false},
		{"ff0000", ColorRed, false},
		{" #8000FF ", ColorPurple, false},
		{"#fff", Color{}, true},
		{"#zz0000", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
