package pointer

import (
	"math"
	"testing"

	"github.com/matzehuels/cropkit/pkg/geom"
)

var halfSize = Box{Left: 10, Top: 20, Width: 320, Height: 270, BackingWidth: 640, BackingHeight: 540}

func TestToCanvasPixels(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		box  Box
		want geom.Point
	}{
		{"identity", Event{ClientX: 12, ClientY: 34}, Identity(100, 100), geom.Point{X: 12, Y: 34}},
		{"scaled", Event{ClientX: 170, ClientY: 155}, halfSize, geom.Point{X: 320, Y: 270}},
		{"box origin", Event{ClientX: 10, ClientY: 20}, halfSize, geom.Point{}},
		{"left of box", Event{ClientX: 0, ClientY: 20}, halfSize, geom.Point{X: -20, Y: 0}},
		{
			"first touch wins",
			Event{Source: Touch, Touches: []TouchPoint{{ClientX: 20, ClientY: 30}, {ClientX: 300, ClientY: 200}}},
			halfSize,
			geom.Point{X: 20, Y: 20},
		},
		{
			"touches on mouse event",
			Event{ClientX: 999, ClientY: 999, Touches: []TouchPoint{{ClientX: 11, ClientY: 21}}},
			halfSize,
			geom.Point{X: 2, Y: 2},
		},
		{
			"per-axis scale",
			Event{ClientX: 50, ClientY: 50},
			Box{Width: 100, Height: 200, BackingWidth: 200, BackingHeight: 200},
			geom.Point{X: 100, Y: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCanvasPixels(tt.ev, tt.box); got != tt.want {
				t.Errorf("ToCanvasPixels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToCanvasPixelsUnusable(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		box  Box
	}{
		{"touch without touches", Event{Source: Touch, ClientX: 50, ClientY: 50}, halfSize},
		{"NaN coordinate", Event{ClientX: math.NaN(), ClientY: 40}, halfSize},
		{"infinite touch", Event{Touches: []TouchPoint{{ClientX: math.Inf(1)}}}, halfSize},
		{"zero on-screen width", Event{ClientX: 50, ClientY: 50}, Box{Height: 10, BackingWidth: 10, BackingHeight: 10}},
		{"zero backing size", Event{ClientX: 50, ClientY: 50}, Box{Width: 10, Height: 10}},
		{"negative size", Event{ClientX: 50, ClientY: 50}, Box{Width: -10, Height: 10, BackingWidth: 10, BackingHeight: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCanvasPixels(tt.ev, tt.box); got != (geom.Point{}) {
				t.Errorf("ToCanvasPixels() = %v, want zero point", got)
			}
		})
	}
}

func TestToClientRoundTrip(t *testing.T) {
	for _, p := range []geom.Point{{}, {X: 120, Y: 120}, {X: 520, Y: 420}, {X: 640, Y: 540}} {
		got := ToCanvasPixels(At(p, halfSize), halfSize)
		if got != p {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}
}

func TestSourceString(t *testing.T) {
	if Mouse.String() != "mouse" || Touch.String() != "touch" {
		t.Errorf("unexpected source names %q, %q", Mouse, Touch)
	}
}
