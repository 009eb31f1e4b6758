package render

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

var cropScene = Scene{
	Image:    testImage(400, 300),
	CropMode: true,
	Rect:     geom.Rect{X: 120, Y: 120, Width: 400, Height: 300},
	Padding:  120,
}

func TestBuildPlainMode(t *testing.T) {
	plan, err := Build(Scene{Image: testImage(400, 300), Padding: 120})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if plan.Width != 400 || plan.Height != 300 {
		t.Errorf("canvas = %dx%d, want 400x300", plan.Width, plan.Height)
	}
	if len(plan.Ops) != 1 || plan.Ops[0].Kind != OpImage {
		t.Fatalf("Ops = %+v, want a single image op", plan.Ops)
	}
	if plan.Ops[0].Rect.X != 0 || plan.Ops[0].Rect.Y != 0 {
		t.Errorf("image at %v, want origin", plan.Ops[0].Rect)
	}
}

func TestBuildCropMode(t *testing.T) {
	plan, err := Build(cropScene)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if plan.Width != 640 || plan.Height != 540 {
		t.Errorf("canvas = %dx%d, want 640x540", plan.Width, plan.Height)
	}
	if img := plan.Ops[0]; img.Kind != OpImage || img.Rect.X != 120 || img.Rect.Y != 120 {
		t.Errorf("first op = %v at %v, want image at (120, 120)", img.Kind, img.Rect)
	}
	if n := plan.Count(OpFill); n != 4 {
		t.Errorf("mask bands = %d, want 4", n)
	}
	if n := plan.Count(OpBorder); n != 1 {
		t.Errorf("borders = %d, want 1", n)
	}
	if n := plan.Count(OpHandle); n != 8 {
		t.Errorf("handles = %d, want 8", n)
	}
	if n := plan.Count(OpVeil); n != 0 {
		t.Errorf("veils = %d, want 0 when not busy", n)
	}
}

func TestMaskBands(t *testing.T) {
	plan, _ := Build(cropScene)
	want := []geom.Rect{
		{X: 0, Y: 0, Width: 640, Height: 120},
		{X: 0, Y: 420, Width: 640, Height: 120},
		{X: 0, Y: 120, Width: 120, Height: 300},
		{X: 520, Y: 120, Width: 120, Height: 300},
	}
	var got []geom.Rect
	for _, op := range plan.Ops {
		if op.Kind == OpFill {
			got = append(got, op.Rect)
			if op.Fill != (color.NRGBA{A: 128}) {
				t.Errorf("mask fill = %v, want half-transparent black", op.Fill)
			}
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bands = %v, want %v", got, want)
	}
}

func TestMaskNeverCoversRect(t *testing.T) {
	scenes := []geom.Rect{
		{X: 0, Y: 0, Width: 640, Height: 540},
		{X: 0, Y: 50, Width: 200, Height: 100},
		{X: 300, Y: 0, Width: 340, Height: 540},
	}
	for _, r := range scenes {
		s := cropScene
		s.Rect = r
		plan, err := Build(s)
		if err != nil {
			t.Fatalf("Build(%v) error: %v", r, err)
		}
		for _, op := range plan.Ops {
			if op.Kind != OpFill {
				continue
			}
			if overlaps(op.Rect, r) {
				t.Errorf("band %v overlaps crop rect %v", op.Rect, r)
			}
		}
	}
}

func TestFullCanvasRectHasNoMask(t *testing.T) {
	s := cropScene
	s.Rect = geom.Rect{Width: 640, Height: 540}
	plan, _ := Build(s)
	if n := plan.Count(OpFill); n != 0 {
		t.Errorf("mask bands = %d, want 0", n)
	}
}

func TestHandleOps(t *testing.T) {
	plan, _ := Build(cropScene)
	anchors := geom.Anchors(cropScene.Rect)
	i := 0
	for _, op := range plan.Ops {
		if op.Kind != OpHandle {
			continue
		}
		a := anchors[i]
		want := geom.Rect{X: a.Point.X - 5, Y: a.Point.Y - 5, Width: 10, Height: 10}
		if op.Handle != a.Handle || op.Rect != want {
			t.Errorf("handle %d = %s %v, want %s %v", i, op.Handle, op.Rect, a.Handle, want)
		}
		if op.LineWidth != 1 || op.Stroke != (color.NRGBA{A: 255}) {
			t.Errorf("handle %s stroke = %v/%g, want black 1px", op.Handle, op.Stroke, op.LineWidth)
		}
		i++
	}
}

func TestBorderOp(t *testing.T) {
	plan, _ := Build(cropScene)
	for _, op := range plan.Ops {
		if op.Kind == OpBorder {
			if op.Rect != cropScene.Rect || op.LineWidth != 2 || len(op.Dash) == 0 {
				t.Errorf("border = %+v, want dashed 2px around the rect", op)
			}
			return
		}
	}
	t.Fatal("no border op")
}

func TestBusyAddsVeil(t *testing.T) {
	s := cropScene
	s.Busy = true
	plan, _ := Build(s)
	last := plan.Ops[len(plan.Ops)-1]
	if last.Kind != OpVeil || last.Rect != (geom.Rect{Width: 640, Height: 540}) {
		t.Errorf("last op = %+v, want full-canvas veil", last)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, _ := Build(cropScene)
	b, _ := Build(cropScene)
	if !reflect.DeepEqual(a, b) {
		t.Error("Build() is not deterministic")
	}
}

func TestBuildCanvasUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		scene Scene
		opts  []Option
	}{
		{"nil image", Scene{}, nil},
		{"empty image", Scene{Image: image.NewNRGBA(image.Rect(0, 0, 0, 10))}, nil},
		{"negative padding", Scene{Image: testImage(10, 10), CropMode: true, Padding: -1}, nil},
		{"over limit", Scene{Image: testImage(100, 10), CropMode: true, Padding: 80}, []Option{WithMaxCanvasSide(200)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.scene, tt.opts...)
			if !errors.Is(err, errors.ErrCodeCanvasUnavailable) {
				t.Errorf("Build() error = %v, want CANVAS_UNAVAILABLE", err)
			}
		})
	}
}

func TestWithStyle(t *testing.T) {
	st := DefaultStyle()
	st.MaskColor = MaskAlpha(0.25)
	st.HandleSize = 0
	plan, _ := Build(cropScene, WithStyle(st))
	for _, op := range plan.Ops {
		switch op.Kind {
		case OpFill:
			if op.Fill.A != 64 {
				t.Errorf("mask alpha = %d, want 64", op.Fill.A)
			}
		case OpHandle:
			if op.Rect.Width != 10 {
				t.Errorf("handle size = %g, want default 10", op.Rect.Width)
			}
		}
	}
}

func overlaps(a, b geom.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}
