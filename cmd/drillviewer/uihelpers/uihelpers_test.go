package uihelpers

import (
	"math"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 640},
		{639, 640},
		{640, 640},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 260 || h > 560 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestComputeContainRect(t *testing.T) {
	cases := []struct {
		imgW, imgH, viewW, viewH   float32
		wantX, wantY, wantW, wantH float32
	}{
		{800, 400, 800, 400, 0, 0, 800, 400},
		{800, 400, 1200, 400, 200, 0, 800, 400}, // pillarbox
		{800, 400, 800, 800, 0, 200, 800, 400},  // letterbox
		{800, 400, 400, 400, 0, 100, 400, 200},  // shrink
	}
	for _, c := range cases {
		x, y, w, h, _ := ComputeContainRect(c.imgW, c.imgH, c.viewW, c.viewH)
		if x != c.wantX || y != c.wantY || w != c.wantW || h != c.wantH {
			t.Fatalf("%vx%v in %vx%v => (%v,%v %vx%v)", c.imgW, c.imgH, c.viewW, c.viewH, x, y, w, h)
		}
	}
	if _, _, w, h, s := ComputeContainRect(0, 0, 300, 200); w != 300 || h != 200 || s != 1 {
		t.Fatalf("empty image must fill the view")
	}
}

func TestViewImageRoundTrip(t *testing.T) {
	views := [][2]float32{{800, 400}, {1000, 600}, {500, 500}}
	for _, v := range views {
		for _, p := range [][2]float32{{0, 0}, {123.5, 77}, {800, 400}} {
			vx, vy := ImageToView(p[0], p[1], 800, 400, v[0], v[1])
			ix, iy, inside := ViewToImage(vx, vy, 800, 400, v[0], v[1])
			if !inside {
				t.Fatalf("mapped image point must be inside: view %v point %v", v, p)
			}
			if math.Abs(float64(ix-p[0])) > 1e-3 || math.Abs(float64(iy-p[1])) > 1e-3 {
				t.Fatalf("round trip %v -> (%v,%v) in view %v", p, ix, iy, v)
			}
		}
	}
	if _, _, inside := ViewToImage(10, 10, 800, 400, 800, 800); inside {
		t.Fatalf("letterbox must be outside")
	}
}
