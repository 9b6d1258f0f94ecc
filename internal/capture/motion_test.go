package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// solidFrame builds a single-color BGR frame.
func solidFrame(t *testing.T, c color.RGBA) *gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		240, 320, gocv.MatTypeCV8UC3,
	)
	return &mat
}

func TestMotionDetector_FirstFrameIsBaseline(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	frame := solidFrame(t, color.RGBA{R: 128, G: 128, B: 128})
	defer frame.Close()

	detected, percent := m.Detect(frame)
	if detected {
		t.Error("first frame should never report motion")
	}
	if percent != 0 {
		t.Errorf("first frame change percent = %v, want 0", percent)
	}
}

func TestMotionDetector_StaticSceneNoMotion(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	for i := 0; i < 3; i++ {
		frame := solidFrame(t, color.RGBA{R: 128, G: 128, B: 128})
		detected, _ := m.Detect(frame)
		frame.Close()
		if detected {
			t.Errorf("identical frame %d reported motion", i)
		}
	}
}

func TestMotionDetector_SceneChangeDetected(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	dark := solidFrame(t, color.RGBA{})
	defer dark.Close()
	bright := solidFrame(t, color.RGBA{R: 255, G: 255, B: 255})
	defer bright.Close()

	m.Detect(dark)
	detected, percent := m.Detect(bright)
	if !detected {
		t.Error("full-frame brightness change should report motion")
	}
	if percent < 50 {
		t.Errorf("change percent = %v, want most of the frame", percent)
	}
}

func TestMotionDetector_PartialChange(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	base := solidFrame(t, color.RGBA{})
	defer base.Close()
	m.Detect(base)

	// Paint a hand-sized rectangle into an otherwise identical frame.
	moved := solidFrame(t, color.RGBA{})
	defer moved.Close()
	gocv.Rectangle(moved, image.Rect(100, 60, 220, 180), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	detected, percent := m.Detect(moved)
	if !detected {
		t.Errorf("rectangle change (%.2f%%) should exceed the 1%% threshold", percent)
	}
	if percent >= 100 {
		t.Errorf("change percent = %v, want a partial change", percent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	dark := solidFrame(t, color.RGBA{})
	defer dark.Close()
	bright := solidFrame(t, color.RGBA{R: 255, G: 255, B: 255})
	defer bright.Close()

	m.Detect(dark)
	m.Reset()

	// After a reset the next frame is a fresh baseline.
	detected, _ := m.Detect(bright)
	if detected {
		t.Error("first frame after Reset should not report motion")
	}
}

func TestMotionDetector_NilAndEmptyFrames(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	if detected, _ := m.Detect(nil); detected {
		t.Error("nil frame should not report motion")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if detected, _ := m.Detect(&empty); detected {
		t.Error("empty frame should not report motion")
	}
}
