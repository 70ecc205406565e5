//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

func newCanvas(t *testing.T, w, h int, bg color.RGBA) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(bg.B), float64(bg.G), float64(bg.R), 0), h, w, gocv.MatTypeCV8UC3)
	require.False(t, mat.Empty())
	return mat
}

func toFrame(t *testing.T, mat gocv.Mat) entity.Frame {
	t.Helper()
	frame, err := FromMat(mat)
	require.NoError(t, err)
	return frame
}

func TestMatRoundTrip(t *testing.T) {
	mat := newCanvas(t, 8, 4, color.RGBA{R: 10, G: 20, B: 30})
	defer mat.Close()

	frame := toFrame(t, mat)
	require.Equal(t, 8, frame.Width)
	require.Equal(t, 4, frame.Height)
	require.Equal(t, []byte{30, 20, 10}, frame.Data[:3])

	back, err := ToMat(frame)
	require.NoError(t, err)
	defer back.Close()
	require.Equal(t, 8, back.Cols())
	require.Equal(t, 4, back.Rows())
}

func TestGoCVRegionDetector_FindsTextLine(t *testing.T) {
	mat := newCanvas(t, 640, 480, color.RGBA{R: 255, G: 255, B: 255})
	defer mat.Close()
	gocv.PutText(&mat, "ABC-1234", image.Pt(100, 200), gocv.FontHersheySimplex, 1.2, color.RGBA{A: 255}, 3)

	frame := toFrame(t, mat)
	regions, err := NewGoCVRegionDetector().Detect(context.Background(), frame)
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	for i, r := range regions {
		require.True(t, r.Within(frame.Width, frame.Height))
		require.Equal(t, r.Width*r.Height, r.Area)
		if i > 0 {
			require.GreaterOrEqual(t, regions[i-1].Area, r.Area)
		}
	}
}

func TestGoCVRegionDetector_BlankFrame(t *testing.T) {
	mat := newCanvas(t, 320, 240, color.RGBA{R: 128, G: 128, B: 128})
	defer mat.Close()

	regions, err := NewGoCVRegionDetector().Detect(context.Background(), toFrame(t, mat))
	require.NoError(t, err)
	require.Empty(t, regions)
}

func TestGoCVAnalyzer_LargestObject(t *testing.T) {
	mat := newCanvas(t, 400, 300, color.RGBA{})
	defer mat.Close()
	gocv.Rectangle(&mat, image.Rect(50, 60, 250, 140), color.RGBA{R: 255, G: 255, B: 255}, -1)
	gocv.Rectangle(&mat, image.Rect(300, 200, 320, 220), color.RGBA{R: 255, G: 255, B: 255}, -1)

	box, found, err := NewGoCVAnalyzer().LargestObject(toFrame(t, mat))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 200, box.Width)
	require.Equal(t, 80, box.Height)
}

func TestGoCVAnalyzer_LargestObjectOnBlack(t *testing.T) {
	mat := newCanvas(t, 100, 100, color.RGBA{})
	defer mat.Close()

	_, found, err := NewGoCVAnalyzer().LargestObject(toFrame(t, mat))
	require.NoError(t, err)
	require.False(t, found)
}

func TestGoCVAnalyzer_ColorCoverage(t *testing.T) {
	// чистый синий: в OpenCV HSV это H=120, S=255, V=255
	mat := newCanvas(t, 50, 50, color.RGBA{B: 255})
	defer mat.Close()
	frame := toFrame(t, mat)
	a := NewGoCVAnalyzer()

	pct, err := a.ColorCoverage(frame, nil, port.HSVRange{Lower: [3]float64{100, 235, 235}, Upper: [3]float64{140, 255, 255}})
	require.NoError(t, err)
	require.InDelta(t, 100.0, pct, 0.001)

	pct, err = a.ColorCoverage(frame, nil, port.HSVRange{Lower: [3]float64{0, 235, 235}, Upper: [3]float64{20, 255, 255}})
	require.NoError(t, err)
	require.Zero(t, pct)
}

func TestGoCVAnalyzer_Features(t *testing.T) {
	mat := newCanvas(t, 300, 300, color.RGBA{})
	defer mat.Close()
	gocv.Circle(&mat, image.Pt(150, 150), 40, color.RGBA{R: 255, G: 255, B: 255}, 3)
	gocv.Line(&mat, image.Pt(10, 280), image.Pt(290, 280), color.RGBA{R: 255, G: 255, B: 255}, 2)
	frame := toFrame(t, mat)
	a := NewGoCVAnalyzer()

	ok, err := a.HasCircle(frame, nil, 20, 60)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.HasLine(frame, nil, 100)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.HasContour(frame, nil, 100, 100000)
	require.NoError(t, err)
	require.True(t, ok)

	area := entity.NewRegion(0, 0, 40, 40)
	ok, err = a.HasContour(frame, &area, 100, 100000)
	require.NoError(t, err)
	require.False(t, ok)
}
