package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

type fakeAnalyzer struct {
	contour, circle, line bool
	box                   entity.Region
	found                 bool
	coverage              float64
	err                   error
	panics                bool

	bands     []port.HSVRange
	minRadius int
	maxRadius int
	threshold int
	minArea   float64
	maxArea   float64
}

func (a *fakeAnalyzer) HasContour(_ entity.Frame, _ *entity.Region, minArea, maxArea float64) (bool, error) {
	a.minArea, a.maxArea = minArea, maxArea
	return a.contour, a.err
}

func (a *fakeAnalyzer) HasCircle(_ entity.Frame, _ *entity.Region, minRadius, maxRadius int) (bool, error) {
	a.minRadius, a.maxRadius = minRadius, maxRadius
	return a.circle, a.err
}

func (a *fakeAnalyzer) HasLine(_ entity.Frame, _ *entity.Region, threshold int) (bool, error) {
	a.threshold = threshold
	return a.line, a.err
}

func (a *fakeAnalyzer) LargestObject(_ entity.Frame) (entity.Region, bool, error) {
	if a.panics {
		panic("opencv assertion failed")
	}
	return a.box, a.found, a.err
}

func (a *fakeAnalyzer) ColorCoverage(_ entity.Frame, _ *entity.Region, band port.HSVRange) (float64, error) {
	a.bands = append(a.bands, band)
	return a.coverage, a.err
}

type fakeDetector struct {
	regions []entity.Region
	err     error
}

func (d *fakeDetector) Detect(context.Context, entity.Frame) ([]entity.Region, error) {
	return d.regions, d.err
}

// fakeExtractor отдаёт результат по координате X области; nil-область: ключ -1
type fakeExtractor struct {
	byX   map[int]entity.OCRResult
	calls int
}

func (e *fakeExtractor) Extract(_ context.Context, _ entity.Frame, region *entity.Region) entity.OCRResult {
	e.calls++
	key := -1
	if region != nil {
		key = region.X
	}
	if res, ok := e.byX[key]; ok {
		return res
	}
	return entity.OCRResult{Tokens: []entity.Token{}}
}

type fakeCodec struct{}

func (fakeCodec) Decode(data []byte) (entity.Frame, error) {
	if string(data) != "jpeg" {
		return entity.Frame{}, errors.New("unknown format")
	}
	return entity.NewFrame(100, 50, 3, make([]byte, 100*50*3))
}

func (fakeCodec) Encode(entity.Frame) ([]byte, error) { return []byte("out"), nil }

func (fakeCodec) Highlight(_ entity.Frame, regions []entity.Region) ([]byte, error) {
	return []byte("highlighted"), nil
}

type fakeCameras struct {
	frame entity.Frame
	err   error
}

func (c *fakeCameras) Initialize(string, entity.CameraConfig) error { return nil }
func (c *fakeCameras) Capture(string) (entity.Frame, error)         { return c.frame, c.err }
func (c *fakeCameras) Release(string) error                        { return nil }

func rule(t *testing.T, id int64, ruleJSON string) entity.CheckRule {
	t.Helper()
	return entity.ParseItemCheck(entity.ItemCheck{ID: id, Name: "check", RuleJSON: ruleJSON, IsActive: true})
}

func testFrame(t *testing.T) entity.Frame {
	t.Helper()
	frame, err := entity.NewFrame(10, 10, 3, make([]byte, 10*10*3))
	require.NoError(t, err)
	return frame
}
