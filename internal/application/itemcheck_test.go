package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/infrastructure/storage"
)

func TestItemCheckService_EmptyRuleSet(t *testing.T) {
	svc := NewItemCheckService(&fakeAnalyzer{}, nil)

	agg := svc.Run(context.Background(), testFrame(t), "ABC-123", nil)
	require.True(t, agg.OverallPass)
	require.Zero(t, agg.Total)
	require.Zero(t, agg.PassedCount)
	require.Zero(t, agg.FailedCount)
	require.NotNil(t, agg.Results)
}

func TestItemCheckService_DimensionCheck(t *testing.T) {
	a := &fakeAnalyzer{box: entity.NewRegion(10, 10, 200, 80), found: true}
	svc := NewItemCheckService(a, nil)
	ctx := context.Background()

	agg := svc.Run(ctx, testFrame(t), "", []entity.CheckRule{
		rule(t, 1, `{"type":"dimension_check","min_width":100,"max_width":300,"min_height":50,"max_height":120}`),
	})
	require.True(t, agg.OverallPass)
	require.Equal(t, "Dimension check passed", agg.Results[0].Message)
	require.Equal(t, map[string]int{"width": 200, "height": 80}, agg.Results[0].Details["dimensions"])

	agg = svc.Run(ctx, testFrame(t), "", []entity.CheckRule{
		rule(t, 2, `{"type":"dimension_check","max_width":150}`),
	})
	require.False(t, agg.OverallPass)
	require.Equal(t, "Object width 200 exceeds maximum 150", agg.Results[0].Message)

	agg = svc.Run(ctx, testFrame(t), "", []entity.CheckRule{
		rule(t, 3, `{"type":"dimension_check","min_width":0,"max_height":60}`),
	})
	require.Equal(t, "Object height 80 exceeds maximum 60", agg.Results[0].Message)

	a.found = false
	agg = svc.Run(ctx, testFrame(t), "", []entity.CheckRule{rule(t, 4, `{"type":"dimension_check"}`)})
	require.Equal(t, "No objects found for dimension check", agg.Results[0].Message)
}

func TestItemCheckService_ColorCheck(t *testing.T) {
	ctx := context.Background()
	rules := []entity.CheckRule{
		rule(t, 1, `{"type":"color_check","expected_colors":[{"name":"blue","hsv":[120,255,255],"min_percentage":10}]}`),
	}

	a := &fakeAnalyzer{coverage: 100}
	agg := NewItemCheckService(a, nil).Run(ctx, testFrame(t), "", rules)
	require.True(t, agg.OverallPass)
	require.Equal(t, "Color check passed", agg.Results[0].Message)
	require.Equal(t, [3]float64{100, 235, 235}, a.bands[0].Lower)
	require.Equal(t, [3]float64{140, 255, 255}, a.bands[0].Upper)

	a = &fakeAnalyzer{coverage: 0}
	agg = NewItemCheckService(a, nil).Run(ctx, testFrame(t), "", rules)
	require.False(t, agg.OverallPass)
	require.Equal(t, "Insufficient blue color: 0.0% (minimum 10%)", agg.Results[0].Message)
	require.Equal(t, map[string]float64{"blue": 0}, agg.Results[0].Details["color_percentages"])
}

func TestItemCheckService_ColorCheckHexAndSkipped(t *testing.T) {
	a := &fakeAnalyzer{coverage: 50}
	agg := NewItemCheckService(a, nil).Run(context.Background(), testFrame(t), "", []entity.CheckRule{
		rule(t, 1, `{"type":"color_check","tolerance":5,"expected_colors":[{"name":"none"},{"name":"red","hex":"#ff0000"}]}`),
	})
	require.True(t, agg.OverallPass)
	require.Len(t, a.bands, 1)
	require.Equal(t, [3]float64{0, 250, 250}, a.bands[0].Lower)
	require.Equal(t, [3]float64{5, 255, 255}, a.bands[0].Upper)
}

func TestItemCheckService_PartNumberValidation(t *testing.T) {
	svc := NewItemCheckService(&fakeAnalyzer{}, nil)
	ctx := context.Background()
	frame := testFrame(t)

	cases := []struct {
		name    string
		json    string
		pn      string
		passed  bool
		message string
	}{
		{"no constraints", ``, "ABC-123", true, "Part number validation passed"},
		{"prefix match", `{"allowed_patterns":["ABC"]}`, "ABC-123", true, "Part number validation passed"},
		{"pattern miss", `{"allowed_patterns":["^XYZ", "[0-9]+$"]}`, "ABC-123", false, "Part number ABC-123 does not match any allowed pattern"},
		{"too short", `{"min_length":8}`, "ABC-123", false, "Part number too short (minimum 8 characters)"},
		{"too long", `{"max_length":5}`, "ABC-123", false, "Part number too long (maximum 5 characters)"},
		{"length in characters", `{"min_length":3,"max_length":3}`, "ÄÖÜ", true, "Part number validation passed"},
		{"short in characters", `{"min_length":3}`, "ÄB", false, "Part number too short (minimum 3 characters)"},
		{"forbidden string", `{"forbidden_characters":"_-"}`, "ABC-123", false, "Part number contains forbidden character: -"},
		{"forbidden list", `{"forbidden_characters":["O","I"]}`, "ABC-123", true, "Part number validation passed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := svc.Run(ctx, frame, tc.pn, []entity.CheckRule{rule(t, 1, tc.json)})
			require.Equal(t, tc.passed, agg.Results[0].Passed)
			require.Equal(t, tc.message, agg.Results[0].Message)
		})
	}
}

func TestItemCheckService_VisualInspection(t *testing.T) {
	ctx := context.Background()
	r := rule(t, 1, `{"type":"visual_inspection","features":[
		{"name":"hole","type":"circle"},
		{"name":"edge","type":"line","threshold":80},
		{"name":"body"}
	]}`)

	a := &fakeAnalyzer{contour: true, circle: true, line: true}
	agg := NewItemCheckService(a, nil).Run(ctx, testFrame(t), "", []entity.CheckRule{r})
	require.True(t, agg.OverallPass)
	require.Equal(t, "Visual inspection passed", agg.Results[0].Message)
	require.Equal(t, 3, agg.Results[0].Details["features_checked"])
	require.Equal(t, 10, a.minRadius)
	require.Equal(t, 100, a.maxRadius)
	require.Equal(t, 80, a.threshold)
	require.Equal(t, 100.0, a.minArea)
	require.Equal(t, 10000.0, a.maxArea)

	a = &fakeAnalyzer{contour: true, circle: true, line: false}
	agg = NewItemCheckService(a, nil).Run(ctx, testFrame(t), "", []entity.CheckRule{r})
	require.False(t, agg.OverallPass)
	require.Equal(t, "Required feature not found: edge", agg.Results[0].Message)
	require.Equal(t, "edge", agg.Results[0].Details["missing_feature"])

	unknown := rule(t, 2, `{"type":"visual_inspection","features":[{"name":"star","type":"star"}]}`)
	agg = NewItemCheckService(&fakeAnalyzer{contour: true}, nil).Run(ctx, testFrame(t), "", []entity.CheckRule{unknown})
	require.Equal(t, "Required feature not found: star", agg.Results[0].Message)
}

func TestItemCheckService_PatternMatch(t *testing.T) {
	svc := NewItemCheckService(&fakeAnalyzer{}, nil)
	agg := svc.Run(context.Background(), testFrame(t), "", []entity.CheckRule{
		rule(t, 1, `{"type":"pattern_match"}`),
		rule(t, 2, `{"type":"pattern_match","template_path":"templates/logo.png"}`),
	})

	require.False(t, agg.Results[0].Passed)
	require.Equal(t, "No template path specified for pattern matching", agg.Results[0].Message)
	require.True(t, agg.Results[1].Passed)
	require.Equal(t, "templates/logo.png", agg.Results[1].Details["template_path"])
	require.Equal(t, 1, agg.PassedCount)
	require.Equal(t, 1, agg.FailedCount)
}

func TestItemCheckService_FaultIsolation(t *testing.T) {
	a := &fakeAnalyzer{panics: true}
	svc := NewItemCheckService(a, nil)

	agg := svc.Run(context.Background(), testFrame(t), "ABC-123", []entity.CheckRule{
		rule(t, 1, `{"type":"hologram_check"}`),
		rule(t, 2, `{not json`),
		rule(t, 3, `{"type":"dimension_check"}`),
		rule(t, 4, `{"min_length":3}`),
	})

	require.Equal(t, 4, agg.Total)
	require.Equal(t, agg.Total, agg.PassedCount+agg.FailedCount)
	require.False(t, agg.OverallPass)

	require.False(t, agg.Results[0].Passed)
	require.Equal(t, "Unknown check type: hologram_check", agg.Results[0].Message)
	require.False(t, agg.Results[1].Passed)
	require.Contains(t, agg.Results[1].Message, "Error executing check")
	require.False(t, agg.Results[2].Passed)
	require.Contains(t, agg.Results[2].Message, "opencv assertion failed")
	require.True(t, agg.Results[3].Passed)
	require.EqualValues(t, 4, agg.Results[3].RuleID)
}

func TestItemCheckService_NonPositiveAreaIsConfigError(t *testing.T) {
	a := &fakeAnalyzer{coverage: 100, contour: true}
	agg := NewItemCheckService(a, nil).Run(context.Background(), testFrame(t), "", []entity.CheckRule{
		rule(t, 1, `{"type":"color_check","area":{"x":50,"y":10,"width":-20,"height":10},"expected_colors":[{"name":"red","hsv":[0,255,255]}]}`),
		rule(t, 2, `{"type":"visual_inspection","features":[{"name":"body","area":{"x":0,"y":0,"width":5,"height":0}}]}`),
	})

	require.Equal(t, 2, agg.FailedCount)
	for _, res := range agg.Results {
		require.False(t, res.Passed)
		require.Contains(t, res.Message, "Error executing check")
	}
	require.Empty(t, a.bands)
}

func TestItemCheckService_AnalyzerError(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("native backend missing")}
	agg := NewItemCheckService(a, nil).Run(context.Background(), testFrame(t), "", []entity.CheckRule{
		rule(t, 1, `{"type":"dimension_check"}`),
		rule(t, 2, `{"type":"color_check","expected_colors":[{"name":"red","hsv":[0,255,255]}]}`),
	})
	require.Equal(t, "Error in dimension check: native backend missing", agg.Results[0].Message)
	require.Equal(t, "Error in color check: native backend missing", agg.Results[1].Message)
}

func TestItemCheckService_RunActive(t *testing.T) {
	catalog := storage.NewCatalog(nil, []entity.ItemCheck{
		{ID: 1, Name: "length", RuleJSON: `{"min_length":3}`, IsActive: true},
		{ID: 2, Name: "off", RuleJSON: `{"type":"pattern_match"}`, IsActive: false},
	})
	svc := NewItemCheckService(&fakeAnalyzer{}, catalog)

	agg, err := svc.RunActive(context.Background(), testFrame(t), "ABC-123")
	require.NoError(t, err)
	require.Equal(t, 1, agg.Total)
	require.True(t, agg.OverallPass)
}

func TestItemCheckService_RunTest(t *testing.T) {
	catalog := storage.NewCatalog(nil, []entity.ItemCheck{
		{ID: 1, Name: "prefix", RuleJSON: `{"allowed_patterns":["TEST"]}`, IsActive: true},
		{ID: 2, Name: "size", RuleJSON: `{"type":"dimension_check"}`, IsActive: true},
	})
	a := &fakeAnalyzer{box: entity.NewRegion(0, 0, 10, 10), found: true}
	svc := NewItemCheckService(a, catalog)

	agg, err := svc.RunTest(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, agg.Total)
	require.True(t, agg.OverallPass)
	require.Equal(t, DefaultTestPartNumber, agg.Results[0].Details["part_number"])

	agg, err = svc.RunTest(context.Background(), " abc-1 ")
	require.NoError(t, err)
	require.False(t, agg.Results[0].Passed)
	require.Equal(t, "Part number ABC-1 does not match any allowed pattern", agg.Results[0].Message)
}

func TestHSVBandAndHex(t *testing.T) {
	band := HSVBand([3]float64{175, 10, 250}, 20)
	require.Equal(t, [3]float64{155, 0, 230}, band.Lower)
	require.Equal(t, [3]float64{179, 30, 255}, band.Upper)

	hsv, ok, err := HexToHSV("#0000ff")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 120, hsv[0], 0.001)
	require.InDelta(t, 255, hsv[1], 0.001)
	require.InDelta(t, 255, hsv[2], 0.001)

	_, _, err = HexToHSV("blue")
	require.Error(t, err)
}
