package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRuleSpec_DefaultsToPartNumberValidation(t *testing.T) {
	spec, err := ParseRuleSpec("")
	require.NoError(t, err)
	require.Equal(t, KindPartNumberValidation, spec.Kind())

	spec, err = ParseRuleSpec(`{"min_length": 5}`)
	require.NoError(t, err)
	pn, ok := spec.(PartNumberValidationSpec)
	require.True(t, ok)
	require.NotNil(t, pn.MinLength)
	require.Equal(t, 5, *pn.MinLength)
}

func TestParseRuleSpec_AllKinds(t *testing.T) {
	cases := map[string]RuleKind{
		`{"type":"visual_inspection","features":[{"name":"hole","type":"circle","min_radius":5}]}`: KindVisualInspection,
		`{"type":"dimension_check","max_width":150}`:                                                KindDimensionCheck,
		`{"type":"color_check","expected_colors":[{"name":"red","hsv":[0,255,255]}]}`:              KindColorCheck,
		`{"type":"pattern_match","template_path":"tpl.png"}`:                                        KindPatternMatch,
	}
	for raw, want := range cases {
		spec, err := ParseRuleSpec(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, spec.Kind(), raw)
	}
}

func TestParseRuleSpec_UnknownKindIsAValue(t *testing.T) {
	spec, err := ParseRuleSpec(`{"type":"xray_scan"}`)
	require.NoError(t, err)
	unknown, ok := spec.(UnknownSpec)
	require.True(t, ok)
	require.Equal(t, "xray_scan", unknown.RawKind)
}

func TestParseRuleSpec_Malformed(t *testing.T) {
	_, err := ParseRuleSpec(`{not json`)
	require.Error(t, err)

	_, err = ParseRuleSpec(`{"type":"color_check","expected_colors":[{"name":"red","hsv":[0,255]}]}`)
	require.Error(t, err)

	_, err = ParseRuleSpec(`{"type":"dimension_check","max_width":"wide"}`)
	require.Error(t, err)

	_, err = ParseRuleSpec(`{"type":"color_check","area":{"x":50,"y":10,"width":-20,"height":10},"expected_colors":[{"name":"red","hsv":[0,255,255]}]}`)
	require.Error(t, err)

	_, err = ParseRuleSpec(`{"type":"visual_inspection","features":[{"name":"hole","type":"circle","area":{"x":0,"y":0,"width":10,"height":0}}]}`)
	require.Error(t, err)

	_, err = ParseRuleSpec(`{"type":"color_check","area":{"x":-1,"y":0,"width":10,"height":10}}`)
	require.Error(t, err)
}

func TestParseRuleSpec_AcceptsPositiveArea(t *testing.T) {
	spec, err := ParseRuleSpec(`{"type":"color_check","area":{"x":0,"y":0,"width":20,"height":10}}`)
	require.NoError(t, err)
	color, ok := spec.(ColorCheckSpec)
	require.True(t, ok)
	require.NotNil(t, color.Area)
	require.Equal(t, 20, color.Area.Width)
}

func TestCharSet_AcceptsStringOrList(t *testing.T) {
	spec, err := ParseRuleSpec(`{"forbidden_characters":"OI"}`)
	require.NoError(t, err)
	require.Equal(t, CharSet{"O", "I"}, spec.(PartNumberValidationSpec).ForbiddenCharacters)

	spec, err = ParseRuleSpec(`{"forbidden_characters":["O","Q"]}`)
	require.NoError(t, err)
	require.Equal(t, CharSet{"O", "Q"}, spec.(PartNumberValidationSpec).ForbiddenCharacters)
}

func TestParseItemCheck_KeepsIdentityOnError(t *testing.T) {
	rule := ParseItemCheck(ItemCheck{ID: 7, Name: "broken", RuleJSON: "{"})
	require.Equal(t, int64(7), rule.ID)
	require.Equal(t, "broken", rule.Name)
	require.Error(t, rule.Err)
	require.Nil(t, rule.Spec)
}

func TestAggregate(t *testing.T) {
	empty := Aggregate(nil)
	require.True(t, empty.OverallPass)
	require.Zero(t, empty.Total)
	require.NotNil(t, empty.Results)

	agg := Aggregate([]CheckResult{{Passed: true}, {Passed: false}, {Passed: true}})
	require.False(t, agg.OverallPass)
	require.Equal(t, 3, agg.Total)
	require.Equal(t, 2, agg.PassedCount)
	require.Equal(t, 1, agg.FailedCount)
}

func TestCameraConfigValidate(t *testing.T) {
	require.NoError(t, DefaultCameraConfig(0).Validate())

	cfg := DefaultCameraConfig(0)
	cfg.Brightness = 101
	require.Error(t, cfg.Validate())

	require.Error(t, DefaultCameraConfig(-1).Validate())
}
