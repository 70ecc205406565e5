package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
	"part-inspector/pkg/log"
)

// Значения параметров правил по умолчанию
const (
	defaultContourMinArea  = 100
	defaultContourMaxArea  = 10000
	defaultCircleMinRadius = 10
	defaultCircleMaxRadius = 100
	defaultLineThreshold   = 100
	defaultColorTolerance  = 20
	defaultColorMinPercent = 10
	defaultPatternThresh   = 0.8

	hueMax        = 179
	saturationMax = 255

	// Пробный прогон правил без детали
	DefaultTestPartNumber = "TEST-123"
	testFrameWidth        = 640
	testFrameHeight       = 480
)

// ItemCheckService применяет правила item check к кадру и номеру детали.
// Каждое правило выполняется изолированно: ошибка или паника валит только его.
type ItemCheckService struct {
	analyzer port.ImageAnalyzer
	rules    port.RuleSource
}

func NewItemCheckService(analyzer port.ImageAnalyzer, rules port.RuleSource) *ItemCheckService {
	return &ItemCheckService{analyzer: analyzer, rules: rules}
}

// RunActive загружает снимок активных правил и выполняет их
func (s *ItemCheckService) RunActive(ctx context.Context, frame entity.Frame, partNumber string) (entity.AggregateCheckResult, error) {
	if s.rules == nil {
		return s.Run(ctx, frame, partNumber, nil), nil
	}
	rules, err := s.rules.ActiveRules(ctx)
	if err != nil {
		return entity.AggregateCheckResult{}, fmt.Errorf("load item checks: %w", err)
	}
	return s.Run(ctx, frame, partNumber, rules), nil
}

// RunTest прогоняет активные правила на чёрном кадре 640x480.
// Пустой номер заменяется на DefaultTestPartNumber.
func (s *ItemCheckService) RunTest(ctx context.Context, partNumber string) (entity.AggregateCheckResult, error) {
	partNumber = strings.ToUpper(strings.TrimSpace(partNumber))
	if partNumber == "" {
		partNumber = DefaultTestPartNumber
	}

	frame, err := entity.NewFrame(testFrameWidth, testFrameHeight, 3, make([]byte, testFrameWidth*testFrameHeight*3))
	if err != nil {
		return entity.AggregateCheckResult{}, err
	}

	log.Info(log.Fields{"part_number": partNumber}, "[ItemCheckService.RunTest] running item checks on blank frame")
	return s.RunActive(ctx, frame, partNumber)
}

// Run выполняет правила по порядку. Пустой набор правил считается пройденным.
func (s *ItemCheckService) Run(ctx context.Context, frame entity.Frame, partNumber string, rules []entity.CheckRule) entity.AggregateCheckResult {
	results := make([]entity.CheckResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, s.runOne(ctx, frame, partNumber, rule))
	}

	agg := entity.Aggregate(results)
	log.Debug(log.Fields{
		"part_number": partNumber,
		"total":       agg.Total,
		"failed":      agg.FailedCount,
	}, "item checks finished")
	return agg
}

func (s *ItemCheckService) runOne(ctx context.Context, frame entity.Frame, partNumber string, rule entity.CheckRule) (res entity.CheckResult) {
	res = entity.CheckResult{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Details:  map[string]any{},
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error(log.Fields{"check_id": rule.ID, "panic": fmt.Sprint(r)}, "[ItemCheckService.runOne] rule panicked")
			res.Passed = false
			res.Message = fmt.Sprintf("Error executing check: %v", r)
			res.Details = map[string]any{}
		}
	}()

	if rule.Err != nil {
		res.Message = fmt.Sprintf("Error executing check: %v", rule.Err)
		return res
	}

	var o outcome
	switch spec := rule.Spec.(type) {
	case entity.PartNumberValidationSpec:
		o = checkPartNumber(partNumber, spec)
	case entity.VisualInspectionSpec:
		o = s.checkVisual(frame, spec)
	case entity.DimensionCheckSpec:
		o = s.checkDimensions(frame, spec)
	case entity.ColorCheckSpec:
		o = s.checkColor(frame, spec)
	case entity.PatternMatchSpec:
		o = checkPattern(spec)
	case entity.UnknownSpec:
		o = fail(fmt.Sprintf("Unknown check type: %s", spec.RawKind))
	default:
		o = fail("Error executing check: rule has no parameters")
	}

	res.Passed = o.passed
	res.Message = o.message
	if o.details != nil {
		res.Details = o.details
	}
	return res
}

// outcome итог проверки одного правила
type outcome struct {
	passed  bool
	message string
	details map[string]any
}

func pass(msg string, details map[string]any) outcome {
	return outcome{passed: true, message: msg, details: details}
}

func fail(msg string) outcome {
	return outcome{message: msg}
}

func failWith(msg string, details map[string]any) outcome {
	return outcome{message: msg, details: details}
}

func kindError(kind string, err error) outcome {
	return fail(fmt.Sprintf("Error in %s: %v", kind, err))
}

func checkPartNumber(partNumber string, spec entity.PartNumberValidationSpec) outcome {
	if len(spec.AllowedPatterns) > 0 && !matchesAnyPrefix(partNumber, spec.AllowedPatterns) {
		return failWith(
			fmt.Sprintf("Part number %s does not match any allowed pattern", partNumber),
			map[string]any{"allowed_patterns": spec.AllowedPatterns},
		)
	}

	length := utf8.RuneCountInString(partNumber)
	if n := intOr(spec.MinLength, 0); n > 0 && length < n {
		return fail(fmt.Sprintf("Part number too short (minimum %d characters)", n))
	}
	if n := intOr(spec.MaxLength, 0); n > 0 && length > n {
		return fail(fmt.Sprintf("Part number too long (maximum %d characters)", n))
	}

	for _, ch := range spec.ForbiddenCharacters {
		if ch != "" && strings.Contains(partNumber, ch) {
			return fail(fmt.Sprintf("Part number contains forbidden character: %s", ch))
		}
	}

	return pass("Part number validation passed", map[string]any{"part_number": partNumber})
}

// matchesAnyPrefix шаблон привязан к началу строки, но не к концу
func matchesAnyPrefix(s string, patterns []string) bool {
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)`)
		if err != nil {
			continue
		}
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func (s *ItemCheckService) checkVisual(frame entity.Frame, spec entity.VisualInspectionSpec) outcome {
	for _, f := range spec.Features {
		if !s.featurePresent(frame, f) {
			return failWith(
				fmt.Sprintf("Required feature not found: %s", f.Name),
				map[string]any{"missing_feature": f.Name},
			)
		}
	}
	return pass("Visual inspection passed", map[string]any{"features_checked": len(spec.Features)})
}

// featurePresent ошибка анализа признака означает, что признак не найден
func (s *ItemCheckService) featurePresent(frame entity.Frame, f entity.VisualFeature) bool {
	var (
		found bool
		err   error
	)
	switch f.Type {
	case entity.FeatureContour, "":
		found, err = s.analyzer.HasContour(frame, f.Area,
			floatOr(f.MinArea, defaultContourMinArea), floatOr(f.MaxArea, defaultContourMaxArea))
	case entity.FeatureCircle:
		found, err = s.analyzer.HasCircle(frame, f.Area,
			intOr(f.MinRadius, defaultCircleMinRadius), intOr(f.MaxRadius, defaultCircleMaxRadius))
	case entity.FeatureLine:
		found, err = s.analyzer.HasLine(frame, f.Area, intOr(f.Threshold, defaultLineThreshold))
	default:
		return false
	}

	if err != nil {
		log.Warn(log.Fields{"feature": f.Name, "type": f.Type, "error": err.Error()}, "[ItemCheckService.featurePresent] analysis failed")
		return false
	}
	return found
}

func (s *ItemCheckService) checkDimensions(frame entity.Frame, spec entity.DimensionCheckSpec) outcome {
	box, found, err := s.analyzer.LargestObject(frame)
	if err != nil {
		return kindError("dimension check", err)
	}
	if !found {
		return fail("No objects found for dimension check")
	}

	w, h := box.Width, box.Height
	if n := intOr(spec.MinWidth, 0); n > 0 && w < n {
		return fail(fmt.Sprintf("Object width %d is below minimum %d", w, n))
	}
	if n := intOr(spec.MaxWidth, 0); n > 0 && w > n {
		return fail(fmt.Sprintf("Object width %d exceeds maximum %d", w, n))
	}
	if n := intOr(spec.MinHeight, 0); n > 0 && h < n {
		return fail(fmt.Sprintf("Object height %d is below minimum %d", h, n))
	}
	if n := intOr(spec.MaxHeight, 0); n > 0 && h > n {
		return fail(fmt.Sprintf("Object height %d exceeds maximum %d", h, n))
	}

	return pass("Dimension check passed", map[string]any{
		"dimensions": map[string]int{"width": w, "height": h},
	})
}

func (s *ItemCheckService) checkColor(frame entity.Frame, spec entity.ColorCheckSpec) outcome {
	tolerance := floatOr(spec.Tolerance, defaultColorTolerance)

	for _, c := range spec.ExpectedColors {
		target, ok, err := targetHSV(c)
		if err != nil {
			return kindError("color check", err)
		}
		if !ok {
			continue
		}

		pct, err := s.analyzer.ColorCoverage(frame, spec.Area, HSVBand(target, tolerance))
		if err != nil {
			return kindError("color check", err)
		}

		minPct := floatOr(c.MinPercentage, defaultColorMinPercent)
		if pct < minPct {
			return failWith(
				fmt.Sprintf("Insufficient %s color: %.1f%% (minimum %g%%)", c.Name, pct, minPct),
				map[string]any{"color_percentages": map[string]float64{c.Name: pct}},
			)
		}
	}

	return pass("Color check passed", nil)
}

func checkPattern(spec entity.PatternMatchSpec) outcome {
	if strings.TrimSpace(spec.TemplatePath) == "" {
		return fail("No template path specified for pattern matching")
	}
	// Сопоставление с шаблоном не реализовано: правило проходит при наличии шаблона.
	return pass("Pattern matching check passed (placeholder implementation)", map[string]any{
		"template_path": spec.TemplatePath,
		"threshold":     floatOr(spec.Threshold, defaultPatternThresh),
	})
}

// targetHSV цвет правила в шкале OpenCV; ok == false, если цвет не задан
func targetHSV(c entity.ExpectedColor) ([3]float64, bool, error) {
	if len(c.HSV) == 3 {
		return [3]float64{c.HSV[0], c.HSV[1], c.HSV[2]}, true, nil
	}
	if c.Hex == "" {
		return [3]float64{}, false, nil
	}
	return HexToHSV(c.Hex)
}

// HexToHSV переводит #rrggbb в HSV OpenCV: H 0..179, S и V 0..255
func HexToHSV(hex string) ([3]float64, bool, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return [3]float64{}, false, fmt.Errorf("color %q: %w", hex, err)
	}
	h, s, v := col.Hsv()
	return [3]float64{h / 2, s * saturationMax, v * saturationMax}, true, nil
}

// HSVBand строит включительный диапазон вокруг цели с общим допуском
func HSVBand(target [3]float64, tolerance float64) port.HSVRange {
	limits := [3]float64{hueMax, saturationMax, saturationMax}

	var band port.HSVRange
	for i := range target {
		band.Lower[i] = clamp(target[i]-tolerance, 0, limits[i])
		band.Upper[i] = clamp(target[i]+tolerance, 0, limits[i])
	}
	return band
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
