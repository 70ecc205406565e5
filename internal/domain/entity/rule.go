package entity

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = validator.New()
)

// RuleKind тег вида правила в rule_json
type RuleKind string

const (
	KindPartNumberValidation RuleKind = "part_number_validation"
	KindVisualInspection     RuleKind = "visual_inspection"
	KindDimensionCheck       RuleKind = "dimension_check"
	KindColorCheck           RuleKind = "color_check"
	KindPatternMatch         RuleKind = "pattern_match"
)

// RuleSpec параметры правила. Набор вариантов закрыт: реализации есть только в этом пакете.
type RuleSpec interface {
	Kind() RuleKind
	isRuleSpec()
}

// PartNumberValidationSpec ограничения на сам номер детали
type PartNumberValidationSpec struct {
	AllowedPatterns     []string `json:"allowed_patterns"`
	MinLength           *int     `json:"min_length" validate:"omitempty,gte=0"`
	MaxLength           *int     `json:"max_length" validate:"omitempty,gte=0"`
	ForbiddenCharacters CharSet  `json:"forbidden_characters"`
}

// FeatureType вид признака для визуальной инспекции
type FeatureType string

const (
	FeatureContour FeatureType = "contour"
	FeatureCircle  FeatureType = "circle"
	FeatureLine    FeatureType = "line"
)

// VisualFeature именованный признак, который должен присутствовать на изображении
type VisualFeature struct {
	Name      string      `json:"name"`
	Type      FeatureType `json:"type"`
	Area      *Region     `json:"area"`
	MinArea   *float64    `json:"min_area" validate:"omitempty,gte=0"`
	MaxArea   *float64    `json:"max_area" validate:"omitempty,gte=0"`
	MinRadius *int        `json:"min_radius" validate:"omitempty,gte=0"`
	MaxRadius *int        `json:"max_radius" validate:"omitempty,gte=0"`
	Threshold *int        `json:"threshold" validate:"omitempty,gt=0"`
}

type VisualInspectionSpec struct {
	Features []VisualFeature `json:"features" validate:"dive"`
}

// DimensionCheckSpec границы рамки самого крупного объекта; нулевая граница не проверяется
type DimensionCheckSpec struct {
	MinWidth  *int `json:"min_width" validate:"omitempty,gte=0"`
	MaxWidth  *int `json:"max_width" validate:"omitempty,gte=0"`
	MinHeight *int `json:"min_height" validate:"omitempty,gte=0"`
	MaxHeight *int `json:"max_height" validate:"omitempty,gte=0"`
}

// ExpectedColor цвет в шкале OpenCV HSV (H 0..179, S и V 0..255) либо hex-строкой
type ExpectedColor struct {
	Name          string    `json:"name"`
	HSV           []float64 `json:"hsv" validate:"omitempty,len=3"`
	Hex           string    `json:"hex" validate:"omitempty,hexcolor"`
	MinPercentage *float64  `json:"min_percentage" validate:"omitempty,gte=0,lte=100"`
}

type ColorCheckSpec struct {
	Area           *Region         `json:"area"`
	ExpectedColors []ExpectedColor `json:"expected_colors" validate:"dive"`
	Tolerance      *float64        `json:"tolerance" validate:"omitempty,gte=0"`
}

type PatternMatchSpec struct {
	TemplatePath string   `json:"template_path"`
	Threshold    *float64 `json:"threshold" validate:"omitempty,gte=0,lte=1"`
}

// UnknownSpec правило с нераспознанным тегом; движок отклоняет его явно
type UnknownSpec struct {
	RawKind string
}

func (PartNumberValidationSpec) Kind() RuleKind { return KindPartNumberValidation }
func (VisualInspectionSpec) Kind() RuleKind     { return KindVisualInspection }
func (DimensionCheckSpec) Kind() RuleKind       { return KindDimensionCheck }
func (ColorCheckSpec) Kind() RuleKind           { return KindColorCheck }
func (PatternMatchSpec) Kind() RuleKind         { return KindPatternMatch }
func (u UnknownSpec) Kind() RuleKind            { return RuleKind(u.RawKind) }

func (PartNumberValidationSpec) isRuleSpec() {}
func (VisualInspectionSpec) isRuleSpec()     {}
func (DimensionCheckSpec) isRuleSpec()       {}
func (ColorCheckSpec) isRuleSpec()           {}
func (PatternMatchSpec) isRuleSpec()         {}
func (UnknownSpec) isRuleSpec()              {}

// CharSet набор запрещённых символов: строка или массив строк
type CharSet []string

func (c *CharSet) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		set := make(CharSet, 0, len(s))
		for _, r := range s {
			set = append(set, string(r))
		}
		*c = set
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("forbidden_characters must be a string or a list of strings: %w", err)
	}
	*c = list
	return nil
}

// ItemCheck сохранённое описание проверки
type ItemCheck struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	RuleJSON    string `json:"rule_json" yaml:"rule_json"`
	IsActive    bool   `json:"is_active" yaml:"is_active"`
}

// CheckRule разобранное правило. Err != nil означает битую конфигурацию,
// которую движок засчитывает как провал только этого правила.
type CheckRule struct {
	ID   int64
	Name string
	Spec RuleSpec
	Err  error
}

// ParseItemCheck разбирает rule_json сохранённой проверки
func ParseItemCheck(ic ItemCheck) CheckRule {
	spec, err := ParseRuleSpec(ic.RuleJSON)
	return CheckRule{ID: ic.ID, Name: ic.Name, Spec: spec, Err: err}
}

// ParseRuleSpec разбирает rule_json. Пустая строка и отсутствующий type
// означают part_number_validation без ограничений.
func ParseRuleSpec(ruleJSON string) (RuleSpec, error) {
	raw := []byte(strings.TrimSpace(ruleJSON))
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var header struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("invalid rule_json: %w", err)
	}

	kind := KindPartNumberValidation
	if header.Type != nil {
		kind = RuleKind(*header.Type)
	}

	var spec RuleSpec
	var err error
	switch kind {
	case KindPartNumberValidation:
		spec, err = decodeSpec[PartNumberValidationSpec](raw)
	case KindVisualInspection:
		spec, err = decodeSpec[VisualInspectionSpec](raw)
	case KindDimensionCheck:
		spec, err = decodeSpec[DimensionCheckSpec](raw)
	case KindColorCheck:
		spec, err = decodeSpec[ColorCheckSpec](raw)
	case KindPatternMatch:
		spec, err = decodeSpec[PatternMatchSpec](raw)
	default:
		return UnknownSpec{RawKind: string(kind)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s rule: %w", kind, err)
	}
	return spec, nil
}

func decodeSpec[T RuleSpec](raw []byte) (T, error) {
	var spec T
	if err := json.Unmarshal(raw, &spec); err != nil {
		return spec, err
	}
	if err := validate.Struct(spec); err != nil {
		return spec, err
	}
	return spec, nil
}
