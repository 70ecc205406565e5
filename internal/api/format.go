package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"part-inspector/internal/domain/entity"
)

// captionKind что оператор указал в подписи к фото
type captionKind int

const (
	captionNone       captionKind = iota
	captionArea                   // x,y,w,h: область номера
	captionDryRun                 // test x,y,w,h: проверка области без сохранения
	captionPartNumber             // номер детали вместо OCR
)

type caption struct {
	kind       captionKind
	area       entity.Region
	partNumber string
}

// parseCaption разбирает подпись к фото
func parseCaption(text string) (caption, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return caption{kind: captionNone}, nil
	}

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "test ") {
		area, err := parseArea(text[len("test "):])
		if err != nil {
			return caption{}, err
		}
		return caption{kind: captionDryRun, area: area}, nil
	}

	if strings.Count(text, ",") == 3 {
		area, err := parseArea(text)
		if err != nil {
			return caption{}, err
		}
		return caption{kind: captionArea, area: area}, nil
	}

	return caption{kind: captionPartNumber, partNumber: strings.ToUpper(text)}, nil
}

// parseArea разбирает "x,y,w,h"
func parseArea(s string) (entity.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return entity.Region{}, errors.New("area must be x,y,w,h")
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return entity.Region{}, fmt.Errorf("area value %q: %w", p, err)
		}
		if n < 0 {
			return entity.Region{}, fmt.Errorf("area value %d is negative", n)
		}
		v[i] = n
	}
	if v[2] == 0 || v[3] == 0 {
		return entity.Region{}, errors.New("area width and height must be positive")
	}

	return entity.NewRegion(v[0], v[1], v[2], v[3]), nil
}

func verdict(passed bool) string {
	if passed {
		return "✅ OK"
	}
	return "❌ NG"
}

func partNumberLine(ocr entity.OCRResult) string {
	if ocr.PartNumber == "" {
		return "🔎 Номер детали не распознан"
	}
	return fmt.Sprintf("🔎 Номер детали: %s (уверенность %.1f%%)", ocr.PartNumber, ocr.Confidence)
}

func writeChecks(sb *strings.Builder, agg entity.AggregateCheckResult) {
	if agg.Total == 0 {
		sb.WriteString("📋 Проверки не настроены\n")
		return
	}
	fmt.Fprintf(sb, "📋 Проверки: %d/%d пройдено\n", agg.PassedCount, agg.Total)
	for _, r := range agg.Results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
		}
		fmt.Fprintf(sb, "%s %s: %s\n", mark, r.RuleName, r.Message)
	}
}

// formatInspection текст ответа по итогам инспекции
func formatInspection(insp *entity.Inspection) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s — инспекция %s\n", verdict(insp.Passed), insp.Mode)
	sb.WriteString(partNumberLine(insp.OCR))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "📝 %s\n", insp.Validation.Message)

	if insp.Product != nil {
		desc := insp.Product.Description
		if desc == "" {
			desc = insp.Product.PartNumber
		}
		fmt.Fprintf(&sb, "📦 Продукт: %s\n", desc)
	} else {
		sb.WriteString("📦 Номер не найден в каталоге\n")
	}

	if n := len(insp.Candidates); n > 1 {
		fmt.Fprintf(&sb, "🔲 Найдено кандидатов: %d\n", n)
	}

	writeChecks(&sb, insp.ItemChecks)
	return strings.TrimRight(sb.String(), "\n")
}

// formatArea текст ответа по проверке области без сохранения
func formatArea(res *entity.AreaInspection) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🧪 Проверка области %d,%d %dx%d (не сохраняется)\n",
		res.Area.X, res.Area.Y, res.Area.Width, res.Area.Height)
	sb.WriteString(partNumberLine(res.OCR))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "📝 %s\n", res.Validation.Message)
	if res.ItemChecks != nil {
		writeChecks(&sb, *res.ItemChecks)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatStats сводка для /stats
func formatStats(s entity.InspectionStats) string {
	if s.Total == 0 {
		return "📊 Инспекций пока не было."
	}
	current := s.CurrentPartNumber
	if current == "" {
		current = "—"
	}
	return fmt.Sprintf("📊 Всего: %d\n✅ OK: %d (%.1f%%)\n❌ NG: %d (%.1f%%)\n🤖 Авто: %d, ✋ ручных: %d\n🔖 Текущий номер: %s",
		s.Total, s.OK, s.OKPercentage, s.NG, s.NGPercentage, s.Auto, s.Manual, current)
}

// parseMode разбирает аргумент /recent; пустой аргумент означает все режимы
func parseMode(arg string) (entity.InspectionMode, error) {
	switch mode := entity.InspectionMode(strings.ToLower(strings.TrimSpace(arg))); mode {
	case "", entity.ModeAuto, entity.ModeManual:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown inspection mode %q", arg)
	}
}

// formatRecent список последних инспекций для /recent
func formatRecent(list []*entity.Inspection) string {
	if len(list) == 0 {
		return "🗂 Инспекций пока не было."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 Последние инспекции: %d\n", len(list))
	for _, insp := range list {
		pn := insp.OCR.PartNumber
		if pn == "" {
			pn = "—"
		}
		fmt.Fprintf(&sb, "%s %s %s %s\n", insp.InspectedAt.Format("02.01 15:04:05"), verdict(insp.Passed), insp.Mode, pn)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatRules список item check для /rules
func formatRules(checks []entity.ItemCheck) string {
	if len(checks) == 0 {
		return "📋 Проверки не настроены"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Проверки: %d\n", len(checks))
	for _, ic := range checks {
		state := "🟢"
		if !ic.IsActive {
			state = "⚪️"
		}
		kind := "ошибка конфигурации"
		if spec, err := entity.ParseRuleSpec(ic.RuleJSON); err == nil {
			kind = string(spec.Kind())
		}
		fmt.Fprintf(&sb, "%s #%d %s (%s)\n", state, ic.ID, ic.Name, kind)
		if ic.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", ic.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatTestChecks итог пробного прогона правил
func formatTestChecks(partNumber string, agg entity.AggregateCheckResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧪 Пробный прогон проверок для %s: %s\n", partNumber, verdict(agg.OverallPass))
	writeChecks(&sb, agg)
	return strings.TrimRight(sb.String(), "\n")
}
