// Package partnumber выделяет номер детали из текста OCR и проверяет его синтаксис.
package partnumber

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"part-inspector/internal/domain/entity"
)

const (
	MinLength = 3
	MaxLength = 50
)

// Семейства шаблонов в порядке приоритета.
var families = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z0-9]{2,}-[A-Z0-9]{2,}`), // ABC-123, XYZ-456
	regexp.MustCompile(`[A-Z]{2,}[0-9]{2,}`),        // ABC123
	regexp.MustCompile(`[0-9]{2,}[A-Z]{2,}`),        // 123ABC
	regexp.MustCompile(`[A-Z0-9]{4,}`),              // любая буквенно-цифровая серия от 4 символов
}

var allowedChars = regexp.MustCompile(`^[A-Z0-9\-_]+$`)

// Extract возвращает наиболее вероятный номер детали или пустую строку.
func Extract(text string) string {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	for _, re := range families {
		matches := re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		// Самое длинное совпадение, при равенстве: первое.
		best := matches[0]
		for _, m := range matches[1:] {
			if len(m) > len(best) {
				best = m
			}
		}
		return best
	}

	if len(text) >= MinLength && allowedChars.MatchString(text) {
		return text
	}

	return ""
}

// Validate проверяет номер детали; первое нарушение определяет сообщение.
// Если patterns не пуст, номер должен целиком совпасть хотя бы с одним шаблоном.
func Validate(candidate string, patterns []string) entity.ValidationOutcome {
	switch {
	case candidate == "":
		return invalid("Part number is empty")
	case utf8.RuneCountInString(candidate) < MinLength:
		return invalid("Part number too short")
	case utf8.RuneCountInString(candidate) > MaxLength:
		return invalid("Part number too long")
	case !allowedChars.MatchString(candidate):
		return invalid("Part number contains invalid characters")
	}

	if len(patterns) > 0 {
		for _, p := range patterns {
			re, err := regexp.Compile(`^(?:` + p + `)$`)
			if err != nil {
				continue
			}
			if re.MatchString(candidate) {
				return entity.ValidationOutcome{IsValid: true, Message: "Valid part number"}
			}
		}
		return invalid("Part number doesn't match any valid pattern")
	}

	return entity.ValidationOutcome{IsValid: true, Message: "Valid part number"}
}

func invalid(msg string) entity.ValidationOutcome {
	return entity.ValidationOutcome{IsValid: false, Message: msg}
}
