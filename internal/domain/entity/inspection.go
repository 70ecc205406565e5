package entity

import "time"

// InspectionMode способ поиска номера детали
type InspectionMode string

const (
	ModeManual InspectionMode = "manual" // область задана оператором или весь кадр
	ModeAuto   InspectionMode = "auto"   // области найдены детектором
)

// RegionCandidate результат OCR для одной найденной области
type RegionCandidate struct {
	Region Region    `json:"region"`
	OCR    OCRResult `json:"ocr_result"`
	Index  int       `json:"region_index"` // позиция области в выдаче детектора
}

// Inspection хранит итоговый вердикт инспекции.
type Inspection struct {
	ID            string               `json:"id"`
	Mode          InspectionMode       `json:"inspection_mode"`
	OCR           OCRResult            `json:"ocr_result"`
	Validation    ValidationOutcome    `json:"validation"`
	DetectionArea *Region              `json:"detection_area,omitempty"`
	Candidates    []RegionCandidate    `json:"all_results,omitempty"`
	Product       *Product             `json:"product,omitempty"`
	ItemChecks    AggregateCheckResult `json:"item_check_results"`
	Passed        bool                 `json:"is_ok"`
	InspectedAt   time.Time            `json:"inspected_at"`
}

// ProductExists сообщает, найден ли номер детали в каталоге
func (i *Inspection) ProductExists() bool {
	return i.Product != nil
}

// AreaInspection результат проверки конкретной области без сохранения.
// ItemChecks == nil, если номер детали не прочитан.
type AreaInspection struct {
	OCR        OCRResult             `json:"ocr_result"`
	Validation ValidationOutcome     `json:"validation"`
	Area       Region                `json:"coordinates"`
	ItemChecks *AggregateCheckResult `json:"item_check_results"`
}

// InspectionStats сводка по сохранённым инспекциям
type InspectionStats struct {
	Total             int     `json:"total_inspections"`
	OK                int     `json:"ok_count"`
	NG                int     `json:"ng_count"`
	Auto              int     `json:"auto_count"`
	Manual            int     `json:"manual_count"`
	OKPercentage      float64 `json:"ok_percentage"`
	NGPercentage      float64 `json:"ng_percentage"`
	CurrentPartNumber string  `json:"current_part_number"`
}

// Product запись каталога продукции
type Product struct {
	PartNumber  string `json:"part_number" yaml:"part_number"`
	Description string `json:"description" yaml:"description"`
}
