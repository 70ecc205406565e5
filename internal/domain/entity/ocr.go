package entity

// Token слово, распознанное OCR, со своей уверенностью и рамкой
type Token struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0..100
	BBox       Region  `json:"bbox"`
}

// OCRResult итог распознавания. Пустой PartNumber: нормальный исход, а не ошибка.
type OCRResult struct {
	PartNumber string  `json:"part_number"`
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"`
	Tokens     []Token `json:"details"`
	Error      string  `json:"error,omitempty"` // заполняется вместо токенов при внутреннем сбое
}

// FailedOCR результат с нулевой уверенностью и описанием сбоя
func FailedOCR(err error) OCRResult {
	return OCRResult{Tokens: []Token{}, Error: err.Error()}
}

// ValidationOutcome итог синтаксической проверки номера детали
type ValidationOutcome struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}
