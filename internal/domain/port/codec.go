package port

import "part-inspector/internal/domain/entity"

// FrameCodec переводит кадры в переносимый вид на границе системы
type FrameCodec interface {
	// Decode превращает байты изображения (JPEG, PNG, ...) в BGR-кадр
	Decode(data []byte) (entity.Frame, error)

	// Encode кодирует кадр в JPEG
	Encode(frame entity.Frame) ([]byte, error)

	// Highlight рисует рамки вокруг областей и возвращает JPEG
	Highlight(frame entity.Frame, regions []entity.Region) ([]byte, error)
}
