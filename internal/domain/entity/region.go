package entity

import "image"

// Region прямоугольная область кадра, в которой предположительно есть текст
type Region struct {
	X      int `json:"x" yaml:"x" validate:"gte=0"`          // координата X левого верхнего угла
	Y      int `json:"y" yaml:"y" validate:"gte=0"`          // координата Y левого верхнего угла
	Width  int `json:"width" yaml:"width" validate:"gt=0"`   // ширина области в пикселях
	Height int `json:"height" yaml:"height" validate:"gt=0"` // высота области в пикселях
	Area   int `json:"area" yaml:"area"`                     // площадь области в пикселях
}

// NewRegion создаёт область и считает её площадь
func NewRegion(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height, Area: width * height}
}

// RegionFromRect переводит image.Rectangle в Region
func RegionFromRect(r image.Rectangle) Region {
	return NewRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// Center возвращает координаты центра области
func (r Region) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Rect возвращает область как image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty сообщает, что область не содержит ни одного пикселя
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within проверяет, что область целиком лежит внутри кадра width x height
func (r Region) Within(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && !r.Empty() &&
		r.X+r.Width <= width && r.Y+r.Height <= height
}

// Clip обрезает область по границам кадра; результат может быть пустым.
// Область с неположительной шириной или высотой пуста.
func (r Region) Clip(width, height int) Region {
	if r.Empty() {
		return Region{}
	}
	clipped := r.Rect().Intersect(image.Rect(0, 0, width, height))
	if clipped.Empty() {
		return Region{}
	}
	return RegionFromRect(clipped)
}
