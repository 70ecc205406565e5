package vision

import (
	"sort"

	"part-inspector/internal/domain/entity"
)

// SortByArea упорядочивает области по убыванию площади, сохраняя порядок равных.
func SortByArea(regions []entity.Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})
}
