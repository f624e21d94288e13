package pagination

// OffsetResult is one page of an ordered list
type OffsetResult[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	HasMore bool  `json:"has_more"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](items []T, total int64, page int, size int) *OffsetResult[T] {
	offset := (page - 1) * size
	hasMore := int64(offset+size) < total

	return &OffsetResult[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		Size:    size,
		HasMore: hasMore,
	}
}

// Paginate cuts the requested page out of an already ordered slice
func Paginate[T any](all []T, req OffsetRequest) *OffsetResult[T] {
	req.Normalize()

	start := min(req.Offset(), len(all))
	end := min(start+req.Size, len(all))

	items := make([]T, end-start)
	copy(items, all[start:end])

	return NewOffsetResult(items, int64(len(all)), req.Page, req.Size)
}
