package listquery

// Page is the paginated response envelope shared by every list endpoint.
type Page[T any] struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Data  []T `json:"data"`
}

// NewPage assembles the response for q from the fetched rows and the total
// number of matching rows. Data is never nil so it encodes as [].
func NewPage[T any](q Query, items []T, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return Page[T]{
		Total: total,
		Page:  q.Page,
		Pages: PageCount(total, q.Limit),
		Data:  items,
	}
}

// PageCount returns ceil(total/limit), or 0 when either is not positive.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
