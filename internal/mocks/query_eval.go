package mocks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/listquery"
)

// fieldFunc returns the value of a named field of one record.
type fieldFunc func(field string) (any, bool)

func matchesQuery(q listquery.Query, get fieldFunc) bool {
	for _, f := range q.Filters {
		v, ok := get(f.Field)
		if !ok || fmt.Sprint(v) != fmt.Sprint(f.Value) {
			return false
		}
	}
	if q.Search != nil {
		v, _ := get(q.Search.Field)
		s, _ := v.(string)
		if !strings.Contains(strings.ToLower(s), strings.ToLower(q.Search.Term)) {
			return false
		}
	}
	return true
}

// sortAndPage orders items by q.Order and returns the requested page.
func sortAndPage[T any](items []T, q listquery.Query, fields func(T) fieldFunc) []T {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := fields(items[i]), fields(items[j])
		for _, o := range q.Order {
			av, _ := a(o.Field)
			bv, _ := b(o.Field)
			c := compareValues(av, bv)
			if c == 0 {
				continue
			}
			if o.Direction == listquery.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if q.Offset >= len(items) {
		return []T{}
	}
	items = items[q.Offset:]
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case uuid.UUID:
		bv, _ := b.(uuid.UUID)
		return strings.Compare(av.String(), bv.String())
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}
