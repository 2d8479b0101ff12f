package listquery

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// Query parameter names understood by every list endpoint.
const (
	ParamPage     = "page"
	ParamLimit    = "limit"
	ParamOrderBy  = "orderBy"
	ParamOrderDir = "orderDir"
	ParamSearch   = "search"
)

// DefaultPage is used when page is absent, unparsable or below 1.
const DefaultPage = 1

// ErrInvalidParam marks a list parameter that could not be accepted.
var ErrInvalidParam = errors.New("invalid list parameter")

// ErrMissingOwner is returned when an owner-scoped resource is queried
// without an authenticated owner.
var ErrMissingOwner = errors.New("owner-scoped list requires an owner")

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is one term of an ORDER BY clause.
type Order struct {
	Field     string
	Direction Direction
}

// Filter is an equality predicate on a declared field.
type Filter struct {
	Field string
	Value any
}

// Search is a case-insensitive substring match on a single field.
type Search struct {
	Field string
	Term  string
}

// FilterSpec declares an equality filter accepted by a Resource.
// Parse converts the raw query value into the typed value compared against
// Field; returning an error rejects the whole request.
type FilterSpec struct {
	Field string
	Parse func(raw string) (any, error)
}

// Resource declares what a list endpoint accepts.
type Resource struct {
	Name         string
	DefaultLimit int
	MaxLimit     int

	// SortKeys maps client-facing orderBy values to internal field names.
	// Anything not listed is rejected.
	SortKeys     map[string]string
	DefaultOrder []Order
	// TieBreaker is appended to every ordering so that pages are stable.
	TieBreaker string

	SearchField string
	Filters     map[string]FilterSpec

	// OwnerField, when set, makes the resource owner-scoped: every query
	// carries an equality filter on this field bound to the caller's identity.
	OwnerField string
}

// Query is the sanitized description of a list read.
type Query struct {
	Page   int
	Limit  int
	Offset int
	Order  []Order
	Search *Search
	// Filters holds the equality predicates. For owner-scoped resources the
	// owner predicate is always first.
	Filters []Filter
}

// Build resolves raw query values against res. ownerID is the authenticated
// identity; it is never read from values.
//
// Invalid page and limit values fall back to defaults. A page whose offset
// would overflow, an unknown sort key, a direction other than ASC/DESC, or a
// filter value rejected by its parser produces a domain.ValidationErrors
// listing every problem.
func Build(values url.Values, ownerID uuid.UUID, res Resource) (Query, error) {
	if res.OwnerField != "" && ownerID == uuid.Nil {
		return Query{}, ErrMissingOwner
	}

	q := Query{
		Page:  parsePositive(values.Get(ParamPage), DefaultPage),
		Limit: parsePositive(values.Get(ParamLimit), res.DefaultLimit),
	}
	if res.MaxLimit > 0 && q.Limit > res.MaxLimit {
		q.Limit = res.MaxLimit
	}

	var errs domain.ValidationErrors

	// Offset must stay representable; a wrapped value would silently
	// select a different page.
	if q.Limit > 0 && q.Page-1 > math.MaxInt/q.Limit {
		errs = append(errs, domain.NewValidationError(ParamPage, "is too large", ErrInvalidParam))
	} else {
		q.Offset = (q.Page - 1) * q.Limit
	}

	order, orderErrs := resolveOrder(values, res)
	errs = append(errs, orderErrs...)
	q.Order = order

	if term := strings.TrimSpace(values.Get(ParamSearch)); term != "" && res.SearchField != "" {
		q.Search = &Search{Field: res.SearchField, Term: term}
	}

	if res.OwnerField != "" {
		q.Filters = append(q.Filters, Filter{Field: res.OwnerField, Value: ownerID})
	}

	for _, name := range sortedKeys(res.Filters) {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		spec := res.Filters[name]
		value, err := spec.Parse(raw)
		if err != nil {
			errs = append(errs, filterError(name, err))
			continue
		}
		q.Filters = append(q.Filters, Filter{Field: spec.Field, Value: value})
	}

	if len(errs) > 0 {
		return Query{}, errs
	}
	return q, nil
}

// parsePositive returns the integer in raw, or def when raw is not an
// integer of at least 1.
func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// resolveOrder applies orderBy/orderDir only when both are supplied. Each
// supplied value is still checked so bad input is reported rather than
// silently ignored.
func resolveOrder(values url.Values, res Resource) ([]Order, domain.ValidationErrors) {
	var errs domain.ValidationErrors

	rawBy := strings.TrimSpace(values.Get(ParamOrderBy))
	rawDir := strings.TrimSpace(values.Get(ParamOrderDir))

	var field string
	if rawBy != "" {
		f, ok := res.SortKeys[rawBy]
		if !ok {
			errs = append(errs, domain.NewValidationError(ParamOrderBy,
				"must be one of "+strings.Join(sortedKeys(res.SortKeys), ", "), ErrInvalidParam))
		}
		field = f
	}

	var dir Direction
	if rawDir != "" {
		dir = Direction(strings.ToUpper(rawDir))
		if dir != Asc && dir != Desc {
			errs = append(errs, domain.NewValidationError(ParamOrderDir, "must be ASC or DESC", ErrInvalidParam))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	var order []Order
	if field != "" && dir != "" {
		order = []Order{{Field: field, Direction: dir}}
	} else {
		order = append(order, res.DefaultOrder...)
	}

	if res.TieBreaker != "" && !containsField(order, res.TieBreaker) {
		order = append(order, Order{Field: res.TieBreaker, Direction: Asc})
	}

	return order, nil
}

func filterError(name string, err error) *domain.ValidationError {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return domain.NewValidationError(name, verr.Message, verr.Err)
	}
	return domain.NewValidationError(name, err.Error(), ErrInvalidParam)
}

func containsField(order []Order, field string) bool {
	for _, o := range order {
		if o.Field == field {
			return true
		}
	}
	return false
}
