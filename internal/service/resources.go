package service

import (
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/listquery"
)

// Internal field names understood by the stores.
const (
	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldName      = "name"
	FieldDone      = "done"
	FieldUsername  = "username"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// TaskResource describes GET /api/tasks. Results are always scoped to the
// caller.
func TaskResource(cfg config.PaginationConfig) listquery.Resource {
	return listquery.Resource{
		Name:         "tasks",
		DefaultLimit: cfg.TaskDefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		SortKeys: map[string]string{
			"id":        FieldID,
			"name":      FieldName,
			"done":      FieldDone,
			"createdAt": FieldCreatedAt,
			"updatedAt": FieldUpdatedAt,
		},
		DefaultOrder: []listquery.Order{{Field: FieldCreatedAt, Direction: listquery.Asc}},
		TieBreaker:   FieldID,
		SearchField:  FieldName,
		Filters: map[string]listquery.FilterSpec{
			"done": {Field: FieldDone, Parse: listquery.ParseBool},
		},
		OwnerField: FieldOwnerID,
	}
}

// AccountResource describes GET /api/users.
func AccountResource(cfg config.PaginationConfig) listquery.Resource {
	return listquery.Resource{
		Name:         "users",
		DefaultLimit: cfg.UserDefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		SortKeys: map[string]string{
			"id":        FieldID,
			"username":  FieldUsername,
			"status":    FieldStatus,
			"createdAt": FieldCreatedAt,
			"updatedAt": FieldUpdatedAt,
		},
		DefaultOrder: []listquery.Order{{Field: FieldCreatedAt, Direction: listquery.Asc}},
		TieBreaker:   FieldID,
		SearchField:  FieldUsername,
		Filters: map[string]listquery.FilterSpec{
			"status": {Field: FieldStatus, Parse: listquery.ParseAccountStatus},
		},
	}
}
