package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
)

// table describes what list queries may reference on one table.
type table struct {
	name string
	// columns maps listquery field names to SQL columns. Anything missing
	// here is rejected when compiling a query.
	columns map[string]string
}

// compiledList is a listquery.Query rendered as SQL fragments.
type compiledList struct {
	where   string // "" or " WHERE ..."
	orderBy string // "" or " ORDER BY ..."
	args    []any
}

// compileList renders q against t. It fails if q references a field that t
// does not declare.
func compileList(t table, q listquery.Query) (compiledList, error) {
	var (
		out   compiledList
		conds []string
	)

	for _, f := range q.Filters {
		col, ok := t.columns[f.Field]
		if !ok {
			return compiledList{}, fmt.Errorf("%s: unknown filter field %q", t.name, f.Field)
		}
		out.args = append(out.args, bindValue(f.Value))
		conds = append(conds, col+" = $"+strconv.Itoa(len(out.args)))
	}

	if q.Search != nil {
		col, ok := t.columns[q.Search.Field]
		if !ok {
			return compiledList{}, fmt.Errorf("%s: unknown search field %q", t.name, q.Search.Field)
		}
		out.args = append(out.args, "%"+escapeLike(q.Search.Term)+"%")
		conds = append(conds, col+" ILIKE $"+strconv.Itoa(len(out.args))+` ESCAPE '\'`)
	}

	if len(conds) > 0 {
		out.where = " WHERE " + strings.Join(conds, " AND ")
	}

	terms := make([]string, 0, len(q.Order))
	for _, o := range q.Order {
		col, ok := t.columns[o.Field]
		if !ok {
			return compiledList{}, fmt.Errorf("%s: unknown order field %q", t.name, o.Field)
		}
		dir := "ASC"
		if o.Direction == listquery.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	if len(terms) > 0 {
		out.orderBy = " ORDER BY " + strings.Join(terms, ", ")
	}

	return out, nil
}

// countSQL returns the COUNT(*) statement for c.
func (c compiledList) countSQL(t table) string {
	return "SELECT COUNT(*) FROM " + t.name + c.where
}

// selectSQL returns the paged SELECT statement for c and its arguments.
func (c compiledList) selectSQL(t table, columns string, q listquery.Query) (string, []any) {
	args := append([]any(nil), c.args...)
	sql := "SELECT " + columns + " FROM " + t.name + c.where + c.orderBy

	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += " LIMIT $" + strconv.Itoa(len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		sql += " OFFSET $" + strconv.Itoa(len(args))
	}
	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func bindValue(v any) any {
	switch v := v.(type) {
	case domain.AccountStatus:
		return string(v)
	default:
		return v
	}
}
