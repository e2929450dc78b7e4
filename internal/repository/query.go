package repository

import (
	"fmt"
	"strings"

	"github.com/deppfellow/handyman-api/internal/model"
)

const serviceColumns = "id, name, description, price, category, is_available, provider_id, created_at"

// statement is a SQL string with its positional arguments.
type statement struct {
	sql  string
	args []any
}

// predicates accumulates AND-ed conditions with $n placeholders.
type predicates struct {
	conditions []string
	args       []any
}

// add appends a condition; format must contain a single %d for the placeholder.
func (p *predicates) add(format string, arg any) {
	p.args = append(p.args, arg)
	p.conditions = append(p.conditions, fmt.Sprintf(format, len(p.args)))
}

func (p *predicates) where() string {
	if len(p.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conditions, " AND ")
}

func filterPredicates(f model.ServiceFilter) *predicates {
	p := &predicates{}

	if f.Category != nil {
		p.add("category = $%d", *f.Category)
	}
	if f.PriceMin != nil {
		p.add("price >= $%d", f.PriceMin.String())
	}
	if f.PriceMax != nil {
		p.add("price <= $%d", f.PriceMax.String())
	}
	if f.ProviderID != nil {
		p.add("provider_id = $%d", *f.ProviderID)
	}
	if f.Available != nil {
		p.add("is_available = $%d", *f.Available)
	}

	return p
}

// orderBy renders the ORDER BY clause. Unknown columns fall back to the
// default sort so user input never reaches the SQL text. id breaks ties to
// keep pages stable.
func orderBy(s model.ServiceSort) string {
	field := s.Field
	if !model.IsSortableServiceField(field) {
		field = model.DefaultSortField
	}

	direction := "DESC"
	if s.Order == model.SortAsc {
		direction = "ASC"
	}

	clause := fmt.Sprintf(" ORDER BY %s %s", field, direction)
	if field != "id" {
		clause += ", id ASC"
	}
	return clause
}

// buildListStatements returns the total-count query and the page query for a list.
func buildListStatements(q model.ServiceListQuery) (count statement, list statement) {
	p := filterPredicates(q.Filter)
	where := p.where()

	count = statement{
		sql:  "SELECT COUNT(*) FROM services" + where,
		args: append([]any(nil), p.args...),
	}

	limitPos := len(p.args) + 1
	listArgs := append(append([]any(nil), p.args...), q.Pagination.Limit, q.Pagination.Offset())

	list = statement{
		sql: fmt.Sprintf("SELECT %s FROM services%s%s LIMIT $%d OFFSET $%d",
			serviceColumns, where, orderBy(q.Sort), limitPos, limitPos+1),
		args: listArgs,
	}

	return count, list
}

// buildUpdateStatement sets only the supplied columns and guards the row by
// both id and owner.
func buildUpdateStatement(id, providerID string, patch model.ServicePatch) statement {
	args := []any{id, providerID}
	var sets []string

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", patch.Price.String())
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.IsAvailable != nil {
		set("is_available", *patch.IsAvailable)
	}

	return statement{
		sql: fmt.Sprintf("UPDATE services SET %s WHERE id = $1 AND provider_id = $2 RETURNING %s",
			strings.Join(sets, ", "), serviceColumns),
		args: args,
	}
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a keyword into an ILIKE substring pattern.
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

func buildSearchStatement(keyword string) statement {
	return statement{
		sql: "SELECT " + serviceColumns + " FROM services" +
			" WHERE name ILIKE $1 OR description ILIKE $1" +
			" ORDER BY created_at DESC, id ASC",
		args: []any{containsPattern(keyword)},
	}
}
