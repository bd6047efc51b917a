package database

import (
	"fmt"
	"strings"

	"warehub/internal/domain"
)

// ListQuery monta as cláusulas WHERE / ORDER BY / LIMIT das listagens paginadas,
// numerando os placeholders ($1, $2, ...) na ordem em que os argumentos são adicionados.
type ListQuery struct {
	conds []string
	args  []interface{}
}

// Where adiciona uma condição. Cada "?" em cond é substituído pelo próximo placeholder.
func (q *ListQuery) Where(cond string, args ...interface{}) *ListQuery {
	for _, arg := range args {
		q.args = append(q.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(q.args)), 1)
	}
	q.conds = append(q.conds, cond)
	return q
}

// Search adiciona um filtro ILIKE em OR sobre as colunas informadas. Termos vazios são ignorados.
func (q *ListQuery) Search(term string, columns ...string) *ListQuery {
	if term == "" || len(columns) == 0 {
		return q
	}
	q.args = append(q.args, "%"+escapeLike(term)+"%")
	placeholder := fmt.Sprintf("$%d", len(q.args))

	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", col, placeholder)
	}
	q.conds = append(q.conds, "("+strings.Join(parts, " OR ")+")")
	return q
}

// WhereClause retorna " WHERE ..." ou string vazia.
func (q *ListQuery) WhereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// Args retorna os argumentos das condições (sem LIMIT/OFFSET).
func (q *ListQuery) Args() []interface{} {
	return q.args
}

// PageClause retorna " ORDER BY ... LIMIT $n OFFSET $m" e os argumentos completos.
// sortable mapeia o sortBy público para a coluna SQL; valores fora do mapa usam defaultSort.
func (q *ListQuery) PageClause(p domain.ListParams, sortable map[string]string, defaultSort string) (string, []interface{}) {
	column, ok := sortable[p.SortBy]
	if !ok {
		column = defaultSort
	}
	direction := "DESC"
	if p.Order == domain.SortAsc {
		direction = "ASC"
	}

	args := append(append([]interface{}{}, q.args...), p.Limit, p.Offset())
	clause := fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", column, direction, len(args)-1, len(args))
	return clause, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
