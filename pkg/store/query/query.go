package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// FarmColumn is the tenant column every report relation carries.
const FarmColumn = "farm_id"

type op int

const (
	opEq op = iota
	opNeq
	opGt
	opGte
	opLt
	opLte
	opILike
	opIn
	opIsNull
	opNotNull
	opOr
)

var comparisons = map[op]string{
	opEq:  "=",
	opNeq: "<>",
	opGt:  ">",
	opGte: ">=",
	opLt:  "<",
	opLte: "<=",
}

// Predicate is a single filter condition. Build one with the package-level
// constructors when it has to be grouped with Or.
type Predicate struct {
	column string
	op     op
	value  any
	values []any
	group  []Predicate
}

func Equal(col string, v any) Predicate { return Predicate{column: col, op: opEq, value: v} }
func NotEqual(col string, v any) Predicate { return Predicate{column: col, op: opNeq, value: v} }
func Greater(col string, v any) Predicate { return Predicate{column: col, op: opGt, value: v} }
func AtLeast(col string, v any) Predicate { return Predicate{column: col, op: opGte, value: v} }
func Less(col string, v any) Predicate { return Predicate{column: col, op: opLt, value: v} }
func AtMost(col string, v any) Predicate { return Predicate{column: col, op: opLte, value: v} }
func Like(col, pattern string) Predicate { return Predicate{column: col, op: opILike, value: pattern} }
func Null(col string) Predicate { return Predicate{column: col, op: opIsNull} }
func NotNull(col string) Predicate { return Predicate{column: col, op: opNotNull} }
func AnyOf(col string, vs ...any) Predicate { return Predicate{column: col, op: opIn, values: vs} }
func Either(preds ...Predicate) Predicate { return Predicate{op: opOr, group: preds} }
func Contains(col, fragment string) Predicate { return Like(col, "%"+fragment+"%") }

type order struct {
	column    string
	desc      bool
	nullsLast bool
}

// Query is a select-all over one relation. Builder methods never fail;
// validation errors surface from Build.
type Query struct {
	relation string
	farm     any
	scoped   bool
	unscoped bool
	preds    []Predicate
	orders   []order
	limit    int
}

func From(relation string) *Query {
	return &Query{relation: relation}
}

func (q *Query) Relation() string {
	return q.relation
}

// ForFarm adds the mandatory tenant predicate.
func (q *Query) ForFarm(id any) *Query {
	q.farm = id
	q.scoped = true
	return q
}

// Unscoped marks a query that legitimately reads across farms, such as the farm
// lookup itself.
func (q *Query) Unscoped() *Query {
	q.unscoped = true
	return q
}

func (q *Query) Scoped() bool {
	return q.scoped
}

func (q *Query) Where(preds ...Predicate) *Query {
	q.preds = append(q.preds, preds...)
	return q
}

func (q *Query) Eq(col string, v any) *Query { return q.Where(Equal(col, v)) }
func (q *Query) Neq(col string, v any) *Query { return q.Where(NotEqual(col, v)) }
func (q *Query) Gt(col string, v any) *Query { return q.Where(Greater(col, v)) }
func (q *Query) Gte(col string, v any) *Query { return q.Where(AtLeast(col, v)) }
func (q *Query) Lt(col string, v any) *Query { return q.Where(Less(col, v)) }
func (q *Query) Lte(col string, v any) *Query { return q.Where(AtMost(col, v)) }
func (q *Query) ILike(col, pattern string) *Query { return q.Where(Like(col, pattern)) }
func (q *Query) In(col string, vs ...any) *Query { return q.Where(AnyOf(col, vs...)) }
func (q *Query) IsNull(col string) *Query { return q.Where(Null(col)) }
func (q *Query) NotNull(col string) *Query { return q.Where(NotNull(col)) }
func (q *Query) Or(preds ...Predicate) *Query { return q.Where(Either(preds...)) }

func (q *Query) OrderAsc(col string) *Query {
	q.orders = append(q.orders, order{column: col})
	return q
}

func (q *Query) OrderDesc(col string) *Query {
	q.orders = append(q.orders, order{column: col, desc: true})
	return q
}

func (q *Query) OrderDescNullsLast(col string) *Query {
	q.orders = append(q.orders, order{column: col, desc: true, nullsLast: true})
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Build renders the query for a dialect. Values are always bound, never inlined.
func (q *Query) Build(d Dialect) (string, []any, error) {
	if !identifier.MatchString(q.relation) {
		return "", nil, fmt.Errorf("invalid relation name %q", q.relation)
	}
	if !q.scoped && !q.unscoped {
		return "", nil, fmt.Errorf("query on %s is not scoped to a farm", q.relation)
	}

	b := builder{dialect: d}
	var where []string
	if q.scoped {
		where = append(where, FarmColumn+" = "+b.bind(q.farm))
	}
	for _, p := range q.preds {
		clause, err := b.predicate(p)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", q.relation, err)
		}
		where = append(where, clause)
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(q.relation)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if len(q.orders) > 0 {
		parts := make([]string, 0, len(q.orders))
		for _, o := range q.orders {
			if !identifier.MatchString(o.column) {
				return "", nil, fmt.Errorf("%s: invalid order column %q", q.relation, o.column)
			}
			part := o.column + " ASC"
			if o.desc {
				part = o.column + " DESC"
			}
			if o.nullsLast {
				part += " NULLS LAST"
			}
			parts = append(parts, part)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.limit))
	}

	return sb.String(), b.args, nil
}

type builder struct {
	dialect Dialect
	args    []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *builder) predicate(p Predicate) (string, error) {
	if p.op == opOr {
		if len(p.group) == 0 {
			return "", fmt.Errorf("empty OR group")
		}
		parts := make([]string, 0, len(p.group))
		for _, sub := range p.group {
			clause, err := b.predicate(sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, clause)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	}

	if !identifier.MatchString(p.column) {
		return "", fmt.Errorf("invalid column %q", p.column)
	}

	switch p.op {
	case opILike:
		return p.column + " " + b.dialect.ILike + " " + b.bind(p.value), nil
	case opIsNull:
		return p.column + " IS NULL", nil
	case opNotNull:
		return p.column + " IS NOT NULL", nil
	case opIn:
		if len(p.values) == 0 {
			return "1 = 0", nil
		}
		holders := make([]string, 0, len(p.values))
		for _, v := range p.values {
			holders = append(holders, b.bind(v))
		}
		return p.column + " IN (" + strings.Join(holders, ", ") + ")", nil
	default:
		cmp, ok := comparisons[p.op]
		if !ok {
			return "", fmt.Errorf("unsupported operator on %s", p.column)
		}
		return p.column + " " + cmp + " " + b.bind(p.value), nil
	}
}
