// AngelaMos | 2026
// builder.go

package query

import (
	"fmt"
	"strings"
)

// Step is one pure filter or ordering combinator. Steps are applied in order,
// so a policy is just a slice of them.
type Step func(b *Builder)

// Builder accumulates WHERE conditions with positional placeholders and a
// single ORDER BY. It never touches a database.
type Builder struct {
	conditions []string
	args       []any
	orderBy    []string
}

func New(steps ...Step) *Builder {
	b := &Builder{}
	b.Apply(steps...)
	return b
}

func (b *Builder) Apply(steps ...Step) *Builder {
	for _, step := range steps {
		if step != nil {
			step(b)
		}
	}
	return b
}

// Where adds a condition. Each `?` in cond is replaced by the next `$n`
// placeholder and bound to the matching arg.
func (b *Builder) Where(cond string, args ...any) *Builder {
	var sb strings.Builder
	argIdx := 0
	for _, r := range cond {
		if r == '?' && argIdx < len(args) {
			b.args = append(b.args, args[argIdx])
			fmt.Fprintf(&sb, "$%d", len(b.args))
			argIdx++
			continue
		}
		sb.WriteRune(r)
	}
	b.conditions = append(b.conditions, sb.String())
	return b
}

// In restricts column to ids. An empty set matches nothing.
func (b *Builder) In(column string, ids []int64) *Builder {
	if len(ids) == 0 {
		b.conditions = append(b.conditions, "FALSE")
		return b
	}

	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		b.args = append(b.args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(b.args)))
	}
	b.conditions = append(b.conditions, fmt.Sprintf(
		"%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return b
}

// OrderBy replaces any earlier ordering, so the last ordering step wins.
func (b *Builder) OrderBy(terms ...string) *Builder {
	b.orderBy = append([]string(nil), terms...)
	return b
}

func (b *Builder) WhereClause() string {
	if len(b.conditions) == 0 {
		return "TRUE"
	}
	return strings.Join(b.conditions, " AND ")
}

func (b *Builder) OrderClause() string {
	if len(b.orderBy) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(b.orderBy, ", ")
}

func (b *Builder) Args() []any {
	return append([]any(nil), b.args...)
}

// NextArg is the placeholder index the next bound value would receive.
func (b *Builder) NextArg() int {
	return len(b.args) + 1
}

// Page returns the LIMIT/OFFSET suffix and the args it needs appended.
func (b *Builder) Page(limit, offset int) (string, []any) {
	n := b.NextArg()
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n, n+1),
		append(b.Args(), limit, offset)
}

func (b *Builder) Conditions() []string {
	return append([]string(nil), b.conditions...)
}
