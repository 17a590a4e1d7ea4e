package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// never matches anything. Used for facets whose slugs all failed to resolve.
var never = sq.Expr("1 = 0")

// InSet renders "column IN (?, ...)" with one bound parameter per id, or an
// always-false predicate for an empty set.
func InSet(column string, ids []uuid.UUID) sq.Sqlizer {
	if len(ids) == 0 {
		return never
	}
	return sq.Eq{column: ids}
}

// Exists wraps a subquery in EXISTS (...).
func Exists(sub sq.SelectBuilder) sq.Sqlizer {
	return exists{sub: sub}
}

type exists struct {
	sub sq.SelectBuilder
}

func (e exists) ToSql() (string, []interface{}, error) {
	sql, args, err := e.sub.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "EXISTS (" + sql + ")", args, nil
}

// Coalesce renders COALESCE((a), (b), ...) over scalar subqueries or expressions.
func Coalesce(parts ...sq.Sqlizer) sq.Sqlizer {
	return coalesce(parts)
}

type coalesce []sq.Sqlizer

func (c coalesce) ToSql() (string, []interface{}, error) {
	sqls := make([]string, 0, len(c))
	var args []interface{}
	for _, part := range c {
		sql, partArgs, err := part.ToSql()
		if err != nil {
			return "", nil, err
		}
		sqls = append(sqls, "("+sql+")")
		args = append(args, partArgs...)
	}
	return "COALESCE(" + strings.Join(sqls, ", ") + ")", args, nil
}

// Sum renders (a + b + ...). An empty sum is 0.
func Sum(terms ...sq.Sqlizer) sq.Sqlizer {
	return sum(terms)
}

type sum []sq.Sqlizer

func (s sum) ToSql() (string, []interface{}, error) {
	if len(s) == 0 {
		return "0", nil, nil
	}
	sqls := make([]string, 0, len(s))
	var args []interface{}
	for _, term := range s {
		sql, termArgs, err := term.ToSql()
		if err != nil {
			return "", nil, err
		}
		sqls = append(sqls, sql)
		args = append(args, termArgs...)
	}
	return "(" + strings.Join(sqls, " + ") + ")", args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a term into a LIKE pattern matching it as a substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// storedWhitespace lists the runes compactLike removes from stored text.
var storedWhitespace = []string{" ", "\t", "\n", "\r", "\u00a0"}

// compactLike matches pattern against expr with storedWhitespace removed.
func compactLike(expr, pattern string) sq.Sqlizer {
	args := make([]interface{}, 0, len(storedWhitespace)+1)
	for _, ws := range storedWhitespace {
		expr = "REPLACE(" + expr + ", ?, '')"
		args = append(args, ws)
	}
	return sq.Expr(expr+` LIKE ? ESCAPE '\'`, append(args, pattern)...)
}

// compact lowercases s and removes every whitespace rune.
func compact(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
