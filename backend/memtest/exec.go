package memtest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LerianStudio/oosgo/backend"
	"github.com/LerianStudio/oosgo/internal/errs"
)

// exec interprets just enough of the SQL this module's dialects emit
// to run CREATE/DROP/INSERT/UPDATE/SELECT/DELETE against the fake's
// in-memory tables. It is not a SQL engine: it recognizes the shapes
// stmt.Create/Select/Insert/Update/Delete/ContainerCreate... produce,
// nothing more general.
func (b *Backend) exec(sql string, binds []any, sink backend.ResultSink) error {
	s := strings.TrimSpace(sql)

	switch {
	case strings.HasPrefix(s, "CREATE TABLE "):
		return b.execCreate(s)
	case strings.HasPrefix(s, "DROP TABLE "):
		return b.execDrop(s)
	case strings.HasPrefix(s, "INSERT INTO "):
		return b.execInsert(s, binds)
	case strings.HasPrefix(s, "UPDATE "):
		return b.execUpdate(s, binds)
	case strings.HasPrefix(s, "DELETE FROM "):
		return b.execDelete(s, binds)
	case strings.HasPrefix(s, "SELECT "):
		return b.execSelect(s, binds, sink)
	default:
		return errs.DriverError{Code: "PARSE", Message: "memtest: unrecognized statement: " + s}
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"[]`)
}

func splitTopLevel(s string) []string {
	var out []string

	depth := 0
	start := 0

	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}

	out = append(out, s[start:])

	return out
}

func parenContents(s string) (string, bool) {
	open := strings.Index(s, "(")
	if open < 0 {
		return "", false
	}

	closeAt := strings.LastIndex(s, ")")
	if closeAt < open {
		return "", false
	}

	return s[open+1 : closeAt], true
}

func (b *Backend) execCreate(s string) error {
	rest := strings.TrimPrefix(s, "CREATE TABLE ")

	nameEnd := strings.Index(rest, "(")
	if nameEnd < 0 {
		return errs.DriverError{Code: "PARSE", Message: "memtest: malformed CREATE TABLE"}
	}

	name := unquote(strings.TrimSpace(rest[:nameEnd]))

	body, ok := parenContents(rest)
	if !ok {
		return errs.DriverError{Code: "PARSE", Message: "memtest: malformed CREATE TABLE column list"}
	}

	var cols []string

	for _, clause := range splitTopLevel(body) {
		fields := strings.Fields(strings.TrimSpace(clause))
		if len(fields) == 0 {
			continue
		}

		cols = append(cols, unquote(fields[0]))
	}

	b.tables[name] = &table{columns: cols}

	return nil
}

func (b *Backend) execDrop(s string) error {
	name := unquote(strings.TrimSpace(strings.TrimPrefix(s, "DROP TABLE ")))
	delete(b.tables, name)

	return nil
}

func (b *Backend) execInsert(s string, binds []any) error {
	rest := strings.TrimPrefix(s, "INSERT INTO ")

	nameEnd := strings.Index(rest, "(")
	if nameEnd < 0 {
		return errs.DriverError{Code: "PARSE", Message: "memtest: malformed INSERT"}
	}

	name := unquote(strings.TrimSpace(rest[:nameEnd]))

	tb, ok := b.tables[name]
	if !ok {
		return errs.DriverError{Code: "NO_TABLE", Message: "memtest: no such table " + name}
	}

	colsRaw, valsRaw, ok := splitInsertClauses(rest)
	if !ok {
		return errs.DriverError{Code: "PARSE", Message: "memtest: malformed INSERT clauses"}
	}

	cols := splitTopLevel(colsRaw)
	for i := range cols {
		cols[i] = unquote(cols[i])
	}

	valTokens := splitTopLevel(valsRaw)
	if len(valTokens) != len(cols) {
		return errs.DriverError{Code: "PARSE", Message: "memtest: column/value count mismatch"}
	}

	row := make(map[string]any, len(cols))
	bindIdx := 0

	for i, col := range cols {
		v, consumed := literalOrBind(valTokens[i], binds, bindIdx)
		bindIdx += consumed
		row[col] = v
	}

	tb.rows = append(tb.rows, row)

	return nil
}

// splitInsertClauses finds the two parenthesized groups in
// "INSERT INTO t (cols) VALUES (vals)".
func splitInsertClauses(rest string) (cols, vals string, ok bool) {
	firstOpen := strings.Index(rest, "(")
	if firstOpen < 0 {
		return "", "", false
	}

	depth := 0
	firstClose := -1

	for i := firstOpen; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				firstClose = i
			}
		}

		if firstClose >= 0 {
			break
		}
	}

	if firstClose < 0 {
		return "", "", false
	}

	cols = rest[firstOpen+1 : firstClose]

	secondOpen := strings.Index(rest[firstClose:], "(")
	if secondOpen < 0 {
		return "", "", false
	}

	secondOpen += firstClose
	secondClose := strings.LastIndex(rest, ")")

	if secondClose <= secondOpen {
		return "", "", false
	}

	vals = rest[secondOpen+1 : secondClose]

	return cols, vals, true
}

func literalOrBind(token string, binds []any, bindIdx int) (any, int) {
	token = strings.TrimSpace(token)
	if token == "?" || strings.HasPrefix(token, "$") || strings.HasPrefix(token, "@p") {
		if bindIdx < len(binds) {
			return binds[bindIdx], 1
		}

		return nil, 1
	}

	if token == "TRUE" {
		return true, 0
	}

	if token == "FALSE" {
		return false, 0
	}

	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return n, 0
	}

	return strings.Trim(token, "'\""), 0
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, errs.DriverError{Code: "TYPE", Message: fmt.Sprintf("memtest: expected an integer column, got %T", v)}
	}
}

// condition is one ANDed WHERE predicate: "col = <literal-or-bind>"
// or "col IN (<literal-or-bind>, ...)"; "0=1" is the empty-IN
// constant-false rewrite and matches nothing.
type condition struct {
	col string
	op  string // "=" | "IN" | "FALSE"
	rhs string
}

func parseConditions(whereClause string) []condition {
	whereClause = strings.TrimSpace(whereClause)
	if whereClause == "0=1" {
		return []condition{{op: "FALSE"}}
	}

	var out []condition

	for _, clause := range strings.Split(whereClause, " AND ") {
		col, op, rhs, ok := parseSimpleCondition(clause)
		if ok {
			out = append(out, condition{col: col, op: op, rhs: rhs})
		}
	}

	return out
}

func parseSimpleCondition(s string) (col, op, rhs string, ok bool) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " IN "); idx >= 0 {
		return unquote(strings.TrimSpace(s[:idx])), "IN", strings.TrimSpace(s[idx+4:]), true
	}

	if idx := strings.Index(s, "="); idx >= 0 {
		return unquote(strings.TrimSpace(s[:idx])), "=", strings.TrimSpace(s[idx+1:]), true
	}

	return "", "", "", false
}

// matchRows returns the indices into tb.rows satisfying every
// condition (AND semantics), consuming binds left to right in
// condition order.
func matchRows(tb *table, conds []condition, binds []any) []int {
	bindIdx := 0

	type resolved struct {
		col  string
		op   string
		vals []any
	}

	var rs []resolved

	for _, c := range conds {
		if c.op == "FALSE" {
			return nil
		}

		if c.op == "IN" {
			var vals []any

			for _, tok := range splitTopLevel(strings.Trim(c.rhs, "()")) {
				v, consumed := literalOrBind(tok, binds, bindIdx)
				bindIdx += consumed
				vals = append(vals, v)
			}

			rs = append(rs, resolved{col: c.col, op: "IN", vals: vals})

			continue
		}

		v, consumed := literalOrBind(c.rhs, binds, bindIdx)
		bindIdx += consumed
		rs = append(rs, resolved{col: c.col, op: "=", vals: []any{v}})
	}

	var matched []int

	for i, row := range tb.rows {
		ok := true

		for _, r := range rs {
			if !rowMatches(row[r.col], r.op, r.vals) {
				ok = false
				break
			}
		}

		if ok {
			matched = append(matched, i)
		}
	}

	return matched
}

func rowMatches(cell any, op string, vals []any) bool {
	for _, v := range vals {
		if valuesEqual(cell, v) {
			return true
		}
	}

	return false
}

func valuesEqual(a, b any) bool {
	if ai, err := toInt64(a); err == nil {
		if bi, err := toInt64(b); err == nil {
			return ai == bi
		}
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func (b *Backend) execUpdate(s string, binds []any) error {
	rest := strings.TrimPrefix(s, "UPDATE ")

	setIdx := strings.Index(rest, " SET ")
	if setIdx < 0 {
		return errs.DriverError{Code: "PARSE", Message: "memtest: malformed UPDATE"}
	}

	name := unquote(strings.TrimSpace(rest[:setIdx]))

	tb, ok := b.tables[name]
	if !ok {
		return errs.DriverError{Code: "NO_TABLE", Message: "memtest: no such table " + name}
	}

	afterSet := rest[setIdx+len(" SET "):]

	whereIdx := strings.Index(afterSet, " WHERE ")
	if whereIdx < 0 {
		return errs.DriverError{Code: "PARSE", Message: "memtest: UPDATE without WHERE"}
	}

	setClause := afterSet[:whereIdx]
	whereClause := afterSet[whereIdx+len(" WHERE "):]

	bindIdx := 0
	updates := make(map[string]any)
	order := splitTopLevel(setClause)

	for _, assign := range order {
		parts := strings.SplitN(assign, "=", 2)
		if len(parts) != 2 {
			continue
		}

		col := unquote(strings.TrimSpace(parts[0]))
		v, consumed := literalOrBind(strings.TrimSpace(parts[1]), binds, bindIdx)
		bindIdx += consumed
		updates[col] = v
	}

	conds := parseConditions(whereClause)
	rowIdx := matchRows(tb, conds, binds[bindIdx:])

	for _, i := range rowIdx {
		for k, v := range updates {
			tb.rows[i][k] = v
		}
	}

	return nil
}

func (b *Backend) execDelete(s string, binds []any) error {
	rest := strings.TrimPrefix(s, "DELETE FROM ")

	whereIdx := strings.Index(rest, " WHERE ")
	if whereIdx < 0 {
		name := unquote(strings.TrimSpace(rest))
		if tb, ok := b.tables[name]; ok {
			tb.rows = nil
		}

		return nil
	}

	name := unquote(strings.TrimSpace(rest[:whereIdx]))

	tb, ok := b.tables[name]
	if !ok {
		return errs.DriverError{Code: "NO_TABLE", Message: "memtest: no such table " + name}
	}

	whereClause := rest[whereIdx+len(" WHERE "):]
	conds := parseConditions(whereClause)
	rowIdx := matchRows(tb, conds, binds)

	remove := make(map[int]bool, len(rowIdx))
	for _, i := range rowIdx {
		remove[i] = true
	}

	var kept []map[string]any

	for i, row := range tb.rows {
		if !remove[i] {
			kept = append(kept, row)
		}
	}

	tb.rows = kept

	return nil
}

func (b *Backend) execSelect(s string, binds []any, sink backend.ResultSink) error {
	rest := strings.TrimPrefix(s, "SELECT ")

	fromIdx := strings.Index(rest, " FROM ")
	if fromIdx < 0 {
		return errs.DriverError{Code: "PARSE", Message: "memtest: malformed SELECT"}
	}

	colsRaw := rest[:fromIdx]
	afterFrom := rest[fromIdx+len(" FROM "):]

	var name, whereClause string

	if whereIdx := strings.Index(afterFrom, " WHERE "); whereIdx >= 0 {
		name = strings.TrimSpace(afterFrom[:whereIdx])
		whereClause = afterFrom[whereIdx+len(" WHERE "):]
	} else {
		name = strings.TrimSpace(afterFrom)
	}

	name = unquote(name)

	tb, ok := b.tables[name]
	if !ok {
		return errs.DriverError{Code: "NO_TABLE", Message: "memtest: no such table " + name}
	}

	cols := splitTopLevel(colsRaw)
	for i := range cols {
		cols[i] = unquote(strings.TrimSpace(cols[i]))
	}

	var rowIdx []int

	if whereClause != "" {
		conds := parseConditions(whereClause)
		rowIdx = matchRows(tb, conds, binds)
	} else {
		for i := range tb.rows {
			rowIdx = append(rowIdx, i)
		}
	}

	sink.Columns(cols)

	for _, i := range rowIdx {
		row := tb.rows[i]
		values := make([]string, len(cols))

		for j, c := range cols {
			values[j] = fmt.Sprintf("%v", row[c])
		}

		sink.Row(values)
	}

	return nil
}
