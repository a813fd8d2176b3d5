package repository

import (
	"fmt"
	"maps"
	"ofcoz/shared/dto"
	"reflect"
	"slices"
	"strings"
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return fmt.Sprintf("%s.%s", c.table, c.name)
	}
}

// schema is the SQL shape of one entity, read once from the db, table and column tags of its struct.
type schema struct {
	table         string
	primaryColumn string
	join          string
	columns       []column
	insertColumns []string
}

type joiner interface {
	GetJoinQuery() string
}

func newSchema[T any](table, primaryColumn string) schema {
	var zero T

	s := schema{
		table:         table,
		primaryColumn: primaryColumn,
	}

	s.columns, s.insertColumns = readColumns(table, reflect.TypeOf(zero))

	if j, ok := any(zero).(joiner); ok {
		s.join = j.GetJoinQuery()
	}

	return s
}

// readColumns walks embedded structs. Columns owned by another table are selectable but never inserted.
func readColumns(table string, typ reflect.Type) (columns []column, insertColumns []string) {
	for i := range typ.NumField() {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := readColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)
		}

		name := field.Tag.Get("db")
		if name == "" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertColumns = append(insertColumns, name)
		}

		if source := field.Tag.Get("column"); source != "" {
			columns = append(columns, column{name: source, table: owner, alias: name})
		} else {
			columns = append(columns, column{name: name, table: owner})
		}
	}

	return columns, insertColumns
}

func (s schema) selectList(only ...string) string {
	exprs := make([]string, 0, len(s.columns))

	for _, col := range s.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

func (s schema) insertQuery() string {
	placeholders := make([]string, len(s.insertColumns))
	for i, col := range s.insertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(s.insertColumns, ", "), strings.Join(placeholders, ", "))
}

func (s schema) sortable(field string) bool {
	return slices.ContainsFunc(s.columns, func(col column) bool {
		return col.table == s.table && col.name == field
	})
}

// window renders ORDER BY and LIMIT/OFFSET, adding the paging values to args.
// Unknown sort columns are ignored so request input never reaches the SQL text.
func (s schema) window(params dto.QueryParams, args map[string]any) string {
	var parts []string

	if params.SortBy != "" && s.sortable(params.SortBy) {
		dir := dto.SortDirDesc
		if params.SortDir == dto.SortDirAsc {
			dir = dto.SortDirAsc
		}

		parts = append(parts, fmt.Sprintf("ORDER BY %s.%s %s", s.table, params.SortBy, dir))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		parts = append(parts, "LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			parts = append(parts, "OFFSET :offset")
		}
	}

	return strings.Join(parts, " ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

// setClause lists the assignments in column order so the statement text is stable.
func setClause(mod map[string]any) string {
	cols := slices.Sorted(maps.Keys(mod))

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = :%s", col, col)
	}

	return strings.Join(assignments, ", ")
}

func join(parts ...string) string {
	nonEmpty := slices.DeleteFunc(parts, func(p string) bool { return p == "" })

	return strings.Join(nonEmpty, " ")
}
