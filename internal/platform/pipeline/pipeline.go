// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package pipeline provides a composable query pipeline for paginated listings.

A [Pipeline] is an ordered, immutable list of stages. Domain packages build
pipelines declaratively (search, visibility filters, sorting, enrichment) and
hand them to the [Execute] function, which compiles them into PostgreSQL and
runs a count query followed by a page fetch.

Architecture:

  - Purity: Builder methods never mutate; each returns a fresh Pipeline, so a
    base pipeline can be safely shared and extended per request.
  - Inspection: Stages() exposes the stage list so services and tests can
    assert composition without touching the database.
  - Compilation: Stages carry SQL fragments with '?' placeholders that are
    rebound to $1..$n positional arguments at compile time.

The design mirrors document-database aggregation pipelines while staying
native to PostgreSQL (websearch_to_tsquery, correlated JSON sub-queries).
*/
package pipeline

import (
	"strconv"
	"strings"
)

// Kind identifies the role of a [Stage] in the pipeline.
type Kind string

const (
	// KindSearch is a full-text search predicate.
	KindSearch Kind = "search"
	// KindMatch is a boolean filter predicate.
	KindMatch Kind = "match"
	// KindSort is an ordering directive.
	KindSort Kind = "sort"
	// KindLookup is an enrichment column (correlated sub-query or expression).
	KindLookup Kind = "lookup"
)

// Stage is a single step of a query pipeline.
//
// Only the fields relevant to its Kind are populated.
type Stage struct {
	Kind Kind

	// Expr is a boolean SQL expression with '?' placeholders (Search, Match).
	Expr string
	// Args are the bind values consumed by Expr's placeholders.
	Args []any

	// OrderBy is a ready ORDER BY fragment, e.g. "v.createdat DESC" (Sort).
	OrderBy string

	// SelectExpr is an extra select-list expression (Lookup).
	SelectExpr string
	// Alias names the Lookup column in the result row.
	Alias string
}

// Pipeline is an immutable ordered list of stages.
//
// The zero value is an empty pipeline ready for use.
type Pipeline struct {
	stages []Stage
}

// New returns an empty pipeline.
func New() Pipeline {
	return Pipeline{}
}

// with returns a copy of the pipeline with one stage appended.
// The backing array is never shared with the receiver, keeping builders pure.
func (p Pipeline) with(stage Stage) Pipeline {
	stages := make([]Stage, len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)
	return Pipeline{stages: append(stages, stage)}
}

// Search appends a full-text search stage against a tsvector expression.
//
// # Parameters
//   - vectorExpr: A tsvector column or expression, e.g. "v.searchvector".
//   - query: The raw user query, passed to websearch_to_tsquery.
func (p Pipeline) Search(vectorExpr, query string) Pipeline {
	return p.with(Stage{
		Kind: KindSearch,
		Expr: vectorExpr + " @@ websearch_to_tsquery('simple', ?)",
		Args: []any{query},
	})
}

// Match appends a boolean filter stage.
//
// # Parameters
//   - expr: A SQL boolean expression using '?' placeholders, e.g. "v.ownerid = ?".
//   - args: One bind value per placeholder, in order.
func (p Pipeline) Match(expr string, args ...any) Pipeline {
	return p.with(Stage{Kind: KindMatch, Expr: expr, Args: args})
}

// Sort appends an ordering stage. Multiple sort stages compose left to right.
func (p Pipeline) Sort(column string, descending bool) Pipeline {
	direction := " ASC"
	if descending {
		direction = " DESC"
	}
	return p.with(Stage{Kind: KindSort, OrderBy: column + direction})
}

// Lookup appends an enrichment stage that adds a computed column to each row.
//
// # Parameters
//   - selectExpr: A select-list expression, typically a correlated sub-query
//     such as a COUNT(*) or a json_build_object lookup.
//   - alias: The output column name.
func (p Pipeline) Lookup(selectExpr, alias string) Pipeline {
	return p.with(Stage{Kind: KindLookup, SelectExpr: selectExpr, Alias: alias})
}

// Stages returns a copy of the stage list for inspection.
func (p Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Len returns the number of stages.
func (p Pipeline) Len() int {
	return len(p.stages)
}

// Compiled is a ready-to-run SQL statement with positional arguments.
type Compiled struct {
	SQL  string
	Args []any
}

// Select compiles the pipeline into a paginated SELECT statement.
//
// # Shape
//
//	SELECT <columns>, <lookups>
//	FROM <from>
//	WHERE <search AND match predicates>
//	ORDER BY <sort stages>
//	LIMIT $n OFFSET $m
//
// Predicates are ANDed in stage order. Lookup columns appear after the base
// columns in stage order. LIMIT/OFFSET bind values are appended last.
func (p Pipeline) Select(from string, columns []string, limit, offset int) Compiled {
	var (
		selects = make([]string, 0, len(columns)+4)
		wheres  []string
		orders  []string
		args    []any
		argID   = 1
	)

	selects = append(selects, columns...)

	for _, stage := range p.stages {
		switch stage.Kind {
		case KindSearch, KindMatch:
			expr, next := rebind(stage.Expr, argID)
			wheres = append(wheres, expr)
			args = append(args, stage.Args...)
			argID = next
		case KindSort:
			orders = append(orders, stage.OrderBy)
		case KindLookup:
			selects = append(selects, stage.SelectExpr+" AS "+stage.Alias)
		}
	}

	var builder strings.Builder
	builder.WriteString("SELECT ")
	builder.WriteString(strings.Join(selects, ", "))
	builder.WriteString(" FROM ")
	builder.WriteString(from)

	if len(wheres) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(wheres, " AND "))
	}

	if len(orders) > 0 {
		builder.WriteString(" ORDER BY ")
		builder.WriteString(strings.Join(orders, ", "))
	}

	builder.WriteString(" LIMIT $" + strconv.Itoa(argID))
	builder.WriteString(" OFFSET $" + strconv.Itoa(argID+1))
	args = append(args, limit, offset)

	return Compiled{SQL: builder.String(), Args: args}
}

// Count compiles the pipeline into a COUNT statement over the same predicates.
//
// Sort and Lookup stages do not affect the row count and are skipped.
func (p Pipeline) Count(from string) Compiled {
	var (
		wheres []string
		args   []any
		argID  = 1
	)

	for _, stage := range p.stages {
		if stage.Kind != KindSearch && stage.Kind != KindMatch {
			continue
		}
		expr, next := rebind(stage.Expr, argID)
		wheres = append(wheres, expr)
		args = append(args, stage.Args...)
		argID = next
	}

	var builder strings.Builder
	builder.WriteString("SELECT COUNT(*) FROM ")
	builder.WriteString(from)

	if len(wheres) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(wheres, " AND "))
	}

	return Compiled{SQL: builder.String(), Args: args}
}

// rebind rewrites '?' placeholders into $n positional parameters starting at
// start. It returns the rewritten expression and the next free parameter index.
func rebind(expr string, start int) (string, int) {
	var builder strings.Builder
	n := start

	for _, r := range expr {
		if r == '?' {
			builder.WriteString("$" + strconv.Itoa(n))
			n++
			continue
		}
		builder.WriteRune(r)
	}

	return builder.String(), n
}
