// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package pipeline

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/trananhvu/vidora/internal/platform/dberr"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// Querier is the minimal query surface needed to execute a pipeline.
// *pgxpool.Pool and pgx.Tx both satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Page is one page of pipeline results together with pagination metadata.
type Page[T any] struct {
	Items []T
	Meta  pagination.Meta
}

// Execute runs a pipeline as a count query followed by a page fetch.
//
// # Flow
//  1. Normalize the pagination parameters (invalid values fall back to defaults).
//  2. Run the COUNT statement over the pipeline's predicates.
//  3. If the total is zero, return an empty page without touching the table again.
//  4. Otherwise fetch exactly one page of rows and map them via scan.
//
// # Parameters
//   - querier: The pool or transaction to run against.
//   - p: The compiled-from pipeline.
//   - from: The FROM clause (table plus alias), e.g. "core.video v".
//   - columns: The base select-list columns.
//   - params: Raw pagination parameters; normalized internally.
//   - scan: Maps one row to a domain value. Called once per fetched row.
func Execute[T any](
	ctx context.Context,
	querier Querier,
	p Pipeline,
	from string,
	columns []string,
	params pagination.Params,
	scan func(rows pgx.Rows) (T, error),
) (*Page[T], error) {
	params = params.Normalize()

	// ── 1. Count Phase ────────────────────────────────────────────────────
	count := p.Count(from)

	var total int
	if err := querier.QueryRow(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, dberr.Wrap(err, "pipeline count")
	}

	page := &Page[T]{
		Items: []T{},
		Meta:  pagination.NewMeta(params.Page, params.Limit, total),
	}

	if total == 0 {
		return page, nil
	}

	// ── 2. Fetch Phase ────────────────────────────────────────────────────
	sel := p.Select(from, columns, params.Limit, params.Offset())

	rows, err := querier.Query(ctx, sel.SQL, sel.Args...)
	if err != nil {
		return nil, dberr.Wrap(err, "pipeline select")
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scan(rows)
		if scanErr != nil {
			return nil, dberr.Wrap(scanErr, "pipeline scan")
		}
		page.Items = append(page.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "pipeline rows")
	}

	return page, nil
}
