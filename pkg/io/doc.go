// Package io reads query responses and turns them into taxonomy rows.
//
// # Overview
//
// A query response names its fields and carries one object per data row,
// keyed by field name:
//
//	{
//	  "fields": {
//	    "dimension_like": [{"name": "region"}, {"name": "country"}],
//	    "measure_like": [{"name": "population", "value_format": "#,##0"}],
//	    "pivots": []
//	  },
//	  "data": [
//	    {
//	      "region": {"value": "Europe"},
//	      "country": {"value": "France", "links": [{"label": "Details", "url": "/c/fr"}]},
//	      "population": {"value": 67.8}
//	    }
//	  ]
//	}
//
// # Contract
//
// [Query.Validate] enforces the shape a sunburst needs: no pivots, at least
// one dimension and exactly one measure. Violations are reported with
// errors.ErrCodeInvalidQuery.
//
// # Rows
//
// [Query.Rows] converts each data row into a taxonomy.Row:
//
//   - The path holds the dimension values in field order. JSON null and a
//     missing cell become the null marker. Numbers are rendered in their
//     shortest form and booleans as "true" or "false".
//   - The measure comes from the measure cell. A missing cell or a value
//     that is not a number yields an invalid measure, which the layout
//     treats as 0.
//   - Links are gathered from the dimension cells in field order, then the
//     measure cell, then any other cells in name order.
//
// # Import
//
// Use [ReadQuery] to decode from any io.Reader or [ImportQuery] to read a
// file. Both validate the result.
package io
