// Package api serves sunburst charts over HTTP.
//
// # Routes
//
//	POST   /v1/charts                  create a chart from a query
//	GET    /v1/charts                  list stored charts
//	GET    /v1/charts/{id}             fetch a chart document
//	GET    /v1/charts/{id}/render      render (?format=svg|png|pdf|dot|json)
//	POST   /v1/charts/{id}/hover       enter a node, returns the frame
//	DELETE /v1/charts/{id}/hover       leave, returns the idle frame
//	POST   /v1/charts/{id}/click       resolve a drill request
//	DELETE /v1/charts/{id}             delete a chart
//	GET    /healthz                    liveness
//
// # Sessions
//
// Every chart has one interaction session: an interaction.Machine loaded
// from the stored chart on first use. Events for one chart are applied one
// at a time. Hover requests carry the epoch they were minted in; a request
// from an older epoch is answered with the current frame and
// "applied": false.
//
// # Errors
//
// Failures are JSON objects of the form
//
//	{"error": {"code": "CHART_NOT_FOUND", "message": "chart ... not found"}}
//
// Validation codes map to 400, not-found codes to 404 and everything else
// to 500.
package api
