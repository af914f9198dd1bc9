// Package handlers provides the HTTP handlers of the export server.
//
//   - ListHandler: GET {prefix} lists the exportable content types as JSON
//   - ExportHandler: GET {prefix}/{contenttype} downloads a CSV export
//
// Health, readiness and version endpoints come from the telemetry/health
// package.
package handlers
