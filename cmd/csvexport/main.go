// csvexport serves and schedules CSV exports of CMS records.
//
// Records of each content type are read from a record store, passed through
// the configured field mappings and written as BOM-prefixed CSV files.
//
// Usage:
//
//	# Serve exports over HTTP and run scheduled jobs
//	csvexport run --config config.yaml
//
//	# Export one content type to a file
//	csvexport export pages -o pages.csv
//
//	# Export records created in the last day
//	csvexport export pages --since 24h -o exports/
//
//	# Load records into the store
//	csvexport import pages pages.json
//
//	# List exportable content types
//	csvexport list
//
//	# Check a configuration file
//	csvexport validate
package main

func main() {
	Execute()
}
