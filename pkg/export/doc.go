// Package export turns content records into downloadable CSV files.
//
// # Pipeline
//
// An export runs through these steps:
//
//   - Policy decides whether the content type may be exported at all
//   - Projector applies the configured field mappings to each record
//   - Serialize flattens nested values into comma-joined strings
//   - Resolve maps choice codes (single or JSON multi-select) to labels
//   - Assemble builds a header row plus one row per record
//   - CSVEncoder writes a UTF-8 BOM followed by the CSV rows
//
// # Field Mappings
//
// Each field of each content type has exactly one mapping:
//
//	Identity            exported under its own name
//	Omit                left out
//	Rename(key)         exported under key
//	Translate(key, tbl) codes looked up in tbl, optionally under key
//
// Mappings are compiled from configuration once per load:
//
//	settings := export.NewSettings(&cfg.Export)
//	exporter := export.NewExporter(settings)
//
//	out, err := exporter.BuildExport(ctx, "pages", records)
//	if err != nil {
//	    return err
//	}
//	w.Header().Set("Content-Disposition", out.Disposition())
//
// # Failure Handling
//
// Data problems never fail an export: unknown codes pass through, malformed
// JSON is treated as a single code and missing fields leave empty cells. An
// unknown or disabled content type yields an empty export containing only the
// BOM. Errors are returned only when writing or fetching records fails.
//
// # Known Limitations
//
// Nested sequences flatten into one comma-joined string, so [a, [b, c]] and
// [a, b, c] are indistinguishable. The header comes from the first record; keys
// that only appear in later records are not exported.
package export
