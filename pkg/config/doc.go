// Package config provides configuration management for csvexport.
//
// Configuration is loaded from a YAML file, completed with defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CSVEXPORT_SECTION_FIELD:
//
//   - CSVEXPORT_EXPORT_SEPARATOR overrides export.separator
//   - CSVEXPORT_EXPORT_DISABLED overrides export.disabled (comma-separated)
//   - CSVEXPORT_STORAGE_PATH overrides storage.path
//   - CSVEXPORT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Export Rules
//
//	export:
//	  separator: ";"
//	  permission: "contenttype-action"
//	  disabled: [users]
//	  file_names:
//	    pages: "site-pages"
//	  content_types:
//	    - key: pages
//	      name: Pages
//	    - key: products
//	      name: Products
//	  mappings:
//	    pages:
//	      title: "Title"
//	      status: false
//	    products:
//	      colours:
//	        title: "Colours"
//	        values:
//	          r: Red
//	          b: Blue
//
// A loaded Config is a read-only snapshot. Reloading builds a new snapshot and
// swaps it in; nothing mutates a snapshot that is in use.
//
// # Validation
//
// Validation collects every problem before failing:
//
//	configuration validation failed with 2 errors:
//	  - export.separator: separator must be a single character, got "||"
//	  - schedule.jobs[0].cron: invalid cron expression "daily": ...
package config
