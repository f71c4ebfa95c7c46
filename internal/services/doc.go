// Package services implements the business logic of the sandbox service
// and the run history.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── RecordService ───► Catalog (in-memory records)
//	    └── HistoryService ──► Store (DuckDB)
//
// # RecordService
//
// RecordService plays the xbe API for every catalog resource. Records are
// kept in memory per type with sequential ids, guarded by a mutex.
//
// Create and Update enforce what the suites rely on:
//
//	┌───────────────────────────────────────┬────────────────────────────────┐
//	│ Rule                                  │ Message (422 Record Invalid)   │
//	├───────────────────────────────────────┼────────────────────────────────┤
//	│ required attribute or relationship    │ <name> can't be blank          │
//	│ value outside an attribute enum       │ <name> is not included in the  │
//	│                                       │ list                           │
//	│ link to a missing catalog record      │ <name> must exist              │
//	│ link to the wrong type                │ <name> must be a <Class>       │
//	│ duplicate company-name within a type  │ company-name has already been  │
//	│                                       │ taken                          │
//	│ undeclared attribute or relationship  │ <name> is not a known ...      │
//	└───────────────────────────────────────┴────────────────────────────────┘
//
// A body whose type (or id on update) differs from the endpoint is a
// ConflictError (409); an unknown id or resource type is a
// ResourceNotFoundError (404).
//
// List supports the filters of the catalog: relationship ids (Type|ID for
// polymorphic links), attribute values, q, -min/-max ranges and has-<field>
// presence. Unknown filters are a UsageError (400). Sorting accepts attribute
// names, id, created-at and updated-at, "-" for descending.
//
// # HistoryService
//
// HistoryService records runner invocations and their test outcomes through
// the store so "xbe-integration history" can list them later.
package services
