// Package export implements CSV export of project tasks and task runs.
//
// The heart of the package is the flattening/reconciliation engine. Records
// arrive as trees of scalars and nested maps, in one of two shapes:
//
//  1. Object-derived: a domain object's map, optionally with related task
//     and user objects merged in (the user reduced to an allow-list).
//  2. Row-derived: a flat SQL row from a joined browse query, whose
//     related-object columns use a table__field key convention.
//
// Both shapes are reconciled into one rectangular table: Keys flattens every
// record into header names, HeaderSet unions and sorts them so schema
// variance between records cannot break column alignment, and Row projects
// each record against the final header sequence, with absent paths becoming
// empty cells instead of errors.
//
// Around the engine sit the export driver (Service.ExportCSV, which chooses
// the record source and streams the table through a scratch file), the ZIP
// packaging (Service.ExportZip, overwrite by delete-then-create), and the
// download handler, which serves local archives directly and redirects to
// object storage otherwise.
//
// # Components
//
//   - flatten.go: Keys, Value, HeaderSet, Row — the core algorithm.
//   - record.go: the Record shape tag, flat-row normalization, object merging.
//   - csv.go / zip.go: CSV building and archive packaging.
//   - Service / Handler: orchestration and the HTTP surface.
//
// # HTTP Endpoints
//
//   - GET /project/:id/export?table=task_run&expanded=true : download the archive.
package export
