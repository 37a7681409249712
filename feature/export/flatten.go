package export

import (
	"sort"
	"strings"
)

// Delimiter separates path segments in header names.
const Delimiter = "__"

// Keys recursively collects header names from a record. Each key is prefixed
// with its ancestor keys and the root prefix, joined by the delimiter. Keys
// holding nested records contribute a header of their own and recurse, so
// intermediate nodes appear alongside their leaves:
//
//	Keys({"a": {"x": "N"}, "b": 1}, "taskrun")
//	→ taskrun__a, taskrun__a__x, taskrun__b (in map order)
//
// Only map-valued entries are expanded; scalars, lists and nil stop the
// recursion at that node. Callers must sort and deduplicate the union.
func Keys(record map[string]any, prefix string) []string {
	var keys []string
	for key, val := range record {
		full := key
		if prefix != "" {
			full = prefix + Delimiter + key
		}
		keys = append(keys, full)
		if nested, ok := val.(map[string]any); ok {
			keys = append(keys, Keys(nested, full)...)
		}
	}
	return keys
}

// Value resolves a path inside a record, one segment per nesting level.
// An empty path returns the node itself, which is how headers naming an
// intermediate object node resolve. Any missing key, and any attempt to
// descend into a non-map value, yields nil rather than an error; a record
// missing the first segment and one missing a deeper segment are
// indistinguishable by design.
func Value(node any, path ...string) any {
	if len(path) == 0 {
		return node
	}
	record, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	val, ok := record[path[0]]
	if !ok {
		return nil
	}
	return Value(val, path[1:]...)
}

// HeaderSet unions Keys over all records, deduplicates, and sorts the result
// in plain lexicographic order. The full set must be known before any row is
// written so every row aligns to the same columns; records missing a header's
// path simply get an empty cell. Zero records yield an empty set.
func HeaderSet(records []map[string]any, prefix string) []string {
	set := make(map[string]struct{})
	for _, record := range records {
		for _, key := range Keys(record, prefix) {
			set[key] = struct{}{}
		}
	}

	headers := make([]string, 0, len(set))
	for key := range set {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

// Row projects a record against a fixed header sequence. The first path
// segment of each header is the root prefix and is stripped before lookup.
// The row always has exactly one value per header; absent paths are nil.
func Row(record map[string]any, headers []string) []any {
	row := make([]any, len(headers))
	for i, header := range headers {
		segments := strings.Split(header, Delimiter)
		row[i] = Value(record, segments[1:]...)
	}
	return row
}
