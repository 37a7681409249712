package export

import "strings"

// RecordKind discriminates the two input shapes the engine accepts.
type RecordKind int

const (
	// ObjectDerived records come from domain objects, optionally with
	// related objects merged in as nested maps.
	ObjectDerived RecordKind = iota
	// RowDerived records are pre-joined flat SQL rows whose related-object
	// columns encode nesting with a table__field key convention.
	RowDerived
)

// Record is one export input together with its shape tag.
type Record struct {
	Kind RecordKind
	Data map[string]any
}

// RecognizedPrefixes are the related-entity names that NormalizeFlatRow
// re-nests when found in front of a delimiter.
var RecognizedPrefixes = map[string]bool{
	"task": true,
	"user": true,
}

// Normalized returns the nested map shape the projection routines consume.
// Object-derived records already have it; row-derived ones are re-nested.
func (r Record) Normalized() map[string]any {
	if r.Kind == RowDerived {
		return NormalizeFlatRow(r.Data, RecognizedPrefixes)
	}
	return r.Data
}

// NormalizeFlatRow reshapes a joined SQL row to the same nested form as a
// merged domain object. A key like "task__state" whose prefix is recognized
// is additionally inserted at the nested path ["task"]["state"]; the original
// flat key is kept unchanged either way, so both lookups succeed.
func NormalizeFlatRow(flat map[string]any, recognized map[string]bool) map[string]any {
	out := make(map[string]any, len(flat))
	for key, val := range flat {
		parts := strings.Split(key, Delimiter)
		if len(parts) > 1 && recognized[parts[0]] {
			nested, ok := out[parts[0]].(map[string]any)
			if !ok {
				nested = make(map[string]any)
				out[parts[0]] = nested
			}
			nested[strings.Join(parts[1:], Delimiter)] = val
		}
		out[key] = val
	}
	return out
}

// UserAllowedAttributes is the allow-list applied to the submitting-user
// relation. Everything else on the user (api keys, password hash, internal
// identifiers) is dropped before the record can reach an export.
var UserAllowedAttributes = []string{"name", "fullname", "created", "email_addr", "admin", "subadmin"}

// MergeRelated merges a task run's related task and user into one nested
// record. A nil relation is simply omitted; the user relation is reduced to
// UserAllowedAttributes.
func MergeRelated(primary, task, user map[string]any) map[string]any {
	merged := make(map[string]any, len(primary)+2)
	for k, v := range primary {
		merged[k] = v
	}
	if task != nil {
		merged["task"] = task
	}
	if user != nil {
		merged["user"] = FilterAttributes(user, UserAllowedAttributes)
	}
	return merged
}

// FilterAttributes returns a copy of m containing only the allowed keys.
func FilterAttributes(m map[string]any, allowed []string) map[string]any {
	out := make(map[string]any, len(allowed))
	for _, key := range allowed {
		if val, ok := m[key]; ok {
			out[key] = val
		}
	}
	return out
}
