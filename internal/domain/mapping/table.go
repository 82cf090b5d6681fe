// Package mapping resolves short Ansible module names to fully qualified
// collection names.
package mapping

import (
	"sort"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

// Table is an immutable short-name to FQCN lookup. The zero value is an
// empty table. Tables are safe for concurrent reads.
type Table struct {
	entries map[string]string
	fqcns   map[string]bool
}

// NewTable copies m into a new Table.
func NewTable(m map[string]string) Table {
	entries := make(map[string]string, len(m))
	for k, v := range m {
		entries[k] = v
	}
	return build(entries)
}

// build takes ownership of entries and indexes their targets.
func build(entries map[string]string) Table {
	fqcns := make(map[string]bool, len(entries))
	for _, v := range entries {
		fqcns[v] = true
	}
	return Table{entries: entries, fqcns: fqcns}
}

// Lookup returns the FQCN for a short module name.
func (t Table) Lookup(short string) (string, bool) {
	fqcn, ok := t.entries[short]
	return fqcn, ok
}

func (t Table) Len() int { return len(t.entries) }

// Names returns all short names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for k := range t.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of the underlying map.
func (t Table) Entries() map[string]string {
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// IsKnownFQCN reports whether fqcn is the target of some entry.
func (t Table) IsKnownFQCN(fqcn string) bool {
	return t.fqcns[fqcn]
}

// Collections returns the sorted set of namespace.collection names referenced.
func (t Table) Collections() []string {
	seen := make(map[string]bool)
	for _, v := range t.entries {
		if c := domain.CollectionOf(v); c != "" {
			seen[c] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Merge combines tables left to right; later tables win on key collisions.
// Callers pass [defaults, custom file, inline overrides].
func Merge(tables ...Table) Table {
	size := 0
	for _, t := range tables {
		size += len(t.entries)
	}
	merged := make(map[string]string, size)
	for _, t := range tables {
		for k, v := range t.entries {
			merged[k] = v
		}
	}
	return build(merged)
}
