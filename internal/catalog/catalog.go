// Package catalog aggregates AnalyzedScripts keyed by context id and
// answers qualified-name lookups across scripts.
package catalog

import (
	"fmt"
	"sync"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
)

// ErrUnknownContext describes a context id the catalog has never seen.
// No Catalog method returns it: DropScript ignores unknown ids and
// lookups report absence with a bool.
type ErrUnknownContext struct{ ContextID uint32 }

func (e ErrUnknownContext) Error() string {
	return fmt.Sprintf("catalog: unknown context id %d", e.ContextID)
}

// Catalog holds strong references to the AnalyzedScripts it owns. A script
// re-inserted under the same context id replaces the prior entry
// atomically: readers never observe a half-built AnalyzedScript because
// the pointer is swapped, not mutated in place.
type Catalog struct {
	mu      sync.RWMutex
	scripts map[uint32]*analyzer.AnalyzedScript
	byKey   map[string]tableLocation
}

type tableLocation struct {
	contextID uint32
	index     int
}

// New constructs an empty Catalog.
func New() *Catalog {
	return &Catalog{
		scripts: make(map[uint32]*analyzer.AnalyzedScript),
		byKey:   make(map[string]tableLocation),
	}
}

// AddScript registers script under its own ContextID, replacing any prior
// entry for that id and re-indexing its qualified table names.
func (c *Catalog) AddScript(script *analyzer.AnalyzedScript) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(script.ContextID)
	c.scripts[script.ContextID] = script
	for i, t := range script.Tables {
		c.byKey[t.Name.Key()] = tableLocation{contextID: script.ContextID, index: i}
	}
}

// DropScript removes the catalog entry for contextID, if present.
func (c *Catalog) DropScript(contextID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(contextID)
}

func (c *Catalog) dropLocked(contextID uint32) {
	old, ok := c.scripts[contextID]
	if !ok {
		return
	}
	for _, t := range old.Tables {
		if loc, ok := c.byKey[t.Name.Key()]; ok && loc.contextID == contextID {
			delete(c.byKey, t.Name.Key())
		}
	}
	delete(c.scripts, contextID)
}

// Get returns the AnalyzedScript registered under contextID, if any.
func (c *Catalog) Get(contextID uint32) (*analyzer.AnalyzedScript, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.scripts[contextID]
	return s, ok
}

// ResolveQualifiedTable looks up a table by (database, schema, table)
// across every registered script, returning the ContextObjectID of its
// declaration.
func (c *Catalog) ResolveQualifiedTable(db, schema, table string) (analyzer.ContextObjectID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := analyzer.QualifiedName{Catalog: db, Schema: schema, Relation: table}.Key()
	loc, ok := c.byKey[key]
	if !ok {
		return analyzer.ContextObjectID{}, false
	}
	return analyzer.ContextObjectID{ContextID: loc.contextID, Index: uint32(loc.index)}, true
}

// Scripts returns every registered script, for enumeration during
// completion. The returned slice is a snapshot.
func (c *Catalog) Scripts() []*analyzer.AnalyzedScript {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*analyzer.AnalyzedScript, 0, len(c.scripts))
	for _, s := range c.scripts {
		out = append(out, s)
	}
	return out
}

// RegisterInto registers every script the catalog currently holds as an
// external table source on b, excluding excludeContextID (the script
// being analyzed), so cross-script references resolve through the shared
// catalog.
func (c *Catalog) RegisterInto(b interface {
	RegisterExternalTables(*analyzer.AnalyzedScript)
}, excludeContextID uint32) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, s := range c.scripts {
		if id == excludeContextID {
			continue
		}
		b.RegisterExternalTables(s)
	}
}
