package data

import (
	"sort"
	"sync"
)

// Registry holds the loaded ability and archetype definitions. Reads
// take an RLock; Swap replaces the whole content atomically so a
// background reload never tears a lookup. Definition structs
// themselves are never mutated after loading.
type Registry struct {
	mu         sync.RWMutex
	abilities  map[string]*AbilityDefinition
	archetypes map[string]*ArchetypeDefinition
}

func NewRegistry() *Registry {
	return &Registry{
		abilities:  make(map[string]*AbilityDefinition),
		archetypes: make(map[string]*ArchetypeDefinition),
	}
}

// Ability returns the definition for id, or nil.
func (r *Registry) Ability(id string) *AbilityDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.abilities[id]
}

// Archetype returns the definition for id, or nil.
func (r *Registry) Archetype(id string) *ArchetypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.archetypes[id]
}

func (r *Registry) AbilityCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.abilities)
}

func (r *Registry) ArchetypeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.archetypes)
}

// Abilities returns a snapshot sorted by ID.
func (r *Registry) Abilities() []*AbilityDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*AbilityDefinition, 0, len(r.abilities))
	for _, a := range r.abilities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Archetypes returns a snapshot sorted by ID.
func (r *Registry) Archetypes() []*ArchetypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ArchetypeDefinition, 0, len(r.archetypes))
	for _, a := range r.archetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Swap replaces this registry's content with other's. Existing
// definition pointers held by callers stay valid; they just no longer
// resolve through the registry.
func (r *Registry) Swap(other *Registry) {
	other.mu.RLock()
	abilities := other.abilities
	archetypes := other.archetypes
	other.mu.RUnlock()

	r.mu.Lock()
	r.abilities = abilities
	r.archetypes = archetypes
	r.mu.Unlock()
}

func (r *Registry) putAbility(a *AbilityDefinition) {
	r.mu.Lock()
	r.abilities[a.ID] = a
	r.mu.Unlock()
}

func (r *Registry) putArchetype(a *ArchetypeDefinition) {
	r.mu.Lock()
	r.archetypes[a.ID] = a
	r.mu.Unlock()
}
