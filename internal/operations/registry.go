package operations

import (
	"fmt"
	"sync"
)

// Registry manages the collection of available steps
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string // Maintains registration order
}

// NewRegistry creates a new Step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// Register adds a Step to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil Step")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := step.ID()
	if id == "" {
		return fmt.Errorf("Step ID cannot be empty")
	}

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("Step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a Step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[id]
	if !exists {
		return nil, fmt.Errorf("Step %s not found", id)
	}
	return step, nil
}

// Has checks if a Step is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.steps[id]
	return exists
}

// List returns all registered steps in registration order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step, 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// ListIDs returns all registered Step IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// GetDependencyOrder returns steps ordered by their dependencies, ties kept
// in registration order.
func (r *Registry) GetDependencyOrder() ([]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	levels, err := r.levels(r.order)
	if err != nil {
		return nil, err
	}

	var result []Step
	for _, level := range levels {
		result = append(result, level...)
	}
	return result, nil
}

// Resolve returns the ids plus every step they transitively depend on,
// grouped into dependency levels. Steps within a level do not depend on
// each other; each level only depends on earlier ones. An empty ids
// selects every registered step.
func (r *Registry) Resolve(ids []string) ([][]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(ids) == 0 {
		return r.levels(r.order)
	}

	selected := make(map[string]bool)
	var visit func(id string) error
	visit = func(id string) error {
		if selected[id] {
			return nil
		}
		step, ok := r.steps[id]
		if !ok {
			return NewDependencyError(id, "", fmt.Sprintf("Step %s not found", id))
		}
		selected[id] = true
		for _, dep := range step.GetDependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	order := make([]string, 0, len(selected))
	for _, id := range r.order {
		if selected[id] {
			order = append(order, id)
		}
	}
	return r.levels(order)
}

// levels runs Kahn's algorithm over ids. Caller holds the read lock.
func (r *Registry) levels(ids []string) ([][]Step, error) {
	inSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}

	inDegree := make(map[string]int, len(ids))
	dependents := make(map[string][]string)
	for _, id := range ids {
		for _, dep := range r.steps[id].GetDependencies() {
			if !inSet[dep] {
				if _, ok := r.steps[dep]; !ok {
					return nil, NewDependencyError(id, dep, fmt.Sprintf("depends on unknown Step %s", dep))
				}
				continue
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var levels [][]Step
	done := 0
	current := make([]string, 0)
	for _, id := range ids {
		if inDegree[id] == 0 {
			current = append(current, id)
		}
	}

	for len(current) > 0 {
		level := make([]Step, 0, len(current))
		ready := make(map[string]bool)
		for _, id := range current {
			level = append(level, r.steps[id])
			done++
			for _, dependent := range dependents[id] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					ready[dependent] = true
				}
			}
		}
		levels = append(levels, level)

		current = current[:0:0]
		for _, id := range ids {
			if ready[id] {
				current = append(current, id)
			}
		}
	}

	if done != len(ids) {
		return nil, NewDependencyError("", "", "circular dependency detected")
	}
	return levels, nil
}

// ValidateDependencies checks that all dependencies exist and there are no cycles
func (r *Registry) ValidateDependencies() error {
	_, err := r.GetDependencyOrder()
	return err
}

// GetDependents returns all steps that depend on the given Step
func (r *Registry) GetDependents(stepID string) []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var dependents []Step
	for _, id := range r.order {
		for _, dep := range r.steps[id].GetDependencies() {
			if dep == stepID {
				dependents = append(dependents, r.steps[id])
				break
			}
		}
	}
	return dependents
}
