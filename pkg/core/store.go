package core

import (
	"cmp"
	"slices"
	"sync"
)

// Instance is one component instance: its ordered state slots and the
// mount point and props of its most recent pass.
type Instance struct {
	key       string
	component string
	slots     []any
	hookCount int // slots declared by the last committed pass, -1 before the first
	passes    uint64
	depth     int // passes currently on the stack
	mount     MountPoint
	props     Props
}

// InstanceInfo is a point-in-time copy of an Instance.
type InstanceInfo struct {
	Key       string `json:"key"`
	Component string `json:"component"`
	Slots     []any  `json:"slots"`
	Passes    uint64 `json:"passes"`
	Props     Props  `json:"props,omitempty"`
}

// StateStore owns the slot arenas of every instance a Runtime has rendered.
// Instances are created on their first pass and live as long as the store.
type StateStore struct {
	mu        sync.Mutex
	instances map[string]*Instance
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore {
	return &StateStore{instances: make(map[string]*Instance)}
}

// Slots returns the instance for key, creating it with an empty slot
// sequence if it does not exist yet.
func (s *StateStore) Slots(key, component string) *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[key]
	if !ok {
		inst = &Instance{key: key, component: component, hookCount: -1}
		s.instances[key] = inst
	}
	inst.component = component
	return inst
}

// Lookup returns a copy of the instance for key without creating it.
func (s *StateStore) Lookup(key string) (InstanceInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[key]
	if !ok {
		return InstanceInfo{}, false
	}
	return inst.info(), true
}

// Len returns the number of instances.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// Snapshot copies every instance, sorted by key.
func (s *StateStore) Snapshot() []InstanceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InstanceInfo, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst.info())
	}
	slices.SortFunc(out, func(a, b InstanceInfo) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

func (inst *Instance) info() InstanceInfo {
	return InstanceInfo{
		Key:       inst.key,
		Component: inst.component,
		Slots:     slices.Clone(inst.slots),
		Passes:    inst.passes,
		Props:     inst.props.Clone(),
	}
}

// read returns slot i, reporting whether it has been initialized.
func (s *StateStore) read(inst *Instance, i int) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(inst.slots) {
		return nil, false
	}
	return inst.slots[i], true
}

// write sets slot i, growing the arena when i is the next free index.
func (s *StateStore) write(inst *Instance, i int, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(inst.slots) <= i {
		inst.slots = append(inst.slots, nil)
	}
	inst.slots[i] = v
}

// enter marks a pass as started on inst and returns the resulting depth.
func (s *StateStore) enter(inst *Instance) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst.depth++
	return inst.depth
}

func (s *StateStore) exit(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst.depth--
}

func (s *StateStore) hookCount(inst *Instance) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inst.hookCount
}

// commit records a successful pass.
func (s *StateStore) commit(inst *Instance, slots int, mount MountPoint, props Props) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst.hookCount = slots
	inst.passes++
	inst.mount = mount
	inst.props = props
	return inst.passes
}

// rebase adopts count as the instance's slot count after a pass rejected
// for a mismatch. Slots past the shorter of the two counts are dropped, so
// nothing the rejected pass initialized survives it.
func (s *StateStore) rebase(inst *Instance, prev, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep := min(prev, count); len(inst.slots) > keep {
		clear(inst.slots[keep:])
		inst.slots = inst.slots[:keep]
	}
	inst.hookCount = count
}

// last returns the mount point and props of the most recent committed pass.
func (s *StateStore) last(key string) (*Instance, MountPoint, Props, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[key]
	if !ok || inst.mount == nil {
		return nil, nil, nil, false
	}
	return inst, inst.mount, inst.props, true
}

func (s *StateStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.instances)
}
