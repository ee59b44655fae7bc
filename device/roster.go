package device

import (
	"strings"
	"sync"
)

type Port struct {
	ID   int
	Name string
}

// Roster mirrors whatever ordered device list the transport currently
// reports. It only indexes; discovery and index stability under hot-plug
// are the transport's contract.
type Roster struct {
	mu    sync.RWMutex
	ports []Port
}

func NewRoster() *Roster {
	return &Roster{}
}

func (r *Roster) Update(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ports = r.ports[:0]
	for i, name := range names {
		r.ports = append(r.ports, Port{ID: i, Name: name})
	}
}

func (r *Roster) Ports() []Port {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Port, len(r.ports))
	copy(out, r.ports)
	return out
}

func (r *Roster) Name(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.ports) {
		return "", false
	}
	return r.ports[id].Name, true
}

// Find matches by exact name first, then by substring. An empty name
// matches the first port, so callers can default to "whatever is plugged in".
func (r *Roster) Find(name string) (Port, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.ports {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range r.ports {
		if strings.Contains(p.Name, name) {
			return p, true
		}
	}
	return Port{}, false
}
