package store

import (
	"sort"
	"sync"
)

var (
	_ Writer = (*Memory)(nil)
	_ Reader = (*Memory)(nil)
)

// Memory is an in-process knowledge base, mainly useful for tests and dry runs.
type Memory struct {
	lock       sync.RWMutex
	advisories map[string]Advisory
}

func NewMemory() *Memory {
	return &Memory{
		advisories: make(map[string]Advisory),
	}
}

func (m *Memory) AddAdvisory(advisories ...Advisory) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, a := range advisories {
		m.advisories[a.OID] = a
	}
	return nil
}

func (m *Memory) GetAdvisory(oid string) (*Advisory, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	a, ok := m.advisories[oid]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) GetAdvisoriesByPackage(name string) ([]Advisory, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	var out []Advisory
	for _, a := range m.advisories {
		for _, p := range a.SourcePackages {
			if p == name {
				out = append(out, a)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OID < out[j].OID
	})
	return out, nil
}

func (m *Memory) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.advisories)
}

func (m *Memory) Close() error {
	return nil
}
