package healthcheck

import (
	"sort"
	"sync"
)

type ProbeStore interface {
	Add(probes ...Probe)

	Get(name string) (Probe, bool)
	GetAll() []Probe

	// GetByKind returns all probes that have a matching ProbeKind.
	//
	// Health returns all probes.
	GetByKind(kind ProbeKind) []Probe

	Delete(names ...string)
}

type inMemoryProbeStore struct {
	mu sync.RWMutex

	probes map[string]Probe
}

func (s *inMemoryProbeStore) Add(probes ...Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range probes {
		s.probes[p.GetName()] = p
	}
}

func (s *inMemoryProbeStore) Get(name string) (Probe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.probes[name]

	return p, ok
}

func (s *inMemoryProbeStore) GetAll() []Probe {
	return s.GetByKind(Health)
}

func (s *inMemoryProbeStore) GetByKind(kind ProbeKind) []Probe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	probeList := make([]Probe, 0, len(s.probes))
	for _, p := range s.probes {
		if kind != Health && p.GetKind() != kind {
			continue
		}

		probeList = append(probeList, p)
	}

	// stable order for reporting
	sort.Slice(probeList, func(i, j int) bool {
		return probeList[i].GetName() < probeList[j].GetName()
	})

	return probeList
}

func (s *inMemoryProbeStore) Delete(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		delete(s.probes, name)
	}
}

func NewInMemoryProbeStore() ProbeStore {
	s := &inMemoryProbeStore{
		probes: map[string]Probe{},
	}

	return s
}
