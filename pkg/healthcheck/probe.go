package healthcheck

import (
	"context"

	"github.com/mpdred/readiness/pkg/readiness"
)

type ProbeKind string

const (
	Startup   ProbeKind = "startup"
	Liveness  ProbeKind = "liveness"
	Readiness ProbeKind = "readiness"

	// Health selects probes of every kind.
	Health ProbeKind = "health"
)

// Probe is a named readiness.Check of a given kind.
type Probe struct {
	check readiness.Check
	kind  ProbeKind
	name  string
}

func (p Probe) GetKind() ProbeKind {
	return p.kind
}

func (p Probe) GetName() string {
	return p.name
}

func (p Probe) Execute(ctx context.Context) (bool, error) {
	return p.check.Ready(ctx)
}

func NewProbe(name string, check readiness.Check, kind ProbeKind) *Probe {
	p := &Probe{
		name:  name,
		check: check,
		kind:  kind,
	}

	return p
}
