package healthcheck

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mpdred/readiness/pkg/readiness"
)

// ProbeBuilder creates a Probe.
// Has some built-in checks,
// for which it will set a predefined name if not otherwise specified by the user.
//
// It has a default timeout for the predefined checks.
type ProbeBuilder interface {
	WithKind(k ProbeKind) ProbeBuilder
	WithName(n string) ProbeBuilder
	WithTimeout(d time.Duration) ProbeBuilder

	WithCustomCheck(check readiness.Check) ProbeBuilder

	WithDatabaseConnectionCheck(database *sql.DB) ProbeBuilder
	WithPostgresConnectionCheck(pool *pgxpool.Pool) ProbeBuilder
	WithDNSResolveCheck(host string) ProbeBuilder
	WithHTTPGetCheck(url string) ProbeBuilder
	WithMongoConnectionCheck(client MongoPinger, rp *readpref.ReadPref) ProbeBuilder
	WithOpensearchConnectionCheck(client *opensearch.Client) ProbeBuilder
	WithRedisConnectionCheck(client redis.UniversalClient) ProbeBuilder
	WithTCPDialWithTimeoutCheck(address string) ProbeBuilder

	// Build the probe as requested.
	//
	// The ProbeKind is set to Readiness by default.
	//
	// Note: No checks are performed, so it allows for objects with undefined fields.
	Build() *Probe

	// MustBuild uses Build to build the probe as requested,
	// and panic if there are any undefined fields.
	MustBuild() *Probe

	// BuildDeadmansSnitch creates a liveness Probe that is always ready.
	//
	// Usually an alert is created for its absence.
	BuildDeadmansSnitch() *Probe
}

type probeBuilder struct {
	factory CheckFnFactory
	timeout time.Duration
	probe   *Probe
}

func NewProbeBuilder() ProbeBuilder {
	const defaultTimeout = 5 * time.Second

	b := probeBuilder{
		factory: NewCheckFnFactory(),
		timeout: defaultTimeout,
		probe:   &Probe{},
	}

	return &b
}

func (b *probeBuilder) WithKind(k ProbeKind) ProbeBuilder {
	b.probe.kind = k

	return b
}

func (b *probeBuilder) WithName(n string) ProbeBuilder {
	b.probe.name = n

	return b
}

// WithTimeout must be called before the predefined check it applies to.
func (b *probeBuilder) WithTimeout(d time.Duration) ProbeBuilder {
	b.timeout = d

	return b
}

func (b *probeBuilder) WithCustomCheck(check readiness.Check) ProbeBuilder {
	b.probe.check = check

	return b
}

func (b *probeBuilder) WithDatabaseConnectionCheck(database *sql.DB) ProbeBuilder {
	return b.withCheck("sql database", b.factory.DatabasePingCheck(database, b.timeout))
}

func (b *probeBuilder) WithPostgresConnectionCheck(pool *pgxpool.Pool) ProbeBuilder {
	return b.withCheck("postgres", b.factory.PostgresPingCheck(pool, b.timeout))
}

func (b *probeBuilder) WithDNSResolveCheck(host string) ProbeBuilder {
	return b.withCheck("dns resolve", b.factory.DNSResolveCheck(host, b.timeout))
}

func (b *probeBuilder) WithHTTPGetCheck(url string) ProbeBuilder {
	return b.withCheck("http get", b.factory.HTTPGetCheck(url, b.timeout))
}

func (b *probeBuilder) WithMongoConnectionCheck(client MongoPinger, rp *readpref.ReadPref) ProbeBuilder {
	return b.withCheck("mongo", b.factory.MongoPingCheck(client, rp, b.timeout))
}

func (b *probeBuilder) WithOpensearchConnectionCheck(client *opensearch.Client) ProbeBuilder {
	return b.withCheck("opensearch", b.factory.OpensearchPingCheck(client, b.timeout))
}

func (b *probeBuilder) WithRedisConnectionCheck(client redis.UniversalClient) ProbeBuilder {
	return b.withCheck("redis", b.factory.RedisPingCheck(client, b.timeout))
}

func (b *probeBuilder) WithTCPDialWithTimeoutCheck(address string) ProbeBuilder {
	return b.withCheck("tcp dial", b.factory.TCPDialWithTimeout(address, b.timeout))
}

func (b *probeBuilder) withCheck(defaultName string, check readiness.CheckFunc) ProbeBuilder {
	b.probe.check = check

	if strings.TrimSpace(b.probe.name) == "" {
		b.WithName(defaultName)
	}

	return b
}

func (b *probeBuilder) Build() *Probe {
	b.probe.name = strings.TrimSpace(b.probe.name)

	if strings.TrimSpace(string(b.probe.kind)) == "" {
		b.probe.kind = Readiness
	}

	return b.probe
}

func (b *probeBuilder) MustBuild() *Probe {
	p := b.Build()

	if strings.TrimSpace(p.GetName()) == "" {
		panic("no probe name")
	}

	if p.check == nil {
		panic("no probe check")
	}

	return p
}

func (b *probeBuilder) BuildDeadmansSnitch() *Probe {
	check := readiness.CheckFunc(func(context.Context) (bool, error) { return true, nil })

	b.probe.check = check

	const defaultName = "dead man's snitch"
	b.WithName(defaultName)

	b.probe.kind = Liveness

	return b.probe
}
