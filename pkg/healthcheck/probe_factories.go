package healthcheck

import (
	"context"
	"database/sql"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mpdred/readiness/pkg/readiness"
)

var ErrCheckFailed = errors.New("probe check failed")

// MongoPinger is the subset of *mongo.Client used by MongoPingCheck.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// CheckFnFactory creates readiness checks for common dependencies.
//
// Every check bounds its own run with the given timeout. Errors reaching the
// dependency are returned as errors; a dependency that answers but is not
// usable is reported as not ready.
type CheckFnFactory interface {
	DatabasePingCheck(database *sql.DB, timeout time.Duration) readiness.CheckFunc
	PostgresPingCheck(pool *pgxpool.Pool, timeout time.Duration) readiness.CheckFunc
	RedisPingCheck(client redis.UniversalClient, timeout time.Duration) readiness.CheckFunc
	OpensearchPingCheck(client *opensearch.Client, timeout time.Duration) readiness.CheckFunc
	MongoPingCheck(client MongoPinger, rp *readpref.ReadPref, timeout time.Duration) readiness.CheckFunc
	DNSResolveCheck(host string, timeout time.Duration) readiness.CheckFunc
	HTTPGetCheck(url string, timeout time.Duration) readiness.CheckFunc
	TCPDialWithTimeout(address string, timeout time.Duration) readiness.CheckFunc
}

type defaultFactory struct{}

func (f defaultFactory) DatabasePingCheck(database *sql.DB, timeout time.Duration) readiness.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		if database == nil {
			return false, errors.Wrap(ErrCheckFailed, "database is nil")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := database.PingContext(ctx); err != nil {
			return false, errors.Wrap(err, "sql ping")
		}

		return true, nil
	}
}

func (f defaultFactory) PostgresPingCheck(pool *pgxpool.Pool, timeout time.Duration) readiness.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		if pool == nil {
			return false, errors.Wrap(ErrCheckFailed, "postgres pool is nil")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return false, errors.Wrap(err, "postgres ping")
		}

		return true, nil
	}
}

func (f defaultFactory) RedisPingCheck(client redis.UniversalClient, timeout time.Duration) readiness.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		if client == nil {
			return false, errors.Wrap(ErrCheckFailed, "redis client is nil")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			return false, errors.Wrap(err, "redis ping")
		}

		return true, nil
	}
}

func (f defaultFactory) OpensearchPingCheck(client *opensearch.Client, timeout time.Duration) readiness.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		if client == nil {
			return false, errors.Wrap(ErrCheckFailed, "opensearch client is nil")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := client.Ping(client.Ping.WithContext(ctx))
		if err != nil {
			return false, errors.Wrap(err, "opensearch ping")
		}
		defer resp.Body.Close()

		return !resp.IsError(), nil
	}
}

func (f defaultFactory) MongoPingCheck(client MongoPinger, rp *readpref.ReadPref, timeout time.Duration) readiness.CheckFunc {
	if rp == nil {
		rp = readpref.Primary()
	}

	return func(ctx context.Context) (bool, error) {
		if client == nil {
			return false, errors.Wrap(ErrCheckFailed, "mongo client is nil")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := client.Ping(ctx, rp); err != nil {
			return false, errors.Wrap(err, "mongo ping")
		}

		return true, nil
	}
}

func (f defaultFactory) DNSResolveCheck(host string, timeout time.Duration) readiness.CheckFunc {
	resolver := net.Resolver{}

	return func(ctx context.Context) (bool, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		addrs, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return false, errors.Wrapf(err, "resolve %s", host)
		}

		return len(addrs) > 0, nil
	}
}

func (f defaultFactory) HTTPGetCheck(url string, timeout time.Duration) readiness.CheckFunc {
	client := http.Client{
		Timeout: timeout,

		// don't follow redirects
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false, errors.Wrap(err, "build request")
		}

		resp, err := client.Do(req)
		if err != nil {
			return false, errors.Wrapf(err, "get %s", url)
		}

		defer func(body io.ReadCloser) {
			_, _ = io.Copy(io.Discard, body)
			_ = body.Close()
		}(resp.Body)

		return resp.StatusCode < http.StatusBadRequest, nil
	}
}

func (f defaultFactory) TCPDialWithTimeout(address string, timeout time.Duration) readiness.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		dialer := net.Dialer{Timeout: timeout}

		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return false, errors.Wrapf(err, "dial %s", address)
		}

		return true, conn.Close()
	}
}

func NewCheckFnFactory() CheckFnFactory {
	var f CheckFnFactory = &defaultFactory{}

	return f
}
