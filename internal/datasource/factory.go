package datasource

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Kinds accepted by Open.
const (
	KindMock = "mock"
	KindSQL  = "sql"
	KindHTTP = "http"
)

// Options selects and configures a Source for Open.
type Options struct {
	Kind    string
	Latency time.Duration
	Roster  []string

	// DB backs KindSQL.
	DB *sqlx.DB

	// BaseURL, Timeout and Transport configure KindHTTP.
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper

	Logger *zap.Logger
}

// Open builds the Source described by opts. Every source is instrumented;
// a positive Latency delays every call.
func Open(opts Options) (Source, error) {
	var src Source
	switch opts.Kind {
	case "", KindMock:
		src = NewEcho(opts.Roster)
	case KindSQL:
		if opts.DB == nil {
			return nil, fmt.Errorf("datasource %q requires a database (set HEROES_DB_DRIVER and HEROES_DB_DSN)", KindSQL)
		}
		src = NewSQLSource(opts.DB, opts.Roster)
	case KindHTTP:
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client := &http.Client{Timeout: timeout, Transport: opts.Transport}
		src = NewHTTPSource(opts.BaseURL, client, opts.Roster)
	default:
		return nil, fmt.Errorf("unsupported datasource kind %q: must be mock, sql, or http", opts.Kind)
	}

	if opts.Latency > 0 {
		src = NewDelayed(src, opts.Latency)
	}
	return NewInstrumented(src, opts.Logger), nil
}
