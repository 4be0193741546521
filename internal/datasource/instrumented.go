package datasource

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/metrics"
)

// Instrumented records latency and error codes of every call on the wrapped
// Source and logs failures at debug level.
type Instrumented struct {
	next Source
	log  *zap.Logger
}

// NewInstrumented wraps next. A nil logger disables logging.
func NewInstrumented(next Source, log *zap.Logger) *Instrumented {
	if log == nil {
		log = zap.NewNop()
	}
	return &Instrumented{next: next, log: log.Named("datasource")}
}

func (i *Instrumented) observe(op Op, start time.Time, err error) {
	metrics.SourceCallDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	code := heroes.CodeOf(err)
	metrics.SourceErrorsTotal.WithLabelValues(string(op), string(code)).Inc()
	i.log.Debug("call failed", zap.String("op", string(op)), zap.String("code", string(code)), zap.Error(err))
}

func (i *Instrumented) GetAll(ctx context.Context) ([]heroes.Hero, error) {
	start := time.Now()
	list, err := i.next.GetAll(ctx)
	i.observe(OpGetAll, start, err)
	return list, err
}

func (i *Instrumented) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	start := time.Now()
	h, err := i.next.Create(ctx, hero)
	i.observe(OpCreate, start, err)
	return h, err
}

func (i *Instrumented) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	start := time.Now()
	h, err := i.next.Update(ctx, hero)
	i.observe(OpUpdate, start, err)
	return h, err
}

func (i *Instrumented) Delete(ctx context.Context, id int) (int, error) {
	start := time.Now()
	got, err := i.next.Delete(ctx, id)
	i.observe(OpDelete, start, err)
	return got, err
}

func (i *Instrumented) FindByName(ctx context.Context, name string) ([]heroes.Hero, error) {
	start := time.Now()
	list, err := i.next.FindByName(ctx, name)
	i.observe(OpFindByName, start, err)
	return list, err
}

func (i *Instrumented) GetMockHeroes(ctx context.Context) ([]heroes.Hero, error) {
	start := time.Now()
	list, err := i.next.GetMockHeroes(ctx)
	i.observe(OpGetMockHeroes, start, err)
	return list, err
}
