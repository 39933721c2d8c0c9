package workload

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/a2y-d5l/go-rendezvous/barrier"
	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/observability"
	"github.com/a2y-d5l/go-rendezvous/queue"
)

// Item is the unit of work moved through the queue.
type Item struct {
	ID       uuid.UUID
	Producer int
	Seq      int
}

// Report summarises a run.
type Report struct {
	Variant    queue.Variant `json:"variant" yaml:"variant"`
	Produced   int           `json:"produced" yaml:"produced"`
	Consumed   int           `json:"consumed" yaml:"consumed"`
	Duplicates int           `json:"duplicates" yaml:"duplicates"`
	Missing    int           `json:"missing" yaml:"missing"`
	// OutOfOrder counts items a consumer saw before an earlier item of the
	// same producer.
	OutOfOrder int           `json:"out_of_order" yaml:"out_of_order"`
	FinalSize  int           `json:"final_size" yaml:"final_size"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
	Stats      queue.Stats   `json:"stats" yaml:"stats"`
}

// Run pushes cfg.TotalItems() items from cfg.Producers goroutines through a
// bounded queue to cfg.Consumers goroutines and checks that every item came
// out exactly once. All workers are released together by a barrier.
//
// Cancelling ctx closes the queue, which unblocks every worker; Run then
// returns ErrCancelled. A report is returned whenever the run completed,
// together with an ErrVerification error if any check failed.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rc := applyOptions(opts)
	logCtx := observability.ContextWithComponent(ctx, component)
	variant := observability.Variant(cfg.Variant.String())
	log := rc.logger.WithContext(observability.ContextWithOperation(logCtx, "run")).With(variant)
	// Per-item records are the high-volume path, so only they are sampled.
	itemLog := observability.WithSampling(rc.logger, cfg.Sampling).With(variant)

	q, err := queue.New(cfg.Variant, cfg.Capacity,
		queue.WithLogger[*Item](rc.logger),
		queue.WithMetrics[*Item](rc.collector, component),
	)
	if err != nil {
		return nil, err
	}
	start, err := barrier.New(cfg.Producers+cfg.Consumers,
		barrier.WithLogger(rc.logger),
		barrier.WithMetrics(rc.collector, component),
	)
	if err != nil {
		_ = q.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(runCtx, func() {
		_ = q.Close()
		_ = start.Close()
	})

	total := cfg.TotalItems()
	produced := make([][]uuid.UUID, cfg.Producers)
	consumed := make([][]*Item, cfg.Consumers)
	var claimed atomic.Int64

	began := time.Now()
	var g errgroup.Group

	produceLog := itemLog.WithContext(observability.ContextWithOperation(logCtx, "produce"))
	for p := range cfg.Producers {
		g.Go(func() error {
			if err := start.Wait(); err != nil {
				cancel()
				return fmt.Errorf("producer %d: %w", p, err)
			}
			ids := make([]uuid.UUID, 0, cfg.ItemsPerProducer)
			for seq := range cfg.ItemsPerProducer {
				item := &Item{ID: uuid.New(), Producer: p, Seq: seq}
				if err := q.Insert(item); err != nil {
					cancel()
					return fmt.Errorf("producer %d: %w", p, err)
				}
				ids = append(ids, item.ID)
				produceLog.Debug("item inserted", slog.Int("producer", p), slog.Int("seq", seq))
			}
			produced[p] = ids
			return nil
		})
	}

	consumeLog := itemLog.WithContext(observability.ContextWithOperation(logCtx, "consume"))
	for c := range cfg.Consumers {
		g.Go(func() error {
			if err := start.Wait(); err != nil {
				cancel()
				return fmt.Errorf("consumer %d: %w", c, err)
			}
			var items []*Item
			// Claiming before Remove keeps the consumers from waiting on items
			// that will never be produced.
			for claimed.Add(1) <= int64(total) {
				item, err := q.Remove()
				if err != nil {
					consumed[c] = items
					cancel()
					return fmt.Errorf("consumer %d: %w", c, err)
				}
				items = append(items, item)
				consumeLog.Debug("item removed",
					slog.Int("consumer", c),
					slog.Int("producer", item.Producer),
					slog.Int("seq", item.Seq),
				)
			}
			consumed[c] = items
			return nil
		})
	}

	werr := g.Wait()
	elapsed := time.Since(began)

	stop()
	if ctx.Err() != nil {
		log.Warn("workload cancelled", observability.Duration("elapsed", elapsed))
		return nil, errs.WrapSync(fmt.Errorf("%w: %w", ErrCancelled, context.Cause(runCtx)), component, "Run")
	}
	if werr != nil {
		_ = q.Close()
		_ = start.Close()
		log.Error("workload failed", observability.ErrorField(werr))
		return nil, werr
	}

	report := &Report{
		Variant:   cfg.Variant,
		FinalSize: q.Len(),
		Elapsed:   elapsed,
		Stats:     q.Stats(),
	}
	_ = q.Close()
	_ = start.Close()

	verr := verify(report, produced, consumed)
	if verr != nil {
		log.Error("workload verification failed", observability.ErrorField(verr))
		return report, verr
	}

	log.Info("workload finished",
		slog.Int("produced", report.Produced),
		slog.Int("consumed", report.Consumed),
		observability.Duration("elapsed", elapsed),
		slog.Uint64("insert_waits", report.Stats.InsertWaits),
		slog.Uint64("remove_waits", report.Stats.RemoveWaits),
	)
	return report, nil
}

// verify fills in the tallies of report and returns every failed check.
func verify(report *Report, produced [][]uuid.UUID, consumed [][]*Item) error {
	seen := make(map[uuid.UUID]int)
	for _, items := range consumed {
		last := make(map[int]int)
		for _, item := range items {
			report.Consumed++
			seen[item.ID]++
			if prev, ok := last[item.Producer]; ok && item.Seq <= prev {
				report.OutOfOrder++
			}
			last[item.Producer] = item.Seq
		}
	}

	for _, ids := range produced {
		for _, id := range ids {
			report.Produced++
			if seen[id] == 0 {
				report.Missing++
			}
		}
	}
	for _, n := range seen {
		if n > 1 {
			report.Duplicates += n - 1
		}
	}

	var result *multierror.Error
	if report.Duplicates > 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d duplicate items", ErrVerification, report.Duplicates))
	}
	if report.Missing > 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d missing items", ErrVerification, report.Missing))
	}
	if report.OutOfOrder > 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d items out of producer order", ErrVerification, report.OutOfOrder))
	}
	if report.FinalSize != 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d items left in queue", ErrVerification, report.FinalSize))
	}
	return errs.WrapSync(result.ErrorOrNil(), component, "Run")
}
