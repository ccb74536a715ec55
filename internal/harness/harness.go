package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/bitemp/internal/compiler"
	"github.com/roach88/bitemp/internal/condition"
	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/metrics"
	"github.com/roach88/bitemp/internal/queryir"
	"github.com/roach88/bitemp/internal/schema"
	"github.com/roach88/bitemp/internal/shape"
	"github.com/roach88/bitemp/internal/store"
	"github.com/roach88/bitemp/internal/testutil"
)

// maxConcurrentQueries bounds how many scenario queries run at once.
const maxConcurrentQueries = 4

// Harness is the scenario execution engine.
// It runs one scenario against a fresh store with a deterministic clock.
type Harness struct {
	store   *store.Store
	schema  *schema.Schema
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Compile the scenario schema
//  2. Write the records in order, one transaction time each
//  3. Evaluate every query against SQL and the in-memory matcher
//  4. Check both backends agree and the expectations hold
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext is Run with a context and an optional metrics sink.
func RunContext(ctx context.Context, scenario *Scenario, m *metrics.Metrics) (*Result, error) {
	sch, err := LoadSchema(scenario)
	if err != nil {
		return nil, err
	}

	start, step := int64(0), int64(10)
	if scenario.Clock != nil {
		start, step = scenario.Clock.Start, scenario.Clock.Step
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	st, err := store.Open(":memory:",
		store.WithClock(testutil.NewSteppedClock(start, step)),
		store.WithMetrics(m),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st, schema: sch, metrics: m, logger: logger}

	if err := h.applyRecords(ctx, scenario.Records); err != nil {
		return nil, fmt.Errorf("failed to apply records: %w", err)
	}

	return h.evaluate(ctx, scenario.Queries)
}

// LoadSchema compiles the scenario's inline schema or schema file.
func LoadSchema(scenario *Scenario) (*schema.Schema, error) {
	src, name := scenario.Schema, scenario.Name+".cue"
	if scenario.SchemaFile != "" {
		data, err := os.ReadFile(scenario.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		src, name = string(data), scenario.SchemaFile
	}

	v := cuecontext.New().CompileString(src, cue.Filename(name))
	sch, err := compiler.CompileSchema(v)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}

// applyRecords writes the scenario records sequentially.
func (h *Harness) applyRecords(ctx context.Context, records []RecordStep) error {
	written, err := ApplyRecords(ctx, h.store, h.schema, records)
	if err != nil {
		return err
	}
	for _, v := range written {
		h.logger.Info("record written", "label", label(v))
	}
	return nil
}

// ApplyRecords writes records to st in order and returns the versions
// written. Retractions close a version without returning one.
//
// Valid-time bounds are parsed by the field's mapper: an omitted vt_from is
// MIN and an omitted vt_to is NOW.
func ApplyRecords(ctx context.Context, st *store.Store, sch *schema.Schema, records []RecordStep) ([]ir.VersionRecord, error) {
	var written []ir.VersionRecord
	for i, r := range records {
		if r.Retract {
			ok, err := st.Retract(ctx, r.Field, r.Key)
			if err != nil {
				return written, fmt.Errorf("records[%d]: %w", i, err)
			}
			if !ok {
				return written, fmt.Errorf("records[%d]: %s/%s has no open version to retract", i, r.Field, r.Key)
			}
			continue
		}

		m, ok := sch.Bitemporal(r.Field)
		if !ok {
			return written, fmt.Errorf("records[%d]: field %q is not bi-temporal", i, r.Field)
		}
		vtFrom, err := m.Instant(r.VtFrom, ir.Min())
		if err != nil {
			return written, fmt.Errorf("records[%d]: vt_from: %w", i, err)
		}
		vtTo, err := m.Instant(r.VtTo, ir.Now())
		if err != nil {
			return written, fmt.Errorf("records[%d]: vt_to: %w", i, err)
		}

		v, err := st.Put(ctx, r.Field, r.Key, vtFrom, vtTo, r.Payload)
		if err != nil {
			return written, fmt.Errorf("records[%d]: %w", i, err)
		}
		written = append(written, v)
	}
	return written, nil
}

// evaluate runs the queries concurrently and assembles results in order.
func (h *Harness) evaluate(ctx context.Context, queries []QueryStep) (*Result, error) {
	results := make([]QueryResult, len(queries))
	failures := make([][]string, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for i := range queries {
		g.Go(func() error {
			qr, fails, err := h.runQuery(gctx, queries[i])
			if err != nil {
				return fmt.Errorf("query %q: %w", queries[i].Name, err)
			}
			results[i] = qr
			failures[i] = fails
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := NewResult()
	result.Queries = results
	for _, fails := range failures {
		for _, f := range fails {
			result.AddError(f)
		}
	}
	return result, nil
}

// runQuery plans one query, executes it on both backends and checks the
// expectation. Returned failures are expectation mismatches; a non-nil
// error means the query could not be evaluated at all.
func (h *Harness) runQuery(ctx context.Context, q QueryStep) (QueryResult, []string, error) {
	qr := QueryResult{Name: q.Name, Matches: []string{}}

	cond := q.Condition
	plan, err := cond.Plan(h.schema)
	if err != nil {
		var cerr *condition.Error
		if !errors.As(err, &cerr) {
			return qr, nil, err
		}
		qr.Error = string(cerr.Code)
		return qr, checkExpectation(q, qr), nil
	}
	h.metrics.ObservePlan(plan)

	qr.Branch = plan.Branch.String()
	qr.Predicate = queryir.Format(plan.Predicate)
	qr.Score = queryir.Weight(plan.Predicate)
	for _, sel := range plan.Selections {
		qr.Selections = append(qr.Selections, sel.String())
	}

	hits, err := h.store.Search(ctx, cond.Field, plan.Predicate)
	if err != nil {
		return qr, nil, err
	}
	sqlIDs := make([]string, len(hits))
	for i, hit := range hits {
		sqlIDs[i] = hit.Version.ID
		qr.Matches = append(qr.Matches, label(hit.Version))
	}
	slices.Sort(qr.Matches)

	shapes, err := h.store.Shapes(ctx, cond.Field)
	if err != nil {
		return qr, nil, err
	}
	var memIDs []string
	for _, s := range shape.Filter(plan.Predicate, shapes) {
		memIDs = append(memIDs, s.VersionID)
	}
	slices.Sort(memIDs)

	var fails []string
	if !slices.Equal(sqlIDs, memIDs) {
		fails = append(fails, fmt.Sprintf("%s: backends disagree: sql=%v memory=%v", q.Name, sqlIDs, memIDs))
	}
	return qr, append(fails, checkExpectation(q, qr)...), nil
}

// label renders a version as "key@tt_from".
func label(v ir.VersionRecord) string {
	return fmt.Sprintf("%s@%s", v.Key, v.TtFrom)
}
