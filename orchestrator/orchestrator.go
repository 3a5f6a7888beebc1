// Package orchestrator drives the two-stage generation loop: request an
// intent, solve it, assemble and persist the record, bounded by a target
// record count and a consecutive-failure threshold.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rag_data_generator/generator"
	"rag_data_generator/metrics"
)

// State of the orchestrator as seen by the control surface.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// StopReason explains why a run ended.
type StopReason string

const (
	ReasonTargetReached    StopReason = "target_reached"
	ReasonFailureThreshold StopReason = "failure_threshold"
	ReasonUserStop         StopReason = "user_stop"
)

var (
	ErrAlreadyRunning = errors.New("a run is already in progress")
	ErrNotRunning     = errors.New("no run in progress")
)

// IntentSource is Stage 1 of a unit of work.
type IntentSource interface {
	Generate(ctx context.Context) (generator.Intent, error)
}

// SolutionSource is Stage 2, consuming Stage 1's output.
type SolutionSource interface {
	Generate(ctx context.Context, intent generator.Intent) (generator.Solution, error)
}

// RecordWriter persists an assembled record and returns the written path.
type RecordWriter interface {
	Write(rec generator.Record) (string, error)
}

// Params is the loop policy for one run, validated before the run starts.
type Params struct {
	MaxRecords             int
	MaxConsecutiveFailures int
	Delay                  time.Duration
	ModelXURL              string
	ModelYURL              string
}

func (p Params) Validate() error {
	if p.MaxRecords <= 0 {
		return errors.New("max records must be greater than 0")
	}
	if p.MaxConsecutiveFailures < 1 {
		return errors.New("max consecutive failures must be at least 1")
	}
	if p.Delay < 0 {
		return errors.New("delay must not be negative")
	}
	return nil
}

// Status is a point-in-time snapshot for the control surface. Counters from
// a finished run stay visible until the next run starts.
type Status struct {
	State               State      `json:"state"`
	RecordsWritten      int        `json:"records_written"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	TotalAttempts       int        `json:"total_attempts"`
	LastError           string     `json:"last_error,omitempty"`
	StopReason          StopReason `json:"stop_reason,omitempty"`
}

// runState is owned exclusively by the run goroutine; Status exposes copies.
type runState struct {
	records  int
	failures int
	attempts int
	lastErr  string
}

// Orchestrator owns the run lifecycle. One run at a time; the loop executes
// on its own goroutine so the control surface stays responsive.
type Orchestrator struct {
	mu     sync.Mutex
	state  State
	status Status
	cancel context.CancelFunc
	done   chan struct{}

	events *broadcaster
	log    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:  StateIdle,
		status: Status{State: StateIdle},
		events: newBroadcaster(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers an event listener. The returned cancel func must be
// called when the listener goes away.
func (o *Orchestrator) Subscribe() (<-chan Event, func()) {
	return o.events.subscribe()
}

// Status returns the current snapshot.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Start validates the policy and launches the run goroutine. It fails when a
// run is already in progress or the params violate an invariant; no unit of
// work begins in either case.
func (o *Orchestrator) Start(params Params, intents IntentSource, solutions SolutionSource, rw RecordWriter) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid run params: %w", err)
	}
	if intents == nil || solutions == nil || rw == nil {
		return errors.New("intent source, solution source, and writer are required")
	}

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.state = StateRunning
	o.status = Status{State: StateRunning}
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	go func() {
		defer close(done)
		o.run(ctx, params, intents, solutions, rw)
	}()
	return nil
}

// Stop requests a cooperative stop. The in-flight unit is cancelled via
// context; state returns to Idle once the loop has wound down.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateRunning {
		return ErrNotRunning
	}
	o.state = StateStopping
	o.status.State = StateStopping
	o.cancel()
	return nil
}

// Wait blocks until the current run finishes. Returns immediately when idle.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (o *Orchestrator) syncStatus(rs *runState) {
	o.mu.Lock()
	o.status.RecordsWritten = rs.records
	o.status.ConsecutiveFailures = rs.failures
	o.status.TotalAttempts = rs.attempts
	o.status.LastError = rs.lastErr
	o.mu.Unlock()
}

func (o *Orchestrator) publish(ev Event) {
	ev.Time = time.Now()
	o.events.publish(ev)
}

func (o *Orchestrator) run(ctx context.Context, p Params, intents IntentSource, solutions SolutionSource, rw RecordWriter) {
	rs := &runState{}
	o.log.Info("run started",
		"max_records", p.MaxRecords,
		"max_consecutive_failures", p.MaxConsecutiveFailures,
		"delay", p.Delay.String(),
		"model_x_url", p.ModelXURL,
		"model_y_url", p.ModelYURL,
	)
	o.publish(Event{Type: EventRunStarted})

	var reason StopReason
loop:
	for {
		switch {
		case rs.records >= p.MaxRecords:
			reason = ReasonTargetReached
			break loop
		case rs.failures >= p.MaxConsecutiveFailures:
			reason = ReasonFailureThreshold
			break loop
		case ctx.Err() != nil:
			reason = ReasonUserStop
			break loop
		}

		rs.attempts++
		o.publish(Event{Type: EventUnitStarted, Attempt: rs.attempts,
			RecordsWritten: rs.records, ConsecutiveFailures: rs.failures})

		intent, err := o.generateIntent(ctx, intents)
		if err != nil {
			if ctx.Err() != nil {
				reason = ReasonUserStop
				break loop
			}
			o.failUnit(rs, err)
			o.delay(ctx, p, rs)
			continue
		}

		solution, err := o.generateSolution(ctx, solutions, intent)
		if err != nil {
			if ctx.Err() != nil {
				reason = ReasonUserStop
				break loop
			}
			o.failUnit(rs, err)
			o.delay(ctx, p, rs)
			continue
		}

		rec := generator.Assemble(intent, solution, p.ModelXURL, p.ModelYURL)
		// Generation succeeded; the failure streak ends here regardless of
		// what persistence does next.
		rs.failures = 0
		rs.lastErr = ""

		path, err := rw.Write(rec)
		if err != nil {
			// Deliberate leniency: a persistence failure is a warning. It
			// neither counts toward records_written nor toward the
			// consecutive-failure threshold.
			rs.lastErr = err.Error()
			o.log.Warn("record write failed", "record_id", rec.ID, "error", err)
			metrics.WriteFailures.Inc()
			metrics.UnitsTotal.WithLabelValues("write_failed").Inc()
			o.publish(Event{Type: EventWriteFailed, Attempt: rs.attempts,
				RecordID: rec.ID, Diagnostic: err.Error(),
				RecordsWritten: rs.records, ConsecutiveFailures: rs.failures})
		} else {
			rs.records++
			o.log.Info("record saved", "record_id", rec.ID, "path", path,
				"records_written", rs.records, "target", p.MaxRecords)
			metrics.RecordsWritten.Inc()
			metrics.UnitsTotal.WithLabelValues("success").Inc()
			o.publish(Event{Type: EventUnitSucceeded, Attempt: rs.attempts,
				RecordID: rec.ID, Path: path,
				RecordsWritten: rs.records, ConsecutiveFailures: rs.failures})
		}
		o.syncStatus(rs)

		o.delay(ctx, p, rs)
	}

	o.finish(rs, reason)
}

func (o *Orchestrator) generateIntent(ctx context.Context, intents IntentSource) (generator.Intent, error) {
	start := time.Now()
	intent, err := intents.Generate(ctx)
	metrics.StageDuration.WithLabelValues(string(generator.StageIntent)).Observe(time.Since(start).Seconds())
	return intent, err
}

func (o *Orchestrator) generateSolution(ctx context.Context, solutions SolutionSource, intent generator.Intent) (generator.Solution, error) {
	start := time.Now()
	solution, err := solutions.Generate(ctx, intent)
	metrics.StageDuration.WithLabelValues(string(generator.StageSolution)).Observe(time.Since(start).Seconds())
	return solution, err
}

// failUnit records one generation failure: counter bump, diagnostic event,
// log line. Exactly one event per failure path.
func (o *Orchestrator) failUnit(rs *runState, err error) {
	rs.failures++
	rs.lastErr = err.Error()

	stage, kind := classify(err)
	o.log.Warn("unit failed", "stage", stage, "kind", kind,
		"consecutive_failures", rs.failures, "error", err)
	metrics.UnitsTotal.WithLabelValues("failure").Inc()
	metrics.StageFailuresTotal.WithLabelValues(stage, kind).Inc()
	o.publish(Event{Type: EventUnitFailed, Attempt: rs.attempts,
		Stage: stage, Kind: kind, Diagnostic: err.Error(),
		RecordsWritten: rs.records, ConsecutiveFailures: rs.failures})
	o.syncStatus(rs)
}

func classify(err error) (stage, kind string) {
	var se *generator.StageError
	if errors.As(err, &se) {
		return string(se.Stage), string(se.Kind)
	}
	return "unknown", "unknown"
}

// delay applies the inter-unit pause, skipped once a terminal condition or a
// stop request is already in effect. Cancellation interrupts the wait.
func (o *Orchestrator) delay(ctx context.Context, p Params, rs *runState) {
	if p.Delay <= 0 || ctx.Err() != nil {
		return
	}
	if rs.records >= p.MaxRecords || rs.failures >= p.MaxConsecutiveFailures {
		return
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (o *Orchestrator) finish(rs *runState, reason StopReason) {
	metrics.RunsTotal.WithLabelValues(string(reason)).Inc()

	o.mu.Lock()
	o.state = StateIdle
	o.status = Status{
		State:               StateIdle,
		RecordsWritten:      rs.records,
		ConsecutiveFailures: rs.failures,
		TotalAttempts:       rs.attempts,
		LastError:           rs.lastErr,
		StopReason:          reason,
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.mu.Unlock()

	o.log.Info("run stopped", "reason", string(reason),
		"records_written", rs.records, "total_attempts", rs.attempts)
	o.publish(Event{Type: EventRunStopped, Reason: reason,
		RecordsWritten: rs.records, ConsecutiveFailures: rs.failures})
}
