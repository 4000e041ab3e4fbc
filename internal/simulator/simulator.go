// Package simulator is the embedder-facing driver for the randomized
// `_test` opcode: it seeds a PRNG, runs the compiler's simulation loop,
// and packages the outcome into a Report a CLI or test can inspect
// (verdict, failing run/step, trace, seed for replay, a stable run id).
package simulator

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/quint-lang/quint-core/internal/compiler"
	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/value"
)

// Verdict is the outcome of a Run.
type Verdict uint8

const (
	Ok Verdict = iota
	ErrorFound
)

func (v Verdict) String() string {
	if v == ErrorFound {
		return "error found"
	}
	return "ok"
}

// RunConfig names the callables the simulator drives and how far.
type RunConfig struct {
	NRuns, NSteps            int
	InitName, StepName, InvName string
	Seed                     int64
}

// Report is the outcome of one Run: the verdict, where a failure was
// found (if any), the trace leading to it, every runtime error raised
// along the way, and the seed/run id needed to reproduce it.
type Report struct {
	Verdict         Verdict
	FailingRunIndex int
	FailingStep     int
	Trace           []value.Record
	RuntimeErrors   []*diag.RuntimeError
	Seed            int64
	RunID           uuid.UUID
}

// Run drives ctx's compiled init/step/inv callables through the
// simulation algorithm, seeded explicitly so the returned Report.Seed
// lets a caller reproduce the exact same run later via Replay.
func Run(ctx *compiler.Context, cfg RunConfig) Report {
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	errs := diag.NewBag()
	rt := compiler.NewRuntime(rng, errs)

	result := compiler.Simulate(rt, ctx, cfg.NRuns, cfg.NSteps, cfg.InitName, cfg.StepName, cfg.InvName)

	verdict := Ok
	if result.Verdict == compiler.VerdictErrorFound {
		verdict = ErrorFound
	}

	return Report{
		Verdict:         verdict,
		FailingRunIndex: result.FailingRunIndex,
		FailingStep:     result.FailingStep,
		Trace:           result.Trace,
		RuntimeErrors:   errs.Runtime,
		Seed:            cfg.Seed,
		RunID:           uuid.New(),
	}
}

// Replay re-runs cfg under the given seed, the mechanism spec.md's
// "implementations MUST expose the seed" requirement leaves as an
// obligation on the embedder: this is the obvious helper for
// deterministically reproducing a previously reported failing run.
func Replay(ctx *compiler.Context, seed int64, cfg RunConfig) Report {
	cfg.Seed = seed
	return Run(ctx, cfg)
}
