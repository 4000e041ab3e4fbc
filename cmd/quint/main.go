// Command quint drives the resolve/compile/simulate pipeline over an
// IR-encoded specification module, per spec.md §6's informational exit
// semantics. It is the "minimal cmd/quint driver" spec.md leaves as the
// embedding CLI's job; a real Quint parser and type checker remain
// external collaborators, matching the teacher's own main.go pattern of
// a thin flag-handling entry point delegating to the pipeline packages.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/quint-lang/quint-core/internal/config"
	"github.com/quint-lang/quint-core/internal/constants"
	"github.com/quint-lang/quint-core/internal/irjson"
	"github.com/quint-lang/quint-core/internal/pipeline"
	"github.com/quint-lang/quint-core/internal/simulator"
	"github.com/quint-lang/quint-core/internal/tracestore"
	"github.com/quint-lang/quint-core/internal/value"
)

type options struct {
	irPath    string
	envPath   string
	tracePath string
	test      bool
	nruns     int
	nsteps    int
	initName  string
	stepName  string
	invName   string
	seed      int64
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: quint [-env FILE] [-trace FILE] [-test -init NAME -step NAME -inv NAME [-runs N] [-steps N] [-seed N]] FILE.qnt.json")
}

func parseArgs(args []string) (*options, error) {
	opts := &options{nruns: config.DefaultNRuns, nsteps: config.DefaultNSteps}
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		next := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("%s expects an argument", a)
			}
			return args[i], nil
		}
		switch a {
		case "-env":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opts.envPath = v
		case "-trace":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opts.tracePath = v
		case "-test":
			opts.test = true
		case "-init":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opts.initName = v
		case "-step":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opts.stepName = v
		case "-inv":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opts.invName = v
		case "-runs":
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("-runs: %w", err)
			}
			opts.nruns = n
		case "-steps":
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("-steps: %w", err)
			}
			opts.nsteps = n
		case "-seed":
			v, err := next()
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("-seed: %w", err)
			}
			opts.seed = n
		case "-h", "-help", "--help":
			usage()
			os.Exit(config.ExitOk)
		default:
			rest = append(rest, a)
		}
	}
	if len(rest) != 1 {
		usage()
		return nil, fmt.Errorf("exactly one input file is required")
	}
	opts.irPath = rest[0]
	if opts.test && (opts.initName == "" || opts.stepName == "" || opts.invName == "") {
		return nil, fmt.Errorf("-test requires -init, -step, and -inv")
	}
	return opts, nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(config.ExitDiagnostics)
		}
	}()

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "quint: %s\n", err)
		os.Exit(config.ExitDiagnostics)
	}

	raw, err := os.ReadFile(opts.irPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quint: %s\n", err)
		os.Exit(config.ExitDiagnostics)
	}

	moduleName := strings.TrimSuffix(opts.irPath, ".json")
	mod, err := irjson.Decode(raw, moduleName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quint: %s\n", err)
		os.Exit(config.ExitDiagnostics)
	}

	env, err := loadEnv(opts.envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quint: %s\n", err)
		os.Exit(config.ExitDiagnostics)
	}

	sess := pipeline.NewSession(opts.irPath, mod, env)
	if opts.test {
		sess.SimConfig = &simulator.RunConfig{
			NRuns:    opts.nruns,
			NSteps:   opts.nsteps,
			InitName: opts.initName,
			StepName: opts.stepName,
			InvName:  opts.invName,
			Seed:     opts.seed,
		}
	}

	sess = pipeline.Standard().Run(sess)

	code := report(opts.test, sess)

	if sess.SimReport != nil && opts.tracePath != "" {
		if err := saveTrace(opts.tracePath, *sess.SimReport); err != nil {
			fmt.Fprintf(os.Stderr, "quint: warning: %s\n", err)
		}
	}

	os.Exit(code)
}

func loadEnv(path string) (map[string]value.Value, error) {
	if path == "" {
		return nil, nil
	}
	return constants.LoadEnv(path)
}

func saveTrace(path string, rep simulator.Report) error {
	store, err := tracestore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(rep)
}

// report prints diagnostics and, for -test runs, the simulation
// verdict, colorizing the verdict word only when stdout is a real
// terminal (NO_COLOR always wins, same convention this codebase's own
// terminal builtins check before emitting ANSI).
func report(testMode bool, sess *pipeline.Session) int {
	for _, e := range sess.ResolveErrors {
		fmt.Fprintf(os.Stderr, "error: unresolved name %q in %s.%s\n", e.Name, e.ModuleName, e.DefinitionName)
	}
	if sess.Diags != nil {
		for _, e := range sess.Diags.Compile {
			fmt.Fprintf(os.Stderr, "error[%s]: %s\n", e.Code, e.Message)
		}
	}
	if sess.HasErrors() {
		return config.ExitDiagnostics
	}
	if !testMode {
		fmt.Println(colorize("ok", true))
		return config.ExitOk
	}
	if sess.SimReport == nil {
		fmt.Fprintln(os.Stderr, "quint: simulation did not run")
		return config.ExitDiagnostics
	}
	rep := *sess.SimReport
	for _, e := range rep.RuntimeErrors {
		fmt.Fprintf(os.Stderr, "runtime error: %s\n", e.Message)
	}
	ok := rep.Verdict == simulator.Ok
	fmt.Printf("%s (seed=%d run=%s)\n", colorize(rep.Verdict.String(), ok), rep.Seed, rep.RunID)
	if !ok {
		fmt.Printf("failing run #%d, step %d\n", rep.FailingRunIndex, rep.FailingStep)
		return config.ExitViolation
	}
	return config.ExitOk
}

func colorize(s string, ok bool) string {
	if _, no := os.LookupEnv("NO_COLOR"); no {
		return s
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	code := "32"
	if !ok {
		code = "31"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
