// Package audit orchestrates a license compliance run: manifest entries are
// fanned out through the bounded scheduler, each task fetching registry
// metadata (and, in report mode, the license text), and the per-entry
// classifications are aggregated into a single verdict.
package audit

import (
	"context"
	"io"
	"os"

	"github.com/auditkit/lockaudit/pkg/logger"
	"github.com/auditkit/lockaudit/pkg/manifest"
	"github.com/auditkit/lockaudit/pkg/policy"
	"github.com/auditkit/lockaudit/pkg/registry"
	"github.com/auditkit/lockaudit/pkg/report"
	"github.com/auditkit/lockaudit/pkg/resolver"
	"github.com/auditkit/lockaudit/pkg/work"
)

// Options configures one audit run.
type Options struct {
	LockfilePath string
	SelfName     string
	Concurrency  int
	OSSReadme    bool
	Policy       policy.Config
	Registry     *registry.CratesClient
	Resolver     *resolver.Resolver

	// Diagnostics receives the per-dependency check lines. Defaults to
	// stderr so stdout stays reserved for the attribution report.
	Diagnostics io.Writer
}

// Result is the outcome of an audit run. The caller (the CLI layer) is
// responsible for translating it into a process exit code; the core never
// exits the process itself.
type Result struct {
	Passed  bool
	Checks  []policy.Check
	Records []report.Record
	Denials []string
}

// taskResult is what one scheduler task produces for one dependency.
type taskResult struct {
	check  policy.Check
	dep    policy.DepInput
	record *report.Record
}

// Run executes the audit. Fetch and resolution failures end the run with an
// error: the audit never silently passes a dependency whose license could
// not be determined. Policy violations are not errors; they surface as
// Passed == false.
func Run(ctx context.Context, opts Options) (*Result, error) {
	diagnostics := opts.Diagnostics
	if diagnostics == nil {
		diagnostics = os.Stderr
	}

	entries, err := manifest.Load(opts.LockfilePath, opts.SelfName)
	if err != nil {
		return nil, err
	}
	logger.Info("auditing dependencies",
		logger.Int("count", len(entries)),
		logger.Bool("ossreadme", opts.OSSReadme))

	evaluator := policy.NewEvaluator(opts.Policy)

	results, err := work.RunAll(ctx, len(entries), opts.Concurrency, func(ctx context.Context, i int) (taskResult, error) {
		return auditOne(ctx, opts, evaluator, entries[i])
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Checks: make([]policy.Check, len(results))}
	deps := make([]policy.DepInput, len(results))
	for i, tr := range results {
		res.Checks[i] = tr.check
		deps[i] = tr.dep
		if tr.record != nil {
			res.Records = append(res.Records, *tr.record)
		}
	}

	policy.PrintChecks(diagnostics, res.Checks)

	if engine := policy.NewRegoEngine(opts.Policy); engine != nil {
		denials, err := engine.Evaluate(ctx, deps)
		if err != nil {
			return nil, err
		}
		res.Denials = denials
		for _, msg := range denials {
			logger.Warn(msg)
		}
	}

	res.Passed = policy.Verdict(res.Checks) && len(res.Denials) == 0

	if opts.OSSReadme {
		report.Sort(res.Records)
	}

	return res, nil
}

// auditOne processes a single dependency entry. License text is only
// resolved in report mode; the plain audit needs nothing beyond the
// registry's license string.
func auditOne(ctx context.Context, opts Options, evaluator *policy.Evaluator, entry manifest.Entry) (taskResult, error) {
	info, err := opts.Registry.FetchLicense(ctx, entry.Name, entry.Version)
	if err != nil {
		return taskResult{}, err
	}

	tr := taskResult{
		check: evaluator.Check(info.Name, info.Version, info.License),
		dep: policy.DepInput{
			Name:        info.Name,
			Version:     info.Version,
			LicenseType: policy.DetectType(info.License),
		},
	}

	if !opts.OSSReadme {
		return tr, nil
	}

	doc, err := opts.Resolver.Resolve(ctx, info.RepositoryURL)
	if err != nil {
		return taskResult{}, err
	}

	tr.dep.LicenseType = policy.DetectType(doc.Text)
	tr.record = &report.Record{
		Name:          doc.Repo.String(),
		Version:       info.Version,
		RepositoryURL: info.RepositoryURL,
		LicenseDetail: doc.Lines(),
		IsProd:        entry.Source != "",
	}
	return tr, nil
}
