package mkprebuilt

import (
	"context"
	"errors"
	"slices"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"git.fractalqb.de/fractalqb/mkprebuilt/mkfs"
)

// Deployment is the project that builds and deploys the prebuilt libraries of
// a [Config]. Building the Sync goal builds all targets, resets the
// destination and copies the artifacts. Building Clean removes the build
// output.
type Deployment struct {
	Project *Project
	Sync    *Goal
	Clean   *Goal

	cfg    Config
	builds []*Action
	copied map[string][]string
}

// NewDeployment creates the deployment project for cfg. The build tool is run
// with run, nil selects [ExecRunner].
func NewDeployment(cfg Config, run Runner) (*Deployment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Deployment{
		Project: gomkore.NewProject(cfg.ProjectDir),
		cfg:     cfg,
		copied:  make(map[string][]string),
	}
	err := Edit(d.Project, func(prj ProjectEd) {
		build := prj.Goal(Abstract("build"))
		for _, t := range cfg.Targets() {
			op := &BuildOp{
				Tool:      cfg.Tool,
				Packages:  cfg.Packages,
				Target:    t,
				TargetDir: cfg.BuildOutput,
				Runner:    run,
			}
			d.builds = append(d.builds, prj.NewAction(nil, []GoalEd{build}, op))
		}

		srcRoot, dstRoot := mkfs.Dir(cfg.BuildOutput), mkfs.Dir(cfg.Destination)
		dest := prj.Goal(dstRoot).By(mkfs.Remove{}, build)

		var copies []GoalEd
		for _, p := range cfg.Profiles {
			prf := Profile(p)
			src, dst := srcRoot.Sub(prf.FilePath()), dstRoot.Sub(prf.FilePath())
			deps := prj.Goal(dst.Sub(cfg.DepsDir)).By(mkfs.MkDirs{}, dest)
			cp := mkfs.Copy{OnCopy: d.recordCopy(p)}
			for _, pkg := range cfg.Packages {
				lib := cfg.LibPrefix + pkg + cfg.ArchiveExt
				copies = append(copies,
					prj.Goal(dst.File(lib)).By(cp, deps, prj.Goal(src.File(lib))),
				)
			}
			filters := []mkfs.Filter{mkfs.Suffixes(cfg.MetaExt, cfg.ArchiveExt)}
			if !prf.IsWasm(cfg.WasmMarker) && cfg.SharedExt != "" {
				filters = append(filters, mkfs.Suffix(cfg.SharedExt))
			}
			for _, f := range filters {
				from := mkfs.DirList{Dir: src.Sub(cfg.DepsDir).Path(), Filter: f}
				to := mkfs.DirList{Dir: dst.Sub(cfg.DepsDir).Path(), Filter: f}
				copies = append(copies, prj.Goal(to).By(cp, deps, prj.Goal(from)))
			}
		}
		d.Sync = prj.Goal(Abstract("sync")).ImpliedBy(copies...).Goal()
		d.Clean = prj.Goal(srcRoot).By(mkfs.Remove{}).Goal()
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deployment) Config() Config { return d.cfg }

func (d *Deployment) recordCopy(profile string) func(string) {
	return func(dst string) {
		d.copied[profile] = append(d.copied[profile], dst)
	}
}

// Syncer runs deployments.
type Syncer struct {
	// Tracer defaults to [DefaultTracer].
	Tracer gomkore.Tracer
	// Env defaults to [gomkore.DefaultEnv]. The Env of the config is set on
	// a sub environment.
	Env *Env
	// Runner defaults to [ExecRunner].
	Runner Runner
	// DryRun traces the actions without running them.
	DryRun bool
}

// Sync runs cfg with the default [Syncer].
func Sync(ctx context.Context, cfg Config) (*Report, error) {
	var s Syncer
	return s.Run(ctx, cfg)
}

// Run builds all targets of cfg and deploys the artifacts. Afterwards, the
// build output is removed, whatever happened before. With
// [gomkore.ContinueOnFailure] failing actions are only reported in the
// returned Report.
func (s *Syncer) Run(ctx context.Context, cfg Config) (*Report, error) {
	d, err := NewDeployment(cfg, s.Runner)
	if err != nil {
		return nil, err
	}
	return s.Deploy(ctx, d)
}

// Deploy runs the Sync goal of d, then its Clean goal. The cleanup also runs
// when ctx is cancelled.
func (s *Syncer) Deploy(ctx context.Context, d *Deployment) (*Report, error) {
	d.copied = make(map[string][]string)
	tracer := s.Tracer
	if tracer == nil {
		tracer = DefaultTracer()
	}
	tr := gomkore.NewTrace(ctx, tracer)
	env := s.Env
	if env == nil {
		env = gomkore.DefaultEnv(tr)
	}
	if len(d.cfg.Env) > 0 {
		env = env.Sub()
		env.SetTagsMap(d.cfg.Env)
	}

	syncBd, err := s.builder(tr, env, d.cfg.FailMode)
	if err != nil {
		return nil, err
	}
	syncErr := syncBd.Goals(d.Sync)

	cleanTr := gomkore.NewTrace(context.WithoutCancel(ctx), tracer)
	cleanBd, err := s.builder(cleanTr, env, d.cfg.FailMode)
	if err != nil {
		return nil, err
	}
	cleanErr := cleanBd.Goals(d.Clean)

	rep := d.report(syncBd, cleanBd)
	rep.DryRun = s.DryRun
	if !s.DryRun {
		exists, err := mkfs.Exists(env.FS, d.Clean.Artefact.(mkfs.Dir), d.Project)
		rep.Cleaned = err == nil && !exists
	}
	return rep, errors.Join(syncErr, cleanErr)
}

func (s *Syncer) builder(tr *Trace, env *Env, mode gomkore.FailMode) (*gomkore.Builder, error) {
	bd, err := gomkore.NewBuilder(tr, env)
	if err != nil {
		return nil, err
	}
	bd.FailMode = mode
	bd.DryRun = s.DryRun
	return bd, nil
}

// Report is the outcome of a deployment.
type Report struct {
	Builds []BuildRun
	// Copied maps each profile to the sorted paths of the files and
	// directories that were copied for it.
	Copied   map[string][]string
	Failures []Failure
	Cleaned  bool
	DryRun   bool
}

type BuildRun struct {
	Target  Target
	Command string
	Err     error
}

type Failure struct {
	Action string
	Err    error
}

func (f Failure) Error() string { return f.Action + ": " + f.Err.Error() }

func (f Failure) Unwrap() error { return f.Err }

// OK reports whether no action failed.
func (r *Report) OK() bool { return len(r.Failures) == 0 }

func (d *Deployment) report(bds ...*gomkore.Builder) *Report {
	rep := &Report{Copied: make(map[string][]string)}
	for _, a := range d.builds {
		op := a.Op.(*BuildOp)
		run := BuildRun{Target: op.Target, Command: op.Describe(a, nil)}
		for _, bd := range bds {
			if err := bd.Err(a); err != nil {
				run.Err = err
			}
		}
		rep.Builds = append(rep.Builds, run)
	}
	for p, ls := range d.copied {
		rep.Copied[p] = slices.Sorted(slices.Values(ls))
	}
	for _, bd := range bds {
		for _, f := range bd.Failures(d.Project) {
			rep.Failures = append(rep.Failures, Failure{
				Action: f.Action.String(),
				Err:    f.Err,
			})
		}
	}
	return rep
}
