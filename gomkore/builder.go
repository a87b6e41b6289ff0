package gomkore

import (
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// FailMode decides what a [Builder] does when the operation of an action
// fails.
type FailMode int

const (
	// ContinueOnFailure records and traces the failure and goes on with the
	// next action. The build itself does not fail.
	ContinueOnFailure FailMode = iota

	// StopOnFailure stops the build at the first failing action and returns
	// the failure as an [ActionError].
	StopOnFailure
)

func (m FailMode) String() string {
	switch m {
	case ContinueOnFailure:
		return "continue"
	case StopOnFailure:
		return "stop"
	}
	return fmt.Sprintf("FailMode(%d)", int(m))
}

func ParseFailMode(s string) (FailMode, error) {
	switch s {
	case "", "continue":
		return ContinueOnFailure, nil
	case "stop", "strict":
		return StopOnFailure, nil
	}
	return ContinueOnFailure, fmt.Errorf("illegal fail mode '%s'", s)
}

// Builder brings goals up to date by running the actions that result in them.
// Premises are built first, in the order the actions declare them. Each goal
// and each action is visited at most once per build.
type Builder struct {
	FailMode FailMode
	DryRun   bool

	trace  *Trace
	env    *Env
	bid    BuildID // => Builder must not be used concurrently
	failed bitset.BitSet
	errs   map[uint]error
}

func NewBuilder(tr *Trace, env *Env) (*Builder, error) {
	if tr == nil {
		return nil, errors.New("no trace for new builder")
	}
	return &Builder{trace: tr, env: env}, nil
}

func (bd *Builder) Trace() *Trace { return bd.trace }

// Env returns the environment actions are run with. It is nil before the first
// build when no environment was passed to [NewBuilder].
func (bd *Builder) Env() *Env { return bd.env }

// Project builds all leafs in prj.
func (bd *Builder) Project(prj *Project) error {
	return bd.Goals(prj.Leafs()...)
}

// Goals builds the goals gs one after the other. All goals must belong to the
// same project.
func (bd *Builder) Goals(gs ...*Goal) error {
	if len(gs) == 0 {
		return nil
	}
	prj := gs[0].Project()
	for _, g := range gs[1:] {
		if g.Project() != prj {
			return fmt.Errorf("goal %s not in project %s", g, prj)
		}
	}
	bd.bid = prj.LockBuild()
	defer prj.Unlock()
	if bd.env == nil {
		bd.env = DefaultEnv(bd.trace)
	}
	start := time.Now()
	tr := bd.trace.pushProject(prj)
	tr.startProject(prj, bd.activity())
	for _, g := range gs {
		if err := bd.buildGoal(tr, g); err != nil {
			tr.doneProject(prj, bd.activity(), time.Since(start))
			return err
		}
	}
	tr.doneProject(prj, bd.activity(), time.Since(start))
	return nil
}

func (bd *Builder) NamedGoals(prj *Project, names ...string) error {
	var gs []*Goal
	for _, n := range names {
		g := prj.FindGoal(n)
		if g == nil {
			return fmt.Errorf("no goal named '%s' in project '%s'", n, prj.String())
		}
		gs = append(gs, g)
	}
	return bd.Goals(gs...)
}

// Failed reports whether the operation of action a failed in any build of bd.
func (bd *Builder) Failed(a *Action) bool { return bd.failed.Test(uint(a.ID())) }

// Err returns the error of action a if it failed in any build of bd.
func (bd *Builder) Err(a *Action) error {
	if !bd.Failed(a) {
		return nil
	}
	return bd.errs[uint(a.ID())]
}

// Failures returns the errors of all failed actions of prj ordered by action
// ID.
func (bd *Builder) Failures(prj *Project) (errs []*ActionError) {
	acts := prj.Actions()
	for i, ok := bd.failed.NextSet(0); ok; i, ok = bd.failed.NextSet(i + 1) {
		if int(i) >= len(acts) {
			break
		}
		errs = append(errs, &ActionError{Action: acts[i], Err: bd.errs[i]})
	}
	return errs
}

func (bd *Builder) activity() string {
	if bd.DryRun {
		return "dry-running"
	}
	return "building"
}

func (bd *Builder) buildGoal(tr *Trace, g *Goal) error {
	if g.LockBuild() == 0 {
		return nil
	}
	defer g.Unlock()

	tr = tr.pushGoal(g)
	tr.checkGoal(g)
	for _, act := range g.ResultOf() {
		for _, pre := range act.Premises() {
			if err := bd.buildGoal(tr, pre); err != nil {
				return err
			}
		}
	}
	for _, act := range g.ResultOf() {
		if err := tr.Ctx().Err(); err != nil {
			return err
		}
		preBID, err := act.run(tr, bd.env, bd.DryRun)
		switch {
		case preBID > bd.bid:
			return fmt.Errorf("action %s already run by younger build %d",
				act,
				preBID,
			)
		case err != nil:
			if err = bd.fail(tr, act, err); err != nil {
				return err
			}
		}
	}
	return nil
}

func (bd *Builder) fail(tr *Trace, a *Action, err error) error {
	id := uint(a.ID())
	bd.failed.Set(id)
	if bd.errs == nil {
		bd.errs = make(map[uint]error)
	}
	var aerr *ActionError
	if errors.As(err, &aerr) {
		bd.errs[id] = aerr.Err
	} else {
		bd.errs[id] = err
	}
	tr.actionFailed(a, bd.errs[id])
	if bd.FailMode == StopOnFailure {
		return err
	}
	return nil
}
