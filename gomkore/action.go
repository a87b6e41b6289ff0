package gomkore

import (
	"errors"
	"fmt"
)

// An Action is something you can do in your [Project] to achieve at least one
// [Goal]. The actual implementation of the action is an [Operation]. An action
// without an operation is an "implicit" action, i.e. if all its premises are
// reached, all results of the action are implicitly given.
type Action struct {
	Op Operation

	prj      *Project
	id       int
	premises []*Goal
	results  []*Goal
	lastBID  BuildID
}

func (a *Action) Project() *Project { return a.prj }

// ID is the index of a in [Project.Actions].
func (a *Action) ID() int { return a.id }

func (a *Action) Premises() []*Goal { return a.premises }

func (a *Action) Premise(i int) *Goal { return a.premises[i] }

func (a *Action) Results() []*Goal { return a.results }

func (a *Action) Result(i int) *Goal { return a.results[i] }

// LastBuild returns the ID of the last build that ran a.
func (a *Action) LastBuild() BuildID { return a.lastBID }

func (a *Action) String() string {
	switch {
	case a == nil:
		return "<nil:Action>"
	case a.Op == nil:
		return "implicit:" + a.Project().Name(nil)
	}
	return a.Op.Describe(a, nil)
}

// run runs a's operation once per build. It returns the build ID that ran the
// action before, which is a.prj's current build when a already ran in it.
func (a *Action) run(tr *Trace, env *Env, dryrun bool) (BuildID, error) {
	bid := a.lastBID
	if bid == a.prj.lastBuild {
		return bid, nil
	}
	a.lastBID = a.prj.lastBuild
	if a.Op == nil {
		tr.runImplicitAction(a)
		return bid, nil
	}
	if dryrun {
		tr.dryRunAction(a)
		return bid, nil
	}
	tr.runAction(a)
	if err := a.Op.Do(tr, a, env); err != nil {
		return bid, &ActionError{Action: a, Err: err}
	}
	return bid, nil
}

type Operation interface {
	// The hints are optional
	Describe(actionHint *Action, envHint *Env) string
	Do(tr *Trace, a *Action, env *Env) error
}

// ActionError is returned by a [Builder] when the operation of an action
// failed.
type ActionError struct {
	Action *Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action (%s): %s", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// FailedAction returns the action of the first [ActionError] in err's tree.
func FailedAction(err error) *Action {
	var aerr *ActionError
	if errors.As(err, &aerr) {
		return aerr.Action
	}
	return nil
}
