package mkprebuilt

import (
	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
)

// ProjectEd is used with [Edit].
type ProjectEd struct{ p *Project }

func (ed ProjectEd) Project() *Project { return ed.p }

func (ed ProjectEd) Goal(atf gomkore.Artefact) GoalEd {
	return GoalEd{mustRet(ed.p.Goal(atf))}
}

func (ed ProjectEd) NewAction(premises, results []GoalEd, op gomkore.Operation) *Action {
	return mustRet(ed.p.NewAction(goals(premises), goals(results), op))
}

// GoalEd is used with [Edit].
type GoalEd struct{ g *Goal }

func (ed GoalEd) Goal() *Goal { return ed.g }

func (ed GoalEd) Project() ProjectEd { return ProjectEd{ed.g.Project()} }

func (ed GoalEd) Artefact() gomkore.Artefact { return ed.g.Artefact }

// By adds an action with operation op that results in result.
func (result GoalEd) By(op gomkore.Operation, premises ...GoalEd) GoalEd {
	result.Project().NewAction(premises, []GoalEd{result}, op)
	return result
}

// ImpliedBy adds an implicit action that results in ed.
func (ed GoalEd) ImpliedBy(premises ...GoalEd) GoalEd {
	ed.Project().NewAction(premises, []GoalEd{ed}, nil)
	return ed
}

func goals(gs []GoalEd) []*Goal {
	var gls []*Goal
	if l := len(gs); l > 0 {
		gls = make([]*gomkore.Goal, l)
		for i, p := range gs {
			gls[i] = p.g
		}
	}
	return gls
}
