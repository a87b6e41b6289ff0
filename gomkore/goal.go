package gomkore

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// A Goal is something you want to achieve in your [Project]. Each goal is
// associated with an [Artefact] – generally something tangible that is
// considered available when the goal is achieved. A special case is the
// [Abstract] artefact that simply provides a name for abstract goals.
//
// Goals are achieved through actions ([Action]). A goal can be the result of
// several actions. They are run in the order they were added to the project.
// On the other hand, a goal can also be the premise for one or more actions.
// Such dependent actions are not run before the goal is reached.
type Goal struct {
	Artefact Artefact

	prj       *Project
	resultOf  []*Action
	premiseOf []*Action

	sync.Mutex
	lastBID BuildID
}

func (g *Goal) Project() *Project { return g.prj }

func (g *Goal) Name() string { return g.Artefact.Name(g.Project()) }

// ResultOf returns the actions that result in this goal.
func (g *Goal) ResultOf() []*Action { return g.resultOf }

// PremiseOf returns the actions that depend on g.
func (g *Goal) PremiseOf() []*Action { return g.premiseOf }

func (g *Goal) IsAbstract() bool {
	_, ok := g.Artefact.(Abstract)
	return ok
}

func (g *Goal) String() string {
	return fmt.Sprintf("[%s]%s", g.Name(), g.artefactType())
}

// LockBuild locks g once for the current build of g's project. If g was already
// locked for the build 0 is returned and g is not locked.
func (g *Goal) LockBuild() BuildID {
	g.Mutex.Lock()
	if plb := g.Project().lastBuild; g.lastBID < plb {
		g.lastBID = plb
		return plb
	}
	g.Mutex.Unlock()
	return 0
}

func (g *Goal) artefactType() string {
	return reflect.Indirect(reflect.ValueOf(g.Artefact)).Type().Name()
}

func (g *Goal) index() int { return slices.Index(g.prj.order, g) }

func (g *Goal) actionIndex(a *Action) int { return slices.Index(g.resultOf, a) }
