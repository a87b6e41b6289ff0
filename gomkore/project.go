package gomkore

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type BuildID = uint64

// Artefact represents the tangible outcome of a [Goal] being reached. A special
// case is the [Abstract] artefact.
type Artefact interface {
	// Name returns the name of the artefact that must be unique in the Project.
	Name(in *Project) string
}

type Abstract string

var _ Artefact = Abstract("")

func (a Abstract) Name(*Project) string { return string(a) }

// Project is the set of goals and actions that make up a deployment. Dir is
// the directory relative paths of artefacts are resolved against.
type Project struct {
	Dir string

	sync.Mutex

	goals     map[string]*Goal
	order     []*Goal
	actions   []*Action
	lastBuild BuildID
}

func NewProject(dir string) *Project {
	if dir == "" {
		dir = "."
	}
	return &Project{
		Dir:   filepath.Clean(dir),
		goals: make(map[string]*Goal),
	}
}

// Goal returns the goal for artefact atf. If prj has no goal with atf's name
// yet, a new one is created.
func (prj *Project) Goal(atf Artefact) (*Goal, error) {
	if atf == nil {
		atf = Abstract(fmt.Sprintf("artefact-%d", len(prj.goals)))
	}
	name := atf.Name(prj)
	if name == "" {
		return nil, fmt.Errorf("artefact %T without name in project %s", atf, prj)
	}
	if g := prj.goals[name]; g != nil {
		return g, nil
	}
	g := &Goal{
		Artefact: atf,
		prj:      prj,
	}
	prj.goals[name] = g
	prj.order = append(prj.order, g)
	return g, nil
}

// Goals appends all goals of prj to addTo in the order they were created.
func (prj *Project) Goals(addTo []*Goal) []*Goal {
	return append(addTo, prj.order...)
}

func (prj *Project) FindGoal(name string) *Goal {
	return prj.goals[name]
}

// Actions returns all actions of prj in the order they were created. The
// index of an action in the result is its [Action.ID].
func (prj *Project) Actions() []*Action { return prj.actions }

func (prj *Project) Name(in *Project) string {
	if in == nil || in == prj {
		return prj.String()
	}
	n, _ := in.RelPath(prj.Dir)
	return n
}

func (prj *Project) String() string {
	tmp := prj.Dir
	if tmp == "" || tmp == "." {
		if abs, err := filepath.Abs(tmp); err == nil {
			tmp = abs
		}
	}
	return filepath.Base(tmp)
}

// AbsPath resolves p against the project directory. Absolute paths are only
// cleaned.
func (prj *Project) AbsPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Abs(filepath.Join(prj.Dir, p))
}

// RelPath returns p relative to the project directory. Relative paths are
// considered relative to the project directory already.
func (prj *Project) RelPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir, err := filepath.Abs(prj.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Rel(dir, p)
}

// Leafs returns the goals that are no premise of any action, i.e. the final
// goals of the project.
func (prj *Project) Leafs() (ls []*Goal) {
	for _, g := range prj.order {
		if len(g.premiseOf) == 0 {
			ls = append(ls, g)
		}
	}
	return ls
}

// NewAction creates a new [Action] in project prj. There must be at least one
// result. All premises and results must belong to the same project prj. An
// action with a nil op is implicit.
func (prj *Project) NewAction(premises, results []*Goal, op Operation) (*Action, error) {
	if len(results) == 0 {
		desc := "implicit"
		if op != nil {
			desc = op.Describe(nil, nil)
		}
		return nil, fmt.Errorf("creating action %s without result", desc)
	}
	if err := prj.consistentPrj(premises, results); err != nil {
		return nil, err
	}
	for _, r := range results {
		for _, p := range premises {
			if p == r {
				return nil, fmt.Errorf("goal %s is premise of its own action", r)
			}
		}
	}
	a := &Action{
		Op:       op,
		prj:      prj,
		id:       len(prj.actions),
		premises: premises,
		results:  results,
	}
	for _, p := range premises {
		p.premiseOf = append(p.premiseOf, a)
	}
	for _, r := range results {
		r.resultOf = append(r.resultOf, a)
	}
	prj.actions = append(prj.actions, a)
	return a, nil
}

// LockBuild locks prj and starts a new build. The caller must unlock prj when
// the build is done.
func (prj *Project) LockBuild() BuildID {
	prj.Lock()
	prj.lastBuild++
	return prj.lastBuild
}

// Build returns the ID of the current or last build.
func (prj *Project) Build() BuildID { return prj.lastBuild }

func escDotID(id string) string {
	return strings.ReplaceAll(id, "\"", "\\\"")
}

// record labels also need the field syntax escaped
var dotRecordEsc = strings.NewReplacer(
	`"`, `\"`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`<`, `\<`,
	`>`, `\>`,
)

// WriteDot writes the goal graph of prj in Graphviz format to w.
func (prj *Project) WriteDot(w io.Writer) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			switch p := p.(type) {
			case error:
				err = p
			default:
				panic(p)
			}
		}
	}()
	akku := func(p int, err error) {
		n += p
		if err != nil {
			panic(err)
		}
	}
	akku(fmt.Fprintf(w, "digraph \"%s\" {\n\trankdir=\"LR\"\n", escDotID(prj.Name(nil))))
	for _, g := range prj.order {
		var style string
		if g.IsAbstract() {
			if len(g.resultOf) == 0 || len(g.premiseOf) == 0 {
				style = ",style=\"dashed,bold\""
			} else {
				style = ",style=dashed"
			}
		} else if len(g.resultOf) == 0 || len(g.premiseOf) == 0 {
			style = ",style=bold"
		}
		akku(fmt.Fprintf(w, "\t\"g%d\" [shape=record%s,label=\"{%s|%s}\"];\n",
			g.index(),
			style,
			g.artefactType(),
			dotRecordEsc.Replace(g.Name()),
		))
	}
	for _, a := range prj.actions {
		if a.Op == nil {
			akku(fmt.Fprintf(w, "\t\"a%d\" [shape=point];\n", a.id))
		} else if len(a.premises) == 0 {
			akku(fmt.Fprintf(w,
				"\t\"a%d\" [shape=box,style=\"rounded,bold\",label=\"%s\"];\n",
				a.id,
				escDotID(a.String()),
			))
		} else {
			akku(fmt.Fprintf(w,
				"\t\"a%d\" [shape=box,style=rounded,label=\"%s\"];\n",
				a.id,
				escDotID(a.String()),
			))
		}
		for _, p := range a.premises {
			akku(fmt.Fprintf(w, "\t\"g%d\" -> \"a%d\";\n", p.index(), a.id))
		}
		for _, r := range a.results {
			if len(r.resultOf) > 1 {
				akku(fmt.Fprintf(w, "\t\"a%d\" -> \"g%d\" [label=%d];\n",
					a.id,
					r.index(),
					r.actionIndex(a)+1,
				))
			} else {
				akku(fmt.Fprintf(w, "\t\"a%d\" -> \"g%d\";\n", a.id, r.index()))
			}
		}
	}
	akku(fmt.Fprintln(w, "}"))
	return
}

func (prj *Project) consistentPrj(premises, results []*Goal) error {
	for _, g := range premises {
		if p := g.Project(); p != prj {
			return fmt.Errorf("premise '%s' not in project '%s'",
				p.String(),
				prj.String(),
			)
		}
	}
	for _, g := range results {
		if p := g.Project(); p != prj {
			return fmt.Errorf("result '%s' not in project '%s'",
				p.String(),
				prj.String(),
			)
		}
	}
	return nil
}
