package mkprebuilt

import (
	"strings"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
)

// Runner runs the command of a [BuildOp].
type Runner interface {
	Run(tr *Trace, cmd *CmdOp, a *Action, env *Env) error
}

type RunnerFunc func(tr *Trace, cmd *CmdOp, a *Action, env *Env) error

func (f RunnerFunc) Run(tr *Trace, cmd *CmdOp, a *Action, env *Env) error {
	return f(tr, cmd, a, env)
}

// ExecRunner runs commands as processes of the OS.
var ExecRunner Runner = RunnerFunc(func(tr *Trace, cmd *CmdOp, a *Action, env *Env) error {
	return cmd.Do(tr, a, env)
})

// BuildOp builds Packages for one Target with the cargo-like build tool Tool.
// The output goes to TargetDir.
type BuildOp struct {
	Tool      string
	Packages  []string
	Target    Target
	TargetDir string
	Runner    Runner
}

var _ gomkore.Operation = (*BuildOp)(nil)

// Args returns the command line arguments for Tool.
func (op *BuildOp) Args() []string {
	args := []string{"build"}
	for _, pkg := range op.Packages {
		args = append(args, "-p", pkg)
	}
	args = append(args, op.Target.args()...)
	return append(args, "--target-dir", op.TargetDir)
}

func (op *BuildOp) Command() *CmdOp {
	return &CmdOp{
		Exe:       op.Tool,
		Args:      op.Args(),
		OutPrefix: "[" + op.Target.String() + "] ",
	}
}

func (op *BuildOp) Describe(*Action, *Env) string {
	return op.Tool + " " + strings.Join(op.Args(), " ")
}

func (op *BuildOp) Do(tr *Trace, a *Action, env *Env) error {
	tr.Info("build `target`", `target`, op.Target.String())
	run := op.Runner
	if run == nil {
		run = ExecRunner
	}
	return run.Run(tr, op.Command(), a, env)
}
