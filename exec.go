package mkprebuilt

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
)

// CmdOp runs an external command. The command's exit status is the result of
// the operation.
type CmdOp struct {
	// CWD is the working directory. Empty means the directory of the
	// project.
	CWD  string
	Exe  string
	Args []string
	// If not empty, every line the command writes to stdout or stderr is
	// prefixed with OutPrefix.
	OutPrefix string
	Desc      string
}

var _ gomkore.Operation = (*CmdOp)(nil)

func (op *CmdOp) Describe(*Action, *Env) string {
	if op.Desc == "" {
		return op.String()
	}
	return op.Desc
}

func (op *CmdOp) String() string {
	var sb strings.Builder
	sb.WriteString(filepath.Base(op.Exe))
	for _, a := range op.Args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	return sb.String()
}

func (op *CmdOp) Do(tr *Trace, a *Action, env *Env) error {
	xenv, err := env.ExecEnv()
	if err != nil {
		tr.Warn(err.Error(), `action`, a.String())
	}
	cwd := op.CWD
	if cwd == "" {
		if cwd, err = a.Project().AbsPath("."); err != nil {
			return err
		}
	}
	cmd := exec.CommandContext(tr.Ctx(), op.Exe, op.Args...)
	cmd.Dir = cwd
	cmd.Env = xenv
	cmd.Stdin = env.In
	cmd.Stdout, cmd.Stderr = env.Out, env.Err
	if op.OutPrefix != "" {
		cmd.Stdout = gomkore.NewPrefixWriter(env.Out, op.OutPrefix)
		cmd.Stderr = gomkore.NewPrefixWriter(env.Err, op.OutPrefix)
	}
	tr.Debug("exec `cmd` in `dir`", `cmd`, cmd.String(), `dir`, cmd.Dir)
	if err = cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
