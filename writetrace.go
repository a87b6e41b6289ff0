package mkprebuilt

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"git.fractalqb.de/fractalqb/sllm/v3"
)

// WriteTracer writes trace events as lines of text to W.
type WriteTracer struct {
	W   io.Writer
	Log gomkore.TraceLog
}

var _ gomkore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() gomkore.Tracer {
	return &WriteTracer{W: os.Stderr, Log: gomkore.TraceWarn}
}

func (tr *WriteTracer) ParseLogFlag(f string) error {
	switch f {
	case "":
		return nil
	case "off":
		tr.Log = 0
	case "warn", "w":
		tr.Log = gomkore.TraceWarn
	case "info", "i":
		tr.Log = gomkore.TraceWarn | gomkore.TraceInfo
	case "debug", "d":
		tr.Log = gomkore.TraceWarn | gomkore.TraceInfo | gomkore.TraceDebug
	default:
		return fmt.Errorf("write tracer: illegal log flag '%s'", f)
	}
	return nil
}

func (tr *WriteTracer) Debug(t *gomkore.Trace, msg string, args ...any) {
	if tr.Log&gomkore.TraceDebug == 0 {
		return
	}
	tr.msg(t, "DEBUG", msg, args)
}

func (tr *WriteTracer) Info(t *gomkore.Trace, msg string, args ...any) {
	if tr.Log&(gomkore.TraceInfo|gomkore.TraceDebug) == 0 {
		return
	}
	tr.msg(t, "INFO ", msg, args)
}

func (tr *WriteTracer) Warn(t *gomkore.Trace, msg string, args ...any) {
	if tr.Log == 0 {
		return
	}
	tr.msg(t, "WARN ", msg, args)
}

func (tr *WriteTracer) msg(t *gomkore.Trace, level, msg string, args []any) {
	fmt.Fprintf(tr.W, "%d@%s\t  %s ", t.Build(), t.TopTag(), level)
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

func (tr *WriteTracer) StartProject(t *gomkore.Trace, p *gomkore.Project, activity string) {
	if !tr.logActions() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t{ %s project '%s' in %s\n",
		t.Build(),
		t.TopTag(),
		activity,
		p,
		p.Dir,
	)
}

func (tr *WriteTracer) DoneProject(t *gomkore.Trace, p *gomkore.Project, activity string, dt time.Duration) {
	if !tr.logActions() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t} %s project '%s' took %s\n",
		t.Build(),
		t.TopTag(),
		activity,
		p,
		dt,
	)
}

func (tr *WriteTracer) logActions() bool {
	return tr.Log&(gomkore.TraceInfo|gomkore.TraceDebug) != 0
}

func (tr *WriteTracer) CheckGoal(t *gomkore.Trace, g *gomkore.Goal) {
	if tr.Log&gomkore.TraceDebug == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t? %s %s\n",
		t.Build(),
		t.TopTag(),
		g,
		t.Path(),
	)
}

func (tr *WriteTracer) RunAction(t *gomkore.Trace, a *gomkore.Action) {
	if tr.logActions() {
		fmt.Fprintf(tr.W, "%d@%s\t  run action (%s)\n", t.Build(), t.TopTag(), a)
	}
}

func (tr *WriteTracer) RunImplicitAction(t *gomkore.Trace, _ *gomkore.Action) {
	if tr.Log&gomkore.TraceDebug != 0 {
		fmt.Fprintf(tr.W, "%d@%s\t  implicit action\n", t.Build(), t.TopTag())
	}
}

// DryRunAction is always written, so a dry run shows what it would do.
func (tr *WriteTracer) DryRunAction(t *gomkore.Trace, a *gomkore.Action) {
	fmt.Fprintf(tr.W, "%d@%s\t  would run (%s)\n", t.Build(), t.TopTag(), a)
}

func (tr *WriteTracer) ActionFailed(t *gomkore.Trace, a *gomkore.Action, err error) {
	if tr.Log == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t! action (%s) failed: %s\n",
		t.Build(),
		t.TopTag(),
		a,
		err,
	)
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s'", n)
}
