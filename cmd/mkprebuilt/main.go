// Command mkprebuilt builds library packages for the native and WebAssembly
// targets and deploys the archives into a prebuilt directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.fractalqb.de/fractalqb/mkprebuilt"
	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"github.com/spf13/cobra"
)

type options struct {
	config string
	strict bool
	dryRun bool
	trace  string
	report bool
}

func (o *options) loadConfig() (mkprebuilt.Config, error) {
	cfg := mkprebuilt.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = mkprebuilt.LoadConfig(o.config); err != nil {
			return cfg, err
		}
	}
	if o.strict {
		cfg.FailMode = gomkore.StopOnFailure
	}
	return cfg, cfg.Validate()
}

func (o *options) tracer(w io.Writer) (*mkprebuilt.WriteTracer, error) {
	tr := &mkprebuilt.WriteTracer{W: w, Log: gomkore.TraceWarn}
	return tr, tr.ParseLogFlag(o.trace)
}

func newRootCmd() *cobra.Command {
	var opts options
	rootCmd := &cobra.Command{
		Use:   "mkprebuilt",
		Short: "Build libraries and deploy them as prebuilt artifacts",
		Long: `mkprebuilt builds the configured packages for all targets the profiles
need, replaces the destination directory with the library archives,
dependency metadata and shared objects of each profile, and removes the
build output.

Without --config the FFXIVTools deployment is used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, &opts)
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.config, "config", "c", "", "TOML configuration file")
	pf.StringVarP(&opts.trace, "trace", "t", "", "trace level: off, warn, info or debug")
	rootCmd.Flags().BoolVar(&opts.strict, "strict", false, "stop at the first failing action")
	rootCmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "only show what would be done")
	rootCmd.Flags().BoolVar(&opts.report, "report", false, "print the builds and copied files")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "dot",
		Short: "Write the deployment graph in Graphviz format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			d, err := mkprebuilt.NewDeployment(cfg, nil)
			if err != nil {
				return err
			}
			_, err = d.Project.WriteDot(cmd.OutOrStdout())
			return err
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	})
	return rootCmd
}

func runSync(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	tracer, err := opts.tracer(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s := mkprebuilt.Syncer{Tracer: tracer, DryRun: opts.dryRun}
	rep, err := s.Run(cmd.Context(), cfg)
	if rep != nil && opts.report {
		dest, derr := cfg.DestRoot()
		if derr != nil {
			return derr
		}
		if werr := rep.WriteTable(cmd.OutOrStdout(), dest); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	for _, f := range rep.Failures {
		fmt.Fprintln(cmd.ErrOrStderr(), "mkprebuilt: failed:", f.Error())
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "mkprebuilt:", err)
		stop()
		os.Exit(1)
	}
}
