// Command fixedsoak drives every fixed-capacity container through a long
// seeded random workload and compares each result with a reference model.
//
//	fixedsoak --config soak.yaml --ops 5000000 --cpu 2 --db history.db
//	fixedsoak history --db history.db --limit 5
//
// Exit status is 1 when any container disagreed with its model, 2 on
// usage or I/O errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	rtdebug "runtime/debug"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"fixedcap/config"
	"fixedcap/control"
	"fixedcap/debug"
	"fixedcap/rt"
	"fixedcap/soak"
)

// errMismatch marks a completed run in which some container disagreed
// with its model.
var errMismatch = errors.New("container mismatch")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command line and maps the outcome to an exit status.
func run(args []string, stdout *os.File) int {
	root := newRootCmd(&options{}, stdout)
	root.SetArgs(args)
	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errMismatch):
		return 1
	default:
		debug.DropError("fixedsoak", err)
		return 2
	}
}

// options holds every flag of one command tree.
type options struct {
	cfgPath string
	seed    int64
	ops     int
	jsonOut string
	dbPath  string
	cpu     int
	lock    bool
	noGC    bool
	limit   int
}

func newRootCmd(o *options, stdout *os.File) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixedsoak",
		Short: "Soak-test the fixed-capacity containers against reference models",
		Long: `fixedsoak runs ringbuf, ilist, fixedmap, objpool and fixedqueue through
seeded random operation streams and reports every disagreement with a plain
reference model. Flags given on the command line override the config file.

Example:
  fixedsoak --config soak.yaml --seed 42
  fixedsoak --ops 10000000 --cpu 3 --mlock --nogc --db history.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			return runSoak(cfg, o.noGC, stdout)
		},
	}
	cmd.SetOut(stdout)

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.cfgPath, "config", "", "YAML config file (defaults apply when empty)")
	pf.StringVar(&o.dbPath, "db", "", "SQLite history database")

	f := cmd.Flags()
	f.Int64Var(&o.seed, "seed", 0, "base seed, 0 = time based")
	f.IntVar(&o.ops, "ops", 0, "operations per container")
	f.StringVar(&o.jsonOut, "json", "", "write the JSON report to this file")
	f.IntVar(&o.cpu, "cpu", -1, "pin the soak thread to this CPU")
	f.BoolVar(&o.lock, "mlock", false, "mlock container storage")
	f.BoolVar(&o.noGC, "nogc", false, "disable the garbage collector during the run")

	cmd.AddCommand(newHistoryCmd(o, stdout))
	return cmd
}

func newHistoryCmd(o *options, stdout *os.File) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent results from the history database",
		Long: `The history command prints the most recent results of every container
recorded in the SQLite history.

Example:
  fixedsoak history --db history.db
  fixedsoak history --db history.db --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			return printHistory(cfg.Report.DB, o.limit, stdout)
		},
	}
	cmd.Flags().IntVar(&o.limit, "limit", 10, "results per container")
	return cmd
}

// load reads the config file, then applies the flags that were set
// explicitly: they win over the file.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.cfgPath != "" {
		var err error
		if cfg, err = config.Load(o.cfgPath); err != nil {
			return nil, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Seed = o.seed
	}
	if changed("ops") {
		cfg.Ops = o.ops
	}
	if changed("json") {
		cfg.Report.JSON = o.jsonOut
	}
	if changed("db") {
		cfg.Report.DB = o.dbPath
	}
	if changed("cpu") {
		cfg.CPU = o.cpu
	}
	if changed("mlock") {
		cfg.LockMemory = o.lock
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchSignals turns SIGINT/SIGTERM into control.Shutdown until the
// returned stop is called.
func watchSignals() (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigs:
			debug.DropMessage("SIG", "stopping after current operation")
			control.Shutdown()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func runSoak(cfg *config.Config, noGC bool, stdout *os.File) error {
	defer watchSignals()()
	if cfg.TimeLimit.Duration > 0 {
		control.SetDeadline(time.Now().Add(cfg.TimeLimit.Duration))
	}

	runtime.LockOSThread()
	if cfg.CPU >= 0 {
		if err := rt.PinCPU(cfg.CPU); err != nil {
			debug.DropError("fixedsoak: pin cpu", err)
		}
	}
	if noGC {
		old := rtdebug.SetGCPercent(-1)
		defer rtdebug.SetGCPercent(old)
	}

	rep := soak.Run(cfg)
	runtime.UnlockOSThread()

	if err := emit(rep, cfg, stdout); err != nil {
		return err
	}
	if rep.Failed() {
		return errMismatch
	}
	return nil
}

// emit writes the report to every configured sink.  A terminal gets a
// table; anything else gets JSON.
func emit(rep *soak.Report, cfg *config.Config, stdout *os.File) error {
	data, err := rep.JSON()
	if err != nil {
		return err
	}
	if isatty.IsTerminal(stdout.Fd()) || isatty.IsCygwinTerminal(stdout.Fd()) {
		writeTable(stdout, rep.Results)
	} else if _, err := fmt.Fprintf(stdout, "%s\n", data); err != nil {
		return err
	}

	if cfg.Report.JSON != "" {
		if err := os.WriteFile(cfg.Report.JSON, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", cfg.Report.JSON, err)
		}
	}
	if cfg.Report.DB != "" {
		store, err := soak.OpenStore(cfg.Report.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Record(ctx, rep); err != nil {
			return err
		}
	}
	return nil
}

func printHistory(path string, limit int, stdout io.Writer) error {
	if path == "" {
		return errors.New("history needs --db or report.db in the config")
	}
	if limit <= 0 {
		return fmt.Errorf("--limit must be > 0, got %d", limit)
	}
	store, err := soak.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var all []soak.Result
	for _, name := range []string{soak.Ring, soak.List, soak.Map, soak.Pool, soak.Queue} {
		res, err := store.Recent(context.Background(), name, limit)
		if err != nil {
			return err
		}
		all = append(all, res...)
	}
	writeTable(stdout, all)
	return nil
}

func writeTable(w io.Writer, results []soak.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTAINER\tSEED\tOPS\tMISMATCHES\tELAPSED\tSTATUS")
	for _, r := range results {
		status := "ok"
		switch {
		case !r.OK():
			status = "FAIL " + r.FirstMismatch
		case r.Interrupted:
			status = "interrupted"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			r.Container, r.Seed, r.Ops, r.Mismatches,
			time.Duration(r.ElapsedNS).Round(time.Microsecond), status)
	}
	tw.Flush()
}
