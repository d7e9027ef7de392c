package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdforce/internal/analysis"
	"github.com/san-kum/mdforce/internal/config"
	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/experiment"
	"github.com/san-kum/mdforce/internal/export"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/metrics"
	"github.com/san-kum/mdforce/internal/optim"
	"github.com/san-kum/mdforce/internal/particles"
	"github.com/san-kum/mdforce/internal/potential"
	"github.com/san-kum/mdforce/internal/server"
	"github.com/san-kum/mdforce/internal/sim"
	"github.com/san-kum/mdforce/internal/storage"
	"github.com/san-kum/mdforce/internal/telemetry"
	"github.com/san-kum/mdforce/internal/tui"
	"github.com/san-kum/mdforce/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	method     string
	workers    int
	steps      int
	dt         float64
	cutoff     float64
	count      int
	seed       int64
	replicas   int
	jsonOut    bool
	noSave     bool
	fromRun    string
	sizes      []int
	rdfBins    int
	tuneCuts   []float64
	tuneWork   []int
	outFile    string
	axes       []int
	slab       []float64
	reps       int
	frameRate  int
	perFrame   int
	addr       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mdforce",
		Short:        "short-range pair forces with linked cell lists",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdforce", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [potential]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().IntVar(&replicas, "replicas", 1, "independent replicas with consecutive seeds")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	checkCmd := &cobra.Command{
		Use:   "check [potential]",
		Short: "compare cell-list forces against brute force",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkForces,
	}
	addSystemFlags(checkCmd)
	checkCmd.Flags().StringVar(&fromRun, "from", "", "check the final state of a stored run")

	benchCmd := &cobra.Command{
		Use:   "bench [potential]",
		Short: "time force evaluation against system size",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchForces,
	}
	addSystemFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&sizes, "sizes", []int{250, 500, 1000, 2000, 4000}, "particle counts at constant density")
	benchCmd.Flags().IntVar(&reps, "reps", 5, "evaluations per size and method")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "energy fluctuations, spectrum and g(r) of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&rdfBins, "bins", 50, "g(r) histogram bins")

	tuneCmd := &cobra.Command{
		Use:   "tune [potential]",
		Short: "grid search workers and cutoff for the fastest force evaluation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneForces,
	}
	addSystemFlags(tuneCmd)
	tuneCmd.Flags().IntSliceVar(&tuneWork, "try-workers", []int{1, 2, 4, 8}, "worker counts to try")
	tuneCmd.Flags().Float64SliceVar(&tuneCuts, "try-cutoffs", nil, "cutoffs to try (default: the configured one)")
	tuneCmd.Flags().IntVar(&reps, "reps", 5, "evaluations per grid point")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "write the final state of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	snapshotCmd.Flags().IntSliceVar(&axes, "axes", []int{0, 1}, "projection axes")
	snapshotCmd.Flags().Float64SliceVar(&slab, "slab", nil, "only draw particles with depth in (lo,hi) along the remaining axis")

	presetsCmd := &cobra.Command{
		Use:   "presets [potential]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [potential]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate")
	liveCmd.Flags().IntVar(&perFrame, "per-frame", 5, "steps per frame")

	serveCmd := &cobra.Command{
		Use:   "serve [potential]",
		Short: "serve stored runs and prometheus metrics over HTTP",
		Long:  "serve stored runs and prometheus metrics over HTTP. With --preset or --config a simulation runs in the background and feeds the metrics.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	addSystemFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(runCmd, checkCmd, benchCmd, listCmd, plotCmd, analyzeCmd, tuneCmd, snapshotCmd, presetsCmd, liveCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&method, "method", "auto", "force method: auto, cell-list, brute-force")
	cmd.Flags().IntVar(&workers, "workers", 1, "force workers")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "integration steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&cutoff, "cutoff", config.DefaultCutoff, "interaction cutoff")
	cmd.Flags().IntVar(&count, "n", config.DefaultCount, "particle count (single species only)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	pot := "yukawa"
	if len(args) > 0 {
		pot = args[0]
	}

	cfg := config.DefaultFor(pot)
	if preset != "" {
		cfg = config.GetPreset(pot, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(pot))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("cutoff") {
		cfg.Cutoff = cutoff
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("n") {
		if len(cfg.Species) != 1 {
			return nil, fmt.Errorf("--n needs a single-species config, got %d species", len(cfg.Species))
		}
		cfg.Species[0].Count = count
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if replicas > 1 {
		return runEnsemble(ctx, cfg)
	}

	exp, err := experiment.Build(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("running %s: %d particles, %s, %s\n", cfg.Potential, exp.Particles.Len(), exp.Engine.Method(), cfg.BoxValue())
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	meta := exp.Metadata(result)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		if meta.ID, err = st.Save(meta, result, exp.Particles); err != nil {
			return err
		}
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, meta, result)
	}

	fields := []viz.Field{
		viz.F("run id", "%s", meta.ID),
		viz.F("method", "%s", meta.Method),
		viz.F("cells", "%v", meta.Cells),
		viz.F("steps", "%d", result.StepsTaken),
		viz.F("elapsed", "%v", result.Elapsed.Round(time.Millisecond)),
		viz.F("energy drift", "%.3e", result.EnergyDrift),
		viz.F("msd", "%.4g", exp.MeanSquaredDisplacement()),
		viz.F("pairs/step", "%d", result.Last.Pairs),
		viz.F("interactions", "%d", result.Last.Interactions),
	}
	for _, name := range sortedKeys(result.Metrics) {
		fields = append(fields, viz.F(name, "%.6g", result.Metrics[name]))
	}
	fmt.Println(viz.Summary("run complete", fields))
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("running %d replicas of %s\n", replicas, cfg.Potential)
	ens := sim.NewEnsemble(experiment.Replica(cfg), replicas, cfg.Seed)
	rc := sim.RunConfig{Steps: cfg.Steps, Dt: cfg.Dt, DumpEvery: cfg.DumpEvery, ValidateState: true}

	start := time.Now()
	results, err := ens.Run(ctx, rc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tTEMP\tDRIFT\tELAPSED")
	var temps []float64
	for i, r := range results {
		temps = append(temps, r.Metrics["temperature"])
		fmt.Fprintf(w, "%d\t%d\t%.5f\t%.3e\t%v\n",
			cfg.Seed+int64(i), r.StepsTaken, r.Metrics["temperature"], r.EnergyDrift, r.Elapsed.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fl := analysis.Fluctuations(temps)
	fmt.Printf("\ntemperature %.5f ± %.5f over %d replicas in %v\n", fl.Mean, fl.Std, len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

func checkForces(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	var p *dynamo.Particles
	if fromRun != "" {
		st := storage.New(dataDir)
		meta, err := st.Load(fromRun)
		if err != nil {
			return err
		}
		if p, err = st.LoadFinal(fromRun); err != nil {
			return err
		}
		cfg.Potential = meta.Potential
		cfg.Box = meta.Box
		cfg.Cutoff = meta.Cutoff
	} else {
		exp, err := experiment.Build(cfg, cfg.Seed, experiment.WithoutMetrics())
		if err != nil {
			return err
		}
		p = exp.Particles
	}

	fc, err := cfg.ForceConfig()
	if err != nil {
		return err
	}
	pot, err := cfg.PairPotential()
	if err != nil {
		return err
	}

	ref := p.Clone()
	bf, err := force.BruteForce(fc, pot, ref)
	if err != nil {
		return err
	}
	cl, err := force.CellList(fc, pot, p)
	if err != nil {
		return fmt.Errorf("cell list unavailable for %s with cutoff %g: %w", fc.Box, fc.Cutoff, err)
	}

	var maxDiff, maxAcc float64
	for k := range p.Acc {
		maxDiff = math.Max(maxDiff, math.Abs(p.Acc[k]-ref.Acc[k]))
		maxAcc = math.Max(maxAcc, math.Abs(ref.Acc[k]))
	}
	rel := 0.0
	if maxAcc > 0 {
		rel = maxDiff / maxAcc
	}

	g := force.NewCellGrid(fc.Box, fc.Cutoff)
	if err := g.Build(p.Pos); err != nil {
		return err
	}
	busiest := 0
	for c := 0; c < g.NumCells(); c++ {
		busiest = max(busiest, len(g.Members(c)))
	}
	net := metrics.NetForce(p)

	fmt.Println(viz.Summary("cell list vs brute force", []viz.Field{
		viz.F("particles", "%d", p.Len()),
		viz.F("cells", "%v", cl.Cells),
		viz.F("pairs tested", "%d vs %d", cl.Pairs, bf.Pairs),
		viz.F("interactions", "%d vs %d", cl.Interactions, bf.Interactions),
		viz.F("energy", "%.10g vs %.10g", cl.Energy, bf.Energy),
		viz.F("max |Δa|", "%.3e (rel %.3e)", maxDiff, rel),
		viz.F("net force", "%.3e (rel %.3e)", net, net/math.Max(metrics.ForceScale(p), math.SmallestNonzeroFloat64)),
		viz.F("max per cell", "%d (mean %.2f)", busiest, float64(p.Len())/float64(g.NumCells())),
		viz.F("speedup", "%.1fx", bf.Elapsed.Seconds()/math.Max(cl.Elapsed.Seconds(), 1e-9)),
	}))

	if cl.Interactions != bf.Interactions || rel > 1e-9 {
		return fmt.Errorf("cell list and brute force disagree")
	}
	return nil
}

func benchForces(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Species) != 1 {
		return fmt.Errorf("bench needs a single-species config")
	}

	density := float64(cfg.N()) / cfg.BoxValue().Volume()
	fmt.Printf("benchmarking %s at density %.3f, cutoff %g\n\n", cfg.Potential, density, cfg.Cutoff)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tBOX\tCELLS\tCELL-LIST\tBRUTE-FORCE\tSPEEDUP")

	for _, n := range sizes {
		c := cfg.Clone()
		c.Species[0].Count = n
		l := math.Cbrt(float64(n) / density)
		c.Box = [3]float64{l, l, l}

		exp, err := experiment.Build(c, c.Seed, experiment.WithoutMetrics())
		if err != nil {
			return err
		}
		fc, _ := c.ForceConfig()
		pot, _ := c.PairPotential()

		brute, err := timeEval(reps, func() (force.Result, error) { return force.BruteForce(fc, pot, exp.Particles) })
		if err != nil {
			return err
		}
		cells, cl := "-", "n/a"
		speedup := "-"
		if eng, err := force.New(fc, pot, force.WithMethod(force.MethodCellList), force.WithWorkers(c.Workers)); err == nil {
			d, err := timeEval(reps, func() (force.Result, error) { return eng.Compute(exp.Particles) })
			if err != nil {
				return err
			}
			res, _ := eng.Compute(exp.Particles)
			cells, cl = fmt.Sprint(res.Cells), d.String()
			speedup = fmt.Sprintf("%.1fx", brute.Seconds()/d.Seconds())
		}
		fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\t%v\t%s\n", n, l, cells, cl, brute, speedup)
	}
	return w.Flush()
}

func timeEval(n int, eval func() (force.Result, error)) (time.Duration, error) {
	if n < 1 {
		n = 1
	}
	start := time.Now()
	for i := 0; i < n; i++ {
		if _, err := eval(); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(n), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOTENTIAL\tMETHOD\tTIME\tN\tSTEPS\tDT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.4f\t%.2e\n",
			run.ID,
			run.Potential,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Dt,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(series.Total) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(viz.Summary(meta.ID, []viz.Field{
		viz.F("potential", "%s", meta.Potential),
		viz.F("method", "%s", meta.Method),
		viz.F("particles", "%d", meta.Particles),
		viz.F("samples", "%d", len(series.Total)),
		viz.F("energy drift", "%.3e", meta.EnergyDrift),
	}))
	fmt.Println()
	fmt.Println(viz.PlotEnergies(series.Potential, series.Kinetic, series.Total, 12))
	fmt.Println(viz.Separator(80))
	fmt.Println(viz.Plot(series.Total, "total energy", 8))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}

	total := uniformSamples(series)
	fl := analysis.Fluctuations(series.Total)
	fields := []viz.Field{
		viz.F("samples", "%d", len(series.Total)),
		viz.F("mean energy", "%.6g", fl.Mean),
		viz.F("std energy", "%.3e (rel %.3e)", fl.Std, fl.Relative),
	}
	if len(total) > 1 {
		interval := series.Times[1] - series.Times[0]
		if spectrum, err := analysis.EnergySpectrum(total, interval); err == nil {
			peak := spectrum.Peak()
			fields = append(fields, viz.F("spectral peak", "f=%.4g power=%.3e", peak.Freq, peak.Power))
		}
		ac := analysis.Autocorrelation(total, 1)
		fields = append(fields, viz.F("lag-1 autocorr", "%.4f", ac[len(ac)-1]))
	}

	final, err := st.LoadFinal(runID)
	var rdf analysis.RDF
	if err == nil {
		box := dynamo.Box{L: meta.Box}
		if rdf, err = analysis.RadialDistribution(final, box, 0.5*box.Min(), rdfBins); err == nil {
			r, h := rdf.Peak()
			fields = append(fields,
				viz.F("g(r) contact", "%.3f", rdf.Contact()),
				viz.F("g(r) peak", "%.3f at r=%.3f", h, r))
		}
	}

	fmt.Println(viz.Summary(meta.ID, fields))
	if len(rdf.G) > 0 {
		fmt.Println()
		fmt.Println(viz.Plot(rdf.G, "g(r)", 10))
	}
	return nil
}

// uniformSamples drops a trailing sample that breaks the dump interval.
func uniformSamples(s storage.Series) []float64 {
	n := len(s.Times)
	if n < 3 {
		return s.Total
	}
	first := s.Times[1] - s.Times[0]
	last := s.Times[n-1] - s.Times[n-2]
	if math.Abs(last-first) > 1e-9*math.Abs(first) {
		return s.Total[:n-1]
	}
	return s.Total
}

func tuneForces(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	cuts := tuneCuts
	if len(cuts) == 0 {
		cuts = []float64{cfg.Cutoff}
	}
	trials, err := optim.NewGridSearch(reps, optim.Workers(tuneWork...), optim.Cutoff(cuts...)).Search(ctx, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tCUTOFF\tPER EVAL\tNOTE")
	for _, t := range trials {
		note := ""
		if t.Err != nil {
			note = t.Err.Error()
		}
		fmt.Fprintf(w, "%.0f\t%g\t%v\t%s\n", t.Params["workers"], t.Params["cutoff"], t.PerEval, note)
	}
	return w.Flush()
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if len(axes) != 2 {
		return fmt.Errorf("--axes needs two values")
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	if len(slab) > 0 {
		if len(slab) != 2 || axes[0] == axes[1] || min(axes[0], axes[1]) < 0 || max(axes[0], axes[1]) >= dynamo.Dim {
			return fmt.Errorf("--slab needs lo,hi and two distinct axes in [0, %d)", dynamo.Dim)
		}
		depth := dynamo.Dim - axes[0] - axes[1]
		lo := [dynamo.Dim]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
		hi := [dynamo.Dim]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
		lo[depth], hi[depth] = slab[0], slab[1]
		final = particles.FilterDomain(final, lo, hi)
		fmt.Printf("%d particles in slab\n", final.Len())
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.SnapshotSVG(f, final, dynamo.Box{L: meta.Box}, axes[0], axes[1], 800); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	series, err := st.LoadEnergy(runID)
	if err != nil || len(series.Total) < 2 {
		return nil
	}
	tracePath := strings.TrimSuffix(path, ".svg") + "_energy.svg"
	tf, err := os.Create(tracePath)
	if err != nil {
		return err
	}
	defer tf.Close()
	if err := export.TraceSVG(tf, series.Times, series.Total, 800, 300, "#00ff88"); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", tracePath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	pots := potential.Default.List()
	if len(args) > 0 {
		pots = args
	}
	for _, pot := range pots {
		presets := config.ListPresets(pot)
		if len(presets) == 0 {
			fmt.Printf("no presets for potential: %s\n", pot)
			continue
		}
		fmt.Printf("presets for %s:\n", pot)
		for _, name := range presets {
			p := config.GetPreset(pot, name)
			fmt.Printf("  %-10s N=%-5d box=%v cutoff=%g\n", name, p.N(), p.Box, p.Cutoff)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.Build(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	m := tui.NewModel(exp.Integrator, exp.Particles, tui.Config{
		Title:         fmt.Sprintf("%s · %d particles · %s", cfg.Potential, exp.Particles.Len(), exp.Engine.Method()),
		Box:           cfg.BoxValue(),
		Steps:         cfg.Steps,
		Dt:            cfg.Dt,
		KB:            cfg.KB,
		StepsPerFrame: perFrame,
		FPS:           frameRate,
	})
	final, err := tui.Run(m)
	if err != nil {
		return err
	}
	fmt.Printf("stopped at step %d/%d\n", final.Step(), cfg.Steps)
	return final.Err()
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rec := telemetry.New()
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if preset != "" || configFile != "" {
		cfg, err := resolveConfig(cmd, args)
		if err != nil {
			return err
		}
		exp, err := experiment.Build(cfg, cfg.Seed, experiment.WithRecorder(rec), experiment.WithObserver(rec))
		if err != nil {
			return err
		}
		go func() {
			result, err := exp.Run(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "background run: %v\n", err)
				return
			}
			if _, err := st.Save(exp.Metadata(result), result, exp.Particles); err != nil {
				fmt.Fprintf(os.Stderr, "saving background run: %v\n", err)
			}
		}()
	}

	router := server.NewRouter(server.RouterConfig{Runs: st, Metrics: rec.Handler()})
	return server.Serve(ctx, addr, router)
}
