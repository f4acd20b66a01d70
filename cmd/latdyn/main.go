package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aredko/latdyn/internal/analysis"
	"github.com/aredko/latdyn/internal/config"
	"github.com/aredko/latdyn/internal/dataset"
	"github.com/aredko/latdyn/internal/metrics"
	"github.com/aredko/latdyn/internal/model"
	"github.com/aredko/latdyn/internal/rollout"
	"github.com/aredko/latdyn/internal/store"
	"github.com/aredko/latdyn/internal/tui"
	"github.com/aredko/latdyn/internal/viz"
)

var log = logrus.New()

var (
	dataDir    string
	configFile string
	preset     string
	kind       string
	datasetArg string
	dt         float64
	duration   float64
	method     string
	seed       int64
	latent     int
	gcl        string
	activation string
	outFile    string
	verbose    bool
	xAxis      int
	yAxis      int
)

func main() {
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd := &cobra.Command{
		Use:   "latdyn",
		Short: "latent dynamics model lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".latdyn", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"rollout"},
		Short:   "roll out a model against a dataset",
		RunE:    runRollout,
	}
	addRunFlags(runCmd)

	forwardCmd := &cobra.Command{
		Use:   "forward",
		Short: "single forward pass, report shapes and reconstruction error",
		RunE:  runForward,
	}
	addRunFlags(forwardCmd)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "print model architecture",
		RunE:  showInfo,
	}
	addRunFlags(infoCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "roll out with live playback",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "roll out and export the full result as JSON",
		RunE:  exportJSON,
	}
	addRunFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets for a model kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for kind: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default run config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	rootCmd.AddCommand(runCmd, forwardCmd, infoCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, presetsCmd, initCmd, analyzeCmd, phaseCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name")
	cmd.Flags().StringVar(&kind, "kind", config.DefaultKind, "model kind (ldm, gldm)")
	cmd.Flags().StringVar(&datasetArg, "dataset", config.DefaultDataset, "dataset name")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "prediction timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "prediction duration")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "ode solver")
	cmd.Flags().Int64Var(&seed, "seed", 0, "weight init seed")
	cmd.Flags().IntVar(&latent, "latent", 0, "latent dimension (0 for default)")
	cmd.Flags().StringVar(&gcl, "gcl", "", "graph conv layer (gldm)")
	cmd.Flags().StringVar(&activation, "activation", "", "activation function")
}

// buildConfig resolves preset, config file, and flags into a run
// config. Flags that were set explicitly win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("kind") || cfg.Kind == "" {
		cfg.Kind = kind
	}
	if cmd.Flags().Changed("dataset") || cfg.Dataset == "" {
		cfg.Dataset = datasetArg
	}
	if cmd.Flags().Changed("dt") {
		cfg.Rollout.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Rollout.Duration = duration
	}
	if cmd.Flags().Changed("method") {
		cfg.Rollout.Method = method
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("latent") {
		cfg.Model.LatentDimension = latent
	}
	if cmd.Flags().Changed("gcl") {
		cfg.Model.GCL = gcl
	}
	if cmd.Flags().Changed("activation") {
		cfg.Model.Activation = activation
	}
	if cfg.Model.Seed == 0 {
		cfg.Model.Seed = cfg.Seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildModel(cfg *config.Config, src *dataset.Source) (model.Model, error) {
	switch cfg.Kind {
	case "gldm":
		return model.NewGLDM(cfg.Model, src.Meta())
	default:
		return model.NewLDM(cfg.Model, src.Meta())
	}
}

type runResult struct {
	cfg     *config.Config
	pred    *rollout.Trajectory
	ref     *rollout.Trajectory
	scores  map[string]float64
	elapsed time.Duration
}

func rollOut(cmd *cobra.Command) (*runResult, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	src, err := dataset.New(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	m, err := buildModel(cfg, src)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"kind":    cfg.Kind,
		"dataset": cfg.Dataset,
	}).Debug("model built")

	ts := cfg.TimeGrid()
	w, err := src.Sample(ts)
	if err != nil {
		return nil, err
	}
	ref, err := src.Reference(ts)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"kind":    cfg.Kind,
		"dataset": cfg.Dataset,
		"method":  cfg.Rollout.Method,
		"steps":   len(ts),
	}).Info("rolling out")

	start := time.Now()
	pred, err := m.Predict(src.InitialState(), w, ts, cfg.Rollout.Method)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	scores, err := metrics.Evaluate(pred, ref, metrics.Defaults()...)
	if err != nil {
		return nil, err
	}

	return &runResult{cfg: cfg, pred: pred, ref: ref, scores: scores, elapsed: elapsed}, nil
}

func runRollout(cmd *cobra.Command, args []string) error {
	res, err := rollOut(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(res.cfg, res.pred, res.scores)
	if err != nil {
		return err
	}

	log.WithField("elapsed", res.elapsed).Info("rollout complete")
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n\n", res.pred.Len())
	fmt.Print(viz.MetricsTable(res.scores, []string{"rmse", "mae", "max_error"}))
	return nil
}

func runForward(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	src, err := dataset.New(cfg.Dataset)
	if err != nil {
		return err
	}
	m, err := buildModel(cfg, src)
	if err != nil {
		return err
	}

	w, err := src.Sample(cfg.TimeGrid())
	if err != nil {
		return err
	}

	z, zdot, xhat, err := m.Forward(w)
	if err != nil {
		return err
	}

	zr, zc := z.Dims()
	dr, dc := zdot.Dims()
	xr, xc := xhat.Dims()
	fmt.Printf("batch: %d x %d (state %d, control %d)\n", w.Rows(), w.StateDim()+w.ControlDim(), w.StateDim(), w.ControlDim())
	fmt.Printf("latent: %d x %d\n", zr, zc)
	fmt.Printf("latent derivative: %d x %d\n", dr, dc)
	fmt.Printf("reconstruction: %d x %d\n", xr, xc)

	// Reconstruction error against the original states.
	rec := metrics.NewRMSE()
	rec.Observe(xhat, w.X)
	fmt.Printf("reconstruction rmse: %.6f\n", rec.Value())
	return nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	src, err := dataset.New(cfg.Dataset)
	if err != nil {
		return err
	}
	m, err := buildModel(cfg, src)
	if err != nil {
		return err
	}
	fmt.Println(m.DiagnosticInfo())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	res, err := rollOut(cmd)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s/%s", res.cfg.Kind, res.cfg.Dataset)
	return tui.Run(title, res.pred, res.ref)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tDATASET\tTIME\tDURATION\tDT\tMETHOD")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Kind,
			run.Dataset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Method,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s/%s\n", meta.Kind, meta.Dataset)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	const maxPlots = 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d vs time", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s/%s\n\n", meta.Kind, meta.Dataset)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][0]
	}

	ps := analysis.PowerSpectrum(data)
	graph := asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (x0)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Duration)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.PhasePortrait(states, xAxis, yAxis)
	if portrait == nil {
		return fmt.Errorf("state index out of range")
	}

	fmt.Printf("phase portrait: %s (x%d vs x%d)\n\n", meta.ID, xAxis, yAxis)
	fmt.Print(portrait.ToASCII(80, 24))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	res, err := rollOut(cmd)
	if err != nil {
		return err
	}
	if outFile == "" {
		return store.ExportJSONStdout(res.cfg, res.pred, res.ref, res.scores)
	}
	if err := store.ExportJSON(outFile, res.cfg, res.pred, res.ref, res.scores); err != nil {
		return err
	}
	log.WithField("path", outFile).Info("exported")
	return nil
}
