// Package main searches for the diffusion rate and viscosity that spread a
// puff of ink to a target radius in a fixed number of ticks.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ink/config"
)

// EvalRow is one line of calibrate_log.csv.
type EvalRow struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	MeanRadius    float64 `csv:"mean_radius"`
	DiffusionRate float64 `csv:"diffusion_rate"`
	Viscosity     float64 `csv:"viscosity"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 120, "Ticks per probe run")
	target := flag.Float64("target", 12, "Target spread radius in cells")
	timeStep := flag.Float64("time-step", 0, "Per-tick time step override (0 = use config)")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	method := flag.String("method", "neldermead", "Search method: neldermead or cmaes")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evaluator := NewEvaluator(params, baseCfg, DefaultProbes(baseCfg), *ticks, *target, float32(*timeStep))

	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	var rows []EvalRow
	var bestFitness = 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}
			rows = append(rows, EvalRow{
				Eval:          len(rows) + 1,
				Fitness:       fitness,
				MeanRadius:    evaluator.LastRadius(),
				DiffusionRate: clamped[0],
				Viscosity:     clamped[1],
			})

			elapsed := time.Since(startTime)
			fmt.Printf("Eval %d/%d: radius=%.2f fitness=%.4f (best=%.4f) diffusion=%.3g viscosity=%.3g | elapsed: %s\n",
				len(rows), *maxEvals, evaluator.LastRadius(), fitness, bestFitness,
				clamped[0], clamped[1], formatDuration(elapsed))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; probes already run in parallel
	}

	var m optimize.Method
	switch *method {
	case "neldermead":
		m = &optimize.NelderMead{}
	case "cmaes":
		m = &optimize.CmaEsChol{InitStepSize: 0.2, Population: 4 + 3*params.Dim()}
	default:
		log.Fatalf("unknown method %q", *method)
	}

	fmt.Printf("Starting %s calibration: target radius %.1f cells after %d ticks, max_evals=%d\n",
		*method, *target, *ticks, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, m)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", len(rows), formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6g\n", spec.Path, bestParams[i])
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	if err := writeRows(logPath, rows); err != nil {
		log.Printf("failed to write log: %v", err)
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

// writeRows writes the evaluation log as CSV.
func writeRows(path string, rows []EvalRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
