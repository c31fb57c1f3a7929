// Command countrygen generates synthetic relational-reasoning datasets about
// countries, regions, and subregions. Location facts are partially withheld
// according to the chosen problem setting, a logic solver derives what is
// still inferable, and the remainder becomes prediction targets.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"countrygen/internal/asp"
	"countrygen/internal/config"
	"countrygen/internal/countries"
	"countrygen/internal/gen"
	"countrygen/internal/kg"
)

const version = "1.0.0"

const dataFilename = "countries.json"

var (
	cfgFile string
	verbose bool

	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger   *zap.Logger
)

// applyLogLevel sets the global log level. Verbose wins over quiet, so a
// quiet config file cannot silence explicit debugging.
func applyLogLevel(verbose, quiet bool) {
	switch {
	case verbose:
		logLevel.SetLevel(zapcore.DebugLevel)
	case quiet:
		logLevel.SetLevel(zapcore.WarnLevel)
	default:
		logLevel.SetLevel(zapcore.InfoLevel)
	}
}

var rootCmd = &cobra.Command{
	Use:   "countrygen",
	Short: "Generate relational-reasoning datasets about countries and regions",
	Long: `countrygen builds knowledge-graph datasets for benchmarking relational
inference models. Each sample discloses a controlled subset of location facts,
runs a logic solver over the countries ontology, and records which facts were
specified, which were inferred, and which are held out as prediction targets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		applyLogLevel(verbose, quiet)
		zcfg := zap.NewProductionConfig()
		zcfg.Level = logLevel
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGenerate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the countrygen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("countrygen %s\n", version)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "yaml config file")
	flags.Int64("seed", -1, "RNG seed (negative picks one)")
	flags.Int("datasets", 1, "number of datasets to generate")
	flags.Int("samples", 100, "training samples per dataset")
	flags.Int("eval-countries", gen.DefaultNumEvalCountries, "dev/test hold-out size")
	flags.String("setting", "S1", "problem setting (S1, S2, or S3)")
	flags.Bool("class-facts", false, "include class facts in solver input")
	flags.Bool("minimal", false, "trim training samples to target-relevant literals")
	flags.StringP("output", "o", "out", "output directory")
	flags.String("data", "", "countries.json path (downloaded when omitted)")
	flags.String("solver-backend", config.BackendMangle, "solver backend (mangle or dlv)")
	flags.String("solver-exe", "", "DLV executable path (dlv backend)")
	flags.String("ontology", "ontology/ontology.mg", "ontology program path")
	flags.Bool("quiet", false, "log warnings and errors only")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges the optional config file with explicit flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("datasets") {
		cfg.NumDatasets, _ = flags.GetInt("datasets")
	}
	if flags.Changed("samples") {
		cfg.NumTrainingSamples, _ = flags.GetInt("samples")
	}
	if flags.Changed("eval-countries") {
		cfg.NumEvalCountries, _ = flags.GetInt("eval-countries")
	}
	if flags.Changed("setting") {
		cfg.Setting, _ = flags.GetString("setting")
	}
	if flags.Changed("class-facts") {
		cfg.ClassFacts, _ = flags.GetBool("class-facts")
	}
	if flags.Changed("minimal") {
		cfg.Minimal, _ = flags.GetBool("minimal")
	}
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("data") {
		cfg.DataPath, _ = flags.GetString("data")
	}
	if flags.Changed("solver-backend") {
		cfg.Solver.Backend, _ = flags.GetString("solver-backend")
	}
	if flags.Changed("solver-exe") {
		cfg.Solver.ExePath, _ = flags.GetString("solver-exe")
	}
	if flags.Changed("ontology") {
		cfg.Solver.OntologyPath, _ = flags.GetString("ontology")
	}
	if flags.Changed("quiet") {
		cfg.Quiet, _ = flags.GetBool("quiet")
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The config file may set quiet; the logger was leveled from flags only.
	applyLogLevel(verbose, cfg.Quiet)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", cfg.OutputDir, err)
	}

	// The data file may still be missing at this point; resolve it before
	// the full validation pass.
	if cfg.DataPath == "" {
		cfg.DataPath = filepath.Join(cfg.OutputDir, dataFilename)
		if _, statErr := os.Stat(cfg.DataPath); os.IsNotExist(statErr) {
			logger.Info("downloading country data",
				zap.String("url", countries.DataURL),
				zap.String("path", cfg.DataPath),
			)
			if err := countries.Download(ctx, countries.DataURL, cfg.DataPath); err != nil {
				return err
			}
		} else {
			logger.Info("using existing country data", zap.String("path", cfg.DataPath))
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seed := cfg.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger.Info("configuration",
		zap.Int64("seed", seed),
		zap.Int("datasets", cfg.NumDatasets),
		zap.Int("training_samples", cfg.NumTrainingSamples),
		zap.Int("eval_countries", cfg.NumEvalCountries),
		zap.String("setting", cfg.Setting),
		zap.Bool("class_facts", cfg.ClassFacts),
		zap.Bool("minimal", cfg.Minimal),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("data_path", cfg.DataPath),
		zap.String("solver_backend", cfg.Solver.Backend),
		zap.String("ontology", cfg.Solver.OntologyPath),
	)

	registry, err := countries.Load(cfg.DataPath)
	if err != nil {
		return err
	}
	logger.Info("loaded country data", zap.Int("countries", registry.Len()))

	var solver asp.Solver
	switch cfg.Solver.Backend {
	case config.BackendDLV:
		solver, err = asp.NewDLVSolver(cfg.Solver.ExePath)
		if err != nil {
			return err
		}
	case config.BackendMangle:
		solver = asp.NewMangleSolver()
	}

	setting, err := gen.ParseSetting(cfg.Setting)
	if err != nil {
		return err
	}

	splitter := gen.NewSplitter(registry, rng, cfg.NumEvalCountries, gen.DefaultMaxAttempts)
	builder, err := gen.NewBuilder(registry, solver, gen.BuilderOptions{
		Setting:          setting,
		OntologyPath:     cfg.Solver.OntologyPath,
		ClassFacts:       cfg.ClassFacts,
		NumEvalCountries: cfg.NumEvalCountries,
		RNG:              rng,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	generator, err := gen.NewGenerator(splitter, builder, kg.NewWriter(), gen.GeneratorOptions{
		NumDatasets:            cfg.NumDatasets,
		NumTrainingSamples:     cfg.NumTrainingSamples,
		OutputDir:              cfg.OutputDir,
		MinimalTrainingSamples: cfg.Minimal,
		Logger:                 logger,
	})
	if err != nil {
		return err
	}

	return generator.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
