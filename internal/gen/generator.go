package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"countrygen/internal/kg"
)

// GeneratorOptions configures a dataset generation run.
type GeneratorOptions struct {
	NumDatasets        int
	NumTrainingSamples int
	OutputDir          string

	// MinimalTrainingSamples trims training samples the same way dev and
	// test samples always are.
	MinimalTrainingSamples bool

	Logger *zap.Logger
}

// Generator drives the splitter and builder across all requested datasets
// and persists every sample through the writer.
type Generator struct {
	splitter *Splitter
	builder  *Builder
	writer   *kg.Writer
	opts     GeneratorOptions
	logger   *zap.Logger
}

// NewGenerator validates the options and creates a generator.
func NewGenerator(splitter *Splitter, builder *Builder, writer *kg.Writer, opts GeneratorOptions) (*Generator, error) {
	if splitter == nil || builder == nil || writer == nil {
		return nil, fmt.Errorf("splitter, builder, and writer are required")
	}
	if opts.NumDatasets < 1 {
		return nil, fmt.Errorf("num datasets must be at least 1, got %d", opts.NumDatasets)
	}
	if opts.NumTrainingSamples < 1 {
		return nil, fmt.Errorf("num training samples must be at least 1, got %d", opts.NumTrainingSamples)
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{splitter: splitter, builder: builder, writer: writer, opts: opts, logger: logger}, nil
}

// Run generates all datasets. A failed split or solver invocation aborts the
// whole run; there is no partial recovery.
func (g *Generator) Run(ctx context.Context) error {
	datasetWidth := len(strconv.Itoa(g.opts.NumDatasets - 1))
	sampleWidth := len(strconv.Itoa(g.opts.NumTrainingSamples - 1))

	for datasetIdx := 0; datasetIdx < g.opts.NumDatasets; datasetIdx++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		runID := uuid.NewString()
		logger := g.logger.With(
			zap.String("run_id", runID),
			zap.Int("dataset", datasetIdx),
		)
		logger.Info("generating dataset")

		datasetDir := filepath.Join(g.opts.OutputDir, fmt.Sprintf("%0*d", datasetWidth, datasetIdx))
		trainDir := filepath.Join(datasetDir, "train")
		devDir := filepath.Join(datasetDir, "dev")
		testDir := filepath.Join(datasetDir, "test")
		for _, dir := range []string{datasetDir, trainDir, devDir, testDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating dataset directory %q: %w", dir, err)
			}
		}

		train, dev, test, err := g.splitter.Split()
		if err != nil {
			return fmt.Errorf("dataset %d: %w", datasetIdx, err)
		}
		logger.Info("split countries",
			zap.Int("train", len(train)),
			zap.Int("dev", len(dev)),
			zap.Int("test", len(test)),
		)

		if err := writeNameList(filepath.Join(datasetDir, "countries.dev.txt"), dev); err != nil {
			return err
		}
		if err := writeNameList(filepath.Join(datasetDir, "countries.test.txt"), test); err != nil {
			return err
		}

		for sampleIdx := 0; sampleIdx < g.opts.NumTrainingSamples; sampleIdx++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			sample, err := g.builder.Build(ctx, train, nil, g.opts.MinimalTrainingSamples)
			if err != nil {
				return fmt.Errorf("dataset %d training sample %d: %w", datasetIdx, sampleIdx, err)
			}
			base := fmt.Sprintf("%0*d", sampleWidth, sampleIdx)
			if err := g.writer.Write(sample, trainDir, base); err != nil {
				return err
			}
			logger.Debug("wrote training sample", zap.Int("sample", sampleIdx))
		}

		devSample, err := g.builder.Build(ctx, train, dev, true)
		if err != nil {
			return fmt.Errorf("dataset %d dev sample: %w", datasetIdx, err)
		}
		if err := g.writer.Write(devSample, devDir, "dev"); err != nil {
			return err
		}

		testSample, err := g.builder.Build(ctx, train, test, true)
		if err != nil {
			return fmt.Errorf("dataset %d test sample: %w", datasetIdx, err)
		}
		if err := g.writer.Write(testSample, testDir, "test"); err != nil {
			return err
		}

		specified, inferred := testSample.CountTriples()
		logger.Info("dataset complete",
			zap.Int("test_triples", specified+inferred),
			zap.Int("test_specified", specified),
			zap.Int("test_inferred", inferred),
		)
	}
	return nil
}

// writeNameList writes country names one per line.
func writeNameList(path string, names []string) error {
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing country list %q: %w", path, err)
	}
	return nil
}
