package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"imageCompressor/compressor/archive"
	"imageCompressor/compressor/batch"
	"imageCompressor/compressor/config"
	"imageCompressor/compressor/converter"
	"imageCompressor/compressor/loader"
	"imageCompressor/compressor/models"
	"imageCompressor/compressor/preview"
	"imageCompressor/compressor/results"
	"imageCompressor/compressor/tui"
	"imageCompressor/compressor/validation"
)

const logFileName = "compressor.log"

var errNoImages = errors.New("no images to compress")

// flag name -> config key
var configFlags = map[string]string{
	"preset":     "preset",
	"max-width":  "max_width",
	"max-height": "max_height",
	"quality":    "quality",
	"format":     "format",
	"out":        "output_dir",
	"zip":        "archive",
}


func newCompressCmd() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "compress [paths...|-]",
		Short: "Resize and re-encode images",
		Long: "Resize every image found in the given files and directories (or read from stdin with -) " +
			"to fit the configured bounds, re-encode it and save the results.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, v, args)
		},
	}

	f := cmd.Flags()
	f.String("preset", "", "preset to apply: instagram, whatsapp, shopify, website or custom")
	f.Int("max-width", 0, "maximum output width in pixels")
	f.Int("max-height", 0, "maximum output height in pixels")
	f.Float64("quality", 0, "encode quality between 0.1 and 1.0")
	f.String("format", "", "output format: "+formatList())
	f.StringP("out", "o", "", "output directory")
	f.Bool("zip", false, "save a single zip archive instead of individual files")
	f.Bool("no-tui", false, "disable the interactive progress bar")

	return cmd
}

func runCompress(cmd *cobra.Command, v *viper.Viper, args []string) error {
	flags := cmd.Flags()

	if err := bindFlags(v, flags); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	for _, key := range config.TransformKeys {
		if changedKey(flags, key) {
			cfg.Override(key)
		}
	}
	tc, err := cfg.Transform()
	if err != nil {
		return err
	}

	debug, _ := flags.GetBool("debug")
	noTUI, _ := flags.GetBool("no-tui")
	useTUI := !noTUI && !slices.Contains(args, loader.StdinPath) && isTerminal(os.Stdin) && isTerminal(os.Stdout)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logFile := ""
	if useTUI {
		logFile = filepath.Join(cfg.OutputDir, logFileName)
	}
	logger, err := newLogger(cfg.LogLevel, debug, logFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, closeStore, err := openPreviewStore(cfg.Preview)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := loader.NewLoader(logger, cfg.LoadWorkers, cmd.InOrStdin()).Load(ctx, args)
	if err != nil {
		return err
	}
	sources, rejected := validation.FilterImages(logger, sources)
	for _, r := range rejected {
		fmt.Fprintf(cmd.ErrOrStderr(), "ignored %s: %v\n", r.Name, r.Err)
	}
	if len(sources) == 0 {
		return errNoImages
	}

	manager := results.NewManager(logger, store)
	coordinator := batch.NewCoordinator(logger, converter.NewConverter(logger, store), manager)
	// handles are released once outputs are written, whatever happens
	defer coordinator.Clear(context.WithoutCancel(ctx))

	logger.Info("Compressing images",
		zap.Int("count", len(sources)),
		zap.String("preset", cfg.Preset),
		zap.String("output_dir", cfg.OutputDir),
	)

	var summary *batch.Summary
	if useTUI {
		summary, err = runWithTUI(ctx, coordinator, sources, tc)
	} else {
		summary, err = runPlain(ctx, cmd, coordinator, sources, tc)
	}
	if err != nil {
		return err
	}

	current := manager.Current()
	printReport(cmd.OutOrStdout(), summary, current, manager.Totals())

	if len(current) == 0 {
		return nil
	}
	return saveResults(cmd, cfg, tc, current)
}

func runPlain(ctx context.Context, cmd *cobra.Command, c *batch.Coordinator, sources []models.SourceImage, tc models.TransformConfig) (*batch.Summary, error) {
	errOut := cmd.ErrOrStderr()

	summary, err := c.Run(ctx, sources, tc, batch.WithProgress(func(p models.BatchProgress) {
		fmt.Fprintf(errOut, "\r%s", tui.Status(p, time.Now()))
	}))
	fmt.Fprintln(errOut)
	return summary, err
}

func runWithTUI(ctx context.Context, c *batch.Coordinator, sources []models.SourceImage, tc models.TransformConfig) (*batch.Summary, error) {
	cancel := &batch.Flag{}
	program := tea.NewProgram(tui.NewProgressModel(len(sources), cancel.Request))

	var summary *batch.Summary
	var g errgroup.Group

	g.Go(func() error {
		defer program.Send(tui.DoneMsg{})

		s, err := c.Run(ctx, sources, tc,
			batch.WithCancelFlag(cancel),
			batch.WithProgress(func(p models.BatchProgress) {
				program.Send(tui.ProgressMsg(p))
			}),
		)
		summary = s
		return err
	})
	g.Go(func() error {
		if _, err := program.Run(); err != nil {
			cancel.Request()
			return fmt.Errorf("progress view failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func saveResults(cmd *cobra.Command, cfg *config.Config, tc models.TransformConfig, rs []models.TransformResult) error {
	out := cmd.OutOrStdout()

	if !cfg.Archive {
		paths, err := archive.SaveFiles(cfg.OutputDir, rs)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d files to %s\n", len(paths), cfg.OutputDir)
		return nil
	}

	now := time.Now()
	path := filepath.Join(cfg.OutputDir, archive.FileName(now))
	if err := writeArchive(path, archive.Archive{CreatedAt: now, Config: tc, Results: rs}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

// writeArchive creates path and removes it again if the archive cannot
// be written completely.
func writeArchive(path string, a archive.Archive) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err = archive.Write(f, a); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	return nil
}

func openPreviewStore(cfg config.PreviewConfig) (preview.Store, func(), error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return preview.NewMemoryStore(), func() {}, nil
	case config.BackendRedis:
		client, err := preview.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect preview store: %w", err)
		}
		store := preview.NewRedisStore(client, cfg.TTL)
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown preview backend %q", cfg.Backend)
	}
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range configFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// changedKey reports whether the flag bound to key was set explicitly.
func changedKey(flags *pflag.FlagSet, key string) bool {
	for name, k := range configFlags {
		if k == key && flags.Changed(name) {
			return true
		}
	}
	return false
}

func formatList() string {
	names := make([]string, len(models.Formats))
	for i, f := range models.Formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
