package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/goto-nondet/langapi"
	"github.com/wippyai/goto-nondet/nondet"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// app holds the state shared by all subcommands.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	registry *langapi.Registry
	logger   *zap.Logger
	cfg      Config

	cfgFile  string
	logLevel string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		registry: langapi.Default(),
		logger:   zap.NewNop(),
		cfg:      defaultConfig(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "goto-nondet",
		Short:         "Replace nondet stub calls in goto programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default "+defaultConfigFile+" if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		a.rewriteCmd(),
		a.showCmd(),
		a.browseCmd(),
		a.initCmd(),
		a.modesCmd(),
	)
	return root
}

// setup loads the config file and builds the logger.
func (a *app) setup() error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, level)
	nondet.SetLogger(a.logger)
	return nil
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

func (a *app) sync() {
	_ = a.logger.Sync()
}

// load parses path with the language registered for its extension, or
// for mode when given.
func (a *app) load(path, mode string) (langapi.Language, *program.Program, *symtab.Table, error) {
	lang, err := a.language(path, mode)
	if err != nil {
		return nil, nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	p, st, err := lang.Parse(f, path)
	if err != nil {
		return nil, nil, nil, err
	}
	a.logger.Debug("loaded program",
		zap.String("file", path),
		zap.String("mode", lang.ID()),
		zap.Int("functions", p.Len()),
		zap.Int("symbols", st.Len()))
	return lang, p, st, nil
}

func (a *app) language(path, mode string) (langapi.Language, error) {
	if mode != "" {
		return a.registry.FromMode(mode)
	}
	return a.registry.FromFilename(path)
}
