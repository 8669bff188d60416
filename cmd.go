package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/chroma/quick"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sickscan/sickscan-tui/internal/client"
	"github.com/sickscan/sickscan-tui/internal/components"
	"github.com/sickscan/sickscan-tui/internal/config"
	"github.com/sickscan/sickscan-tui/internal/fixture"
	"github.com/sickscan/sickscan-tui/internal/logging"
	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/internal/symptom"
	"github.com/sickscan/sickscan-tui/internal/theme"
	"github.com/sickscan/sickscan-tui/internal/utils"
)

type rootOptions struct {
	configPath string
	serviceURL string
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sickscan",
		Short:         "Terminal symptom checker",
		Long:          "sickscan collects symptoms from free text or by name and asks a diagnosis service for likely conditions.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				opts.logger.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.SetVersionTemplate("sickscan v{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.sickscan/config.yaml)")
	flags.StringVar(&opts.serviceURL, "service-url", "", "symptom service base URL")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSymptomsCmd(opts),
		newCheckCmd(opts),
		newFixtureServerCmd(opts),
	)
	return cmd
}

// load reads config, applies flag overrides and opens the log.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.serviceURL != "" {
		cfg.Service.URL = o.serviceURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the server has no UI, so its request log goes to the terminal
	logFile := cfg.Log.File
	if cmd.Name() == "fixture-server" {
		logFile = logging.Stderr
	}

	logger, err := logging.New(logFile, cfg.Log.Level)
	if err != nil {
		return err
	}

	theme.SetASCII(cfg.UI.ASCII)
	o.cfg = cfg
	o.logger = logger
	return nil
}

func (o *rootOptions) newSession() (*session.Session, error) {
	c, err := client.New(o.cfg.Service.URL,
		client.WithTimeout(o.cfg.Service.Timeout),
		client.WithLogger(o.logger.Component("client")),
	)
	if err != nil {
		return nil, err
	}
	return session.New(c,
		session.WithLogger(o.logger.Component("session")),
		session.WithStaleResponses(o.cfg.UI.ApplyStaleResponses),
	), nil
}

func runTUI(o *rootOptions) error {
	sess, err := o.newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	o.logger.Info().Str("service_url", o.cfg.Service.URL).Str("version", Version).Msg("starting")

	p := tea.NewProgram(initialModel(sess, o.cfg.Service.URL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func newSymptomsCmd(o *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptom catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := o.newSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			if _, err := sess.LoadCatalog(cmd.Context()); err != nil {
				return err
			}
			catalog := sess.Catalog()
			out := cmd.OutOrStdout()

			if asJSON {
				return writeJSON(out, catalog)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorderInactive)).
				Headers("ID", "NAME")
			for _, s := range catalog {
				t.Row(s.ID.String(), s.Name)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type checkResult struct {
	Symptoms    []checkSymptom       `json:"symptoms"`
	Predictions []symptom.Prediction `json:"predictions"`
}

type checkSymptom struct {
	ID     symptom.ID `json:"id"`
	Name   string     `json:"name"`
	Source string     `json:"source"`
}

func newCheckCmd(o *rootOptions) *cobra.Command {
	var (
		text   string
		names  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Analyze text and symptom names once and print the diagnosis",
		Example: `  sickscan check --text "fever and a bad cough"
  sickscan check --symptom fever --symptom headache --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(text) == "" && len(names) == 0 {
				return errors.New("nothing to check: pass --text or --symptom")
			}

			sess, err := o.newSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			if _, err := sess.LoadCatalog(ctx); err != nil {
				return err
			}
			if strings.TrimSpace(text) != "" {
				if _, err := sess.Analyze(ctx, text); err != nil {
					return reportErr(sess, "analyze", err)
				}
			}
			for _, n := range names {
				if _, _, err := sess.AddManual(n); err != nil {
					return fmt.Errorf("%q: %w", n, reportErr(sess, "add symptom", err))
				}
			}

			preds, err := sess.Predict(ctx)
			if err != nil {
				return reportErr(sess, "predict", err)
			}

			res := checkResult{Predictions: preds}
			for _, e := range sess.Entries() {
				res.Symptoms = append(res.Symptoms, checkSymptom{ID: e.ID, Name: e.Name, Source: e.Source.String()})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			printCheck(out, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "free-text description to analyze")
	cmd.Flags().StringArrayVar(&names, "symptom", nil, "symptom name to add (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// reportErr turns err into the same message the TUI would show.
func reportErr(sess *session.Session, action string, err error) error {
	n, surfaced := sess.Report(action, err)
	if !surfaced {
		return err
	}
	return errors.New(n.Message)
}

func printCheck(w io.Writer, res checkResult) {
	var names []string
	for _, s := range res.Symptoms {
		names = append(names, s.Name)
	}
	fmt.Fprintf(w, "%s %s\n\n", theme.RenderTitle(theme.IconSymptom, "Symptoms:"), strings.Join(names, ", "))

	if len(res.Predictions) == 0 {
		fmt.Fprintln(w, theme.RenderTextDim("No matching conditions."))
		return
	}
	for _, p := range res.Predictions {
		bar := components.NewConfidenceBar(p.Confidence).SetWidth(20).SetShowPercent(false)
		fmt.Fprintf(w, "%s  %s %s\n", theme.DiseaseStyle.Render(p.Disease), bar.Render(), components.FormatPercent(p.Confidence))
		fmt.Fprintf(w, "  Common Symptoms: %s\n", utils.JoinOr(p.CommonSymptoms, ", ", "N/A"))
	}
}

// writeJSON prints v indented, highlighted when w is a terminal.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return quick.Highlight(w, string(data)+"\n", "json", "terminal256", "monokai")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newFixtureServerCmd(o *rootOptions) *cobra.Command {
	var addr, file string

	cmd := &cobra.Command{
		Use:   "fixture-server",
		Short: "Serve a deterministic symptom service for local use and tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = o.cfg.Fixture.Addr
			}
			if file == "" {
				file = o.cfg.Fixture.File
			}

			fx, err := fixture.Load(file)
			if err != nil {
				return err
			}

			logger := o.logger.Component("fixture")
			srv := fixture.NewServer(fx, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info().Msg("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :5000)")
	cmd.Flags().StringVar(&file, "fixture", "", "fixture YAML file (default: embedded)")
	return cmd
}
