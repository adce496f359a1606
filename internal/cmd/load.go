package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/appshell/modloader/internal/codeload"
	"github.com/appshell/modloader/internal/config"
	"github.com/appshell/modloader/internal/entry"
	loaderr "github.com/appshell/modloader/internal/errors"
	"github.com/appshell/modloader/internal/host"
	"github.com/appshell/modloader/internal/i18n"
	"github.com/appshell/modloader/internal/loader"
	"github.com/appshell/modloader/internal/manifest"
	"github.com/appshell/modloader/internal/output"
	"github.com/appshell/modloader/internal/router"
)

// NewLoadCmd creates the load command.
func NewLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Run one load pass against the module index",
		Long: `Run one load pass against the configured module index.

Each module's entry source is resolved, its code is loaded and validated,
and its routes and locales are wired into an in-memory stand-in host. The
per-module outcome and the resulting route table are reported.`,
		RunE: runLoad,
	}
}

// styleRecorder is the stand-in host's document: it records stylesheet
// links instead of attaching them to a real document.
type styleRecorder struct {
	hrefs []string
}

func (s *styleRecorder) AppendStylesheet(href string) error {
	s.hrefs = append(s.hrefs, href)
	return nil
}

// loadReport is the serializable outcome of one CLI load pass.
type loadReport struct {
	Manifest string         `json:"manifest" yaml:"manifest"`
	Loaded   []reportModule `json:"loaded" yaml:"loaded"`
	Errors   []reportError  `json:"errors,omitempty" yaml:"errors,omitempty"`
	Routes   []router.Route `json:"routes,omitempty" yaml:"routes,omitempty"`
	Styles   []string       `json:"styles,omitempty" yaml:"styles,omitempty"`
	Locales  []string       `json:"locales,omitempty" yaml:"locales,omitempty"`
}

type reportModule struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Routes  int    `json:"routes" yaml:"routes"`
}

type reportError struct {
	Module string `json:"module" yaml:"module"`
	Stage  string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Error  string `json:"error" yaml:"error"`
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := cliConfig

	table := router.NewTable()
	store := i18n.NewMemStore()
	styles := &styleRecorder{}
	hostCtx := &host.Context{
		Router:   table,
		I18n:     store,
		Document: styles,
	}

	ld := loader.New(hostCtx, loaderOptions(cfg))

	var res *loader.Result
	err := output.RunWithSpinner(ctx, func() error {
		res = ld.Load(ctx)
		return nil
	}, output.WithTitle(fmt.Sprintf("Loading modules from %s...", cfg.Manifest)))
	if err != nil {
		return NewExitError(err, ExitGeneralError)
	}

	report := buildReport(cfg.Manifest, res, table, store, styles)
	if err := renderReport(report, output.ParseOutputFormat(outputFormatFlag)); err != nil {
		return NewExitError(err, ExitGeneralError)
	}

	if len(res.Errors) > 0 {
		return NewExitError(
			fmt.Errorf("%d of %d modules failed to load", len(res.Errors), len(res.Errors)+len(res.Loaded)),
			ExitLoadFailed)
	}
	return nil
}

// loaderOptions maps CLI configuration onto the loader's options surface.
func loaderOptions(cfg *config.Config) loader.Options {
	return loader.Options{
		Manifest: cfg.Manifest,
		Fetch:    fetchFor(cfg.Manifest),
		Code:     codeload.NewGoSource(),
		Entry: entry.Options{
			PreferDev:            cfg.PreferDev,
			Production:           cfg.Production,
			AllowDevInProduction: cfg.AllowDevInProduction,
		},
		RoutePolicy: router.ParseDedupPolicy(cfg.RoutePolicy),
		StepTimeout: cfg.Timeout,
		Logger:      output.Logger,
	}
}

// fetchFor picks the HTTP transport for URL manifests and the file
// transport for local paths.
func fetchFor(location string) manifest.FetchFunc {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return manifest.DefaultFetch
	}
	return manifest.FileFetch
}

func buildReport(location string, res *loader.Result, table *router.Table, store *i18n.MemStore, styles *styleRecorder) loadReport {
	report := loadReport{
		Manifest: location,
		Loaded:   []reportModule{},
		Routes:   table.Routes(),
		Styles:   styles.hrefs,
		Locales:  store.Languages(),
	}
	for _, l := range res.Loaded {
		report.Loaded = append(report.Loaded, reportModule{
			Name:    l.Bundle.Name,
			Version: l.Bundle.Version,
			Routes:  len(l.Bundle.Routes),
		})
	}
	for _, e := range res.Errors {
		report.Errors = append(report.Errors, reportError{
			Module: e.Ref.Display(),
			Stage:  string(loaderr.StageOf(e.Err)),
			Error:  e.Err.Error(),
		})
	}
	return report
}

func renderReport(report loadReport, format output.OutputFormat) error {
	switch format {
	case output.FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		output.Print(string(data))
	case output.FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		output.Println(string(data))
	default:
		for _, m := range report.Loaded {
			output.Println(output.FormatModuleLine(m.Name, m.Version, output.StatusLoaded))
		}
		for _, e := range report.Errors {
			output.Println(output.FormatModuleLine(e.Module, "", output.StatusFailed))
			output.Println("  " + output.StyleDim.Render(e.Error))
		}
		summary := fmt.Sprintf("%d loaded, %d failed, %d routes, %d languages",
			len(report.Loaded), len(report.Errors), len(report.Routes), len(report.Locales))
		if len(report.Errors) == 0 {
			output.Println(output.FormatCheckmark(summary))
		} else {
			output.Println(output.StyleSummary.Render(summary))
		}
	}
	return nil
}
