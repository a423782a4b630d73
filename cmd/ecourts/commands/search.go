package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/ecourts/internal/browser"
	"github.com/jmylchreest/ecourts/internal/causelist"
	"github.com/jmylchreest/ecourts/internal/config"
	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/model"
	"github.com/jmylchreest/ecourts/internal/output"
	"github.com/jmylchreest/ecourts/internal/portal"
)

// formatTable renders human-readable tables instead of a serialised record.
const formatTable = "table"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Look up a case by CNR",
	Long: `Search the eCourts case-status portal for a case.

A browser window opens on the case-status page with the CNR filled in.
Solve the CAPTCHA, click 'Go', then press Enter in this terminal.

Examples:
  ecourts search --cnr MHAU019999992015
  ecourts search --cnr MHAU019999992015 --today --save
  ecourts search --cnr MHAU019999992015 --format json -o case.json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	flags := searchCmd.Flags()

	// Case selectors
	flags.String("cnr", "", "CNR number (16-character alphanumeric)")
	flags.String("case-type", "", "case type (e.g. CS, CRL.A, W.P.(C))")
	flags.String("case-number", "", "case number (numeric)")
	flags.String("year", "", "case year (e.g. 2015)")

	// Listing
	flags.Bool("today", false, "check whether the case is listed today")
	flags.Bool("tomorrow", false, "check whether the case is listed tomorrow")

	// Output
	flags.Bool("save", false, "save the result as JSON under the data directory")
	flags.StringP("output", "o", "", "file name for --save (default: generated)")
	flags.String("format", formatTable, "output format: table, json, jsonl, yaml")

	// Browser
	flags.Bool("no-headless", false, "force a visible browser window")
}

func searchArgsFrom(cmd *cobra.Command) searchArgs {
	flags := cmd.Flags()
	var a searchArgs
	a.CNR, _ = flags.GetString("cnr")
	a.CaseType, _ = flags.GetString("case-type")
	a.CaseNumber, _ = flags.GetString("case-number")
	a.Year, _ = flags.GetString("year")
	a.Today, _ = flags.GetBool("today")
	a.Tomorrow, _ = flags.GetBool("tomorrow")
	return a
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	args := searchArgsFrom(cmd)
	if err := args.validate(); err != nil {
		_ = cmd.Usage()
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != formatTable {
		if _, err := output.ParseFormat(format); err != nil {
			return err
		}
	}
	if noHeadless, _ := cmd.Flags().GetBool("no-headless"); noHeadless {
		cfg.Headless = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting eCourts search")
	out := search(ctx, cfg, args)

	if out.Kind == model.KindCancelled {
		logInfo("\nInterrupted by user")
		return nil
	}

	if err := printOutcome(os.Stdout, out, args, format); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		name, _ := cmd.Flags().GetString("output")
		if name == "" {
			name = output.SearchFilename(args.CNR, args.CaseType, args.CaseNumber, args.Year, out.Timestamp)
		}
		path, size, err := output.NewStore(cfg.DataDir).Save(name, out)
		if err != nil {
			logger.Error("failed to save result", "error", err)
			return err
		}
		logger.Info("results saved", "path", path)
		logInfo("Results saved to: %s (%s)", path, humanize.Bytes(uint64(size)))
	}
	return nil
}

// search runs one lookup and always returns an outcome.
func search(ctx context.Context, cfg config.Config, args searchArgs) *model.SearchOutcome {
	log := logger.Component("search")

	if args.CNR == "" {
		s := portal.NewSession(nil, portal.WithLogger(log))
		return s.SearchByDescriptor(ctx, args.CaseType, args.CaseNumber, args.Year)
	}

	chrome, err := browser.NewChrome(cfg.Browser(), logger.Component("browser"))
	if err != nil {
		log.Error("failed to start browser", "error", err)
		return model.Failed(model.KindUnexpected, portal.MsgUnexpected, err.Error())
	}

	opts := []portal.Option{
		portal.WithConfig(cfg.Portal()),
		portal.WithLogger(log),
	}
	resolver, err := newResolver(cfg, chrome)
	if err != nil {
		log.Warn("listing checks disabled", "error", err)
	} else if resolver != nil {
		opts = append(opts, portal.WithResolver(resolver))
	}

	s := portal.NewSession(chrome, opts...)
	defer func() { _ = s.Close() }()

	return s.SearchByIdentifier(ctx, args.CNR, args.checkListing())
}

// newResolver returns the configured cause-list resolver, or nil to keep
// the session's stub. chrome may be nil when no browser is running.
func newResolver(cfg config.Config, chrome *browser.Chrome) (*causelist.Portal, error) {
	if !cfg.ListingEnabled() {
		return nil, nil
	}

	var f causelist.Fetcher
	switch {
	case cfg.CauseListFetch == config.FetchBrowser && chrome != nil:
		f = chrome
	case cfg.CauseListFetch == config.FetchBrowser:
		return nil, fmt.Errorf("cause list fetch mode %q needs a browser", config.FetchBrowser)
	default:
		f = browser.NewStatic(cfg.Browser(), logger.Component("browser"))
	}

	return causelist.NewPortal(f, cfg.CauseListURL,
		causelist.WithCourtComplex(cfg.CourtComplex),
		causelist.WithPartyThreshold(cfg.PartyThreshold),
		causelist.WithLogger(logger.Component("causelist")),
	)
}

func printOutcome(w io.Writer, out *model.SearchOutcome, args searchArgs, format string) error {
	if format == formatTable {
		renderOutcome(w, out, listingLabel(args))
		return nil
	}
	return writeRecord(w, format, out)
}

func listingLabel(args searchArgs) string {
	switch {
	case args.Today:
		return "today"
	case args.Tomorrow:
		return "tomorrow"
	}
	return ""
}

func writeRecord(w io.Writer, format string, v any) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	writer, err := output.NewWriter(w, f)
	if err != nil {
		return err
	}
	if err := writer.Write(v); err != nil {
		return err
	}
	return writer.Close()
}
