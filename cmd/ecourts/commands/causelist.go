package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

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

var causelistCmd = &cobra.Command{
	Use:   "causelist",
	Short: "Download a day's cause list",
	Long: `Download the complete cause list for a date from the configured
cause list page (--causelist-url or causelist_url in .ecourts.yaml).

Examples:
  ecourts causelist --causelist-url "https://example.gov.in/?p=cause_list/index"
  ecourts causelist --date 18-10-2026 --save
  ecourts causelist --tomorrow --format yaml`,
	RunE: runCauseList,
}

func init() {
	rootCmd.AddCommand(causelistCmd)

	flags := causelistCmd.Flags()
	flags.String("date", "", "cause list date (DD-MM-YYYY, default today)")
	flags.Bool("tomorrow", false, "download tomorrow's cause list")
	flags.Bool("save", false, "save the cause list as JSON under the data directory")
	flags.StringP("output", "o", "", "file name for --save (default: generated)")
	flags.String("format", formatTable, "output format: table, json, jsonl, yaml")
}

// causeListDate resolves --date and --tomorrow against now.
func causeListDate(date string, tomorrow bool, now time.Time) (time.Time, error) {
	if date != "" {
		if tomorrow {
			return time.Time{}, errors.New("use either --date or --tomorrow, not both")
		}
		d, err := time.ParseInLocation(causelist.PortalDate, date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q: expected DD-MM-YYYY", date)
		}
		return d, nil
	}
	if tomorrow {
		return now.AddDate(0, 0, 1), nil
	}
	return now, nil
}

func runCauseList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dateFlag, _ := cmd.Flags().GetString("date")
	tomorrow, _ := cmd.Flags().GetBool("tomorrow")
	date, err := causeListDate(dateFlag, tomorrow, time.Now())
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format != formatTable {
		if _, err := output.ParseFormat(format); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("downloading cause list", "date", date.Format(causelist.DisplayDate))
	cl, err := downloadCauseList(ctx, cfg, date)
	if errors.Is(err, context.Canceled) {
		logInfo("\nInterrupted by user")
		return nil
	}
	if errors.Is(err, causelist.ErrNotImplemented) {
		return fmt.Errorf("failed to download cause list: set causelist_url to enable cause list retrieval: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to download cause list: %w", err)
	}
	logInfo("Cause list downloaded: %d cases", cl.TotalCases)

	if format == formatTable {
		renderCauseList(os.Stdout, cl)
	} else if err := writeRecord(os.Stdout, format, cl); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		name, _ := cmd.Flags().GetString("output")
		if name == "" {
			name = output.CauseListFilename(date.Format(causelist.InternalDate), time.Now())
		}
		path, size, err := output.NewStore(cfg.DataDir).Save(name, cl)
		if err != nil {
			return err
		}
		logInfo("Cause list saved to: %s (%s)", path, humanize.Bytes(uint64(size)))
	}
	return nil
}

func downloadCauseList(ctx context.Context, cfg config.Config, date time.Time) (*model.CauseList, error) {
	log := logger.Component("causelist")

	var chrome *browser.Chrome
	if cfg.ListingEnabled() && cfg.CauseListFetch == config.FetchBrowser {
		bcfg := cfg.Browser()
		bcfg.Headless = true
		bcfg.DisableImages = true
		c, err := browser.NewChrome(bcfg, logger.Component("browser"))
		if err != nil {
			return nil, err
		}
		chrome = c
	}

	opts := []portal.Option{portal.WithLogger(log)}
	resolver, err := newResolver(cfg, chrome)
	if err != nil {
		return nil, err
	}
	if resolver != nil {
		opts = append(opts, portal.WithResolver(resolver))
	}

	var b portal.Browser
	if chrome != nil {
		b = chrome
	}
	s := portal.NewSession(b, opts...)
	defer func() { _ = s.Close() }()

	return s.DownloadCauseList(ctx, date)
}
