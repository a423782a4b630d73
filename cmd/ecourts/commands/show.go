package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/ecourts/internal/model"
	"github.com/jmylchreest/ecourts/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved search result or cause list",
	Long: `Print an artifact written by --save from the data directory.

The .json extension may be omitted. Files named causelist_* are read as
cause lists, anything else as a search result.

Examples:
  ecourts show search_CNR_MHAU019999992015_20261018_140509
  ecourts show causelist_18-10-2026_20261018_090000.json --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("format", formatTable, "output format: table, json, jsonl, yaml")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return showSaved(os.Stdout, output.NewStore(cfg.DataDir), args[0], format)
}

func showSaved(w io.Writer, store *output.Store, name, format string) error {
	if strings.HasPrefix(filepath.Base(name), "causelist_") {
		var cl model.CauseList
		if err := load(store, name, &cl); err != nil {
			return err
		}
		if format == formatTable {
			renderCauseList(w, &cl)
			return nil
		}
		return writeRecord(w, format, &cl)
	}

	var out model.SearchOutcome
	if err := load(store, name, &out); err != nil {
		return err
	}
	if format == formatTable {
		// The saved record does not say which day was checked, only whether
		// a listing was found.
		label := ""
		if out.IsListed {
			label = "listed"
		}
		renderOutcome(w, &out, label)
		return nil
	}
	return writeRecord(w, format, &out)
}

func load(store *output.Store, name string, v any) error {
	found, err := store.Load(name, v)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no saved result at %s", store.Path(name))
	}
	return nil
}
