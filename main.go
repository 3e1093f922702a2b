package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/poi-coverage-report/internal/aggregate"
	"github.com/insightdelivered/poi-coverage-report/internal/config"
	"github.com/insightdelivered/poi-coverage-report/internal/logging"
	"github.com/insightdelivered/poi-coverage-report/internal/models"
	"github.com/insightdelivered/poi-coverage-report/internal/store"
	"github.com/insightdelivered/poi-coverage-report/internal/writer"
)

const version = "1.2.0"

var (
	// Global flags
	cfgFile string
	verbose bool

	// Report flags
	csvOut       string
	wardCSVOut   string
	xlsxOut      string
	chartDir     string
	printZone    string
	printOut     string
	quiet        bool
	withMetadata bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "poi-report [flags] <input.csv>",
	Short: "POI coverage survey report",
	Long: `Aggregates a POI coverage survey CSV export by zone and ward.

Prints zone and ward coverage tables with the best and worst wards, and can
export the report as CSV or XLSX, draw per-zone charts and write a printable
HTML report for a single zone.

Recognised columns: "Zone & Circle" (or "Zone"), "Ward Name" (or "Ward"),
"Total", "Covered", "Not Covered", "Coverage", "Vehicle Number".`,
	Example: `  # Print the report tables
  poi-report survey.csv

  # Export zone and ward tables
  poi-report --csv zones.csv --ward-csv wards.csv --xlsx report.xlsx survey.csv

  # Printable report for one zone
  poi-report --print-zone 1-City --print-out city.html survey.csv

  # Serve the upload API and a browser page
  poi-report serve --addr :8080 --static ./web`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runReport,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "poi-report.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&csvOut, "csv", "", "Write the zone table to this CSV file")
	rootCmd.Flags().StringVar(&wardCSVOut, "ward-csv", "", "Write the ward table to this CSV file")
	rootCmd.Flags().StringVar(&xlsxOut, "xlsx", "", "Write the report to this XLSX workbook")
	rootCmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write one PNG chart per zone into this directory")
	rootCmd.Flags().StringVar(&printZone, "print-zone", "", "Zone to write a printable HTML report for")
	rootCmd.Flags().StringVar(&printOut, "print-out", "", "Printable report path (defaults to <zone>-report.html)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the report tables")
	rootCmd.Flags().BoolVar(&withMetadata, "header", true, "Include report metadata rows in CSV exports")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	st := store.New(cfg.Zones, logger)
	return processFile(st, args[0], cmd.OutOrStdout())
}

func processFile(st *store.Store, inputPath string, out io.Writer) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".csv" {
		return fmt.Errorf("expected .csv file, got %q", ext)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	res, err := st.Load(filepath.Base(inputPath), f)
	if err != nil {
		return err
	}

	sum := aggregate.Summarize(res, cfg.Report.RankingSize)

	if len(res.Zones) == 0 {
		logger.Warn("No data rows found", zap.String("input", inputPath))
	}

	if !quiet {
		if err := writer.WriteTerminal(out, sum); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	}

	csvWriter := &writer.CSVWriter{IncludeHeader: withMetadata}
	if csvOut != "" {
		if err := csvWriter.WriteToFile(csvOut, sum); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		logger.Info("Wrote zone CSV", zap.String("path", csvOut))
	}

	if wardCSVOut != "" {
		if err := writeFile(wardCSVOut, func(w io.Writer) error { return csvWriter.WriteWards(w, sum) }); err != nil {
			return fmt.Errorf("ward CSV write failed: %w", err)
		}
		logger.Info("Wrote ward CSV", zap.String("path", wardCSVOut))
	}

	if xlsxOut != "" {
		if err := writeFile(xlsxOut, func(w io.Writer) error { return writer.WriteXLSX(w, sum) }); err != nil {
			return fmt.Errorf("XLSX write failed: %w", err)
		}
		logger.Info("Wrote workbook", zap.String("path", xlsxOut))
	}

	if chartDir != "" {
		if err := writeCharts(chartDir, sum); err != nil {
			return err
		}
	}

	if printZone != "" {
		if err := writePrintReport(st, printZone, printOut); err != nil {
			return err
		}
	}

	return nil
}

func writeCharts(dir string, sum *models.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	size := writer.ChartSize{Width: cfg.Report.ChartWidth, Height: cfg.Report.ChartHeight}
	for _, pie := range sum.Charts {
		path := filepath.Join(dir, "chart-"+fileSafe(pie.Zone)+".png")
		if err := writeFile(path, func(w io.Writer) error { return writer.WriteChartPNG(w, pie, size) }); err != nil {
			return fmt.Errorf("chart for zone %q failed: %w", pie.Zone, err)
		}
		logger.Debug("Wrote chart", zap.String("zone", pie.Zone), zap.String("path", path))
	}
	logger.Info("Wrote charts", zap.Int("count", len(sum.Charts)), zap.String("dir", dir))
	return nil
}

func writePrintReport(st *store.Store, zoneName, path string) error {
	_, zone, err := st.Zone(zoneName)
	if err != nil {
		return err
	}
	if path == "" {
		path = fileSafe(zone.Zone) + "-report.html"
	}

	var buf bytes.Buffer
	size := writer.ChartSize{Width: cfg.Report.ChartWidth, Height: cfg.Report.ChartHeight}
	if err := writer.RenderZoneReport(&buf, cfg.Report.Title, zone, size, time.Now(), logger); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write print report: %w", err)
	}
	logger.Info("Wrote print report", zap.String("zone", zone.Zone), zap.String("path", path))
	return nil
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fileSafe replaces characters that do not belong in file names.
func fileSafe(name string) string {
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
