package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/andresuchdata/inventory-health/internal/config"
	"github.com/andresuchdata/inventory-health/internal/domain"
	"github.com/andresuchdata/inventory-health/internal/drive"
	inventoryhealth "github.com/andresuchdata/inventory-health/internal/pipeline/inventory_health"
	"github.com/andresuchdata/inventory-health/internal/service"
	"github.com/andresuchdata/inventory-health/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	app := &cli.App{
		Name:  "inventory",
		Usage: "Analyze stock summary exports for over, under, negative and unsold stock",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Analyze one stock summary (local file, storage object or Google Drive file)",
				Flags: analyzeFlags(cfg),
				Action: func(c *cli.Context) error {
					return runAnalyze(c, cfg)
				},
			},
			{
				Name:  "voucher-types",
				Usage: "List the voucher types of the configured mapping",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "voucher-file",
						Usage:   "Item to voucher type mapping (csv or xlsx)",
						Value:   cfg.App.VoucherFile,
						EnvVars: []string{"VOUCHER_FILE"},
					},
				},
				Action: func(c *cli.Context) error {
					cfg.App.VoucherFile = c.String("voucher-file")
					svc, cleanup, err := service.NewFromConfig(cfg)
					if err != nil {
						return err
					}
					defer cleanup()

					types, err := svc.VoucherTypes(c.Context)
					if err != nil {
						return err
					}
					for _, t := range types {
						fmt.Fprintln(c.App.Writer, t)
					}
					return nil
				},
			},
			{
				Name:  "voucher-import",
				Usage: "Replace the database voucher mapping with a side file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Item to voucher type mapping (csv or xlsx)", Required: true},
				},
				Action: func(c *cli.Context) error {
					svc, cleanup, err := service.NewFromConfig(cfg)
					if err != nil {
						return err
					}
					defer cleanup()

					n, err := svc.ImportVoucherMappings(c.Context, c.String("file"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "imported %d voucher mappings\n", n)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("inventory command failed")
	}
}

func analyzeFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Local stock summary (xlsx or csv)"},
		&cli.StringFlag{Name: "object-key", Usage: "Stock summary key in object storage"},
		&cli.StringFlag{Name: "drive-file-id", Usage: "Google Drive file ID of the stock summary"},
		&cli.StringFlag{
			Name:    "drive-folder-id",
			Usage:   "Google Drive folder; the latest workbook in it is analyzed",
			EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
		},
		&cli.IntFlag{Name: "lead-time", Usage: "Supplier lead time in days", Value: cfg.Analysis.LeadTime},
		&cli.IntFlag{Name: "days-to-maintain", Usage: "Days of stock to maintain", Value: cfg.Analysis.DaysStockToMaintain},
		&cli.StringFlag{Name: "start-date", Usage: "Sales period start (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "end-date", Usage: "Sales period end (YYYY-MM-DD)"},
		&cli.IntFlag{Name: "num-days", Usage: "Sales period length in days, instead of start/end dates"},
		&cli.BoolFlag{Name: "strict", Usage: "Drop rows whose quantities and rates are zero but values are not", Value: cfg.Analysis.StrictZeroFilter},
		&cli.StringFlag{Name: "layout", Usage: "Column layout: auto, standard or indexed", Value: cfg.Analysis.Layout},
		&cli.IntFlag{Name: "extra-column", Usage: "Position of the discarded column in the indexed layout", Value: cfg.Analysis.ExtraColumn},
		&cli.StringFlag{
			Name:    "voucher-file",
			Usage:   "Item to voucher type mapping (csv or xlsx)",
			Value:   cfg.App.VoucherFile,
			EnvVars: []string{"VOUCHER_FILE"},
		},
		&cli.StringSliceFlag{Name: "voucher-types", Usage: "Only analyze items of these voucher types"},
		&cli.BoolFlag{Name: "enrich-vouchers", Usage: "Attach voucher types to every record"},
		&cli.StringFlag{Name: "export-dir", Usage: "Write report csv files into this directory"},
		&cli.StringFlag{Name: "upload-prefix", Usage: "Also upload the report to object storage under this prefix"},
		&cli.BoolFlag{Name: "json", Usage: "Print the full result as JSON"},
	}
}

func runAnalyze(c *cli.Context, cfg *config.Config) error {
	cfg.App.VoucherFile = c.String("voucher-file")
	svc, cleanup, err := service.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	strict := c.Bool("strict")
	extra := c.Int("extra-column")
	req := domain.AnalysisRequest{
		LeadTime:            c.Int("lead-time"),
		DaysStockToMaintain: c.Int("days-to-maintain"),
		StartDate:           c.String("start-date"),
		EndDate:             c.String("end-date"),
		NumDays:             c.Int("num-days"),
		StrictZeroFilter:    &strict,
		Layout:              c.String("layout"),
		ExtraColumn:         &extra,
		VoucherTypes:        c.StringSlice("voucher-types"),
		EnrichVouchers:      c.Bool("enrich-vouchers"),
	}

	var resp *domain.AnalysisResponse
	switch {
	case c.String("file") != "":
		resp, err = svc.AnalyzeFile(c.Context, c.String("file"), req)
	case c.String("object-key") != "":
		resp, err = svc.AnalyzeObject(c.Context, c.String("object-key"), req)
	case c.String("drive-file-id") != "" || c.String("drive-folder-id") != "":
		var path string
		path, err = downloadFromDrive(c, cfg)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		resp, err = svc.AnalyzeFile(c.Context, path, req)
	default:
		return cli.Exit("one of --file, --object-key, --drive-file-id or --drive-folder-id is required", 2)
	}
	if err != nil {
		return err
	}

	if dir, prefix := c.String("export-dir"), c.String("upload-prefix"); dir != "" || prefix != "" {
		if _, err := svc.ExportReport(c.Context, resp, dir, prefix); err != nil {
			return err
		}
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printSummary(c.App.Writer, resp)
	return nil
}

func downloadFromDrive(c *cli.Context, cfg *config.Config) (string, error) {
	if cfg.Drive.CredentialsJSON == "" {
		return "", cli.Exit("GOOGLE_DRIVE_CREDENTIALS_JSON env is required", 2)
	}
	driveSvc, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
	if err != nil {
		return "", err
	}

	downloader := drive.NewDownloader(driveSvc)
	dir := filepath.Join(cfg.App.UploadDir, "drive")
	if id := c.String("drive-file-id"); id != "" {
		return downloader.DownloadFile(c.Context, id, dir)
	}
	return downloader.DownloadLatest(c.Context, c.String("drive-folder-id"), dir)
}

func printSummary(w io.Writer, resp *domain.AnalysisResponse) {
	res := resp.Result
	fmt.Fprintf(w, "run %s: %s\n", resp.RunID, resp.Source)
	fmt.Fprintf(w, "period %d days, lead time %d, days to maintain %d\n\n",
		res.Params.NumDays, res.Params.LeadTime, res.Params.DaysStockToMaintain)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, m := range resp.Summary {
		value := "undefined"
		if m.Value != nil {
			value = inventoryhealth.FormatAmount(*m.Value, 2)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", m.Name, value)
	}
	tw.Flush()

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, path := range resp.Exports {
		fmt.Fprintf(w, "exported %s\n", path)
	}
}
