package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-health/internal/cache"
	"github.com/andresuchdata/inventory-health/internal/config"
	"github.com/andresuchdata/inventory-health/internal/domain"
	"github.com/andresuchdata/inventory-health/internal/pipeline"
	inventoryhealth "github.com/andresuchdata/inventory-health/internal/pipeline/inventory_health"
	"github.com/andresuchdata/inventory-health/internal/repository"
	"github.com/andresuchdata/inventory-health/internal/sheet"
	"github.com/andresuchdata/inventory-health/internal/storage"
	"github.com/andresuchdata/inventory-health/internal/voucher"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrStorageDisabled is returned by object operations when no storage driver is configured
	ErrStorageDisabled = errors.New("object storage is not configured")
	// ErrNoVoucherSource is returned when voucher types are requested but no mapping is available
	ErrNoVoucherSource = errors.New("no voucher mapping source configured")
	// ErrDatabaseDisabled is returned by mapping imports when no database is configured
	ErrDatabaseDisabled = errors.New("database is not configured")
)

// voucherSourceDB is the cache key for mappings read from the database
const voucherSourceDB = "db"

// AnalyzeInput is one stock summary to analyze. Voucher, when set, supplies
// the voucher mapping for this run only.
type AnalyzeInput struct {
	Request         domain.AnalysisRequest
	Filename        string
	Data            io.Reader
	Voucher         io.Reader
	VoucherFilename string
}

type InventoryHealthService struct {
	defaults    config.AnalysisConfig
	voucherFile string
	uploadDir   string
	exportDir   string
	vouchers    repository.VoucherRepository
	cache       cache.VoucherCache
	store       storage.ObjectStorage
}

// NewInventoryHealthService wires the analysis service. repo and store may be
// nil; a nil cache falls back to a no-op cache.
func NewInventoryHealthService(cfg *config.Config, repo repository.VoucherRepository, cacheImpl cache.VoucherCache, store storage.ObjectStorage) *InventoryHealthService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopVoucherCache()
	}
	return &InventoryHealthService{
		defaults:    cfg.Analysis,
		voucherFile: cfg.App.VoucherFile,
		uploadDir:   cfg.App.UploadDir,
		exportDir:   cfg.App.ExportDir,
		vouchers:    repo,
		cache:       cacheImpl,
		store:       store,
	}
}

// Params resolves request parameters against the configured defaults.
func (s *InventoryHealthService) Params(req domain.AnalysisRequest) (inventoryhealth.Params, error) {
	numDays, err := req.ResolveNumDays()
	if err != nil {
		return inventoryhealth.Params{}, err
	}
	params := inventoryhealth.Params{
		LeadTime:            req.LeadTime,
		DaysStockToMaintain: req.DaysStockToMaintain,
		NumDays:             numDays,
	}
	if params.LeadTime == 0 {
		params.LeadTime = s.defaults.LeadTime
	}
	if params.DaysStockToMaintain == 0 {
		params.DaysStockToMaintain = s.defaults.DaysStockToMaintain
	}
	return params, params.Validate()
}

func (s *InventoryHealthService) options(req domain.AnalysisRequest) inventoryhealth.Options {
	opts := inventoryhealth.Options{
		Layout:           inventoryhealth.Layout(strings.ToLower(strings.TrimSpace(req.Layout))),
		ExtraColumn:      s.defaults.ExtraColumn,
		StrictZeroFilter: s.defaults.StrictZeroFilter,
		VoucherTypes:     req.VoucherTypeList(),
	}
	if opts.Layout == "" {
		opts.Layout = inventoryhealth.Layout(strings.ToLower(s.defaults.Layout))
	}
	if req.ExtraColumn != nil {
		opts.ExtraColumn = *req.ExtraColumn
	}
	if req.StrictZeroFilter != nil {
		opts.StrictZeroFilter = *req.StrictZeroFilter
	}
	return opts
}

// Analyze reads the stock summary and, when requested, the voucher mapping
// concurrently, then runs the analysis.
func (s *InventoryHealthService) Analyze(ctx context.Context, in AnalyzeInput) (*domain.AnalysisResponse, error) {
	params, err := s.Params(in.Request)
	if err != nil {
		return nil, err
	}
	opts := s.options(in.Request)

	var (
		rows   [][]any
		lookup voucher.Lookup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = sheet.Read(in.Data, in.Filename)
		return err
	})
	if needVouchers(in.Request, opts) || in.Voucher != nil {
		g.Go(func() error {
			var err error
			lookup, err = s.voucherLookup(gctx, in.Voucher, in.VoucherFilename)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if lookup != nil {
		opts.Vouchers = lookup
	}

	start := time.Now()
	result, err := inventoryhealth.Analyze(inventoryhealth.RawTable(rows), params, opts)
	if err != nil {
		return nil, err
	}
	return s.respond(in.Filename, result, start), nil
}

// needVouchers reports whether the run has to resolve a voucher mapping.
func needVouchers(req domain.AnalysisRequest, opts inventoryhealth.Options) bool {
	return req.EnrichVouchers || len(opts.VoucherTypes) > 0
}

func (s *InventoryHealthService) respond(source string, result *inventoryhealth.Result, start time.Time) *domain.AnalysisResponse {
	resp := &domain.AnalysisResponse{
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Result:      result,
		Summary:     inventoryhealth.SummaryMetrics(result.Aggregates),
	}

	log.Info().
		Str("run_id", resp.RunID).
		Str("source", source).
		Int("records", len(result.Records)).
		Int("overstock", result.Aggregates.OverstockCount).
		Int("understock", result.Aggregates.UnderstockCount).
		Int("negative_stock", result.Aggregates.NegativeStockCount).
		Int("unsold_stock", result.Aggregates.UnsoldStockCount).
		Int("warnings", len(result.Warnings)).
		Dur("elapsed", time.Since(start)).
		Msg("inventory health: analysis completed")

	return resp
}

// AnalyzeFile analyzes a local workbook or csv through the file pipeline.
func (s *InventoryHealthService) AnalyzeFile(ctx context.Context, path string, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	params, err := s.Params(req)
	if err != nil {
		return nil, err
	}
	opts := s.options(req)
	if needVouchers(req, opts) {
		lookup, err := s.voucherLookup(ctx, nil, "")
		if err != nil {
			return nil, err
		}
		opts.Vouchers = lookup
	}

	start := time.Now()
	p := inventoryhealth.NewInventoryHealthPipeline(inventoryhealth.Config{Params: params, Options: opts})
	result, err := p.Run(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.respond(path, result, start), nil
}

// AnalyzeObject downloads key from object storage into a temp file under the
// upload dir and analyzes it.
func (s *InventoryHealthService) AnalyzeObject(ctx context.Context, key string, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if !sheet.Supported(key) {
		return nil, fmt.Errorf("%w: %s", sheet.ErrUnsupportedFormat, key)
	}

	// one temp file per call, so concurrent runs on the same key never share a path
	dir := filepath.Join(s.uploadDir, "objects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "*-"+filepath.Base(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	dest := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(dest)

	if err := s.store.DownloadObject(ctx, key, dest); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}

	resp, err := s.AnalyzeFile(ctx, dest, req)
	if err != nil {
		return nil, err
	}
	resp.Source = key
	return resp, nil
}

// ExportReport writes the report tables as csv files into dir (the configured
// export dir when empty). With a non-empty uploadPrefix the files are also
// uploaded to object storage under <uploadPrefix>/<run_id>/.
func (s *InventoryHealthService) ExportReport(ctx context.Context, resp *domain.AnalysisResponse, dir, uploadPrefix string) ([]string, error) {
	if dir == "" {
		dir = s.exportDir
	}
	if uploadPrefix != "" && s.store == nil {
		return nil, ErrStorageDisabled
	}

	tables := inventoryhealth.ReportTables(resp.Result)
	paths, err := pipeline.WriteTables(dir, resp.RunID, tables)
	if err != nil {
		return paths, err
	}
	if uploadPrefix == "" {
		resp.Exports = paths
		return paths, nil
	}

	keys := make([]string, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, t := range tables {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := pipeline.WriteCSV(&buf, t); err != nil {
				return err
			}
			key := strings.TrimSuffix(uploadPrefix, "/") + "/" + resp.RunID + "/" + t.Name + ".csv"
			if err := s.store.UploadObject(gctx, key, buf.Bytes()); err != nil {
				return err
			}
			keys[i] = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return paths, fmt.Errorf("failed to upload report: %w", err)
	}

	log.Info().Str("run_id", resp.RunID).Strs("keys", keys).Msg("inventory health: report uploaded")
	resp.Exports = append(paths, keys...)
	return resp.Exports, nil
}

// ListObjects lists stock summaries available in object storage under prefix.
func (s *InventoryHealthService) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	objects, err := s.store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}
	supported := make([]storage.ObjectInfo, 0, len(objects))
	for _, o := range objects {
		if sheet.Supported(o.Key) {
			supported = append(supported, o)
		}
	}
	return supported, nil
}

// VoucherTypes lists the distinct voucher types of the configured mapping.
func (s *InventoryHealthService) VoucherTypes(ctx context.Context) ([]string, error) {
	lookup, err := s.voucherLookup(ctx, nil, "")
	if err != nil {
		return nil, err
	}
	return lookup.Types(), nil
}

// RefreshVoucherTypes drops cached mappings so the next run reads the database again.
func (s *InventoryHealthService) RefreshVoucherTypes(ctx context.Context) ([]string, error) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to invalidate voucher cache: %w", err)
	}
	return s.VoucherTypes(ctx)
}

// ImportVoucherMappings replaces the database mapping with the pairs in the
// side file at path and drops the cached copy.
func (s *InventoryHealthService) ImportVoucherMappings(ctx context.Context, path string) (int, error) {
	if s.vouchers == nil {
		return 0, ErrDatabaseDisabled
	}
	lookup, err := voucher.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if len(lookup) == 0 {
		return 0, fmt.Errorf("%w: %s has no voucher mappings", inventoryhealth.ErrMalformedInput, path)
	}

	n, err := s.vouchers.ReplaceMappings(ctx, lookup)
	if err != nil {
		return 0, err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("inventory health: cache invalidate after import failed")
	}
	log.Info().Str("file", path).Int("mappings", n).Msg("inventory health: voucher mappings imported")
	return n, nil
}

// voucherLookup prefers an uploaded mapping, then the database (read through
// the cache), then the configured side file.
func (s *InventoryHealthService) voucherLookup(ctx context.Context, upload io.Reader, filename string) (voucher.Lookup, error) {
	if upload != nil {
		return voucher.Load(upload, filename)
	}
	if s.vouchers != nil {
		mappings, err := s.voucherMappings(ctx)
		if err != nil {
			return nil, err
		}
		return voucher.New(mappings), nil
	}
	if s.voucherFile != "" {
		return voucher.LoadFile(s.voucherFile)
	}
	return nil, ErrNoVoucherSource
}

func (s *InventoryHealthService) voucherMappings(ctx context.Context) (map[string]string, error) {
	if mappings, ok, err := s.cache.GetMappings(ctx, voucherSourceDB); err == nil && ok {
		return mappings, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory health: cache get voucher mappings failed")
	}

	mappings, err := s.vouchers.ListMappings(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetMappings(ctx, voucherSourceDB, mappings); err != nil {
		log.Warn().Err(err).Msg("inventory health: cache set voucher mappings failed")
	}
	return mappings, nil
}
