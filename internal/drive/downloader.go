package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/andresuchdata/inventory-health/internal/sheet"
)

// FileSource is the part of Service the Downloader needs.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DownloadFile(ctx context.Context, f *File, w io.Writer) error
}

// Downloader pulls stock summary workbooks from Google Drive into a local directory.
type Downloader struct {
	source FileSource
}

// NewDownloader creates a new Downloader.
func NewDownloader(s FileSource) *Downloader {
	return &Downloader{source: s}
}

// DownloadFile saves fileID into dir under its Drive name and returns the local path.
func (d *Downloader) DownloadFile(ctx context.Context, fileID, dir string) (string, error) {
	f, err := d.source.GetFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	return d.save(ctx, f, dir)
}

// DownloadLatest saves the most recently modified supported workbook in folderID.
func (d *Downloader) DownloadLatest(ctx context.Context, folderID, dir string) (string, error) {
	files, err := d.source.ListFiles(ctx, folderID)
	if err != nil {
		return "", err
	}

	candidates := make([]*File, 0, len(files))
	for _, f := range files {
		if sheet.Supported(f.LocalName()) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no stock summary workbook found in folder %s", folderID)
	}

	// RFC 3339 timestamps sort lexically
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ModifiedTime > candidates[j].ModifiedTime
	})
	return d.save(ctx, candidates[0], dir)
}

func (d *Downloader) save(ctx context.Context, f *File, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := f.LocalName()
	if !sheet.Supported(name) {
		return "", fmt.Errorf("%w: %s", sheet.ErrUnsupportedFormat, f.Name)
	}
	if dir == "" {
		return "", fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	localPath := filepath.Join(dir, name)
	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	if err := d.source.DownloadFile(ctx, f, out); err != nil {
		out.Close()
		_ = os.Remove(localPath)
		return "", fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", localPath, err)
	}
	return localPath, nil
}

var _ FileSource = (*Service)(nil)
