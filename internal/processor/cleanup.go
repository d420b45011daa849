package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// moveToArchived moves a processed upload into the archive folder. An existing
// file of the same name is never overwritten; a timestamp suffix is added
// instead.
func (p *implProcessor) moveToArchived(ctx context.Context, srcPath string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	filename := filepath.Base(srcPath)
	destPath := filepath.Join(p.cfg.Paths.Archived, filename)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		stem := strings.TrimSuffix(filename, ext)
		destPath = filepath.Join(p.cfg.Paths.Archived, fmt.Sprintf("%s_%s%s", stem, p.now().Format("20060102-150405"), ext))
	}

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", srcPath, destPath)

	if err := os.Rename(srcPath, destPath); err != nil {
		// cross-device rename: copy then remove
		if err := p.copyFile(srcPath, destPath); err != nil {
			return "", fmt.Errorf("move to archived: %w", err)
		}
		if err := os.Remove(srcPath); err != nil {
			return "", fmt.Errorf("remove archived source: %w", err)
		}
	}

	return destPath, nil
}

// copyFile copies a file from src to dst
func (p *implProcessor) copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
		p.recorder.CleanupFailure("output")
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
