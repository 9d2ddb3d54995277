package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/locvowork/excel_intelligence/internal/config"
	"github.com/locvowork/excel_intelligence/internal/domain"
	"github.com/locvowork/excel_intelligence/internal/service"
	"github.com/locvowork/excel_intelligence/internal/session"
)

// cliSession is the single session every command works in.
const cliSession = "cli"

// openService loads paths into a fresh in-memory session.
func openService(ctx context.Context, viewConfig string, paths []string) (*service.ViewerService, []domain.Workbook, error) {
	cfg, err := config.LoadViewConfig(viewConfig)
	if err != nil {
		return nil, nil, err
	}

	uploads := make([]domain.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", p, err)
		}
		uploads = append(uploads, domain.Upload{Name: filepath.Base(p), Data: data})
	}

	svc := service.NewViewerService(session.NewStore(0), cfg, service.ViewerOptions{ScanWorkers: len(paths)})
	files, err := svc.Upload(ctx, cliSession, uploads)
	if err != nil {
		return nil, nil, err
	}
	return svc, files, nil
}
