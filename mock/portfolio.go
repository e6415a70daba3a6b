package mock

import (
	"context"

	"github.com/fwojciec/patentenrich"
)

// Compile-time interface verification.
var (
	_ patentenrich.PortfolioWriter = (*PortfolioWriter)(nil)
	_ patentenrich.RunService      = (*RunService)(nil)
)

// PortfolioWriter is a mock implementation of patentenrich.PortfolioWriter.
type PortfolioWriter struct {
	WritePortfolioFn func(ctx context.Context, p *patentenrich.Portfolio) error
}

func (w *PortfolioWriter) WritePortfolio(ctx context.Context, p *patentenrich.Portfolio) error {
	return w.WritePortfolioFn(ctx, p)
}

// RunService is a mock implementation of patentenrich.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *patentenrich.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*patentenrich.Run, error)
	FindRunsFn    func(ctx context.Context, filter patentenrich.RunFilter) ([]*patentenrich.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *patentenrich.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*patentenrich.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter patentenrich.RunFilter) ([]*patentenrich.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
