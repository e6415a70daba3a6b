package mock_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioWriter_WritePortfolio(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WritePortfolioFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *patentenrich.Portfolio
		w := &mock.PortfolioWriter{
			WritePortfolioFn: func(_ context.Context, p *patentenrich.Portfolio) error {
				calledWith = p
				return nil
			},
		}
		p := patentenrich.NewPortfolio("Acme", nil, time.Now())

		err := w.WritePortfolio(context.Background(), p)

		require.NoError(t, err)
		assert.Same(t, p, calledWith)
	})
}
