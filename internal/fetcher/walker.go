package fetcher

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/internal/provider"
	"github.com/ylchen07/keyweave/pkg/models"
)

// Client is a vault client that can both list and resolve secrets
type Client interface {
	provider.SecretLister
	provider.SecretGetter
}

// ListAll walks every page of the vault catalog and resolves the secrets of
// each page before requesting the next one.
// A page listing failure or a cancelled ctx aborts the walk; no partial result
// is returned.
func (f *Fetcher) ListAll(ctx context.Context, client Client) ([]models.SecretValue, error) {
	var values []models.SecretValue

	pager := client.NewSecretPager()
	for pageNum := 1; pager.More(); pageNum++ {
		page, err := pager.NextPage(ctx)
		if err != nil {
			f.logger.Debug("Failed to fetch secrets page", zap.Int("page", pageNum), zap.Error(err))
			return nil, errs.List(err, fmt.Sprintf("failed to fetch secrets page %d", pageNum))
		}

		resolved := f.ResolvePage(ctx, client, page)
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "interrupted while fetching secrets page %d", pageNum)
		}
		f.logger.Debug("Resolved secrets page",
			zap.Int("page", pageNum),
			zap.Int("listed", len(page)),
			zap.Int("resolved", len(resolved)))

		values = append(values, resolved...)
	}

	return values, nil
}
