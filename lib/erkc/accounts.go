package erkc

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// Accounts lists the personal account numbers reachable from this
// login, primary account first.
func (c *Client) Accounts(ctx context.Context) ([]int64, error) {
	ctx, span := tracer.Start(ctx, "client:Accounts")
	defer span.End()

	if _, err := c.acquireSession(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire session")
		return nil, err
	}

	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return slices.Clone(c.session.accounts), nil
}

// AccountInfo fetches the summary widget of one account.
func (c *Client) AccountInfo(ctx context.Context, account int64) (AccountInfo, error) {
	ctx, span := tracer.Start(ctx, "client:AccountInfo")
	defer span.End()

	res, err := c.fetch(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Get(fmt.Sprintf(profilePath, account))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch account page")
		return AccountInfo{}, err
	}

	doc, err := newDocument(res.Body())
	if err != nil {
		return AccountInfo{}, err
	}
	widget, err := parseAccountWidget(doc)
	if err != nil {
		span.SetStatus(codes.Error, "account page layout changed")
		return AccountInfo{}, err
	}
	return mapAccountInfo(account, widget)
}
