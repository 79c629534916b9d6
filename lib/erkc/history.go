package erkc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// Accruals fetches the accrual history of an account for one year.
func (c *Client) Accruals(ctx context.Context, account int64, year int) ([]Accrual, error) {
	ctx, span := tracer.Start(ctx, "client:Accruals")
	defer span.End()

	rows, err := c.fetchHistory(ctx, fmt.Sprintf(accrualPath, account), year, selectors.accrualTable)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch accruals")
		return nil, err
	}

	accruals := make([]Accrual, len(rows))
	for i, row := range rows {
		accruals[i], err = mapAccrual(row)
		if err != nil {
			return nil, err
		}
	}
	return accruals, nil
}

// Payments fetches the payment history of an account for one year.
func (c *Client) Payments(ctx context.Context, account int64, year int) ([]Payment, error) {
	ctx, span := tracer.Start(ctx, "client:Payments")
	defer span.End()

	rows, err := c.fetchHistory(ctx, fmt.Sprintf(paymentPath, account), year, selectors.paymentTable)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch payments")
		return nil, err
	}

	payments := make([]Payment, len(rows))
	for i, row := range rows {
		payments[i], err = mapPayment(row)
		if err != nil {
			return nil, err
		}
	}
	return payments, nil
}

func (c *Client) fetchHistory(ctx context.Context, path string, year int, tableSelector string) ([][]string, error) {
	res, err := c.fetch(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("year", strconv.Itoa(year)).
			Get(path)
	})
	if err != nil {
		return nil, err
	}

	doc, err := newDocument(res.Body())
	if err != nil {
		return nil, err
	}
	return parseHistory(doc, tableSelector)
}
