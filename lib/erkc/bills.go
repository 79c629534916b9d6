package erkc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// Bill downloads the raw PDF of a bill for a billing period. Rendering
// it (or the QR codes inside it) to an image is a collaborator's job,
// this client only moves the bytes.
func (c *Client) Bill(ctx context.Context, account int64, kind BillKind, period time.Time) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:Bill")
	defer span.End()

	res, err := c.fetch(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("period", period.Format(periodLayout)).
			SetQueryParam("type", string(kind)).
			Get(fmt.Sprintf(billPath, account))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch bill")
		return nil, err
	}

	contentType := res.Header().Get("content-type")
	if !strings.HasPrefix(contentType, "application/pdf") {
		span.SetStatus(codes.Error, "bill endpoint returned non-pdf payload")
		return nil, &ParseError{
			Selector: "content-type",
			Detail:   fmt.Sprintf("expected application/pdf, got %q", contentType),
		}
	}
	return res.Body(), nil
}
