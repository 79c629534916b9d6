package erkc

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// Meters reads the meters of an account off the readings-submission
// form, with the last accepted reading for each.
func (c *Client) Meters(ctx context.Context, account int64) ([]Meter, error) {
	ctx, span := tracer.Start(ctx, "client:Meters")
	defer span.End()

	res, err := c.fetch(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Get(fmt.Sprintf(metersPath, account))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch meters page")
		return nil, err
	}

	doc, err := newDocument(res.Body())
	if err != nil {
		return nil, err
	}
	fields, err := parseMeters(doc)
	if err != nil {
		span.SetStatus(codes.Error, "meters page layout changed")
		return nil, err
	}

	meters := make([]Meter, len(fields))
	for i, f := range fields {
		meters[i], err = mapMeter(f)
		if err != nil {
			return nil, err
		}
	}
	return meters, nil
}

// SendReadings submits meter readings through the portal form.
func (c *Client) SendReadings(ctx context.Context, account int64, readings []Reading) error {
	ctx, span := tracer.Start(ctx, "client:SendReadings")
	defer span.End()

	if len(readings) == 0 {
		return nil
	}

	res, err := c.fetch(ctx, func(req *resty.Request) (*resty.Response, error) {
		// rebuilt per attempt, the csrf token changes on refresh
		form := url.Values{}
		form.Set("_token", c.csrfToken())
		for _, r := range readings {
			form.Set(fmt.Sprintf("rowId[%d]", r.MeterId), r.Value.String())
		}
		return req.
			SetBody(form.Encode()).
			SetHeader("content-type", "application/x-www-form-urlencoded").
			Post(fmt.Sprintf(metersPath, account))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit readings")
		return err
	}

	doc, err := newDocument(res.Body())
	if err != nil {
		return err
	}
	// the portal re-renders the form on success, its absence means
	// the page we got back is something else entirely
	if doc.Find(selectors.metersForm).Length() == 0 {
		span.SetStatus(codes.Error, "submission response layout changed")
		return &ParseError{
			Selector: selectors.metersForm,
			Detail:   "readings form absent from submission response",
		}
	}
	return nil
}
