package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PublishedCSV reads a spreadsheet published to the web as CSV, such as a
// Google Sheets "publish to web" link. It cannot be written to.
type PublishedCSV struct {
	client *resty.Client
	url    string
}

// NewPublishedCSV returns a read-only source fetching url.
func NewPublishedCSV(url string, timeout time.Duration) *PublishedCSV {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv")
	return &PublishedCSV{client: client, url: url}
}

func (p *PublishedCSV) Read(ctx context.Context) (*Table, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode())
	}

	r := csv.NewReader(bytes.NewReader(resp.Body()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}
	return NewTable(records), nil
}

func (p *PublishedCSV) Append(ctx context.Context, header, row []string) error {
	return ErrReadOnly
}
