// Package sheets wraps the Google Sheets API behind the small value store
// surface the rest of the service consumes. One long lived client is built
// at startup and shared; the API quota is the real concurrency limit, not
// this wrapper.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a Sheets client from service account credentials JSON.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("sheets credentials are empty")
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	log.Debugf("sheets client created for spreadsheet %s", spreadsheetID)
	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (c *Client) Get(ctx context.Context, readRange string) ([][]any, error) {
	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", readRange, err)
	}
	return resp.Values, nil
}

// Update writes raw values. The RAW input option keeps the API from
// reinterpreting strings as formulas or dates.
func (c *Client) Update(ctx context.Context, updateRange string, rows [][]any) error {
	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, updateRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", updateRange, err)
	}
	return nil
}

// UpdateFormulas writes values with USER_ENTERED so that cells starting
// with "=" become live formulas.
func (c *Client) UpdateFormulas(ctx context.Context, updateRange string, rows [][]any) error {
	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, updateRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update formulas %s: %w", updateRange, err)
	}
	return nil
}

// EnsureSheet creates a sheet (tab) with the given title if the spreadsheet
// does not have one yet. An already existing sheet is not an error.
func (c *Client) EnsureSheet(ctx context.Context, title string, rowCount, columnCount int64) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: title,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    rowCount,
						ColumnCount: columnCount,
					},
				},
			},
		}},
	}
	_, err := c.service.Spreadsheets.
		BatchUpdate(c.spreadsheetID, req).
		Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 400 && strings.Contains(apiErr.Message, "already exists") {
			log.Tracef("sheet %s already exists", title)
			return nil
		}
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return nil
}

func (c *Client) Append(ctx context.Context, appendRange string, rows [][]any) error {
	_, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, appendRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", appendRange, err)
	}
	return nil
}
