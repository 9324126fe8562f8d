package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"

	"github.com/agentstation/teamroster/internal/transport"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
)

// exportURL is the CSV export endpoint for a published Google Sheet
// worksheet. Retrieval needs no credentials for sheets shared read-only.
const exportURL = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s"

// Client retrieves a worksheet as a Table.
type Client struct {
	http    *transport.Client
	sheetID string
	name    string
	baseURL string // overrides the export endpoint, used by tests
}

// NewClient creates a sheet client for one spreadsheet worksheet.
// The sheet ID and worksheet name come from the environment boundary.
func NewClient(http *transport.Client, sheetID, worksheet string) *Client {
	if http == nil {
		http = transport.New(&transport.NoAuth{}, "")
	}
	return &Client{http: http, sheetID: sheetID, name: worksheet}
}

// WithBaseURL overrides the worksheet export endpoint.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Fetch downloads the worksheet and parses it into a Table. The first
// record is the header set; every following record is a data row.
func (c *Client) Fetch(ctx context.Context) (*Table, error) {
	u := c.baseURL
	if u == "" {
		if c.sheetID == "" {
			return nil, errors.NewConfigError("sheet", "spreadsheet ID is not set", nil)
		}
		u = fmt.Sprintf(exportURL, url.PathEscape(c.sheetID), url.QueryEscape(c.name))
	}
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, errors.WrapIO("fetch", "worksheet "+c.name, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side only

	if resp.StatusCode != 200 {
		return nil, errors.NewAPIError("sheets", resp.StatusCode, "worksheet export failed")
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // rows may be ragged, the mapper pads
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", "worksheet "+c.name, err)
	}
	if len(records) == 0 {
		return nil, errors.WrapParse("csv", "worksheet "+c.name, errors.New("no header row"))
	}

	table := &Table{Header: records[0]}
	for i, record := range records[1:] {
		table.Rows = append(table.Rows, Row{Number: i + 1, Cells: record})
	}

	logging.Ctx(ctx).Info().
		Str("worksheet", c.name).
		Int("rows", table.Len()).
		Msg("Downloaded roster sheet")

	return table, nil
}
