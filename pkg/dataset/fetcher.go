package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/filter"
)

// Fetcher is the contract with the warehouse layer: base filters in, raw rows
// out. Cross-filtered fields never appear in the base filters, they are
// resolved against already fetched data instead.
type Fetcher interface {
	Fetch(ctx context.Context, base map[string]any) ([]crossfilter.Row, error)
}

type warehouseRequest struct {
	Filters map[string]any `json:"filters"`
}

type warehouseResponse struct {
	Rows []crossfilter.Row `json:"rows"`
}

// WarehouseClient fetches datasets from the managed warehouse proxy over
// HTTP.
type WarehouseClient struct {
	Endpoint   string
	HttpClient *http.Client
}

func NewWarehouseClient(endpoint string) *WarehouseClient {
	return &WarehouseClient{
		Endpoint:   endpoint,
		HttpClient: &http.Client{},
	}
}

func (c *WarehouseClient) Fetch(ctx context.Context, base map[string]any) ([]crossfilter.Row, error) {
	body, err := json.Marshal(warehouseRequest{Filters: base})
	if err != nil {
		return nil, fmt.Errorf("error marshaling warehouse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating warehouse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending warehouse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK response from warehouse: %d", resp.StatusCode)
	}

	var result warehouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding warehouse response: %w", err)
	}
	return result.Rows, nil
}

// FileFetcher serves a fixed dataset from a json file, used for local
// development without warehouse access. Base filters are applied in process.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Fetch(ctx context.Context, base map[string]any) ([]crossfilter.Row, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result warehouseResponse
	if err := json.NewDecoder(file).Decode(&result); err != nil {
		return nil, err
	}

	rows := result.Rows
	for field, value := range base {
		rows = crossfilter.Refilter(rows, fieldFilters(field, value))
	}
	return rows, nil
}

// fieldFilters expands a base-filter value into predicates, lists mean any-of.
func fieldFilters(field string, value any) []filter.Filter {
	switch typed := value.(type) {
	case []string:
		filters := make([]filter.Filter, len(typed))
		for i, v := range typed {
			filters[i] = filter.Filter{Field: field, Value: v}
		}
		return filters
	case []any:
		filters := make([]filter.Filter, len(typed))
		for i, v := range typed {
			filters[i] = filter.Filter{Field: field, Value: filter.Normalize(v)}
		}
		return filters
	default:
		return []filter.Filter{{Field: field, Value: filter.Normalize(value)}}
	}
}
