package sharesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
	"github.com/aalvaropc/preprints/internal/ports"
)

// totalQuery matches every document of type preprint and returns no hits, only the total.
var totalQuery = map[string]any{
	"size": 0,
	"from": 0,
	"query": map[string]any{
		"bool": map[string]any{
			"must": map[string]any{
				"query_string": map[string]any{"query": "*"},
			},
			"filter": []any{
				map[string]any{"term": map[string]any{"type.raw": "preprint"}},
			},
		},
	},
}

// Counter asks the search index how many preprints it holds.
type Counter struct {
	url  string
	exec *httpclient.Executor
}

func NewCounter(searchURL string, exec *httpclient.Executor) *Counter {
	if exec == nil {
		exec = httpclient.NewExecutor()
	}
	return &Counter{url: searchURL, exec: exec}
}

var _ ports.SearchCounter = (*Counter)(nil)

func (c *Counter) CountPreprints(ctx context.Context) (int64, error) {
	req, err := httpclient.BuildRequest(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.url,
		JSON:   totalQuery,
	})
	if err != nil {
		return 0, err
	}

	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		return 0, &domain.OpError{Op: "sharesearch.count", Kind: domain.KindExecution, Path: c.url, Err: err}
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return 0, &domain.OpError{
			Op:   "sharesearch.count",
			Kind: domain.KindRemote,
			Path: c.url,
			Err:  &domain.RemoteError{Status: resp.Status},
		}
	}

	total, err := parseTotal(resp.BodyBytes)
	if err != nil {
		return 0, &domain.OpError{Op: "sharesearch.count", Kind: domain.KindExecution, Path: c.url, Err: err}
	}
	return total, nil
}

// parseTotal reads hits.total, which is a number on older indexes and {value, relation} on newer ones.
func parseTotal(body []byte) (int64, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return 0, err
	}
	val, err := jsonpath.Get("$.hits.total", doc)
	if err != nil {
		return 0, err
	}
	switch t := val.(type) {
	case float64:
		return int64(t), nil
	case map[string]any:
		if v, ok := t["value"].(float64); ok {
			return int64(v), nil
		}
	}
	return 0, fmt.Errorf("unexpected hits.total %v", val)
}
