package osfapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
	"github.com/aalvaropc/preprints/internal/ports"
)

var _ ports.TaxonomyProvider = (*Client)(nil)

// Children lists one page of taxonomy children of parentID, mapped to {id, name}.
func (c *Client) Children(ctx context.Context, parentID string, pageSize int) ([]domain.Subject, error) {
	if parentID == "" {
		parentID = domain.RootParent
	}
	q := url.Values{"filter[parent_ids]": {parentID}}
	if pageSize > 0 {
		q.Set("page[size]", strconv.Itoa(pageSize))
	}

	var doc listDocument
	err := c.do(ctx, "osfapi.taxonomies", httpclient.Request{
		Method: http.MethodGet,
		URL:    c.endpoint("taxonomies"),
		Query:  q,
	}, &doc)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Subject, 0, len(doc.Data))
	for _, r := range doc.Data {
		var attrs taxonomyAttributes
		if err := decodeAttributes(r, &attrs); err != nil {
			return nil, &domain.OpError{Op: "osfapi.taxonomies", Kind: domain.KindExecution, Err: err}
		}
		out = append(out, domain.Subject{ID: r.ID, Name: attrs.Text})
	}
	return out, nil
}
