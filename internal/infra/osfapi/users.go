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

var _ ports.ContributorSearch = (*Client)(nil)

// SearchUsers returns one page of users whose full name matches.
func (c *Client) SearchUsers(ctx context.Context, fullName string, page domain.Page) (domain.UserPage, error) {
	q := url.Values{"filter[full_name]": {fullName}}
	if page.Number > 0 {
		q.Set("page", strconv.Itoa(page.Number))
	}
	if page.Size > 0 {
		q.Set("page[size]", strconv.Itoa(page.Size))
	}

	var doc listDocument
	err := c.do(ctx, "osfapi.search_users", httpclient.Request{
		Method: http.MethodGet,
		URL:    c.endpoint("users"),
		Query:  q,
	}, &doc)
	if err != nil {
		return domain.UserPage{}, err
	}

	out := domain.UserPage{
		Users: make([]domain.User, 0, len(doc.Data)),
		Total: doc.total(),
		Next:  doc.Links.Next != "",
	}
	for _, r := range doc.Data {
		var attrs userAttributes
		if err := decodeAttributes(r, &attrs); err != nil {
			return domain.UserPage{}, &domain.OpError{Op: "osfapi.search_users", Kind: domain.KindExecution, Err: err}
		}
		out.Users = append(out.Users, domain.User{ID: r.ID, FullName: attrs.FullName})
	}
	return out, nil
}
