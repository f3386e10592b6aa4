package osfapi

import (
	"context"
	"net/http"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
	"github.com/aalvaropc/preprints/internal/ports"
)

var _ ports.NodeService = (*Client)(nil)

type newNodeAttributes struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Public      bool   `json:"public"`
}

// ListUserNodes lists every node of the current user.
func (c *Client) ListUserNodes(ctx context.Context) ([]domain.Node, error) {
	var out []domain.Node
	err := c.eachPage(ctx, "osfapi.user_nodes", httpclient.Request{
		Method: http.MethodGet,
		URL:    c.endpoint("users", "me", "nodes"),
	}, func(doc listDocument) error {
		for _, r := range doc.Data {
			n, err := mapNode(r)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	})
	return out, err
}

func (c *Client) CreateNode(ctx context.Context, n domain.NewNode) (domain.Node, error) {
	return c.createNode(ctx, "osfapi.create_node", c.endpoint("nodes"), n)
}

func (c *Client) AddChild(ctx context.Context, parentID string, n domain.NewNode) (domain.Node, error) {
	return c.createNode(ctx, "osfapi.add_child", c.endpoint("nodes", parentID, "children"), n)
}

func (c *Client) createNode(ctx context.Context, op, target string, n domain.NewNode) (domain.Node, error) {
	category := n.Category
	if category == "" {
		category = "project"
	}

	var doc singleDocument
	err := c.do(ctx, op, httpclient.Request{
		Method: http.MethodPost,
		URL:    target,
		JSON: createDocument{Data: createResource{
			Type: "nodes",
			Attributes: newNodeAttributes{
				Title:       n.Title,
				Description: n.Description,
				Category:    category,
				Public:      n.Public,
			},
		}},
	}, &doc)
	if err != nil {
		return domain.Node{}, err
	}
	return mapNode(doc.Data)
}

func (c *Client) DeleteNode(ctx context.Context, id string) error {
	return c.do(ctx, "osfapi.delete_node", httpclient.Request{
		Method: http.MethodDelete,
		URL:    c.endpoint("nodes", id),
	}, nil)
}

// StorageProviders lists the file providers of a node with their upload links.
func (c *Client) StorageProviders(ctx context.Context, nodeID string) ([]domain.StorageProvider, error) {
	var out []domain.StorageProvider
	err := c.eachPage(ctx, "osfapi.node_files", httpclient.Request{
		Method: http.MethodGet,
		URL:    c.endpoint("nodes", nodeID, "files"),
	}, func(doc listDocument) error {
		for _, r := range doc.Data {
			var attrs fileAttributes
			if err := decodeAttributes(r, &attrs); err != nil {
				return &domain.OpError{Op: "osfapi.node_files", Kind: domain.KindExecution, Err: err}
			}
			name := attrs.Name
			if name == "" {
				name = attrs.Provider
			}
			out = append(out, domain.StorageProvider{
				Name:      name,
				UploadURL: linkString(r.Links, "upload"),
			})
		}
		return nil
	})
	return out, err
}

// Contributors loads every contributor of a node, following pagination.
func (c *Client) Contributors(ctx context.Context, nodeID string) ([]domain.Contributor, error) {
	out := []domain.Contributor{}
	err := c.eachPage(ctx, "osfapi.contributors", httpclient.Request{
		Method: http.MethodGet,
		URL:    c.endpoint("nodes", nodeID, "contributors"),
		Query:  map[string][]string{"embed": {"users"}},
	}, func(doc listDocument) error {
		for _, r := range doc.Data {
			var attrs contributorAttributes
			if err := decodeAttributes(r, &attrs); err != nil {
				return &domain.OpError{Op: "osfapi.contributors", Kind: domain.KindExecution, Err: err}
			}
			ct := domain.Contributor{
				ID:            r.ID,
				Permission:    attrs.Permission,
				Bibliographic: attrs.Bibliographic,
			}
			if rel, ok := r.Relationships["users"]; ok && rel.Data != nil {
				ct.UserID = rel.Data.ID
			}
			if emb, ok := r.Embeds["users"]; ok && emb.Data != nil {
				if ct.UserID == "" {
					ct.UserID = emb.Data.ID
				}
				var ua userAttributes
				if err := decodeAttributes(*emb.Data, &ua); err == nil {
					ct.FullName = ua.FullName
				}
			}
			out = append(out, ct)
		}
		return nil
	})
	return out, err
}

func mapNode(r resource) (domain.Node, error) {
	var attrs nodeAttributes
	if err := decodeAttributes(r, &attrs); err != nil {
		return domain.Node{}, &domain.OpError{Op: "osfapi.map_node", Kind: domain.KindExecution, Err: err}
	}
	return domain.Node{
		ID:                     r.ID,
		Title:                  attrs.Title,
		Description:            attrs.Description,
		Category:               attrs.Category,
		Public:                 attrs.Public,
		Registration:           attrs.Registration,
		Tags:                   attrs.Tags,
		CurrentUserPermissions: attrs.CurrentUserPermissions,
	}, nil
}
