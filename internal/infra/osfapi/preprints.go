package osfapi

import (
	"context"
	"net/http"
	"time"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
	"github.com/aalvaropc/preprints/internal/ports"
)

var _ ports.PreprintSubmitter = (*Client)(nil)

type newPreprintAttributes struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	DOI         string     `json:"doi,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Subjects    [][]string `json:"subjects"`
}

// SubmitPreprint creates the preprint for a node and its primary file.
func (c *Client) SubmitPreprint(ctx context.Context, d domain.PreprintDraft) (domain.Preprint, error) {
	subjects := make([][]string, len(d.Subjects))
	for i, p := range d.Subjects {
		subjects[i] = []string(p)
	}

	rels := map[string]createRelation{
		"node": {Data: resourceID{ID: d.NodeID, Type: "nodes"}},
	}
	if d.PrimaryFileID != "" {
		rels["primary_file"] = createRelation{Data: resourceID{ID: d.PrimaryFileID, Type: "files"}}
	}
	if d.Provider != "" {
		rels["provider"] = createRelation{Data: resourceID{ID: d.Provider, Type: "preprint_providers"}}
	}

	var doc singleDocument
	err := c.do(ctx, "osfapi.submit_preprint", httpclient.Request{
		Method: http.MethodPost,
		URL:    c.endpoint("preprints"),
		JSON: createDocument{Data: createResource{
			Type: "preprints",
			Attributes: newPreprintAttributes{
				Title:       d.Basics.Title,
				Description: d.Basics.Abstract,
				DOI:         d.Basics.DOI,
				Tags:        d.Basics.Tags,
				Subjects:    subjects,
			},
			Relationships: rels,
		}},
	}, &doc)
	if err != nil {
		return domain.Preprint{}, err
	}

	var attrs preprintAttributes
	if err := decodeAttributes(doc.Data, &attrs); err != nil {
		return domain.Preprint{}, &domain.OpError{Op: "osfapi.submit_preprint", Kind: domain.KindExecution, Err: err}
	}

	out := domain.Preprint{ID: doc.Data.ID, NodeID: d.NodeID, DOI: attrs.DOI}
	for _, s := range attrs.Subjects {
		out.Subjects = append(out.Subjects, domain.Path(s))
	}
	if len(out.Subjects) == 0 {
		out.Subjects = d.Subjects
	}
	if ts, err := time.Parse(time.RFC3339Nano, attrs.DateCreated); err == nil {
		out.DateCreated = ts
	}
	return out, nil
}
