package osfapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Wire shapes of the JSON:API documents the API answers with.

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
	Embeds        map[string]embedded     `json:"embeds,omitempty"`
	Links         map[string]any          `json:"links,omitempty"`
}

type relationship struct {
	Data *resourceID `json:"data,omitempty"`
}

type resourceID struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type embedded struct {
	Data *resource `json:"data,omitempty"`
}

type listLinks struct {
	Next string `json:"next"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type listDocument struct {
	Data  []resource `json:"data"`
	Links listLinks  `json:"links"`
	Meta  struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func (d listDocument) total() int {
	if d.Meta.Total > 0 {
		return d.Meta.Total
	}
	return d.Links.Meta.Total
}

type singleDocument struct {
	Data resource `json:"data"`
}

type taxonomyAttributes struct {
	Text string `json:"text"`
}

type userAttributes struct {
	FullName string `json:"full_name"`
}

type nodeAttributes struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Category               string   `json:"category"`
	Public                 bool     `json:"public"`
	Registration           bool     `json:"registration"`
	Tags                   []string `json:"tags"`
	CurrentUserPermissions []string `json:"current_user_permissions"`
}

type contributorAttributes struct {
	Bibliographic bool   `json:"bibliographic"`
	Permission    string `json:"permission"`
}

type fileAttributes struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Kind     string `json:"kind"`
	Path     string `json:"path"`
}

type preprintAttributes struct {
	DOI         string     `json:"doi"`
	Subjects    [][]string `json:"subjects"`
	DateCreated string     `json:"date_created"`
}

// outgoing document: {"data": {"type": ..., "attributes": ..., "relationships": ...}}
type createDocument struct {
	Data createResource `json:"data"`
}

type createResource struct {
	Type          string                    `json:"type"`
	Attributes    any                       `json:"attributes"`
	Relationships map[string]createRelation `json:"relationships,omitempty"`
}

type createRelation struct {
	Data resourceID `json:"data"`
}

func decodeAttributes(r resource, out any) error {
	if len(r.Attributes) == 0 {
		return nil
	}
	return json.Unmarshal(r.Attributes, out)
}

func linkString(links map[string]any, key string) string {
	s, _ := links[key].(string)
	return s
}

// errorDetails pulls errors[*].detail out of an error body. Bodies that are not
// JSON:API error documents yield a trimmed snippet instead.
func errorDetails(body []byte) []string {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return []string{snippet(body)}
	}

	val, err := jsonpath.Get("$.errors[*].detail", doc)
	if err != nil {
		return nil
	}
	items, ok := val.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case string:
			out = append(out, t)
		case nil:
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
