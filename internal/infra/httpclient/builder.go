package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aalvaropc/preprints/internal/domain"
)

// Request describes one outgoing call.
// At most one of JSON/Body is used; JSON wins when both are set.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string

	JSON        any
	Body        io.Reader
	ContentType string // Optional override.
	// ContentLength is the size of Body when it cannot be inferred (files).
	// Zero leaves the request chunked.
	ContentLength int64
}

// BuildRequest builds an HTTP request from a Request.
func BuildRequest(ctx context.Context, spec Request) (*http.Request, error) {
	if strings.TrimSpace(spec.URL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidInput,
		}
	}

	target, err := url.Parse(spec.URL)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: spec.URL,
			Err:  err,
		}
	}
	if len(spec.Query) > 0 {
		q := target.Query()
		for k, vs := range spec.Query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader = http.NoBody
	contentType := spec.ContentType

	switch {
	case spec.JSON != nil:
		payload, err := json.Marshal(spec.JSON)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "httpclient.build",
				Kind: domain.KindInvalidConfig,
				Err:  err,
			}
		}
		body = bytes.NewReader(payload)
		if contentType == "" {
			contentType = "application/json"
		}
	case spec.Body != nil:
		body = spec.Body
	}

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: spec.URL,
			Err:  err,
		}
	}

	if spec.JSON == nil && spec.Body != nil && spec.ContentLength > 0 {
		req.ContentLength = spec.ContentLength
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}
