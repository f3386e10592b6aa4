package osfapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
)

const jsonAPIContentType = "application/vnd.api+json"

// Client talks to the JSON:API backend (taxonomies, users, nodes, files, preprints).
type Client struct {
	base *url.URL
	exec *httpclient.Executor
	log  *slog.Logger
}

type Option func(*Client)

func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) { c.exec = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = domain.ErrInvalidConfig
		}
		return nil, &domain.OpError{
			Op:   "osfapi.new",
			Kind: domain.KindInvalidConfig,
			Path: baseURL,
			Err:  err,
		}
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		base: u,
		exec: httpclient.NewExecutor(),
		log:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins path segments under the base URL. The API expects a trailing slash.
func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	u := c.base.JoinPath(escaped...)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, op string, spec httpclient.Request, out any) error {
	if spec.Headers == nil {
		spec.Headers = map[string]string{}
	}
	if _, ok := spec.Headers["Accept"]; !ok {
		spec.Headers["Accept"] = jsonAPIContentType
	}
	if spec.JSON != nil && spec.ContentType == "" {
		spec.ContentType = jsonAPIContentType
	}

	req, err := httpclient.BuildRequest(ctx, spec)
	if err != nil {
		return err
	}

	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		c.log.Warn("osfapi.request_failed", "op", op, "url", req.URL.String(), "err", err)
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: req.URL.String(), Err: err}
	}
	c.log.Debug("osfapi.request", "op", op, "method", req.Method, "url", req.URL.String(),
		"status", resp.Status, "duration_ms", resp.Duration.Milliseconds())

	if resp.Status < 200 || resp.Status >= 300 {
		kind := domain.KindRemote
		if resp.Status == http.StatusNotFound {
			kind = domain.KindNotFound
		}
		return &domain.OpError{
			Op:   op,
			Kind: kind,
			Path: req.URL.String(),
			Err:  &domain.RemoteError{Status: resp.Status, Details: errorDetails(resp.BodyBytes)},
		}
	}

	if out == nil || len(resp.BodyBytes) == 0 {
		return nil
	}
	if resp.Truncated {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: req.URL.String(), Err: errors.New("response body too large")}
	}
	if err := json.Unmarshal(resp.BodyBytes, out); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: req.URL.String(), Err: err}
	}
	return nil
}

// eachPage walks a paged listing by following links.next.
func (c *Client) eachPage(ctx context.Context, op string, first httpclient.Request, fn func(listDocument) error) error {
	spec := first
	for {
		var doc listDocument
		if err := c.do(ctx, op, spec, &doc); err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		if doc.Links.Next == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		spec = httpclient.Request{Method: http.MethodGet, URL: doc.Links.Next}
	}
}
