package osfapi

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
	"github.com/aalvaropc/preprints/internal/ports"
)

var _ ports.FileUploader = (*Client)(nil)

// Upload PUTs the file body to uploadURL, which already carries kind/name.
func (c *Client) Upload(ctx context.Context, uploadURL string, file domain.UploadFile) (domain.UploadedFile, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return domain.UploadedFile{}, &domain.OpError{
			Op:   "osfapi.upload",
			Kind: domain.KindNotFound,
			Path: file.Path,
			Err:  err,
		}
	}
	defer f.Close()

	size := file.Size
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var doc singleDocument
	err = c.do(ctx, "osfapi.upload", httpclient.Request{
		Method:        http.MethodPut,
		URL:           uploadURL,
		Headers:       map[string]string{"Accept": "application/json"},
		Body:          f,
		ContentType:   contentType,
		ContentLength: size,
	}, &doc)
	if err != nil {
		return domain.UploadedFile{}, err
	}

	var attrs fileAttributes
	if err := decodeAttributes(doc.Data, &attrs); err != nil {
		c.log.Debug("osfapi.upload.attributes", "file", doc.Data.ID, "err", err)
	}
	out := domain.UploadedFile{ID: doc.Data.ID, Name: attrs.Name, Path: attrs.Path}
	if out.Name == "" {
		out.Name = file.Name
	}
	return out, nil
}
