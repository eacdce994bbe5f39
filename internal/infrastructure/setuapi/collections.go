package setuapi

import (
	"context"
	"encoding/json"
	"net/http"
)

// Upload is a file part for multipart create requests. The backend expects
// the part name "document" for both document and prescription uploads.
type Upload struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// List fetches all records in a collection for one user.
// path is the collection's URL segment (e.g. "prescription"), field the
// name wrapping the array in the response (e.g. "prescriptions").
func (c *Client) List(ctx context.Context, token, path, field, userID string) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/"+path+"/user/"+userID, nil, "", token)
	if err != nil {
		return nil, err
	}
	return unwrap(data, field)
}

// Create posts a JSON payload to a collection's create endpoint.
// When field is non-empty the created record is unwrapped from the
// response; otherwise the whole body is returned.
func (c *Client) Create(ctx context.Context, token, path, field string, payload any) (json.RawMessage, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/"+path+"/create", payload, token)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return data, nil
	}
	return unwrap(data, field)
}

// CreateMultipart posts a multipart form (string fields plus one file) to a
// collection's upload endpoint, used by collections carrying binary
// attachments.
func (c *Client) CreateMultipart(ctx context.Context, token, path, field string, fields map[string]string, file *Upload) (json.RawMessage, error) {
	body, contentType, err := multipartBody(fields, file)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/"+path+"/upload", body, contentType, token)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return data, nil
	}
	return unwrap(data, field)
}

// Delete removes one record by its server-assigned id.
func (c *Client) Delete(ctx context.Context, token, path, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/"+path+"/"+id, nil, "", token)
	return err
}
