package setuapi

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	createProfilePath  = "/users/userprofile/create"
	updateProfilePath  = "/users/update-profile"
	generateQRCodePath = "/users/generate-qr-code"
	profilePath        = "/users/profile/"
	qrCodePath         = "/users/get-qr-code/"
)

// CreateProfile submits the one-time health profile as a multipart form.
// fields carries the flattened form values (including relatives entries);
// image is the optional profile photo.
func (c *Client) CreateProfile(ctx context.Context, token string, fields map[string]string, image *Upload) error {
	body, contentType, err := multipartBody(fields, image)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, createProfilePath, body, contentType, token)
	return err
}

// CompleteHealthForm marks the health profile as completed so login routes
// straight to the home screen from then on.
func (c *Client) CompleteHealthForm(ctx context.Context, token string) error {
	payload := map[string]bool{"isHealthFormCompleted": true}
	_, err := c.doJSON(ctx, http.MethodPut, updateProfilePath, payload, token)
	return err
}

// GenerateQRCode asks the backend to produce the user's shareable QR code.
func (c *Client) GenerateQRCode(ctx context.Context, token string) error {
	_, err := c.doJSON(ctx, http.MethodPost, generateQRCodePath, struct{}{}, token)
	return err
}

// Profile fetches the stored health profile for a user.
func (c *Client) Profile(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, profilePath+userID, nil, "", token)
}

// QRCode fetches the user's QR code payload.
func (c *Client) QRCode(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, qrCodePath+userID, nil, "", token)
}
