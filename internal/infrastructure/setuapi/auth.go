package setuapi

import (
	"context"
	"net/http"
)

const (
	loginPath          = "/users/login"
	registerPath       = "/users/register"
	verifyPhoneOTPPath = "/users/verify-phone-otp"
	verifyEmailOTPPath = "/users/verify-email-otp"
)

// LoginResponse carries the credential pair issued on login plus the flag
// telling the UI whether the one-time health profile is still outstanding.
type LoginResponse struct {
	AccessToken           string `json:"accessToken"`
	UserID                string `json:"userId"`
	IsHealthFormCompleted bool   `json:"isHealthFormCompleted"`
}

// Login authenticates with username (or email) and password.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}

	data, err := c.doJSON(ctx, http.MethodPost, loginPath, payload, "")
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterParams contains the new-user registration payload.
type RegisterParams struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// Register creates a new user account. The returned user ID is needed for
// the OTP verification step that completes registration.
func (c *Client) Register(ctx context.Context, params RegisterParams) (string, error) {
	data, err := c.doJSON(ctx, http.MethodPost, registerPath, params, "")
	if err != nil {
		return "", err
	}

	var resp struct {
		UserID string `json:"userId"`
	}
	if err := decode(data, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// VerifyPhoneOTP confirms the one-time code sent to the user's phone.
func (c *Client) VerifyPhoneOTP(ctx context.Context, userID, otp string) error {
	return c.verifyOTP(ctx, verifyPhoneOTPPath, userID, otp)
}

// VerifyEmailOTP confirms the one-time code sent to the user's email.
func (c *Client) VerifyEmailOTP(ctx context.Context, userID, otp string) error {
	return c.verifyOTP(ctx, verifyEmailOTPPath, userID, otp)
}

func (c *Client) verifyOTP(ctx context.Context, path, userID, otp string) error {
	payload := map[string]string{
		"userId": userID,
		"otp":    otp,
	}
	_, err := c.doJSON(ctx, http.MethodPost, path, payload, "")
	return err
}
