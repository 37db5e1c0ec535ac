package api

import (
	"context"
	"net/http"
	"net/url"

	"go-oms/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthResponse is returned by every sign-in endpoint.
type AuthResponse struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
	Role  models.Role        `json:"role"`
	Token string             `json:"token"`
}

// Registration is the sign-up form.
type Registration struct {
	Name         string `validate:"notblank"`
	Email        string `validate:"notblank,email"`
	Password     string `validate:"required,min=6"`
	Role         models.Role
	PhoneNumber  string `validate:"notblank"`
	Location     string `validate:"notblank"`
	ProfileImage *Upload
}

// Login exchanges email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, r Registration) (*AuthResponse, error) {
	var out AuthResponse
	fields := []field{
		{"name", r.Name},
		{"email", r.Email},
		{"password", r.Password},
		{"role", string(r.Role)},
		{"phoneNumber", r.PhoneNumber},
		{"location", r.Location},
	}
	if err := c.sendMultipart(ctx, http.MethodPost, "/auth/register", fields, "profileImage", r.ProfileImage, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleLogin exchanges a Google ID credential for a backend credential.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/google", map[string]string{"token": credential}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendOTP asks the backend to text a one-time code to phone.
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/send-otp", map[string]string{"phoneNumber": phone}, nil)
}

// LoginOTP exchanges a phone number and one-time code for a credential.
func (c *Client) LoginOTP(ctx context.Context, phone, otp string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"phoneNumber": phone, "otp": otp}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	path := "/auth/reset-password/" + url.PathEscape(resetToken)
	return c.sendJSON(ctx, http.MethodPut, path, map[string]string{"password": password}, nil)
}
