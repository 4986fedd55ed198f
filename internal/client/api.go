// Package client implements the interactive terminal client for the iam
// HTTP API: register, login, validate, logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIClient is a thin wrapper over the iam HTTP endpoints.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validateRequest struct {
	Token string `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// UserInfo is the identity decoded from a validated token.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type claimsResponse struct {
	Valid bool     `json:"valid"`
	User  UserInfo `json:"user"`
}

func (c *APIClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}

// serverError turns a non-success response into an error carrying the
// server's message text.
func serverError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	text := strings.TrimSpace(string(msg))
	if text == "" {
		text = resp.Status
	}
	return fmt.Errorf("server: %s", text)
}

func (c *APIClient) Register(ctx context.Context, username, password string) error {
	resp, err := c.post(ctx, "/register", credentialsRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return serverError(resp)
	}
	return nil
}

func (c *APIClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.post(ctx, "/login", credentialsRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", serverError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return tr.Token, nil
}

func (c *APIClient) Validate(ctx context.Context, token string) (*UserInfo, error) {
	resp, err := c.post(ctx, "/validate", validateRequest{Token: token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var cr claimsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, err
	}
	return &cr.User, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, "/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}
	return nil
}
