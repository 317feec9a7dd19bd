// Package directory adapts the two remote identity sources (the standard
// user directory and the passenger directory) behind a single lookup and
// password-update surface. Both sources live in the users-management service
// and share a response contract; passengers simply carry no role field.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

type Kind string

const (
	KindUser      Kind = "user"
	KindPassenger Kind = "passenger"
)

var (
	// ErrNotFound means the source answered and the email is unknown.
	ErrNotFound = errors.New("principal not found")
	// ErrUnavailable means the source could not be consulted; callers must
	// not treat this as "no such principal".
	ErrUnavailable = errors.New("directory unavailable")
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	http           Doer
	usersBase      string
	passengersBase string
}

func NewClient(httpClient Doer, usersBase, passengersBase string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:           httpClient,
		usersBase:      strings.TrimRight(usersBase, "/"),
		passengersBase: strings.TrimRight(passengersBase, "/"),
	}
}

// principalResponse mirrors the users-management wire shape. The password
// field carries the stored hash, never a raw password.
type principalResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (c *Client) base(kind Kind) string {
	if kind == KindPassenger {
		return c.passengersBase
	}
	return c.usersBase
}

func (c *Client) FindByEmail(ctx context.Context, kind Kind, email string) (*domain.Principal, error) {
	endpoint := c.base(kind) + "?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s directory: %v", ErrUnavailable, kind, err)
	}
	defer drainBody(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no %s with email %s", ErrNotFound, kind, email)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s directory returned status %d", ErrUnavailable, kind, resp.StatusCode)
	}

	var body principalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode %s directory response: %v", ErrUnavailable, kind, err)
	}
	return c.toPrincipal(kind, body)
}

func (c *Client) toPrincipal(kind Kind, body principalResponse) (*domain.Principal, error) {
	role := domain.RolePassenger
	if kind == KindUser {
		parsed, err := domain.ParseRole(body.Role)
		if err != nil {
			return nil, fmt.Errorf("users directory sent %w", err)
		}
		role = parsed
	}
	return &domain.Principal{
		ID:           body.ID,
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: body.Password,
		Role:         role,
	}, nil
}

// LookupPrincipal tries the user directory first and falls back to the
// passenger directory. It reports NotFound only when both sources answered
// definitively; a transient failure on either side means "could not check".
func (c *Client) LookupPrincipal(ctx context.Context, email string) (*domain.Principal, Kind, error) {
	principal, userErr := c.FindByEmail(ctx, KindUser, email)
	if userErr == nil {
		return principal, KindUser, nil
	}

	principal, passengerErr := c.FindByEmail(ctx, KindPassenger, email)
	if passengerErr == nil {
		return principal, KindPassenger, nil
	}

	if errors.Is(userErr, ErrNotFound) && errors.Is(passengerErr, ErrNotFound) {
		return nil, "", fmt.Errorf("%w: no user or passenger with email %s", ErrNotFound, email)
	}
	if !errors.Is(passengerErr, ErrNotFound) {
		return nil, "", passengerErr
	}
	return nil, "", userErr
}

// UpdatePassword dispatches the new raw password to the source that owns the
// principal; the remote side hashes and persists it.
func (c *Client) UpdatePassword(ctx context.Context, kind Kind, id int64, newPassword string) error {
	endpoint := fmt.Sprintf("%s/%d/reset-password?newPassword=%s", c.base(kind), id, url.QueryEscape(newPassword))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s directory: %v", ErrUnavailable, kind, err)
	}
	defer drainBody(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: no %s with id %d", ErrNotFound, kind, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s directory returned status %d", ErrUnavailable, kind, resp.StatusCode)
	}
	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) RegisterPassenger(ctx context.Context, name, email, password string) (*domain.Principal, error) {
	payload, err := json.Marshal(registerRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.passengersBase, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: passenger directory: %v", ErrUnavailable, err)
	}
	defer drainBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: passenger registration returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body principalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode passenger registration response: %v", ErrUnavailable, err)
	}
	return c.toPrincipal(KindPassenger, body)
}

func drainBody(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
