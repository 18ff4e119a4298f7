package refclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrServiceURLNotSet  = errors.New("service URL is not set")
	ErrInvalidServiceURL = errors.New("service URL must start with 'http://' or 'https://'")
)

// Checker reports whether a company or role exists in the external
// reference services.
type Checker interface {
	CompanyExists(ctx context.Context, companyID string) (bool, error)
	RoleExists(ctx context.Context, roleID int) (bool, error)
}

// Client performs existence lookups against the company and role
// services. Lookups are a single attempt with a short timeout; any
// transport failure is surfaced to the caller as a hard error. In the
// development and testing environments lookups are skipped entirely.
type Client struct {
	companyURL string
	roleURL    string
	env        string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(companyURL, roleURL, env string, logger *slog.Logger) *Client {
	return &Client{
		companyURL: companyURL,
		roleURL:    roleURL,
		env:        env,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

func (c *Client) skipChecks() bool {
	return c.env == "development" || c.env == "testing"
}

func (c *Client) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	if c.skipChecks() {
		c.logger.Info("skipping company ID check", "env", c.env)
		return true, nil
	}
	return c.lookup(ctx, c.companyURL, "COMPANY_SERVICE_URL", "/companies/"+companyID)
}

func (c *Client) RoleExists(ctx context.Context, roleID int) (bool, error) {
	if c.skipChecks() {
		c.logger.Info("skipping role ID check", "env", c.env)
		return true, nil
	}
	return c.lookup(ctx, c.roleURL, "ROLE_SERVICE_URL", "/roles/"+strconv.Itoa(roleID))
}

func (c *Client) lookup(ctx context.Context, base, name, path string) (bool, error) {
	if base == "" {
		c.logger.Error("service URL is not configured", "var", name)
		return false, fmt.Errorf("%s: %w", name, ErrServiceURLNotSet)
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		c.logger.Error("invalid service URL", "var", name, "url", base)
		return false, fmt.Errorf("%s: %w", name, ErrInvalidServiceURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("reference lookup failed", "url", base+path, "error", err)
		return false, fmt.Errorf("reference lookup %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		c.logger.Warn("reference not found", "path", path)
		return false, nil
	default:
		c.logger.Warn("unexpected status from reference service",
			"path", path, "status", resp.StatusCode)
		return false, nil
	}
}
