package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/isayev/coinstack-sub001/internal/models"
)

// Version returns the version string the backend reports.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out models.BackendVersion
	if err := c.do(ctx, "version", http.MethodGet, "/api/version", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// CheckCompatible fetches the backend version and verifies it satisfies
// constraint (e.g. ">= 1.2.0, < 3"). An empty constraint accepts anything.
func (c *Client) CheckCompatible(ctx context.Context, constraint string) (string, error) {
	v, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	if constraint == "" {
		return v, nil
	}
	if err := Compatible(v, constraint); err != nil {
		return v, err
	}
	return v, nil
}

// Compatible reports whether version satisfies constraint.
func Compatible(version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	// Strip leading 'v' if present (common in version strings)
	sv, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("invalid backend version %q: %w", version, err)
	}
	if ok, errs := c.Validate(sv); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("backend version %s not supported: %w", sv, errs[0])
		}
		return fmt.Errorf("backend version %s does not satisfy %q", sv, constraint)
	}
	return nil
}
