// Package git implements the source-control port by shelling out to git.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceControl = (*Client)(nil)

// Client implements ports.SourceControl over the git command line.
type Client struct {
	logger ports.Logger
}

// NewClient creates a Client.
func NewClient(logger ports.Logger) *Client {
	return &Client{logger: logger}
}

// Clone creates a fresh working copy, checked out at revision when given.
func (c *Client) Clone(ctx context.Context, url, dest, revision string) error {
	if _, err := c.run(ctx, "", "clone", url, dest); err != nil {
		return zerr.Wrap(err, "clone failed")
	}
	if revision == "" {
		return nil
	}
	if _, err := c.run(ctx, dest, "checkout", revision); err != nil {
		return zerr.With(zerr.Wrap(err, "checkout of revision failed"), "revision", revision)
	}
	return nil
}

// Update fetches and reconciles an existing working copy against revision,
// or fast-forwards the current branch when revision is empty.
func (c *Client) Update(ctx context.Context, dest, revision string) error {
	if _, err := c.run(ctx, dest, "fetch", "--prune", "origin"); err != nil {
		return zerr.Wrap(err, "fetch failed")
	}
	if revision != "" {
		if _, err := c.run(ctx, dest, "checkout", revision); err != nil {
			return zerr.With(zerr.Wrap(err, "checkout of revision failed"), "revision", revision)
		}
		return nil
	}
	if _, err := c.run(ctx, dest, "pull", "--ff-only"); err != nil {
		return zerr.With(zerr.Wrap(err, "fast-forward pull failed"),
			"hint", "the local branch has diverged; rebase or reset it manually")
	}
	return nil
}

// HasLocalChanges reports whether the working copy has uncommitted
// modifications under subpath.
func (c *Client) HasLocalChanges(ctx context.Context, dest, subpath string) (bool, error) {
	args := []string{"status", "--porcelain"}
	if subpath != "" {
		args = append(args, "--", subpath)
	}
	out, err := c.run(ctx, dest, args...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// RemoteURL returns the URL of the origin remote.
func (c *Client) RemoteURL(ctx context.Context, dest string) (string, error) {
	out, err := c.run(ctx, dest, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetRemoteURL repoints the origin remote, used for legacy-URL migration.
func (c *Client) SetRemoteURL(ctx context.Context, dest, url string) error {
	_, err := c.run(ctx, dest, "remote", "set-url", "origin", url)
	return err
}

// run executes git with the given arguments, returning stdout.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", domain.Annotate(domain.ErrMissingTool, "tool", "git")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, gitPath, args...) //nolint:gosec // arguments come from target specs
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, "git command failed"), "args", strings.Join(args, " "))
		wrapped = zerr.With(wrapped, "directory", dir)
		return "", zerr.With(wrapped, "stderr", strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
