package ports

import "context"

// SourceControl abstracts the version-control operations the lifecycle engine
// needs for checkout reconciliation. The engine never speaks the protocol
// itself.
//
//go:generate go run go.uber.org/mock/mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type SourceControl interface {
	// Clone creates a fresh working copy of url at dest. If revision is
	// non-empty the copy is checked out at that revision.
	Clone(ctx context.Context, url, dest, revision string) error

	// Update reconciles an existing working copy against the given revision,
	// or against the branch head when revision is empty.
	Update(ctx context.Context, dest, revision string) error

	// HasLocalChanges reports whether the working copy has uncommitted
	// modifications under subpath ("" means the whole tree).
	HasLocalChanges(ctx context.Context, dest, subpath string) (bool, error)

	// RemoteURL returns the URL the working copy's primary remote points at.
	RemoteURL(ctx context.Context, dest string) (string, error)

	// SetRemoteURL repoints the working copy's primary remote, used to
	// migrate clones from legacy URLs.
	SetRemoteURL(ctx context.Context, dest, url string) error
}
