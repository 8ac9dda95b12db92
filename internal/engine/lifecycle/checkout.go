package lifecycle

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/zerr"
)

// checkout reconciles the instance's working copy against its repository
// descriptor: clone when missing, migrate known legacy remotes, warn about
// (never discard) local modifications, then update to the pinned revision or
// branch head.
func (e *Engine) checkout(ctx context.Context, inst *project.Instance, opts Options) error {
	repo := inst.Spec().Repo
	if repo.URL == "" {
		// Aggregation targets have no sources of their own.
		return nil
	}

	src := inst.SourceDir()
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		e.logger.Info("cloning " + repo.URL + " into " + src)
		if err := e.vcs.Clone(ctx, repo.URL, src, revisionOf(repo)); err != nil {
			return domain.Annotate(err, "remote", repo.URL)
		}
		return nil
	}

	if opts.SkipUpdate {
		return nil
	}

	if err := e.reconcileRemote(ctx, inst, repo, src); err != nil {
		return err
	}
	e.warnLocalChanges(ctx, repo, src)

	if err := e.vcs.Update(ctx, src, revisionOf(repo)); err != nil {
		return zerr.With(domain.Annotate(err, "remote", repo.URL), "directory", src)
	}
	return nil
}

// reconcileRemote treats any known legacy URL as equivalent to the current
// one: the clone is repointed instead of reported as diverged.
func (e *Engine) reconcileRemote(ctx context.Context, inst *project.Instance, repo domain.Repository, src string) error {
	remote, err := e.vcs.RemoteURL(ctx, src)
	if err != nil {
		return domain.Annotate(err, "directory", src)
	}
	if remote == repo.URL {
		return nil
	}
	if repo.IsLegacyURL(remote) {
		e.logger.Info("migrating " + inst.TargetName() + " remote from legacy URL " + remote)
		if err := e.vcs.SetRemoteURL(ctx, src, repo.URL); err != nil {
			return domain.Annotate(err, "directory", src)
		}
		return nil
	}

	err = domain.Annotate(domain.ErrRemoteDiverged, "directory", src)
	err = zerr.With(err, "remote", remote)
	err = zerr.With(err, "expected", repo.URL)
	return zerr.With(err, "hint", "repoint the remote manually or remove the checkout")
}

// warnLocalChanges surfaces uncommitted modifications in the tracked
// subdirectories with enough context to resolve them manually. The update
// itself proceeds; the engine never discards local work.
func (e *Engine) warnLocalChanges(ctx context.Context, repo domain.Repository, src string) {
	subdirs := repo.TrackedSubdirs
	if len(subdirs) == 0 {
		subdirs = []string{""}
	}
	for _, subdir := range subdirs {
		dirty, err := e.vcs.HasLocalChanges(ctx, src, subdir)
		if err != nil {
			e.logger.Error(domain.Annotate(err, "directory", src))
			continue
		}
		if dirty {
			where := src
			if subdir != "" {
				where = src + "/" + subdir
			}
			e.logger.Warn("local changes in " + where + " will not be discarded; commit or stash them to silence this warning")
		}
	}
}

// revisionOf returns the revision the working copy should be reconciled
// against: the pin when present, the branch otherwise.
func revisionOf(repo domain.Repository) string {
	if repo.Revision != "" {
		return repo.Revision
	}
	return repo.Branch
}
