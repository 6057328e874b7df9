// Package sync keeps a vault in step with a git remote.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotRepo is returned when the vault is not a git work tree.
var ErrNotRepo = errors.New("not a git repository")

// Repo is a vault checked out as a git work tree.
type Repo struct {
	Dir string
	Out io.Writer // progress output; nil discards it
}

// IsRepo reports whether dir holds a .git directory.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Init makes the vault a git repository if it is not one yet and points origin
// at remote. An empty remote leaves the remotes alone.
func (r Repo) Init(ctx context.Context, remote string) error {
	if !IsRepo(r.Dir) {
		if err := r.run(ctx, "init"); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}
	}
	if remote == "" {
		return nil
	}

	// origin may not exist yet
	_ = r.git(ctx, "remote", "remove", "origin").Run()

	if err := r.run(ctx, "remote", "add", "origin", remote); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	r.printf("Remote set to: %s\n", remote)
	return nil
}

// HasRemote reports whether the repository has any remote configured.
func (r Repo) HasRemote(ctx context.Context) bool {
	out, err := r.git(ctx, "remote").Output()
	return err == nil && strings.TrimSpace(string(out)) != ""
}

// Sync commits local changes, then pulls with rebase, falling back to a merge,
// and pushes. Without a remote only the commit happens.
func (r Repo) Sync(ctx context.Context, now time.Time) error {
	if !IsRepo(r.Dir) {
		return fmt.Errorf("%s: %w", r.Dir, ErrNotRepo)
	}

	r.printf("Staging changes...\n")
	if err := r.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}
	if err := r.git(ctx, "diff", "--cached", "--quiet").Run(); err != nil {
		msg := "sync " + now.Format(time.DateTime)
		if err := r.run(ctx, "commit", "-m", msg); err != nil {
			return fmt.Errorf("committing changes: %w", err)
		}
	}

	if !r.HasRemote(ctx) {
		r.printf("No remote configured, skipping pull and push.\n")
		return nil
	}

	r.printf("Pulling...\n")
	if err := r.run(ctx, "pull", "--rebase"); err != nil {
		r.printf("Rebase failed, trying merge...\n")
		_ = r.git(ctx, "rebase", "--abort").Run()

		if err := r.run(ctx, "pull", "--no-rebase"); err != nil {
			_ = r.git(ctx, "merge", "--abort").Run()
			return fmt.Errorf("sync failed: could not rebase or merge, resolve conflicts manually: %w", err)
		}
	}

	r.printf("Pushing...\n")
	if err := r.run(ctx, "push"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	r.printf("Sync complete.\n")
	return nil
}

func (r Repo) git(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "git", append([]string{"-C", r.Dir}, args...)...)
}

// run runs git, streaming its output to r.Out. On failure the error carries
// git's stderr.
func (r Repo) run(ctx context.Context, args ...string) error {
	cmd := r.git(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stdout = r.out()
	cmd.Stderr = io.MultiWriter(r.out(), &stderr)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}

func (r Repo) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func (r Repo) printf(format string, args ...any) {
	fmt.Fprintf(r.out(), format, args...)
}
