package source

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/harrison/specdox/internal/models"
)

// CommandRunner executes an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecCommandRunner runs real processes.
type ExecCommandRunner struct {
	WorkDir string // Working directory for commands (empty = current dir)
}

// Run executes name with args and returns its standard output.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.WorkDir != "" {
		cmd.Dir = r.WorkDir
	}
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			stderr = strings.TrimSpace(string(ee.Stderr))
		}
		if stderr != "" {
			return string(out), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, stderr)
		}
		return string(out), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Logger is the subset of the console logger the resolver needs.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Resolver maps import paths to scanned source information, caching the
// result (including failures) per package.
type Resolver struct {
	runner CommandRunner
	goCmd  string
	logger Logger
	cache  map[string]*models.SourceInfo
}

// NewResolver creates a resolver that asks goCmd (usually "go") where
// packages live.
func NewResolver(runner CommandRunner, goCmd string, logger Logger) *Resolver {
	if goCmd == "" {
		goCmd = "go"
	}
	return &Resolver{
		runner: runner,
		goCmd:  goCmd,
		logger: logger,
		cache:  make(map[string]*models.SourceInfo),
	}
}

// Lookup returns the source information for importPath, or nil when the
// package cannot be located or parsed.
func (r *Resolver) Lookup(ctx context.Context, importPath string) *models.SourceInfo {
	if r == nil || importPath == "" {
		return nil
	}
	if info, ok := r.cache[importPath]; ok {
		return info
	}

	info, err := r.resolve(ctx, importPath)
	if err != nil {
		r.debugf("no source information for %s: %v", importPath, err)
	}
	r.cache[importPath] = info
	return info
}

// Missing lists the packages looked up without success, sorted.
func (r *Resolver) Missing() []string {
	if r == nil {
		return nil
	}
	var missing []string
	for importPath, info := range r.cache {
		if info == nil {
			missing = append(missing, importPath)
		}
	}
	sort.Strings(missing)
	return missing
}

func (r *Resolver) resolve(ctx context.Context, importPath string) (*models.SourceInfo, error) {
	out, err := r.runner.Run(ctx, r.goCmd, "list", "-f", "{{.Dir}}", importPath)
	if err != nil {
		return nil, err
	}
	dir := strings.TrimSpace(out)
	if dir == "" {
		return nil, errors.New("go list returned no directory")
	}
	return Scan(dir)
}

func (r *Resolver) debugf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}
