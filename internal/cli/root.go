package cli

import (
	"context"
	"errors"
	"os"

	"github.com/matzehuels/nodetree/pkg/buildinfo"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time. Empty values keep the current ones.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the nodetree CLI with ctx and returns an error if any command
// fails. The error has already been reported to the user unless it is
// context.Canceled. Logs go to stderr at info level, or debug level with
// --verbose.
//
// Example:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	if err := cli.Execute(ctx); err != nil {
//	    os.Exit(1)
//	}
func Execute(ctx context.Context) error {
	err := New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		printError("%s", apperrors.UserMessage(err))
	}
	return err
}
