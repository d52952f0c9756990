package cmdutil

import (
	"fmt"

	"github.com/schmitthub/relpub/internal/logger"
)

// ReleaseTagFlags holds how a command was told which release to publish.
type ReleaseTagFlags struct {
	// Arg is the RELEASE_TAG positional argument, used verbatim.
	Arg    string
	ArgSet bool
	// FromGit resolves the tag pointing at HEAD instead.
	FromGit bool
}

// SetArgs records the optional RELEASE_TAG positional argument.
func (r *ReleaseTagFlags) SetArgs(args []string) {
	if len(args) > 0 {
		r.Arg, r.ArgSet = args[0], true
	}
}

// Resolve returns the release tag. An explicitly empty argument is passed
// through so the publisher can reject it; a missing one is a usage error.
func (r *ReleaseTagFlags) Resolve(gitTag func() (string, error)) (string, error) {
	switch {
	case r.FromGit && r.ArgSet:
		return "", FlagErrorf("RELEASE_TAG and --from-git are mutually exclusive")
	case r.FromGit:
		tag, err := gitTag()
		if err != nil {
			return "", fmt.Errorf("resolving release tag from git: %w", err)
		}
		logger.Debug().Str("tag", tag).Msg("release tag resolved from git")
		return tag, nil
	case r.ArgSet:
		return r.Arg, nil
	default:
		return "", FlagErrorf("a release tag is required: pass RELEASE_TAG or --from-git")
	}
}
