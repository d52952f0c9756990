package cmdutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseTagFlags_Resolve(t *testing.T) {
	gitOK := func() (string, error) { return "v9.9.9", nil }
	gitErr := errors.New("no tag points at HEAD")
	gitFail := func() (string, error) { return "", gitErr }

	tests := []struct {
		name     string
		args     []string
		fromGit  bool
		git      func() (string, error)
		want     string
		wantFlag bool
		wantErr  error
	}{
		{name: "positional", args: []string{"v1.2.3"}, want: "v1.2.3"},
		{name: "positional kept verbatim", args: []string{" v1 "}, want: " v1 "},
		{name: "explicit empty passes through", args: []string{""}, want: ""},
		{name: "missing", wantFlag: true},
		{name: "from git", fromGit: true, git: gitOK, want: "v9.9.9"},
		{name: "from git fails", fromGit: true, git: gitFail, wantErr: gitErr},
		{name: "both", args: []string{"v1"}, fromGit: true, git: gitOK, wantFlag: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ReleaseTagFlags{FromGit: tt.fromGit}
			r.SetArgs(tt.args)

			got, err := r.Resolve(tt.git)
			switch {
			case tt.wantFlag:
				var flagErr *FlagError
				require.ErrorAs(t, err, &flagErr)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
