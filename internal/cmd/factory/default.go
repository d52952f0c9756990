package factory

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/config"
	"github.com/schmitthub/relpub/internal/docker"
	"github.com/schmitthub/relpub/internal/git"
	"github.com/schmitthub/relpub/internal/iostreams"
	"github.com/schmitthub/relpub/internal/logger"
	"github.com/schmitthub/relpub/internal/release"
)

// New creates a fully-wired Factory with lazy-initialized dependency closures.
// Called exactly once at the CLI entry point (internal/relpub/cmd.go).
// Command tests should NOT import this package; construct &cmdutil.Factory{} directly.
func New(version, commit string) *cmdutil.Factory {
	ios := iostreams.NewIOStreams()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	f := &cmdutil.Factory{
		Version:   version,
		Commit:    commit,
		IOStreams: ios,
		WorkDir:   wd,
	}

	// --- Lazy dependency closures ---

	// Config. WorkDir and ConfigPath are read on first use, after flag parsing.
	var (
		configOnce   sync.Once
		configLoader *config.Loader
		configData   *config.Config
		configErr    error
	)
	f.ConfigLoader = func() *config.Loader {
		if configLoader == nil {
			configLoader = config.NewLoader(f.WorkDir, f.ConfigPath)
		}
		return configLoader
	}
	f.Config = func() (*config.Config, error) {
		configOnce.Do(func() {
			configData, configErr = f.ConfigLoader().Load()
			if configErr != nil {
				return
			}
			if err := config.NewValidator().Validate(configData); err != nil {
				configData, configErr = nil, err
			}
		})
		return configData, configErr
	}

	// Image store
	var (
		storeMu sync.Mutex
		closers []func() error
	)
	f.ImageStore = func(ctx context.Context, backend string) (release.ImageStore, error) {
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		if backend == "" {
			backend = cfg.Store.Backend
		}

		switch backend {
		case config.BackendEngine:
			creds, err := docker.LoadDockerConfigCredentials(cfg.Store.DockerConfig)
			if err != nil {
				return nil, err
			}
			store, err := docker.NewEngineStore(ctx, ios.ErrOut)
			if err != nil {
				return nil, err
			}
			store.SetCredentials(creds)
			storeMu.Lock()
			closers = append(closers, store.Close)
			storeMu.Unlock()
			return store, nil
		case config.BackendCLI:
			return docker.NewCLIStore(cfg.Store.Command, ios.ErrOut, ios.ErrOut)
		default:
			return nil, cmdutil.FlagErrorf("invalid backend %q: must be one of %s", backend, strings.Join(config.Backends, ", "))
		}
	}
	f.CloseStore = func() {
		storeMu.Lock()
		defer storeMu.Unlock()
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Debug().Err(err).Msg("closing image store")
			}
		}
		closers = nil
	}

	f.GitTag = func() (string, error) {
		return git.TagAtHead(f.WorkDir)
	}

	return f
}
