package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/opencontainers/go-digest"

	"github.com/schmitthub/relpub/internal/logger"
	"github.com/schmitthub/relpub/internal/release"
)

// APIClient is the subset of the Docker Engine API used for publishing.
type APIClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ImageTag(ctx context.Context, source, target string) error
	ImagePush(ctx context.Context, image string, options image.PushOptions) (io.ReadCloser, error)
	Close() error
}

// EngineStore publishes images through the Docker Engine API.
type EngineStore struct {
	api      APIClient
	progress io.Writer
	creds    CredentialStore
}

// NewEngineStore connects to the Docker daemon described by the environment
// (DOCKER_HOST etc.) and verifies it is reachable. Push progress is written to
// progress; pass nil to discard it.
func NewEngineStore(ctx context.Context, progress io.Writer, opts ...client.Opt) (*EngineStore, error) {
	if len(opts) == 0 {
		opts = []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, ErrDockerNotRunning(err)
	}

	store := NewEngineStoreWithClient(cli, progress)
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, ErrDockerNotRunning(err)
	}

	logger.Debug().Str("host", cli.DaemonHost()).Msg("docker engine connected")
	return store, nil
}

// NewEngineStoreWithClient wraps an existing API client.
func NewEngineStoreWithClient(api APIClient, progress io.Writer) *EngineStore {
	if progress == nil {
		progress = io.Discard
	}
	return &EngineStore{api: api, progress: progress}
}

// SetCredentials sets where push logins come from. Without one, pushes are
// anonymous.
func (s *EngineStore) SetCredentials(creds CredentialStore) {
	s.creds = creds
}

// Close releases the Docker client.
func (s *EngineStore) Close() error {
	return s.api.Close()
}

// Tag implements release.ImageStore.
func (s *EngineStore) Tag(ctx context.Context, source, target release.ImageReference) error {
	src, dst := source.String(), target.String()
	logger.Debug().Str("source", src).Str("target", dst).Msg("tagging image")

	if err := s.api.ImageTag(ctx, src, dst); err != nil {
		if cerrdefs.IsNotFound(err) {
			return ErrImageNotFound(src, err)
		}
		return ErrTagFailed(src, dst, err)
	}
	return nil
}

// Push implements release.ImageStore. The push only succeeds once the daemon's
// progress stream has been drained without an error message.
func (s *EngineStore) Push(ctx context.Context, target release.ImageReference) error {
	ref := target.String()
	logger.Debug().Str("image", ref).Msg("pushing image")

	var authConfig registry.AuthConfig
	if s.creds != nil {
		host := registryHost(ref)
		var err error
		if authConfig, err = s.creds.AuthConfig(host); err != nil {
			return ErrPushFailed(ref, fmt.Errorf("resolving credentials for %s: %w", host, err))
		}
	}
	auth, err := registry.EncodeAuthConfig(authConfig)
	if err != nil {
		return ErrPushFailed(ref, err)
	}

	body, err := s.api.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return ErrPushFailed(ref, err)
	}
	defer body.Close()

	var pushed pushResult
	err = jsonmessage.DisplayJSONMessagesStream(body, s.progress, 0, false, func(msg jsonmessage.JSONMessage) {
		if msg.Aux == nil {
			return
		}
		var aux pushResult
		if err := json.Unmarshal(*msg.Aux, &aux); err == nil && aux.Digest != "" {
			pushed = aux
		}
	})
	if err != nil {
		return ErrPushFailed(ref, err)
	}

	event := logger.Debug().Str("image", ref)
	if pushed.Digest != "" {
		dgst, err := digest.Parse(pushed.Digest)
		if err != nil {
			return ErrPushFailed(ref, fmt.Errorf("daemon reported invalid digest %q: %w", pushed.Digest, err))
		}
		event = event.Str("digest", dgst.String()).Int64("size", pushed.Size)
	}
	event.Msg("push complete")
	return nil
}

// pushResult is the aux record the daemon emits once a push finished.
type pushResult struct {
	Tag    string `json:"Tag"`
	Digest string `json:"Digest"`
	Size   int64  `json:"Size"`
}
