package docker

import (
	"fmt"

	"github.com/docker/cli/cli/config"
	"github.com/docker/cli/cli/config/configfile"
	"github.com/docker/docker/api/types/registry"
)

// dockerHubAuthKey is the key docker login stores Docker Hub credentials under.
const dockerHubAuthKey = "https://index.docker.io/v1/"

// CredentialStore resolves the registry login sent with a push.
type CredentialStore interface {
	AuthConfig(host string) (registry.AuthConfig, error)
}

// DockerConfigCredentials reads logins saved by docker login, including
// those kept by credential helpers.
type DockerConfigCredentials struct {
	file *configfile.ConfigFile
}

// LoadDockerConfigCredentials loads config.json from dir. An empty dir means
// $DOCKER_CONFIG or ~/.docker; a missing file yields anonymous pushes.
func LoadDockerConfigCredentials(dir string) (*DockerConfigCredentials, error) {
	if dir == "" {
		dir = config.Dir()
	}
	file, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading docker config from %s: %w", dir, err)
	}
	return &DockerConfigCredentials{file: file}, nil
}

// AuthConfig implements CredentialStore.
func (c *DockerConfigCredentials) AuthConfig(host string) (registry.AuthConfig, error) {
	key := host
	if host == "docker.io" || host == "index.docker.io" {
		key = dockerHubAuthKey
	}

	ac, err := c.file.GetAuthConfig(key)
	if err != nil {
		return registry.AuthConfig{}, err
	}
	return registry.AuthConfig{
		Username:      ac.Username,
		Password:      ac.Password,
		Auth:          ac.Auth,
		ServerAddress: ac.ServerAddress,
		IdentityToken: ac.IdentityToken,
		RegistryToken: ac.RegistryToken,
	}, nil
}
