package config

// DefaultServices is the catalogue published when none is configured.
var DefaultServices = []string{"dispatcher", "daemon", "control", "router", "gateway"}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			LocalNamespace:  "scion",
			RemoteNamespace: "docker.io/scionproto",
		},
		Services: append([]string(nil), DefaultServices...),
		Store: StoreConfig{
			Backend: BackendEngine,
			Command: "docker",
		},
		Logging: LoggingConfig{
			FileEnabled: false,
			MaxSizeMB:   50,
			MaxAgeDays:  7,
			MaxBackups:  3,
		},
	}
}

// DefaultConfigYAML is written by `relpub config init`
const DefaultConfigYAML = `# relpub configuration

registry:
  # Namespace of the locally built images (<namespace>/<service>:latest)
  local_namespace: scion
  # Namespace the release is published to (<namespace>/<service>:<release>)
  remote_namespace: docker.io/scionproto

# Services to publish, in order. Each is also published as <service>_debug.
services:
  - dispatcher
  - daemon
  - control
  - router
  - gateway

store:
  # engine: talk to the Docker Engine API (DOCKER_HOST)
  # cli: run the container CLI below
  backend: engine
  command: docker
  # Registry logins for the engine backend are read from here
  # docker_config: ~/.docker

logging:
  file_enabled: false
  # dir: /var/log/relpub
  max_size_mb: 50
  max_age_days: 7
  max_backups: 3
`
