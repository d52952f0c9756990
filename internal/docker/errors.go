package docker

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// DockerError represents a user-friendly Docker error with remediation steps
type DockerError struct {
	Op        string   // Operation that failed (e.g., "connect", "tag", "push")
	Err       error    // Underlying error
	Message   string   // Human-readable message
	NextSteps []string // Suggested remediation steps
}

func (e *DockerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DockerError) Unwrap() error {
	return e.Err
}

// FormatUserError formats the error for display to users
func (e *DockerError) FormatUserError() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Message))

	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", e.Err.Error()))
	}

	if len(e.NextSteps) > 0 {
		sb.WriteString("\nNext Steps:\n")
		for i, step := range e.NextSteps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	return sb.String()
}

// ErrDockerNotRunning returns an error for when Docker daemon is not accessible
func ErrDockerNotRunning(err error) *DockerError {
	return &DockerError{
		Op:      "connect",
		Err:     err,
		Message: "Cannot connect to Docker daemon",
		NextSteps: []string{
			"Ensure Docker is installed",
			"Start Docker Desktop (macOS/Windows) or run 'sudo systemctl start docker' (Linux)",
			"Check if Docker socket is accessible: ls -la /var/run/docker.sock",
			"Or publish through the container CLI instead: relpub publish --backend cli",
		},
	}
}

// ErrImageNotFound returns an error for when a local image to tag does not exist
func ErrImageNotFound(image string, err error) *DockerError {
	return &DockerError{
		Op:      "tag",
		Err:     err,
		Message: fmt.Sprintf("Image '%s' not found", image),
		NextSteps: []string{
			"Build the service images before publishing",
			"List local images: docker image ls",
			"Check registry.local_namespace in relpub.yaml matches the build output",
		},
	}
}

// ErrTagFailed returns an error for when tagging fails for any other reason
func ErrTagFailed(source, target string, err error) *DockerError {
	return &DockerError{
		Op:      "tag",
		Err:     err,
		Message: fmt.Sprintf("Failed to tag '%s' as '%s'", source, target),
		NextSteps: []string{
			"Check the target reference is a valid image name",
			"Try tagging manually: docker tag " + source + " " + target,
		},
	}
}

// ErrPushFailed returns an error for when a push is rejected or interrupted
func ErrPushFailed(image string, err error) *DockerError {
	return &DockerError{
		Op:      "push",
		Err:     err,
		Message: fmt.Sprintf("Failed to push '%s'", image),
		NextSteps: []string{
			"Check you are logged in: docker login " + registryHost(image),
			"Verify you have push access to the repository",
			"Try pushing manually: docker push " + image,
		},
	}
}

// registryHost returns the registry domain of an image reference, falling
// back to the reference itself when it does not parse.
func registryHost(image string) string {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return image
	}
	return reference.Domain(named)
}
