package release

import (
	"fmt"
	"strings"
)

const (
	// LocalTag is the tag every local image is built under.
	LocalTag = "latest"

	// DebugSuffix is appended to a service's image name for the debug variant.
	DebugSuffix = "_debug"
)

// Variant is the build flavour of a service image.
type Variant int

const (
	Standard Variant = iota
	Debug
)

// Variants lists every variant in publishing order.
var Variants = []Variant{Standard, Debug}

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Suffix returns the image name suffix for the variant.
func (v Variant) Suffix() string {
	if v == Debug {
		return DebugSuffix
	}
	return ""
}

// ImageName returns the image name of a service in the given variant.
func ImageName(service string, v Variant) string {
	return service + v.Suffix()
}

// ImageReference identifies an image as namespace/name:tag.
type ImageReference struct {
	Namespace string
	Name      string
	Tag       string
}

// String renders the reference. The namespace is omitted when empty; the tag
// separator is always present, so an empty tag renders as "name:".
func (r ImageReference) String() string {
	var sb strings.Builder
	if r.Namespace != "" {
		sb.WriteString(strings.TrimSuffix(r.Namespace, "/"))
		sb.WriteByte('/')
	}
	sb.WriteString(r.Name)
	sb.WriteByte(':')
	sb.WriteString(r.Tag)
	return sb.String()
}

// Naming maps services onto local and remote references.
type Naming struct {
	LocalNamespace  string
	RemoteNamespace string
}

// Local returns the local reference of a service variant. Its tag is always LocalTag.
func (n Naming) Local(service string, v Variant) ImageReference {
	return ImageReference{
		Namespace: n.LocalNamespace,
		Name:      ImageName(service, v),
		Tag:       LocalTag,
	}
}

// Remote returns the remote reference of a service variant for a release.
// The release tag is used verbatim.
func (n Naming) Remote(service string, v Variant, releaseTag string) ImageReference {
	return ImageReference{
		Namespace: n.RemoteNamespace,
		Name:      ImageName(service, v),
		Tag:       releaseTag,
	}
}
