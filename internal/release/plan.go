package release

import "fmt"

// StepKind is the image store operation a step performs.
type StepKind string

const (
	StepTag  StepKind = "tag"
	StepPush StepKind = "push"
)

// Step is a single image store operation within a publishing run.
type Step struct {
	// Position is 1-based across the whole run.
	Position int
	Kind     StepKind
	Service  string
	Variant  Variant
	// Source is only set for tag steps.
	Source ImageReference
	Target ImageReference
}

func (s Step) String() string {
	if s.Kind == StepTag {
		return fmt.Sprintf("tag %s -> %s", s.Source, s.Target)
	}
	return fmt.Sprintf("push %s", s.Target)
}

// Plan is the ordered sequence of steps publishing a catalogue under a release tag.
type Plan struct {
	Release string
	Steps   []Step
}

// Len returns the number of steps.
func (p Plan) Len() int { return len(p.Steps) }

// NewPlan computes the steps for every service in catalogue order: for each
// service the standard variant is tagged and pushed, then the debug variant.
func NewPlan(services []string, naming Naming, releaseTag string) (Plan, error) {
	if releaseTag == "" {
		return Plan{}, ErrEmptyReleaseTag
	}
	if len(services) == 0 {
		return Plan{}, ErrEmptyCatalogue
	}

	steps := make([]Step, 0, len(services)*len(Variants)*2)
	for _, service := range services {
		for _, v := range Variants {
			local := naming.Local(service, v)
			remote := naming.Remote(service, v, releaseTag)
			steps = append(steps,
				Step{Kind: StepTag, Service: service, Variant: v, Source: local, Target: remote},
				Step{Kind: StepPush, Service: service, Variant: v, Target: remote},
			)
		}
	}
	for i := range steps {
		steps[i].Position = i + 1
	}

	return Plan{Release: releaseTag, Steps: steps}, nil
}
