package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/model"
)

// Scenario is a scripted sequence of operations against a fresh engine,
// followed by assertions on the recorded trace and the final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps run in order. Every step must succeed unless it names the
	// error code it expects.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// As binds the created entity id (create ops) or the subscription
	// (subscribe ops) to a name. Later steps refer to an entity as "$name".
	As string `yaml:"as,omitempty"`

	// Args are the operation arguments. String values of the form "$name"
	// are replaced by the id bound to name.
	Args map[string]any `yaml:"args,omitempty"`

	// ExpectError is the error code the step must fail with
	// (NOT_FOUND, CONFLICT or VALIDATION).
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Subscription names a subscription bound with "as"
	// (event_count, event_sequence).
	Subscription string `yaml:"subscription,omitempty"`

	// Count is the expected number of events or entities
	// (event_count, entity_count).
	Count int `yaml:"count,omitempty"`

	// Mutations is the expected mutation order (event_sequence).
	Mutations []string `yaml:"mutations,omitempty"`

	// Kind is the entity kind (entity_count, final_state).
	Kind string `yaml:"kind,omitempty"`

	// ID is the entity id or "$name" reference (final_state).
	ID string `yaml:"id,omitempty"`

	// Expect is a subset of the entity's fields (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Absent requires the entity not to exist (final_state).
	Absent bool `yaml:"absent,omitempty"`
}

// Operation names.
const (
	OpCreateUser        = "create_user"
	OpUpdateUser        = "update_user"
	OpDeleteUser        = "delete_user"
	OpCreatePost        = "create_post"
	OpUpdatePost        = "update_post"
	OpDeletePost        = "delete_post"
	OpCreateComment     = "create_comment"
	OpUpdateComment     = "update_comment"
	OpDeleteComment     = "delete_comment"
	OpSubscribePosts    = "subscribe_posts"
	OpSubscribeComments = "subscribe_comments"
	OpUnsubscribe       = "unsubscribe"
	OpUser              = "user"
	OpPost              = "post"
	OpComment           = "comment"
	OpUsers             = "users"
	OpPosts             = "posts"
	OpComments          = "comments"
	OpPostsOfUser       = "posts_of_user"
	OpCommentsOfUser    = "comments_of_user"
	OpCommentsOfPost    = "comments_of_post"
	OpAuthorOfPost      = "author_of_post"
	OpAuthorOfComment   = "author_of_comment"
	OpPostOfComment     = "post_of_comment"
)

var (
	createOps    = []string{OpCreateUser, OpCreatePost, OpCreateComment}
	subscribeOps = []string{OpSubscribePosts, OpSubscribeComments}
	otherOps     = []string{
		OpUpdateUser, OpDeleteUser, OpUpdatePost, OpDeletePost,
		OpUpdateComment, OpDeleteComment, OpUnsubscribe,
		OpUser, OpPost, OpComment, OpUsers, OpPosts, OpComments,
		OpPostsOfUser, OpCommentsOfUser, OpCommentsOfPost,
		OpAuthorOfPost, OpAuthorOfComment, OpPostOfComment,
	}
)

// Assertion type constants.
const (
	AssertEventCount    = "event_count"
	AssertEventSequence = "event_sequence"
	AssertEntityCount   = "entity_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	bound := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
		if step.As != "" {
			if bound[step.As] {
				return fmt.Errorf("steps[%d]: name %q is already bound", i, step.As)
			}
			bound[step.As] = true
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	switch {
	case step.Op == "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case slices.Contains(createOps, step.Op), slices.Contains(subscribeOps, step.Op):
	case slices.Contains(otherOps, step.Op):
		if step.As != "" {
			return fmt.Errorf("steps[%d]: %s does not bind a name", index, step.Op)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	switch engine.ErrorCode(step.ExpectError) {
	case "", engine.ErrCodeNotFound, engine.ErrCodeConflict, engine.ErrCodeValidation:
	default:
		return fmt.Errorf("steps[%d]: unknown error code %q", index, step.ExpectError)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventCount:
		if a.Subscription == "" {
			return fmt.Errorf("assertions[%d]: subscription is required for event_count", index)
		}
	case AssertEventSequence:
		if a.Subscription == "" {
			return fmt.Errorf("assertions[%d]: subscription is required for event_sequence", index)
		}
	case AssertEntityCount:
		if !model.Kind(a.Kind).Valid() {
			return fmt.Errorf("assertions[%d]: unknown kind %q", index, a.Kind)
		}
	case AssertFinalState:
		if !model.Kind(a.Kind).Valid() {
			return fmt.Errorf("assertions[%d]: unknown kind %q", index, a.Kind)
		}
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for final_state", index)
		}
		if a.Absent && len(a.Expect) > 0 {
			return fmt.Errorf("assertions[%d]: absent and expect are mutually exclusive", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
