// Package transcript defines the canonical conversation model shared by the
// extraction, parsing, triage, and archiving stages.
package transcript

// Role identifies which party produced a turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Flip returns the opposite role, used by the alternation heuristic.
func (r Role) Flip() Role {
	if r == RoleHuman {
		return RoleAssistant
	}
	return RoleHuman
}

// Platform tags the source chat product a conversation was captured from.
type Platform string

const (
	PlatformChatGPT Platform = "chatgpt"
	PlatformClaude  Platform = "claude"
	PlatformGemini  Platform = "gemini"
	PlatformGrok    Platform = "grok"
	PlatformOther   Platform = "other"
)

// Turn is one attributed utterance in the canonical conversation sequence.
// Content is always non-empty after trimming. SourceIndex reflects the
// original document order and is used only for sorting, never serialized.
type Turn struct {
	Role        Role   `json:"role"`
	Content     string `json:"content"`
	SourceIndex int    `json:"-"`
}

// Confidence is the trust tier of extracted model attribution.
// Verified > Inferred > Claimed.
type Confidence string

const (
	ConfidenceVerified Confidence = "verified"
	ConfidenceInferred Confidence = "inferred"
	ConfidenceClaimed  Confidence = "claimed"
)

// Rank orders confidence tiers with 0 as most trusted.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceVerified:
		return 0
	case ConfidenceInferred:
		return 1
	default:
		return 2
	}
}

// AttributionSource records where a model-attribution signal came from.
type AttributionSource string

const (
	SourceNetworkIntercept AttributionSource = "network_intercept"
	SourcePageState        AttributionSource = "page_state"
	SourceDomScrape        AttributionSource = "dom_scrape"
	SourceUserReported     AttributionSource = "user_reported"
)

// Attribution describes which model produced the assistant turns, with a
// confidence/source pair for the signal that identified it. Produced once
// per extraction and immutable afterward.
type Attribution struct {
	ModelID          *string           `json:"model_id"`
	ModelDisplayName *string           `json:"model_display_name"`
	Confidence       Confidence        `json:"attribution_confidence"`
	Source           AttributionSource `json:"attribution_source"`
}

// ExtractionResult is the output of a platform extractor: a best-effort
// ordered turn list plus attribution metadata. Created fresh on every
// detection; downstream stages build new sequences rather than mutating it.
type ExtractionResult struct {
	Platform       Platform    `json:"platform"`
	Title          string      `json:"title"`
	Turns          []Turn      `json:"turns"`
	Attribution    Attribution `json:"attribution"`
	Timestamp      string      `json:"timestamp"`
	ConversationID *string     `json:"external_conversation_id"`
}

// ParseMetadata is diagnostic output from the generic text parser. It is
// surfaced for observability and never persisted as truth.
type ParseMetadata struct {
	DetectedProvider         Platform `json:"detected_provider"`
	DetectedFirstSpeaker     Role     `json:"detected_first_speaker"`
	UserOverrodeFirstSpeaker bool     `json:"user_overrode_first_speaker"`
	HasExplicitLabels        bool     `json:"has_explicit_labels"`
	RawCharacterCount        int      `json:"raw_character_count"`
	TurnCount                int      `json:"turn_count"`
}
