package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trackbot/internal/track"
)

// ErrIncompleteReply means the completion came back without one of the
// required fields. The user should resend with more detail; we never guess.
var ErrIncompleteReply = errors.New("reply was missing required fields")

const systemPrompt = "You extract a single activity entry from a check-in message. " +
	"Return ONLY valid JSON with keys: " +
	"description (string), duration_minutes (number), quadrant (integer 1-4), " +
	"tags (array of strings, optional), when (string optional in 'YYYY-MM-DD HH:MM' 24h). " +
	"Quadrants are the Eisenhower matrix: 1 urgent & important, 2 not urgent & important, " +
	"3 urgent & not important, 4 not urgent & not important. " +
	"Infer tags even if the user does not provide them; prefer concise, lowercase tags " +
	"like work, health, relationships, focus, distraction, learning, planning. " +
	"Do not include any extra keys or commentary."

// Interpreter converts a free-text reply into a validated activity.
type Interpreter struct {
	completer Completer
	now       func() time.Time
}

func NewInterpreter(c Completer) *Interpreter {
	return &Interpreter{completer: c, now: time.Now}
}

// Interpret asks the completion service to map text onto the record schema and
// validates the result. Upstream failures are retried once with the original
// text; content failures are surfaced unchanged and never retried.
func (in *Interpreter) Interpret(ctx context.Context, text string) (track.Activity, error) {
	now := in.now()
	userText := fmt.Sprintf(
		"%s\n\n[User message timestamp (reference only, use literal 'now' if no other time is specified): %s]",
		text, now.Format("2006-01-02 15:04"),
	)

	raw, err := in.attempt(ctx, userText)
	if errors.Is(err, ErrUpstream) {
		raw, err = in.attempt(ctx, userText)
	}
	if err != nil {
		return track.Activity{}, err
	}

	return track.Validate(raw, now)
}

// attempt runs a single completion call and field extraction. Everything that
// points at the channel rather than the content maps to ErrUpstream so the
// caller can retry.
func (in *Interpreter) attempt(ctx context.Context, userText string) (track.RawFields, error) {
	response, err := in.completer.Complete(ctx, systemPrompt, userText)
	if err != nil {
		return track.RawFields{}, err
	}

	obj, err := extractJSON(response)
	if err != nil {
		return track.RawFields{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var payload struct {
		Description     any `json:"description"`
		Desc            any `json:"desc"`
		DurationMinutes any `json:"duration_minutes"`
		Duration        any `json:"duration"`
		Quadrant        any `json:"quadrant"`
		Tags            any `json:"tags"`
		When            any `json:"when"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return track.RawFields{}, fmt.Errorf("%w: decode fields: %v", ErrUpstream, err)
	}

	description := asString(firstOf(payload.Description, payload.Desc))
	duration := asNumberString(firstOf(payload.DurationMinutes, payload.Duration))
	quadrant := asNumberString(payload.Quadrant)

	var missing []string
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	if duration == "" {
		missing = append(missing, "duration")
	}
	if quadrant == "" {
		missing = append(missing, "quadrant")
	}
	if len(missing) > 0 {
		return track.RawFields{}, fmt.Errorf("%w: missing %s", ErrIncompleteReply, strings.Join(missing, ", "))
	}

	return track.RawFields{
		When:        asString(payload.When),
		Duration:    duration,
		Quadrant:    quadrant,
		Description: description,
		Tags:        asTagString(payload.Tags),
	}, nil
}

// extractJSON returns the outermost {...} object in text. Models often wrap
// the JSON in prose or code fences despite the instructions.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", errors.New("response did not include a JSON object")
	}
	return text[start : end+1], nil
}

func firstOf(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asNumberString renders a loosely typed numeric field for the validator.
// Returns "" when the value is absent or not numeric at all.
func asNumberString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return strings.TrimSpace(n)
	default:
		return ""
	}
}

// asTagString joins a tags value into the comma form the validator splits.
func asTagString(v any) string {
	switch tags := v.(type) {
	case []any:
		var parts []string
		for _, t := range tags {
			if s := strings.TrimSpace(fmt.Sprint(t)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case string:
		return tags
	default:
		return ""
	}
}
