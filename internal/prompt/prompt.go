// Package prompt builds the literal prompt text handed to advisor and
// mediator models. Pure string assembly; nothing here talks to a model.
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pbaille/council/internal/catalog"
)

// ErrMissingPreviousPosition rejects a follow-up prompt without the advisor's
// prior position to build on.
var ErrMissingPreviousPosition = errors.New("previous position is required for follow-up prompts")

// AdvisorInput describes one advisor prompt.
type AdvisorInput struct {
	Persona      catalog.Persona
	Question     string
	PriorContext string
	Context      string

	// Follow-up round fields.
	FollowUp          bool
	PreviousPosition  string
	OtherPositions    string
	MediatorSynthesis string
	UserFollowUp      string
}

// Advisor renders the prompt for one council member, first round or
// follow-up.
func Advisor(in AdvisorInput) (string, error) {
	if in.FollowUp {
		return followUpPrompt(in)
	}
	return openingPrompt(in), nil
}

func openingPrompt(in AdvisorInput) string {
	var b strings.Builder
	b.WriteString("You are one member of a council of AI advisors being consulted on a question.\n\n")
	fmt.Fprintf(&b, "YOUR ROLE: You are playing **%s** — %s\n", in.Persona.Name, in.Persona.Description)
	b.WriteString("Stay in character. Let this perspective shape your analysis, priorities, and recommendations.\n")
	b.WriteString("Be specific and opinionated — don't hedge. If you disagree with conventional wisdom, say so.\n")
	if in.PriorContext != "" {
		b.WriteString("\n" + in.PriorContext + "\n")
	}
	if in.Context != "" {
		b.WriteString("\nCONTEXT:\n" + in.Context + "\n")
	}
	b.WriteString("\nQUESTION:\n" + in.Question + "\n\n")
	b.WriteString("Respond concisely (under 500 words). Focus on your strongest recommendation and key reasoning, filtered through your assigned role.\n\n")
	b.WriteString("For each key claim, tag it with one of:\n")
	b.WriteString("- [ANCHORED] — based on specific data, evidence, or established fact\n")
	b.WriteString("- [INFERRED] — logical deduction from known information\n")
	b.WriteString("- [SPECULATIVE] — opinion, gut feel, or hypothesis without direct evidence\n\n")
	b.WriteString(`End your response with a single sentence starting with "RECOMMENDATION: I recommend..." that captures your core advice.`)
	return b.String()
}

func followUpPrompt(in AdvisorInput) (string, error) {
	if in.PreviousPosition == "" {
		return "", ErrMissingPreviousPosition
	}
	otherPositions := in.OtherPositions
	if otherPositions == "" {
		otherPositions = "No other positions provided."
	}

	var b strings.Builder
	b.WriteString("You are a member of a council of AI advisors in an ongoing discussion.\n\n")
	fmt.Fprintf(&b, "YOUR ROLE: You are playing **%s** — %s\n", in.Persona.Name, in.Persona.Description)
	b.WriteString("Stay in character for this follow-up as well.\n\n")
	b.WriteString("PREVIOUS QUESTION: " + in.Question + "\n\n")
	b.WriteString("YOUR PREVIOUS POSITION: " + in.PreviousPosition + "\n\n")
	b.WriteString("THE OTHER ADVISORS SAID:\n" + otherPositions + "\n\n")
	if in.MediatorSynthesis != "" {
		b.WriteString("THE MEDIATOR SAID: " + in.MediatorSynthesis + "\n\n")
	}
	b.WriteString("THE USER NOW SAYS: " + in.UserFollowUp + "\n\n")
	b.WriteString("Respond to the user's follow-up. You may revise your position if the user raises a good point, or defend it if you still disagree. Stay concise (under 300 words).\n\n")
	b.WriteString("Tag key claims as [ANCHORED], [INFERRED], or [SPECULATIVE].\n\n")
	b.WriteString(`End with a single sentence starting with "RECOMMENDATION: I recommend..." that captures your updated core advice.`)
	return b.String(), nil
}

// SynthesisInput describes the mediator prompt over a full response round.
type SynthesisInput struct {
	Question     string
	Responses    map[string]any // seat → response text or {persona, response}
	Personas     map[string]string
	Labels       map[string]string
	PriorContext string
	StatusLine   string
	Tip          string
}

type advisorBlock struct {
	header  string
	persona string
	label   string
}

// Synthesis renders the neutral-mediator prompt. When every seat carries the
// same label the headers show personas only; otherwise "label as persona".
func Synthesis(in SynthesisInput) string {
	seats := sortedSeats(in.Responses)

	labelValues := make([]string, 0, len(seats))
	for _, seat := range seats {
		labelValues = append(labelValues, in.Labels[seat])
	}
	allSame := allSameNonEmpty(labelValues)

	var blocks []advisorBlock
	var responses strings.Builder
	for _, seat := range seats {
		persona, text := unwrap(in.Responses[seat], in.Personas[seat])
		label := in.Labels[seat]
		if label == "" {
			label = seat
		}
		header := fmt.Sprintf("**%s as %s**", label, persona)
		if allSame {
			header = fmt.Sprintf("**%s**", persona)
		}
		blocks = append(blocks, advisorBlock{header: header, persona: persona, label: label})
		fmt.Fprintf(&responses, "\n%s:\n%s\n", header, text)
	}

	var personasLine, matrixHeaders string
	if allSame {
		personasLine = joinBy(blocks, func(b advisorBlock) string { return b.persona })
		matrixHeaders = joinBy(blocks, func(b advisorBlock) string { return b.persona })
	} else {
		personasLine = joinBy(blocks, func(b advisorBlock) string { return b.label + " as " + b.persona })
		matrixHeaders = joinBy(blocks, func(b advisorBlock) string { return b.label + " (" + b.persona + ")" })
	}

	var advisorLines []string
	for _, blk := range blocks {
		advisorLines = append(advisorLines, blk.header+": [2-3 sentence summary of their position + their RECOMMENDATION]")
	}

	matrixPositions := make([]string, len(blocks))
	matrixSeparators := make([]string, len(blocks))
	for i := range blocks {
		matrixPositions[i] = "[2-5 word position]"
		matrixSeparators[i] = "---"
	}

	priorLine := ""
	if in.PriorContext != "" {
		priorLine = "\nPrior context: " + in.PriorContext + "\n"
	}

	var b strings.Builder
	b.WriteString("You are the neutral mediator for a council of AI advisors. Synthesize their responses.\n\n")
	b.WriteString("QUESTION: " + in.Question + "\n")
	b.WriteString(priorLine)
	b.WriteString("\nAGENT RESPONSES:\n" + responses.String() + "\n\n")
	b.WriteString("Produce a briefing in this EXACT format:\n\n---\n\n")
	b.WriteString("**Council Briefing: [Topic]**\n")
	b.WriteString("*Personas: " + personasLine + "*" + in.StatusLine + "\n\n")
	b.WriteString(strings.Join(advisorLines, "\n\n") + "\n\n")
	b.WriteString("**Evidence Audit:** [If any consensus point rests primarily on [SPECULATIVE] claims from multiple advisors, flag it. If all key claims are anchored or inferred, write \"All key claims grounded.\" 1-2 sentences.]\n\n")
	b.WriteString("**What To Do Next:**\n")
	b.WriteString("- [ ] [Concrete action item starting with a verb — the single most important next step]\n")
	b.WriteString("- [ ] [Second action item — verb-first, specific and actionable]\n")
	b.WriteString("- [ ] [Third action item (optional) — only if genuinely distinct from the first two]\n\n")
	b.WriteString("**Disagreement Matrix:**\n\n")
	b.WriteString("| Topic | " + matrixHeaders + " |\n")
	b.WriteString("|-------|" + strings.Join(matrixSeparators, "|") + "|\n")
	b.WriteString("| [Key issue 1] | " + strings.Join(matrixPositions, " | ") + " |\n")
	b.WriteString("| [Key issue 2] | " + strings.Join(matrixPositions, " | ") + " |\n\n")
	b.WriteString("Note which disagreements stem from persona framing vs genuine analytical divergence.\n\n")
	b.WriteString("**Consensus:** [What the council agrees on. 2-4 sentences maximum.]\n\n")
	b.WriteString("**Key Tension:** [The single most important unresolved trade-off. Frame it as a clear choice, not a hedge.]\n\n")
	b.WriteString("---\n\n")
	b.WriteString("> **Tip:** " + in.Tip)
	return b.String()
}

func unwrap(value any, fallbackPersona string) (persona, text string) {
	persona = fallbackPersona
	if persona == "" {
		persona = "Unknown"
	}
	switch v := value.(type) {
	case string:
		return persona, v
	case map[string]any:
		if p, ok := v["persona"].(string); ok && p != "" {
			persona = p
		}
		if t, ok := v["response"].(string); ok {
			return persona, t
		}
		return persona, ""
	default:
		return persona, fmt.Sprintf("%v", value)
	}
}

func sortedSeats(responses map[string]any) []string {
	seats := make([]string, 0, len(responses))
	for seat := range responses {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	return seats
}

func allSameNonEmpty(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if v == "" || v != values[0] {
			return false
		}
	}
	return true
}

func joinBy(blocks []advisorBlock, f func(advisorBlock) string) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = f(b)
	}
	return strings.Join(parts, ", ")
}
