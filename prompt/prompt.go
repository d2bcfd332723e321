// Package prompt assembles system prompts from an agent specification.
// A base template is selected by the prompt policy, then conditional
// sections are appended for persona, tools, knowledge retrieval,
// reasoning, and structured output.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rjhall/agentrt/policy"
)

// Context carries per-build inputs that are not part of the spec.
type Context struct {
	// ToolDescriptions are rendered into the tools section when the
	// prompt policy enables tool descriptions. One entry per tool,
	// typically "name: description".
	ToolDescriptions []string

	// Extra sections are appended verbatim after the policy-driven ones.
	Extra []string

	// Now supplies the timestamp for the datetime line. Zero means
	// time.Now.
	Now time.Time
}

var titleCaser = cases.Title(language.English)
var nameSeparators = strings.NewReplacer("-", " ", "_", " ")

// DisplayName renders an agent identifier like "research-agent" as a
// human-readable title like "Research Agent".
func DisplayName(name string) string {
	return titleCaser.String(strings.TrimSpace(nameSeparators.Replace(name)))
}

// Build assembles the system prompt for the spec with no extra context.
func Build(spec policy.Spec) string {
	return BuildWithContext(spec, Context{})
}

// BuildWithContext assembles the system prompt for the spec. The base
// template comes from spec.Prompt; sections for persona, tools, knowledge,
// reasoning, and structured output are appended when the corresponding
// policies enable them.
func BuildWithContext(spec policy.Spec, pc Context) string {
	p := spec.Prompt
	name := DisplayName(spec.Name)

	var base string
	switch p.Template {
	case policy.TemplateCodeact:
		base = fmt.Sprintf(codeactTemplate, name)
	case policy.TemplateResearch:
		base = fmt.Sprintf(researchTemplate, name)
	case policy.TemplateAssistant:
		base = fmt.Sprintf(assistantTemplate, name, p.Tone)
	case policy.TemplateCustom:
		base = p.CustomTemplate
		if base == "" {
			base = fmt.Sprintf(defaultTemplate, name)
		}
	default:
		base = fmt.Sprintf(defaultTemplate, name)
	}

	sections := []string{base}

	if p.Persona != "" {
		sections = append(sections, fmt.Sprintf(personaSection, p.Persona))
	}
	if p.AddToolDescriptions && len(pc.ToolDescriptions) > 0 {
		sections = append(sections, fmt.Sprintf(toolSection, "- "+strings.Join(pc.ToolDescriptions, "\n- ")))
	}
	if spec.Knowledge.Enabled && p.AddKnowledgeContext {
		sections = append(sections, knowledgeSection)
	}
	if spec.Reasoning.Enabled {
		sections = append(sections, reasoningSection)
	}
	if spec.Output.Enabled {
		sections = append(sections, structuredOutputSection)
	}
	sections = append(sections, pc.Extra...)

	if p.AddDatetime {
		now := pc.Now
		if now.IsZero() {
			now = time.Now()
		}
		sections = append(sections, "Current datetime: "+now.UTC().Format(time.RFC3339))
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}
