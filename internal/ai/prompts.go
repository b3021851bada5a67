package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/classify.tmpl
var classifyPromptRaw string

//go:embed prompts/cover_letter.tmpl
var coverLetterPromptRaw string

// ClassifyTemplate renders the ranking prompt for one chunk of candidates.
var ClassifyTemplate = template.Must(template.New("classify").Parse(classifyPromptRaw))

// CoverLetterTemplate renders the draft prompt for one strong match.
var CoverLetterTemplate = template.Must(template.New("cover_letter").Parse(coverLetterPromptRaw))
