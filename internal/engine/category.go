package engine

import (
	"strings"
)

// CategoryOther is the fallback when no keyword group matches.
const CategoryOther = "Other"

type categoryGroup struct {
	name     string
	keywords []string
}

// categoryGroups is scanned in order; the first group with any keyword
// hit wins. This is a best-effort heuristic, not a classifier.
var categoryGroups = []categoryGroup{
	{"Meetings", []string{"meeting", "meet", "standup", "sync", "call", "interview", "1:1"}},
	{"Development", []string{"develop", "code", "coding", "bug", "fix", "deploy", "implement", "refactor", "api", "test"}},
	{"Design", []string{"design", "mockup", "wireframe", "ui", "ux", "figma", "prototype"}},
	{"Writing", []string{"write", "writing", "draft", "report", "doc", "blog", "article", "email"}},
	{"Study", []string{"study", "learn", "course", "read", "research", "exam", "homework"}},
	{"Health", []string{"gym", "workout", "exercise", "run", "doctor", "health", "yoga"}},
	{"Finance", []string{"budget", "invoice", "pay", "tax", "bank", "finance", "expense"}},
	{"Errands", []string{"buy", "shop", "clean", "laundry", "grocery", "errand", "pick up"}},
}

// InferCategory derives a display category from a task's name and
// detail text via case-insensitive substring matching against a fixed
// ordered set of keyword groups.
func InferCategory(name, detail string) string {
	text := strings.ToLower(name + " " + detail)
	for _, group := range categoryGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.name
			}
		}
	}
	return CategoryOther
}
