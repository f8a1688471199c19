// Package profile holds the candidate profile the pipeline scores postings
// against. The profile is owned by an external collaborator; the pipeline
// only reads immutable snapshots of it.
package profile

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
)

// defaultSkillKeywords is the built-in skill vocabulary used to derive the
// skill fingerprint from profile text.
var defaultSkillKeywords = []string{
	"python", "java", "c++", "c#", "go", "sql", "javascript", "typescript",
	"react", "node", "flask", "django", "html", "css", "pandas", "numpy",
	"tensorflow", "pytorch", "machine learning", "deep learning",
	"cloud", "aws", "azure", "docker", "kubernetes", "git", "linux",
}

// Snapshot bundles the profile text with its derived skill set. It is built
// once per update and never mutated, so a cycle that captured it mid-run
// keeps a consistent view.
type Snapshot struct {
	Text      string
	Skills    []string
	Version   uint64
	UpdatedAt time.Time
}

// Empty reports whether there is no usable profile text.
func (s *Snapshot) Empty() bool {
	return s == nil || strings.TrimSpace(s.Text) == ""
}

// Store owns the single active profile snapshot. Updates swap the whole
// snapshot atomically; readers never observe a half-applied update.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	skills  []string
}

// NewStore creates a store with an empty profile. A non-nil skillKeywords
// overrides the built-in skill vocabulary.
func NewStore(skillKeywords []string) *Store {
	s := &Store{skills: skillKeywords}
	if s.skills == nil {
		s.skills = defaultSkillKeywords
	}
	s.current.Store(&Snapshot{})
	return s
}

// Update replaces the active profile wholesale (last write wins) and
// returns the new snapshot.
func (s *Store) Update(text string) *Snapshot {
	snap := &Snapshot{
		Text:      text,
		Skills:    ExtractSkills(text, s.skills),
		Version:   s.version.Add(1),
		UpdatedAt: time.Now().UTC(),
	}
	s.current.Store(snap)
	return snap
}

// Clear removes the active profile.
func (s *Store) Clear() {
	s.current.Store(&Snapshot{Version: s.version.Add(1), UpdatedAt: time.Now().UTC()})
}

// Current returns the active snapshot. Safe for concurrent use.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// ExtractSkills returns the normalized skill tokens from keywords that occur
// in text as whole words, sorted and deduplicated.
func ExtractSkills(text string, keywords []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)

	found := make(map[string]struct{})
	for _, kw := range keywords {
		norm := strings.ToLower(strings.TrimSpace(kw))
		if norm == "" {
			continue
		}
		if containsToken(lower, norm) {
			found[norm] = struct{}{}
		}
	}

	skills := make([]string, 0, len(found))
	for skill := range found {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}

// containsToken reports whether token occurs in text without being glued to
// surrounding letters or digits. Plain word boundaries would reject tokens
// that end in symbols, like "c++" and "c#".
func containsToken(text, token string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], token)
		if idx < 0 {
			return false
		}
		idx += start

		before := idx == 0 || !isWordRune(rune(text[idx-1]))
		end := idx + len(token)
		after := end >= len(text) || !isWordRune(rune(text[end]))
		if before && after {
			return true
		}

		start = idx + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Report describes which vocabulary skills a profile covers.
type Report struct {
	Found   []string
	Missing []string
}

// Analyze compares the profile text against the skill vocabulary.
func Analyze(text string, keywords []string) Report {
	if keywords == nil {
		keywords = defaultSkillKeywords
	}

	found := ExtractSkills(text, keywords)
	have := make(map[string]struct{}, len(found))
	for _, skill := range found {
		have[skill] = struct{}{}
	}

	var missing []string
	for _, kw := range keywords {
		norm := strings.ToLower(strings.TrimSpace(kw))
		if norm == "" {
			continue
		}
		if _, ok := have[norm]; !ok {
			missing = append(missing, norm)
		}
	}
	sort.Strings(missing)

	return Report{Found: found, Missing: missing}
}
