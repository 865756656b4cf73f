// Package refdata loads the externally supplied jurisdiction tables: court
// code patterns, judge initials, and reporter canonicalization. The tables
// are data, not code; coverage grows by editing the YAML files.
package refdata

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Tables bundles every reference table, loaded once at pipeline construction.
type Tables struct {
	Courts    CourtTable
	Judges    JudgeTable
	Reporters ReporterTable
}

// Load reads the three reference tables from their YAML files.
func Load(courtsPath, judgesPath, reportersPath string) (*Tables, error) {
	var t Tables

	if err := loadYAML(courtsPath, &t.Courts); err != nil {
		return nil, eris.Wrap(err, "refdata: load courts")
	}
	if err := t.Courts.compile(); err != nil {
		return nil, eris.Wrap(err, "refdata: compile court patterns")
	}

	if err := loadYAML(judgesPath, &t.Judges); err != nil {
		return nil, eris.Wrap(err, "refdata: load judges")
	}
	t.Judges.index()

	if err := loadYAML(reportersPath, &t.Reporters); err != nil {
		return nil, eris.Wrap(err, "refdata: load reporters")
	}
	if err := t.Reporters.compile(); err != nil {
		return nil, eris.Wrap(err, "refdata: compile reporter patterns")
	}

	zap.L().Info("refdata: tables loaded",
		zap.Int("court_codes", len(t.Courts.Codes)),
		zap.Int("case_number_patterns", len(t.Courts.CaseNumbers)),
		zap.Int("judges", len(t.Judges.Entries)),
		zap.Int("reporters", len(t.Reporters.Canonical)),
	)

	return &t, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}

// CourtPattern maps a regex to a canonical court code.
type CourtPattern struct {
	Court   string `yaml:"court"`
	Pattern string `yaml:"pattern"`
	re      *regexp.Regexp
}

// CourtTable holds the court resolution reference data.
type CourtTable struct {
	Codes       []string       `yaml:"codes"`
	CaseNumbers []CourtPattern `yaml:"case_number_patterns"`
	Names       []CourtPattern `yaml:"name_patterns"`

	codeSet map[string]bool
}

func (t *CourtTable) compile() error {
	t.codeSet = make(map[string]bool, len(t.Codes))
	for _, c := range t.Codes {
		t.codeSet[strings.ToLower(c)] = true
	}
	for i := range t.CaseNumbers {
		re, err := compileInsensitive(t.CaseNumbers[i].Pattern)
		if err != nil {
			return eris.Wrapf(err, "case number pattern for %s", t.CaseNumbers[i].Court)
		}
		t.CaseNumbers[i].re = re
	}
	for i := range t.Names {
		re, err := compileInsensitive(t.Names[i].Pattern)
		if err != nil {
			return eris.Wrapf(err, "name pattern for %s", t.Names[i].Court)
		}
		t.Names[i].re = re
	}
	return nil
}

// compileInsensitive compiles a pattern case-insensitively; case-number
// conventions are matched regardless of how the source cased them.
func compileInsensitive(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// IsKnownCode reports whether code is a canonical court identifier.
func (t *CourtTable) IsKnownCode(code string) bool {
	return t.codeSet[strings.ToLower(strings.TrimSpace(code))]
}

// MatchCaseNumber returns the court whose case-number convention matches s.
func (t *CourtTable) MatchCaseNumber(s string) (string, bool) {
	for _, p := range t.CaseNumbers {
		if p.re != nil && p.re.MatchString(s) {
			return p.Court, true
		}
	}
	return "", false
}

// MatchName scans prose for a known court-name pattern.
func (t *CourtTable) MatchName(content string) (string, bool) {
	for _, p := range t.Names {
		if p.re != nil && p.re.MatchString(content) {
			return p.Court, true
		}
	}
	return "", false
}

// JudgeEntry maps judge initials to a full identity and court of service.
type JudgeEntry struct {
	Initials string `yaml:"initials"`
	Name     string `yaml:"name"`
	Court    string `yaml:"court"`
}

// JudgeTable is the initials-to-judge reference table, keyed by court for
// cross-validation.
type JudgeTable struct {
	Entries []JudgeEntry `yaml:"entries"`

	byInitials map[string][]JudgeEntry
}

func (t *JudgeTable) index() {
	t.byInitials = make(map[string][]JudgeEntry, len(t.Entries))
	for _, e := range t.Entries {
		if e.Initials == "" || e.Name == "" {
			zap.L().Warn("refdata: skipping malformed judge entry",
				zap.String("initials", e.Initials),
				zap.String("name", e.Name),
			)
			continue
		}
		key := strings.ToUpper(e.Initials)
		t.byInitials[key] = append(t.byInitials[key], e)
	}
}

// LookupInitials returns every judge known under the given initials.
func (t *JudgeTable) LookupInitials(initials string) []JudgeEntry {
	return t.byInitials[strings.ToUpper(strings.TrimSpace(initials))]
}

// ReporterTable holds reporter canonicalization data and the well-formedness
// pattern set used by citation validation.
type ReporterTable struct {
	Canonical map[string]string `yaml:"canonical"`
	Patterns  []string          `yaml:"patterns"`

	res []*regexp.Regexp
}

func (t *ReporterTable) compile() error {
	for _, p := range t.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return eris.Wrapf(err, "reporter pattern %q", p)
		}
		t.res = append(t.res, re)
	}
	return nil
}

// Normalize maps a reporter variant to its canonical form. The second return
// is false when the reporter is not in the table; callers pass such
// reporters through unchanged and flag them partial, never as normalized.
func (t *ReporterTable) Normalize(reporter string) (string, bool) {
	key := collapseSpaces(reporter)
	if canon, ok := t.Canonical[key]; ok {
		return canon, true
	}
	return reporter, false
}

// WellFormed reports whether the reporter token matches the pattern set.
func (t *ReporterTable) WellFormed(reporter string) bool {
	for _, re := range t.res {
		if re.MatchString(reporter) {
			return true
		}
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
