package refdata

// Fixture returns a small compiled table set covering a handful of federal
// districts and common reporters. Tests across packages share it; production
// runs always load the full YAML tables.
func Fixture() *Tables {
	t := &Tables{
		Courts: CourtTable{
			Codes: []string{"txed", "txwd", "cand", "nysd", "ca5", "scotus"},
			CaseNumbers: []CourtPattern{
				{Court: "txed", Pattern: `\b[24]:\d{2}-cv-\d{3,5}\b.*\bE\.?D\.?\s*Tex`},
				{Court: "cand", Pattern: `\b[34]:\d{2}-cv-\d{3,5}-[A-Z]{2,4}\b`},
				{Court: "nysd", Pattern: `\b1:\d{2}-cv-\d{3,5}\s*\(S\.?D\.?N\.?Y\.?\)`},
			},
			Names: []CourtPattern{
				{Court: "txed", Pattern: `eastern district of texas`},
				{Court: "cand", Pattern: `northern district of california`},
				{Court: "nysd", Pattern: `southern district of new york`},
				{Court: "ca5", Pattern: `fifth circuit`},
				{Court: "scotus", Pattern: `supreme court of the united states`},
			},
		},
		Judges: JudgeTable{
			Entries: []JudgeEntry{
				{Initials: "RG", Name: "Rodney Gilstrap", Court: "txed"},
				{Initials: "RSP", Name: "Roy S. Payne", Court: "txed"},
				{Initials: "WHO", Name: "William H. Orrick", Court: "cand"},
				{Initials: "JPC", Name: "J. Paul Oetken", Court: "nysd"},
			},
		},
		Reporters: ReporterTable{
			Canonical: map[string]string{
				"F.3d":     "F.3d",
				"F. 3d":    "F.3d",
				"F.3d.":    "F.3d",
				"F.2d":     "F.2d",
				"F. 2d":    "F.2d",
				"F.Supp.3d": "F. Supp. 3d",
				"F. Supp. 3d": "F. Supp. 3d",
				"F.Supp.2d": "F. Supp. 2d",
				"U.S.":     "U.S.",
				"U. S.":    "U.S.",
				"S.Ct.":    "S. Ct.",
				"S. Ct.":   "S. Ct.",
				"WL":       "WL",
			},
			Patterns: []string{
				`^[A-Z][A-Za-z0-9.' ]{0,24}$`,
			},
		},
	}

	// Fixture tables skip Load, so compile/index here.
	if err := t.Courts.compile(); err != nil {
		panic(err)
	}
	t.Judges.index()
	if err := t.Reporters.compile(); err != nil {
		panic(err)
	}

	return t
}
