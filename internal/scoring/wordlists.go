package scoring

import "regexp"

// junkTerms are the spam markers checked by the basic policy. Matched as
// substrings of the lowercased combined text.
var junkTerms = []string{"asdf", "lorem", "test", "sample", "qwerty", "fake", "!!!"}

// blacklistTerms is the extended policy's list: junk markers plus vague
// filler and promotional language that never belongs in a genuine report.
var blacklistTerms = []string{
	"asdf",
	"lorem",
	"qwerty",
	"sample text",
	"click here",
	"subscribe",
	"buy now",
	"free",
	"discount",
	"limited offer",
	"urgent",
	"asap",
}

// vagueTitles are headings that carry no information about the incident.
var vagueTitles = []string{
	"update",
	"notice",
	"important",
	"info",
	"information",
	"issue",
	"problem",
	"complaint",
	"report",
	"something",
	"help",
}

// specificPhrases capture wrongdoing-specific phrasing. Each match earns a
// credit in the extended policy.
var specificPhrases = []*regexp.Regexp{
	regexp.MustCompile(`misused in \w+ dept`),
	regexp.MustCompile(`mismanagement of \w+`),
	regexp.MustCompile(`violation of policy \w+`),
	regexp.MustCompile(`breach in \w+`),
}
