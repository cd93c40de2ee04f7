package ical

import (
	"regexp"
	"strconv"
	"strings"
)

// GuestInfo holds the details recoverable from an event's summary and
// description. Zero values mean the field was not found; the reconciler
// supplies defaults.
type GuestInfo struct {
	Name             string
	Email            string
	GuestCount       int
	ConfirmationCode string
}

// maxGuestCount bounds parsed guest counts; upstream feeds occasionally
// carry junk numbers.
const maxGuestCount = 32

var (
	codeTokenRe    = regexp.MustCompile(`^[A-Z0-9]{6,}$`)
	upperRunRe     = regexp.MustCompile(`[A-Z0-9]{6,}`)
	guestParenRe   = regexp.MustCompile(`\s*\(\d+\s+guests?\)\s*$`)
	guestCountRe   = regexp.MustCompile(`(\d+)\s+guests?`)
	emailRe        = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	detailsCodeRe  = regexp.MustCompile(`details/([A-Z0-9]{9,10})(?:[^A-Z0-9]|$)`)
	labeledCodeRe  = regexp.MustCompile(`(?i:(?:confirmation\s+)?code)\s*:\s*([A-Z0-9]{9,10})(?:[^A-Z0-9]|$)`)
	guestLabeledRe = regexp.MustCompile(`(?i)guests?\s*:\s*(\d+)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	foldedLineRe   = regexp.MustCompile(`\r?\n[ \t]`)
)

// ExtractGuestInfo parses the human-readable summary and description of a
// reservation event. It is a pure function; unmatched fields are left at
// their zero value.
func ExtractGuestInfo(summary, description string) GuestInfo {
	var info GuestInfo

	extractFromSummary(strings.TrimSpace(summary), &info)

	if m := emailRe.FindString(description); m != "" {
		info.Email = m
	}

	if info.ConfirmationCode == "" {
		info.ConfirmationCode = extractConfirmationCode(description)
	}

	if info.GuestCount == 0 {
		if m := guestLabeledRe.FindStringSubmatch(description); m != nil {
			info.GuestCount = parseGuestCount(m[1])
		}
	}

	return info
}

// extractFromSummary pulls name, guest count and an inline confirmation
// code from summaries such as "John Smith - Airbnb (2 guests)",
// "Alice Johnson (3 guests) - Airbnb" or "Reserved - HMATZMHW8H".
func extractFromSummary(summary string, info *GuestInfo) {
	if summary == "" {
		return
	}

	name := summary
	if parts := strings.Split(summary, " - "); len(parts) > 1 {
		name = strings.TrimSpace(parts[0])
		if last := strings.TrimSpace(parts[len(parts)-1]); codeTokenRe.MatchString(last) {
			info.ConfirmationCode = last
		}
	}

	if m := guestCountRe.FindStringSubmatch(summary); m != nil {
		info.GuestCount = parseGuestCount(m[1])
	}

	name = strings.TrimSpace(guestParenRe.ReplaceAllString(name, ""))

	// A remaining uppercase run means the segment is a code, not a name.
	if name != "" && !upperRunRe.MatchString(name) {
		info.Name = name
	}
}

// extractConfirmationCode scans a description for the 9-10 character
// uppercase reservation code. Airbnb wraps its reservation URL across folded
// lines (newline plus a space), so continuations are joined before matching
// the details/ path fragment. The remaining whitespace stays put: it bounds
// the code on the right, so an overlong token is rejected rather than
// truncated.
func extractConfirmationCode(description string) string {
	if description == "" {
		return ""
	}

	unescaped := strings.NewReplacer("\\n", "\n", "\\r", "").Replace(description)
	unfolded := foldedLineRe.ReplaceAllString(unescaped, "")

	if m := detailsCodeRe.FindStringSubmatch(unfolded); m != nil {
		return m[1]
	}

	spaced := whitespaceRe.ReplaceAllString(unfolded, " ")
	if m := labeledCodeRe.FindStringSubmatch(spaced); m != nil {
		return m[1]
	}

	return ""
}

func parseGuestCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxGuestCount {
		return 0
	}
	return n
}
