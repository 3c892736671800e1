// Package advisor wraps the zxcvbn strength estimator into the verdict the
// password workflow shows after every entry attempt. It is pure: the same
// password and hints always produce the same verdict, nothing is persisted.
package advisor

import (
	"strings"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// productToken is always passed to the estimator as a weak context token so
// a password does not get rewarded merely for containing the product name.
const productToken = "whawty"

// Severity buckets a verdict for presentation.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Fixed lookup tables, one entry per score.
var (
	strengthLabels = [5]string{"very weak", "weak", "so-so", "strong", "very strong"}
	strengthLevels = [5]Severity{SeverityDanger, SeverityDanger, SeverityWarning, SeveritySuccess, SeveritySuccess}
)

// Verdict is the advisory shown next to the password field.
type Verdict struct {
	Score       int // 0..4
	Label       string
	Severity    Severity
	Warning     string
	Suggestions []string
	CrackTime   string
}

type Advisor struct{}

func New() *Advisor { return &Advisor{} }

// Check scores the candidate password. The hints (typically the target
// username) and the product token are handed to the estimator as context it
// must not reward, and additionally trigger a warning when the password is
// essentially one of them.
func (a *Advisor) Check(password string, hints ...string) Verdict {
	if password == "" {
		return Verdict{
			Score:    0,
			Label:    strengthLabels[0],
			Severity: strengthLevels[0],
			Warning:  "please type in a password",
		}
	}

	inputs := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		if h != "" {
			inputs = append(inputs, h)
		}
	}
	inputs = append(inputs, productToken)

	res := zxcvbn.PasswordStrength(password, inputs)
	score := res.Score
	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}

	return Verdict{
		Score:       score,
		Label:       strengthLabels[score],
		Severity:    strengthLevels[score],
		Warning:     warningFor(password, score, inputs),
		Suggestions: suggestionsFor(password, score),
		CrackTime:   res.CrackTimeDisplay,
	}
}

// warningFor returns a short danger note for clearly broken passwords.
func warningFor(password string, score int, hints []string) string {
	lowered := strings.ToLower(password)
	for _, hint := range hints {
		if lowered == strings.ToLower(hint) {
			return "this is the same as the account or product name"
		}
	}
	if score > 1 {
		return ""
	}
	switch {
	case isRepeat(password):
		return "repeated characters are easy to guess"
	case len(password) < 6:
		return "this password is far too short"
	default:
		return "this looks like a very common password"
	}
}

func suggestionsFor(password string, score int) []string {
	if score >= 3 {
		return nil
	}

	var tips []string
	if len(password) < 8 {
		tips = append(tips, "use a few more characters")
	}
	if characterClasses(password) < 3 {
		tips = append(tips, "mix upper case letters, digits and symbols")
	}
	tips = append(tips, "add another word or two, uncommon words are better")
	return tips
}

func isRepeat(password string) bool {
	if len(password) < 3 {
		return false
	}
	first := rune(password[0])
	for _, r := range password {
		if r != first {
			return false
		}
	}
	return true
}

func characterClasses(password string) int {
	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	n := 0
	for _, set := range []bool{lower, upper, digit, other} {
		if set {
			n++
		}
	}
	return n
}

// Gate is the submit gate of the password workflow: the confirmation must be
// non-empty and byte-equal to the primary field. Strength never gates
// submission, only this check does.
func Gate(password, confirm string) bool {
	return password != "" && password == confirm
}
