package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck_LabelAndSeverityTables(t *testing.T) {
	a := New()

	weak := a.Check("aaa")
	assert.LessOrEqual(t, weak.Score, 1)
	assert.Equal(t, SeverityDanger, weak.Severity)
	assert.NotEmpty(t, weak.Warning)

	strong := a.Check("correct horse battery staple 42!")
	assert.GreaterOrEqual(t, strong.Score, 3)
	assert.Equal(t, SeveritySuccess, strong.Severity)
	assert.Empty(t, strong.Warning)
	assert.Empty(t, strong.Suggestions)
	assert.NotEmpty(t, strong.CrackTime)
}

func TestCheck_EmptyPassword(t *testing.T) {
	v := New().Check("")
	assert.Equal(t, 0, v.Score)
	assert.Equal(t, "very weak", v.Label)
	assert.Equal(t, SeverityDanger, v.Severity)
	assert.Equal(t, "please type in a password", v.Warning)
}

func TestCheck_ContextHintsArePenalized(t *testing.T) {
	a := New()

	v := a.Check("alice", "alice")
	assert.LessOrEqual(t, v.Score, 1, "a password equal to the username must score as weak")
	assert.Equal(t, "this is the same as the account or product name", v.Warning)

	v = a.Check("whawty")
	assert.Equal(t, "this is the same as the account or product name", v.Warning)
}

func TestCheck_SuggestionsForWeakPasswords(t *testing.T) {
	v := New().Check("abc")
	assert.Contains(t, v.Suggestions, "use a few more characters")
	assert.Contains(t, v.Suggestions, "mix upper case letters, digits and symbols")
	assert.Contains(t, v.Suggestions, "add another word or two, uncommon words are better")
}

func TestCheck_LabelMatchesScore(t *testing.T) {
	a := New()
	for _, pw := range []string{"", "a", "tr0ub4dor", "correct horse battery staple 42!"} {
		v := a.Check(pw)
		assert.Equal(t, strengthLabels[v.Score], v.Label)
		assert.Equal(t, strengthLevels[v.Score], v.Severity)
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     bool
	}{
		{name: "matching", password: "abc", confirm: "abc", want: true},
		{name: "mismatch", password: "abc", confirm: "abd", want: false},
		{name: "both empty", password: "", confirm: "", want: false},
		{name: "empty confirm", password: "abc", confirm: "", want: false},
		{name: "empty primary", password: "", confirm: "abc", want: false},
		{name: "multi-byte match", password: "pässwörd✓", confirm: "pässwörd✓", want: true},
		{name: "multi-byte mismatch", password: "pässwörd", confirm: "passwörd", want: false},
		{name: "nfc vs nfd are different bytes", password: "é", confirm: "é", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gate(tt.password, tt.confirm))
		})
	}
}
