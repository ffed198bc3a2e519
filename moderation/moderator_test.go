package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Censor_Should_Star_Out_Listed_Words(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator(DefaultWordList, DefaultCensoredChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain match",
			input:    "you are an idiot",
			expected: "you are an *****",
		},
		{
			name:     "uppercase match",
			input:    "STUPID plan",
			expected: "****** plan",
		},
		{
			name:     "leet substitution",
			input:    "what a m0r0n",
			expected: "what a *****",
		},
		{
			name:     "spaced out word",
			input:    "i d i o t",
			expected: "*********",
		},
		{
			name:     "punctuation inside word",
			input:    "b.u.l.l.s.h.i.t",
			expected: "***************",
		},
		{
			name:     "clean text untouched",
			input:    "let's ship the release on Friday",
			expected: "let's ship the release on Friday",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			censored, _ := moderator.Censor(tt.input)
			require.Equal(t, tt.expected, censored)
		})
	}
}

func Test_Censor_Should_Report_Matched_Words(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator(DefaultWordList, DefaultCensoredChar)
	req.NoError(err)

	_, matched := moderator.Censor("that stupid idiot again")
	req.Len(matched, 2)
	req.Contains(matched, "stupid")
	req.Contains(matched, "idiot")

	_, matched = moderator.Censor("all good here")
	req.Empty(matched)
}

func Test_Censor_Should_Keep_Surrounding_UTF8_Intact(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator(DefaultWordList, DefaultCensoredChar)
	req.NoError(err)

	censored, matched := moderator.Censor("écoute, quel idiot 🙄")
	req.Equal("écoute, quel ***** 🙄", censored)
	req.Len(matched, 1)
}

func Test_LanguageTag_Should_Return_Empty_When_Unreliable(t *testing.T) {
	req := require.New(t)

	req.Empty(LanguageTag(""))
	req.Empty(LanguageTag("ok"))
	req.Equal("en", LanguageTag("the quick brown fox jumps over the lazy dog and keeps running"))
}
