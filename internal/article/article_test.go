package article

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainOf(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/story/1": "example.com",
		"https://News.Example.org:8443/a": "news.example.org",
		"http://example.net":              "example.net",
		"not a url":                       "",
		"":                                "",
	}
	for in, want := range cases {
		require.Equal(t, want, DomainOf(in), "input %q", in)
	}
}

func TestNewDerivesDomainAndCopiesTopics(t *testing.T) {
	topics := []string{"economy", "inflation"}
	art := New("some text here", "https://www.example.com/a", "en", topics)
	require.Equal(t, "example.com", art.SourceDomain)
	require.Equal(t, 3, art.WordCount())

	topics[0] = "mutated"
	require.Equal(t, "economy", art.Topics[0])
}
