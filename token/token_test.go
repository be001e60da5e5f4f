package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanMerge(t *testing.T) {
	a := Span{Start: 2, End: 5}
	b := Span{Start: 4, End: 9}
	assert.Equal(t, Span{Start: 2, End: 9}, a.Merge(b))
}

func TestSpanSlice(t *testing.T) {
	source := "var x = 1;"
	assert.Equal(t, "var", Span{Start: 0, End: 3}.Slice(source))
	assert.Equal(t, "", Span{Start: 5, End: 5}.Slice(source))
	assert.Equal(t, "", Span{Start: 8, End: 2}.Slice(source))
	assert.Equal(t, "1;", Span{Start: 8, End: 100}.Slice(source))
}

func TestKeywordsResolveToExpectedKind(t *testing.T) {
	for word, want := range Keywords {
		got, ok := Keywords[word]
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := Keywords["notAKeyword"]
	assert.False(t, ok)
}
