/*
File: document_test.go
Description: Tests for the typed JSON document model. Verifies that every
accessor is total: absent, null, and mistyped fields degrade to the caller's
fallback instead of failing.
*/

package jsondoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"titles": [`))
	require.Error(t, err)
}

func TestStringAccessorDefaults(t *testing.T) {
	doc := MustParse([]byte(`{"name":"Halo Infinite","titleId":1144039928,"missing":null,"flag":true}`))

	assert.Equal(t, "Halo Infinite", doc.String("name", "Unknown"))
	assert.Equal(t, "1144039928", doc.String("titleId", "Unknown"))
	assert.Equal(t, "true", doc.String("flag", ""))
	assert.Equal(t, "Unknown", doc.String("missing", "Unknown"))
	assert.Equal(t, "Unknown", doc.String("absent", "Unknown"))
}

func TestIntAccessorAcceptsQuotedNumbers(t *testing.T) {
	doc := MustParse([]byte(`{"quoted":"250","raw":1000,"junk":"n/a"}`))

	assert.Equal(t, 250, doc.Int("quoted", 0))
	assert.Equal(t, 1000, doc.Int("raw", 0))
	assert.Equal(t, 0, doc.Int("junk", 0))
	assert.Equal(t, 7, doc.Int("absent", 7))
}

func TestNestedObjectIsTotal(t *testing.T) {
	doc := MustParse([]byte(`{"achievement":{"progressPercentage":"100"}}`))

	assert.Equal(t, "100", doc.Object("achievement").String("progressPercentage", "0"))

	// Descending through a missing object must not panic and must still
	// produce the fallback at the leaf.
	assert.Equal(t, "0", doc.Object("nothing").Object("deeper").String("value", "0"))
}

func TestArrayAndFirst(t *testing.T) {
	doc := MustParse([]byte(`{"titles":[{"name":"A"},{"name":"B"}],"empty":[]}`))

	titles := doc.Array("titles")
	require.Len(t, titles, 2)
	assert.Equal(t, "A", titles[0].String("name", ""))

	assert.Equal(t, "B", doc.Array("titles")[1].String("name", ""))
	assert.Equal(t, "", doc.First("empty").String("name", ""))
	assert.Equal(t, "", doc.First("absent").String("name", ""))
}

func TestStringsFormatsScalars(t *testing.T) {
	doc := MustParse([]byte(`{"devices":["XboxSeries","PC"],"ids":[1,2]}`))

	assert.Equal(t, []string{"XboxSeries", "PC"}, doc.Strings("devices"))
	assert.Equal(t, []string{"1", "2"}, doc.Strings("ids"))
	assert.Nil(t, doc.Strings("absent"))
}

func TestEncodeRoundTrip(t *testing.T) {
	doc := MustParse([]byte(`{"announcements":{"latest":{"id":"42"}}}`))
	raw, err := doc.Encode()
	require.NoError(t, err)

	again := MustParse(raw)
	assert.Equal(t, "42", again.Object("announcements").Object("latest").String("id", ""))
}

func TestNilDocumentIsSafe(t *testing.T) {
	var doc Document
	assert.Equal(t, "Unknown", doc.String("x", "Unknown"))
	assert.Equal(t, 0, doc.Int("x", 0))
	assert.False(t, doc.Bool("x", false))
	assert.Empty(t, doc.Array("x"))
	assert.Equal(t, "", doc.Object("x").String("y", ""))
}
