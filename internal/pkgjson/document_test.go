package pkgjson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func keys(t *testing.T, raw []byte, path string) []string {
	t.Helper()
	var out []string
	value := gjson.ParseBytes(raw)
	if path != "" {
		value = value.Get(path)
	}
	value.ForEach(func(key, _ gjson.Result) bool {
		out = append(out, key.String())
		return true
	})
	return out
}

func TestDefault(t *testing.T) {
	doc := Default()

	assert.Equal(t, []string{"name", "version", "description", "main", "license", "scripts"}, keys(t, doc.Bytes(), ""))
	assert.Equal(t, gjson.Null, doc.Get("name").Type)
	assert.Equal(t, "0.1.0", doc.Get("version").String())
	assert.Contains(t, doc.Get("scripts").Get(escapeKey("build:umd")).String(), ":libName")

	// copies are independent
	require.NoError(t, doc.SetString("version", "9.9.9"))
	assert.Equal(t, "0.1.0", Default().Get("version").String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"object", `{"a":1}`, false},
		{"array", `[1,2]`, true},
		{"string", `"x"`, true},
		{"malformed", `{"a":`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	doc, err := Parse([]byte(`{"name":null,"version":"0.1.0","scripts":{"build":"a","test":"b"}}`))
	require.NoError(t, err)

	err = doc.Merge([]byte(`{"version":"2.0.0","scripts":{"test":"c","lint":"d"},"pdor":{"type":"x"},"keywords":["k"]}`))
	require.NoError(t, err)

	raw := doc.Bytes()
	assert.Equal(t, []string{"name", "version", "scripts", "pdor", "keywords"}, keys(t, raw, ""))
	assert.Equal(t, []string{"build", "test", "lint"}, keys(t, raw, "scripts"))
	assert.Equal(t, "2.0.0", doc.Get("version").String())
	assert.Equal(t, "a", doc.Get("scripts").Get("build").String())
	assert.Equal(t, "c", doc.Get("scripts").Get("test").String())
	assert.Equal(t, "x", doc.Get("pdor").Get("type").String())
}

func TestMergeOverlayReplacesNonObject(t *testing.T) {
	doc, err := Parse([]byte(`{"scripts":{"a":"b"}}`))
	require.NoError(t, err)

	require.NoError(t, doc.Merge([]byte(`{"scripts":"none"}`)))
	assert.Equal(t, "none", doc.Get("scripts").String())

	assert.ErrorIs(t, doc.Merge([]byte(`[]`)), ErrNotObject)
}

func TestDelete(t *testing.T) {
	doc, err := Parse([]byte(`{"a":1,"pdor":{"type":"x"},"b":2}`))
	require.NoError(t, err)

	require.NoError(t, doc.Delete("pdor"))
	assert.False(t, doc.Has("pdor"))
	assert.Equal(t, []string{"a", "b"}, keys(t, doc.Bytes(), ""))

	// deleting again is a no-op
	require.NoError(t, doc.Delete("pdor"))
}

func TestSetStringKeepsPosition(t *testing.T) {
	doc := Default()
	require.NoError(t, doc.SetString("name", "my-lib"))

	assert.Equal(t, "my-lib", doc.Get("name").String())
	assert.Equal(t, "name", keys(t, doc.Bytes(), "")[0])
}

func TestReplaceInScripts(t *testing.T) {
	doc, err := Parse([]byte(`{"scripts":{"build:umd":"x --global :libName && y :libName","test":"jest","n":3}}`))
	require.NoError(t, err)

	changed, err := doc.ReplaceInScripts(":libName", "CoolWidget")
	require.NoError(t, err)

	assert.Equal(t, []string{"build:umd"}, changed)
	assert.Equal(t, "x --global CoolWidget && y CoolWidget", doc.Get("scripts").Get(escapeKey("build:umd")).String())
	assert.Equal(t, "jest", doc.Get("scripts").Get("test").String())
}

func TestReplaceInScriptsWithoutScripts(t *testing.T) {
	doc, err := Parse([]byte(`{"name":"x"}`))
	require.NoError(t, err)

	changed, err := doc.ReplaceInScripts(":libName", "X")
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestMarshal(t *testing.T) {
	doc, err := Parse([]byte(`{"name":"my-lib","scripts":{"a":"b"}}`))
	require.NoError(t, err)

	out, err := doc.Marshal("\n")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"my-lib\",\n  \"scripts\": {\n    \"a\": \"b\"\n  }\n}\n", string(out))

	crlf, err := doc.Marshal("\r\n")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(crlf), "}\r\n"))
	assert.Equal(t, 6, strings.Count(string(crlf), "\r\n"))
	assert.Equal(t, 6, strings.Count(string(crlf), "\n"))
}

func TestMarshalJSON(t *testing.T) {
	doc, err := Parse([]byte("{ \"a\" : [1, 2] }"))
	require.NoError(t, err)

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, string(out))
}
