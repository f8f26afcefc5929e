package project

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/theMackabu/ship/pkg/value"
)

func sampleTree() value.Value {
	server := value.NewObject()
	server.Set("host", value.String("0.0.0.0"))
	server.Set("port", value.Int(8080))

	root := value.NewObject()
	root.Set("name", value.String("demo"))
	root.Set("debug", value.Bool(false))
	root.Set("ratio", value.Float(0.25))
	root.Set("tags", value.Array(value.String("a"), value.String("b")))
	root.Set("server", value.ObjectVal(server))
	return value.ObjectVal(root)
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"JSON", FormatJSON, true},
		{"yml", FormatYAML, true},
		{"yaml", FormatYAML, true},
		{"TOML", FormatTOML, true},
		{"xml", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseFormat(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestJSON(t *testing.T) {
	out, err := JSON(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, `{
  "name": "demo",
  "debug": false,
  "ratio": 0.25,
  "tags": [
    "a",
    "b"
  ],
  "server": {
    "host": "0.0.0.0",
    "port": 8080
  }
}`, out)
}

func TestJSONIntegerFidelity(t *testing.T) {
	obj := value.NewObject()
	obj.Set("whole", value.Float(3))
	obj.Set("int", value.Int(3))

	out, err := JSON(value.ObjectVal(obj))
	require.NoError(t, err)
	assert.NotContains(t, out, "3.0")
}

func TestJSONNaN(t *testing.T) {
	obj := value.NewObject()
	obj.Set("bad", value.Float(math.NaN()))
	_, err := JSON(value.ObjectVal(obj))
	assert.Error(t, err)
}

func TestYAML(t *testing.T) {
	out, err := YAML(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, `name: demo
debug: false
ratio: 0.25
tags:
  - a
  - b
server:
  host: 0.0.0.0
  port: 8080
`, out)
}

func TestYAMLNull(t *testing.T) {
	obj := value.NewObject()
	obj.Set("nothing", value.Null())
	out, err := YAML(value.ObjectVal(obj))
	require.NoError(t, err)
	assert.Equal(t, "nothing: null\n", out)
}

func TestYAMLInfinity(t *testing.T) {
	obj := value.NewObject()
	obj.Set("bad", value.Float(math.Inf(1)))
	_, err := YAML(value.ObjectVal(obj))
	assert.Error(t, err)
}

func TestTOML(t *testing.T) {
	out, err := TOML(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, `name = "demo"
debug = false
ratio = 0.25
tags = ["a", "b"]

[server]
host = "0.0.0.0"
port = 8080
`, out)
}

func TestTOMLNullBecomesString(t *testing.T) {
	obj := value.NewObject()
	obj.Set("nothing", value.Null())
	obj.Set("inside", value.Array(value.Null()))

	out, err := TOML(value.ObjectVal(obj))
	require.NoError(t, err)
	assert.Contains(t, out, `nothing = "null"`)
	assert.Contains(t, out, `inside = ["null"]`)
}

func TestTOMLWholeFloatKeepsPoint(t *testing.T) {
	obj := value.NewObject()
	obj.Set("speed", value.Float(2))

	out, err := TOML(value.ObjectVal(obj))
	require.NoError(t, err)
	assert.Contains(t, out, "speed = 2.0")
}

func TestTOMLArrayOfTables(t *testing.T) {
	first := value.NewObject()
	first.Set("name", value.String("a"))
	second := value.NewObject()
	second.Set("name", value.String("b"))

	obj := value.NewObject()
	obj.Set("item", value.Array(value.ObjectVal(first), value.ObjectVal(second)))

	out, err := TOML(value.ObjectVal(obj))
	require.NoError(t, err)
	assert.Equal(t, `[[item]]
name = "a"

[[item]]
name = "b"
`, out)
}

func TestTOMLQuotesNonBareKeys(t *testing.T) {
	obj := value.NewObject()
	obj.Set("with space", value.Int(1))

	out, err := TOML(value.ObjectVal(obj))
	require.NoError(t, err)
	assert.Contains(t, out, `"with space" = 1`)
}

func TestTOMLTopLevelMustBeObject(t *testing.T) {
	_, err := TOML(value.Array(value.Int(1)))
	assert.Error(t, err)
}

func TestTOMLNaN(t *testing.T) {
	obj := value.NewObject()
	obj.Set("bad", value.Float(math.NaN()))
	_, err := TOML(value.ObjectVal(obj))
	assert.Error(t, err)
}

func TestRenderDispatch(t *testing.T) {
	tree := sampleTree()
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		out, err := Render(f, tree)
		require.NoError(t, err, f.String())
		assert.NotEmpty(t, out)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	tree := sampleTree()
	out, err := YAML(tree)
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &node))

	back, err := FromYAMLNode(&node)
	require.NoError(t, err)
	assert.True(t, value.Equal(tree, back), "round trip changed the tree")
}
