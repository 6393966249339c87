package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleVTT = `WEBVTT

NOTE This transcript was auto-generated

1
00:00:01.000 --> 00:00:04.000
<v Teacher>Today we learn the present perfect.</v>

2
00:00:04.500 --> 00:00:08.000
We use it for past actions&nbsp;with present relevance.

cue-3
00:00:08.500 --> 00:00:12.000
<c.yellow>For example:</c> I have finished my homework.
`

func TestNormalizeVTT(t *testing.T) {
	got := NormalizeVTT(sampleVTT)
	want := "Today we learn the present perfect. We use it for past actions with present relevance. For example: I have finished my homework."
	assert.Equal(t, want, got)
}

func TestNormalizeVTT_Cases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"header only", "WEBVTT\n", ""},
		{"timecodes only", "00:00:01.000 --> 00:00:02.000\n00:05 intro\n", ""},
		{"style block line", "STYLE\n::cue { color: red }\n", "::cue { color: red }"},
		{"region line", "REGION\nid:fred width:40%\n", "id:fred width:40%"},
		{"entities decode", "Tom &amp; Jerry say &lt;hi&gt;", "Tom & Jerry say <hi>"},
		{"nbsp becomes space", "one&nbsp;two", "one two"},
		{"tags stripped", "<v Speaker>hello there</v> <b>world</b>", "hello there world"},
		{"bare identifier dropped", "abc-123\nthe actual text here", "the actual text here"},
		{"single word line dropped as identifier", "Hello\nhow are you", "how are you"},
		{"whitespace collapsed", "a  line\nanother   line", "a line another line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeVTT(tt.input))
		})
	}
}

func TestNormalizeVTT_Idempotent(t *testing.T) {
	once := NormalizeVTT(sampleVTT)
	twice := NormalizeVTT(once)
	assert.Equal(t, once, twice)
}
