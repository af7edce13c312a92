package output

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"contract-workers/internal/models"
)

var entityPattern = regexp.MustCompile(`&(#[0-9]+|#x[0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

func TestGenerateHTML(t *testing.T) {
	sections := []models.RenderedSection{
		{Heading: "Parties", Content: "Between Max & Co.\nand the Label.\n\nSigned below."},
		{Heading: "", Content: "Untitled clause"},
		{Heading: "Empty", Content: "   "},
	}

	got := GenerateHTML("Agreement <draft>", sections)

	want := "<article>\n" +
		"<h1>Agreement &lt;draft&gt;</h1>\n" +
		"<section>\n" +
		"<h2>Parties</h2>\n" +
		"<p>Between Max &amp; Co.<br>\nand the Label.</p>\n" +
		"<p>Signed below.</p>\n" +
		"</section>\n" +
		"<section>\n" +
		"<p>Untitled clause</p>\n" +
		"</section>\n" +
		"<section>\n" +
		"<h2>Empty</h2>\n" +
		"</section>\n" +
		"</article>\n"
	assert.Equal(t, want, got)
}

func TestGenerateHTML_EscapesInjectedMarkup(t *testing.T) {
	got := GenerateHTML("T", []models.RenderedSection{{Heading: "H", Content: `<script>alert("x")</script>`}})

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
}

func TestGenerateHTML_WindowsLineEndings(t *testing.T) {
	got := GenerateHTML("T", []models.RenderedSection{{Heading: "H", Content: "one\r\ntwo\r\n\r\nthree"}})

	assert.Contains(t, got, "<p>one<br>\ntwo</p>\n<p>three</p>\n")
}

func TestGenerateText(t *testing.T) {
	sections := []models.RenderedSection{
		{Heading: "Parties", Content: "Between Max & Co.  \r\nand the Label."},
		{Heading: "Payment", Content: "Fee: 1,500.00"},
	}

	got := GenerateText("Recording Agreement", sections)

	want := "Recording Agreement\n\n" +
		"Parties\n\n" +
		"Between Max & Co.\nand the Label.\n\n" +
		"Payment\n\n" +
		"Fee: 1,500.00\n"
	assert.Equal(t, want, got)
}

func TestGenerateText_StripsMarkup(t *testing.T) {
	inputs := []string{
		"<b>bold</b> move",
		`<script>alert("x")</script>done`,
		"fee &lt; 5 &amp;amp; rate &gt; 3",
		"a < b > c",
		"&#60;img src=x&#62;",
		"<<nested>>",
		"caf&eacute; &copy; 2024",
		"&foo; and &amp;bar;",
		"&#99999999; overflow",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := GenerateText("Title <i>x</i>", []models.RenderedSection{{Heading: "<h2>H</h2>", Content: in}})

			assert.NotContains(t, got, "<")
			assert.NotContains(t, got, ">")
			assert.False(t, entityPattern.MatchString(got), "entity left in %q", got)
		})
	}
}

func TestGenerateText_KeepsProseAroundBareBrackets(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"Royalty share x<y and y>z apply", "Royalty share xy and yz apply"},
		{"Profit<b share of 10%", "Profitb share of 10%"},
		{"Max Smith <max@example.com>", "Max Smith max@example.com"},
		{"Net <b>30</b> days", "Net 30 days"},
		{"Pay <script>steal()</script>promptly", "Pay promptly"},
		{"R&D; costs &foo; split", "R&D costs &foo split"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got := GenerateText("T", []models.RenderedSection{{Content: tt.content}})
			assert.Equal(t, "T\n\n"+tt.want+"\n", got)
			assert.False(t, entityPattern.MatchString(got), "entity left in %q", got)
		})
	}
}

func TestGenerateText_FromHTMLDerivedSections(t *testing.T) {
	sections := []models.RenderedSection{{Heading: "H & <b>", Content: "x < y\n\n\"quoted\" 'single'"}}
	htmlOut := GenerateHTML("Doc", sections)
	assert.Contains(t, htmlOut, "&amp;")

	got := GenerateText("Doc", sections)

	assert.Equal(t, "Doc\n\nH &\n\nx  y\n\n\"quoted\" 'single'\n", got)
}

func TestGenerateText_Deterministic(t *testing.T) {
	sections := []models.RenderedSection{{Heading: "A", Content: "b"}}
	first := GenerateText("t", sections)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GenerateText("t", sections))
	}
	assert.True(t, strings.HasSuffix(first, "\n"))
}

func TestGenerateText_Empty(t *testing.T) {
	assert.Equal(t, "\n", GenerateText("", nil))
}
