package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links := ExtractLinks([]byte("See [API](api.md) for details."), DefaultOptions())
	require.Equal(t, []Link{{Kind: LinkKindInline, Destination: "api.md"}}, links)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links := ExtractLinks([]byte("![Diagram](diagram.png)"), DefaultOptions())
	require.Equal(t, []Link{{Kind: LinkKindImage, Destination: "diagram.png"}}, links)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links := ExtractLinks([]byte("<https://example.com/path>"), Options{})
	require.Equal(t, []Link{{Kind: LinkKindAuto, Destination: "https://example.com/path"}}, links)
}

func TestExtractLinks_BareURLNeedsGFM(t *testing.T) {
	src := []byte("Paper at https://arxiv.org/abs/1234 today.")
	require.Empty(t, ExtractLinks(src, Options{}))

	links := ExtractLinks(src, DefaultOptions())
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://arxiv.org/abs/1234", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links := ExtractLinks([]byte("See [API][ref].\n\n[ref]: api.md\n"), DefaultOptions())
	require.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "api.md"},
		{Kind: LinkKindReferenceDefinition, Destination: "api.md"},
	}, links)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links := ExtractLinks(src, DefaultOptions())
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}
