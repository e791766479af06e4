package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

func boardMembers() []domain.BoardAllowedUser {
	return []domain.BoardAllowedUser{
		{Id: 1, User: domain.UserBasicInfo{Id: 10, Username: "alice"}},
		{Id: 2, User: domain.UserBasicInfo{Id: 11, Username: "bob"}},
	}
}

func TestProcessDescription(t *testing.T) {
	tp := New()

	t.Run("renders markdown", func(t *testing.T) {
		out := tp.ProcessDescription("# Plan\n\nShip **fast**, ~~slow~~.")
		assert.Contains(t, out, "<h1>Plan</h1>")
		assert.Contains(t, out, "<strong>fast</strong>")
		assert.Contains(t, out, "<del>slow</del>")
	})

	t.Run("strips script", func(t *testing.T) {
		out := tp.ProcessDescription("hello <script>alert(1)</script> world")
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "hello")
	})

	t.Run("keeps links", func(t *testing.T) {
		out := tp.ProcessDescription("[docs](https://example.com/docs)")
		assert.Contains(t, out, `href="https://example.com/docs"`)
	})
}

func TestProcessComment(t *testing.T) {
	tp := New()

	t.Run("restricted grammar", func(t *testing.T) {
		out, _ := tp.ProcessComment(domain.CardComment{Comment: "# not a heading\n`code` and *em*"}, nil)
		assert.NotContains(t, out, "<h1>")
		assert.Contains(t, out, "<code>code</code>")
		assert.Contains(t, out, "<em>em</em>")
	})

	t.Run("resolves mentions once per member", func(t *testing.T) {
		out, mentioned := tp.ProcessComment(
			domain.CardComment{Comment: "@alice ping, @alice again, also @bob"},
			boardMembers(),
		)
		require.Equal(t, []domain.MemberId{1, 2}, mentioned)
		assert.Contains(t, out, `data-board-user-id="1"`)
		assert.Contains(t, out, `data-board-user-id="2"`)
	})

	t.Run("unknown mention stays literal", func(t *testing.T) {
		out, mentioned := tp.ProcessComment(domain.CardComment{Comment: "cc @mallory"}, boardMembers())
		assert.Empty(t, mentioned)
		assert.Contains(t, out, "@mallory")
		assert.NotContains(t, out, "member-mention")
	})

	t.Run("sanitizes injected markup", func(t *testing.T) {
		out, _ := tp.ProcessComment(domain.CardComment{Comment: `<img src=x onerror=alert(1)>`}, nil)
		assert.NotContains(t, out, "onerror")
	})
}
