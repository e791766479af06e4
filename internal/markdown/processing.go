// Package markdown renders card descriptions and comment bodies to sanitized
// HTML. Member mentions (@username) become tagged spans and are reported back
// so the caller can notify the mentioned members.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/boardsync-dev/boardsync/shared/domain"
)

var mentionRegex = regexp.MustCompile(`@([a-zA-Z0-9_.-]+)`)

type TextProcessor struct {
	description goldmark.Markdown
	comment     goldmark.Markdown
}

func New() *TextProcessor {
	// Comments get a deliberately narrow grammar: code, emphasis,
	// strikethrough. Headings, lists and raw HTML stay plain text.
	commentParser := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	return &TextProcessor{
		description: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		comment: goldmark.New(
			goldmark.WithParser(commentParser),
			goldmark.WithRendererOptions(html.WithUnsafe()),
			goldmark.WithExtensions(extension.Strikethrough),
		),
	}
}

// ProcessDescription renders a card description.
func (tp *TextProcessor) ProcessDescription(text string) string {
	rendered, _ := renderText(tp.description, text)
	return sanitizeText(rendered)
}

// ProcessComment renders a comment body and resolves @mentions against the
// board's members. Unresolved mentions stay literal text; each member is
// reported once no matter how often they are mentioned.
func (tp *TextProcessor) ProcessComment(comment domain.CardComment, members []domain.BoardAllowedUser) (string, []domain.MemberId) {
	rendered, _ := renderText(tp.comment, comment.Comment)
	processed, mentioned := processMentions(rendered, members)
	return sanitizeText(processed), mentioned
}

func processMentions(text string, members []domain.BoardAllowedUser) (string, []domain.MemberId) {
	var mentioned []domain.MemberId
	seen := make(map[domain.MemberId]struct{})

	processed := mentionRegex.ReplaceAllStringFunc(text, func(match string) string {
		username := strings.TrimPrefix(match, "@")
		member, ok := memberByUsername(members, username)
		if !ok {
			return match
		}
		if _, dup := seen[member.Id]; !dup {
			seen[member.Id] = struct{}{}
			mentioned = append(mentioned, member.Id)
		}
		return formatMention(member)
	})

	return processed, mentioned
}

func memberByUsername(members []domain.BoardAllowedUser, username string) (domain.BoardAllowedUser, bool) {
	for _, m := range members {
		if m.User.Username == username {
			return m, true
		}
	}
	return domain.BoardAllowedUser{}, false
}

func formatMention(m domain.BoardAllowedUser) string {
	return fmt.Sprintf(`<span class="member-mention" data-board-user-id="%d">@%s</span>`,
		m.Id, m.User.Username)
}

func renderText(md goldmark.Markdown, text string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return text, err
	}
	return strings.TrimSpace(buf.String()), nil
}

func sanitizeText(text string) string {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("class").Matching(regexp.MustCompile("^member-mention$")).OnElements("span")
	p.AllowAttrs("data-board-user-id").OnElements("span")
	p.RequireNoFollowOnLinks(false)
	p.AllowRelativeURLs(true)

	return p.Sanitize(text)
}
