package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
)

// Raw HTML in the source is dropped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
	"~", `\~`,
	"!", `\!`,
	"&", `\&`,
)

func escapeInline(v string) string {
	return inlineEscaper.Replace(v)
}

func setlistMarkdown(sl setlists.SetlistDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Setlist: %s\n\n", escapeInline(sl.Name))
	fmt.Fprintf(&b, "Date: %s\n\n", escapeInline(serviceDate(sl)))
	b.WriteString("### Songs\n\n")
	if len(sl.Songs) == 0 {
		b.WriteString(`\-`)
		return b.String()
	}
	lines := make([]string, 0, len(sl.Songs))
	for i, entry := range sortedEntries(sl) {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, escapeInline(entryTitle(entry)), escapeInline(orPlaceholder(entry.DisplayKey()))))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func songMarkdown(s songs.SongDTO, inc Include) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", escapeInline(s.Title))
	fmt.Fprintf(&b, "Key: %s\n\n", escapeInline(orPlaceholder(deref(s.Key))))
	for _, part := range songSections(s, inc) {
		fmt.Fprintf(&b, "**%s**\n\n%s\n\n", part.label, fenced(part.body))
	}
	b.WriteString("---")
	return b.String()
}

func memberMarkdown(m members.MemberDTO) string {
	if strings.TrimSpace(m.Email) == "" {
		return "- " + escapeInline(m.Name)
	}
	return fmt.Sprintf("- %s %s", escapeInline(m.Name), escapeInline("<"+m.Email+">"))
}

func eventMarkdown(e events.EventDTO) string {
	return "- " + escapeInline(EventLine(e))
}

// fenced wraps body in a code fence longer than any backtick run inside it.
func fenced(body string) string {
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}
	return fence + "\n" + strings.TrimRight(body, "\n") + "\n" + fence
}

// renderPage converts markdown into a standalone HTML document.
func renderPage(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
