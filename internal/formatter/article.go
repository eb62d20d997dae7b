package formatter

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"antifraud/internal/models"
	"antifraud/pkg/utils"
)

// Paragraph splitting limits, in characters.
const (
	longParagraph = 300
	maxChunk      = 200
)

// SectionKeywords start a new, emphasised paragraph wherever they appear mid-text.
var SectionKeywords = []string{
	"案情回顾", "案件特点", "诈骗手法", "反诈提醒",
	"警方提示", "防范建议", "温馨提示", "相关链接",
}

var (
	imagePattern     = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkPattern      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
	spaceRunPattern  = regexp.MustCompile(`[ \t]+`)
	sentenceEndBreak = regexp.MustCompile(`([。！？])([^\n])`)
	colonPattern     = regexp.MustCompile(`([：;；])\s*`)
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	sentencePattern  = regexp.MustCompile(`[^。！？]*[。！？]?`)
	sectionPatterns  = compileSections(SectionKeywords)
)

func compileSections(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`([^\n])(`+regexp.QuoteMeta(kw)+`)`))
	}

	return patterns
}

// FormatArticleText turns raw summary text into HTML paragraphs. Markdown images are
// dropped, links reduced to their text, sentences broken onto their own lines and section
// headings emphasised. Paragraphs longer than 300 characters are regrouped into chunks of
// about 200.
func FormatArticleText(text string) string {
	if text == "" {
		return ""
	}

	text = imagePattern.ReplaceAllString(text, "")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = sentenceEndBreak.ReplaceAllString(text, "$1\n$2")
	text = colonPattern.ReplaceAllString(text, "$1 ")

	for _, re := range sectionPatterns {
		text = re.ReplaceAllString(text, "$1\n\n**$2**")
	}

	var paragraphs []string

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) > longParagraph && !strings.Contains(para, "**") {
			paragraphs = append(paragraphs, chunkSentences(para)...)

			continue
		}

		paragraphs = append(paragraphs, para)
	}

	out := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		out = append(out, "<p>"+emphasise(para)+"</p>")
	}

	return strings.Join(out, "\n")
}

// chunkSentences regroups a long paragraph. Each sentence starts a new chunk; a chunk
// that grows past maxChunk is closed immediately.
func chunkSentences(para string) []string {
	var (
		chunks  []string
		current string
	)

	for _, sentence := range sentencePattern.FindAllString(para, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}

		current = sentence

		if utf8.RuneCountInString(current) > maxChunk {
			chunks = append(chunks, current)
			current = ""
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// emphasise escapes para and turns **x** into <strong>x</strong>.
func emphasise(para string) string {
	return boldPattern.ReplaceAllString(html.EscapeString(para), "<strong>$1</strong>")
}

// Column widths for FormatArticleTable, in terminal cells.
const (
	titleWidth  = 40
	sourceWidth = 16
)

// FormatArticleTable renders articles as an aligned markdown table.
func FormatArticleTable(articles []models.Article) string {
	helper := utils.NewStringHelper()

	var sb strings.Builder

	sb.WriteString("| # | ID | 日期 | 标题 | 类型 | 地区 | 来源 |\n")
	sb.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")

	for i, a := range articles {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s | %s |\n",
			i+1,
			cell(a.ID),
			cell(a.Date),
			cell(helper.TruncateWidth(a.Title, titleWidth)),
			cell(a.Analysis.ScamType),
			cell(a.Analysis.Location),
			cell(helper.TruncateWidth(a.Source, sourceWidth)),
		)
	}

	return AlignTables(strings.TrimSuffix(sb.String(), "\n"))
}

// cell makes s safe inside a table row.
func cell(s string) string {
	s = utils.NewStringHelper().NormalizeWhitespace(s)

	return strings.ReplaceAll(s, "|", "｜")
}
