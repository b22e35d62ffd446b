package channel

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultMaxChunk = 1500

var (
	imagePattern = regexp.MustCompile(`\[Imagen:\s*(https?://[^\s\]]+)\s*\]`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// SplitTextAndImages pulls [Imagen: url] markers out of a reply.
// Images are returned in the order they appear.
func SplitTextAndImages(reply string) (string, []string) {
	var images []string
	for _, m := range imagePattern.FindAllStringSubmatch(reply, -1) {
		images = append(images, m[1])
	}

	text := imagePattern.ReplaceAllString(reply, "")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text), images
}

// Chunk splits text on paragraph boundaries so no chunk exceeds max runes.
// Paragraphs longer than max are split on line, then word, then rune boundaries.
func Chunk(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxChunk
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		chunks  []string
		current string
	)
	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, piece := range splitLong(para, max) {
			switch {
			case current == "":
				current = piece
			case utf8.RuneCountInString(current)+2+utf8.RuneCountInString(piece) <= max:
				current += "\n\n" + piece
			default:
				flush()
				current = piece
			}
		}
	}
	flush()
	return chunks
}

func splitLong(s string, max int) []string {
	if utf8.RuneCountInString(s) <= max {
		return []string{s}
	}
	for _, sep := range []string{"\n", " "} {
		if !strings.Contains(s, sep) {
			continue
		}
		var (
			out     []string
			current string
		)
		for _, part := range strings.Split(s, sep) {
			candidate := part
			if current != "" {
				candidate = current + sep + part
			}
			if utf8.RuneCountInString(candidate) <= max {
				current = candidate
				continue
			}
			if current != "" {
				out = append(out, current)
			}
			if utf8.RuneCountInString(part) > max {
				out = append(out, splitLong(part, max)...)
				current = ""
				continue
			}
			current = part
		}
		if current != "" {
			out = append(out, current)
		}
		return out
	}
	return hardSplit(s, max)
}

func hardSplit(s string, max int) []string {
	runes := []rune(s)
	out := make([]string, 0, len(runes)/max+1)
	for len(runes) > max {
		out = append(out, string(runes[:max]))
		runes = runes[max:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
