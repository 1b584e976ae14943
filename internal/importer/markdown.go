// Package importer turns a directory of Markdown journal entries into text
// memories. YAML front matter supplies the structured fields (date, tags,
// location, mood); inline #hashtags in the body are merged with the front
// matter tags.
package importer

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calyptra/scrapbook/pkg/types"
)

// ParsedEntry is one Markdown file mapped onto a memory draft.
type ParsedEntry struct {
	// Path is the path of the source file relative to the import root.
	Path string

	// Draft is the text memory ready to be created in the archive.
	Draft types.MemoryDraft
}

// ParseEntry parses a single Markdown journal entry. relativePath is used for
// the fallback title and error messages.
func ParseEntry(content []byte, relativePath string) (*ParsedEntry, error) {
	fm, body, err := splitFrontMatter(string(content))
	if err != nil {
		return nil, fmt.Errorf("importer: %s: %w", relativePath, err)
	}

	title := frontMatterString(fm, "title")
	if title == "" {
		title = headingTitle(body)
	}
	if title == "" {
		title = titleFromPath(relativePath)
	}

	date := frontMatterDate(fm)
	if date.IsZero() {
		// Without a date the entry cannot be placed on the timeline.
		date = time.Now()
	}

	tags := mergeTags(frontMatterTags(fm), inlineTags(body))

	mood := types.Mood(frontMatterString(fm, "mood"))
	if !mood.Valid() {
		mood = ""
	}

	return &ParsedEntry{
		Path: relativePath,
		Draft: types.MemoryDraft{
			Title:    title,
			Location: frontMatterString(fm, "location"),
			Date:     date,
			Tags:     tags,
			Type:     types.MemoryTypeText,
			Content:  strings.TrimSpace(body),
			Mood:     mood,
		},
	}, nil
}

// splitFrontMatter separates YAML front matter (between --- delimiters) from
// the Markdown body. Returns an empty map and the full text when there is no
// front matter.
func splitFrontMatter(text string) (map[string]interface{}, string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return map[string]interface{}{}, text, nil
	}

	closeIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		// No closing delimiter, treat the whole file as body.
		return map[string]interface{}{}, text, nil
	}

	fm := make(map[string]interface{})
	fmText := strings.Join(lines[1:closeIdx], "\n")
	if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
		return nil, "", fmt.Errorf("invalid front matter: %w", err)
	}

	return fm, strings.Join(lines[closeIdx+1:], "\n"), nil
}

// headingTitle returns the text of the first ATX heading in the body.
func headingTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// titleFromPath derives a readable title from the file name.
func titleFromPath(rel string) string {
	base := filepath.Base(rel)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}

// frontMatterString pulls a trimmed string value by key.
func frontMatterString(fm map[string]interface{}, key string) string {
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// frontMatterTags reads tags from the front matter, accepting both the YAML
// list form and a comma-separated string.
func frontMatterTags(fm map[string]interface{}) []string {
	raw, ok := fm["tags"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []interface{}:
		var tags []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		var tags []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	return nil
}

// frontMatterDate reads a date field, trying several common layouts.
func frontMatterDate(fm map[string]interface{}) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"January 2, 2006",
	}

	for _, key := range []string{"date", "created", "created_at"} {
		raw, ok := fm[key]
		if !ok {
			continue
		}
		var s string
		switch v := raw.(type) {
		case string:
			s = v
		case time.Time:
			return v
		default:
			s = fmt.Sprintf("%v", v)
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// inlineTagRe finds #hashtag patterns in body text.
var inlineTagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

func inlineTags(body string) []string {
	matches := inlineTagRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]bool)
	var tags []string
	for _, m := range matches {
		tag := strings.TrimSpace(m[1])
		lower := strings.ToLower(tag)
		if !seen[lower] {
			seen[lower] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// mergeTags combines two tag lists, deduplicating case-insensitively while
// keeping first-seen casing and order.
func mergeTags(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, tag := range append(a, b...) {
		lower := strings.ToLower(tag)
		if !seen[lower] {
			seen[lower] = true
			result = append(result, tag)
		}
	}
	return result
}
