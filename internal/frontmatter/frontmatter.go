// Package frontmatter decodes the small "---" delimited header that prefixes
// every article. The format is a flat key: value list, not YAML; only the
// inline [a, b] sequence form is understood for tags.
//
// Decode never fails. Anything it cannot interpret is dropped or kept as an
// opaque extra field, so a malformed header degrades to partial metadata.
package frontmatter

import "strings"

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

// Recognized keys.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyPubDate     = "pubDate"
	KeyUpdatedDate = "updatedDate"
	KeyHeroImage   = "heroImage"
	KeyTags        = "tags"
	KeyDraft       = "draft"
)

// Field is an unrecognized key kept verbatim, in order of first appearance.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata is the decoded header. Zero values mean the key was absent.
type Metadata struct {
	Title       string
	Description string
	PubDate     string
	UpdatedDate string
	HeroImage   string
	Tags        []string
	Draft       bool
	Extra       []Field
}

// Get returns the value of an unrecognized key.
func (m Metadata) Get(key string) (string, bool) {
	for _, f := range m.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (m *Metadata) setExtra(key, value string) {
	for i := range m.Extra {
		if m.Extra[i].Key == key {
			m.Extra[i].Value = value
			return
		}
	}
	m.Extra = append(m.Extra, Field{Key: key, Value: value})
}

// Decode splits raw into its metadata block and body. When raw does not open
// with a delimiter line followed later by a closing delimiter line, the whole
// input is returned as body with empty metadata.
func Decode(raw string) (Metadata, string) {
	block, body, ok := split(raw)
	if !ok {
		return Metadata{}, raw
	}

	var md Metadata
	for _, line := range strings.Split(block, "\n") {
		idx := strings.IndexByte(line, ':')
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		value := unquote(strings.TrimSpace(line[idx+1:]))

		switch key {
		case KeyTitle:
			md.Title = value
		case KeyDescription:
			md.Description = value
		case KeyPubDate:
			md.PubDate = value
		case KeyUpdatedDate:
			md.UpdatedDate = value
		case KeyHeroImage:
			md.HeroImage = value
		case KeyTags:
			md.Tags = parseList(value)
		case KeyDraft:
			md.Draft = value == "true"
		default:
			md.setExtra(key, value)
		}
	}
	return md, strings.TrimSpace(body)
}

// split locates the block between the opening and closing delimiter lines.
// The line right after the opener always belongs to the block, so a closer
// needs at least one (possibly blank) line in front of it.
func split(raw string) (block, body string, ok bool) {
	first, rest, found := cutLine(raw)
	if !found || first != Delimiter {
		return "", "", false
	}

	var lines []string
	for {
		line, next, more := cutLine(rest)
		if line == Delimiter && len(lines) > 0 {
			return strings.Join(lines, "\n"), next, true
		}
		if !more {
			return "", "", false
		}
		lines = append(lines, line)
		rest = next
	}
}

// cutLine returns the first line of s without its terminator. more reports
// whether a newline followed it.
func cutLine(s string) (line, rest string, more bool) {
	line, rest, more = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, more
}

// unquote strips one matching pair of surrounding single or double quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// parseList reads an inline sequence such as [markets, "fed", 'rates'].
func parseList(v string) []string {
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")

	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if strings.HasPrefix(item, `"`) || strings.HasPrefix(item, "'") {
			item = item[1:]
		}
		if strings.HasSuffix(item, `"`) || strings.HasSuffix(item, "'") {
			item = item[:len(item)-1]
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
