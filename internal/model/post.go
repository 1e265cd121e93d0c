package model

import (
	"errors"
	"fmt"
	"time"

	"contentgw/internal/frontmatter"
)

// ErrInvalidPost is returned when required frontmatter is missing or unusable.
var ErrInvalidPost = errors.New("post has invalid frontmatter")

// sortDateLayout matches the millisecond ISO-8601 form used by browsers.
const sortDateLayout = "2006-01-02T15:04:05.000Z"

// PostMeta is the listing representation of an article.
type PostMeta struct {
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	PubDate     string              `json:"pubDate"`
	SortDate    string              `json:"sortDate"`
	UpdatedDate string              `json:"updatedDate,omitempty"`
	HeroImage   string              `json:"heroImage,omitempty"`
	Tags        []string            `json:"tags"`
	Draft       bool                `json:"draft"`
	Extra       []frontmatter.Field `json:"extra,omitempty"`

	published time.Time
}

// Post is a single article including its raw body.
type Post struct {
	PostMeta
	Body string `json:"body"`
}

// Published returns the parsed publish date.
func (m PostMeta) Published() time.Time { return m.published }

// HasTag reports exact membership of tag.
func (m PostMeta) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewPostMeta validates md and builds the listing record for slug. Title,
// description and a parseable publish date are required.
func NewPostMeta(slug string, md frontmatter.Metadata) (PostMeta, error) {
	if md.Title == "" || md.Description == "" || md.PubDate == "" {
		return PostMeta{}, ErrInvalidPost
	}
	published, err := ParseDate(md.PubDate)
	if err != nil {
		return PostMeta{}, fmt.Errorf("%w: pubDate: %v", ErrInvalidPost, err)
	}

	tags := md.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostMeta{
		Slug:        slug,
		Title:       md.Title,
		Description: md.Description,
		PubDate:     md.PubDate,
		SortDate:    published.UTC().Format(sortDateLayout),
		UpdatedDate: md.UpdatedDate,
		HeroImage:   md.HeroImage,
		Tags:        tags,
		Draft:       md.Draft,
		Extra:       md.Extra,
		published:   published,
	}, nil
}

// Data returns the typed frontmatter consumed by the renderer.
func (p Post) Data() (PostData, error) {
	published, err := ParseDate(p.PubDate)
	if err != nil {
		return PostData{}, fmt.Errorf("%w: pubDate: %v", ErrInvalidPost, err)
	}
	data := PostData{
		Title:       p.Title,
		Description: p.Description,
		PubDate:     published,
		HeroImage:   p.HeroImage,
		Tags:        p.Tags,
		Draft:       p.Draft,
		Extra:       p.Extra,
	}
	if data.Tags == nil {
		data.Tags = []string{}
	}
	if p.UpdatedDate != "" {
		updated, err := ParseDate(p.UpdatedDate)
		if err != nil {
			return PostData{}, fmt.Errorf("%w: updatedDate: %v", ErrInvalidPost, err)
		}
		data.UpdatedDate = &updated
	}
	return data, nil
}

// PostData is the schema-checked metadata stored alongside a materialized entry.
type PostData struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	PubDate     time.Time           `json:"pubDate"`
	UpdatedDate *time.Time          `json:"updatedDate,omitempty"`
	HeroImage   string              `json:"heroImage,omitempty"`
	Tags        []string            `json:"tags"`
	Draft       bool                `json:"draft"`
	Extra       []frontmatter.Field `json:"extra,omitempty"`
}
