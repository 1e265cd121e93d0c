package storage

import (
	"path"
	"strings"
)

// Bucket layout. These prefixes are shared with the upload side and must not change.
const (
	PostPrefix  = "posts/"
	ImagePrefix = "images/"
	FilePrefix  = "files/"
	AssetPrefix = "assets/"

	postExt = ".md"
)

// PostKey returns the key of the markdown object for slug.
func PostKey(slug string) string {
	return PostPrefix + slug + postExt
}

// SlugFromKey extracts the slug of a post key. ok is false for keys outside
// the post namespace or without the markdown extension.
func SlugFromKey(key string) (slug string, ok bool) {
	if !strings.HasPrefix(key, PostPrefix) || !strings.HasSuffix(key, postExt) {
		return "", false
	}
	slug = strings.TrimSuffix(strings.TrimPrefix(key, PostPrefix), postExt)
	return slug, slug != ""
}

// ImageKey returns the key for an image path, which may include a subdirectory.
func ImageKey(p string) string { return ImagePrefix + p }

// FileKey returns the key for a downloadable file.
func FileKey(p string) string { return FilePrefix + p }

// AssetKey returns the key for a site asset.
func AssetKey(p string) string { return AssetPrefix + p }

// ImageUploadKey builds the key for an uploaded image, optionally under subdir.
func ImageUploadKey(subdir, filename string) string {
	if subdir == "" {
		return ImageKey(filename)
	}
	return ImageKey(strings.Trim(subdir, "/") + "/" + filename)
}

// BaseName returns the last path segment of p.
func BaseName(p string) string {
	return path.Base(p)
}
