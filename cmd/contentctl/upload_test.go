package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contentgw/internal/storage"
	"contentgw/internal/transform"
)

type fakeRevalidator struct {
	calls int
	err   error
}

func (f *fakeRevalidator) Revalidate(context.Context) (string, error) {
	f.calls++
	return "Revalidation triggered", f.err
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"The Fed's Dilemma":   "the-fed-s-dilemma",
		"  padded  title ":    "padded-title",
		"already-a-slug":      "already-a-slug",
		"Q1 2024 -- Outlook!": "q1-2024-outlook",
		"Ünïcode":             "n-code",
		"***":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, slugify(in), in)
	}
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		kind, path, subdir string
		want               string
		wantErr            bool
	}{
		{kind: "post", path: "drafts/Fed Dilemma.md", want: "posts/fed-dilemma.md"},
		{kind: "post", path: "notes.txt", wantErr: true},
		{kind: "post", path: "!!!.md", wantErr: true},
		{kind: "image", path: "x/chart.PNG", want: "images/chart.PNG"},
		{kind: "image", path: "hero.jpg", subdir: "heroes", want: "images/heroes/hero.jpg"},
		{kind: "image", path: "doc.pdf", wantErr: true},
		{kind: "file", path: "out/q1.pdf", want: "files/q1.pdf"},
		{kind: "asset", path: "logo.svg", want: "assets/logo.svg"},
		{kind: "video", path: "a.mp4", wantErr: true},
	}
	for _, tt := range tests {
		got, err := keyFor(tt.kind, tt.path, tt.subdir)
		if tt.wantErr {
			assert.Error(t, err, "%s %s", tt.kind, tt.path)
			continue
		}
		require.NoError(t, err, "%s %s", tt.kind, tt.path)
		assert.Equal(t, tt.want, got)
	}

	_, err := keyFor("video", "a.mp4", "")
	assert.True(t, errors.Is(err, errUnknownKind))
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("post always revalidates", func(t *testing.T) {
		store := storage.NewMemory()
		rv := &fakeRevalidator{}
		path := writeTemp(t, "Hello World.md", "---\ntitle: Hello\n---\nbody")

		key, err := upload(ctx, store, rv, zap.NewNop(), "post", path, "", false)
		require.NoError(t, err)
		assert.Equal(t, "posts/hello-world.md", key)
		assert.Equal(t, 1, rv.calls)

		rc, info, err := store.Get(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "---\ntitle: Hello\n---\nbody", string(data))
		assert.Equal(t, "text/markdown; charset=utf-8", info.ContentType)
	})

	t.Run("image revalidates only when asked", func(t *testing.T) {
		store := storage.NewMemory()
		rv := &fakeRevalidator{}
		path := writeTemp(t, "chart.png", "png")

		key, err := upload(ctx, store, rv, zap.NewNop(), "image", path, "inline", false)
		require.NoError(t, err)
		assert.Equal(t, "images/inline/chart.png", key)
		assert.Zero(t, rv.calls)

		_, err = upload(ctx, store, rv, zap.NewNop(), "image", path, "inline", true)
		require.NoError(t, err)
		assert.Equal(t, 1, rv.calls)

		info, err := store.Head(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "image/png", info.ContentType)
		assert.Equal(t, int64(3), info.Size)
	})

	t.Run("revalidation failure is not fatal", func(t *testing.T) {
		rv := &fakeRevalidator{err: errors.New("gateway responded 502")}
		path := writeTemp(t, "post.md", "body")

		_, err := upload(ctx, storage.NewMemory(), rv, zap.NewNop(), "post", path, "", false)
		assert.NoError(t, err)
		assert.Equal(t, 1, rv.calls)
	})

	t.Run("no revalidator configured", func(t *testing.T) {
		path := writeTemp(t, "post.md", "body")
		_, err := upload(ctx, storage.NewMemory(), nil, zap.NewNop(), "post", path, "", false)
		assert.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := upload(ctx, storage.NewMemory(), nil, zap.NewNop(), "file", filepath.Join(t.TempDir(), "nope.pdf"), "", false)
		assert.ErrorContains(t, err, "failed to open")
	})
}

func TestLinkHints(t *testing.T) {
	links := transform.NewLinks("https://gw.example.dev/", "https://pub.example.dev")

	tests := []struct {
		kind, key string
		want      []string
	}{
		{
			kind: "image", key: "images/heroes/fed.jpg",
			want: []string{
				`frontmatter: heroImage: "https://gw.example.dev/img/heroes/fed.jpg"`,
				"markdown:    ![alt](https://gw.example.dev/img/heroes/fed.jpg?w=800)",
			},
		},
		{kind: "file", key: "files/q1.pdf", want: []string{"download:    https://gw.example.dev/file/q1.pdf"}},
		{kind: "asset", key: "assets/logo.svg", want: []string{"asset:       https://gw.example.dev/asset/logo.svg"}},
		{kind: "post", key: "posts/hello.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, linkHints(links, tt.kind, tt.key), tt.key)
	}

	assert.Nil(t, linkHints(transform.NewLinks("", ""), "image", "images/a.jpg"))
}
