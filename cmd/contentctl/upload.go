package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contentgw/internal/contentsync"
	"contentgw/internal/storage"
	"contentgw/internal/transform"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <post|image|file|asset> <path>",
	Short: "Upload a file to the content bucket",
	Long: `Upload a file under the key convention of its kind:

  post   posts/<slug>.md
  image  images/[<subdir>/]<filename>
  file   files/<filename>
  asset  assets/<filename>

Uploading a post triggers revalidation; other kinds only with --revalidate.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

var uploadCmdFlags struct {
	subdir     string
	revalidate bool
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadCmdFlags.subdir, "subdir", "",
		"directory below images/ (e.g. heroes, inline)")
	uploadCmd.Flags().BoolVar(&uploadCmdFlags.revalidate, "revalidate", false,
		"trigger a rebuild after the upload (always on for posts)")
}

// revalidator is satisfied by *contentsync.Client.
type revalidator interface {
	Revalidate(ctx context.Context) (string, error)
}

func runUpload(cmd *cobra.Command, args []string) error {
	store, err := storage.New(app.cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	var rv revalidator
	if app.cfg.Sync.GatewayURL != "" && app.cfg.Sync.GatewaySecret != "" {
		rv = contentsync.NewClient(app.cfg.Sync, app.log)
	}

	key, err := upload(cmd.Context(), store, rv, app.log, args[0], args[1], uploadCmdFlags.subdir, uploadCmdFlags.revalidate)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	links := transform.NewLinks(app.cfg.Sync.GatewayURL, app.cfg.Content.PublicBaseURL)
	for _, hint := range linkHints(links, args[0], key) {
		fmt.Fprintln(cmd.OutOrStdout(), hint)
	}
	return nil
}

// linkHints lists the URLs to paste into frontmatter or markdown for the
// object at key. Nothing is suggested without a gateway URL.
func linkHints(links transform.Links, kind, key string) []string {
	switch kind {
	case kindImage:
		p := strings.TrimPrefix(key, storage.ImagePrefix)
		img := links.Image(p, transform.Request{})
		if img == "" {
			return nil
		}
		return []string{
			fmt.Sprintf("frontmatter: heroImage: %q", img),
			fmt.Sprintf("markdown:    ![alt](%s)", links.Image(p, transform.Request{Width: 800})),
		}
	case kindFile:
		if u := links.File(strings.TrimPrefix(key, storage.FilePrefix)); u != "" {
			return []string{"download:    " + u}
		}
	case kindAsset:
		if u := links.Asset(strings.TrimPrefix(key, storage.AssetPrefix)); u != "" {
			return []string{"asset:       " + u}
		}
	}
	return nil
}

// upload stores the file at path and returns its key. A failed revalidation
// is logged, never returned.
func upload(ctx context.Context, store storage.Storage, rv revalidator, log *zap.Logger, kind, path, subdir string, force bool) (string, error) {
	key, err := keyFor(kind, path, subdir)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ct := storage.ContentType(path)
	if _, err := store.Put(ctx, key, f, storage.PutObjectOptions{Size: st.Size(), ContentType: ct}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Info("uploaded", zap.String("key", key), zap.Int64("size", st.Size()), zap.String("content_type", ct))

	if kind == kindPost || force {
		revalidate(ctx, rv, log)
	}
	return key, nil
}

func revalidate(ctx context.Context, rv revalidator, log *zap.Logger) {
	if rv == nil {
		log.Warn("GATEWAY_URL or GATEWAY_SECRET not set, skipping revalidation")
		return
	}
	msg, err := rv.Revalidate(ctx)
	if err != nil {
		log.Warn("revalidation failed", zap.Error(err))
		return
	}
	log.Info("revalidation triggered", zap.String("message", msg))
}

const (
	kindPost  = "post"
	kindImage = "image"
	kindFile  = "file"
	kindAsset = "asset"
)

var errUnknownKind = errors.New("kind must be one of post, image, file, asset")

func keyFor(kind, path, subdir string) (string, error) {
	name := filepath.Base(path)
	switch kind {
	case kindPost:
		if storage.Ext(name) != "md" {
			return "", fmt.Errorf("post files must be .md: %s", path)
		}
		slug := slugify(strings.TrimSuffix(name, filepath.Ext(name)))
		if slug == "" {
			return "", fmt.Errorf("cannot derive a slug from %s", path)
		}
		return storage.PostKey(slug), nil
	case kindImage:
		if !slices.Contains(storage.ImageExtensions, storage.Ext(name)) {
			return "", fmt.Errorf("not a supported image format: %s (supported: %s)", path, strings.Join(storage.ImageExtensions, ", "))
		}
		return storage.ImageUploadKey(subdir, name), nil
	case kindFile:
		return storage.FileKey(name), nil
	case kindAsset:
		return storage.AssetKey(name), nil
	default:
		return "", fmt.Errorf("%w, got %q", errUnknownKind, kind)
	}
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonSlug    = regexp.MustCompile(`[^a-z0-9-]`)
	dashes     = regexp.MustCompile(`-+`)
)

func slugify(s string) string {
	s = strings.ToLower(s)
	s = whitespace.ReplaceAllString(s, "-")
	s = nonSlug.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
