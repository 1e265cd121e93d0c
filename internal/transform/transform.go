// Package transform parses image resize options and renders them in the
// edge image service's URL convention:
//
//	<base>/cdn-cgi/image/<key=value,...>/<source-url>
package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is returned for option values outside the accepted range.
var ErrInvalid = errors.New("invalid transform option")

// Defaults applied by the edge service when an option is not given.
const (
	DefaultFormat  = "webp"
	DefaultQuality = 85
	DefaultFit     = "cover"
)

var (
	formats = []string{"webp", "avif", "jpeg", "png"}
	fits    = []string{"cover", "contain", "scale-down", "crop", "pad"}
)

// Request holds the options taken from the query. Zero values mean the option
// was not supplied.
type Request struct {
	Width   int
	Height  int
	Format  string
	Quality int
	Fit     string
}

// Query is the lookup used to read raw query values; fiber's Ctx.Query and
// url.Values.Get both fit.
type Query func(key string) string

// Parse reads w, h, f, q and fit from the query.
func Parse(q Query) (Request, error) {
	var (
		r   Request
		err error
	)
	if r.Width, err = positive(q("w"), "w"); err != nil {
		return Request{}, err
	}
	if r.Height, err = positive(q("h"), "h"); err != nil {
		return Request{}, err
	}
	if r.Quality, err = positive(q("q"), "q"); err != nil {
		return Request{}, err
	}
	if r.Quality > 100 {
		return Request{}, fmt.Errorf("%w: q must be between 1 and 100", ErrInvalid)
	}
	if r.Format = q("f"); r.Format != "" && !oneOf(r.Format, formats) {
		return Request{}, fmt.Errorf("%w: f must be one of %s", ErrInvalid, strings.Join(formats, ", "))
	}
	if r.Fit = q("fit"); r.Fit != "" && !oneOf(r.Fit, fits) {
		return Request{}, fmt.Errorf("%w: fit must be one of %s", ErrInvalid, strings.Join(fits, ", "))
	}
	return r, nil
}

// Empty reports whether no option was supplied.
func (r Request) Empty() bool {
	return r == Request{}
}

// Effective returns r with defaults filled in for omitted format, quality and fit.
func (r Request) Effective() Request {
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.Quality == 0 {
		r.Quality = DefaultQuality
	}
	if r.Fit == "" {
		r.Fit = DefaultFit
	}
	return r
}

// Options renders the supplied options as the comma-joined key=value list.
func (r Request) Options() string {
	var opts []string
	if r.Width > 0 {
		opts = append(opts, "width="+strconv.Itoa(r.Width))
	}
	if r.Height > 0 {
		opts = append(opts, "height="+strconv.Itoa(r.Height))
	}
	if r.Format != "" {
		opts = append(opts, "format="+r.Format)
	}
	if r.Quality > 0 {
		opts = append(opts, "quality="+strconv.Itoa(r.Quality))
	}
	if r.Fit != "" {
		opts = append(opts, "fit="+r.Fit)
	}
	return strings.Join(opts, ",")
}

// URL returns the address the client should fetch. With no options it is the
// source itself; otherwise the edge transform path under base.
func (r Request) URL(base, source string) string {
	if r.Empty() {
		return source
	}
	return base + "/cdn-cgi/image/" + r.Options() + "/" + source
}

func positive(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalid, name)
	}
	return n, nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
