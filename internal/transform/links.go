package transform

import (
	"strconv"
	"strings"
)

// Preset names a standard image size used across the site.
type Preset string

const (
	PresetHero  Preset = "hero"  // article header, og:image
	PresetCard  Preset = "card"  // article card
	PresetThumb Preset = "thumb" // latest list
	PresetMicro Preset = "micro" // avatars, small inline
)

type presetSpec struct {
	req    Request
	widths []int
	sizes  string
}

var presets = map[Preset]presetSpec{
	PresetHero: {
		req:    Request{Width: 1200, Height: 630, Fit: "cover", Format: "webp", Quality: 90},
		widths: []int{600, 900, 1200},
		sizes:  "(max-width: 640px) 100vw, (max-width: 1024px) 100vw, 1200px",
	},
	PresetCard: {
		req:    Request{Width: 800, Height: 450, Fit: "cover", Format: "webp", Quality: 85},
		widths: []int{400, 600, 800},
		sizes:  "(max-width: 640px) 100vw, (max-width: 900px) 50vw, 800px",
	},
	PresetThumb: {
		req:    Request{Width: 400, Height: 225, Fit: "cover", Format: "webp", Quality: 80},
		widths: []int{200, 300, 400},
		sizes:  "(max-width: 640px) 0px, 400px",
	},
	PresetMicro: {
		req:    Request{Width: 80, Height: 80, Fit: "cover", Format: "webp", Quality: 80},
		widths: []int{80},
		sizes:  "80px",
	},
}

// Request returns the options of p. ok is false for an unknown preset.
func (p Preset) Request() (r Request, ok bool) {
	spec, ok := presets[p]
	return spec.req, ok
}

// Query renders the supplied options as gateway query parameters in the
// order w, h, f, q, fit. Values are validated integers and enum names, so
// no escaping is needed.
func (r Request) Query() string {
	var params []string
	if r.Width > 0 {
		params = append(params, "w="+strconv.Itoa(r.Width))
	}
	if r.Height > 0 {
		params = append(params, "h="+strconv.Itoa(r.Height))
	}
	if r.Format != "" {
		params = append(params, "f="+r.Format)
	}
	if r.Quality > 0 {
		params = append(params, "q="+strconv.Itoa(r.Quality))
	}
	if r.Fit != "" {
		params = append(params, "fit="+r.Fit)
	}
	return strings.Join(params, "&")
}

// Links builds client-facing URLs for objects served through the gateway.
// Every builder returns "" when the base it needs is not configured.
type Links struct {
	gateway string
	public  string
}

// NewLinks returns a Links for the gateway base URL and the bucket's public
// base URL. Trailing slashes are ignored.
func NewLinks(gatewayBase, publicBase string) Links {
	return Links{
		gateway: strings.TrimRight(gatewayBase, "/"),
		public:  strings.TrimRight(publicBase, "/"),
	}
}

// Image returns the gateway /img URL for path below images/.
func (l Links) Image(path string, r Request) string {
	if l.gateway == "" {
		return ""
	}
	u := l.gateway + "/img/" + path
	if q := r.Query(); q != "" {
		u += "?" + q
	}
	return u
}

// PresetImage is Image with the options of p; unknown presets get none.
func (l Links) PresetImage(path string, p Preset) string {
	r, _ := p.Request()
	return l.Image(path, r)
}

// Raw returns the direct public URL of an image, bypassing transforms.
// Crawlers and feed readers need a stable address.
func (l Links) Raw(path string) string {
	if l.public == "" {
		return ""
	}
	return l.public + "/images/" + path
}

// Srcset returns a srcset value with one candidate per width, each using r
// with its width replaced.
func (l Links) Srcset(path string, widths []int, r Request) string {
	if l.gateway == "" {
		return ""
	}
	candidates := make([]string, 0, len(widths))
	for _, w := range widths {
		r.Width = w
		candidates = append(candidates, l.Image(path, r)+" "+strconv.Itoa(w)+"w")
	}
	return strings.Join(candidates, ", ")
}

// File returns the gateway download URL for path below files/.
func (l Links) File(path string) string {
	if l.gateway == "" {
		return ""
	}
	return l.gateway + "/file/" + path
}

// Asset returns the gateway URL for path below assets/.
func (l Links) Asset(path string) string {
	if l.gateway == "" {
		return ""
	}
	return l.gateway + "/asset/" + path
}

// ImgAttrs are the attributes of a responsive <img> for a preset.
type ImgAttrs struct {
	Src    string
	Srcset string
	Sizes  string
	Width  int
	Height int
}

// Responsive returns the <img> attributes for path rendered at preset p.
func (l Links) Responsive(path string, p Preset) (ImgAttrs, bool) {
	spec, ok := presets[p]
	if !ok {
		return ImgAttrs{}, false
	}
	return ImgAttrs{
		Src:    l.Image(path, spec.req),
		Srcset: l.Srcset(path, spec.widths, spec.req),
		Sizes:  spec.sizes,
		Width:  spec.req.Width,
		Height: spec.req.Height,
	}, true
}
