package pages

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/templating"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	DefaultHomeID   = "index"
	DefaultHomeHref = "index.html"
	DefaultHeader   = "header"
	DefaultFooter   = "footer"
)

// Page describes one output document and the fragments it is built from.
type Page struct {
	ID        string   `yaml:"id" json:"id"`
	Title     string   `yaml:"title" json:"title"`
	Fragments []string `yaml:"fragments" json:"fragments"`
}

// DefaultPages returns the standard page set: a home page with every
// section plus one page per section.
func DefaultPages() []Page {
	return []Page{
		{ID: "index", Fragments: []string{"hero", "services", "about", "research", "contact"}},
		{ID: "services", Fragments: []string{"services"}},
		{ID: "about", Fragments: []string{"about"}},
		{ID: "research", Fragments: []string{"research"}},
		{ID: "contact", Fragments: []string{"contact"}},
	}
}

// Config controls page composition.
type Config struct {
	Navigation []NavItem
	Pages      []Page
	HomeID     string
	HomeHref   string
	SinglePage bool
	Header     string
	Footer     string
}

func DefaultConfig() Config {
	return Config{
		Navigation: DefaultNavigation(),
		Pages:      DefaultPages(),
		HomeID:     DefaultHomeID,
		HomeHref:   DefaultHomeHref,
		Header:     DefaultHeader,
		Footer:     DefaultFooter,
	}
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithComposerLogger sets the composer logger.
func WithComposerLogger(logger interfaces.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for build.year.
func WithClock(clock func() time.Time) ComposerOption {
	return func(c *Composer) {
		if clock != nil {
			c.now = clock
		}
	}
}

// Composer renders pages from fragments against a fixed content tree. It
// holds no per-page state and may be used from several goroutines.
type Composer struct {
	tree      content.Value
	fragments FragmentSource
	cfg       Config
	linker    Linker
	logger    interfaces.Logger
	now       func() time.Time
}

func NewComposer(tree content.Value, fragments FragmentSource, cfg Config, opts ...ComposerOption) *Composer {
	if cfg.HomeID == "" {
		cfg.HomeID = DefaultHomeID
	}
	if cfg.HomeHref == "" {
		cfg.HomeHref = DefaultHomeHref
	}
	if cfg.Header == "" {
		cfg.Header = DefaultHeader
	}
	if cfg.Footer == "" {
		cfg.Footer = DefaultFooter
	}
	if cfg.Navigation == nil {
		cfg.Navigation = DefaultNavigation()
	}
	if cfg.Pages == nil {
		cfg.Pages = DefaultPages()
	}
	if fragments == nil {
		fragments = NewFragmentStore(nil)
	}

	c := &Composer{
		tree:      tree,
		fragments: fragments,
		cfg:       cfg,
		linker: Linker{
			HomeID:     cfg.HomeID,
			HomeHref:   cfg.HomeHref,
			SinglePage: cfg.SinglePage,
		},
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Pages returns the documents to build. Single page mode folds every page
// into one home document holding each distinct fragment once, in order.
func (c *Composer) Pages() []Page {
	if !c.cfg.SinglePage {
		return slices.Clone(c.cfg.Pages)
	}

	combined := Page{ID: c.cfg.HomeID}
	for _, page := range c.cfg.Pages {
		if page.ID == c.cfg.HomeID && page.Title != "" {
			combined.Title = page.Title
		}
		for _, fragment := range page.Fragments {
			if !slices.Contains(combined.Fragments, fragment) {
				combined.Fragments = append(combined.Fragments, fragment)
			}
		}
	}
	return []Page{combined}
}

// Composition is a rendered page along with what failed to resolve.
type Composition struct {
	PageID     string
	HTML       string
	Unresolved []templating.Unresolved
	Missing    []string
}

// Compose renders header, fragments and footer for pageID with navState as
// the active navigation entry.
func (c *Composer) Compose(pageID string, fragments []string, navState string) (string, error) {
	composition, err := c.compose(Page{ID: pageID, Fragments: fragments}, navState)
	if err != nil {
		return "", err
	}
	return composition.HTML, nil
}

// ComposePage renders page with itself as the active navigation entry.
func (c *Composer) ComposePage(page Page) (*Composition, error) {
	return c.compose(page, page.ID)
}

func (c *Composer) compose(page Page, navState string) (*Composition, error) {
	composition := &Composition{PageID: page.ID}

	names := make([]string, 0, len(page.Fragments)+2)
	names = append(names, c.cfg.Header)
	names = append(names, page.Fragments...)
	names = append(names, c.cfg.Footer)

	var source strings.Builder
	for _, name := range names {
		text, ok, err := c.fragments.Fragment(name)
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", page.ID, err)
		}
		if !ok {
			composition.Missing = append(composition.Missing, name)
			text = MissingFragment(name)
		}
		source.WriteString(text)
	}

	tmpl := templating.CompileNamed(page.ID, source.String())
	composition.HTML, composition.Unresolved = tmpl.RenderReport(c.tree, c.overlay(page, navState))

	logging.WithBuildContext(c.logger, "", page.ID).Debug("pages.composed",
		"fragments", len(names),
		"unresolved", len(composition.Unresolved),
		"missing", len(composition.Missing),
	)
	return composition, nil
}

// overlay holds the per-page values layered over the content tree.
func (c *Composer) overlay(page Page, navState string) content.Value {
	pageInfo := content.NewMapping()
	pageInfo.Set("id", content.String(page.ID))
	pageInfo.Set("title", content.String(c.pageTitle(page)))

	links := content.NewMapping()
	for _, item := range c.cfg.Navigation {
		links.Set(item.ID, content.String(c.linker.Href(item.ID)))
	}
	links.Set("home", content.String(c.linker.Href(c.cfg.HomeID)))
	if email, ok := c.text("contact.email"); ok && email != "" {
		links.Set("email", content.String("mailto:"+email))
	}
	if phone, ok := c.text("contact.phone"); ok && phone != "" {
		links.Set("phone", content.String("tel:"+PhoneDigits(phone)))
	}

	build := content.NewMapping()
	build.Set("year", content.String(strconv.Itoa(c.now().Year())))

	overlay := content.NewMapping()
	overlay.Set("page", content.FromMapping(pageInfo))
	overlay.Set("navigation", Navigation(c.cfg.Navigation, navState, c.linker))
	overlay.Set("links", content.FromMapping(links))
	overlay.Set("build", content.FromMapping(build))
	return content.FromMapping(overlay)
}

func (c *Composer) pageTitle(page Page) string {
	if page.Title != "" {
		return page.Title
	}
	for _, item := range c.cfg.Navigation {
		if item.ID == page.ID && item.Label != "" {
			return item.Label
		}
	}
	return page.ID
}

func (c *Composer) text(path string) (string, bool) {
	res := c.tree.Lookup(path)
	if !res.OK() {
		return "", false
	}
	return res.Value.Text()
}

var phoneStripper = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")

// PhoneDigits strips spaces, parentheses and dashes from a phone number.
func PhoneDigits(phone string) string {
	return phoneStripper.Replace(phone)
}
