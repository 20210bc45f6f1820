package readability

import (
	"context"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const (
	defaultMaxElemsToParse = 0
	defaultNTopCandidates  = 5
	defaultCharThreshold   = 500
)

type Options struct {
	debug             bool
	logger            zerolog.Logger
	maxElemsToParse   int
	nbTopCandidates   int
	charThreshold     int
	classesToPreserve []string
	keepClasses       bool
	flattenTables     bool
	ignoreLinkDensity bool
	serializer        func(doc *Node) string
	html2text         func(htmlSrc string) string
	disableJSONLD     bool
	allowedVideoRegex *regexp.Regexp
	imageProxy        func(src string, width, height int) string
	linkResolver      func(ctx context.Context, url string) (string, error)
	languageDetector  func(ctx context.Context, content string) (string, error)
	minContentLength  int
	minScore          float64
	visibilityChecker func(*html.Node) bool
}

type Option func(*Options)

func defaultOpts() *Options {
	return &Options{
		logger:            zerolog.Nop(),
		maxElemsToParse:   defaultMaxElemsToParse,
		nbTopCandidates:   defaultNTopCandidates,
		charThreshold:     defaultCharThreshold,
		classesToPreserve: defaultClassesToPreserve,
		allowedVideoRegex: videos,
		serializer: func(n *Node) string {
			return n.GetInnerHTML()
		},
		linkResolver:      resolveFinalURL,
		minScore:          20,
		minContentLength:  140,
		visibilityChecker: isNodeVisible,
	}
}

// Debug turns on debug logging to stderr.
func Debug(b bool) Option {
	return func(o *Options) {
		o.debug = b
		if b {
			o.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				With().Timestamp().Logger().Level(zerolog.DebugLevel)
		}
	}
}

// Logger routes the parser logs to the given logger.
func Logger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

func MaxElemsToParse(n int) Option {
	return func(o *Options) {
		o.maxElemsToParse = n
	}
}

func NTopCandidates(n int) Option {
	return func(o *Options) {
		o.nbTopCandidates = n
	}
}

func CharThreshold(n int) Option {
	return func(o *Options) {
		o.charThreshold = n
	}
}

func ClassesToPreserve(classes ...string) Option {
	return func(o *Options) {
		o.classesToPreserve = append(o.classesToPreserve, classes...)
	}
}

func KeepClasses(b bool) Option {
	return func(o *Options) {
		o.keepClasses = b
	}
}

// FlattenTables retags content tables to divs, which helps with
// newsletter-style layouts built entirely out of tables.
func FlattenTables(b bool) Option {
	return func(o *Options) {
		o.flattenTables = b
	}
}

// IgnoreLinkDensity disables the link-density penalty while scoring, useful
// for link-heavy pages that are still articles.
func IgnoreLinkDensity(b bool) Option {
	return func(o *Options) {
		o.ignoreLinkDensity = b
	}
}

func Serializer(f func(*Node) string) Option {
	return func(o *Options) {
		o.serializer = f
	}
}

func Html2Text(f func(string) string) Option {
	return func(o *Options) {
		o.html2text = f
	}
}

func DisableJSONLD(b bool) Option {
	return func(o *Options) {
		o.disableJSONLD = b
	}
}

func AllowedVideoRegex(rgx *regexp.Regexp) Option {
	return func(o *Options) {
		o.allowedVideoRegex = rgx
	}
}

// ImageProxy rewrites every image source through the given proxy URL
// builder. Width and height are 0 when unknown.
func ImageProxy(f func(src string, width, height int) string) Option {
	return func(o *Options) {
		o.imageProxy = f
	}
}

// LinkResolver follows redirects of ambiguous social links to their final
// URL. The default resolver performs a GET with a short timeout.
func LinkResolver(f func(ctx context.Context, url string) (string, error)) Option {
	return func(o *Options) {
		o.linkResolver = f
	}
}

// LanguageDetector returns the language of the extracted content, either as
// a BCP 47 tag or as a plain English name.
func LanguageDetector(f func(ctx context.Context, content string) (string, error)) Option {
	return func(o *Options) {
		o.languageDetector = f
	}
}

func MinContentLength(len int) Option {
	return func(o *Options) {
		o.minContentLength = len
	}
}

func MinScore(score float64) Option {
	return func(o *Options) {
		o.minScore = score
	}
}

func VisibilityChecker(f func(*html.Node) bool) Option {
	return func(o *Options) {
		o.visibilityChecker = f
	}
}
