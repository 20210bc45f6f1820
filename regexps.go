package readability

import "regexp"

// All of the regular expressions in use within readability.
// Defined up here so we don't instantiate them repeatedly in loops.
var (
	unlikelyCandidates   = regexp.MustCompile(`(?i)\bad\b|ai2html|banner|breadcrumbs|breadcrumb|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager([^o]|$)|popup|yom-remote|copyright|keywords|outline|infinite-list|beta|recirculation|site-index|hide-for-print|post-end-share-cta|post-end-cta-full|post-footer|post-head|post-tag|li-date|main-navigation|programtic-ads|outstream_article|hfeed|comment-holder|back-to-top|show-up-next|onward-journey|topic-tracker|list-nav|block-ad-entity|adSpecs|gift-article-button|modal-title|in-story-masthead|share-tools|standard-dock|expanded-dock|margins-h|subscribe-dialog|icon|bumped|dvz-social-media-buttons|post-toc|mobile-menu|mobile-navbar|tl_article_header|mvp(-post)*-(add-story|soc(-mob)*-wrap)|w-condition-invisible|PostsPage-commentsSection|hide-text|text-blurple|bottom-wrapper|rich-text-block main w-richtext|rich-text-block_ataglance at-a-glance test w-richtext`)
	okMaybeItsACandidate = regexp.MustCompile(`(?i)\band\b|article|body|column|content|main|shadow|post-header|hfeed site|blog-posts hfeed|container-banners|menu-opacity|header-with-anchor-widget|commentOnSelection|highlight--with-header`)
	// contexts where an "article" or "main" token is not a content hint
	// (checked separately since the regexp engine has no lookaround)
	notACandidateAfterAll = regexp.MustCompile(`(?i)article-?(breadcrumbs?|utils|trilist|_header)|(outstream.?_|sub.?_|omeda-promo-|in-article-advert|block-ad-|tl_|m_)article|main-navigation|main-header`)
	positive              = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story|tweet(-\w+)?|instagram|image|container-banners|player|commentOnSelection`)
	negative              = regexp.MustCompile(`(?i)\bad\b|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|footer|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget|controls|video-controls`)
	byline                = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)
	publishedDateKeyword  = regexp.MustCompile(`(?i)published|modified|created|updated`)
	dateToken             = regexp.MustCompile(`(?i)date`)
	normalize             = regexp.MustCompile(`\s{2,}`)
	videos                = regexp.MustCompile(`(?i)\/\/(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq|cdnapisec\.kaltura)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv|piped\.mha\.fi)`)
	shareElements         = regexp.MustCompile(`(?i)(\b|_)(share|sharedaddy|post-tags)(\b|_)`)
	tokenize              = regexp.MustCompile(`\W+`)
	whitespace            = regexp.MustCompile(`^\s*$`)
	hasContent            = regexp.MustCompile(`\S$`)
	hashUrl               = regexp.MustCompile(`^#.+`)
	srcsetUrl             = regexp.MustCompile(`(\S+)(\s+[\d.]+[xw])?(\s*(?:,|$))`)
	b64DataUrl            = regexp.MustCompile(`(?i)^data:\s*([^\s;,]+)\s*;\s*base64\s*,`)
	imageDataUri          = regexp.MustCompile(`(?i)^data:image\/(?:png|jpe?g|gif);base64,`)
	// commas as used in Latin, Sindhi, Chinese and various other scripts.
	// see: https://en.wikipedia.org/wiki/Comma#Comma_variants
	commas = regexp.MustCompile(`\x{002C}|\x{060C}|\x{FE50}|\x{FE10}|\x{FE11}|\x{2E41}|\x{2E34}|\x{2E32}|\x{FF0C}`)
	// See: https://schema.org/Article
	jsonLdArticleTypes = regexp.MustCompile(`^Article|AdvertiserContentArticle|NewsArticle|AnalysisNewsArticle|AskPublicNewsArticle|BackgroundNewsArticle|OpinionNewsArticle|ReportageNewsArticle|ReviewNewsArticle|Report|SatiricalArticle|ScholarlyArticle|MedicalScholarlyArticle|SocialMediaPosting|BlogPosting|LiveBlogPosting|DiscussionForumPosting|TechArticle|APIReference$`)
	// numeric dates in ymd, mdy and dmy order, leap years included
	numericDates = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([0-9]{4}[-\/]?((0[13-9]|1[012])[-\/]?(0[1-9]|[12][0-9]|30)|(0[13578]|1[02])[-\/]?31|02[-\/]?(0[1-9]|1[0-9]|2[0-8]))|([0-9]{2}(([2468][048]|[02468][48])|[13579][26])|([13579][26]|[02468][048]|0[0-9]|1[0-6])00)[-\/]?02[-\/]?29)`),
		regexp.MustCompile(`(?i)(((0[13-9]|1[012])[-/]?(0[1-9]|[12][0-9]|30)|(0[13578]|1[02])[-/]?31|02[-/]?(0[1-9]|1[0-9]|2[0-8]))[-/]?[0-9]{4}|02[-/]?29[-/]?([0-9]{2}(([2468][048]|[02468][48])|[13579][26])|([13579][26]|[02468][048]|0[0-9]|1[0-6])00))`),
		regexp.MustCompile(`(?i)(((0[1-9]|[12][0-9]|30)[-/]?(0[13-9]|1[012])|31[-/]?(0[13578]|1[02])|(0[1-9]|1[0-9]|2[0-8])[-/]?02)[-/]?[0-9]{4}|29[-/]?02[-/]?([0-9]{2}(([2468][048]|[02468][48])|[13579][26])|([13579][26]|[02468][048]|0[0-9]|1[0-6])00))`),
	}
	longDate         = regexp.MustCompile(`(?i)^(Jan(uary)?|Feb(ruary)?|Mar(ch)?|Apr(il)?|May|Jun(e)?|Jul(y)?|Aug(ust)?|Sep(tember)?|Oct(ober)?|Nov(ember)?|Dec(ember)?)\s\d{1,2}(st|nd|rd|th)?(,)?\s\d{2,4}$`)
	longDateAnywhere = regexp.MustCompile(`(?i)(Jan(uary)?|Feb(ruary)?|Mar(ch)?|Apr(il)?|May|Jun(e)?|Jul(y)?|Aug(ust)?|Sep(tember)?|Oct(ober)?|Nov(ember)?|Dec(ember)?)\s\d{1,2}(st|nd|rd|th)?(,)?\s\d{2,4}`)
	chineseDate      = regexp.MustCompile(`\d{2,4}年\d{1,2}月\d{1,2}日`)
	chineseDateFull  = regexp.MustCompile(`^\d{2,4}年\d{1,2}月\d{1,2}日$`)
	ordinalSuffix    = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)
	urlDate          = regexp.MustCompile(`(\d{4})(\/|-)(\d{2})(\/|-)(\d{2})`)
	bylinePrefix     = regexp.MustCompile(`(?i)^by\s+`)
	lazyLoadingElems = regexp.MustCompile(`(?i)\S*loading\S*`)
	emojiChars       = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F700}-\x{1F77F}\x{1F780}-\x{1F7FF}\x{1F800}-\x{1F8FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{1F900}-\x{1F9FF}\x{1FA00}-\x{1FA6F}\x{1FA70}-\x{1FAFF}]`)
	redundantCounter = regexp.MustCompile(`^\+\d+$`)
	redundantText    = regexp.MustCompile(`(?i)view full|skip to content|Open in browser`)
	navigationText   = regexp.MustCompile(`(?i)next|prev|previous`)
	tweetUrl         = regexp.MustCompile(`(https?:\/\/twitter\.com\/\w+\/status\/)(\d+)`)
	instagramUrl     = regexp.MustCompile(`https?:\/\/(www\.)?instagram\.com\/p\/(\w+)\/?`)
	tweetClass       = regexp.MustCompile(`(?i)tweet(-\w+)?`)
	instagramClass   = regexp.MustCompile(`(?i)instagram`)
	titleFinalPart   = regexp.MustCompile(` [\|\-\\\/>»] `)
	titleSeparators  = regexp.MustCompile(` [\\\/>»] `)
	separators       = regexp.MustCompile(`[\|\-\\\/>»]+`)
	dotSpaceOrEnd    = regexp.MustCompile(`\.( |$)`)
	cdata            = regexp.MustCompile(`^\s*<!\[CDATA\[|\]\]>\s*$`)
	schemaUrl        = regexp.MustCompile(`^https?\:\/\/schema\.org\/?$`)
	// property is a space-separated list of values
	propertyPattern = regexp.MustCompile(`(?i)\s*(dc|dcterm|og|twitter|article)\s*:\s*(locale|author|creator|description|title|site_name|published_time|published|date|image(:url|:secure_url)?)(\s|$)`)
	// name is a single value
	namePattern                   = regexp.MustCompile(`(?i)^\s*(?:(dc|dcterm|og|twitter|weibo:(article|webpage))\s*[\.:]\s*)?(author|creator|description|title|site_name|date|image)\s*$`)
	entityReferences              = regexp.MustCompile(`&(quot|amp|apos|lt|gt);`)
	htmlCharCodes                 = regexp.MustCompile(`(?i)&#(?:x([0-9a-fA-F]{1,4})|([0-9]{1,5}));`)
	multipleWhitespaces           = regexp.MustCompile(`\s+`)
	imgExtensions                 = regexp.MustCompile(`\.(jpg|jpeg|png|webp)`)
	base64Starts                  = regexp.MustCompile(`base64\s*`)
	imgExtensionsWithSpacesAndNum = regexp.MustCompile(`\.(jpg|jpeg|png|webp)\s+\d`)
	imgExtensionsAmongText        = regexp.MustCompile(`^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`)
)

// These are the classes that we want to keep.
var defaultClassesToPreserve = []string{
	"page", "twitter-tweet", "tweet-placeholder", "instagram-placeholder", "morning-brew-markets", "prism-code", "tiktok-embed",
}

// Classes of placeholder elements that can be empty but shouldn't be removed.
var placeholderClasses = []string{"tweet-placeholder", "instagram-placeholder"}

// Classes of embeds injected upstream of the parser.
var embedsClasses = []string{"omnivore-instagram-embed"}

// These are the classes that we skip when cleaning a tag.
var classesToSkip = []string{"post-body", "StoryBodyCompanionColumn"}

var unlikelyRoles = []string{"menu", "menubar", "complementary", "navigation", "alert", "alertdialog", "dialog"}

var divToPElems = map[string]bool{
	"A": true, "BLOCKQUOTE": true, "DL": true, "DIV": true, "IMG": true,
	"OL": true, "P": true, "PRE": true, "TABLE": true, "UL": true, "SELECT": true,
}

var alterToDivExceptions = []string{"DIV", "ARTICLE", "SECTION", "P"}

var presentationalAttributes = []string{"align", "background", "bgcolor", "border", "cellpadding", "cellspacing", "frame", "hspace", "rules", "style", "valign", "vspace"}

var deprecatedSizeAttributeElems = []string{"TABLE", "TH", "TD", "HR", "PRE"}

// The commented out elements qualify as phrasing content but tend to be
// removed by readability when put into paragraphs, so we ignore them here.
var phrasingElems = []string{
	// "CANVAS", "IFRAME", "SVG", "VIDEO",
	"ABBR", "AUDIO", "B", "BDO", "BR", "BUTTON", "CITE", "CODE", "DATA",
	"DATALIST", "DFN", "EM", "EMBED", "I", "IMG", "INPUT", "KBD", "LABEL",
	"MARK", "MATH", "METER", "NOSCRIPT", "OBJECT", "OUTPUT", "PROGRESS", "Q",
	"RUBY", "SAMP", "SCRIPT", "SELECT", "SMALL", "SPAN", "STRONG", "SUB",
	"SUP", "TEXTAREA", "TIME", "VAR", "WBR",
}
