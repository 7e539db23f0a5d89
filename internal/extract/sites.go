package extract

// siteConfig tunes extraction to one channel's markup.
//
// Selectors are tried against the main-page HTML after noise stripping.
// Feed, when set, bypasses HTML entirely (used for SPA-heavy sites whose
// static HTML carries little content). UseJSONLD enables the embedded
// structured-data scan.
type siteConfig struct {
	Selectors []string
	Feed      string
	UseJSONLD bool
}

var siteConfigs = map[string]siteConfig{
	// broadcast
	"yonhapnews_tv": {
		Selectors: []string{
			".top-news .title a", ".news-list .title a",
			"h2.title a", ".headline-list a",
		},
	},
	"sbs": {
		Feed: "https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=01&plink=RSSREADER",
	},
	"mbc": {
		Selectors: []string{
			".news_list .title a", ".headline_news a",
			".top_news .tit a", "h3.tit a",
		},
	},
	"kbs": {
		Selectors: []string{
			".headline-list .title a", ".news-list .title a",
			"#container .tit a", "h3.tit a",
		},
	},
	"jtbc": {
		Selectors: []string{
			".headline_list a", ".news_area .title a",
			".main-news-list a",
		},
	},
	// newspapers
	"chosun": {
		Selectors: []string{
			`a[class*="story-card"]`, `h2[class*="story-card"] a`,
			".story-card__headline a", "article a",
		},
		UseJSONLD: true,
	},
	"donga": {
		Selectors: []string{
			".main_headline a", ".news_list .title a",
			"h3.title a", ".article_headline a",
		},
	},
	"hani": {
		Selectors: []string{
			".main-top .title a", ".article-title a",
			".article-list .title a", "h4.title a",
		},
	},
	"khan": {
		Selectors: []string{
			".headline a", ".news-list .title a",
			"h3.tit a", ".main_art .tit a",
		},
	},
	"mk": {
		Selectors: []string{
			".news_list .title a", ".headline .tit a",
			"h3.news_ttl a", ".top_news a",
		},
	},
}

// FeedURL returns the feed URL for a channel code, or "" when the channel is
// crawled through its main page HTML.
func FeedURL(channelCode string) string {
	return siteConfigs[channelCode].Feed
}
