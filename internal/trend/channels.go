package trend

// DefaultChannels is the built-in channel set used when no channel store is
// configured. The codes line up with the per-site extraction tuning.
func DefaultChannels() []ChannelConfig {
	return []ChannelConfig{
		{Code: "yonhapnews_tv", Symbol: "YTN", Name: "연합뉴스TV", URL: "https://www.yonhapnewstv.co.kr", Category: "broadcast", Active: true},
		{Code: "sbs", Symbol: "SBS", Name: "SBS 뉴스", URL: "https://news.sbs.co.kr", Category: "broadcast", Active: true},
		{Code: "mbc", Symbol: "MBC", Name: "MBC 뉴스", URL: "https://imnews.imbc.com", Category: "broadcast", Active: true},
		{Code: "kbs", Symbol: "KBS", Name: "KBS 뉴스", URL: "https://news.kbs.co.kr", Category: "broadcast", Active: true},
		{Code: "jtbc", Symbol: "JTBC", Name: "JTBC 뉴스", URL: "https://news.jtbc.co.kr", Category: "broadcast", Active: true},
		{Code: "chosun", Symbol: "조선", Name: "조선일보", URL: "https://www.chosun.com", Category: "newspaper", Active: true},
		{Code: "donga", Symbol: "동아", Name: "동아일보", URL: "https://www.donga.com", Category: "newspaper", Active: true},
		{Code: "hani", Symbol: "한겨레", Name: "한겨레", URL: "https://www.hani.co.kr", Category: "newspaper", Active: true},
		{Code: "khan", Symbol: "경향", Name: "경향신문", URL: "https://www.khan.co.kr", Category: "newspaper", Active: true},
		{Code: "mk", Symbol: "매경", Name: "매일경제", URL: "https://www.mk.co.kr", Category: "newspaper", Active: true},
	}
}
