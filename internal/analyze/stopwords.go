package analyze

// stopwords holds high-frequency Korean forms that carry no topical signal:
// dependent nouns, calendar units, newsroom boilerplate and common adverbs.
var stopwords = map[string]struct{}{
	"것": {}, "수": {}, "등": {}, "년": {}, "월": {}, "일": {},
	"때": {}, "중": {}, "후": {}, "전": {}, "내": {}, "더": {},
	"곳": {}, "외": {}, "위": {}, "말": {}, "점": {}, "그": {},
	"이": {}, "저": {},
	"뉴스": {}, "기자": {}, "특파원": {}, "사진": {}, "영상": {},
	"속보": {}, "단독": {}, "종합": {},
	"오늘": {}, "어제": {}, "내일": {}, "현재": {}, "관련": {},
	"대해": {}, "모두": {}, "매우": {}, "사이": {}, "최근": {},
	"지금": {}, "통해": {}, "대한": {}, "또한": {}, "이번": {},
}

func isStopword(form string) bool {
	_, ok := stopwords[form]
	return ok
}
