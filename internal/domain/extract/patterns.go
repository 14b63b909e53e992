package extract

import "regexp"

// attractionSuffixes are the attraction-type endings used both to build the
// suffix-scan patterns and to strip a candidate down to its base name when
// checking it against the gazetteer. Longest first so stripping removes the
// most specific suffix.
var attractionSuffixes = []string{
	"风景名胜区", "国家森林公园", "繁育研究基地",
	"旅游度假区", "风景区", "旅游区", "博物院", "博物馆",
	"纪念馆", "美术馆", "科技馆", "植物园", "动物园",
	"游乐园", "步行街", "古镇", "古城", "老街", "景区",
	"乐园", "公园", "广场", "故居", "遗址", "城墙",
	"石窟", "书院", "大桥", "海滩", "峡谷",
	"寺", "庙", "宫", "塔", "湖", "山", "岛", "街", "巷",
}

// suffixPatterns match CJK runs ending in a common attraction-type suffix.
// Grouped into families so each family stays readable; total candidate
// length is bounded at 2-8 runes.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\p{Han}{1,6}(?:风景名胜区|风景区|旅游区|度假区|景区)`),
	regexp.MustCompile(`\p{Han}{1,5}(?:博物院|博物馆|纪念馆|美术馆|科技馆)`),
	regexp.MustCompile(`\p{Han}{1,6}(?:植物园|动物园|游乐园|乐园|公园)`),
	regexp.MustCompile(`\p{Han}{1,5}(?:古镇|古城|老街|步行街|广场)`),
	regexp.MustCompile(`\p{Han}{1,6}(?:故居|遗址|城墙|石窟|书院)`),
	regexp.MustCompile(`\p{Han}{1,7}(?:寺|庙|宫|塔|湖|山|岛)`),
}

// visitVerbPattern captures the object of verbs meaning visit/go to/arrive
// at/experience in itinerary prose.
var visitVerbPattern = regexp.MustCompile(`(?:参观|游览|前往|打卡|抵达|体验|登上|漫步|夜游|游玩|去)(\p{Han}{2,15})`)

// quotePatterns match text enclosed in the quote-mark pairs that itinerary
// text uses to call out proper names.
var quotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`「([^「」]{2,12})」`),
	regexp.MustCompile(`『([^『』]{2,12})』`),
	regexp.MustCompile(`“([^“”]{2,12})”`),
	regexp.MustCompile(`‘([^‘’]{2,12})’`),
	regexp.MustCompile(`《([^《》]{2,12})》`),
	regexp.MustCompile(`【([^【】]{2,12})】`),
}

// stopwords cover the scheduling and logistics vocabulary that itinerary
// prose mixes in with real place names: time-of-day, meals, lodging,
// transport and fares, generic planning words, and vague locators. A
// candidate that equals or contains any of these is not a place name.
var stopwords = []string{
	// time of day
	"上午", "下午", "中午", "晚上", "早上", "凌晨", "傍晚", "全天", "夜晚",
	// meals
	"早餐", "午餐", "晚餐", "早饭", "午饭", "晚饭", "美食", "小吃", "夜宵", "用餐",
	// lodging
	"酒店", "宾馆", "民宿", "客栈", "住宿", "入住", "退房",
	// transport and fares
	"打车", "地铁", "公交", "高铁", "火车", "飞机", "机场", "车站", "租车", "车费", "门票",
	// planning and itinerary vocabulary
	"行程", "攻略", "计划", "安排", "路线", "预算", "集合", "出发", "返程", "自由活动", "休息", "购物",
	// vague locators
	"附近", "当地", "周边", "市区", "市中心", "沿途",
}
