package catalog

// Embedded fallback lists, used when GET /api/config fails. They mirror the
// backend's defaults so the browse flow keeps working offline; searches still
// require the backend.

// FallbackPhilosophers lists the philosopher tags shipped with the client.
var FallbackPhilosophers = []string{
	"荘子",
	"ホワイトヘッド",
	"カント",
	"ヘーゲル",
	"ニーチェ",
	"ハイデガー",
	"ウィトゲンシュタイン",
	"アリストテレス",
	"プラトン",
	"キルケゴール",
	"フッサール",
	"ドゥルーズ",
	"デカルト",
	"親鸞",
	"道元",
	"老子",
	"西田幾多郎",
}

// FallbackThemes lists the theme tags shipped with the client.
var FallbackThemes = []string{
	"存在論",
	"認識論",
	"倫理学",
	"言語哲学",
	"時間・生成",
	"自由・意志",
	"関係・他者",
	"美・創造",
	"死・無常",
	"日常・実践",
	"心・意識",
	"社会・政治",
	"宗教・信仰",
	"科学・技術",
	"意味・価値",
	"西洋",
	"仏教",
	"日本哲学",
}

// Subthemes are the fixed step-2 choices. The selected sub-theme is sent to
// the backend as the free-text search query.
var Subthemes = []string{
	"生き方について",
	"愛について",
	"死について",
	"自由について",
	"幸福について",
	"言葉について",
	"時間について",
	"自分について",
}
