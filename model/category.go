package model

// Category is one entry of the fixed product category catalog.
type Category struct {
	ID          string
	Icon        string
	Label       string
	Description string
}

// Name is the icon-prefixed display name.
func (c Category) Name() string {
	return c.Icon + " " + c.Label
}

// Categories is the catalog served by /api/products/category/{category}.
// The first entry is the default selection.
var Categories = []Category{
	{ID: "가전제품", Icon: "🏠", Label: "가전제품", Description: "로봇청소기, 에어프라이어, 공기청정기 등"},
	{ID: "생활용품", Icon: "🧹", Label: "생활용품", Description: "청소기, 선풍기, 가습기, 제습기 등"},
	{ID: "주방용품", Icon: "🍳", Label: "주방용품", Description: "전기밥솥, 믹서기, 블렌더, 토스터 등"},
	{ID: "패션", Icon: "👗", Label: "패션", Description: "여름옷, 가을옷, 운동화, 가방, 모자 등"},
	{ID: "뷰티", Icon: "💄", Label: "뷰티", Description: "화장품, 스킨케어, 헤어케어, 향수 등"},
}

func FindCategory(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
