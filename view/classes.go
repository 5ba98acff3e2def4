package view

import "strings"

const neutralText = "text-gray-600"

// SearchVolumeClass returns the text colour for a search volume level.
func SearchVolumeClass(volume string) string {
	switch volume {
	case "매우 높음":
		return "text-red-600"
	case "높음":
		return "text-orange-600"
	case "보통":
		return "text-yellow-600"
	case "낮음":
		return "text-blue-600"
	default:
		return neutralText
	}
}

// IntentClass returns the badge colours for a search intent label.
func IntentClass(intent string) string {
	switch intent {
	case "구매 의도", "구매":
		return "bg-green-100 text-green-800"
	case "브랜드 탐색 의도", "브랜드 탐색":
		return "bg-blue-100 text-blue-800"
	case "가격비교", "가격 비교 의도":
		return "bg-yellow-100 text-yellow-800"
	case "할인":
		return "bg-red-100 text-red-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// PriceRangeClass colours a price range label. Labels are free text such as
// "10만원대 (할인)", so they are matched by substring, first match wins.
func PriceRangeClass(priceRange string) string {
	switch {
	case strings.Contains(priceRange, "할인"), strings.Contains(priceRange, "무료"):
		return "text-red-600 font-semibold"
	case strings.Contains(priceRange, "50만원 이상"):
		return "text-purple-600 font-semibold"
	case strings.Contains(priceRange, "만원대"):
		return "text-blue-600"
	default:
		return neutralText
	}
}

// CompetitionClass returns the text colour for a competition level.
func CompetitionClass(competition string) string {
	switch competition {
	case "높음":
		return "text-red-600"
	case "중간", "보통":
		return "text-yellow-600"
	case "낮음":
		return "text-green-600"
	default:
		return neutralText
	}
}
