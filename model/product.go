package model

type Product struct {
	Rank        int    `json:"rank"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	ProductURL  string `json:"product_url"`
	ImageURL    string `json:"image_url"`
	MallName    string `json:"mall_name"`
	Category    string `json:"category,omitempty"`
	Keyword     string `json:"keyword,omitempty"`
}

// ProductList is returned by both /api/popular-products and
// /api/products/category/{category}.
type ProductList struct {
	Items      []Product `json:"items"`
	Count      int       `json:"count"`
	Category   string    `json:"category,omitempty"`
	Categories []string  `json:"categories,omitempty"`
}
