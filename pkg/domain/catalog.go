package domain

import "time"

// Banner is a promotional banner shown on the home screen.
type Banner struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`
}

// Brochure is a weekly offers brochure. The content itself is a PDF; the
// client only lists brochures and hands the URL to the OS browser.
type Brochure struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	PDFURL    string     `json:"pdf_url"`
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
}

// Product is a catalog product.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	OldPrice    float64 `json:"old_price,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Description string  `json:"description,omitempty"`
}

// PromoCode is a discount code with an optional expiry.
type PromoCode struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Code        string     `json:"code"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
}

// Shop is a physical store location.
type Shop struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Hours   string  `json:"hours,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// PageMeta describes one page of a paginated catalog response.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
