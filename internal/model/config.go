package model

import "encoding/json"

// DesignSections toggles the storefront home sections.
type DesignSections struct {
	Hero         bool `json:"hero"`
	Features     bool `json:"features"`
	Strip        bool `json:"strip"`
	Testimonials bool `json:"testimonials"`
	InfoStrip    bool `json:"infoStrip"`
}

// ProductCardStyle controls how product cards render.
type ProductCardStyle struct {
	DiscountBadgeBg    string `json:"discountBadgeBg"`
	DiscountBadgeColor string `json:"discountBadgeColor"`
	PriceNewColor      string `json:"priceNewColor"`
	PriceOldColor      string `json:"priceOldColor"`
	CardBg             string `json:"cardBg"`
	CardBorder         string `json:"cardBorder"`
	FontFamily         string `json:"fontFamily"`
	GridColumnsDesktop int    `json:"gridColumnsDesktop"`
	GridColumnsMobile  int    `json:"gridColumnsMobile"`
}

// Design is the storefront design document. ProductOrder lists product IDs
// in display order; empty means catalog order.
type Design struct {
	AccentColor       string           `json:"accentColor"`
	LogoText          string           `json:"logoText"`
	DefaultLang       string           `json:"defaultLang"`
	Sections          DesignSections   `json:"sections"`
	ProductCard       ProductCardStyle `json:"productCard"`
	ProductCategories []string         `json:"productCategories"`
	ProductOrder      []string         `json:"productOrder"`
}

// FloatingContact configures the floating contact button.
type FloatingContact struct {
	Enabled        bool   `json:"enabled"`
	ButtonType     string `json:"buttonType"` // phone | whatsapp | telegram | instagram
	PhoneNumber    string `json:"phoneNumber"`
	Position       string `json:"position"` // right | left
	DefaultMessage string `json:"defaultMessage"`
	InstagramURL   string `json:"instagramUrl"`
}

// Admin is the local-only admin document. It is never part of the synced
// payload and never overwritten by remote data.
type Admin struct {
	PasswordHash string `json:"passwordHash"`
	Whatsapp     string `json:"whatsapp,omitempty"`
}

// Snapshot is the top-level shape of the remote store document. Pointer and
// raw fields distinguish "absent" from "present but empty" so a pull only
// overwrites documents the remote actually carries.
type Snapshot struct {
	Products        *[]Product       `json:"products,omitempty"`
	Orders          *[]Order         `json:"orders,omitempty"`
	Content         json.RawMessage  `json:"content,omitempty"`
	Design          *Design          `json:"design,omitempty"`
	FloatingContact *FloatingContact `json:"floatingContact,omitempty"`
	Sizes           *[]Size          `json:"sizes,omitempty"`
	OrdersAPIURL    string           `json:"ordersApiUrl,omitempty"`
	WhatsappNumber  string           `json:"whatsappNumber,omitempty"`
}
