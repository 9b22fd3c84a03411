package store

import (
	"encoding/base64"
	"encoding/json"

	"storefront-service/internal/model"
)

// DefaultSizes is the seed size catalog.
func DefaultSizes() []model.Size {
	return []model.Size{
		{ID: "s", Name: "S"},
		{ID: "m", Name: "M"},
		{ID: "l", Name: "L"},
		{ID: "xl", Name: "XL"},
		{ID: "2xl", Name: "2XL"},
		{ID: "3xl", Name: "3XL"},
		{ID: "xxl", Name: "XXL"},
	}
}

// DefaultProducts is the seed catalog shown before the first sync.
func DefaultProducts() []model.Product {
	discount := 116
	return []model.Product{
		{
			ID:            "classic-fit",
			Name:          "Black Tee / Classic Fit",
			NameAr:        "تيشيرت أسود / كلاسيك",
			RegularPrice:  200,
			DiscountPrice: &discount,
			Description:   "The original Black T-Shirt. Everyday fit with a clean neckline and soft-touch cotton.",
			DescriptionAr: "التيشيرت الأسود الأصلي. قصة يومية ورقبة نظيفة وقماش ناعم.",
			Images:        []string{"https://images.pexels.com/photos/7671167/pexels-photo-7671167.jpeg?auto=compress&cs=tinysrgb&w=800"},
			Colors:        []model.Color{{Name: "Deep Black", Hex: "#000000"}},
			Inventory:     model.Inventory{"Deep Black": 45},
			Visible:       true,
			Meta:          []string{"100% cotton"},
		},
		{
			ID:            "oversized",
			Name:          "Black Tee / Oversized",
			NameAr:        "تيشيرت أسود / أوفرسايز",
			RegularPrice:  200,
			Description:   "A relaxed, street-ready cut with dropped shoulders. Perfect for a bolder look.",
			DescriptionAr: "قصة مريحة مع أكتاف منخفضة. مثالي للمظهر الجريء.",
			Images:        []string{"https://images.pexels.com/photos/7671168/pexels-photo-7671168.jpeg?auto=compress&cs=tinysrgb&w=800"},
			Colors:        []model.Color{{Name: "Deep Black", Hex: "#000000"}},
			Inventory:     model.Inventory{"Deep Black": 23},
			Visible:       true,
			Meta:          []string{"Soft, mid-weight cotton · Unisex fit"},
		},
		{
			ID:            "slim-fit",
			Name:          "Black Tee / Slim",
			NameAr:        "تيشيرت أسود / سليم",
			RegularPrice:  200,
			Description:   "A sharper, slimmer silhouette that sits close to the body for a more tailored look.",
			DescriptionAr: "قصة أنحف تلتصق بالجسم لمظهر أكثر أناقة.",
			Images:        []string{"https://images.pexels.com/photos/7671165/pexels-photo-7671165.jpeg?auto=compress&cs=tinysrgb&w=800"},
			Colors:        []model.Color{{Name: "Deep Black", Hex: "#000000"}},
			Inventory:     model.Inventory{"Deep Black": 21},
			Visible:       true,
			Meta:          []string{"Soft, breathable fabric · Curved hem"},
		},
	}
}

// DefaultDesign is the seed design document.
func DefaultDesign() model.Design {
	return model.Design{
		AccentColor: "#f5c96a",
		LogoText:    "Black T-Shirt",
		DefaultLang: "en",
		Sections: model.DesignSections{
			Hero:         true,
			Features:     true,
			Strip:        true,
			Testimonials: true,
			InfoStrip:    true,
		},
		ProductCard: model.ProductCardStyle{
			DiscountBadgeBg:    "#e53935",
			DiscountBadgeColor: "#ffffff",
			PriceNewColor:      "#f5c96a",
			PriceOldColor:      "#888888",
			CardBg:             "rgba(10, 10, 10, 0.96)",
			CardBorder:         "rgba(255, 255, 255, 0.06)",
			FontFamily:         "Poppins, system-ui, sans-serif",
			GridColumnsDesktop: 4,
			GridColumnsMobile:  2,
		},
		ProductCategories: []string{"All", "T-Shirts", "Hoodies", "Accessories"},
		ProductOrder:      []string{},
	}
}

// DefaultFloatingContact is the seed floating contact configuration.
func DefaultFloatingContact() model.FloatingContact {
	return model.FloatingContact{
		Enabled:        true,
		ButtonType:     "whatsapp",
		PhoneNumber:    "+212679460301",
		Position:       "right",
		DefaultMessage: "Hi Black T-Shirt, I'd like to order a T-shirt.",
	}
}

// DefaultAdmin is the seed admin document.
func DefaultAdmin() model.Admin {
	return model.Admin{
		PasswordHash: base64.StdEncoding.EncodeToString([]byte("admin123")),
		Whatsapp:     "212679460301",
	}
}

// DefaultContent is the seed content document, kept as an opaque blob so it
// round-trips through sync without losing fields.
func DefaultContent() json.RawMessage {
	return json.RawMessage(defaultContentJSON)
}

const defaultContentJSON = `{
  "home": {
    "heroEyebrow": "Ouarzazate . Morocco",
    "heroTitle": "Pure Black. Pure Street.",
    "heroSubtitle": "Black T-Shirt is a modern Moroccan streetwear brand built around one iconic piece: the perfect black tee. Minimal, premium and designed to live on the streets of Morocco.",
    "heroCtaPrice": "200 MAD",
    "heroMeta1": "Nationwide delivery across Morocco",
    "heroMeta2": "100% cotton · Everyday essential",
    "feature1Title": "Designed for the streets",
    "feature1Text": "Inspired by the energy of Moroccan youth, our tees are made to move with you — from Ouarzazate to Casablanca.",
    "feature2Title": "Premium build, minimal look",
    "feature2Text": "Clean lines, no noise. Just a sharp black tee that upgrades any outfit, any day.",
    "feature3Title": "Nationwide delivery",
    "feature3Text": "Order from anywhere in Morocco. We ship straight to your door, fast and reliably.",
    "stripPill": "Drop 001",
    "stripTitle": "The only tee you need.",
    "stripText": "One color. One cut. Endless outfits. Wear it with jeans, cargos, or layered under a jacket — Black T-Shirt just works.",
    "stripPrice": "200 MAD",
    "testimonial1": { "text": "\"The fit is perfect and the black doesn't fade after washing. It became my go-to T-shirt.\"", "name": "Yassine", "location": "Marrakech" },
    "testimonial2": { "text": "\"Simple, clean and feels premium. I wear it to class and at night with friends.\"", "name": "Imane", "location": "Casablanca" },
    "testimonial3": { "text": "\"Delivery to Rabat was fast and the packaging was on point. I ordered a second one immediately.\"", "name": "Omar", "location": "Rabat" }
  },
  "banners": [
    { "url": "https://images.pexels.com/photos/7671166/pexels-photo-7671166.jpeg?auto=compress&cs=tinysrgb&w=800", "alt": "Hero banner" }
  ],
  "about": {
    "eyebrow": "About",
    "title": "Built in Ouarzazate. Worn everywhere.",
    "subtitle": "Black T-Shirt is a Moroccan streetwear brand focused on one essential piece: the perfect black tee.",
    "storyTitle": "Our story",
    "storyP1": "Black T-Shirt was born in Ouarzazate, Morocco — a city known for its film sets, light and energy. We wanted to create something just as iconic: a simple, powerful black T-shirt that fits perfectly into modern Moroccan life.",
    "storyP2": "Instead of chasing every trend, we focus on one product and make it right. Clean lines, premium fabric and a fit that works on the streets, in class, at work or on a night out.",
    "valuesTitle": "What we stand for",
    "values": [
      { "title": "Minimalism", "text": "One essential piece that works with everything you own." },
      { "title": "Quality", "text": "Comfortable fabric, sharp color and a fit tested on real people." },
      { "title": "Accessibility", "text": "Premium feel without the heavy price tag. Every tee is 200 MAD." },
      { "title": "Moroccan street culture", "text": "Designed with the rhythm of our streets, campuses and cafés in mind." }
    ],
    "location": "Ouarzazate, Morocco",
    "businessType": "Clothing brand focused on premium black T-shirts.",
    "priceInfo": "Flat price of 200 MAD per item.",
    "deliveryInfo": "Nationwide delivery across Morocco.",
    "mapLat": 30.9198,
    "mapLng": -6.8926,
    "mapZoom": 14
  },
  "contact": {
    "eyebrow": "Contact",
    "title": "Let's make your next favorite tee.",
    "subtitle": "Reach out to order, ask about sizing, or talk collaborations.",
    "talkTitle": "Talk to us directly",
    "talkText": "For the fastest response, send us a WhatsApp message with your name, city and how many T-shirts you want.",
    "phone": "+212 679 460 301",
    "email": "black12tshirt@gmail.com",
    "location": "Ouarzazate, Morocco",
    "businessType": "Clothing / T-shirts",
    "priceInfo": "200 MAD per item · Nationwide delivery",
    "whatsappMessage": "Hi Black T-Shirt, I want to order a T-shirt."
  }
}`
