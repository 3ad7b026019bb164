package models

import (
	"math"
	"strings"
	"time"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDraft    ProductStatus = "draft"
)

type Image struct {
	URL    string `bson:"url" json:"url" validate:"required,url"`
	Alt    string `bson:"alt,omitempty" json:"alt,omitempty"`
	IsMain bool   `bson:"is_main" json:"is_main"`
}

type Variant struct {
	ID       string   `bson:"_id" json:"id"`
	Name     string   `bson:"name" json:"name" validate:"required"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"`
	Price    float64  `bson:"price,omitempty" json:"price,omitempty" validate:"omitempty,gte=0"`
	SKU      string   `bson:"sku,omitempty" json:"sku,omitempty"`
	Quantity int64    `bson:"quantity" json:"quantity" validate:"gte=0"`
}

type Dimensions struct {
	Length float64 `bson:"length,omitempty" json:"length,omitempty" validate:"omitempty,gte=0"`
	Width  float64 `bson:"width,omitempty" json:"width,omitempty" validate:"omitempty,gte=0"`
	Height float64 `bson:"height,omitempty" json:"height,omitempty" validate:"omitempty,gte=0"`
}

type SEO struct {
	Title       string   `bson:"title,omitempty" json:"title,omitempty" validate:"omitempty,max=60"`
	Description string   `bson:"description,omitempty" json:"description,omitempty" validate:"omitempty,max=160"`
	Keywords    []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

type Product struct {
	ID               string        `bson:"_id" json:"id"`
	Name             string        `bson:"name" json:"name"`
	Slug             string        `bson:"slug" json:"slug"`
	Description      string        `bson:"description" json:"description"`
	ShortDescription string        `bson:"short_description,omitempty" json:"short_description,omitempty"`
	Price            float64       `bson:"price" json:"price"`
	ComparePrice     float64       `bson:"compare_price,omitempty" json:"compare_price,omitempty"`
	Cost             float64       `bson:"cost,omitempty" json:"cost,omitempty"`
	SKU              string        `bson:"sku" json:"sku"`
	Barcode          string        `bson:"barcode,omitempty" json:"barcode,omitempty"`
	TrackQuantity    bool          `bson:"track_quantity" json:"track_quantity"`
	Quantity         int64         `bson:"quantity" json:"quantity"`
	Weight           float64       `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimensions       *Dimensions   `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	CategoryID       string        `bson:"category_id" json:"category_id"`
	Images           []Image       `bson:"images,omitempty" json:"images,omitempty"`
	Tags             []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	Variants         []Variant     `bson:"variants,omitempty" json:"variants,omitempty"`
	SEO              *SEO          `bson:"seo,omitempty" json:"seo,omitempty"`
	Status           ProductStatus `bson:"status" json:"status"`
	Featured         bool          `bson:"featured" json:"featured"`
	RequiresShipping bool          `bson:"requires_shipping" json:"requires_shipping"`
	Taxable          bool          `bson:"taxable" json:"taxable"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`

	Category *Category `bson:"-" json:"category,omitempty"`
}

// Slugify derives a URL slug from a product or category name: lowercase,
// non-alphanumeric runs collapse to single hyphens, no leading or trailing
// hyphen. "Wireless Mouse!!" becomes "wireless-mouse".
func Slugify(name string) string {
	var b strings.Builder

	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)

			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')

			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// InStock reports availability; products that do not track quantity are
// always purchasable.
func (p *Product) InStock() bool {
	if !p.TrackQuantity {
		return true
	}

	return p.Quantity > 0
}

// MainImage returns the image flagged main, falling back to the first one.
func (p *Product) MainImage() *Image {
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}

	if len(p.Images) > 0 {
		return &p.Images[0]
	}

	return nil
}

// DiscountPercentage is the rounded percent saved against the compare
// price, 0 when no meaningful compare price is set.
func (p *Product) DiscountPercentage() int {
	if p.ComparePrice <= 0 || p.ComparePrice <= p.Price {
		return 0
	}

	return int(math.Round((p.ComparePrice - p.Price) / p.ComparePrice * 100))
}

// NormalizeImages restores the at-most-one-main invariant: the first
// flagged image wins, and when none is flagged the first image is promoted.
func (p *Product) NormalizeImages() {
	mainSeen := false

	for i := range p.Images {
		if p.Images[i].IsMain {
			if mainSeen {
				p.Images[i].IsMain = false
			}

			mainSeen = true
		}
	}

	if !mainSeen && len(p.Images) > 0 {
		p.Images[0].IsMain = true
	}
}

// VariantByID returns the priced sub-unit with the given id, nil if absent.
func (p *Product) VariantByID(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}

	return nil
}

type CreateProductRequest struct {
	Name             string      `json:"name" validate:"required,max=200"`
	Slug             string      `json:"slug" validate:"omitempty,max=200"`
	Description      string      `json:"description" validate:"required,max=2000"`
	ShortDescription string      `json:"short_description" validate:"omitempty,max=500"`
	Price            float64     `json:"price" validate:"required,gte=0"`
	ComparePrice     float64     `json:"compare_price" validate:"omitempty,gte=0"`
	Cost             float64     `json:"cost" validate:"omitempty,gte=0"`
	SKU              string      `json:"sku" validate:"required,min=3,max=50"`
	Barcode          string      `json:"barcode" validate:"omitempty,max=50"`
	TrackQuantity    *bool       `json:"track_quantity,omitempty"`
	Quantity         int64       `json:"quantity" validate:"gte=0"`
	Weight           float64     `json:"weight" validate:"omitempty,gte=0"`
	Dimensions       *Dimensions `json:"dimensions,omitempty"`
	CategoryID       string      `json:"category_id" validate:"required"`
	Images           []Image     `json:"images,omitempty" validate:"omitempty,dive"`
	Tags             []string    `json:"tags,omitempty"`
	Variants         []Variant   `json:"variants,omitempty" validate:"omitempty,dive"`
	SEO              *SEO        `json:"seo,omitempty"`
	Status           string      `json:"status" validate:"omitempty,oneof=active inactive draft"`
	Featured         bool        `json:"featured"`
	RequiresShipping *bool       `json:"requires_shipping,omitempty"`
	Taxable          *bool       `json:"taxable,omitempty"`
}

type UpdateProductRequest struct {
	Name             *string     `json:"name,omitempty" validate:"omitempty,max=200"`
	Description      *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	ShortDescription *string     `json:"short_description,omitempty" validate:"omitempty,max=500"`
	Price            *float64    `json:"price,omitempty" validate:"omitempty,gte=0"`
	ComparePrice     *float64    `json:"compare_price,omitempty" validate:"omitempty,gte=0"`
	Cost             *float64    `json:"cost,omitempty" validate:"omitempty,gte=0"`
	SKU              *string     `json:"sku,omitempty" validate:"omitempty,min=3,max=50"`
	Barcode          *string     `json:"barcode,omitempty" validate:"omitempty,max=50"`
	TrackQuantity    *bool       `json:"track_quantity,omitempty"`
	Quantity         *int64      `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Weight           *float64    `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Dimensions       *Dimensions `json:"dimensions,omitempty"`
	CategoryID       *string     `json:"category_id,omitempty"`
	Images           []Image     `json:"images,omitempty" validate:"omitempty,dive"`
	Tags             []string    `json:"tags,omitempty"`
	Variants         []Variant   `json:"variants,omitempty" validate:"omitempty,dive"`
	SEO              *SEO        `json:"seo,omitempty"`
	Status           *string     `json:"status,omitempty" validate:"omitempty,oneof=active inactive draft"`
	Featured         *bool       `json:"featured,omitempty"`
	RequiresShipping *bool       `json:"requires_shipping,omitempty"`
	Taxable          *bool       `json:"taxable,omitempty"`
}

// ProductListQuery carries the catalog listing filters parsed from query
// params.
type ProductListQuery struct {
	Page     int
	Limit    int
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     string
	Order    string
	Featured *bool
	Status   ProductStatus
}
