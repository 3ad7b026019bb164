package models

import "time"

type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	VariantID string    `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	UnitPrice float64   `bson:"unit_price" json:"unit_price"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Cart is one mutable document per user. Line items are exclusively owned
// by the cart; prices are snapshots taken from the catalog at add time.
type Cart struct {
	ID           string     `bson:"_id" json:"id"`
	UserID       string     `bson:"user_id" json:"user_id"`
	Items        []CartItem `bson:"items" json:"items"`
	SessionToken string     `bson:"session_token,omitempty" json:"session_token,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// matches reports whether a line belongs to the (product, variant) pair.
// A line without a variant only matches an empty variant id.
func (i *CartItem) matches(productID, variantID string) bool {
	return i.ProductID == productID && i.VariantID == variantID
}

// AddItem merges quantity into an existing (product, variant) line, or
// appends a new one. The cart never holds two lines for the same pair.
func (c *Cart) AddItem(productID, variantID string, quantity int, unitPrice float64, now time.Time) {
	for i := range c.Items {
		if c.Items[i].matches(productID, variantID) {
			c.Items[i].Quantity += quantity

			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		AddedAt:   now,
	})
}

// UpdateItemQuantity sets the line to a new quantity; zero or negative
// removes it. A missing line is a silent no-op.
func (c *Cart) UpdateItemQuantity(productID, variantID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].matches(productID, variantID) {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}

			return
		}
	}
}

// RemoveItem deletes the matching line; removing an absent line is a
// silent no-op.
func (c *Cart) RemoveItem(productID, variantID string) {
	for i := range c.Items {
		if c.Items[i].matches(productID, variantID) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)

			return
		}
	}
}

// ItemQuantity returns the quantity already held for the (product, variant)
// pair, zero when no line matches.
func (c *Cart) ItemQuantity(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].matches(productID, variantID) {
			return c.Items[i].Quantity
		}
	}

	return 0
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0

	for _, item := range c.Items {
		total += item.Quantity
	}

	return total
}

// Subtotal is the sum of price times quantity across lines.
func (c *Cart) Subtotal() float64 {
	var subtotal float64

	for _, item := range c.Items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	return subtotal
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"omitempty"`
	Quantity  int    `json:"quantity"`
}

type RemoveCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"omitempty"`
}

// CartResponse pairs the cart with its derived read values.
type CartResponse struct {
	Cart       *Cart   `json:"cart"`
	TotalItems int     `json:"total_items"`
	Subtotal   float64 `json:"subtotal"`
}
