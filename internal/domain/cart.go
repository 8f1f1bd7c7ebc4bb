package domain

import "time"

// CartLine holds one product in a cart. UnitPrice is snapshotted at
// add time, not looked up from the catalog on read.
type CartLine struct {
	ProductRef string    `bson:"product_ref" json:"product_ref"`
	Title      string    `bson:"title" json:"title"`
	UnitPrice  float64   `bson:"unit_price" json:"unit_price"`
	Quantity   int       `bson:"quantity" json:"quantity"`
	AddedAt    time.Time `bson:"added_at" json:"added_at"`
}

type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"-"`
	CustomerID string     `bson:"customer_id" json:"customer_id"`
	Lines      []CartLine `bson:"lines" json:"lines"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// Add puts a product into the cart. Adding a product that is already
// present increments its quantity, so a product never occupies two lines.
func (c *Cart) Add(productRef, title string, unitPrice float64, qty int) {
	if qty <= 0 {
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductRef == productRef {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductRef: productRef,
		Title:      title,
		UnitPrice:  unitPrice,
		Quantity:   qty,
		AddedAt:    time.Now(),
	})
}

// SetQuantity replaces a line's quantity. Zero or negative removes the line.
func (c *Cart) SetQuantity(productRef string, qty int) {
	if qty <= 0 {
		c.Remove(productRef)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductRef == productRef {
			c.Lines[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Remove(productRef string) {
	for i, line := range c.Lines {
		if line.ProductRef == productRef {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot copies the cart lines into immutable order items.
func (c *Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, len(c.Lines))
	for i, line := range c.Lines {
		items[i] = OrderItem{
			ProductRef: line.ProductRef,
			Title:      line.Title,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		}
	}
	return items
}
