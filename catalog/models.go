package catalog

import (
	"github.com/ahinestrog/mystorefront/cart"
	"github.com/ahinestrog/mystorefront/money"
)

type Product struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Price         int64   `yaml:"price"`
	OriginalPrice int64   `yaml:"original_price"`
	Image         string  `yaml:"image"`
	Seller        string  `yaml:"seller"`
	Category      string  `yaml:"category"`
	Rating        float64 `yaml:"rating"`
	Sold          int     `yaml:"sold"`
	Location      string  `yaml:"location"`
	Stock         int     `yaml:"stock"`
}

type Category struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Count int64  `yaml:"-"`
}

// AllCategories is the pseudo category that disables the category filter.
const AllCategories = "all"

func (p *Product) Discount() int { return money.DiscountPercent(p.Price, p.OriginalPrice) }

// ---- mapping catalogo -> carrito ----

func (p *Product) CartProduct() cart.Product {
	return cart.Product{
		ID:            p.ID,
		Name:          p.Name,
		Seller:        p.Seller,
		Image:         p.Image,
		Category:      p.Category,
		Location:      p.Location,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Rating:        p.Rating,
		Sold:          p.Sold,
	}
}
