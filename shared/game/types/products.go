package types

type ProductSKU string

const (
	SKUGlimmerPouch   ProductSKU = "glimmer_pouch"
	SKUGlimmerSatchel ProductSKU = "glimmer_satchel"
	SKUGlimmerChest   ProductSKU = "glimmer_chest"
	SKUCreatorCoffee  ProductSKU = "creator_coffee"
)

type ProductMeta struct {
	SKU           ProductSKU
	Name          string
	Desc          string
	PriceUSDCents int64
	Glimmer       int64 // glimmer credited on purchase (0 for pure donations)
	Donation      bool
}

var productRegistry = []ProductMeta{
	{SKUGlimmerPouch, "Pouch of Glimmer", "A modest handful.", 199, 500, false},
	{SKUGlimmerSatchel, "Satchel of Glimmer", "Enough to turn heads at the nest.", 499, 1500, false},
	{SKUGlimmerChest, "Chest of Glimmer", "Jalmar-approved extravagance.", 999, 3500, false},
	{SKUCreatorCoffee, "Creator Coffee", "Buy the devs a coffee. Comes with a small thank-you.", 299, 0, true},
}

func ListProducts() []ProductMeta {
	out := make([]ProductMeta, len(productRegistry))
	copy(out, productRegistry)
	return out
}

func GetProductMeta(sku ProductSKU) *ProductMeta {
	for _, p := range productRegistry {
		if p.SKU == sku {
			return &p
		}
	}
	return nil
}
