package services

import (
	"github.com/shopspring/decimal"
	"github.com/tunik/tunik-api/utils"
)

// LineItem is a canonical detail line. UnitPrice is nil when the client sent
// no usable price and the catalog price applies.
type LineItem struct {
	CatalogID uint
	Quantity  int
	UnitPrice *decimal.Decimal
}

// FieldSet lists the accepted spellings of each item field, most preferred first
type FieldSet struct {
	ID       []string
	Quantity []string
	Price    []string
}

var (
	quantityKeys = []string{"cantidad", "qty", "cant", "quantity"}
	priceKeys    = []string{
		"preciochange", "precio", "precioFinal", "precioChange",
		"precio_unitario", "precioUnitario", "unit_price", "unitPrice", "price",
	}
)

// ProductFields resolves order items
var ProductFields = FieldSet{
	ID:       []string{"idproductos", "idproducto", "idProducto", "producto_id", "productId", "product_id"},
	Quantity: quantityKeys,
	Price:    priceKeys,
}

// ServiceFields resolves quote and appointment items
var ServiceFields = FieldSet{
	ID:       []string{"idservicios", "idservicio", "servicio_id", "idServicio", "serviceId", "service_id"},
	Quantity: quantityKeys,
	Price:    priceKeys,
}

// ItemsKeys are the body keys that may carry an items list
var ItemsKeys = []string{"items", "detalles", "servicios"}

// NormalizeItems folds raw item descriptors into a deduplicated list. Items
// without a usable positive id are dropped. When two items share an id the
// later one replaces the earlier, keeping the earlier one's position.
func NormalizeItems(raw []interface{}, fields FieldSet) []LineItem {
	items := make([]LineItem, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		idValue, _ := firstNonNil(obj, fields.ID)
		id, ok := utils.ToPositiveID(idValue)
		if !ok {
			continue
		}

		qty, _ := firstNonNil(obj, fields.Quantity)
		price, _ := firstNonNil(obj, fields.Price)
		items = append(items, LineItem{
			CatalogID: id,
			Quantity:  utils.ToQuantity(qty),
			UnitPrice: utils.ToMoney(price),
		})
	}
	return dedupe(items)
}

// MergeItems combines base lines with override lines. Lines from override
// replace base lines with the same id; all other lines from both are kept.
func MergeItems(base, override []LineItem) []LineItem {
	all := make([]LineItem, 0, len(base)+len(override))
	all = append(all, base...)
	all = append(all, override...)
	return dedupe(all)
}

func dedupe(items []LineItem) []LineItem {
	index := make(map[uint]int, len(items))
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if i, seen := index[it.CatalogID]; seen {
			out[i] = it
			continue
		}
		index[it.CatalogID] = len(out)
		out = append(out, it)
	}
	return out
}

// firstNonNil mirrors a chain of fallbacks: null values fall through to the
// next spelling.
func firstNonNil(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// priceOr returns the item's override price, or fallback when none was sent
func (it LineItem) priceOr(fallback decimal.Decimal) decimal.Decimal {
	if it.UnitPrice != nil {
		return *it.UnitPrice
	}
	return fallback
}
