package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EcommerceItem is a product line of a cart update or order.
// Quantity 0 is sent as 1.
type EcommerceItem struct {
	SKU        string
	Name       string
	Categories []string
	Price      float64
	Quantity   uint64
}

type ledgerEntry struct {
	sku        string
	name       string
	categories []string
	price      string
	quantity   uint64
}

// MarshalJSON emits [sku, name, category, price, quantity].
func (e ledgerEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.sku, e.name, categoryValue(e.categories), e.price, e.quantity})
}

// categoryValue is "" for none, the category itself for one, the list otherwise.
func categoryValue(categories []string) any {
	switch len(categories) {
	case 0:
		return ""
	case 1:
		return categories[0]
	}
	return categories
}

// ledger keeps pending items keyed by SKU. Re-adding a SKU replaces the entry
// in place so the first insertion position is kept.
type ledger struct {
	entries []ledgerEntry
	index   map[string]int
}

func (l *ledger) add(item EcommerceItem) {
	qty := item.Quantity
	if qty == 0 {
		qty = 1
	}
	entry := ledgerEntry{
		sku:        item.SKU,
		name:       item.Name,
		categories: append([]string(nil), item.Categories...),
		price:      FormatMonetary(item.Price),
		quantity:   qty,
	}

	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[item.SKU]; ok {
		l.entries[i] = entry
		return
	}
	l.index[item.SKU] = len(l.entries)
	l.entries = append(l.entries, entry)
}

func (l *ledger) len() int {
	return len(l.entries)
}

func (l *ledger) reset() {
	l.entries = nil
	l.index = nil
}

func (l *ledger) encode() string {
	s, err := encodeJSON(l.entries)
	if err != nil {
		panic(err)
	}
	return s
}

// AddEcommerceItem adds item to the pending cart. The price is formatted now.
func (t *Tracker) AddEcommerceItem(item EcommerceItem) error {
	if item.SKU == "" {
		return fmt.Errorf("%w: e-commerce item requires a SKU", ErrInvalidArgument)
	}
	t.items.add(item)
	return nil
}

// SetEcommerceView records a product or category page view on the next
// request, through page-scope variables _pks, _pkn, _pkc and _pkp.
func (t *Tracker) SetEcommerceView(sku, name string, categories []string, price float64) {
	if sku != "" {
		t.pageVars[slotKey(3)] = CustomVariable{Name: "_pks", Value: sku}
	}
	if name != "" {
		t.pageVars[slotKey(4)] = CustomVariable{Name: "_pkn", Value: name}
	}
	if cat := categoryString(categories); cat != "" {
		t.pageVars[slotKey(5)] = CustomVariable{Name: "_pkc", Value: cat}
	}
	if price != 0 {
		t.pageVars[slotKey(2)] = CustomVariable{Name: "_pkp", Value: FormatMonetary(price)}
	}
}

func categoryString(categories []string) string {
	switch len(categories) {
	case 0:
		return ""
	case 1:
		return categories[0]
	}
	s, err := encodeJSON(categories)
	if err != nil {
		return strings.Join(categories, ",")
	}
	return s
}

// ecommerceSuffix renders the revenue block and the pending items.
func (t *Tracker) ecommerceSuffix(grandTotal float64, subTotal, tax, shipping, discount *float64) string {
	var b strings.Builder
	b.WriteString("&idgoal=0&revenue=")
	b.WriteString(FormatMonetary(grandTotal))

	optional := []struct {
		key string
		v   *float64
	}{
		{"ec_st", subTotal},
		{"ec_tx", tax},
		{"ec_sh", shipping},
		{"ec_dt", discount},
	}
	for _, o := range optional {
		if o.v != nil {
			b.WriteString("&" + o.key + "=" + FormatMonetary(*o.v))
		}
	}

	if t.items.len() > 0 {
		b.WriteString("&ec_items=")
		b.WriteString(PercentEncode(t.items.encode()))
	}
	return b.String()
}
