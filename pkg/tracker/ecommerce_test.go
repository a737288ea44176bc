package tracker_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/tracker"
)

func TestEcommerce_ItemsAndLedgerReset(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "SKU1", Name: "Shoe", Categories: []string{"Shoes"}, Price: 49.9, Quantity: 2}))
	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "SKU2", Name: "Sock", Categories: []string{"Socks", "Kids"}, Price: 3}))
	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "SKU3", Name: "Lace", Price: 1.1, Quantity: 4}))

	q := query(t, tr.EcommerceCartUpdateURL(57.9))
	assert.Equal(t, "0", q.Get("idgoal"))
	assert.Equal(t, "57.9", q.Get("revenue"))
	assert.Equal(t,
		`[["SKU1","Shoe","Shoes","49.9",2],["SKU2","Sock",["Socks","Kids"],"3",1],["SKU3","Lace","","1.1",4]]`,
		q.Get("ec_items"))

	q = query(t, tr.EcommerceCartUpdateURL(0))
	assert.False(t, q.Has("ec_items"), "ledger is empty after composition")
	assert.Equal(t, "0", q.Get("revenue"))
}

func TestEcommerce_SKULastWriteWins(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "A", Name: "First", Price: 1}))
	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "B", Name: "Other", Price: 2}))
	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "A", Name: "Second", Price: 5.5, Quantity: 3}))

	items := query(t, tr.EcommerceCartUpdateURL(18.5)).Get("ec_items")
	assert.Equal(t, `[["A","Second","","5.5",3],["B","Other","","2",1]]`, items)
	assert.Equal(t, 1, strings.Count(items, `"A"`))
}

func TestEcommerce_AddItemRequiresSKU(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	assert.ErrorIs(t, tr.AddEcommerceItem(tracker.EcommerceItem{Name: "No SKU"}), tracker.ErrInvalidArgument)
	assert.False(t, query(t, tr.EcommerceCartUpdateURL(1)).Has("ec_items"))
}

func TestEcommerce_Order(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "SKU1", Name: "Shoe", Price: 49.9}))

	raw, err := tr.EcommerceOrderURL(tracker.Order{
		ID:         "order-1",
		GrandTotal: 60.4,
		SubTotal:   tracker.Float(49.9),
		Tax:        tracker.Float(9.98),
		Shipping:   tracker.Float(0.52),
	})
	require.NoError(t, err)

	assert.Contains(t, raw, "&idgoal=0&revenue=60.4&ec_st=49.9&ec_tx=9.98&ec_sh=0.52&ec_items=")
	assert.True(t, strings.HasSuffix(raw, "&ec_id=order-1"))
	assert.NotContains(t, raw, "ec_dt")
	assert.False(t, query(t, raw).Has("_ects"))

	next := query(t, tr.PageViewURL(""))
	assert.Equal(t, strconv.FormatInt(fixedNow.Unix(), 10), next.Get("_ects"))
	assert.False(t, query(t, tr.EcommerceCartUpdateURL(0)).Has("ec_items"))
}

func TestEcommerce_OrderUsesForcedDatetime(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	forced := fixedNow.AddDate(0, 0, -2)
	tr.SetForceVisitDateTime(forced)
	_, err := tr.EcommerceOrderURL(tracker.Order{ID: "o", GrandTotal: 1})
	require.NoError(t, err)

	assert.Equal(t, strconv.FormatInt(forced.Unix(), 10), query(t, tr.PageViewURL("")).Get("_ects"))
}

func TestEcommerce_OrderValidation(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "SKU1", Price: 1}))
	_, err := tr.EcommerceOrderURL(tracker.Order{GrandTotal: 1})
	assert.ErrorIs(t, err, tracker.ErrInvalidArgument)

	// failed validation leaves the ledger untouched
	assert.True(t, query(t, tr.EcommerceCartUpdateURL(1)).Has("ec_items"))
}

func TestEcommerce_ProductView(t *testing.T) {
	t.Parallel()
	tr := newTracker(t)

	tr.SetEcommerceView("SKU1", "Shoe", []string{"Shoes", "Sale"}, 49.9)
	q := query(t, tr.PageViewURL("Shoe"))

	assert.JSONEq(t,
		`{"2":["_pkp","49.9"],"3":["_pks","SKU1"],"4":["_pkn","Shoe"],"5":["_pkc","[\"Shoes\",\"Sale\"]"]}`,
		q.Get("cvar"))
	assert.False(t, query(t, tr.PageViewURL("")).Has("cvar"))
}
