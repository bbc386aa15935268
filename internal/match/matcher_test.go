package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hudgen/internal/common/logger"
	"hudgen/internal/reference"
)

func paymentTable() *reference.Table {
	return &reference.Table{
		Columns: []string{"order_id", "property_address", "inst_1_payment_status"},
		Rows: []reference.Row{
			{"order_id": "58439-001", "property_address": "123 MAIN ST ANYTOWN CA 90210", "inst_1_payment_status": "PAID"},
			{"order_id": "60110-001", "property_address": "456 N OAK AVE SPRINGFIELD IL 62704", "inst_1_payment_status": "DUE"},
			{"order_id": "61555-002", "property_address": "789 ELM DR PORTLAND OR 97205", "inst_1_payment_status": "PAID"},
		},
	}
}

func newTestMatcher() *Matcher {
	return NewMatcher(0.45, logger.NewNop())
}

func TestPaymentOrderPrefix(t *testing.T) {
	m := newTestMatcher()

	got, ok := m.Payment(paymentTable(), "58439", "")
	require.True(t, ok)
	assert.Equal(t, "order_id", got.Method)
	assert.Equal(t, "PAID", got.Row.Get("inst_1_payment_status"))

	// Non-digit noise in the deal number is stripped first.
	got, ok = m.Payment(paymentTable(), " #60110 ", "")
	require.True(t, ok)
	assert.Equal(t, "DUE", got.Row.Get("inst_1_payment_status"))
}

func TestPaymentAddressFallback(t *testing.T) {
	m := newTestMatcher()

	// Deal number matches no order prefix; the address differs from the row
	// only by directional and suffix spelling plus a ZIP+4 suffix.
	got, ok := m.Payment(paymentTable(), "99999", "456 North Oak Avenue Springfield Illinois 62704-1234")
	require.True(t, ok)
	assert.Equal(t, "address", got.Method)
	assert.GreaterOrEqual(t, got.Score, 0.45)
	assert.Equal(t, "DUE", got.Row.Get("inst_1_payment_status"))
}

func TestPaymentNoMatch(t *testing.T) {
	m := newTestMatcher()

	_, ok := m.Payment(paymentTable(), "99999", "1 Unrelated Rd Nowhere TX 75001")
	assert.False(t, ok)

	_, ok = m.Payment(paymentTable(), "", "")
	assert.False(t, ok)

	_, ok = m.Payment(nil, "58439", "")
	assert.False(t, ok)
}

func TestPaymentZipPrefilter(t *testing.T) {
	m := newTestMatcher()

	// Same street tokens but a different ZIP5 is filtered out before scoring.
	table := &reference.Table{
		Columns: []string{"order_id", "property_address"},
		Rows: []reference.Row{
			{"order_id": "1-1", "property_address": "123 MAIN ST ANYTOWN CA 11111"},
		},
	}
	_, ok := m.Payment(table, "99999", "123 Main St Anytown CA 90210")
	assert.False(t, ok)
}

func TestPaymentHouseNumberPrefilter(t *testing.T) {
	m := newTestMatcher()

	table := &reference.Table{
		Columns: []string{"order_id", "property_address"},
		Rows: []reference.Row{
			{"order_id": "1-1", "property_address": "999 MAIN ST ANYTOWN CA 90210"},
		},
	}
	_, ok := m.Payment(table, "99999", "123 Main St Anytown CA 90210")
	assert.False(t, ok)
}

func TestOrderPrefix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"58439-001", "58439"},
		{"58439/2", "58439"},
		{"58439", "58439"},
		{"A58439-1", "58439"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orderPrefix(tt.in), "orderPrefix(%q)", tt.in)
	}
}

func TestInsuranceExactOnly(t *testing.T) {
	m := newTestMatcher()
	table := &reference.Table{
		Columns: []string{"account", "primary_status"},
		Rows: []reference.Row{
			{"account": "9001234", "primary_status": "Outside Policy In-Force"},
		},
	}

	row, ok := m.Insurance(table, "account", "9001234")
	require.True(t, ok)
	assert.Equal(t, "Outside Policy In-Force", row.Get("primary_status"))

	_, ok = m.Insurance(table, "account", "9999999")
	assert.False(t, ok)

	_, ok = m.Insurance(table, "account", "")
	assert.False(t, ok)

	_, ok = m.Insurance(nil, "account", "9001234")
	assert.False(t, ok)
}
