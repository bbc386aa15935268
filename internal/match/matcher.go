package match

import (
	"regexp"
	"strings"

	"hudgen/internal/common/logger"
	"hudgen/internal/common/metrics"
	"hudgen/internal/reference"
)

// orderIDColumns and addressColumns are the normalized header candidates
// observed across payment-extract revisions.
var orderIDColumns = []string{"order_id", "order_number", "order"}
var addressColumns = []string{"property_address", "propertyaddress", "address", "site_address"}

var nonDigitsRe = regexp.MustCompile(`\D`)

// Matcher resolves flat-file rows for a deal.
type Matcher struct {
	threshold float64
	logger    logger.Logger
}

func NewMatcher(threshold float64, log logger.Logger) *Matcher {
	return &Matcher{
		threshold: threshold,
		logger:    log.WithFields(map[string]interface{}{"component": "match"}),
	}
}

// Insurance finds the row whose key column exactly equals the servicer key.
// There is no fuzzy fallback here: absence is a blocking condition reported
// by the eligibility checker, not something to guess around.
func (m *Matcher) Insurance(table *reference.Table, keyColumn, servicerKey string) (reference.Row, bool) {
	if table == nil || strings.TrimSpace(servicerKey) == "" {
		return nil, false
	}
	return table.FindExact(keyColumn, servicerKey)
}

// PaymentMatch is a resolved payment-reference row plus how it was found.
type PaymentMatch struct {
	Row    reference.Row
	Method string  // "order_id" or "address"
	Score  float64 // populated for address matches
}

// Payment resolves the payment-reference row for a deal: exact order-id
// prefix match first, scored address similarity second.
func (m *Matcher) Payment(table *reference.Table, dealNumber, address string) (*PaymentMatch, bool) {
	if table == nil {
		return nil, false
	}

	if row, ok := m.byOrderPrefix(table, dealNumber); ok {
		metrics.AddressMatches.WithLabelValues("order_id").Inc()
		return &PaymentMatch{Row: row, Method: "order_id"}, true
	}

	if mt, ok := m.byAddress(table, address); ok {
		metrics.AddressMatches.WithLabelValues("address").Inc()
		return mt, true
	}

	metrics.AddressMatches.WithLabelValues("none").Inc()
	return nil, false
}

// byOrderPrefix splits each row's order identifier on its first delimiter
// character and compares the left portion, digits only, to the deal
// number's digits. First match wins.
func (m *Matcher) byOrderPrefix(table *reference.Table, dealNumber string) (reference.Row, bool) {
	dealDigits := nonDigitsRe.ReplaceAllString(dealNumber, "")
	if dealDigits == "" {
		return nil, false
	}

	col := table.FirstPresentColumn(orderIDColumns)
	if col == "" {
		return nil, false
	}

	for _, row := range table.Rows {
		prefix := orderPrefix(row.Get(col))
		if prefix != "" && prefix == dealDigits {
			return row, true
		}
	}
	return nil, false
}

func orderPrefix(orderID string) string {
	left := orderID
	for i, r := range orderID {
		isDelim := !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z')
		if isDelim {
			left = orderID[:i]
			break
		}
	}
	return nonDigitsRe.ReplaceAllString(left, "")
}

// byAddress scores every candidate row against the target address by
// Jaccard similarity of normalized token sets. Candidates are pre-filtered
// on equal ZIP5 and equal leading house number when both sides carry them;
// the best score wins only at or above the acceptance threshold.
func (m *Matcher) byAddress(table *reference.Table, address string) (*PaymentMatch, bool) {
	target := NormalizeAddress(address)
	if len(target.Tokens) == 0 {
		return nil, false
	}

	col := table.FirstPresentColumn(addressColumns)
	if col == "" {
		return nil, false
	}

	var best *PaymentMatch
	for _, row := range table.Rows {
		cand := NormalizeAddress(row.Get(col))
		if len(cand.Tokens) == 0 {
			continue
		}
		if target.ZIP5 != "" && cand.ZIP5 != "" && target.ZIP5 != cand.ZIP5 {
			continue
		}
		if target.HouseNumber != "" && cand.HouseNumber != "" && target.HouseNumber != cand.HouseNumber {
			continue
		}

		score := Jaccard(target.TokenSet, cand.TokenSet)
		if best == nil || score > best.Score {
			best = &PaymentMatch{Row: row, Method: "address", Score: score}
		}
	}

	if best == nil || best.Score < m.threshold {
		if best != nil {
			m.logger.Debug("best address candidate below threshold", map[string]interface{}{
				"score":     best.Score,
				"threshold": m.threshold,
			})
		}
		return nil, false
	}
	return best, true
}
