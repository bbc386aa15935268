package resolver

import (
	"context"
	"fmt"
	"regexp"

	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/common/logger"
	"hudgen/internal/common/metrics"
	"hudgen/internal/recordstore"
)

var nonDigitsRe = regexp.MustCompile(`\D`)

// Store is the slice of the record store client the resolver needs.
type Store interface {
	QueryTolerant(ctx context.Context, q recordstore.Query) ([]recordstore.Record, error)
	Fields(ctx context.Context, entity string) (map[string]struct{}, error)
	FirstPresentField(ctx context.Context, entity string, candidates []string) string
}

type Resolver struct {
	store  Store
	logger logger.Logger
}

func New(store Store, log logger.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

// Resolve locates the canonical deal for a free-text identifier and fetches
// its related records. Missing related records leave a partial bundle; a
// missing deal is a NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*Bundle, error) {
	key := nonDigitsRe.ReplaceAllString(identifier, "")
	if key == "" {
		metrics.DealLookups.WithLabelValues("not_found").Inc()
		return nil, &apperrors.NotFoundError{Identifier: identifier}
	}

	deal, err := r.findDeal(ctx, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			metrics.DealLookups.WithLabelValues("not_found").Inc()
		} else {
			metrics.DealLookups.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	bundle := &Bundle{DealNumber: key, Deal: deal}
	bundle.Property = r.findRelated(ctx, EntityProperty, propertyFields, deal.String("Id"))
	bundle.Advance = r.findRelated(ctx, EntityAdvance, advanceFields, deal.String("Id"))
	bundle.Loan = r.findRelated(ctx, EntityLoan, loanFields, deal.String("Id"))

	metrics.DealLookups.WithLabelValues("found").Inc()
	return bundle, nil
}

// findDeal tries each candidate identifier field in order with an equality
// match, then sweeps them again with a contains match. First match wins.
// An unreachable schema catalog is a store error, not a missing deal.
func (r *Resolver) findDeal(ctx context.Context, key string) (recordstore.Record, error) {
	catalog, err := r.store.Fields(ctx, EntityDeal)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreQueryFailed, "deal schema catalog unavailable", err)
	}

	for _, op := range []string{"=", "LIKE"} {
		for _, field := range dealIdentifierFields {
			if _, ok := catalog[field]; !ok {
				continue
			}
			records, err := r.store.QueryTolerant(ctx, recordstore.Query{
				Entity: EntityDeal,
				Fields: dealFields,
				Where:  []recordstore.Condition{{Field: field, Op: op, Value: key}},
				Limit:  1,
			})
			if err != nil {
				return nil, fmt.Errorf("deal lookup by %s: %w", field, err)
			}
			if len(records) > 0 {
				r.logger.Info("deal resolved", map[string]interface{}{
					"dealNumber": key,
					"field":      field,
					"op":         op,
				})
				return records[0], nil
			}
		}
	}
	return nil, &apperrors.NotFoundError{Identifier: key}
}

// findRelated fetches the most recent related record via whichever
// relationship field the entity's schema actually has. No relationship
// field, or any query failure, degrades to a nil record: a partial bundle
// beats no bundle.
func (r *Resolver) findRelated(ctx context.Context, entity string, fields []string, dealID string) recordstore.Record {
	if dealID == "" {
		return nil
	}

	relField := r.store.FirstPresentField(ctx, entity, relationshipFields)
	if relField == "" {
		r.logger.Debug("entity has no relationship field, skipping", map[string]interface{}{
			"entity": entity,
		})
		return nil
	}

	records, err := r.store.QueryTolerant(ctx, recordstore.Query{
		Entity:  entity,
		Fields:  fields,
		Where:   []recordstore.Condition{{Field: relField, Op: "=", Value: dealID}},
		OrderBy: "CreatedDate DESC",
		Limit:   1,
	})
	if err != nil {
		r.logger.Warn("related record fetch failed", map[string]interface{}{
			"entity": entity,
			"error":  err.Error(),
		})
		return nil
	}
	if len(records) == 0 {
		return nil
	}
	return records[0]
}
