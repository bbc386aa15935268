package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hudgen/internal/common/config"
	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/common/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.RecordStoreConfig{
		InstanceURL:    srv.URL,
		APIVersion:     "v59.0",
		AccessToken:    "test-token",
		RequestTimeout: 5000,
		QueryLimit:     200,
	}, logger.NewNop())
}

func TestSOQL(t *testing.T) {
	q := Query{
		Entity: "Opportunity",
		Fields: []string{"Deal_Number__c", "Amount"},
		Where:  []Condition{{Field: "Deal_Number__c", Op: "=", Value: "58439"}},
		Limit:  1,
	}
	assert.Equal(t,
		"SELECT Id, Deal_Number__c, Amount FROM Opportunity WHERE Deal_Number__c = '58439' LIMIT 1",
		q.SOQL(200))

	contains := Query{
		Entity:  "Opportunity",
		Fields:  []string{"Amount"},
		Where:   []Condition{{Field: "Deal_Number__c", Op: "LIKE", Value: "58439"}},
		OrderBy: "CreatedDate DESC",
	}
	assert.Equal(t,
		"SELECT Id, Amount FROM Opportunity WHERE Deal_Number__c LIKE '%58439%' ORDER BY CreatedDate DESC LIMIT 200",
		contains.SOQL(200))
}

func TestSOQLEscapesValues(t *testing.T) {
	q := Query{
		Entity: "Opportunity",
		Where:  []Condition{{Field: "Name", Op: "=", Value: "O'Brien"}},
	}
	assert.Contains(t, q.SOQL(10), `Name = 'O\'Brien'`)
}

func TestQuery(t *testing.T) {
	var gotAuth, gotQ string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQ = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"totalSize": 1,
			"done":      true,
			"records": []map[string]interface{}{{
				"attributes":     map[string]string{"type": "Opportunity"},
				"Id":             "006xx0001",
				"Deal_Number__c": "58439",
				"Amount":         500000.0,
			}},
		})
	}))

	records, err := client.Query(context.Background(), Query{
		Entity: "Opportunity",
		Fields: []string{"Deal_Number__c", "Amount"},
		Where:  []Condition{{Field: "Deal_Number__c", Op: "=", Value: "58439"}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotQ, "FROM Opportunity")
	assert.Equal(t, "58439", records[0].String("Deal_Number__c"))
	assert.Equal(t, "500000", records[0].String("Amount"))
	assert.False(t, records[0].Has("attributes"))
}

func TestQueryTolerantDropsRejectedField(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/data/v59.0/sobjects/Opportunity/describe" {
			// Catalog claims all fields exist; the store still rejects one.
			json.NewEncoder(w).Encode(map[string]interface{}{
				"name": "Opportunity",
				"fields": []map[string]string{
					{"name": "Id"}, {"name": "Amount"}, {"name": "Legacy_Field__c"}, {"name": "Deal_Number__c"},
				},
			})
			return
		}
		attempts++
		q := r.URL.Query().Get("q")
		if attempts == 1 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `[{"message":"No such column 'Legacy_Field__c' on entity 'Opportunity'","errorCode":"INVALID_FIELD"}]`)
			return
		}
		assert.NotContains(t, q, "Legacy_Field__c")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"totalSize": 1, "done": true,
			"records": []map[string]interface{}{{"Id": "006xx0001", "Amount": 100.0}},
		})
	}))

	records, err := client.QueryTolerant(context.Background(), Query{
		Entity: "Opportunity",
		Fields: []string{"Amount", "Legacy_Field__c"},
		Where:  []Condition{{Field: "Deal_Number__c", Op: "=", Value: "58439"}},
	})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, attempts)
}

func TestQueryTolerantFiltersAgainstCatalog(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/data/v59.0/sobjects/Opportunity/describe" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"name":   "Opportunity",
				"fields": []map[string]string{{"name": "Id"}, {"name": "Amount"}},
			})
			return
		}
		assert.NotContains(t, r.URL.Query().Get("q"), "Not_Real__c")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"totalSize": 0, "done": true, "records": []map[string]interface{}{},
		})
	}))

	_, err := client.QueryTolerant(context.Background(), Query{
		Entity: "Opportunity",
		Fields: []string{"Amount", "Not_Real__c"},
	})
	assert.NoError(t, err)
}

func TestQueryTolerantSurfacesUnrecoverableError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/data/v59.0/sobjects/Opportunity/describe" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"name":   "Opportunity",
				"fields": []map[string]string{{"name": "Id"}, {"name": "Deal_Number__c"}},
			})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `[{"message":"No such column 'Deal_Number__c' on entity 'Opportunity'","errorCode":"INVALID_FIELD"}]`)
	}))

	_, err := client.QueryTolerant(context.Background(), Query{
		Entity: "Opportunity",
		Fields: []string{"Deal_Number__c"},
		Where:  []Condition{{Field: "Deal_Number__c", Op: "=", Value: "58439"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaMismatch(err))

	var sm *apperrors.SchemaMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Contains(t, sm.LastQuery, "FROM Opportunity")
	assert.Contains(t, sm.Cause.Error(), "INVALID_FIELD")
}

func TestFieldsMemoized(t *testing.T) {
	describes := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		describes++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":   "Property__c",
			"fields": []map[string]string{{"name": "Id"}, {"name": "Address__c"}},
		})
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		set, err := client.Fields(ctx, "Property__c")
		require.NoError(t, err)
		assert.Contains(t, set, "Address__c")
	}
	assert.Equal(t, 1, describes)

	assert.True(t, client.HasField(ctx, "Property__c", "Address__c"))
	assert.False(t, client.HasField(ctx, "Property__c", "Missing__c"))
	assert.Equal(t, "Address__c",
		client.FirstPresentField(ctx, "Property__c", []string{"Nope__c", "Address__c"}))
}
