package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/shared/logger"
)

// A mid-cycle price swap must prorate the difference onto the next
// invoice; customers moving up a tier pay for what they actually use.
func TestCardClient_UpdateRecurringItemPriceProrates(t *testing.T) {
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		assert.Equal(t, "/subscription_items/si_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"si_1"}`))
	}))
	defer srv.Close()

	client := NewCardClient(srv.URL, "sk_test", logger.NewLogger())
	err := client.UpdateRecurringItemPrice(context.Background(), "si_1", "price_new")
	require.NoError(t, err)

	assert.Equal(t, []string{"price_new"}, gotForm["price"])
	assert.Equal(t, []string{"create_prorations"}, gotForm["proration_behavior"])
}
