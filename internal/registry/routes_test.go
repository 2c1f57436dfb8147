package registry

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	id "linkgateway/pkg/domain"
)

func TestRoutes(t *testing.T) {
	v32 := RoutesFor(id.APIVersionV32)
	v31 := RoutesFor(id.APIVersionV31)

	tests := []struct {
		name   string
		req    Request
		method string
		path   string
	}{
		{"v3.2 verify", v32.VerifyGTIN("1"), http.MethodPost, "/v3.2/gtins/verified"},
		{"v3.1 verify", v31.VerifyGTIN("1"), http.MethodPost, "/v3.1/gtins/verified"},
		{"v3.2 query", v32.QueryLinks("07433200912010"), http.MethodGet, "/v3.2/links/01/07433200912010"},
		{"v3.1 query", v31.QueryLinks("07433200912010"), http.MethodGet, "/v3.1/links"},
		{"v3.2 upsert", v32.UpsertLinks([]any{}), http.MethodPost, "/v3.2/links"},
		{"v3.2 delete key", v32.DeleteLinksForKey("1"), http.MethodDelete, "/v3.2/links/01/1"},
		{"v3.1 delete key", v31.DeleteLinksForKey("1"), http.MethodDelete, "/v3.1/links/01/1"},
		{"v3.2 delete batch", v32.DeleteLinks([]any{}), http.MethodDelete, "/v3.2/links"},
		{"v3.1 delete batch", v31.DeleteLinks([]any{}), http.MethodPost, "/v3.1/links/delete"},
		{"v3.2 feedback", v32.BatchFeedback("a/b"), http.MethodGet, "/v3.2/feedback/a%2Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.method, tt.req.Method)
			assert.Equal(t, tt.path, tt.req.Path)
			assert.NotEmpty(t, tt.req.Operation)
		})
	}
}

func TestRoutesFor_UnknownVersionFallsBack(t *testing.T) {
	assert.Equal(t, id.APIVersionV32, RoutesFor("").Version())
	assert.Equal(t, id.APIVersionV32, RoutesFor("v9").Version())
	assert.Equal(t, id.APIVersionV31, RoutesFor(id.APIVersionV31).Version())
}

func TestRoutes_BodiesOnlyWhereExpected(t *testing.T) {
	v32 := RoutesFor(id.APIVersionV32)
	assert.Nil(t, v32.QueryLinks("1").Body)
	assert.Nil(t, v32.DeleteLinksForKey("1").Body)
	assert.Nil(t, v32.BatchFeedback("b").Body)
	assert.Equal(t, []string{"1"}, v32.VerifyGTIN("1").Body)
}
