package links

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "linkgateway/pkg/domain"
	"linkgateway/pkg/platform/sentinel"
)

func TestNormalizeLinks(t *testing.T) {
	t.Run("anchor groups flatten and keep their anchor", func(t *testing.T) {
		raw := json.RawMessage(`[
			{"anchorRelative":"/01/07433200912010","links":[
				{"linkType":"gs1:pip","targetUrl":"https://example.com/a","ianaLanguage":"es"},
				{"linkType":"gs1:recipeInfo","targetUrl":"https://example.com/b"}
			]},
			{"anchorRelative":"/01/07433200912010/10/LOT1","links":[
				{"linkType":"gs1:pip","targetUrl":"https://example.com/c"}
			]}
		]`)

		got, err := NormalizeLinks(raw)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "/01/07433200912010", got[0].AnchorRelative)
		assert.Equal(t, "/01/07433200912010", got[1].AnchorRelative)
		assert.Equal(t, "/01/07433200912010/10/LOT1", got[2].AnchorRelative)
		assert.Equal(t, "gs1:recipeInfo", got[1].LinkType)
		assert.Equal(t, "https://example.com/c", got[2].TargetURL)

		out, err := json.Marshal(got[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"anchorRelative":"/01/07433200912010",
			"linkType":"gs1:pip",
			"targetUrl":"https://example.com/a",
			"ianaLanguage":"es"
		}`, string(out))
	})

	t.Run("flattened length is the sum of group sizes", func(t *testing.T) {
		raw := json.RawMessage(`[
			{"anchorRelative":"/a","links":[{},{},{}]},
			{"anchorRelative":"/b","links":[]},
			{"anchorRelative":"/c","links":[{}]}
		]`)

		got, err := NormalizeLinks(raw)
		require.NoError(t, err)
		assert.Len(t, got, 4)
		for i, anchor := range []string{"/a", "/a", "/a", "/c"} {
			assert.Equal(t, anchor, got[i].AnchorRelative, "record %d", i)
		}
	})

	t.Run("response envelope concatenates in order", func(t *testing.T) {
		raw := json.RawMessage(`{"data":[
			{"responses":[{"targetUrl":"https://example.com/1"},{"targetUrl":"https://example.com/2"}]},
			{"responses":[]},
			{"responses":[{"targetUrl":"https://example.com/3","anchorRelative":"/x"}]}
		]}`)

		got, err := NormalizeLinks(raw)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "https://example.com/1", got[0].TargetURL)
		assert.Equal(t, "https://example.com/2", got[1].TargetURL)
		assert.Equal(t, "https://example.com/3", got[2].TargetURL)
		assert.Equal(t, "/x", got[2].AnchorRelative)
	})

	t.Run("empty collections are not nil", func(t *testing.T) {
		for _, raw := range []string{`[]`, `{"data":[]}`} {
			got, err := NormalizeLinks(json.RawMessage(raw))
			require.NoError(t, err, raw)
			assert.NotNil(t, got, raw)
			assert.Empty(t, got, raw)
		}
	})

	t.Run("unknown shapes fail", func(t *testing.T) {
		for _, raw := range []string{
			`{}`,
			`{"links":[]}`,
			`{"data":"nope"}`,
			`"batch-1"`,
			`42`,
			`[{"links":"nope"}]`,
			`[{"links":["not an object"]}]`,
			`[{"gtin":"0743","status":"pending"}]`,
			`[{"anchorRelative":"/a","links":[]},{"anchorRelative":"/b"}]`,
			`{"data":[{"items":[{"x":1}]}]}`,
			`{"data":[{"responses":[]},{"responses":null}]}`,
			`{"data":["nope"]}`,
			`[1,2]`,
			``,
		} {
			_, err := NormalizeLinks(json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrUnknownShape, raw)
			assert.ErrorIs(t, err, sentinel.ErrUnexpectedShape, raw)
		}
	})

	t.Run("group anchor wins over a link's own", func(t *testing.T) {
		raw := json.RawMessage(`[{"anchorRelative":"/group","links":[{"anchorRelative":"/own"}]}]`)

		got, err := NormalizeLinks(raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "/group", got[0].AnchorRelative)
	})
}

func TestNormalizeDescription(t *testing.T) {
	gtin := id.GTIN("07433200912010")

	tests := []struct {
		name      string
		raw       string
		preferred string
		want      Description
	}{
		{
			name:      "preferred language wins",
			raw:       `[{"productDescription":[{"language":"en","value":"Widget"},{"language":"es","value":"Aparato"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Description: "Aparato", Valid: true},
		},
		{
			name:      "language prefix is case-insensitive",
			raw:       `[{"productDescription":[{"language":"en","value":"Widget"},{"language":"ES-mx","value":"Aparato"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Description: "Aparato", Valid: true},
		},
		{
			name:      "falls back to first entry",
			raw:       `[{"productDescription":[{"language":"en","value":"Widget"},{"language":"fr","value":"Appareil"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Description: "Widget", Valid: true},
		},
		{
			name:      "preferred entry with empty value is skipped",
			raw:       `[{"productDescription":[{"language":"en","value":"Widget"},{"language":"es","value":""}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Description: "Widget", Valid: true},
		},
		{
			name:      "no descriptions",
			raw:       `[{"gtin":"07433200912010"}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Valid: true},
		},
		{
			name:      "no records",
			raw:       `[]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Valid: true},
		},
		{
			name:      "only the first record counts",
			raw:       `[{"productDescription":[]},{"productDescription":[{"language":"es","value":"Otro"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Valid: true},
		},
		{
			name:      "bare object is accepted",
			raw:       `{"productDescription":[{"language":"es","value":"Aparato"}]}`,
			preferred: "es",
			want:      Description{GTIN: gtin, Description: "Aparato", Valid: true},
		},
		{
			name:      "non-record json yields empty description",
			raw:       `"unexpected"`,
			preferred: "es",
			want:      Description{GTIN: gtin, Valid: true},
		},
		{
			name: "nested gtin validation error",
			raw: `[{"validationErrors":[
				{"property":"brandName","errors":[{"errorCode":"B1","message":"brand"}]},
				{"property":"gtin","errors":[{"errorCode":"E001","message":"GTIN not found"}]}
			],"productDescription":[{"language":"es","value":"Aparato"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Valid: false, ErrorCode: "E001", ErrorMessage: "GTIN not found"},
		},
		{
			name:      "flat gtin validation error",
			raw:       `[{"validationErrors":[{"property":"GTIN","errorCode":"E002","message":"Invalid check digit"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Valid: false, ErrorCode: "E002", ErrorMessage: "Invalid check digit"},
		},
		{
			name:      "validation errors on other properties are ignored",
			raw:       `[{"validationErrors":[{"property":"brandName","errorCode":"B1","message":"brand"}],"productDescription":[{"language":"es","value":"Aparato"}]}]`,
			preferred: "es",
			want:      Description{GTIN: gtin, Description: "Aparato", Valid: true},
		},
		{
			name:      "other preferred language",
			raw:       `[{"productDescription":[{"language":"es","value":"Aparato"},{"language":"en-US","value":"Widget"}]}]`,
			preferred: "en",
			want:      Description{GTIN: gtin, Description: "Widget", Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDescription(gtin, json.RawMessage(tt.raw), tt.preferred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("mistyped record fails", func(t *testing.T) {
		_, err := NormalizeDescription(gtin, json.RawMessage(`[{"productDescription":"Aparato"}]`), "es")
		assert.Error(t, err)
	})
}

func TestNormalizeBatchID(t *testing.T) {
	tests := map[string]id.BatchID{
		`"b-123"`:                      "b-123",
		`{"batchId":"b-456"}`:          "b-456",
		`{"batchId":789}`:              "789",
		`{"status":"accepted"}`:        "",
		`{"batchId":null}`:             "",
		`[]`:                           "",
		``:                             "",
		`{"batchId":"  padded  "}`:     "padded",
		`{"batchId":"b-1","data":[1]}`: "b-1",
	}

	for raw, want := range tests {
		assert.Equal(t, want, NormalizeBatchID(json.RawMessage(raw)), raw)
	}
}
