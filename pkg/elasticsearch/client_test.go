package elasticsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResponse(t *testing.T) {
	raw := `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_id": "7", "_score": 1.5, "_source": {"title": "Solar lamp"},
				 "highlight": {"title": ["<em>Solar</em> lamp"]}},
				{"_id": "9", "_score": null, "_source": {"title": "Solar kettle"}}
			]
		}
	}`

	resp, err := decodeSearchResponse(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "7", resp.Results[0].ID)
	assert.Equal(t, 1.5, resp.Results[0].Score)
	assert.Equal(t, []string{"<em>Solar</em> lamp"}, resp.Results[0].Highlight["title"])
	assert.Zero(t, resp.Results[1].Score)
	assert.Nil(t, resp.Results[1].Highlight)
}

func TestDecodeSearchResponse_Empty(t *testing.T) {
	resp, err := decodeSearchResponse(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
	assert.Empty(t, resp.Results)

	_, err = decodeSearchResponse(strings.NewReader(`{"hits":`))
	assert.Error(t, err)
}

func TestBulkBody_SortedNDJSON(t *testing.T) {
	body, err := bulkBody("campaigns", map[string]interface{}{
		"2": map[string]string{"title": "b"},
		"1": map[string]string{"title": "a"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.JSONEq(t, `{"index":{"_index":"campaigns","_id":"1"}}`, lines[0])
	assert.JSONEq(t, `{"title":"a"}`, lines[1])
	assert.JSONEq(t, `{"index":{"_index":"campaigns","_id":"2"}}`, lines[2])
}

func TestCampaignQuery_TabFilter(t *testing.T) {
	q := CampaignQuery("lamp", "live")
	b := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Contains(t, b, "filter")

	q = CampaignQuery("lamp", "")
	b = q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotContains(t, b, "filter")
}
