package elasticsearch

// CampaignsIndex is the index campaign documents are written to
const CampaignsIndex = "campaigns"

// CampaignDocument is the searchable projection of a campaign.
// Description holds the concatenated text blocks only; image blocks are not indexed.
type CampaignDocument struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tab         string `json:"tab"`
	CreatedAt   string `json:"created_at"`
}

// CampaignsMapping returns the index mapping for CampaignsIndex
func CampaignsMapping() map[string]interface{} {
	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":          map[string]interface{}{"type": "long"},
				"title":       map[string]interface{}{"type": "text"},
				"description": map[string]interface{}{"type": "text"},
				"tab":         map[string]interface{}{"type": "keyword"},
				"created_at":  map[string]interface{}{"type": "date"},
			},
		},
	}
}

// CampaignQuery builds a multi_match query over title (boosted) and description.
// A non-empty tab restricts hits to that tab.
func CampaignQuery(text, tab string) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"title^3", "description"},
			},
		},
	}

	boolQuery := map[string]interface{}{"must": must}
	if tab != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"tab": tab}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title":       map[string]interface{}{},
				"description": map[string]interface{}{},
			},
		},
	}
}
