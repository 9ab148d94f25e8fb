package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/stretchr/testify/require"

	"github.com/shelfclub/booklist/errs"
)

func newTestClient(endpoint string) *Client {
	return &Client{
		HTTPClient: http.DefaultClient,
		Endpoint:   endpoint,
		Region:     "us-east-1",
		PartnerTag: "booklist-20",
		creds:      credentials.NewStaticCredentials("test-key", "test-secret", ""),
	}
}

const searchItemsFixture = `{
	"SearchResult": {
		"Items": [
			{
				"ASIN": "B001",
				"DetailPageURL": "https://www.amazon.com/dp/B001",
				"ItemInfo": {
					"Title": {"DisplayValue": "The Dispossessed"},
					"ByLineInfo": {
						"Contributors": [
							{"Name": "Ursula K. Le Guin", "Role": "Author"}
						],
						"Manufacturer": {"DisplayValue": "Harper & Row"}
					},
					"ContentInfo": {
						"PublicationDate": {"DisplayValue": "1974-05-01"}
					},
					"ExternalIds": {
						"ISBNs": {"DisplayValues": ["9780060125639"]}
					}
				},
				"Images": {
					"Primary": {
						"Small": {"URL": "https://img/small.jpg"},
						"Medium": {"URL": "https://img/medium.jpg"},
						"Large": {"URL": "https://img/large.jpg"}
					}
				}
			}
		]
	}
}`

func TestSearchBooks(t *testing.T) {
	var gotTarget, gotAuth string
	var gotBody map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.Header.Get("X-Amz-Target")
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(searchItemsFixture))
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	results, err := client.SearchBooks(context.Background(), "dispossessed", "le guin")
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	require.Equal(t, "B001", got.AmazonId)
	require.Equal(t, "The Dispossessed", got.Title)
	require.Equal(t, "Ursula K. Le Guin", got.AuthorName)
	require.Equal(t, "Harper & Row", got.Publisher)
	require.Equal(t, "9780060125639", got.ISBN)
	require.Equal(t, "https://img/medium.jpg", got.MediumImage)
	require.Equal(t, "1974-05-01", got.PubYear)

	// The request is a signed SearchItems call carrying our query.
	require.Equal(t, searchItemsTarget, gotTarget)
	require.Contains(t, gotAuth, "AWS4-HMAC-SHA256")
	require.Equal(t, "dispossessed", gotBody["Keywords"])
	require.Equal(t, "le guin", gotBody["Author"])
	require.Equal(t, "Books", gotBody["SearchIndex"])
}

func TestSearchBooksUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	_, err := client.SearchBooks(context.Background(), "anything", "")
	require.Error(t, err)
	require.True(t, errs.IsUpstream(err))
}

func TestSearchBooksAPIError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Errors": [{"Code": "InvalidPartnerTag", "Message": "tag is not valid"}]}`))
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	_, err := client.SearchBooks(context.Background(), "anything", "")
	require.Error(t, err)
	require.True(t, errs.IsUpstream(err))
	require.Contains(t, err.Error(), "InvalidPartnerTag")
}
