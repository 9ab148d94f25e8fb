// catalog talks to the Amazon Product Advertising API and shapes its search
// results into the attributes the book ledger stores. The core never calls
// this package directly; the HTTP layer does, before a reading is recorded.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"
	"github.com/pkg/errors"

	"github.com/shelfclub/booklist/errs"
)

const (
	searchItemsTarget = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
	serviceName       = "ProductAdvertisingAPI"
	defaultTimeout    = 10 * time.Second
)

// Client is a thin SearchItems client. PA-API v5 requests are plain JSON
// POSTs signed with SigV4, so the aws-sdk signer does the heavy lifting.
type Client struct {
	HTTPClient *http.Client
	Endpoint   string
	Region     string
	PartnerTag string
	creds      *credentials.Credentials
}

// NewClientFromEnv builds a client from the AWS_* and catalog env vars.
func NewClientFromEnv() *Client {
	region := os.Getenv("CATALOG_REGION")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := os.Getenv("CATALOG_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://webservices.amazon.com/paapi5/searchitems"
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Endpoint:   endpoint,
		Region:     region,
		PartnerTag: os.Getenv("AWS_ASSOCIATES_ID"),
		creds: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_KEY"), ""),
	}
}

// Result is one catalog hit, pre-flattened to the fields the client form
// needs to submit a reading.
type Result struct {
	AmazonId       string `json:"amazon_id"`
	Title          string `json:"title"`
	AuthorName     string `json:"author_name"`
	Publisher      string `json:"publisher"`
	ISBN           string `json:"ISBN"`
	HighResImage   string `json:"high_res_image"`
	LargeImage     string `json:"large_image"`
	MediumImage    string `json:"medium_image"`
	SmallImage     string `json:"small_image"`
	ThumbnailImage string `json:"thumbnail_image"`
	PubYear        string `json:"pub_year"`
	AmzUrl         string `json:"amz_url"`
}

type searchItemsRequest struct {
	Keywords    string   `json:"Keywords"`
	Author      string   `json:"Author,omitempty"`
	SearchIndex string   `json:"SearchIndex"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
}

type searchItemsResponse struct {
	SearchResult struct {
		Items []struct {
			ASIN          string `json:"ASIN"`
			DetailPageURL string `json:"DetailPageURL"`
			ItemInfo      itemInfo
			Images        itemImages
		} `json:"Items"`
	} `json:"SearchResult"`
	Errors []struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Errors"`
}

type displayValue struct {
	DisplayValue string `json:"DisplayValue"`
}

type itemInfo struct {
	Title      displayValue `json:"Title"`
	ByLineInfo struct {
		Contributors []struct {
			Name string `json:"Name"`
			Role string `json:"Role"`
		} `json:"Contributors"`
		Manufacturer displayValue `json:"Manufacturer"`
	} `json:"ByLineInfo"`
	ContentInfo struct {
		PublicationDate displayValue `json:"PublicationDate"`
	} `json:"ContentInfo"`
	ExternalIds struct {
		ISBNs struct {
			DisplayValues []string `json:"DisplayValues"`
		} `json:"ISBNs"`
	} `json:"ExternalIds"`
}

type imageSize struct {
	URL string `json:"URL"`
}

type itemImages struct {
	Primary struct {
		Small  imageSize `json:"Small"`
		Medium imageSize `json:"Medium"`
		Large  imageSize `json:"Large"`
	} `json:"Primary"`
}

// SearchBooks runs a Books-index keyword search, optionally narrowed by
// author. Every failure surfaces as UpstreamError; the core has nothing
// useful to do with the distinction.
func (c *Client) SearchBooks(ctx context.Context, title, authorName string) ([]Result, error) {
	body, err := json.Marshal(searchItemsRequest{
		Keywords:    title,
		Author:      authorName,
		SearchIndex: "Books",
		Resources: []string{
			"ItemInfo.Title",
			"ItemInfo.ByLineInfo",
			"ItemInfo.ContentInfo",
			"ItemInfo.ExternalIds",
			"Images.Primary.Small",
			"Images.Primary.Medium",
			"Images.Primary.Large",
		},
		PartnerTag:  c.PartnerTag,
		PartnerType: "Associates",
	})
	if err != nil {
		return nil, &errs.UpstreamError{Service: "catalog", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &errs.UpstreamError{Service: "catalog", Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("X-Amz-Target", searchItemsTarget)

	signer := v4.NewSigner(c.creds)
	if _, err := signer.Sign(req, bytes.NewReader(body), serviceName, c.Region, time.Now()); err != nil {
		return nil, &errs.UpstreamError{Service: "catalog", Err: errors.Wrap(err, "signing request")}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &errs.UpstreamError{Service: "catalog", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.UpstreamError{Service: "catalog", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errs.UpstreamError{
			Service: "catalog",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, raw),
		}
	}

	var parsed searchItemsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &errs.UpstreamError{Service: "catalog", Err: errors.Wrap(err, "decoding response")}
	}
	if len(parsed.Errors) > 0 {
		return nil, &errs.UpstreamError{
			Service: "catalog",
			Err:     fmt.Errorf("%s: %s", parsed.Errors[0].Code, parsed.Errors[0].Message),
		}
	}

	results := make([]Result, 0, len(parsed.SearchResult.Items))
	for _, item := range parsed.SearchResult.Items {
		r := Result{
			AmazonId:       item.ASIN,
			Title:          item.ItemInfo.Title.DisplayValue,
			Publisher:      item.ItemInfo.ByLineInfo.Manufacturer.DisplayValue,
			PubYear:        item.ItemInfo.ContentInfo.PublicationDate.DisplayValue,
			AmzUrl:         item.DetailPageURL,
			HighResImage:   item.Images.Primary.Large.URL,
			LargeImage:     item.Images.Primary.Large.URL,
			MediumImage:    item.Images.Primary.Medium.URL,
			SmallImage:     item.Images.Primary.Small.URL,
			ThumbnailImage: item.Images.Primary.Small.URL,
		}
		for _, contrib := range item.ItemInfo.ByLineInfo.Contributors {
			if contrib.Role == "Author" || r.AuthorName == "" {
				r.AuthorName = contrib.Name
			}
		}
		if isbns := item.ItemInfo.ExternalIds.ISBNs.DisplayValues; len(isbns) > 0 {
			r.ISBN = isbns[0]
		}
		results = append(results, r)
	}
	return results, nil
}
