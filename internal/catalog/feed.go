package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FeedPage is one decoded page of the external catalog feed.
type FeedPage struct {
	TotalCount int
	Products   []domain.Product
}

// FeedClient retrieves one page of the externally paginated catalog.
// Pages are 1-based.
type FeedClient interface {
	FetchPage(ctx context.Context, page, pageSize int) (*FeedPage, error)
}

// HTTPFeedClient talks to the catalog source over HTTP. The source takes a
// page number and page size and answers raw product records plus the total
// record count.
type HTTPFeedClient struct {
	feedURL string
	timeout time.Duration
}

func NewHTTPFeedClient(feedURL string, timeout time.Duration) *HTTPFeedClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFeedClient{feedURL: feedURL, timeout: timeout}
}

type feedResponse struct {
	TotalCount int                      `json:"total_count"`
	Products   []map[string]interface{} `json:"products"`
}

func (c *HTTPFeedClient) FetchPage(ctx context.Context, page, pageSize int) (*FeedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		body []byte
		code int
	)
	err := gout.GET(c.feedURL).
		WithContext(ctx).
		SetQuery(gout.H{"page": page, "page_size": pageSize}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "fetch catalog page %d", page)
	}
	if code != http.StatusOK {
		return nil, errors.Errorf("catalog feed answered status %d on page %d", code, page)
	}

	var resp feedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(err, "decode catalog page %d", page)
	}

	out := &FeedPage{TotalCount: resp.TotalCount}
	for _, rec := range resp.Products {
		p, ok := parseRecord(rec)
		if !ok {
			continue
		}
		out.Products = append(out.Products, p)
	}
	return out, nil
}

// rawRecord is the loosely typed feed record shape. Numeric fields arrive
// as decimal strings and are coerced at ingestion.
type rawRecord struct {
	Sku               string                 `mapstructure:"sku"`
	Name              string                 `mapstructure:"name"`
	Category          string                 `mapstructure:"category"`
	UrlsFoto          string                 `mapstructure:"urls_foto"`
	WebListPrice      interface{}            `mapstructure:"web_list_price"`
	UnitOfMeasurement string                 `mapstructure:"unit_of_measurement"`
	Coefficient       interface{}            `mapstructure:"coefficient"`
	BranchStock       map[string]interface{} `mapstructure:"branch_stock"`
}

// parseRecord coerces one raw feed record into a typed product. Records
// without a sku are dropped; an unreadable price or coefficient becomes 0.
func parseRecord(rec map[string]interface{}) (domain.Product, bool) {
	var raw rawRecord
	if err := mapstructure.Decode(rec, &raw); err != nil {
		return domain.Product{}, false
	}
	if strings.TrimSpace(raw.Sku) == "" {
		return domain.Product{}, false
	}

	p := domain.Product{
		Sku:       strings.TrimSpace(raw.Sku),
		Name:      raw.Name,
		Category:  raw.Category,
		UnitPrice: cast.ToFloat64(raw.WebListPrice),
		PhotoUrls: splitPhotoUrls(raw.UrlsFoto),
	}
	if strings.EqualFold(raw.UnitOfMeasurement, string(domain.UnitArea)) {
		p.Unit = domain.UnitArea
		p.Coefficient = cast.ToFloat64(raw.Coefficient)
	} else {
		p.Unit = domain.UnitCount
	}
	if len(raw.BranchStock) > 0 {
		p.BranchStock = make(map[string]int, len(raw.BranchStock))
		for branch, v := range raw.BranchStock {
			p.BranchStock[branch] = cast.ToInt(v)
		}
	}
	return p, true
}

func splitPhotoUrls(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var urls []string
	for _, u := range strings.Split(csv, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
