package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/example/shop-fulfiller/internal/domain"
)

const maxBodyBytes = 1 << 20

// Имена полей в порядке приоритета.
var (
	queryInvoiceKeys = []string{"invoiceNo", "invoiceNumber"}
	bodyInvoiceKeys  = []string{"invoiceNumber", "invoiceNo"}
)

const shopKey = "shop"

// requestFields — частично заполненная запись; каждый источник дополняет только пустые поля.
type requestFields struct {
	Invoice string
	Shop    string
}

func (f *requestFields) fill(get func(key string) string, invoiceKeys []string) {
	if f.Invoice == "" {
		for _, k := range invoiceKeys {
			if v := strings.TrimSpace(get(k)); v != "" {
				f.Invoice = v
				break
			}
		}
	}
	if f.Shop == "" {
		f.Shop = strings.TrimSpace(get(shopKey))
	}
}

// parseFulfillRequest — query string важнее тела. Ошибка разбора тела
// логируется и не прерывает запрос.
func parseFulfillRequest(r *http.Request, log *slog.Logger) requestFields {
	var f requestFields
	f.fill(r.URL.Query().Get, queryInvoiceKeys)

	get, err := readBody(r)
	if err != nil {
		log.Warn("request body ignored", "stage", "normalize", "content_type", r.Header.Get("Content-Type"), "err", err)
		return f
	}
	if get != nil {
		f.fill(get, bodyInvoiceKeys)
	}
	return f
}

// readBody — JSON при объявленном JSON-типе, иначе form-urlencoded; пустое тело даёт nil.
func readBody(r *http.Request) (func(string) string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	if isJSON(r.Header.Get("Content-Type")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return func(key string) string { return scalarString(obj[key]) }, nil
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode form body: %w", err)
	}
	return values.Get, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// resolve — проверка полноты: сначала номер счёта, затем магазин.
// Магазин из сессии важнее подсказки в запросе.
func (f requestFields) resolve(p domain.Principal) (domain.InvoiceQuery, string, error) {
	invoice, ok := domain.NormalizeInvoice(f.Invoice)
	if !ok {
		return "", "", domain.ErrMissingInvoice
	}
	shop := p.Shop
	if p.Kind != domain.PrincipalSession {
		shop = domain.NormalizeShop(f.Shop)
	}
	if shop == "" {
		return invoice, "", domain.ErrMissingTenant
	}
	return invoice, shop, nil
}
