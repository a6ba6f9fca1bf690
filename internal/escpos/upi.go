package escpos

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// BuildUPIURI returns the upi://pay deep link the payment QR encodes. The
// printer renders it as a QR symbol on device; no image is fetched.
func BuildUPIURI(upiID, payeeName string, amount decimal.Decimal) string {
	if upiID == "" {
		return ""
	}
	query := url.Values{}
	query.Set("pa", upiID)
	query.Set("pn", payeeName)
	query.Set("am", amount.StringFixed(2))
	return "upi://pay?" + query.Encode()
}

// ParseUPIURI extracts the pa/pn/am fields from a upi://pay link. It is the
// inverse of BuildUPIURI and exists for verification.
func ParseUPIURI(raw string) (upiID, payeeName, amount string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", err
	}
	query := u.Query()
	return query.Get("pa"), query.Get("pn"), query.Get("am"), nil
}
