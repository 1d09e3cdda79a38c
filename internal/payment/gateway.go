package payment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// PayHere's published protocol signs checkout and notification payloads
// with an uppercased md5 over concatenated fields. The scheme is
// reproduced exactly as the gateway dictates it, including the plain
// (non-constant-time) string comparison on verify.

type Gateway struct {
	MerchantID     string
	MerchantSecret string
	Currency       string
}

func NewGateway(merchantID, merchantSecret, currency string) *Gateway {
	return &Gateway{
		MerchantID:     merchantID,
		MerchantSecret: merchantSecret,
		Currency:       currency,
	}
}

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// CheckoutHash signs the fields sent to the redirect checkout:
// UPPER(md5(merchant_id + order_id + amount + currency + UPPER(md5(secret)))).
func (g *Gateway) CheckoutHash(orderID string, amount float64) string {
	return md5Upper(g.MerchantID + orderID + fmt.Sprintf("%.2f", amount) + g.Currency + md5Upper(g.MerchantSecret))
}

// VerifyNotification recomputes md5sig over the webhook payload. The
// amount and currency are taken verbatim from the callback, not
// re-formatted, so the digest matches what the gateway signed.
func (g *Gateway) VerifyNotification(merchantID, orderID, payhereAmount, payhereCurrency, statusCode, md5sig string) bool {
	local := md5Upper(merchantID + orderID + payhereAmount + payhereCurrency + statusCode + md5Upper(g.MerchantSecret))
	return local == md5sig
}
