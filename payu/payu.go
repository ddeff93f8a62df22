// Package payu builds PayU hosted-checkout requests and verifies their callbacks.
package payu

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/google/uuid"
)

const DefaultPaymentURL = "https://secure.payu.in/_payment"

const (
	defaultFirstName = "Customer"
	defaultEmail     = "customer@example.com"
	defaultPhone     = "9999999999"
)

var (
	ErrInvalidHash    = errors.New("payu: invalid response hash")
	ErrAmountMismatch = errors.New("payu: callback amount does not match order")
	ErrNotConfigured  = errors.New("payu: merchant key or salt not configured")
)

type Gateway struct {
	Key         string
	Salt        string
	PaymentURL  string
	BackendURL  string
	FrontendURL string
}

func (g *Gateway) Enabled() bool {
	return g != nil && g.Key != "" && g.Salt != ""
}

// NewTxnID returns a transaction id that is unique across processes.
func NewTxnID() string {
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// FormatAmount renders an amount the way it is hashed and posted to PayU.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Params are the fields posted to the PayU payment page.
type Params struct {
	Key         string `json:"key"`
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	UDF1        string `json:"udf1,omitempty"`
	UDF2        string `json:"udf2,omitempty"`
	UDF3        string `json:"udf3,omitempty"`
	UDF4        string `json:"udf4,omitempty"`
	UDF5        string `json:"udf5,omitempty"`
	SURL        string `json:"surl"`
	FURL        string `json:"furl"`
	Hash        string `json:"hash"`
}

type PaymentRequest struct {
	URL    string `json:"payuUrl"`
	Params Params `json:"params"`
}

// RequestHash signs p with salt:
// sha512(key|txnid|amount|productinfo|firstname|email|udf1|udf2|udf3|udf4|udf5||||||SALT).
func RequestHash(p Params, salt string) string {
	fields := []string{
		p.Key, p.TxnID, p.Amount, p.ProductInfo, p.FirstName, p.Email,
		p.UDF1, p.UDF2, p.UDF3, p.UDF4, p.UDF5,
		"", "", "", "", "",
		salt,
	}
	return sha512Hex(strings.Join(fields, "|"))
}

// BuildRequest prepares the redirect parameters for order. The order must
// already carry its transaction id.
func (g *Gateway) BuildRequest(order *models.Order) (*PaymentRequest, error) {
	if !g.Enabled() {
		return nil, ErrNotConfigured
	}
	firstName := order.Address.FullName()
	if firstName == "" {
		firstName = defaultFirstName
	}
	email := order.Address.Email
	if email == "" {
		email = defaultEmail
	}
	phone := order.Address.Phone
	if phone == "" {
		phone = defaultPhone
	}

	callback := g.CallbackURL()
	p := Params{
		Key:         g.Key,
		TxnID:       order.TxnID,
		Amount:      FormatAmount(order.Amount),
		ProductInfo: order.ItemSummary(),
		FirstName:   firstName,
		Email:       email,
		Phone:       phone,
		SURL:        callback,
		FURL:        callback,
	}
	p.Hash = RequestHash(p, g.Salt)

	paymentURL := g.PaymentURL
	if paymentURL == "" {
		paymentURL = DefaultPaymentURL
	}
	return &PaymentRequest{URL: paymentURL, Params: p}, nil
}

func (g *Gateway) CallbackURL() string {
	return strings.TrimSuffix(g.BackendURL, "/") + "/api/order/verifyPayU"
}

func (g *Gateway) SuccessURL(txnID string) string {
	return g.verifyURL(true, txnID)
}

func (g *Gateway) FailureURL(txnID string) string {
	return g.verifyURL(false, txnID)
}

func (g *Gateway) verifyURL(success bool, txnID string) string {
	q := url.Values{}
	q.Set("success", strconv.FormatBool(success))
	q.Set("orderId", txnID)
	return strings.TrimSuffix(g.FrontendURL, "/") + "/verify?" + q.Encode()
}

// Callback is the form PayU posts to surl/furl.
type Callback struct {
	Key               string `form:"key"`
	TxnID             string `form:"txnid"`
	Amount            string `form:"amount"`
	ProductInfo       string `form:"productinfo"`
	FirstName         string `form:"firstname"`
	Email             string `form:"email"`
	UDF1              string `form:"udf1"`
	UDF2              string `form:"udf2"`
	UDF3              string `form:"udf3"`
	UDF4              string `form:"udf4"`
	UDF5              string `form:"udf5"`
	Status            string `form:"status"`
	MihPayID          string `form:"mihpayid"`
	AdditionalCharges string `form:"additionalCharges"`
	Hash              string `form:"hash"`
}

func (cb *Callback) Succeeded() bool {
	return cb.Status == "success"
}

// ResponseHash computes the reverse hash PayU attaches to a callback:
// sha512([additionalCharges|]SALT|status||||||udf5|udf4|udf3|udf2|udf1|email|firstname|productinfo|amount|txnid|key).
func ResponseHash(cb Callback, salt string) string {
	fields := make([]string, 0, 18)
	if cb.AdditionalCharges != "" {
		fields = append(fields, cb.AdditionalCharges)
	}
	fields = append(fields,
		salt, cb.Status,
		"", "", "", "", "",
		cb.UDF5, cb.UDF4, cb.UDF3, cb.UDF2, cb.UDF1,
		cb.Email, cb.FirstName, cb.ProductInfo, cb.Amount, cb.TxnID, cb.Key,
	)
	return sha512Hex(strings.Join(fields, "|"))
}

// Verify checks the callback signature and that it belongs to this merchant.
func (g *Gateway) Verify(cb Callback) error {
	if !g.Enabled() {
		return ErrNotConfigured
	}
	if cb.Hash == "" || cb.TxnID == "" || cb.Key != g.Key {
		return ErrInvalidHash
	}
	want := ResponseHash(cb, g.Salt)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(cb.Hash))) != 1 {
		return ErrInvalidHash
	}
	return nil
}

// CheckAmount compares the callback amount with the stored order amount to the paisa.
func CheckAmount(cb Callback, amount float64) error {
	got, err := strconv.ParseFloat(strings.TrimSpace(cb.Amount), 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrAmountMismatch, cb.Amount)
	}
	if FormatAmount(got) != FormatAmount(amount) {
		return fmt.Errorf("%w: got %s want %s", ErrAmountMismatch, FormatAmount(got), FormatAmount(amount))
	}
	return nil
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
