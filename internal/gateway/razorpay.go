package gateway

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Client mints orders at the payment gateway. Kept minimal so the
// payment workflow can be exercised against a fake in tests.
type Client interface {
	CreateOrder(amount int, currency, receipt string, notes map[string]interface{}) (string, error)
}

type razorpayClient struct {
	api *razorpay.Client
}

func NewRazorpayClient(keyID, keySecret string) Client {
	return &razorpayClient{api: razorpay.NewClient(keyID, keySecret)}
}

func (r *razorpayClient) CreateOrder(amount int, currency, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	order, err := r.api.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("order response missing id")
	}
	return orderID, nil
}
