package storage

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// PickupQRGenerator renders the code a diner shows at pickup. The payload is
// a link to the order's tracking page.
type PickupQRGenerator struct {
	BaseURL string
}

func (g PickupQRGenerator) Generate(orderID int64) ([]byte, error) {
	data := fmt.Sprintf("%s/api/orders/%d", g.BaseURL, orderID)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
