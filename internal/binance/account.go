package binance

import (
	"context"

	"github.com/shopspring/decimal"
)

const accountPath = "/api/v3/account"

type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

type AccountInfo struct {
	MakerCommission  int64     `json:"makerCommission"`
	TakerCommission  int64     `json:"takerCommission"`
	BuyerCommission  int64     `json:"buyerCommission"`
	SellerCommission int64     `json:"sellerCommission"`
	CanTrade         bool      `json:"canTrade"`
	CanWithdraw      bool      `json:"canWithdraw"`
	CanDeposit       bool      `json:"canDeposit"`
	UpdateTime       int64     `json:"updateTime"`
	Balances         []Balance `json:"balances"`
}

// Account fetches account information and balances.
func (c *Client) Account(ctx context.Context) (*AccountInfo, error) {
	status, body, err := c.do(ctx, MethodGet, accountPath, nil, secSigned)
	if err != nil {
		return nil, err
	}

	var info AccountInfo
	if err := decodeInto(status, body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
