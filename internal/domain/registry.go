package domain

import "fmt"

// BasicTokenSender records a cross-chain token sender registered on the
// factory. One record per (chainId, sender) pair.
type BasicTokenSender struct {
	ID              string `json:"id"` // chainId-sender
	ChainID         int64  `json:"chainId"`
	Sender          string `json:"basicTokenSender"`
	BlockNumber     int64  `json:"blockNumber"`
	TransactionHash string `json:"transactionHash"`
}

// TokenSenderID builds the composite identity chainId-sender.
func TokenSenderID(chainID int64, sender string) string {
	return fmt.Sprintf("%d-%s", chainID, sender)
}

// Equal reports whether two sender records carry identical content.
func (s *BasicTokenSender) Equal(o *BasicTokenSender) bool {
	if s == nil || o == nil {
		return s == o
	}
	return *s == *o
}

// PriceDataStream records a price data stream registered for a token.
// Identity is txHash-logIndex, matching what the upstream handler wrote.
type PriceDataStream struct {
	ID              string `json:"id"` // txHash-logIndex
	Token           string `json:"token"`
	DataStream      string `json:"dataStream"`
	BlockNumber     int64  `json:"blockNumber"`
	TransactionHash string `json:"transactionHash"`
}

// Equal reports whether two stream records carry identical content.
func (s *PriceDataStream) Equal(o *PriceDataStream) bool {
	if s == nil || o == nil {
		return s == o
	}
	return *s == *o
}
