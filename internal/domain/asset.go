package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetBeat     AssetType = "beat"
	AssetBeatPack AssetType = "beat_pack"
)

func (t AssetType) Valid() bool {
	return t == AssetBeat || t == AssetBeatPack
}

type Beat struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Producer   string          `json:"producer"`
	BPM        int             `json:"bpm"`
	Price      decimal.Decimal `json:"price"`
	AudioKey   string          `json:"-"`
	PreviewKey string          `json:"previewKey"`
	CoverKey   string          `json:"coverKey"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type BeatPack struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	ArchiveKey string          `json:"-"`
	CoverKey   string          `json:"coverKey"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseRefunded  PurchaseStatus = "refunded"
)

const (
	PurchaseSourcePromo    = "promo"
	PurchaseSourceCheckout = "checkout"
)

type Purchase struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	AssetID   int64           `json:"assetId"`
	AssetType AssetType       `json:"assetType"`
	Amount    decimal.Decimal `json:"amount"`
	Status    PurchaseStatus  `json:"status"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
}

type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
