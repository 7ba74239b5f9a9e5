package models

import (
	"time"

	"gorm.io/datatypes"
)

// EnergyTrade 能源交易记录
type EnergyTrade struct {
	TradeID      uint      `gorm:"primaryKey;column:trade_id" json:"tradeId"`
	BuyerID      uint      `gorm:"index" json:"buyerId"`
	SellerID     *uint     `gorm:"index" json:"sellerId"`
	PredictionID *uint     `json:"predictionId"`
	TradeTime    time.Time `gorm:"autoCreateTime;index" json:"tradeTime"`
	TradeType    string    `gorm:"type:varchar(50)" json:"tradeType"`
	Price        float64   `json:"price"`
	Volume       float64   `json:"volume"`
	MarketType   string    `gorm:"type:varchar(50)" json:"marketType"`
	Status       string    `gorm:"type:varchar(20)" json:"status"`
}

func (EnergyTrade) TableName() string { return "energy_trades" }

// MarketData 市场行情
type MarketData struct {
	MarketDataID uint      `gorm:"primaryKey;column:market_data_id" json:"marketDataId"`
	MarketType   string    `gorm:"type:varchar(50)" json:"marketType"`
	Price        float64   `json:"price"`
	SupplyDemand float64   `json:"supplyDemand"`
	Region       string    `gorm:"type:varchar(50)" json:"region"`
	Timestamp    time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (MarketData) TableName() string { return "market_data" }

// TimeBasedPricing 分时电价策略
type TimeBasedPricing struct {
	PricingID     uint           `gorm:"primaryKey;column:pricing_id" json:"pricingId"`
	CreatedBy     uint           `json:"createdBy"`
	StrategyName  string         `gorm:"type:varchar(100)" json:"strategyName"`
	TimePeriods   datatypes.JSON `json:"timePeriods"`
	Region        string         `gorm:"type:varchar(50)" json:"region"`
	Status        string         `gorm:"type:varchar(20)" json:"status"`
	EffectiveFrom time.Time      `json:"effectiveFrom"`
	EffectiveTo   *time.Time     `json:"effectiveTo"`
}

func (TimeBasedPricing) TableName() string { return "time_based_pricing" }
