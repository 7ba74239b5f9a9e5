package services

import (
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
)

// TradeDescriptor 能源交易，role 参数在查询时另行处理
var TradeDescriptor = &gateway.Descriptor{
	Name:       "energy_trade",
	PrimaryKey: "trade_id",
	Order:      "trade_time DESC, trade_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("tradeType", "trade_type"),
		gateway.Exact("marketType", "market_type"),
		gateway.Exact("status", "status"),
		gateway.TimeRange("startTime", "endTime", "trade_time"),
	},
	Deletion: gateway.HardDelete,
}

// MarketDataDescriptor 市场行情
var MarketDataDescriptor = &gateway.Descriptor{
	Name:       "market_data",
	PrimaryKey: "market_data_id",
	Order:      "timestamp DESC, market_data_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("marketType", "market_type"),
		gateway.Exact("region", "region"),
		gateway.TimeRange("startTime", "endTime", "timestamp"),
	},
	Deletion: gateway.HardDelete,
}

// PricingDescriptor 分时电价
var PricingDescriptor = &gateway.Descriptor{
	Name:       "time_based_pricing",
	PrimaryKey: "pricing_id",
	Order:      "pricing_id",
	Filters: []gateway.FilterSpec{
		gateway.Exact("region", "region"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// 交易视角
const (
	TradeRoleBuyer  = "buyer"
	TradeRoleSeller = "seller"
)

// TradeRequest 新建交易参数，buyerId 缺省为当前用户
type TradeRequest struct {
	BuyerID      *uint   `json:"buyerId" example:"2"`
	SellerID     *uint   `json:"sellerId" example:"3"`
	PredictionID *uint   `json:"predictionId" example:"8"`
	TradeType    string  `json:"tradeType" example:"spot"`
	Price        float64 `json:"price" example:"0.42"`
	Volume       float64 `json:"volume" example:"1200"`
	MarketType   string  `json:"marketType" example:"day_ahead"`
}

// TradeStatusRequest 交易状态变更参数
type TradeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled" example:"completed"`
}

// InterfaceTradeService 交易服务接口
type InterfaceTradeService interface {
	ListTrades(userID uint, params gateway.Params) (gateway.Page[models.EnergyTrade], error)
	CreateTrade(req *TradeRequest, userID uint) (*models.EnergyTrade, error)
	UpdateTradeStatus(tradeID uint, status string, userID uint) error
	ListMarketData(params gateway.Params) (gateway.Page[models.MarketData], error)
	ListPricing(params gateway.Params) (gateway.Page[models.TimeBasedPricing], error)
}

// TradeService 交易服务
type TradeService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTradeService 创建交易服务
func NewTradeService(db *gorm.DB, cfg *config.Config) InterfaceTradeService {
	return &TradeService{DB: db, Config: cfg}
}

// 1 ListTrades 交易列表，role=buyer/seller 时只看自己作为买方或卖方的交易
func (s *TradeService) ListTrades(userID uint, params gateway.Params) (gateway.Page[models.EnergyTrade], error) {
	query := TradeDescriptor.Query(s.DB.Model(&models.EnergyTrade{}), params)
	if params != nil {
		switch params.Get("role") {
		case TradeRoleBuyer:
			query = query.Where("buyer_id = ?", userID)
		case TradeRoleSeller:
			query = query.Where("seller_id = ?", userID)
		}
	}
	return gateway.Paginate[models.EnergyTrade](query, gateway.ParsePage(params), TradeDescriptor.Order)
}

// 2 CreateTrade 新建交易
func (s *TradeService) CreateTrade(req *TradeRequest, userID uint) (*models.EnergyTrade, error) {
	trade := &models.EnergyTrade{
		BuyerID:      userID,
		SellerID:     req.SellerID,
		PredictionID: req.PredictionID,
		TradeType:    req.TradeType,
		Price:        req.Price,
		Volume:       req.Volume,
		MarketType:   req.MarketType,
		Status:       fsm.TradePending,
	}
	if req.BuyerID != nil {
		trade.BuyerID = *req.BuyerID
	}
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(trade).Error
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// 3 UpdateTradeStatus 买卖双方可完成或取消待处理的交易
func (s *TradeService) UpdateTradeStatus(tradeID uint, status string, userID uint) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var trade models.EnergyTrade
		if err := tx.Where("trade_id = ?", tradeID).Take(&trade).Error; err != nil {
			return notFound(err, "交易不存在")
		}
		if trade.BuyerID != userID && (trade.SellerID == nil || *trade.SellerID != userID) {
			return code.New(code.ErrForbidden, "")
		}
		if err := fsm.Trade.Move(trade.Status, status); err != nil {
			return code.New(code.ErrInvalidTransition, "")
		}
		return tx.Model(&models.EnergyTrade{}).Where("trade_id = ?", tradeID).Update("status", status).Error
	})
}

// 4 ListMarketData 市场行情
func (s *TradeService) ListMarketData(params gateway.Params) (gateway.Page[models.MarketData], error) {
	return gateway.List[models.MarketData](s.DB, MarketDataDescriptor, params)
}

// 5 ListPricing 分时电价策略
func (s *TradeService) ListPricing(params gateway.Params) (gateway.Page[models.TimeBasedPricing], error) {
	return gateway.List[models.TimeBasedPricing](s.DB, PricingDescriptor, params)
}
