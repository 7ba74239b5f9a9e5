package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
)

func TestTrade_StatusChangeRequiresParticipant(t *testing.T) {
	db := newTestDB(t)
	svc := NewTradeService(db, newTestConfig(t))

	trade, err := svc.CreateTrade(&TradeRequest{SellerID: ptr(uint(3)), TradeType: "spot", Price: 0.42, Volume: 1200}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, trade.BuyerID)
	assert.Equal(t, fsm.TradePending, trade.Status)

	err = svc.UpdateTradeStatus(trade.TradeID, fsm.TradeCompleted, 9)
	assert.Equal(t, "无权限操作", requireCode(t, err, code.StatusForbidden).PublicMessage())

	err = svc.UpdateTradeStatus(trade.TradeID, "settled", 2)
	assert.Equal(t, "状态无效", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	require.NoError(t, svc.UpdateTradeStatus(trade.TradeID, fsm.TradeCompleted, 3))

	var stored models.EnergyTrade
	require.NoError(t, db.Where("trade_id = ?", trade.TradeID).Take(&stored).Error)
	assert.Equal(t, fsm.TradeCompleted, stored.Status)

	// 终态不能再变更
	err = svc.UpdateTradeStatus(trade.TradeID, fsm.TradeCancelled, 2)
	requireCode(t, err, code.StatusBadRequest)

	requireCode(t, svc.UpdateTradeStatus(999, fsm.TradeCompleted, 2), code.StatusNotFound)
}

func TestTrade_ListByRole(t *testing.T) {
	svc := NewTradeService(newTestDB(t), newTestConfig(t))

	_, err := svc.CreateTrade(&TradeRequest{SellerID: ptr(uint(3)), TradeType: "spot"}, 2)
	require.NoError(t, err)
	_, err = svc.CreateTrade(&TradeRequest{SellerID: ptr(uint(2)), TradeType: "spot"}, 4)
	require.NoError(t, err)

	all, err := svc.ListTrades(2, query())
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	bought, err := svc.ListTrades(2, query("role", TradeRoleBuyer))
	require.NoError(t, err)
	assert.EqualValues(t, 1, bought.Total)

	sold, err := svc.ListTrades(2, query("role", TradeRoleSeller))
	require.NoError(t, err)
	require.EqualValues(t, 1, sold.Total)
	assert.EqualValues(t, 4, sold.Items[0].BuyerID)
}
