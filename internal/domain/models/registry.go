package models

// All 返回需要迁移的全部模型，顺序即建表顺序
func All() []interface{} {
	return []interface{}{
		&User{}, &Role{}, &UserRole{}, &RoleMenu{}, &Dept{}, &Menu{},
		&Device{}, &DeviceMaintenance{},
		&Alarm{}, &AlarmRule{},
		&WorkOrder{}, &WorkOrderImage{},
		&Drone{}, &DroneTask{}, &DroneInspectionData{}, &ControlCommand{},
		&EnergyTrade{}, &MarketData{}, &TimeBasedPricing{},
		&BusinessRule{}, &BusinessStrategy{}, &DecisionLog{},
		&Notification{}, &NotificationSubscription{},
		&RealtimeData{}, &WeatherData{}, &PredictionTask{}, &PredictionResult{},
		&ModelVersion{}, &ModelTraining{}, &ModelDeployment{},
		&Dataset{}, &DataPreprocessing{}, &FeatureEngineering{},
	}
}
