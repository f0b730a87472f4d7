package handlers

import "net/http"

// ModelInfo 모델 카탈로그 항목
type ModelInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	InputFeatures []string `json:"inputFeatures"`
	OutputType    string   `json:"outputType"`
}

// Catalog 정적 모델 목록
// ⭐ SSOT: 모델 카탈로그는 여기서만 정의 (CLI models 명령도 사용)
var Catalog = []ModelInfo{
	{
		ID:            "lstm",
		Name:          "LSTM Neural Network",
		Description:   "Long Short-Term Memory networks for time series prediction",
		Category:      "deep_learning",
		InputFeatures: []string{"price", "volume", "technical_indicators"},
		OutputType:    "continuous",
	},
	{
		ID:            "arima",
		Name:          "ARIMA",
		Description:   "Autoregressive Integrated Moving Average for time series forecasting",
		Category:      "statistical",
		InputFeatures: []string{"price"},
		OutputType:    "continuous",
	},
	{
		ID:            "random_forest",
		Name:          "Random Forest",
		Description:   "Ensemble learning method for classification and regression",
		Category:      "machine_learning",
		InputFeatures: []string{"price", "volume", "technical_indicators", "fundamentals"},
		OutputType:    "continuous",
	},
	{
		ID:            "garch",
		Name:          "GARCH",
		Description:   "Generalized Autoregressive Conditional Heteroskedasticity for volatility modeling",
		Category:      "statistical",
		InputFeatures: []string{"returns"},
		OutputType:    "volatility",
	},
}

// ListModels returns the static model catalog
// GET /api/models
func ListModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Catalog)
}
