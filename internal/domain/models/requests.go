package models

// Requests for dashboard HTTP endpoints.

type DashboardRequest struct {
	Period  string `query:"period" json:"period" default:"week" validate:"period"`
	Session string `query:"session" json:"session" validate:"omitempty,uuid"`
}

type ChartRequest struct {
	Slot    string `param:"slot" validate:"required"`
	Session string `query:"session" json:"session" validate:"required,uuid"`
	Width   int    `query:"width" default:"960" validate:"gte=200,lte=4000"`
	Height  int    `query:"height" default:"480" validate:"gte=150,lte=3000"`
}

type ForecastRequest struct {
	Session   string `query:"session" json:"session" validate:"omitempty,uuid"`
	DaysAhead int    `query:"days_ahead" json:"days_ahead" default:"14" validate:"gte=1,lte=90"`
}

type TrainRequest struct {
	Async bool `query:"async" json:"async"`
}

type RecommendationsRequest struct {
	DaysAhead int `query:"days_ahead" json:"days_ahead" default:"7" validate:"gte=1,lte=90"`
}
