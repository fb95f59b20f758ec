package series

import "AdPulse/internal/domain/models"

// rates holds the base ctr, cr and cpc of a period.
type rates struct {
	CTR, CR, CPC float64
}

var periodRates = map[models.Period]rates{
	models.PeriodToday:   {CTR: 0.035, CR: 0.025, CPC: 25},
	models.PeriodWeek:    {CTR: 0.032, CR: 0.023, CPC: 23},
	models.PeriodMonth:   {CTR: 0.030, CR: 0.022, CPC: 22},
	models.PeriodQuarter: {CTR: 0.028, CR: 0.020, CPC: 21},
	models.PeriodYear:    {CTR: 0.025, CR: 0.018, CPC: 20},
}

// Profile describes how one channel deviates from the period base rates.
type Profile struct {
	Channel models.Channel

	Multiplier rates // applied to the period base
	Variance   rates
	Trend      rates

	Volume       float64 // clicks per bucket at i=0
	YearVolume   float64 // clicks per monthly bucket
	Growth       float64 // relative click growth per bucket
	VolumeJitter [2]float64

	RevenuePerConversion [2]float64
}

// DefaultProfiles returns the two channel profiles.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Channel:              models.ChannelWildberries,
			Multiplier:           rates{CTR: 1, CR: 1, CPC: 1},
			Variance:             rates{CTR: 0.005, CR: 0.003, CPC: 3},
			Trend:                rates{CTR: 0.001, CR: 0.0005, CPC: 0.2},
			Volume:               2000,
			YearVolume:           50000,
			Growth:               0.02,
			VolumeJitter:         [2]float64{0.8, 1.2},
			RevenuePerConversion: [2]float64{1500, 2000},
		},
		{
			Channel:              models.ChannelOzon,
			Multiplier:           rates{CTR: 0.9, CR: 0.85, CPC: 1.15},
			Variance:             rates{CTR: 0.004, CR: 0.0025, CPC: 3.5},
			Trend:                rates{CTR: 0.0008, CR: 0.0004, CPC: 0.25},
			Volume:               1500,
			YearVolume:           35000,
			Growth:               0.015,
			VolumeJitter:         [2]float64{0.7, 1.2},
			RevenuePerConversion: [2]float64{1400, 1800},
		},
	}
}

func (p Profile) volume(period models.Period) float64 {
	if period == models.PeriodYear {
		return p.YearVolume
	}
	return p.Volume
}
