package domain

import "github.com/shopspring/decimal"

// SeedCatalog returns the initial plan catalog, inserted once at startup
// when the plans collection is empty. The catalog is append-only afterwards.
func SeedCatalog() []Plan {
	return []Plan{
		seedPlan("Starter", "49.00", "2.89", "7.00", "26.00", "Entry level wind power"),
		seedPlan("Advanced", "99.00", "5.78", "14.00", "52.00", "Enhanced solar array"),
		seedPlan("Pro", "149.00", "9.44", "23.00", "85.00", "Hydroelectric dam access"),
		seedPlan("Elite", "199.00", "13.33", "33.00", "120.00", "Geothermal plant share"),
		seedPlan("Black", "249.00", "17.78", "44.00", "160.00", "Nuclear fusion prototype"),
	}
}

func seedPlan(name, price, powerKw, dailyMin, dailyMax, description string) Plan {
	return Plan{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		PowerKw:     decimal.RequireFromString(powerKw),
		DailyMin:    decimal.RequireFromString(dailyMin),
		DailyMax:    decimal.RequireFromString(dailyMax),
		Description: description,
	}
}
