package lotledger

import "github.com/etnz/lotledger/date"

// on is a helper for test to create dates from const.
func on(s string) date.Date { return date.MustParse(s) }

// INR is a helper for test to create rupees from const.
func INR(v float64) Money { return M(v, "INR") }

// buy is a helper for test to create a buy transaction in INR.
func buy(asset, day string, price, quantity float64) Transaction {
	return NewTransaction(asset, on(day), price, quantity, "INR")
}

// sell is a helper for test to create a sell transaction in INR, quantity is positive.
func sell(asset, day string, price, quantity float64) Transaction {
	return NewTransaction(asset, on(day), price, -quantity, "INR")
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
