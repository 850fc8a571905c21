package account

import "math"

// Summary partitions a user's accounts into assets and liabilities. Liability
// balances are carried as absolute values so debt shows up positive in both
// total_by_type and total_liabilities.
type Summary struct {
	AccountsByType   map[Type][]Account `json:"accounts_by_type"`
	TotalByType      map[Type]float64   `json:"total_by_type"`
	TotalAssets      float64            `json:"total_assets"`
	TotalLiabilities float64            `json:"total_liabilities"`
	NetWorth         float64            `json:"net_worth"`
}

// Summarize walks the accounts once. Types with no accounts stay absent from
// both maps.
func Summarize(accounts []Account) Summary {
	s := Summary{
		AccountsByType: make(map[Type][]Account),
		TotalByType:    make(map[Type]float64),
	}

	for _, a := range accounts {
		s.AccountsByType[a.Type] = append(s.AccountsByType[a.Type], a)

		if a.Type.IsLiability() {
			amt := math.Abs(a.Balance)
			s.TotalByType[a.Type] += amt
			s.TotalLiabilities += amt
			continue
		}

		s.TotalByType[a.Type] += a.Balance
		s.TotalAssets += a.Balance
	}

	s.NetWorth = s.TotalAssets - s.TotalLiabilities

	return s
}
