package mapping

import "edinet-facts/pkg/taxonomy"

// defaultConcepts is the built-in EDINET concept data. The element IDs,
// display names and priorities are domain data taken from the reference
// taxonomies; the extraction engine never inspects them beyond the
// ordered-filter contract.
func defaultConcepts() map[taxonomy.Category]map[string]Concept {
	instant := []string{"CurrentYearInstant", "Prior1YearInstant"}
	duration := []string{"CurrentYearDuration", "Prior1YearDuration"}
	consolidatedFirst := []string{"ConsolidatedMember", "NonConsolidatedMember"}
	nonConsolidated := []string{"NonConsolidatedMember"}

	return map[taxonomy.Category]map[string]Concept{
		taxonomy.InvestmentTrust: {
			"call_loans": {
				TagIDs:          []string{"jppfs_cor:CallLoansCAFND"},
				DisplayName:     "コール・ローン",
				ContextPriority: instant,
				ScopePriority:   nonConsolidated,
			},
			"investment_securities": {
				TagIDs: []string{
					"jppfs_cor:SecurityInvestmentTrustBeneficiarySecuritiesCAFND",
					"jppfs_cor:SecurityInvestmentTrustBeneficiarySecuritiesCA",
				},
				DisplayName:     "投資信託受益証券",
				ContextPriority: instant,
				ScopePriority:   nonConsolidated,
			},
			"total_assets": {
				TagIDs:          []string{"jppfs_cor:Assets", "jppfs_cor:TotalAssets"},
				DisplayName:     "資産合計",
				ContextPriority: instant,
				ScopePriority:   nonConsolidated,
			},
			"net_assets": {
				TagIDs:          []string{"jppfs_cor:NetAssets", "jppfs_cor:Equity"},
				DisplayName:     "純資産",
				ContextPriority: instant,
				ScopePriority:   nonConsolidated,
			},
			"profit_loss_securities": {
				TagIDs:          []string{"jppfs_cor:ProfitAndLossOnBuyingAndSellingOfSecuritiesAndOtherOIFND"},
				DisplayName:     "有価証券売買損益",
				ContextPriority: duration,
				ScopePriority:   nonConsolidated,
			},
		},
		taxonomy.GeneralCompany: {
			"net_sales": {
				TagIDs: []string{
					"jpcrp_cor:NetSales",
					"jpfr-t-qci:NetSales",
					"jpcrp_cor:RevenueIFRS",
				},
				DisplayName:     "売上高",
				ContextPriority: duration,
				ScopePriority:   consolidatedFirst,
			},
			"operating_income": {
				TagIDs: []string{
					"jpcrp_cor:OperatingIncome",
					"jpfr-t-qci:OperatingIncome",
					"jpcrp_cor:OperatingProfitIFRS",
				},
				DisplayName:     "営業利益",
				ContextPriority: duration,
				ScopePriority:   consolidatedFirst,
			},
			"ordinary_income": {
				TagIDs: []string{
					"jpcrp_cor:OrdinaryIncome",
					"jpfr-t-qci:OrdinaryIncome",
				},
				DisplayName:     "経常利益",
				ContextPriority: duration,
				ScopePriority:   consolidatedFirst,
			},
			"net_income": {
				TagIDs: []string{
					"jpcrp_cor:ProfitLoss",
					"jpfr-t-qci:ProfitLoss",
					"jpcrp_cor:ProfitLossAttributableToOwnersOfParent",
					"jpcrp_cor:NetIncome",
				},
				DisplayName:     "当期純利益",
				ContextPriority: duration,
				ScopePriority:   consolidatedFirst,
			},
			"total_assets": {
				TagIDs: []string{
					"jpcrp_cor:Assets",
					"jpfr-t-qci:Assets",
					"jpcrp_cor:TotalAssets",
				},
				DisplayName:     "資産合計",
				ContextPriority: instant,
				ScopePriority:   consolidatedFirst,
			},
			"total_liabilities": {
				TagIDs: []string{
					"jpcrp_cor:Liabilities",
					"jpfr-t-qci:Liabilities",
					"jpcrp_cor:TotalLiabilities",
				},
				DisplayName:     "負債合計",
				ContextPriority: instant,
				ScopePriority:   consolidatedFirst,
			},
			"net_assets": {
				TagIDs: []string{
					"jpcrp_cor:NetAssets",
					"jpfr-t-qci:NetAssets",
					"jpcrp_cor:Equity",
				},
				DisplayName:     "純資産合計",
				ContextPriority: instant,
				ScopePriority:   consolidatedFirst,
			},
		},
		taxonomy.Bank: {
			"ordinary_income": {
				TagIDs:          []string{"jpbank_cor:OrdinaryIncome"},
				DisplayName:     "経常利益",
				ContextPriority: duration,
				ScopePriority:   consolidatedFirst,
			},
			"ordinary_business_profit": {
				TagIDs:          []string{"jpbank_cor:OrdinaryBusinessProfit"},
				DisplayName:     "業務純益",
				ContextPriority: duration,
				ScopePriority:   consolidatedFirst,
			},
			"total_assets": {
				TagIDs:          []string{"jpbank_cor:Assets"},
				DisplayName:     "資産の部合計",
				ContextPriority: instant,
				ScopePriority:   consolidatedFirst,
			},
		},
	}
}
