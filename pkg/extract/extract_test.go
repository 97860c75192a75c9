package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edinet-facts/pkg/facttable"
	"edinet-facts/pkg/mapping"
	"edinet-facts/pkg/taxonomy"
)

const testCategory = taxonomy.InvestmentTrust

// registryWith builds a registry holding exactly one concept for the
// test category.
func registryWith(t *testing.T, name string, tagIDs, contextPriority, scopePriority []string) *mapping.Mapping {
	t.Helper()
	m := &mapping.Mapping{}
	require.NoError(t, m.Add(testCategory, name, tagIDs, name, contextPriority, scopePriority))
	return m
}

func TestExtractHappyPath(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "current_period", RawValue: "67708176982"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, []string{"current_period"}, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 67708176982.0, results["total_assets"].Value)
}

func TestExtractFuzzyFallback(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:AssetsDetailX", ContextID: "current_period", RawValue: "1000"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 1000.0, results["total_assets"].Value)
}

// An exact match for the first candidate tag must never fall through to
// fuzzy matching, even when fuzzy candidates are also present.
func TestExactPrecedesFuzzy(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:AssetsNoncurrent", ContextID: "c", RawValue: "111"},
		{TagID: "fund_ns:Assets", ContextID: "c", RawValue: "222"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 222.0, results["total_assets"].Value)
}

func TestContextPriorityRespected(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "Prior1YearInstant", RawValue: "100"},
		{TagID: "fund_ns:Assets", ContextID: "CurrentYearInstant", RawValue: "200"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"},
		[]string{"CurrentYearInstant", "Prior1YearInstant"}, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 200.0, results["total_assets"].Value)
}

func TestContextPriorityFallsThrough(t *testing.T) {
	// No priority entry matches: the full numeric set is kept and the
	// first row in table order wins.
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "OddContext", RawValue: "100"},
		{TagID: "fund_ns:Assets", ContextID: "OtherContext", RawValue: "200"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"},
		[]string{"CurrentYearInstant"}, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 100.0, results["total_assets"].Value)
}

func TestScopePriorityAppliedWhenColumnPresent(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "c", Scope: "個別", RawValue: "100"},
		{TagID: "fund_ns:Assets", ContextID: "c", Scope: "連結", RawValue: "200"},
	}, facttable.ColTagID, facttable.ColValue, facttable.ColScope)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil,
		[]string{"連結", "個別"})
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 200.0, results["total_assets"].Value)
}

// The built-in scope priorities carry taxonomy member names that never
// appear in the scope column's values, so the filter keeps the full set.
func TestScopePriorityNoMatchKeepsAll(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "c", Scope: "連結", RawValue: "100"},
		{TagID: "fund_ns:Assets", ContextID: "c", Scope: "個別", RawValue: "200"},
	}, facttable.ColTagID, facttable.ColValue, facttable.ColScope)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil,
		[]string{"NonConsolidatedMember"})
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 100.0, results["total_assets"].Value)
}

func TestScopePrioritySkippedWithoutColumn(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "c", RawValue: "100"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil,
		[]string{"WillNeverMatch"})
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 100.0, results["total_assets"].Value)
}

func TestCurrentPeriodPreferred(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "c", RelativeYear: "前期", RawValue: "100"},
		{TagID: "fund_ns:Assets", ContextID: "c", RelativeYear: "当期", RawValue: "200"},
	}, facttable.ColTagID, facttable.ColValue, facttable.ColRelativeYear)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 200.0, results["total_assets"].Value)
}

func TestNonNumericFactsDiscarded(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "c", RawValue: "非数値"},
		{TagID: "fund_ns:Assets", ContextID: "c", RawValue: "300"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	results := New(m).Extract(table, testCategory)

	require.Contains(t, results, "total_assets")
	assert.Equal(t, 300.0, results["total_assets"].Value)
}

func TestUnresolvedConceptAbsent(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "other_ns:Unrelated", ContextID: "c", RawValue: "1"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	results := New(m).Extract(table, testCategory)

	assert.NotContains(t, results, "total_assets")
	assert.Empty(t, results)
}

func TestOnlyNonNumericIsUnresolved(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "fund_ns:Assets", ContextID: "c", RawValue: "該当なし"},
	}, facttable.ColTagID, facttable.ColValue)

	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	assert.Empty(t, New(m).Extract(table, testCategory))
}

func TestExtractEmptyTable(t *testing.T) {
	m := registryWith(t, "total_assets", []string{"fund_ns:Assets"}, nil, nil)
	assert.Empty(t, New(m).Extract(facttable.NewTable(nil), testCategory))
}

func TestExtractFullRegistry(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "jppfs_cor:Assets", ContextID: "CurrentYearInstant", RelativeYear: "当期末", RawValue: "67708176982"},
		{TagID: "jppfs_cor:NetAssets", ContextID: "CurrentYearInstant", RelativeYear: "当期末", RawValue: "67000000000"},
		{TagID: "jppfs_cor:CallLoansCAFND", ContextID: "CurrentYearInstant", RelativeYear: "当期末", RawValue: "500000000"},
	}, facttable.ColTagID, facttable.ColValue, facttable.ColRelativeYear)

	results := New(mapping.New()).Extract(table, taxonomy.InvestmentTrust)

	require.Contains(t, results, "total_assets")
	require.Contains(t, results, "net_assets")
	require.Contains(t, results, "call_loans")
	assert.NotContains(t, results, "investment_securities")
	assert.Equal(t, 67708176982.0, results["total_assets"].Value)
	assert.Equal(t, "資産合計", results["total_assets"].DisplayName)
}

func TestSearch(t *testing.T) {
	table := facttable.NewTable([]facttable.Fact{
		{TagID: "jppfs_cor:Assets", Label: "資産合計", RawValue: "1"},
		{TagID: "jppfs_cor:NetAssets", Label: "純資産", RawValue: "2"},
		{TagID: "jpcrp_cor:CompanyName", Label: "会社名", RawValue: "x"},
	}, facttable.ColTagID, facttable.ColValue)

	hits := Search(table, []string{"assets"})
	assert.Len(t, hits, 2)

	hits = Search(table, []string{"資産"})
	assert.Len(t, hits, 2)

	hits = Search(table, []string{"会社名"})
	require.Len(t, hits, 1)
	assert.Equal(t, "jpcrp_cor:CompanyName", hits[0].TagID)

	assert.Nil(t, Search(table, nil))
}

func TestSearchCapped(t *testing.T) {
	facts := make([]facttable.Fact, SearchLimit+10)
	for i := range facts {
		facts[i] = facttable.Fact{TagID: "jppfs_cor:Assets"}
	}
	table := facttable.NewTable(facts, facttable.ColTagID, facttable.ColValue)
	assert.Len(t, Search(table, []string{"assets"}), SearchLimit)
}
