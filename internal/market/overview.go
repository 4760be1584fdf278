package market

// CompanyOverview holds company fundamentals ready for display.
// Absent or vendor-sentinel values hold Sentinel.
type CompanyOverview struct {
	Ticker         string `json:"ticker"`
	Name           string `json:"name"`
	Exchange       string `json:"exchange"`
	Sector         string `json:"sector"`
	Industry       string `json:"industry"`
	MarketCap      string `json:"market_cap"`
	PERatio        string `json:"pe_ratio"`
	ForwardPE      string `json:"forward_pe"`
	EPS            string `json:"eps"`
	Beta           string `json:"beta"`
	Week52High     string `json:"week52_high"`
	Week52Low      string `json:"week52_low"`
	DividendYield  string `json:"dividend_yield"`
	ProfitMargin   string `json:"profit_margin"`
	ReturnOnEquity string `json:"return_on_equity"`
	AnalystTarget  string `json:"analyst_target"`
	Description    string `json:"description"`
}

// Row is one label/value line of the fundamentals table.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Empty reports whether the overview was built from no data.
func (o CompanyOverview) Empty() bool {
	return o == (CompanyOverview{})
}

// Title is the company name, or the ticker when the name is unknown.
func (o CompanyOverview) Title() string {
	if o.Name == "" || o.Name == Sentinel {
		return o.Ticker
	}
	return o.Name
}

// Rows returns the fundamentals in display order.
func (o CompanyOverview) Rows() []Row {
	return []Row{
		{"Name", o.Name},
		{"Exchange", o.Exchange},
		{"Sector", o.Sector},
		{"Industry", o.Industry},
		{"Market Cap", o.MarketCap},
		{"P/E Ratio", o.PERatio},
		{"Forward P/E", o.ForwardPE},
		{"EPS", o.EPS},
		{"Beta", o.Beta},
		{"52W High", o.Week52High},
		{"52W Low", o.Week52Low},
		{"Div Yield", o.DividendYield},
		{"Profit Margin", o.ProfitMargin},
		{"ROE (TTM)", o.ReturnOnEquity},
		{"Analyst Target", o.AnalystTarget},
	}
}
