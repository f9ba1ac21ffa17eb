package uploader

import (
	"fmt"
	"time"

	"github.com/gokul-culfit/d2c-uploader/internal/table"
)

// bcaseSource tags every event produced by this service.
const bcaseSource = "ebo-multi-uploader"

// BcaseEvent is one normalized EBO business-case record derived from a
// spreadsheet row.
type BcaseEvent struct {
	StoreCode                 string  `json:"storeCode"`
	StoreName                 string  `json:"storeName"`
	Month                     string  `json:"month"`
	CarpetArea                float64 `json:"carpetArea"`
	SalesPerSqftDay           float64 `json:"salesPerSqftDay"`
	SalesPerSqftMonth         float64 `json:"salesPerSqftMonth"`
	GmvSoftlinesL             float64 `json:"gmvSoftlinesL"`
	GmvHardlinesL             float64 `json:"gmvHardlinesL"`
	TotalGmvL                 float64 `json:"totalGmvL"`
	Hardlines1PRev            float64 `json:"hardlines1PRev"`
	Returns                   float64 `json:"returns"`
	NetRevenueTotal           float64 `json:"netRevenueTotal"`
	NetRevenueSL              float64 `json:"netRevenueSL"`
	NetRevenueHL              float64 `json:"netRevenueHL"`
	Sensitivity               float64 `json:"sensitivity"`
	PmPercent                 float64 `json:"pmPercent"`
	PmTotal                   float64 `json:"pmTotal"`
	PmSL                      float64 `json:"pmSL"`
	PmHL                      float64 `json:"pmHL"`
	SlInvnt                   float64 `json:"slInvnt"`
	HlInvnt                   float64 `json:"hlInvnt"`
	StaffCost                 float64 `json:"staffCost"`
	RentCam                   float64 `json:"rentCam"`
	Cam                       float64 `json:"cam"`
	RentPerSqft1stYearPRS     float64 `json:"rentPerSqft1stYearPRS"`
	RentPercentOCofNetRev     float64 `json:"rentPercentOCofNetRev"`
	RevShareAt8               float64 `json:"revShareAt8"`
	SupplyChainCosts          float64 `json:"supplyChainCosts"`
	IwtAt15ofSL               float64 `json:"iwtAt15ofSL"`
	InventoryProvAt93onNetRev float64 `json:"inventoryProvAt93onNetRev"`
	DeltaRentRevShare         float64 `json:"deltaRentRevShare"`
	UtilitiesAndPG            float64 `json:"utilitiesAndPG"`
	TotalOpex                 float64 `json:"totalOpex"`
	CmL                       float64 `json:"cmL"`
	CmPercent                 float64 `json:"cmPercent"`
	Monetisation              float64 `json:"monetisation"`
	MarketingL                float64 `json:"marketingL"`
	TotalMktingOnNet          float64 `json:"totalMktingOnNet"`
	PerfMktingOnHL            float64 `json:"perfMktingOnHL"`
	BtlMktingOnSL             float64 `json:"btlMktingOnSL"`
	Cm2L                      float64 `json:"cm2L"`
	Cm2Percent                float64 `json:"cm2Percent"`
	OpexBE                    float64 `json:"opexBE"`
	OpexBE2                   float64 `json:"opexBE2"`
	CapexPayback              float64 `json:"capexPayback"`
	CapexPaybackWithInterest  float64 `json:"capexPaybackWithInterest"`
	Sd                        float64 `json:"sd"`
	InventorySLHL             float64 `json:"inventorySLHL"`
	SiteCapexWithTax          float64 `json:"siteCapexWithTax"`
	AddnlCapex                float64 `json:"addnlCapex"`
	TotalCapex                float64 `json:"totalCapex"`
	TotalCapexWithInterest    float64 `json:"totalCapexWithInterest"`
	CumulativeCm2             float64 `json:"cumulativeCm2"`
	CapexPayback2             float64 `json:"capexPayback2"`
	CapexPaybackWithInterest2 float64 `json:"capexPaybackWithInterest2"`
	HardlinesPMPercent        float64 `json:"hardlinesPMPercent"`
	SoftlinesPMPercent        float64 `json:"softlinesPMPercent"`
	HardlinesGmvSharePercent  float64 `json:"hardlinesGmvSharePercent"`
	SoftlinesGmvSharePercent  float64 `json:"softlinesGmvSharePercent"`
	HardlinesASP              float64 `json:"hardlinesASP"`
	SoftlinesASP              float64 `json:"softlinesASP"`
	HardlinesUnits            float64 `json:"hardlinesUnits"`
	SoftlinesUnits            float64 `json:"softlinesUnits"`
	HardlinesScmCostPerUnit   float64 `json:"hardlinesScmCostPerUnit"`
	SoftlinesScmCostPerUnit   float64 `json:"softlinesScmCostPerUnit"`
	ProducedAt                string  `json:"producedAt"`
	Source                    string  `json:"source"`
}

// bcaseFormatHeaders lists the expected columns in template display order.
// "month" and the capex payback columns repeat in the source sheet; the
// duplicates are kept for display and collapsed for the required set.
var bcaseFormatHeaders = []string{
	"store code",
	"store name",
	"month",
	"space - carpet area (sq ft)",
	"sales/ sq ft (rs/ day)",
	"sales/ sq ft (rs/ month)",
	"gmv softlines l",
	"gmv hardlines l",
	"total gmv l",
	"1p hardlines rev",
	"returns",
	"net revenue total",
	"net revenue sl",
	"net revenue hl",
	"sensitivity",
	"pm%",
	"pm total",
	"pm sl",
	"pm hl",
	"sl invnt",
	"hl invnt",
	"staff cost",
	"rent + cam",
	"cam",
	"rent/ sq ft 1st year prs",
	"rent%(oc) of net rev",
	"rev share @ 8%",
	"supply chain costs",
	"iwt@1.5 of sl",
	"inventory prov@.93% on net rev",
	"delta b/w rent and rev share",
	"utilities and pg + basement stock room",
	"total opex",
	"cm l",
	"cm%",
	"monetisation",
	"marketing l",
	"total mkting on net",
	"perf mkting on hl",
	"btl mkting on sl",
	"cm2 l",
	"cm2%",
	"opex be",
	"month",
	"opex b/e",
	"capex payback",
	"capex payback with interest",
	"sd",
	"inventory sl +hl",
	"site capex (with tax)",
	"addnl capex [ticker+bkge+ board out]",
	"total capex",
	"total capex with interest",
	"cumulative cm2",
	"capex payback",
	"month",
	"capex payback with interest",
	"month",
	"hardlines pm%",
	"softlines pm%",
	"hardlines gmv share%",
	"softlines gmv share%",
	"hardlines asp",
	"softlines asp",
	"hardlines units",
	"softlines units",
	"hardlines scm cost/ unit",
	"softlines scm cost/ unit",
}

// Bcase builds the EBO business case uploader definition.
func Bcase() *Config {
	return &Config{
		ID:                "bcase",
		DisplayName:       "EBO Business Case",
		AcceptedFileTypes: []table.FileType{table.TypeCSV, table.TypeExcel},
		EventName:         "ebo_bcase",
		KafkaTopic:        "fitstore_unicommerce",
		FormatHeaders:     bcaseFormatHeaders,
		MapRow:            mapBcaseRow,
		BuildKey:          bcaseKey,
	}
}

// bcaseKey derives the downstream dedup key: storeCode_month when both
// identity fields are present, otherwise a per-production fallback.
func bcaseKey(event any) string {
	e, ok := event.(*BcaseEvent)
	if !ok {
		return ""
	}
	if e.StoreCode != "" && e.Month != "" {
		return fmt.Sprintf("%s_%s", e.StoreCode, e.Month)
	}
	return fmt.Sprintf("row_%s", e.ProducedAt)
}

func mapBcaseRow(row *table.RawRow, _ int) (any, error) {
	storeCode := FirstString(row, "store code", "storecode", "store_code", "store id")
	storeName := FirstString(row, "store name", "storename", "store_name")
	month := FirstString(row, "month", "months", "period")

	// Fully blank rows (no identity and no data at all) are skipped, not
	// errored. A row with any non-blank cell is always mapped.
	if storeCode == "" && storeName == "" && month == "" && row.AllEmpty() {
		return nil, nil
	}

	num := func(label string) float64 { return NumberField(row, label) }

	return &BcaseEvent{
		StoreCode:                 storeCode,
		StoreName:                 storeName,
		Month:                     month,
		CarpetArea:                num("space - carpet area (sq ft)"),
		SalesPerSqftDay:           num("sales/ sq ft (rs/ day)"),
		SalesPerSqftMonth:         num("sales/ sq ft (rs/ month)"),
		GmvSoftlinesL:             num("gmv softlines l"),
		GmvHardlinesL:             num("gmv hardlines l"),
		TotalGmvL:                 num("total gmv l"),
		Hardlines1PRev:            num("1p hardlines rev"),
		Returns:                   num("returns"),
		NetRevenueTotal:           num("net revenue total"),
		NetRevenueSL:              num("net revenue sl"),
		NetRevenueHL:              num("net revenue hl"),
		Sensitivity:               num("sensitivity"),
		PmPercent:                 num("pm%"),
		PmTotal:                   num("pm total"),
		PmSL:                      num("pm sl"),
		PmHL:                      num("pm hl"),
		SlInvnt:                   num("sl invnt"),
		HlInvnt:                   num("hl invnt"),
		StaffCost:                 num("staff cost"),
		RentCam:                   num("rent + cam"),
		Cam:                       num("cam"),
		RentPerSqft1stYearPRS:     num("rent/ sq ft 1st year prs"),
		RentPercentOCofNetRev:     num("rent%(oc) of net rev"),
		RevShareAt8:               num("rev share @ 8%"),
		SupplyChainCosts:          num("supply chain costs"),
		IwtAt15ofSL:               num("iwt@1.5 of sl"),
		InventoryProvAt93onNetRev: num("inventory prov@.93% on net rev"),
		DeltaRentRevShare:         num("delta b/w rent and rev share"),
		UtilitiesAndPG:            num("utilities and pg + basement stock room"),
		TotalOpex:                 num("total opex"),
		CmL:                       num("cm l"),
		CmPercent:                 num("cm%"),
		Monetisation:              num("monetisation"),
		MarketingL:                num("marketing l"),
		TotalMktingOnNet:          num("total mkting on net"),
		PerfMktingOnHL:            num("perf mkting on hl"),
		BtlMktingOnSL:             num("btl mkting on sl"),
		Cm2L:                      num("cm2 l"),
		Cm2Percent:                num("cm2%"),
		OpexBE:                    num("opex be"),
		OpexBE2:                   num("opex b/e"),
		CapexPayback:              num("capex payback"),
		CapexPaybackWithInterest:  num("capex payback with interest"),
		Sd:                        num("sd"),
		InventorySLHL:             num("inventory sl +hl"),
		SiteCapexWithTax:          num("site capex (with tax)"),
		AddnlCapex:                num("addnl capex [ticker+bkge+ board out]"),
		TotalCapex:                num("total capex"),
		TotalCapexWithInterest:    num("total capex with interest"),
		CumulativeCm2:             num("cumulative cm2"),
		CapexPayback2:             num("capex payback"),
		CapexPaybackWithInterest2: num("capex payback with interest"),
		HardlinesPMPercent:        num("hardlines pm%"),
		SoftlinesPMPercent:        num("softlines pm%"),
		HardlinesGmvSharePercent:  num("hardlines gmv share%"),
		SoftlinesGmvSharePercent:  num("softlines gmv share%"),
		HardlinesASP:              num("hardlines asp"),
		SoftlinesASP:              num("softlines asp"),
		HardlinesUnits:            num("hardlines units"),
		SoftlinesUnits:            num("softlines units"),
		HardlinesScmCostPerUnit:   num("hardlines scm cost/ unit"),
		SoftlinesScmCostPerUnit:   num("softlines scm cost/ unit"),
		ProducedAt:                time.Now().UTC().Format(time.RFC3339Nano),
		Source:                    bcaseSource,
	}, nil
}
