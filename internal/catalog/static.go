// Package catalog provides the commodity catalog: the built-in static table
// of tokenized commodities and an in-memory domain.CommodityStore over it.
package catalog

import (
	"time"

	"github.com/alanyoungcy/commodex/internal/domain"
)

// entry is one row of the built-in table before expansion into a
// domain.Commodity.
type entry struct {
	id       string
	name     string
	ticker   string
	price    float64
	unit     string
	category domain.CommodityCategory
	evm      string
	solana   string
}

// staticEntries is the built-in commodity table. EVM addresses exist only for
// commodities tokenized on Base; most Solana mints are placeholders pending
// deployment, with Natural Gas being the first live mint.
var staticEntries = []entry{
	// Energy
	{"crude-oil", "Crude Oil", "CL", 82.79, "USD/Bbl", domain.CategoryEnergy, "", "SOLANA_CRUDE_OIL_TOKEN_ADDRESS"},
	{"brent-oil", "Brent Oil", "BZ", 84.91, "USD/Bbl", domain.CategoryEnergy, "", "SOLANA_BRENT_OIL_TOKEN_ADDRESS"},
	{"natural-gas", "Natural Gas", "NG", 2.10, "USD/MMBtu", domain.CategoryEnergy, "", "HpNnAySB34qEHSBANp8dbUu7UqzPxZG5CktqbdKnC9Qp"},
	{"heating-oil", "Heating Oil", "HO", 2.64, "USD/Gal", domain.CategoryEnergy, "", "SOLANA_HEATING_OIL_TOKEN_ADDRESS"},
	{"gasoline", "Gasoline", "RB", 2.43, "USD/Gal", domain.CategoryEnergy, "", "SOLANA_GASOLINE_TOKEN_ADDRESS"},
	{"london-gas-oil", "London Gas Oil", "LGO", 735.38, "USD/MT", domain.CategoryEnergy, "", "SOLANA_LONDON_GAS_OIL_TOKEN_ADDRESS"},
	{"coal", "Coal", "MTF", 148.75, "USD/T", domain.CategoryEnergy, "", "SOLANA_COAL_TOKEN_ADDRESS"},
	{"ethanol", "Ethanol", "ACE", 1.35, "USD/Gal", domain.CategoryEnergy, "", "SOLANA_ETHANOL_TOKEN_ADDRESS"},
	{"carbon", "Carbon", "CFI", 67.24, "EUR/MT", domain.CategoryEnergy, "", "SOLANA_CARBON_TOKEN_ADDRESS"},
	{"uk-natural-gas", "UK Natural Gas", "NBP", 88.52, "GBp/Thm", domain.CategoryEnergy, "", "SOLANA_UK_NATURAL_GAS_TOKEN_ADDRESS"},
	{"ttf-gas", "TTF Gas", "TTF", 33.05, "EUR/MWh", domain.CategoryEnergy, "", "SOLANA_TTF_GAS_TOKEN_ADDRESS"},

	// Metals
	{"gold", "Gold", "GC", 2381.90, "USD/t oz.", domain.CategoryMetals, "0x000000000000000000000000000000000000000C", "SOLANA_GOLD_TOKEN_ADDRESS"},
	{"silver", "Silver", "SI", 28.14, "USD/t oz.", domain.CategoryMetals, "0x000000000000000000000000000000000000000D", "SOLANA_SILVER_TOKEN_ADDRESS"},
	{"platinum", "Platinum", "PL", 943.80, "USD/t oz.", domain.CategoryMetals, "0x000000000000000000000000000000000000000E", "SOLANA_PLATINUM_TOKEN_ADDRESS"},
	{"palladium", "Palladium", "PA", 1018.94, "USD/t oz.", domain.CategoryMetals, "0x000000000000000000000000000000000000000F", "SOLANA_PALLADIUM_TOKEN_ADDRESS"},
	{"copper", "Copper", "HG", 4.58, "USD/Lbs", domain.CategoryMetals, "0x0000000000000000000000000000000000000010", "SOLANA_COPPER_TOKEN_ADDRESS"},
	{"aluminum", "Aluminum", "ALI", 2394.75, "USD/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000011", "SOLANA_ALUMINUM_TOKEN_ADDRESS"},
	{"zinc", "Zinc", "ZS", 2756.50, "USD/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000012", "SOLANA_ZINC_TOKEN_ADDRESS"},
	{"nickel", "Nickel", "NI", 19046.00, "USD/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000013", "SOLANA_NICKEL_TOKEN_ADDRESS"},
	{"lead", "Lead", "LL", 2155.25, "USD/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000014", "SOLANA_LEAD_TOKEN_ADDRESS"},
	{"iron-ore", "Iron Ore", "TIO", 119.00, "USD/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000015", "SOLANA_IRON_ORE_TOKEN_ADDRESS"},
	{"steel", "Steel", "HR", 3984.00, "CNY/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000016", "SOLANA_STEEL_TOKEN_ADDRESS"},
	{"tin", "Tin", "SN", 30212.00, "USD/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000017", "SOLANA_TIN_TOKEN_ADDRESS"},
	{"lithium", "Lithium", "LI", 139000.00, "CNY/T", domain.CategoryMetals, "0x0000000000000000000000000000000000000018", "SOLANA_LITHIUM_TOKEN_ADDRESS"},
	{"uranium", "Uranium", "UX", 90.25, "USD/Lbs", domain.CategoryMetals, "0x0000000000000000000000000000000000000019", "SOLANA_URANIUM_TOKEN_ADDRESS"},
	{"cobalt", "Cobalt", "CO", 34200.00, "USD/T", domain.CategoryMetals, "0x000000000000000000000000000000000000001A", "SOLANA_COBALT_TOKEN_ADDRESS"},
	{"molybdenum", "Molybdenum", "MO", 27.38, "USD/Lbs", domain.CategoryMetals, "0x000000000000000000000000000000000000001B", "SOLANA_MOLYBDENUM_TOKEN_ADDRESS"},
	{"titanium", "Titanium", "TI", 8.50, "USD/Kg", domain.CategoryMetals, "0x000000000000000000000000000000000000001C", "SOLANA_TITANIUM_TOKEN_ADDRESS"},

	// Agriculture
	{"wheat", "Wheat", "W", 604.00, "USd/Bu", domain.CategoryAgriculture, "0x000000000000000000000000000000000000001D", "SOLANA_WHEAT_TOKEN_ADDRESS"},
	{"corn", "Corn", "C", 457.75, "USd/Bu", domain.CategoryAgriculture, "0x000000000000000000000000000000000000001E", "SOLANA_CORN_TOKEN_ADDRESS"},
	{"soybeans", "Soybeans", "S", 1203.50, "USd/Bu", domain.CategoryAgriculture, "0x000000000000000000000000000000000000001F", "SOLANA_SOYBEANS_TOKEN_ADDRESS"},
	{"rice", "Rice", "RR", 17.01, "USD/cwt", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000020", "SOLANA_RICE_TOKEN_ADDRESS"},
	{"oats", "Oats", "O", 381.00, "USd/Bu", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000021", "SOLANA_OATS_TOKEN_ADDRESS"},
	{"soybean-oil", "Soybean Oil", "BO", 49.71, "USd/Lbs", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000022", "SOLANA_SOYBEAN_OIL_TOKEN_ADDRESS"},
	{"soybean-meal", "Soybean Meal", "SM", 353.90, "USD/T", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000023", "SOLANA_SOYBEAN_MEAL_TOKEN_ADDRESS"},
	{"palm-oil", "Palm Oil", "CPO", 3814.00, "MYR/T", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000024", "SOLANA_PALM_OIL_TOKEN_ADDRESS"},
	{"canola", "Canola", "RS", 714.80, "CAD/T", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000025", "SOLANA_CANOLA_TOKEN_ADDRESS"},
	{"london-wheat", "London Wheat", "WTI", 203.10, "GBP/MT", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000026", "SOLANA_LONDON_WHEAT_TOKEN_ADDRESS"},
	{"rapeseed", "Rapeseed", "REP", 502.75, "EUR/T", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000027", "SOLANA_RAPESEED_TOKEN_ADDRESS"},
	{"rough-rice", "Rough Rice", "ZR", 16.12, "USD/cwt", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000028", "SOLANA_ROUGH_RICE_TOKEN_ADDRESS"},
	{"feed-wheat", "Feed Wheat", "FW", 225.00, "GBP/T", domain.CategoryAgriculture, "0x0000000000000000000000000000000000000029", "SOLANA_FEED_WHEAT_TOKEN_ADDRESS"},
	{"hard-red-wheat", "Hard Red Wheat", "KW", 694.25, "USd/Bu", domain.CategoryAgriculture, "0x000000000000000000000000000000000000002A", "SOLANA_HARD_RED_WHEAT_TOKEN_ADDRESS"},

	// Livestock
	{"live-cattle", "Live Cattle", "LC", 187.38, "USd/Lbs", domain.CategoryLivestock, "0x000000000000000000000000000000000000002B", "SOLANA_LIVE_CATTLE_TOKEN_ADDRESS"},
	{"feeder-cattle", "Feeder Cattle", "FC", 257.72, "USd/Lbs", domain.CategoryLivestock, "0x000000000000000000000000000000000000002C", "SOLANA_FEEDER_CATTLE_TOKEN_ADDRESS"},
	{"lean-hogs", "Lean Hogs", "LH", 94.85, "USd/Lbs", domain.CategoryLivestock, "0x000000000000000000000000000000000000002D", "SOLANA_LEAN_HOGS_TOKEN_ADDRESS"},
	{"class-iii-milk", "Class III Milk", "DC", 19.95, "USD/cwt", domain.CategoryLivestock, "0x000000000000000000000000000000000000002E", "SOLANA_CLASS_III_MILK_TOKEN_ADDRESS"},
	{"live-hogs", "Live Hogs", "JRO", 19883.00, "CNY/T", domain.CategoryLivestock, "0x000000000000000000000000000000000000002F", "SOLANA_LIVE_HOGS_TOKEN_ADDRESS"},
	{"pork-bellies", "Live Pork Bellies", "PB", 162.95, "USd/Lbs", domain.CategoryLivestock, "0x0000000000000000000000000000000000000030", "SOLANA_LIVE_PORK_BELLIES_TOKEN_ADDRESS"},

	// Softs
	{"coffee", "Coffee", "KC", 2.24, "USD/Lbs", domain.CategorySofts, "0x0000000000000000000000000000000000000031", "SOLANA_COFFEE_TOKEN_ADDRESS"},
	{"cocoa", "Cocoa", "CC", 10084.00, "USD/T", domain.CategorySofts, "0x7D8466C9737A21092d545BEDd5aBc702f7dE9353", "SOLANA_COCOA_TOKEN_ADDRESS"},
	{"sugar", "Sugar", "SB", 19.99, "USd/Lbs", domain.CategorySofts, "0x0000000000000000000000000000000000000032", "SOLANA_SUGAR_TOKEN_ADDRESS"},
	{"orange-juice", "Orange Juice", "OJ", 408.50, "USd/Lbs", domain.CategorySofts, "0x0000000000000000000000000000000000000033", "SOLANA_ORANGE_JUICE_TOKEN_ADDRESS"},
	{"cotton", "Cotton", "CT", 80.10, "USd/Lbs", domain.CategorySofts, "0x0000000000000000000000000000000000000034", "SOLANA_COTTON_TOKEN_ADDRESS"},
	{"lumber", "Lumber", "LB", 565.00, "USD/1000 bd ft", domain.CategorySofts, "0x0000000000000000000000000000000000000035", "SOLANA_LUMBER_TOKEN_ADDRESS"},
	{"rubber", "Rubber", "RU", 1.79, "USD/Kg", domain.CategorySofts, "0x0000000000000000000000000000000000000036", "SOLANA_RUBBER_TOKEN_ADDRESS"},
	{"robusta-coffee", "London Robusta Coffee", "RC", 3883.00, "USD/T", domain.CategorySofts, "0x0000000000000000000000000000000000000037", "SOLANA_LONDON_ROBUSTA_COFFEE_TOKEN_ADDRESS"},
	{"london-sugar", "London Sugar", "LSU", 481.00, "USD/T", domain.CategorySofts, "0x0000000000000000000000000000000000000038", "SOLANA_LONDON_SUGAR_TOKEN_ADDRESS"},
	{"london-cocoa", "London Cocoa", "LCC", 6503.00, "GBP/T", domain.CategorySofts, "0x0000000000000000000000000000000000000039", "SOLANA_LONDON_COCOA_TOKEN_ADDRESS"},

	// Indices
	{"commodity-index", "Commodity Index", "DJP", 326.44, "Index Points", domain.CategoryIndices, "0x000000000000000000000000000000000000003A", "SOLANA_COMMODITY_INDEX_TOKEN_ADDRESS"},
	{"gold-miners-etf", "Gold Miners ETF", "GDX", 33.24, "USD", domain.CategoryIndices, "0x000000000000000000000000000000000000003B", "SOLANA_GOLD_MINERS_ETF_TOKEN_ADDRESS"},
	{"usd-index", "USD Index", "DXY", 104.00, "Index Points", domain.CategoryIndices, "0x000000000000000000000000000000000000003C", "SOLANA_USD_INDEX_TOKEN_ADDRESS"},
	{"sp-gsci", "S&P GSCI", "GSG", 631.32, "Index Points", domain.CategoryIndices, "0x000000000000000000000000000000000000003D", "SOLANA_SP_GSCI_TOKEN_ADDRESS"},
	{"rogers-intl", "Rogers Intl", "RJI", 2786.91, "Index Points", domain.CategoryIndices, "0x000000000000000000000000000000000000003E", "SOLANA_ROGERS_INTL_TOKEN_ADDRESS"},
	{"dj-commodity", "DJ Commodity", "DJC", 454.81, "Index Points", domain.CategoryIndices, "0x000000000000000000000000000000000000003F", "SOLANA_DJ_COMMODITY_TOKEN_ADDRESS"},
	{"msci-commodity-producers", "MSCI World Commodity Producers", "MSCWCP", 392.93, "Index Points", domain.CategoryIndices, "0x0000000000000000000000000000000000000040", "SOLANA_MSCI_WORLD_COMMODITY_PRODUCERS_TOKEN_ADDRESS"},
}

// Static returns the built-in commodity table as domain values. Prices carry
// the table's base price with zero change; the feed layer applies movement.
func Static() []domain.Commodity {
	now := time.Now().UTC()
	out := make([]domain.Commodity, 0, len(staticEntries))
	for _, e := range staticEntries {
		out = append(out, domain.Commodity{
			ID:         e.id,
			Name:       e.name,
			Ticker:     e.ticker,
			Price:      e.price,
			Unit:       e.unit,
			LastUpdate: now,
			Category:   e.category,
			Addresses: domain.ContractAddresses{
				EVM:    e.evm,
				Solana: e.solana,
			},
		})
	}
	return out
}

// StaticAddresses returns the commodity→addresses mapping for the static
// table, suitable for seeding the chain account directory.
func StaticAddresses() map[string]domain.ContractAddresses {
	out := make(map[string]domain.ContractAddresses, len(staticEntries))
	for _, e := range staticEntries {
		out[e.id] = domain.ContractAddresses{EVM: e.evm, Solana: e.solana}
	}
	return out
}
