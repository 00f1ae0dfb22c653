package consts

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CRYPTO_DECIMALS = 8
	INR_DECIMALS    = 2

	SWAP_EXPIRY            = 30 * time.Minute
	INR_TRANSACTION_EXPIRY = time.Hour
	ESCROW_EXPIRY          = 24 * time.Hour

	SYSTEM_SENDER_ID = "system"

	SWAP_PRICE_IMPACT = "0.1"
)

var (
	PlatformFeeRate   = decimal.RequireFromString("0.005")
	DefaultNetworkFee = decimal.RequireFromString("0.001")
	DefaultRate       = decimal.NewFromInt(1)
)

// NetworkFees is the flat fee charged per destination currency on a swap.
var NetworkFees = map[string]decimal.Decimal{
	"BTC": decimal.RequireFromString("0.0001"),
	"ETH": decimal.RequireFromString("0.002"),
	"SOL": decimal.RequireFromString("0.0001"),
	"LTC": decimal.RequireFromString("0.001"),
	"BNB": decimal.RequireFromString("0.001"),
}

// FallbackRates is used when no market rate is stored for a pair.
var FallbackRates = map[string]map[string]decimal.Decimal{
	"BTC": {
		"ETH": decimal.RequireFromString("42.3"),
		"SOL": decimal.RequireFromString("4500"),
		"LTC": decimal.RequireFromString("1200"),
	},
	"ETH": {
		"BTC": decimal.RequireFromString("0.024"),
		"SOL": decimal.RequireFromString("106"),
		"LTC": decimal.RequireFromString("28"),
	},
	"SOL": {
		"BTC": decimal.RequireFromString("0.00022"),
		"ETH": decimal.RequireFromString("0.0094"),
		"LTC": decimal.RequireFromString("0.26"),
	},
}

type FallbackMarketPrice struct {
	Symbol    string
	CoinID    string
	PriceUsd  decimal.Decimal
	PriceInr  decimal.Decimal
	Change24h decimal.Decimal
}

// FallbackMarketPrices seeds market_rates when a symbol has never been priced.
var FallbackMarketPrices = []FallbackMarketPrice{
	{Symbol: "BTC", CoinID: "bitcoin", PriceUsd: decimal.RequireFromString("84215"), PriceInr: decimal.RequireFromString("7125678"), Change24h: decimal.RequireFromString("2.34")},
	{Symbol: "ETH", CoinID: "ethereum", PriceUsd: decimal.RequireFromString("1982"), PriceInr: decimal.RequireFromString("167542"), Change24h: decimal.RequireFromString("-1.12")},
	{Symbol: "SOL", CoinID: "solana", PriceUsd: decimal.RequireFromString("185"), PriceInr: decimal.RequireFromString("15634"), Change24h: decimal.RequireFromString("5.67")},
	{Symbol: "LTC", CoinID: "litecoin", PriceUsd: decimal.RequireFromString("123"), PriceInr: decimal.RequireFromString("10398"), Change24h: decimal.RequireFromString("1.23")},
	{Symbol: "BNB", CoinID: "binancecoin", PriceUsd: decimal.RequireFromString("645"), PriceInr: decimal.RequireFromString("54567"), Change24h: decimal.RequireFromString("-0.89")},
}

type SeedCryptocurrency struct {
	Symbol        string
	Name          string
	NetworkName   string
	Decimals      int
	MinSwapAmount decimal.Decimal
	MaxSwapAmount decimal.Decimal
	TradingFee    decimal.Decimal
}

var SeedCryptocurrencies = []SeedCryptocurrency{
	{Symbol: "BTC", Name: "Bitcoin", NetworkName: "Bitcoin", Decimals: 8, MinSwapAmount: decimal.RequireFromString("0.001"), MaxSwapAmount: decimal.RequireFromString("10"), TradingFee: decimal.RequireFromString("0.005")},
	{Symbol: "ETH", Name: "Ethereum", NetworkName: "Ethereum", Decimals: 18, MinSwapAmount: decimal.RequireFromString("0.01"), MaxSwapAmount: decimal.RequireFromString("100"), TradingFee: decimal.RequireFromString("0.005")},
	{Symbol: "SOL", Name: "Solana", NetworkName: "Solana", Decimals: 9, MinSwapAmount: decimal.RequireFromString("0.1"), MaxSwapAmount: decimal.RequireFromString("1000"), TradingFee: decimal.RequireFromString("0.005")},
	{Symbol: "USDT", Name: "Tether", NetworkName: "Ethereum", Decimals: 6, MinSwapAmount: decimal.RequireFromString("10"), MaxSwapAmount: decimal.RequireFromString("10000"), TradingFee: decimal.RequireFromString("0.001")},
	{Symbol: "LTC", Name: "Litecoin", NetworkName: "Litecoin", Decimals: 8, MinSwapAmount: decimal.RequireFromString("0.01"), MaxSwapAmount: decimal.RequireFromString("100"), TradingFee: decimal.RequireFromString("0.004")},
	{Symbol: "BNB", Name: "BNB", NetworkName: "BSC", Decimals: 18, MinSwapAmount: decimal.RequireFromString("0.1"), MaxSwapAmount: decimal.RequireFromString("500"), TradingFee: decimal.RequireFromString("0.003")},
	{Symbol: "ADA", Name: "Cardano", NetworkName: "Cardano", Decimals: 6, MinSwapAmount: decimal.RequireFromString("10"), MaxSwapAmount: decimal.RequireFromString("5000"), TradingFee: decimal.RequireFromString("0.002")},
	{Symbol: "MATIC", Name: "Polygon", NetworkName: "Polygon", Decimals: 18, MinSwapAmount: decimal.RequireFromString("1"), MaxSwapAmount: decimal.RequireFromString("2000"), TradingFee: decimal.RequireFromString("0.002")},
}

// NetworkFee returns the flat network fee for the currency a swap pays out in.
func NetworkFee(symbol string) decimal.Decimal {
	if fee, ok := NetworkFees[symbol]; ok {
		return fee
	}
	return DefaultNetworkFee
}

// Exclusive upper bounds of the NUMERIC(20,8) crypto and NUMERIC(12,2) INR
// amount columns.
var (
	MaxCryptoAmount = decimal.New(1, 12)
	MaxInrAmount    = decimal.New(1, 10)
)

func CryptoAmountFits(v decimal.Decimal) bool {
	return v.Round(CRYPTO_DECIMALS).LessThan(MaxCryptoAmount)
}

func InrAmountFits(v decimal.Decimal) bool {
	return v.Round(INR_DECIMALS).LessThan(MaxInrAmount)
}
