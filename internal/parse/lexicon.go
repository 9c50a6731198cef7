package parse

import "regexp"

// cryptoNames maps lowercase token names and symbols to their canonical
// ticker. Used both for routing (a cashtag in this set routes to crypto
// ahead of equity) and for resolving plain-text mentions like "ethereum".
var cryptoNames = map[string]string{}

var cryptoSymbols = map[string][]string{
	"BTC":   {"bitcoin", "btc"},
	"ETH":   {"ethereum", "eth", "ether"},
	"BNB":   {"binance", "bnb"},
	"SOL":   {"solana", "sol"},
	"XRP":   {"ripple", "xrp"},
	"ADA":   {"cardano", "ada"},
	"AVAX":  {"avalanche", "avax"},
	"DOGE":  {"dogecoin", "doge"},
	"DOT":   {"polkadot", "dot"},
	"MATIC": {"polygon", "matic"},
	"LINK":  {"chainlink", "link"},
	"UNI":   {"uniswap", "uni"},
	"ATOM":  {"cosmos", "atom"},
	"ARB":   {"arbitrum", "arb"},
	"OP":    {"optimism", "op"},
	"INJ":   {"injective", "inj"},
	"TIA":   {"celestia", "tia"},
	"SEI":   {"sei"},
	"PEPE":  {"pepe"},
	"WLD":   {"worldcoin", "wld"},
	"FET":   {"fetch", "fet"},
	"RNDR":  {"render", "rndr"},
	"NEAR":  {"near"},
	"APT":   {"aptos", "apt"},
	"SUI":   {"sui"},
	"USDT":  {"tether", "usdt"},
	"USDC":  {"usdc", "usd coin"},
}

func init() {
	for symbol, names := range cryptoSymbols {
		for _, name := range names {
			cryptoNames[name] = symbol
		}
	}
}

// ambiguousCryptoNames are lexicon entries that collide with ordinary
// English words. They still resolve once text is routed to the crypto
// parser, but a bare mention alone never routes text there.
var ambiguousCryptoNames = map[string]bool{
	"link": true, "near": true, "op": true, "uni": true,
	"atom": true, "dot": true, "apt": true, "arb": true,
	"fetch": true, "render": true, "ada": true, "sei": true,
	"sui": true, "inj": true, "fet": true, "tia": true,
}

// stablecoins are never emitted as a traded instrument.
var stablecoins = map[string]bool{
	"USDT": true,
	"USDC": true,
	"BUSD": true,
	"DAI":  true,
}

// excludedTickers filters common English words out of bare-uppercase
// ticker extraction.
var excludedTickers = map[string]bool{
	"THE": true, "AND": true, "FOR": true, "NOT": true,
	"ALL": true, "NEW": true, "GET": true, "SET": true,
	"WITH": true, "FROM": true, "THIS": true, "THAT": true,
	"USA": true, "CEO": true, "USD": true,
}

// leagueTeams maps each league to the lowercase team names that identify
// it when no league keyword is present.
var leagueTeams = map[string][]string{
	"NFL": {"chiefs", "bills", "49ers", "eagles", "cowboys", "ravens", "bengals", "dolphins"},
	"NBA": {"lakers", "celtics", "heat", "warriors", "bucks", "nuggets", "suns", "76ers"},
	"MLB": {"yankees", "dodgers", "astros", "braves", "rays", "orioles"},
	"NHL": {"avalanche", "oilers", "panthers", "stars", "bruins"},
}

var leagueKeywords = map[string][]string{
	"NFL": {"nfl", "football"},
	"NBA": {"nba", "basketball"},
	"MLB": {"mlb", "baseball"},
	"NHL": {"nhl", "hockey"},
}

// platformPatterns extracts a prediction-market reference per platform.
// Manifold refs are user/market pairs; the rest are single slugs or ids.
var platformPatterns = map[string][]*regexp.Regexp{
	"polymarket": {
		regexp.MustCompile(`polymarket\.com/event/([a-zA-Z0-9\-]+)`),
		regexp.MustCompile(`polymarket\.com/market/([a-zA-Z0-9\-]+)`),
		regexp.MustCompile(`poly\.market/([a-zA-Z0-9\-]+)`),
		regexp.MustCompile(`pm:([a-zA-Z0-9\-]+)`),
	},
	"manifold": {
		regexp.MustCompile(`manifold\.markets/([a-zA-Z0-9\-_]+)/([a-zA-Z0-9\-_]+)`),
		regexp.MustCompile(`manifold\.markets/embed/([a-zA-Z0-9\-_]+)`),
		regexp.MustCompile(`mm:([a-zA-Z0-9\-_]+)`),
	},
	"metaculus": {
		regexp.MustCompile(`metaculus\.com/questions/(\d+)`),
		regexp.MustCompile(`metaculus:(\d+)`),
	},
	"kalshi": {
		regexp.MustCompile(`kalshi\.com/markets/([a-zA-Z0-9\-]+)`),
		regexp.MustCompile(`kalshi:([a-zA-Z0-9\-]+)`),
	},
	"predictit": {
		regexp.MustCompile(`predictit\.org/markets/detail/(\d+)`),
		regexp.MustCompile(`predictit:(\d+)`),
	},
}

// platformWords route text to the prediction parser even without a link.
var platformWords = []string{"polymarket", "manifold", "metaculus", "kalshi", "predictit"}

// qualitativeProbability maps hedging phrases to an implied probability
// when no explicit percentage is stated. Longer phrases are checked first.
var qualitativeProbability = []struct {
	Phrase string
	Prob   float64
}{
	{"very unlikely", 0.20},
	{"very likely", 0.80},
	{"long shot", 0.15},
	{"no chance", 0.05},
	{"coin flip", 0.50},
	{"toss up", 0.50},
	{"unlikely", 0.30},
	{"probable", 0.65},
	{"likely", 0.70},
}
