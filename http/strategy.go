package http

import "github.com/IDGORRU/pars"

// Strategies returns the default strategy chain: the three relays in order
// followed by a direct request with a Chrome TLS fingerprint. opts apply to
// every fetcher.
func Strategies(opts ...Option) []pars.StrategyFetcher {
	relay := func(r Relay) *Fetcher {
		return NewFetcher(append([]Option{WithRelay(r)}, opts...)...)
	}
	return []pars.StrategyFetcher{
		{Strategy: pars.StrategyProxyA, Fetcher: relay(AllOrigins)},
		{Strategy: pars.StrategyProxyB, Fetcher: relay(CorsProxy)},
		{Strategy: pars.StrategyProxyC, Fetcher: relay(CodeTabs)},
		{Strategy: pars.StrategyDirect, Fetcher: NewFetcher(append([]Option{WithChromeTLS()}, opts...)...)},
	}
}
