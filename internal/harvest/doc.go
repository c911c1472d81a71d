// Package harvest simulates tax-loss harvesting over a portfolio.
//
// Every figure is derived on demand from three inputs: the baseline capital
// gains summary, the holdings and the caller's Selection. Nothing derived is
// cached, so callers recompute after each selection change simply by calling
// Evaluate again. All functions are pure and safe to call concurrently as long
// as the Selection passed in is not mutated at the same time.
package harvest
