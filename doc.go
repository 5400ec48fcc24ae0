// Package payoff projects the profit and loss of a multi-leg options and
// stock portfolio over a range of hypothetical underlying prices.
//
// The core functionalities include:
//   - Option Pricing: a closed-form European valuator ([Price]) with an
//     intrinsic-value short-circuit at expiry.
//   - Portfolio Valuation: a stateless engine ([Evaluate]) that maps a list
//     of [Position] and a price grid to three P&L curves: today, halfway to
//     expiry and at expiry.
//   - Price Grids: evenly spaced grids around the spot price, with zoom in
//     and zoom out steps ([Range]).
//   - Reports: the glue ([NewReport]) that fetches a spot price from a
//     [Quoter], derives the valuation [Context] and evaluates the curves,
//     ready to be rendered.
//
// Loading positions from a broker export, fetching quotes, and rendering
// charts live in sibling packages; this package owns no I/O and holds no
// state between calls.
package payoff
