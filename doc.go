// Package lotledger maintains a running ledger of asset buy and sell
// transactions and reconciles every sell against the prior buy lots of the
// same asset, oldest lot first.
//
// The core is made of three parts:
//   - Ledger: the date-ordered sequence of [Lot] records. A lot is one buy
//     transaction together with the sell fulfillment accumulated against it.
//   - Engine: ingests one [Transaction] at a time, inserting buys in date order
//     and matching sells against the open lots, splitting a lot when a sell
//     only consumes part of it.
//   - Summarize: reduces a ledger into per-asset and grand totals (invested
//     value, realized profit or loss, quantity in hand).
//
// Data inconsistencies found on the way, like a sell exceeding the quantity
// held, are reported as [Anomaly] values and never silently corrected.
//
// Parsing of broker exports lives in package csvimport, persistence of the
// transaction history in package history, and the `lots` command line tool
// in package cmd.
package lotledger
