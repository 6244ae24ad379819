// Package hisaab turns terse personal-finance notes into structured records
// and checks them against the money trail. It is designed to be local-first
// and auditable: plain text in, reviewable JSONL out, and every derived
// result recomputable from its inputs.
//
// The core functionalities include:
//   - Ledger Parsing: Converting shorthand ledger blocks ("500/- swiggy
//     dinner (mk)") into typed expense, income, transfer, splitwise and
//     adjustment records, with day headers, splits and per-line error
//     collection.
//   - Hint Extraction: A reduced read of a single day's file that yields
//     amount and source hints for reconciliation without committing records.
//   - Reconciliation: A two-stage, recompute-from-scratch engine matching
//     ledger hints against payment notifications and payments against
//     purchase orders, with explicit tolerances and day windows.
//   - Order Flattening: Normalizing per-merchant order payloads into uniform
//     line items and assigning orders to the ledger records they settle.
//   - Data Persistence: Encoding and decoding records, payments and orders
//     to and from human-readable JSONL.
//
// This package serves as the foundational logic for the `hk` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package hisaab
