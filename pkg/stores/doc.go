// Package stores persists run history for the deployer in a local SQLite
// database: one row per run plus per-step records with captured command
// output. The store is observability only; lifecycle decisions never read
// from it, and store failures never abort a run.
package stores
