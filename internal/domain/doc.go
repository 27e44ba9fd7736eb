// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/todo). This root package
// holds the sentinel errors that store adapters return and handlers translate.
package domain
