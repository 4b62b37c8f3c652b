// Package application provides application initialization and dependency wiring.
// It loads the product and container catalogs, then assembles the fit
// calculator, metrics, handlers, routers and HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
