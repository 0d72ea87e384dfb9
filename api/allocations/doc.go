// Package allocations exposes the planner over HTTP with gin.
package allocations
