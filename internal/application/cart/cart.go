// Package cart implements the shopping cart. Adding to the cart reserves
// stock and removing from it gives the stock back, both in one unit of work.
package cart

const (
	cartService       = "cart-service"
	useCaseListCart   = "cart.list"
	useCaseAddToCart  = "cart.add"
	useCaseRemoveItem = "cart.remove"
)
