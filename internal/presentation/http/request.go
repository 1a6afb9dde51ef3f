package httppresentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
)

const maxBodyBytes = 1 << 20

type addToCartRequest struct {
	ProductID *int64 `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

func (r addToCartRequest) validate() error {
	if r.ProductID == nil {
		return application.NewValidation("product_id is required")
	}
	return nil
}

type purchaseRequest struct {
	CartItems   []purchaseItem `json:"cartItems"`
	PaymentInfo *paymentInfo   `json:"paymentInfo"`
}

// purchaseItem mirrors a row of GET /cart. Only product_id and quantity are used;
// the echoed product summary is accepted and ignored.
type purchaseItem struct {
	ID        *int64          `json:"id,omitempty"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *productSummary `json:"product,omitempty"`
}

type paymentInfo struct {
	PaymentMethod string `json:"payment_method"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type productJSON struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         json.Number `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	ImageURL      string      `json:"image_url"`
}

func newProductJSON(p *catalog.Product) productJSON {
	return productJSON{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         money(p.Price),
		StockQuantity: p.Stock,
		ImageURL:      p.ImageURL,
	}
}

type productsResponse struct {
	Products []productJSON `json:"products"`
}

type productSummary struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	ImageURL string      `json:"image_url"`
}

type cartItemJSON struct {
	ID        int64          `json:"id"`
	ProductID int64          `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Product   productSummary `json:"product"`
}

func newCartItemJSON(l cart.Line) cartItemJSON {
	return cartItemJSON{
		ID:        l.Item.ID,
		ProductID: l.Item.ProductID,
		Quantity:  l.Item.Quantity,
		Product: productSummary{
			Name:     l.Product.Name,
			Price:    money(l.Product.Price),
			ImageURL: l.Product.ImageURL,
		},
	}
}

type cartResponse struct {
	CartItems []cartItemJSON `json:"cart_items"`
}

type purchaseResponse struct {
	Message     string      `json:"message"`
	OrderID     int64       `json:"order_id"`
	TotalAmount json.Number `json:"total_amount"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// money renders an amount as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// decodeJSON reads exactly one JSON object into dst. Every failure is a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return application.NewValidation(describeDecodeError(err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return application.NewValidation("request body must contain a single JSON object")
	}
	return nil
}

func describeDecodeError(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is not valid JSON"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
	case errors.As(err, &maxErr):
		return "request body is too large"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "request body is invalid"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeDomainError maps err to a status and a client-safe message. Anything
// unrecognised is a 500 with the route's generic message and its cause logged.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	switch {
	case errors.Is(err, application.ErrValidation):
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrOutOfStock):
		writeMessage(w, http.StatusBadRequest, "Item is out of stock or does not exist!")
	case errors.Is(err, cart.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Cart item not found!")
	case errors.Is(err, order.ErrEmpty):
		writeMessage(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, identity.ErrAlreadyExists):
		writeMessage(w, http.StatusBadRequest, "User already exists!")
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials!")
	case errors.Is(err, identity.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Missing or invalid token")
	default:
		h.logServerError(r, err)
		writeMessage(w, http.StatusInternalServerError, generic)
	}
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), application.ErrValidation.Error()+": ")
}
