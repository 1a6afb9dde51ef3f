// Package httppresentation exposes the shop over HTTP/JSON.
package httppresentation

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
	appcatalog "github.com/Zhima-Mochi/minishop-cart/internal/application/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/application/checkout"
	appidentity "github.com/Zhima-Mochi/minishop-cart/internal/application/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

const componentHTTPHandler = "http_server"

// UseCases is everything the HTTP layer calls into.
type UseCases struct {
	ListProducts   application.UseCase[appcatalog.ListProductsQuery, *appcatalog.ListProductsResult]
	ListCart       application.UseCase[appcart.ListCartQuery, *appcart.ListCartResult]
	AddToCart      application.UseCase[appcart.AddToCartInput, *appcart.AddToCartResult]
	RemoveFromCart application.UseCase[appcart.RemoveFromCartInput, *appcart.RemoveFromCartResult]
	Purchase       application.UseCase[checkout.PurchaseInput, *checkout.PurchaseResult]
	Register       application.UseCase[appidentity.RegisterInput, *appidentity.RegisterResult]
	Login          application.UseCase[appidentity.LoginInput, *appidentity.LoginResult]
	Authenticate   application.UseCase[appidentity.AuthenticateInput, identity.Identity]
}

type Options struct {
	ServiceName string
	// AuthRequired gates the catalog, cart and purchase routes behind a bearer token.
	AuthRequired bool
	CORSOrigins  []string
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
}

type Handler struct {
	uc         UseCases
	opts       Options
	log        observability.Logger
	tracerName string

	httpRequests observability.Counter
	httpDuration observability.Histogram
}

func NewHandler(uc UseCases, opts Options, tel observability.Observability) *Handler {
	tel = observability.OrNop(tel)
	name := opts.ServiceName
	if name == "" {
		name = "minishop"
	}
	return &Handler{
		uc:           uc,
		opts:         opts,
		log:          tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tracerName:   name + ".http",
		httpRequests: tel.Metrics().Counter(observability.MHTTPRequests),
		httpDuration: tel.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.muxHandle(mux, "GET /products", h.handleListProducts, h.opts.AuthRequired)
	h.muxHandle(mux, "GET /cart", h.handleListCart, h.opts.AuthRequired)
	h.muxHandle(mux, "POST /cart/add", h.handleAddToCart, h.opts.AuthRequired)
	h.muxHandle(mux, "DELETE /cart/remove/{id}", h.handleRemoveFromCart, h.opts.AuthRequired)
	h.muxHandle(mux, "POST /purchase", h.handlePurchase, h.opts.AuthRequired)
	h.muxHandle(mux, "POST /register", h.handleRegister, false)
	h.muxHandle(mux, "POST /login", h.handleLogin, false)
	h.muxHandle(mux, "GET /health", h.handleHealth, false)
	if h.opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	origins := h.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
	}).Handler(mux)
}

// muxHandle wires a route as Trace → request logger → access log → metrics → auth → handler.
func (h *Handler) muxHandle(mux *http.ServeMux, pattern string, handler http.HandlerFunc, auth bool) {
	var next http.Handler = handler
	if auth {
		next = h.withAuth(next)
	}
	wrapped := h.withTrace(
		ObservabilityMiddleware(h.log, func(r *http.Request) string {
			return r.Header.Get(headerRequestID)
		})(
			h.withAccessLog(
				h.withHTTPMetrics(next),
			),
		),
	)
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		// Store stable route template for low-cardinality labels
		wrapped.ServeHTTP(w, r.WithContext(contextWithRoute(r.Context(), pattern)))
	})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.ListProducts.Execute(r.Context(), appcatalog.ListProductsQuery{})
	if err != nil {
		h.writeDomainError(w, r, err, "Error fetching products")
		return
	}
	out := productsResponse{Products: make([]productJSON, 0, len(res.Products))}
	for _, p := range res.Products {
		out.Products = append(out.Products, newProductJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListCart(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.ListCart.Execute(r.Context(), appcart.ListCartQuery{})
	if err != nil {
		h.writeDomainError(w, r, err, "Error fetching cart items")
		return
	}
	out := cartResponse{CartItems: make([]cartItemJSON, 0, len(res.Lines))}
	for _, l := range res.Lines {
		out.CartItems = append(out.CartItems, newCartItemJSON(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeDomainError(w, r, err, "Error adding item to cart")
		return
	}
	if err := req.validate(); err != nil {
		h.writeDomainError(w, r, err, "Error adding item to cart")
		return
	}

	qty := appcart.DefaultQuantity
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if _, err := h.uc.AddToCart.Execute(r.Context(), appcart.AddToCartInput{
		ProductID: *req.ProductID,
		Quantity:  qty,
	}); err != nil {
		h.writeDomainError(w, r, err, "Error adding item to cart")
		return
	}
	writeMessage(w, http.StatusOK, "Item added to cart successfully!")
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "cart item id must be a positive integer")
		return
	}
	if _, err := h.uc.RemoveFromCart.Execute(r.Context(), appcart.RemoveFromCartInput{CartItemID: id}); err != nil {
		h.writeDomainError(w, r, err, "Error removing item from cart")
		return
	}
	writeMessage(w, http.StatusOK, "Item removed from cart successfully!")
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeDomainError(w, r, err, "Error completing purchase")
		return
	}

	in := checkout.PurchaseInput{Lines: make([]checkout.PurchaseLine, 0, len(req.CartItems))}
	for _, item := range req.CartItems {
		in.Lines = append(in.Lines, checkout.PurchaseLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if req.PaymentInfo != nil {
		in.PaymentMethod = req.PaymentInfo.PaymentMethod
	}

	res, err := h.uc.Purchase.Execute(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, r, err, "Error completing purchase")
		return
	}
	writeJSON(w, http.StatusOK, purchaseResponse{
		Message:     "Purchase completed successfully!",
		OrderID:     res.OrderID,
		TotalAmount: money(res.TotalAmount),
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeDomainError(w, r, err, "Error registering user")
		return
	}
	if _, err := h.uc.Register.Execute(r.Context(), appidentity.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}); err != nil {
		h.writeDomainError(w, r, err, "Error registering user")
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully!")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeDomainError(w, r, err, "Error logging in")
		return
	}
	res, err := h.uc.Login.Execute(r.Context(), appidentity.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeDomainError(w, r, err, "Error logging in")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// logServerError records the cause of a 500; clients only ever see the route message.
func (h *Handler) logServerError(r *http.Request, err error) {
	fields := []observability.Field{
		observability.F("method", r.Method),
		observability.F("route", routeFromContext(r.Context())),
		observability.Err(err),
	}
	if id, ok := identityFromContext(r.Context()); ok {
		fields = append(fields, observability.F("caller_id", id.UserID))
	}
	logctx.FromOr(r.Context(), h.log).Error("http_request_failed", fields...)
}
