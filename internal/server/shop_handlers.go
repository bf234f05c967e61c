package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/naturemagic/internal/apperr"
	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/checkout"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

type cartResponse struct {
	Items   []cart.Item      `json:"items"`
	Pricing pricing.Snapshot `json:"pricing"`
	Locked  bool             `json:"locked"`
	Index   *int             `json:"index,omitempty"`
}

// addItemRequest adds one unit; an empty variant id picks the product's first variant.
type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type submitRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

func (s *Server) listCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": s.deps.Catalog.Products()})
}

func (s *Server) getCatalogProduct(c *gin.Context) {
	p, err := s.deps.Catalog.Product(c.Param("productID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) cartView(c *gin.Context, session string, crt *cart.Cart) cartResponse {
	return cartResponse{
		Items:   crt.Items,
		Pricing: pricing.ComputeCart(s.deps.Policy, crt),
		Locked:  s.deps.Checkout.Locked(session),
	}
}

func (s *Server) getCart(c *gin.Context) {
	session := c.Param("session")
	crt, err := s.deps.Carts.Cart(c.Request.Context(), session)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView(c, session, crt))
}

// editCart runs a cart mutation, then pushes the new cart into the checkout page.
// The cart service rejects mutations with checkout.ErrCheckoutLocked while the
// session's order is processing.
func (s *Server) editCart(c *gin.Context, status int, edit func(session string) (*cart.Cart, *int, error)) {
	session := c.Param("session")
	crt, index, err := edit(session)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.deps.Checkout.Refresh(c.Request.Context(), session); err != nil {
		s.respondError(c, err)
		return
	}

	resp := s.cartView(c, session, crt)
	resp.Index = index
	c.JSON(status, resp)
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	s.editCart(c, http.StatusCreated, func(session string) (*cart.Cart, *int, error) {
		ctx := c.Request.Context()
		if req.VariantID != "" {
			crt, index, err := s.deps.Carts.Add(ctx, session, req.ProductID, req.VariantID)
			return crt, &index, err
		}
		product, err := s.deps.Catalog.Product(req.ProductID)
		if err != nil {
			return nil, nil, err
		}
		crt, index, err := s.deps.Carts.AddProduct(ctx, session, product, product.DefaultVariant())
		return crt, &index, err
	})
}

func (s *Server) updateCartItem(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	s.editCart(c, http.StatusOK, func(session string) (*cart.Cart, *int, error) {
		crt, err := s.deps.Carts.UpdateQuantity(c.Request.Context(), session, index, req.Quantity)
		return crt, nil, err
	})
}

func (s *Server) removeCartItem(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.editCart(c, http.StatusOK, func(session string) (*cart.Cart, *int, error) {
		crt, err := s.deps.Carts.Remove(c.Request.Context(), session, index)
		return crt, nil, err
	})
}

func indexParam(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("invalid line index %q", c.Param("index")))
	}
	return index, nil
}

func (s *Server) mountCheckout(c *gin.Context) {
	view, err := s.deps.Checkout.Mount(c.Request.Context(), c.Param("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.checkoutResponse(c, http.StatusOK, view)
}

func (s *Server) viewCheckout(c *gin.Context) {
	view, err := s.deps.Checkout.View(c.Request.Context(), c.Param("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.checkoutResponse(c, http.StatusOK, view)
}

// submitCheckout takes the idempotency key from the Idempotency-Key header or the body.
func (s *Server) submitCheckout(c *gin.Context) {
	var req submitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.badRequest(c, err)
			return
		}
	}
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		key = req.IdempotencyKey
	}

	view, err := s.deps.Checkout.Submit(c.Request.Context(), c.Param("session"), key)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.checkoutResponse(c, http.StatusAccepted, view)
}

func (s *Server) cancelCheckout(c *gin.Context) {
	view, err := s.deps.Checkout.Cancel(c.Request.Context(), c.Param("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.checkoutResponse(c, http.StatusOK, view)
}

func (s *Server) acceptUpsell(c *gin.Context) {
	view, err := s.deps.Checkout.AcceptUpsell(c.Request.Context(), c.Param("session"), c.Param("productID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.checkoutResponse(c, http.StatusOK, view)
}

func (s *Server) checkoutResponse(c *gin.Context, status int, view checkout.View) {
	upsells, err := s.deps.Checkout.Upsells(c.Request.Context(), view.SessionID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"checkout": view,
		"upsells":  upsells,
	})
}
